package postal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/postal"
	"github.com/dmitrymomot/postal/pkg/queue/cloudtasks"
)

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, baseConfig().Validate())
	})

	tests := []struct {
		name    string
		mutate  func(*postal.Config)
		wantErr error
	}{
		{
			name:    "unknown provider",
			mutate:  func(c *postal.Config) { c.Provider = "pigeon" },
			wantErr: postal.ErrUnknownProvider,
		},
		{
			name:    "unknown task system",
			mutate:  func(c *postal.Config) { c.TaskSystem = "celery" },
			wantErr: postal.ErrUnknownTaskSystem,
		},
		{
			name:    "unknown broker",
			mutate:  func(c *postal.Config) { c.Broker = "kafka" },
			wantErr: postal.ErrUnknownBroker,
		},
		{
			name:    "missing secret",
			mutate:  func(c *postal.Config) { c.SecretKey = "" },
			wantErr: postal.ErrMissingSecret,
		},
		{
			name:    "redis broker without url",
			mutate:  func(c *postal.Config) { c.Broker = postal.BrokerRedis },
			wantErr: postal.ErrMissingRedisURL,
		},
		{
			name:    "invalid timezone",
			mutate:  func(c *postal.Config) { c.Timezone = "Mars/Olympus" },
			wantErr: postal.ErrInvalidTimezone,
		},
		{
			name: "cloudtasks without project",
			mutate: func(c *postal.Config) {
				c.TaskSystem = postal.TaskSystemCloudTasks
				c.HandlerBaseURL = "https://app.example.com"
			},
			wantErr: cloudtasks.ErrMissingProject,
		},
		{
			name: "cloudtasks without callback url",
			mutate: func(c *postal.Config) {
				c.TaskSystem = postal.TaskSystemCloudTasks
				c.CloudTasks = cloudtasks.Config{Project: "p", Location: "us-east1", Queue: "emails"}
			},
			wantErr: cloudtasks.ErrMissingCallbackURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := baseConfig()
			tt.mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestConfigCallbackURL(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	assert.Empty(t, cfg.CallbackURL())
	assert.Equal(t, "/api/gcloud/tasks/", cfg.CallbackPath())

	cfg.HandlerBaseURL = "https://app.example.com"
	assert.Equal(t, "https://app.example.com/api/gcloud/tasks/", cfg.CallbackURL())

	cfg.HandlerBaseURL = "https://app.example.com/"
	assert.Equal(t, "https://app.example.com/api/gcloud/tasks/", cfg.CallbackURL())

	cfg.QueuePrefix = "internal"
	assert.Equal(t, "https://app.example.com/api/internal/tasks/", cfg.CallbackURL())
}
