//go:build integration

package local_test

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/postal/pkg/queue/local"
)

const testRedisURL = "redis://localhost:6379/0"

func newTestRedisClient(t *testing.T) goredis.UniversalClient {
	t.Helper()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = testRedisURL
	}

	opts, err := goredis.ParseURL(url)
	require.NoError(t, err)
	client := goredis.NewClient(opts)

	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err(), "failed to connect to Redis")

	t.Cleanup(func() {
		_ = client.FlushDB(ctx).Err()
		_ = client.Close()
	})

	return client
}

func TestRedis_PublishReceive(t *testing.T) {
	client := newTestRedisClient(t)

	broker, err := local.NewRedis(client, local.WithListKey("postal:test:tasks"))
	require.NoError(t, err)

	_, err = broker.Publish(context.Background(), testEnvelope(9))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	env, err := broker.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(9), env.TaskID)
	assert.Equal(t, "send_email", env.TaskName)
}

func TestRedis_ReceiveHonorsContext(t *testing.T) {
	client := newTestRedisClient(t)

	broker, err := local.NewRedis(client, local.WithListKey("postal:test:empty"))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err = broker.Receive(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
