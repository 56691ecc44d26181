package postal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrymomot/postal/pkg/mailer/mailgun"
	"github.com/dmitrymomot/postal/pkg/mailer/resend"
	"github.com/dmitrymomot/postal/pkg/queue/cloudtasks"
)

// Provider selects the delivery backend for outgoing email.
const (
	ProviderConsole = "console"
	ProviderMailgun = "mailgun"
	ProviderResend  = "resend"
)

// TaskSystem selects how deferred sends are dispatched.
const (
	TaskSystemLocal      = "local"
	TaskSystemCloudTasks = "cloudtasks"
)

// Broker selects the transport for the local task system.
const (
	BrokerNone   = "none"
	BrokerMemory = "memory"
	BrokerRedis  = "redis"
)

// Config holds all service settings. Fields are populated from
// environment variables by the host application.
type Config struct {
	// Provider selects the delivery backend: console, mailgun or resend.
	Provider string `env:"POSTAL_PROVIDER" envDefault:"console"`

	// TaskSystem selects the deferred-execution dispatcher: local or cloudtasks.
	TaskSystem string `env:"POSTAL_TASK_SYSTEM" envDefault:"local"`

	// Broker is the transport for the local task system: none runs tasks
	// inline, memory uses an in-process queue, redis uses a shared list.
	Broker   string `env:"POSTAL_BROKER" envDefault:"none"`
	RedisURL string `env:"POSTAL_REDIS_URL"`

	// SecretKey authenticates task callbacks. Required.
	SecretKey string `env:"POSTAL_SECRET_KEY,required"`

	// QueuePrefix is the path segment of the callback endpoint:
	// POST /api/<prefix>/tasks/.
	QueuePrefix string `env:"POSTAL_QUEUE_PREFIX" envDefault:"gcloud"`

	// HandlerBaseURL is the public base URL where the callback handler is
	// mounted. Required for the cloudtasks task system.
	HandlerBaseURL string `env:"POSTAL_HANDLER_BASE_URL"`

	// Timezone used for timestamps in task results and console output.
	Timezone string `env:"POSTAL_TIMEZONE" envDefault:"UTC"`

	// DefaultFrom is used when the caller does not set a sender address.
	DefaultFrom string `env:"POSTAL_DEFAULT_FROM"`

	// TemplateCacheTTL bounds staleness of the template read cache.
	TemplateCacheTTL time.Duration `env:"POSTAL_TEMPLATE_CACHE_TTL" envDefault:"5m"`

	CloudTasks cloudtasks.Config
	Mailgun    mailgun.Config
	Resend     resend.Config
}

// Validate fails fast on unknown enum values and missing settings.
// Provider credentials are checked later by the sender constructors.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderConsole, ProviderMailgun, ProviderResend:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.Provider)
	}

	switch c.TaskSystem {
	case TaskSystemLocal, TaskSystemCloudTasks:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTaskSystem, c.TaskSystem)
	}

	switch c.Broker {
	case BrokerNone, BrokerMemory, BrokerRedis:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBroker, c.Broker)
	}

	if c.SecretKey == "" {
		return ErrMissingSecret
	}
	if c.Broker == BrokerRedis && c.TaskSystem == TaskSystemLocal && c.RedisURL == "" {
		return ErrMissingRedisURL
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return errors.Join(ErrInvalidTimezone, err)
	}

	if c.TaskSystem == TaskSystemCloudTasks {
		ct := c.CloudTasks
		if ct.CallbackURL == "" {
			ct.CallbackURL = c.CallbackURL()
		}
		if err := ct.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// CallbackURL returns the absolute URL of the task callback endpoint,
// derived from HandlerBaseURL and QueuePrefix.
func (c Config) CallbackURL() string {
	if c.HandlerBaseURL == "" {
		return ""
	}
	return strings.TrimSuffix(c.HandlerBaseURL, "/") + c.CallbackPath()
}

// CallbackPath returns the relative path of the task callback endpoint.
func (c Config) CallbackPath() string {
	return "/api/" + c.QueuePrefix + "/tasks/"
}

func (c Config) location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
