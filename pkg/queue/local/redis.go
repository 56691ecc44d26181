package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/postal/pkg/queue"
)

const defaultListKey = "postal:tasks"

// Redis is a broker backed by a Redis list, for deployments where the
// enqueuing process and the consuming process are separate instances of
// the same application.
type Redis struct {
	client redis.UniversalClient
	key    string
}

// RedisOption configures a Redis broker.
type RedisOption func(*Redis)

// WithListKey overrides the Redis list key holding pending envelopes.
func WithListKey(key string) RedisOption {
	return func(r *Redis) {
		if key != "" {
			r.key = key
		}
	}
}

// NewRedis creates a Redis-backed broker. The client's lifecycle belongs
// to the caller.
func NewRedis(client redis.UniversalClient, opts ...RedisOption) (*Redis, error) {
	if client == nil {
		return nil, ErrBrokerRequired
	}
	r := &Redis{client: client, key: defaultListKey}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Open connects to Redis by URL and wraps the client in a broker.
// Supports redis:// and rediss:// schemes.
func Open(url string, opts ...RedisOption) (*Redis, error) {
	redisOpts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("local: parse redis url: %w", err)
	}
	return NewRedis(redis.NewClient(redisOpts), opts...)
}

// Publish implements Broker.
func (r *Redis) Publish(ctx context.Context, env queue.Envelope) (string, error) {
	body, err := json.Marshal(env)
	if err != nil {
		return "", err
	}
	if err := r.client.LPush(ctx, r.key, body).Err(); err != nil {
		return "", fmt.Errorf("local: publish envelope: %w", err)
	}
	return uuid.NewString(), nil
}

// Receive implements Broker. It polls with a short blocking pop so that
// context cancellation is honored between attempts.
func (r *Redis) Receive(ctx context.Context) (*queue.Envelope, error) {
	for {
		vals, err := r.client.BRPop(ctx, time.Second, r.key).Result()
		switch {
		case errors.Is(err, redis.Nil):
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		case err != nil:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("local: receive envelope: %w", err)
		}

		// BRPOP returns [key, value].
		if len(vals) != 2 {
			return nil, fmt.Errorf("local: unexpected BRPOP reply of %d values", len(vals))
		}
		return queue.ParseEnvelope([]byte(vals[1]))
	}
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
