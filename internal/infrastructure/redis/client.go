package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ClientName is reported to the server with CLIENT SETNAME.
const ClientName = "cashdesk"

// Option tunes the client built by NewClient.
type Option func(*redis.Options)

// WithPoolSize caps the number of open connections.
func WithPoolSize(n int) Option {
	return func(o *redis.Options) {
		o.PoolSize = n
	}
}

// WithTimeouts overrides the dial and per-command deadlines.
func WithTimeouts(dial, command time.Duration) Option {
	return func(o *redis.Options) {
		o.DialTimeout = dial
		o.ReadTimeout = command
		o.WriteTimeout = command
	}
}

// NewClient connects to the store holding the balance cache, idempotency keys
// and shortfall proposals. Every caller treats the store as optional, so the
// defaults give up quickly instead of queueing behind a slow server.
func NewClient(ctx context.Context, redisURL string, opts ...Option) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	options.ClientName = ClientName
	options.DialTimeout = 2 * time.Second
	options.ReadTimeout = 500 * time.Millisecond
	options.WriteTimeout = 500 * time.Millisecond
	options.PoolTimeout = time.Second
	options.PoolSize = 20
	options.MinIdleConns = 2
	options.MaxRetries = 1
	for _, opt := range opts {
		opt(options)
	}

	client := redis.NewClient(options)

	pingCtx, cancel := context.WithTimeout(ctx, options.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis unreachable at %s: %w", options.Addr, err)
	}

	return client, nil
}
