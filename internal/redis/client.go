// Package redis wraps go-redis so stores depend on a local client type.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/charforge/internal/errors"
)

// Options configures the connection to a single Redis instance
type Options struct {
	DB           int
	Password     string
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxRetries   int
}

// NewClient creates a client without touching the network. An unreachable
// endpoint surfaces on first use.
func NewClient(endpoint string, opts *Options) (Client, error) {
	if endpoint == "" {
		return nil, errors.InvalidArgument("redis endpoint is required")
	}
	if opts == nil {
		opts = &Options{}
	}

	return redis.NewClient(&redis.Options{
		Addr:         endpoint,
		DB:           opts.DB,
		Password:     opts.Password,
		PoolSize:     opts.PoolSize,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		MaxRetries:   opts.MaxRetries,
	}), nil
}

// Connect creates a client and pings it so a bad address fails at startup
func Connect(ctx context.Context, endpoint string, opts *Options) (Client, error) {
	client, err := NewClient(endpoint, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.PersistenceFailuref(err, "redis at %s is unreachable", endpoint)
	}
	return client, nil
}
