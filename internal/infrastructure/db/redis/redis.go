package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
)

const defaultTimeout = 5 * time.Second

// Config captures the settings for establishing a Redis connection.
type Config struct {
	Addr    string
	DB      int
	Timeout time.Duration
	// MaxElapsed bounds how long Connect keeps retrying the initial ping.
	MaxElapsed time.Duration
	OnRetry    func(err error, wait time.Duration)
}

// Connect initialises a Redis client and validates connectivity with a ping.
// A default timeout is applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	ping := func() error {
		pingCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return client.Ping(pingCtx).Err()
	}

	var policy backoff.BackOff = &backoff.StopBackOff{}
	if cfg.MaxElapsed > 0 {
		b := backoff.NewExponentialBackOff()
		b.MaxElapsedTime = cfg.MaxElapsed
		policy = b
	}

	if err := backoff.RetryNotify(ping, backoff.WithContext(policy, ctx), cfg.OnRetry); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
