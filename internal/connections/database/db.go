package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/srithedesigner/bunniesBurger/internal/config"
)

type Conn struct{ *pgxpool.Pool }

// Connect opens a pgx pool and waits for the database to become reachable.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*Conn, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	const (
		maxRetries = 10
		retryDelay = 2 * time.Second
		pingTTL    = 5 * time.Second
	)

	var lastErr error
	for i := 1; i <= maxRetries; i++ {
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("db pool: %w", err)
		}

		pctx, cancel := context.WithTimeout(ctx, pingTTL)
		err = pool.Ping(pctx)
		cancel()
		if err == nil {
			return &Conn{Pool: pool}, nil
		}
		lastErr = err
		pool.Close()

		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			return nil, fmt.Errorf("db connect canceled: %w", ctx.Err())
		}
	}
	return nil, fmt.Errorf("database unreachable after %d attempts: %w", maxRetries, lastErr)
}

func (c *Conn) Close() {
	if c != nil && c.Pool != nil {
		c.Pool.Close()
	}
}
