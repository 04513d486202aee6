package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"bidpilot/internal/config/configs"
)

// NewPostgresPool opens a pgx connection pool against the configured
// database and verifies connectivity with a 5 second ping. The caller owns
// the returned pool and must close it.
func NewPostgresPool(ctx context.Context, cfg configs.Postgres) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.Addr.String())
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
