// Package persistence owns the PostgreSQL connection pool and the statement
// executor the repositories share.
package persistence

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"

	"example.com/killboard/internal/config"
	"example.com/killboard/internal/observability"
)

// pingTimeout bounds the startup connectivity check.
const pingTimeout = 10 * time.Second

// NewPool builds the pgx connection pool from config. The pool is the only
// owner of physical connections; repositories borrow one per statement
// through the Executor. Pool capacity comes from the configured connection
// limit, so at most that many statements run concurrently and the rest
// queue inside Acquire.
func NewPool(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*pgxpool.Pool, error) {
	hostPort := net.JoinHostPort(cfg.Database.Host, strconv.Itoa(cfg.Database.Port))
	dsn := fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		cfg.Database.User,
		url.QueryEscape(cfg.Database.Password),
		hostPort,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool config: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.Database.ConnLimit)

	if cfg.Env == "local" {
		// Statement tracing is local-only.
		poolConfig.ConnConfig.Tracer = &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(log),
			LogLevel: tracelog.LogLevelDebug,
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	observability.RegisterPoolStats(
		func() float64 { return float64(pool.Stat().AcquiredConns()) },
		func() float64 { return float64(pool.Stat().IdleConns()) },
		func() float64 { return float64(pool.Stat().MaxConns()) },
	)

	log.Info().
		Str("host", cfg.Database.Host).
		Str("database", cfg.Database.Name).
		Int("conn_limit", cfg.Database.ConnLimit).
		Msg("connected to postgres")

	return pool, nil
}
