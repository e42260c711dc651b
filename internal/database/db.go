package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/octobees/leads-generator/outreach/internal/config"
)

// Connect opens the leads database pool sized by cfg and pings it within
// cfg.ConnectTimeout. Zero values in cfg keep pgxpool's own defaults.
func Connect(ctx context.Context, dsn string, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := poolConfig(dsn, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, eris.Wrap(err, "create pgx pool")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrapf(err, "ping database within %s", cfg.ConnectTimeout)
	}

	return pool, nil
}

func poolConfig(dsn string, cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	if dsn == "" {
		return nil, eris.New("DATABASE_URL must not be empty")
	}

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, eris.Wrap(err, "parse DATABASE_URL")
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 && cfg.MinConns <= poolCfg.MaxConns {
		poolCfg.MinConns = cfg.MinConns
	}
	setDuration(&poolCfg.MaxConnLifetime, cfg.MaxConnLifetime)
	setDuration(&poolCfg.MaxConnIdleTime, cfg.MaxConnIdleTime)
	setDuration(&poolCfg.HealthCheckPeriod, cfg.HealthCheckPeriod)

	return poolCfg, nil
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}
