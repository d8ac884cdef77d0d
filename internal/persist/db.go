package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gridsnake/engine/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ErrSchemaMissing is returned by Check when a score table is absent.
var ErrSchemaMissing = errors.New("score schema missing")

// scoreTables are created by the migrations.
var scoreTables = []string{"games", "player_best"}

// DB wraps the pgx pool that backs the score history.
type DB struct {
	Pool *pgxpool.Pool
	log  *zap.Logger
}

// Health is a snapshot of the score schema and pool usage.
type Health struct {
	Tables     int
	TotalConns int32
	IdleConns  int32
}

func NewDB(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (*DB, error) {
	if log == nil {
		log = zap.NewNop()
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 && int32(cfg.MaxIdleConns) <= poolCfg.MaxConns {
		poolCfg.MinConns = int32(cfg.MaxIdleConns)
	}
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	if _, ok := poolCfg.ConnConfig.RuntimeParams["application_name"]; !ok {
		poolCfg.ConnConfig.RuntimeParams["application_name"] = "gridsnake"
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open score pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping score db: %w", err)
	}

	log.Debug("score database ready",
		zap.String("host", poolCfg.ConnConfig.Host),
		zap.String("database", poolCfg.ConnConfig.Database),
		zap.Int32("max_conns", poolCfg.MaxConns),
	)
	return &DB{Pool: pool, log: log}, nil
}

// Check verifies that every score table exists and reports pool usage.
// Run it after RunMigrations.
func (db *DB) Check(ctx context.Context) (Health, error) {
	var h Health
	for _, table := range scoreTables {
		var exists bool
		err := db.Pool.QueryRow(ctx, `SELECT to_regclass($1) IS NOT NULL`, table).Scan(&exists)
		if err != nil {
			return h, fmt.Errorf("check table %s: %w", table, err)
		}
		if !exists {
			return h, fmt.Errorf("table %s: %w", table, ErrSchemaMissing)
		}
		h.Tables++
	}
	st := db.Pool.Stat()
	h.TotalConns = st.TotalConns()
	h.IdleConns = st.IdleConns()
	db.log.Debug("score schema ok",
		zap.Int("tables", h.Tables),
		zap.Int32("conns", h.TotalConns),
	)
	return h, nil
}

func (db *DB) Close() {
	db.Pool.Close()
}
