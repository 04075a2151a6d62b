package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"palava-proof/internal/config"
	"palava-proof/internal/infrastructure/database/repository"
	"palava-proof/pkg/logger"
)

const connectTimeout = 10 * time.Second

// PostgresDB is the shared report backend
type PostgresDB struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

// NewPostgres opens a pgx pool and verifies the server answers within the
// connect timeout
func NewPostgres(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*PostgresDB, error) {
	log = log.WithComponent("postgres")

	pc, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, pc)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach report database %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	log.Info().
		Str("host", cfg.Host).
		Str("dbname", cfg.DBName).
		Int32("max_conns", pc.MaxConns).
		Msg("report database connected")

	return &PostgresDB{pool: pool, logger: log}, nil
}

// poolConfig parses the DSN and applies the pool limits that are set
func poolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		pc.MaxConns = int32(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		pc.MinConns = min(int32(cfg.MaxIdleConns), pc.MaxConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		pc.MaxConnLifetime = cfg.ConnMaxLifetime
	}
	return pc, nil
}

// Close closes the pool
func (db *PostgresDB) Close() {
	db.pool.Close()
	db.logger.Info().Msg("report database closed")
}

// Ping checks the database connection
func (db *PostgresDB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Reports returns the report repository, creating its table when missing
func (db *PostgresDB) Reports(ctx context.Context) (*repository.ReportRepository, error) {
	repo := repository.NewReportRepository(db.pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	stat := db.pool.Stat()
	db.logger.Debug().
		Int32("total_conns", stat.TotalConns()).
		Int32("idle_conns", stat.IdleConns()).
		Msg("report schema ready")
	return repo, nil
}
