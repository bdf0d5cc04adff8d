package postgres

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/jackc/pgx/v5/stdlib"

	"bolx/internal/config"
)

// NewDB connects to PostgreSQL and sizes the pool from cfg.
func NewDB(cfg *config.DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	configurePool(db, cfg)
	return db, nil
}

func configurePool(db *sqlx.DB, cfg *config.DBConfig) {
	db.SetMaxOpenConns(cfg.MaxOpen)
	idle := cfg.MaxIdle
	if cfg.MaxOpen > 0 && idle > cfg.MaxOpen {
		idle = cfg.MaxOpen
	}
	db.SetMaxIdleConns(idle)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
}
