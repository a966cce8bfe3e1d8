package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS storefront_kv (
	key        TEXT PRIMARY KEY,
	value      BYTEA NOT NULL,
	updated_at BIGINT NOT NULL
)`

// NewPostgresKV stores documents in a Postgres table on db. The caller owns db.
func NewPostgresKV(ctx context.Context, db *sql.DB) (KV, error) {
	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &sqlKV{
		db:  db,
		get: `SELECT value FROM storefront_kv WHERE key=$1`,
		upsert: `INSERT INTO storefront_kv (key, value, updated_at) VALUES ($1,$2,$3)
		         ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=EXCLUDED.updated_at`,
		del: `DELETE FROM storefront_kv WHERE key=$1`,
	}, nil
}

// OpenPostgres connects to databaseURL and returns a KV that closes the pool on Close.
func OpenPostgres(ctx context.Context, databaseURL string) (KV, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	kv, err := NewPostgresKV(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	kv.(*sqlKV).ownsDB = true
	return kv, nil
}
