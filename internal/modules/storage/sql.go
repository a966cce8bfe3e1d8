package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// sqlKV implements KV on a single kv(key, value, updated_at) table.
// The dialect only changes the statements.
type sqlKV struct {
	db     *sql.DB
	get    string
	upsert string
	del    string
	ownsDB bool
}

func (s *sqlKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, s.get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *sqlKV) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, s.upsert, key, value, time.Now().UnixMilli())
	return err
}

func (s *sqlKV) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, s.del, key)
	return err
}

func (s *sqlKV) Close() error {
	if !s.ownsDB {
		return nil
	}
	return s.db.Close()
}
