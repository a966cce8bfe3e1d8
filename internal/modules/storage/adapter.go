package storage

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/georgemunganga/shoestore/internal/errs"
)

// Adapter reads and writes JSON documents through a KV. When a namespace is
// set every key is stored as "<namespace>:<key>".
type Adapter struct {
	kv        KV
	namespace string
	logger    *zap.Logger
}

func NewAdapter(kv KV, namespace string, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{kv: kv, namespace: namespace, logger: logger}
}

func (a *Adapter) key(name string) string {
	if a.namespace == "" {
		return name
	}
	return a.namespace + ":" + name
}

// Read decodes the document stored under key into dst. It reports found=false
// with a nil error when the key is absent. Backend and decode failures are
// returned as *errs.StorageError.
func (a *Adapter) Read(ctx context.Context, key string, dst any) (bool, error) {
	raw, ok, err := a.kv.Get(ctx, a.key(key))
	if err != nil {
		return false, &errs.StorageError{Op: "get", Key: key, Err: err}
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, &errs.StorageError{Op: "decode", Key: key, Err: err}
	}
	return true, nil
}

// Write encodes v and stores it under key.
func (a *Adapter) Write(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return &errs.StorageError{Op: "encode", Key: key, Err: err}
	}
	if err := a.kv.Set(ctx, a.key(key), raw); err != nil {
		return &errs.StorageError{Op: "set", Key: key, Err: err}
	}
	return nil
}

// Remove deletes the document stored under key. Removing a missing key is not an error.
func (a *Adapter) Remove(ctx context.Context, key string) error {
	if err := a.kv.Delete(ctx, a.key(key)); err != nil {
		return &errs.StorageError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// ReadOr returns the document under key, or def when it is missing, unreadable
// or malformed. Failures are logged and never reach the caller.
func ReadOr[T any](ctx context.Context, a *Adapter, key string, def T) T {
	var out T
	found, err := a.Read(ctx, key, &out)
	if err != nil {
		a.logger.Warn("falling back to default document",
			zap.String("key", key), zap.Error(err))
		return def
	}
	if !found {
		return def
	}
	return out
}
