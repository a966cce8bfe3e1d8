package storage

import "context"

// KV is a durable key/value store holding named JSON documents.
// Set and Delete must not return before the change is durable.
type KV interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Document names used by the storefront stores.
const (
	KeyCatalog  = "catalog"
	KeySettings = "settings"
	KeyCart     = "cart"
)

// Keys lists every document the storefront persists.
func Keys() []string { return []string{KeyCatalog, KeySettings, KeyCart} }
