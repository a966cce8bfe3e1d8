package settings

import (
	"context"
	"encoding/json"

	"github.com/georgemunganga/shoestore/internal/modules/storage"
)

// Repository loads and saves the settings document.
type Repository interface {
	Load(ctx context.Context) (stored map[string]json.RawMessage, found bool, err error)
	Save(ctx context.Context, s Settings) error
}

type kvRepo struct{ store *storage.Adapter }

// NewKVRepository keeps settings in the "settings" document of store.
func NewKVRepository(store *storage.Adapter) Repository { return &kvRepo{store: store} }

// Load never fails: a missing or unreadable document reads as absent and the
// adapter logs why.
func (r *kvRepo) Load(ctx context.Context) (map[string]json.RawMessage, bool, error) {
	stored := storage.ReadOr[map[string]json.RawMessage](ctx, r.store, storage.KeySettings, nil)
	return stored, stored != nil, nil
}

func (r *kvRepo) Save(ctx context.Context, s Settings) error {
	return r.store.Write(ctx, storage.KeySettings, s)
}
