package cart

import (
	"context"

	"github.com/georgemunganga/shoestore/internal/modules/storage"
)

// Repository loads and saves the cart document.
type Repository interface {
	Load(ctx context.Context) (lines []Line, found bool, err error)
	Save(ctx context.Context, lines []Line) error
}

type kvRepo struct{ store *storage.Adapter }

// NewKVRepository keeps the cart in the "cart" document of store.
func NewKVRepository(store *storage.Adapter) Repository { return &kvRepo{store: store} }

// Load never fails: a missing or unreadable cart reads as empty.
func (r *kvRepo) Load(ctx context.Context) ([]Line, bool, error) {
	lines := storage.ReadOr[[]Line](ctx, r.store, storage.KeyCart, nil)
	return lines, lines != nil, nil
}

func (r *kvRepo) Save(ctx context.Context, lines []Line) error {
	if lines == nil {
		lines = []Line{}
	}
	return r.store.Write(ctx, storage.KeyCart, lines)
}
