package catalog

import (
	"context"

	"github.com/georgemunganga/shoestore/internal/modules/storage"
)

// Repository loads and saves the catalog document. Load hands back inputs so
// older documents (string prices, missing ids) go through the same coercion
// as an import.
type Repository interface {
	Load(ctx context.Context) (items []ProductInput, found bool, err error)
	Save(ctx context.Context, products []Product) error
}

type kvRepo struct{ store *storage.Adapter }

// NewKVRepository keeps the catalog in the "catalog" document of store.
func NewKVRepository(store *storage.Adapter) Repository { return &kvRepo{store: store} }

func (r *kvRepo) Load(ctx context.Context) ([]ProductInput, bool, error) {
	var items []ProductInput
	found, err := r.store.Read(ctx, storage.KeyCatalog, &items)
	if err != nil {
		return nil, found, err
	}
	return items, found, nil
}

func (r *kvRepo) Save(ctx context.Context, products []Product) error {
	if products == nil {
		products = []Product{}
	}
	return r.store.Write(ctx, storage.KeyCatalog, products)
}
