package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/georgemunganga/shoestore/internal/errs"
	"github.com/georgemunganga/shoestore/internal/modules/activity"
)

// Service defines catalog operations used by the view layer.
type Service interface {
	List() []Product
	Find(id string) (Product, bool)
	Search(q Query) []Product
	Categories() []string
	Create(ctx context.Context, in ProductInput) (Product, error)
	Update(ctx context.Context, id string, in ProductInput) (Product, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	ReplaceAll(ctx context.Context, items []ProductInput) (ImportResult, error)
	Import(ctx context.Context, payload []byte) (ImportResult, error)
	LoadSample(ctx context.Context) (ImportResult, error)
	ExportSnapshot() (string, error)
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the random product id source.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// Store owns the product list. Mutations are persisted before they become
// visible, so a failed write leaves the list as it was.
type Store struct {
	mu       sync.RWMutex
	repo     Repository
	bus      *activity.Bus
	logger   *zap.Logger
	newID    func() string
	products []Product
}

func NewStore(repo Repository, bus *activity.Bus, logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		repo:   repo,
		bus:    bus,
		logger: logger,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Load reads the stored catalog. A missing document seeds the sample set and
// persists it; an unreadable one falls back to the sample set without writing.
func (s *Store) Load(ctx context.Context) []Product {
	items, found, err := s.repo.Load(ctx)

	s.mu.Lock()
	switch {
	case err != nil:
		s.logger.Warn("catalog unreadable, using sample products", zap.Error(err))
		s.products = s.fromInputs(SampleProducts())
	case !found:
		s.products = s.fromInputs(SampleProducts())
		if err := s.repo.Save(ctx, s.products); err != nil {
			s.logger.Error("seeding sample catalog failed", zap.Error(err))
		}
	default:
		s.products = s.fromStored(ctx, items)
	}
	out := cloneProducts(s.products)
	s.mu.Unlock()
	return out
}

// fromStored normalizes a stored document. Missing ids are generated and
// written back; repeated ids keep their first occurrence.
func (s *Store) fromStored(ctx context.Context, items []ProductInput) []Product {
	products := make([]Product, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	generated := false
	for _, in := range items {
		id := strings.TrimSpace(in.ID)
		if id == "" {
			id = s.newID()
			generated = true
		}
		if _, dup := seen[id]; dup {
			s.logger.Warn("dropping stored product with duplicate id", zap.String("id", id))
			continue
		}
		seen[id] = struct{}{}
		p := build(id, in)
		if p.Name == "" {
			p.Name = untitled
		}
		products = append(products, p)
	}
	if generated {
		if err := s.repo.Save(ctx, products); err != nil {
			s.logger.Warn("persisting generated product ids failed", zap.Error(err))
		}
	}
	return products
}

func (s *Store) fromInputs(items []ProductInput) []Product {
	products := make([]Product, 0, len(items))
	for _, in := range items {
		products = append(products, build(s.newID(), in))
	}
	return products
}

// List returns the catalog, newest first.
func (s *Store) List() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProducts(s.products)
}

// Find looks up a product by id.
func (s *Store) Find(id string) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.products[i], true
	}
	return Product{}, false
}

// Create validates in, assigns a fresh id and puts the product at the front.
func (s *Store) Create(ctx context.Context, in ProductInput) (Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Product{}, errs.Required("name")
	}

	s.mu.Lock()
	id := s.newID()
	if s.indexOf(id) >= 0 {
		s.mu.Unlock()
		return Product{}, &errs.CollisionError{ID: id}
	}
	p := build(id, in)
	next := make([]Product, 0, len(s.products)+1)
	next = append(next, p)
	next = append(next, s.products...)
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return Product{}, err
	}
	s.mu.Unlock()

	s.emit(ctx, "created", p.ID, map[string]any{"name": p.Name})
	return p, nil
}

// Update overwrites every mutable field of the product with id.
func (s *Store) Update(ctx context.Context, id string, in ProductInput) (Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Product{}, errs.Required("name")
	}

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return Product{}, errs.NotFound("product", id)
	}
	p := build(id, in)
	next := cloneProducts(s.products)
	next[i] = p
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return Product{}, err
	}
	s.mu.Unlock()

	s.emit(ctx, "updated", p.ID, map[string]any{"name": p.Name})
	return p, nil
}

// Delete removes the product with id. Unknown ids are ignored.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	next := make([]Product, 0, len(s.products)-1)
	next = append(next, s.products[:i]...)
	next = append(next, s.products[i+1:]...)
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.emit(ctx, "deleted", id, nil)
	return nil
}

// DeleteAll empties the catalog.
func (s *Store) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	if err := s.commit(ctx, []Product{}); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.emit(ctx, "deleted_all", "", nil)
	return nil
}

// ReplaceAll swaps the whole catalog for items. Ids are kept when given and
// generated otherwise; a repeated id rejects the batch without touching the
// current catalog.
func (s *Store) ReplaceAll(ctx context.Context, items []ProductInput) (ImportResult, error) {
	s.mu.Lock()
	next := make([]Product, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, in := range items {
		id := strings.TrimSpace(in.ID)
		if id == "" {
			id = s.newID()
		}
		if _, dup := seen[id]; dup {
			s.mu.Unlock()
			return ImportResult{}, &errs.ImportError{
				Reason: "duplicate product id",
				Err:    &errs.CollisionError{ID: id},
			}
		}
		seen[id] = struct{}{}
		p := build(id, in)
		if p.Name == "" {
			p.Name = untitled
		}
		next = append(next, p)
	}
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return ImportResult{}, err
	}
	s.mu.Unlock()

	result := ImportResult{Imported: len(next)}
	s.emit(ctx, "replaced", "", map[string]any{"count": result.Imported})
	return result, nil
}

// Import parses a JSON array of product objects and replaces the catalog with it.
func (s *Store) Import(ctx context.Context, payload []byte) (ImportResult, error) {
	var probe any
	if err := json.Unmarshal(payload, &probe); err != nil {
		return ImportResult{}, &errs.ImportError{Reason: "invalid JSON", Err: err}
	}
	list, ok := probe.([]any)
	if !ok {
		return ImportResult{}, &errs.ImportError{Reason: "payload is not a JSON array"}
	}
	for i, item := range list {
		if _, ok := item.(map[string]any); !ok {
			return ImportResult{}, &errs.ImportError{Reason: fmt.Sprintf("item %d is not an object", i)}
		}
	}

	var items []ProductInput
	if err := json.Unmarshal(payload, &items); err != nil {
		return ImportResult{}, &errs.ImportError{Reason: "malformed product", Err: err}
	}
	return s.ReplaceAll(ctx, items)
}

// LoadSample replaces the catalog with the built-in sample products.
func (s *Store) LoadSample(ctx context.Context) (ImportResult, error) {
	return s.ReplaceAll(ctx, SampleProducts())
}

// ExportSnapshot renders the catalog as an indented JSON array.
func (s *Store) ExportSnapshot() (string, error) {
	out, err := json.MarshalIndent(s.List(), "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

const untitled = "Untitled"

// commit persists next and then makes it current. Callers hold s.mu.
func (s *Store) commit(ctx context.Context, next []Product) error {
	if err := s.repo.Save(ctx, next); err != nil {
		s.logger.Error("catalog save failed", zap.Error(err))
		return err
	}
	s.products = next
	return nil
}

func (s *Store) emit(ctx context.Context, verb, id string, meta map[string]any) {
	if err := s.bus.Emit(ctx, activity.Event{
		Topic:    activity.TopicCatalogChanged,
		Verb:     verb,
		ObjectID: id,
		Metadata: meta,
	}); err != nil {
		s.logger.Warn("catalog change hook failed", zap.String("verb", verb), zap.Error(err))
	}
}

func (s *Store) indexOf(id string) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneProducts(in []Product) []Product {
	out := make([]Product, len(in))
	copy(out, in)
	return out
}
