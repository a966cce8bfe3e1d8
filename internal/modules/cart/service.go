package cart

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/georgemunganga/shoestore/internal/errs"
	"github.com/georgemunganga/shoestore/internal/modules/activity"
	"github.com/georgemunganga/shoestore/internal/modules/catalog"
)

// Catalog resolves product ids to live products.
type Catalog interface {
	Find(id string) (catalog.Product, bool)
}

// OrderProcessor is handed the receipt before the cart is cleared. Returning
// an error aborts the checkout and keeps the cart.
type OrderProcessor interface {
	ProcessOrder(ctx context.Context, receipt Receipt) error
}

// OrderProcessorFunc adapts a function to OrderProcessor.
type OrderProcessorFunc func(ctx context.Context, receipt Receipt) error

func (fn OrderProcessorFunc) ProcessOrder(ctx context.Context, receipt Receipt) error {
	return fn(ctx, receipt)
}

// Service defines the cart operations used by the view layer.
type Service interface {
	Add(ctx context.Context, productID string) error
	Clear(ctx context.Context) error
	Total() float64
	LineCount() int
	Lines() []Line
	Summary() Summary
	Checkout(ctx context.Context) (Receipt, error)
}

// Option configures a Store.
type Option func(*Store)

// WithOrderProcessor installs the hook run at checkout. Without one checkout
// only clears the cart.
func WithOrderProcessor(p OrderProcessor) Option {
	return func(s *Store) { s.processor = p }
}

// WithClock overrides the time source used for receipts.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store owns the cart lines. Like the catalog store it persists before it
// commits, so memory never runs ahead of storage.
type Store struct {
	mu        sync.Mutex
	repo      Repository
	catalog   Catalog
	bus       *activity.Bus
	logger    *zap.Logger
	processor OrderProcessor
	now       func() time.Time
	lines     []Line
}

func NewStore(repo Repository, products Catalog, bus *activity.Bus, logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		repo:    repo,
		catalog: products,
		bus:     bus,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Load reads the stored cart. An unreadable document yields an empty cart.
// Lines without a product id are dropped and repeated ids are merged.
func (s *Store) Load(ctx context.Context) []Line {
	stored, _, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Warn("cart unreadable, starting empty", zap.Error(err))
		stored = nil
	}
	lines := normalize(stored)

	s.mu.Lock()
	s.lines = lines
	s.mu.Unlock()
	return cloneLines(lines)
}

func normalize(stored []Line) []Line {
	lines := make([]Line, 0, len(stored))
	index := make(map[string]int, len(stored))
	for _, l := range stored {
		if l.ProductID == "" {
			continue
		}
		if l.Qty < 1 {
			l.Qty = 1
		}
		if i, ok := index[l.ProductID]; ok {
			lines[i].Qty += l.Qty
			continue
		}
		index[l.ProductID] = len(lines)
		lines = append(lines, l)
	}
	return lines
}

// Add puts one more unit of productID in the cart. The product must exist in
// the catalog at the time of the call.
func (s *Store) Add(ctx context.Context, productID string) error {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return errs.Required("productId")
	}
	if _, ok := s.catalog.Find(productID); !ok {
		return errs.NotFound("product", productID)
	}

	s.mu.Lock()
	next := cloneLines(s.lines)
	qty := 1
	if i := indexOf(next, productID); i >= 0 {
		next[i].Qty++
		qty = next[i].Qty
	} else {
		next = append(next, Line{ProductID: productID, Qty: 1})
	}
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.emit(ctx, activity.TopicCartChanged, "added", productID, map[string]any{"qty": qty})
	return nil
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	if err := s.commit(ctx, []Line{}); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.emit(ctx, activity.TopicCartChanged, "cleared", "", nil)
	return nil
}

// Total sums qty times the current catalog price. Lines whose product is gone
// add nothing.
func (s *Store) Total() float64 {
	return s.Summary().Total
}

// LineCount is the number of units in the cart across all lines.
func (s *Store) LineCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.lines {
		n += l.Qty
	}
	return n
}

// Lines returns a copy of the cart lines in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneLines(s.lines)
}

// Summary joins every line with its live product.
func (s *Store) Summary() Summary {
	return s.summarize(s.Lines())
}

func (s *Store) summarize(lines []Line) Summary {
	sum := Summary{Lines: make([]SummaryLine, 0, len(lines))}
	for _, l := range lines {
		sl := SummaryLine{ProductID: l.ProductID, Qty: l.Qty}
		if p, ok := s.catalog.Find(l.ProductID); ok {
			sl.Name = p.Name
			sl.Image = p.Image
			sl.Price = p.Price
			sl.Subtotal = p.Price * float64(l.Qty)
		} else {
			sl.Orphaned = true
		}
		sum.Lines = append(sum.Lines, sl)
		sum.Items += l.Qty
		sum.Total += sl.Subtotal
	}
	return sum
}

// Checkout hands the cart to the order processor, if any, and then removes
// the checked-out quantities. Units added while the processor runs are not
// part of the receipt and stay in the cart. An empty cart checks out to an
// empty receipt.
func (s *Store) Checkout(ctx context.Context) (Receipt, error) {
	ordered := s.Lines()
	sum := s.summarize(ordered)
	receipt := Receipt{
		OrderNumber: generateOrderNumber(s.now()),
		Lines:       sum.Lines,
		Items:       sum.Items,
		Total:       round2(sum.Total),
		CompletedAt: s.now().UTC(),
	}

	if s.processor != nil {
		if err := s.processor.ProcessOrder(ctx, receipt); err != nil {
			s.logger.Warn("order processing failed, cart kept",
				zap.String("order_number", receipt.OrderNumber), zap.Error(err))
			return Receipt{}, fmt.Errorf("checkout %s: %w", receipt.OrderNumber, err)
		}
	}

	s.mu.Lock()
	next := subtract(s.lines, ordered)
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return Receipt{}, err
	}
	remaining := len(next)
	s.mu.Unlock()

	s.emit(ctx, activity.TopicCartChanged, "checked_out", "", map[string]any{
		"reason":    "checkout",
		"remaining": remaining,
	})
	s.emit(ctx, activity.TopicCheckoutCompleted, "completed", receipt.OrderNumber, map[string]any{
		"items": receipt.Items,
		"total": receipt.Total,
	})
	return receipt, nil
}

// subtract removes the quantities in ordered from current, dropping lines that
// reach zero. Order of the remaining lines is kept.
func subtract(current, ordered []Line) []Line {
	taken := make(map[string]int, len(ordered))
	for _, l := range ordered {
		taken[l.ProductID] += l.Qty
	}
	next := make([]Line, 0, len(current))
	for _, l := range current {
		l.Qty -= taken[l.ProductID]
		if l.Qty > 0 {
			next = append(next, l)
		}
	}
	return next
}

// commit persists next and then makes it current. Callers hold s.mu.
func (s *Store) commit(ctx context.Context, next []Line) error {
	if err := s.repo.Save(ctx, next); err != nil {
		s.logger.Error("cart save failed", zap.Error(err))
		return err
	}
	s.lines = next
	return nil
}

func (s *Store) emit(ctx context.Context, topic, verb, id string, meta map[string]any) {
	if err := s.bus.Emit(ctx, activity.Event{
		Topic:    topic,
		Verb:     verb,
		ObjectID: id,
		Metadata: meta,
	}); err != nil {
		s.logger.Warn("cart change hook failed", zap.String("topic", topic), zap.Error(err))
	}
}

func indexOf(lines []Line, productID string) int {
	for i := range lines {
		if lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func cloneLines(in []Line) []Line {
	out := make([]Line, len(in))
	copy(out, in)
	return out
}

func generateOrderNumber(now time.Time) string {
	date := now.UTC().Format("20060102")
	suffix := strings.ToUpper(uuid.NewString()[:4])
	return fmt.Sprintf("ORD-%s-%s", date, suffix)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
