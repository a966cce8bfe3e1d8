package catalog

import (
	"sort"
	"strings"
)

// Search filters the catalog by name substring (case-insensitive) and exact
// category, then optionally orders it by price. Ties keep catalog order.
// Unknown sort values leave the order untouched.
func (s *Store) Search(q Query) []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.products, q)
}

func filter(products []Product, q Query) []Product {
	text := strings.ToLower(q.Text)
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if !strings.Contains(strings.ToLower(p.Name), text) {
			continue
		}
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		out = append(out, p)
	}

	switch q.Sort {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	}
	return out
}

// Categories lists the distinct categories in catalog order.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{}, len(s.products))
	out := make([]string, 0, len(s.products))
	for _, p := range s.products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}
