package cart

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Line is one product in the cart. The cart only references products by id;
// prices are always resolved against the live catalog.
type Line struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

// UnmarshalJSON accepts the current {productId, qty} shape as well as the
// older {id, qty} one. A qty that is missing or not a positive number reads as 1.
func (l *Line) UnmarshalJSON(data []byte) error {
	var raw struct {
		ProductID string          `json:"productId"`
		ID        string          `json:"id"`
		Qty       json.RawMessage `json:"qty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	l.ProductID = strings.TrimSpace(raw.ProductID)
	if l.ProductID == "" {
		l.ProductID = strings.TrimSpace(raw.ID)
	}
	l.Qty = parseQty(raw.Qty)
	return nil
}

func parseQty(raw json.RawMessage) int {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 1 && f < 1<<31 {
		return int(f)
	}
	return 1
}

// SummaryLine is a cart line joined with the product it references. Orphaned
// lines point at a product that has since been deleted; they are priced at 0.
type SummaryLine struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Qty       int     `json:"qty"`
	Subtotal  float64 `json:"subtotal"`
	Orphaned  bool    `json:"orphaned"`
}

// Summary is the cart as the view layer renders it.
type Summary struct {
	Lines []SummaryLine `json:"lines"`
	Items int           `json:"items"`
	Total float64       `json:"total"`
}

// Receipt describes a completed checkout.
type Receipt struct {
	OrderNumber string        `json:"order_number"`
	Lines       []SummaryLine `json:"lines"`
	Items       int           `json:"items"`
	Total       float64       `json:"total"`
	CompletedAt time.Time     `json:"completed_at"`
}

// AddItemRequest is the payload for adding a product to the cart.
type AddItemRequest struct {
	ProductID string `json:"productId"`
}
