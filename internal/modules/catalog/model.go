package catalog

import "encoding/json"

// DefaultCategory is assigned to products saved without a category.
const DefaultCategory = "Sneakers"

// Product is one item for sale.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	Category string  `json:"category"`
	Image    string  `json:"image"`
}

// ProductInput carries product fields as they arrive from a form, an import
// payload or an older stored document. Price and Stock accept numbers or
// numeric strings; anything unparseable becomes 0.
type ProductInput struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Price    any    `json:"price"`
	Stock    any    `json:"stock"`
	Category string `json:"category"`
	Image    string `json:"image"`
}

// UnmarshalJSON reads the text fields leniently: a number or boolean id or
// name is kept as its JSON text, and null, objects and arrays read as empty.
func (in *ProductInput) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       json.RawMessage `json:"id"`
		Name     json.RawMessage `json:"name"`
		Price    any             `json:"price"`
		Stock    any             `json:"stock"`
		Category json.RawMessage `json:"category"`
		Image    json.RawMessage `json:"image"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*in = ProductInput{
		ID:       scalarText(raw.ID),
		Name:     scalarText(raw.Name),
		Price:    raw.Price,
		Stock:    raw.Stock,
		Category: scalarText(raw.Category),
		Image:    scalarText(raw.Image),
	}
	return nil
}

// Sort selects the ordering of a search result.
type Sort string

const (
	SortNone      Sort = "none"
	SortPriceAsc  Sort = "price_asc"
	SortPriceDesc Sort = "price_desc"
)

// Query filters and orders a catalog projection.
type Query struct {
	Text     string `json:"q"`
	Category string `json:"category"`
	Sort     Sort   `json:"sort"`
}

// ImportResult reports how many products replaced the catalog.
type ImportResult struct {
	Imported int `json:"imported"`
}
