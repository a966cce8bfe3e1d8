package catalog

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	leadingFloat = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
)

// parsePrice reads a price from v, taking the longest numeric prefix of a
// string. Unparseable, negative and non-finite values become 0.
func parsePrice(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		f, _ = strconv.ParseFloat(n.String(), 64)
	case string:
		m := leadingFloat.FindString(strings.TrimSpace(n))
		if m == "" {
			return 0
		}
		f, _ = strconv.ParseFloat(m, 64)
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// parseStock reads a whole stock count from v, truncating fractions.
// Unparseable and negative values become 0.
func parseStock(v any) int {
	var i int64
	switch n := v.(type) {
	case int:
		i = int64(n)
	case int64:
		i = n
	case float64, float32, json.Number:
		f := parsePrice(n)
		if f > math.MaxInt32 {
			return 0
		}
		i = int64(f)
	case string:
		m := leadingInt.FindString(strings.TrimSpace(n))
		if m == "" {
			return 0
		}
		parsed, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return 0
		}
		i = parsed
	default:
		return 0
	}
	if i < 0 || i > math.MaxInt32 {
		return 0
	}
	return int(i)
}

// scalarText returns the text of a JSON string, number or boolean token.
func scalarText(raw json.RawMessage) string {
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if len(raw) == 0 || dec.Decode(&v) != nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// build turns an input into a Product with the given id, applying the
// numeric fallbacks and the default category.
func build(id string, in ProductInput) Product {
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = DefaultCategory
	}
	return Product{
		ID:       id,
		Name:     strings.TrimSpace(in.Name),
		Price:    parsePrice(in.Price),
		Stock:    parseStock(in.Stock),
		Category: category,
		Image:    strings.TrimSpace(in.Image),
	}
}
