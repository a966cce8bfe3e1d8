package catalog

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"float", 59.99, 59.99},
		{"int", 10, 10},
		{"numeric string", "10.5", 10.5},
		{"padded string", "  7.25 ", 7.25},
		{"trailing garbage", "12.5usd", 12.5},
		{"leading dot", ".5", 0.5},
		{"exponent", "1e2", 100},
		{"json number", json.Number("3.5"), 3.5},
		{"empty", "", 0},
		{"letters", "abc", 0},
		{"nil", nil, 0},
		{"bool", true, 0},
		{"negative", -4.0, 0},
		{"negative string", "-4", 0},
		{"infinite", math.Inf(1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, parsePrice(tt.in), 1e-9)
		})
	}
}

func TestParseStock(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{"int", 12, 12},
		{"float truncates", 3.9, 3},
		{"numeric string", "3", 3},
		{"fraction string", "3.9", 3},
		{"trailing garbage", "20 pairs", 20},
		{"empty", "", 0},
		{"nil", nil, 0},
		{"negative", -2, 0},
		{"huge", 1e20, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseStock(tt.in))
		})
	}
}

func TestBuildAppliesDefaults(t *testing.T) {
	p := build("p1", ProductInput{Name: "  Runner  ", Price: "x", Stock: nil, Category: " ", Image: " "})
	assert.Equal(t, Product{ID: "p1", Name: "Runner", Price: 0, Stock: 0, Category: DefaultCategory, Image: ""}, p)
}
