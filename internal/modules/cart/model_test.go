package cart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineDecodesCurrentAndLegacyShapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Line
	}{
		{"current", `{"productId":"p1","qty":3}`, Line{ProductID: "p1", Qty: 3}},
		{"legacy id", `{"id":"p2","qty":2}`, Line{ProductID: "p2", Qty: 2}},
		{"productId wins", `{"productId":"a","id":"b","qty":1}`, Line{ProductID: "a", Qty: 1}},
		{"string qty", `{"productId":"p","qty":"4"}`, Line{ProductID: "p", Qty: 4}},
		{"missing qty", `{"productId":"p"}`, Line{ProductID: "p", Qty: 1}},
		{"zero qty", `{"productId":"p","qty":0}`, Line{ProductID: "p", Qty: 1}},
		{"garbage qty", `{"productId":"p","qty":"lots"}`, Line{ProductID: "p", Qty: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Line
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLineEncodesCurrentShape(t *testing.T) {
	out, err := json.Marshal(Line{ProductID: "p1", Qty: 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"productId":"p1","qty":2}`, string(out))
}

func TestNormalizeMergesAndDrops(t *testing.T) {
	got := normalize([]Line{
		{ProductID: "a", Qty: 1},
		{ProductID: "", Qty: 5},
		{ProductID: "b", Qty: 0},
		{ProductID: "a", Qty: 2},
	})
	assert.Equal(t, []Line{{ProductID: "a", Qty: 3}, {ProductID: "b", Qty: 1}}, got)
}
