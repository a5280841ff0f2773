package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{name: "identical", a: "taxi ride", b: "taxi ride", expected: 1.0},
		{name: "both empty", a: "", b: "", expected: 1.0},
		{name: "one empty", a: "", b: "abc", expected: 0.0},
		{name: "disjoint", a: "abc", b: "xyz", expected: 0.0},
		{name: "prefix", a: "coffee", b: "coffee shop", expected: 2.0 * 6 / 17},
		{name: "subsequence not substring", a: "abcd", b: "axbycz", expected: 2.0 * 3 / 10},
		{name: "transposition", a: "ab", b: "ba", expected: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSimilarity_SymmetricAndBounded(t *testing.T) {
	samples := []string{"", "a", "taxi", "taxi ride", "ride taxi", "uber trip 1250", "coffee shop", "cafe latte"}
	for _, a := range samples {
		for _, b := range samples {
			ab := Similarity(a, b)
			assert.InDelta(t, ab, Similarity(b, a), 1e-12, "%q vs %q", a, b)
			assert.GreaterOrEqual(t, ab, 0.0)
			assert.LessOrEqual(t, ab, 1.0)
			if a != b {
				assert.Less(t, ab, 1.0, "%q vs %q", a, b)
			}
		}
	}
}
