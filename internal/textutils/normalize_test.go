package textutils_test

import (
	"testing"

	"fjacquet/fintrack/internal/textutils"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "lower cases", input: "Coffee SHOP", expected: "coffee shop"},
		{name: "strips punctuation", input: "Uber *Trip, 12.50$", expected: "uber trip 1250"},
		{name: "collapses whitespace", input: "  taxi \t\n  ride  ", expected: "taxi ride"},
		{name: "drops accented letters", input: "Café Crème", expected: "caf crme"},
		{name: "non latin script is emptied", input: "Кофе 咖啡", expected: ""},
		{name: "digits kept", input: "ATM 0042", expected: "atm 0042"},
		{name: "symbols between words do not merge them", input: "foo - bar", expected: "foo bar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, textutils.Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"", "   ", "Coffee SHOP", "Uber *Trip, 12.50$", "Кофе latte", "a b", "ÄÖÜ straße 12",
		"MiXeD   case\twith\nlines", "İstanbul taxi",
	}
	for _, in := range inputs {
		once := textutils.Normalize(in)
		assert.Equal(t, once, textutils.Normalize(once), "input %q", in)
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"flat", "white", "coffee"}, textutils.Tokenize("flat white coffee"))
	assert.Equal(t, []string{"bus", "12"}, textutils.Tokenize("a bus 12 x"))
	assert.Empty(t, textutils.Tokenize(""))
}

func TestIsStopWord(t *testing.T) {
	assert.True(t, textutils.IsStopWord("the"))
	assert.True(t, textutils.IsStopWord("with"))
	assert.False(t, textutils.IsStopWord("coffee"))
	assert.False(t, textutils.IsStopWord("bill"))
}
