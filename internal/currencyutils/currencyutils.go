// Package currencyutils parses the amount notations found in bank exports.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var currencyMarks = regexp.MustCompile(`[€$£¥₣\s]|CHF|EUR|USD|GBP`)

// ParseAmount parses amounts such as "1,234.56", "1.234,56", "CHF 1'234.50"
// or "-4,5". An empty string parses as zero.
func ParseAmount(raw string) (decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(StandardizeAmount(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", raw, err)
	}
	return amount, nil
}

// StandardizeAmount rewrites an amount into the dotted notation accepted by
// decimal.NewFromString.
func StandardizeAmount(raw string) string {
	s := currencyMarks.ReplaceAllString(strings.ToUpper(raw), "")
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, "’", "")

	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0:
		if dot < comma {
			// 1.234,56
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		if len(s)-comma-1 <= 2 && strings.Count(s, ",") == 1 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}
	return s
}

// Canonical formats an amount with two decimals, the form stored alongside
// training transactions.
func Canonical(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
