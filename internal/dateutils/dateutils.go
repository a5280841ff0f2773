// Package dateutils parses booking dates from bank exports.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutEuropean = "02.01.2006"
	DateLayoutUS       = "01/02/2006"
	DateLayoutFull     = "2006-01-02 15:04:05"
)

// bookingLayouts is tried in order; day-first layouts win over US ones.
var bookingLayouts = []string{
	DateLayoutISO,
	DateLayoutEuropean,
	DateLayoutFull,
	time.RFC3339,
	"02/01/2006",
	"02-01-2006",
	"2.1.2006",
	"2006/01/02",
	"2 Jan 2006",
	"02 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDate parses a booking date in any supported layout.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range bookingLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", raw)
}

// ToISODate formats t as YYYY-MM-DD. The zero time formats as "".
func ToISODate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayoutISO)
}
