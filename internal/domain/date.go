package domain

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a civil calendar date in ISO 8601 form (YYYY-MM-DD). The fixed layout keeps
// lexical and chronological order identical, which the stores rely on for sorting.
type Date string

// DateOf returns the civil date of t as seen in loc.
func DateOf(t time.Time, loc *time.Location) Date {
	if loc != nil {
		t = t.In(loc)
	}
	return Date(t.Format(dateLayout))
}

// ParseDate validates s and returns it as a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date(t.Format(dateLayout)), nil
}

func (d Date) String() string {
	return string(d)
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return d > other
}
