package validation

import "strconv"

const (
	// DefaultPage is used when the page parameter is absent or non-numeric.
	DefaultPage = 1
	// DefaultLimit is used when the limit parameter is absent or non-numeric.
	DefaultLimit = 20
	// MaxLimit caps the page size.
	MaxLimit = 100
)

// ParsePage interprets raw as a 1-based page number. Non-numeric input
// silently falls back to the default instead of erroring; numeric input is
// floored at 1. The leniency is deliberate: garbage pagination should never
// fail a read.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return DefaultPage
	}
	if n < 1 {
		return 1
	}
	return n
}

// ParseLimit interprets raw as a page size, clamped to [1, MaxLimit].
// Non-numeric input silently falls back to the default.
func ParseLimit(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return DefaultLimit
	}
	if n < 1 {
		return 1
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}
