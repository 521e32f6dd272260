// internal/app/system/paging/paging.go
package paging

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
)

const (
	// DefaultLimit is used when the limit parameter is missing or unusable.
	DefaultLimit = 10
	// MaxLimit caps any requested limit.
	MaxLimit = 20
)

// ParseLimit reads a positive integer limit from the named query
// parameter. Missing, non-numeric, zero or negative values fall back to
// DefaultLimit; larger values are clamped to MaxLimit.
func ParseLimit(r *http.Request, param string) int {
	return Clamp(query.Get(r, param))
}

// Clamp applies ParseLimit's rules to a raw string. Integers too large
// for an int are still large, so they clamp to MaxLimit.
func Clamp(raw string) int {
	raw = strings.TrimSpace(raw)
	n, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
		return MaxLimit
	}
	if err != nil || n <= 0 {
		return DefaultLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}
