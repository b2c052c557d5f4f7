package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// UnboundedLimit is the LIMIT applied when the caller omits one.
const UnboundedLimit int64 = math.MaxInt64

// Page is a validated limit/offset pair.
type Page struct {
	Offset int64
	Limit  int64
}

// Unbounded reports whether the caller supplied no limit.
func (p Page) Unbounded() bool {
	return p.Limit == UnboundedLimit
}

// ParsePage validates the optional offset and limit parameters. Both must be
// positive integers when present; a limit of zero is rejected rather than
// read as "no limit".
func ParsePage(offset, limit string) (Page, error) {
	p := Page{Limit: UnboundedLimit}

	if s := strings.TrimSpace(offset); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n <= 0 {
			return Page{}, fmt.Errorf("%w: offset %q must be a positive integer", ErrBadPagination, offset)
		}
		p.Offset = n
	}

	if s := strings.TrimSpace(limit); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n <= 0 {
			return Page{}, fmt.Errorf("%w: limit %q must be a positive integer", ErrBadPagination, limit)
		}
		p.Limit = n
	}

	return p, nil
}

var fromDateLayouts = []string{
	"2006-01-02",
	StartDateLayout,
	time.RFC3339,
}

// ParseFromDate parses the required lower bound of a catalog query.
func ParseFromDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: from is required", ErrValidation)
	}
	for _, layout := range fromDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: from %q is not a date", ErrValidation, raw)
}
