package query

import (
	"context"
	"math"
	"strconv"

	"github.com/1010nishant/BookMyTrip/internal/domain/apperror"
)

const (
	DefaultPage  = 1
	DefaultLimit = 100
)

// CountFunc returns the number of records matching filters.
type CountFunc func(ctx context.Context, filters Filters) (int64, error)

// ApplyPagination parses page and limit, falling back to the defaults for
// absent, non-numeric or non-positive input. When a page was explicitly
// requested it asks count for the number of matches and fails with
// apperror.ErrOutOfRange if the page starts at or beyond that number. A page
// whose offset does not fit in an int is out of range without counting.
func ApplyPagination(ctx context.Context, rawPage, rawLimit string, filters Filters, count CountFunc) (skip, limit int, err error) {
	page := positiveOr(rawPage, DefaultPage)
	limit = positiveOr(rawLimit, DefaultLimit)
	if page-1 > math.MaxInt/limit {
		return 0, 0, apperror.ErrOutOfRange
	}
	skip = (page - 1) * limit

	if rawPage != "" && count != nil {
		n, err := count(ctx, filters)
		if err != nil {
			return 0, 0, err
		}
		if int64(skip) >= n {
			return 0, 0, apperror.ErrOutOfRange
		}
	}
	return skip, limit, nil
}

func positiveOr(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
