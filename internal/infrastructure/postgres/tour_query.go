package postgres

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/1010nishant/BookMyTrip/internal/domain/apperror"
	"github.com/1010nishant/BookMyTrip/internal/domain/query"
)

type columnKind int

const (
	kindText columnKind = iota
	kindNumber
	kindTime
	kindUUID
	kindTextArray
	kindTimeArray
)

type tourColumn struct {
	name string
	kind columnKind
}

// tourColumns maps document field names to columns; tourColumnOrder fixes
// the select order.
var tourColumns = map[string]tourColumn{
	"id":              {"id", kindUUID},
	"name":            {"name", kindText},
	"duration":        {"duration", kindNumber},
	"maxGroupSize":    {"max_group_size", kindNumber},
	"difficulty":      {"difficulty", kindText},
	"ratingsAverage":  {"ratings_average", kindNumber},
	"ratingsQuantity": {"ratings_quantity", kindNumber},
	"price":           {"price", kindNumber},
	"priceDiscount":   {"price_discount", kindNumber},
	"summary":         {"summary", kindText},
	"description":     {"description", kindText},
	"imageCover":      {"image_cover", kindText},
	"images":          {"images", kindTextArray},
	"startDates":      {"start_dates", kindTimeArray},
	"createdAt":       {"created_at", kindTime},
	"__v":             {"version", kindNumber},
}

var tourColumnOrder = []string{
	"id", "name", "duration", "maxGroupSize", "difficulty", "ratingsAverage",
	"ratingsQuantity", "price", "priceDiscount", "summary", "description",
	"imageCover", "images", "startDates", "createdAt", "__v",
}

var sqlOperators = map[string]string{
	query.OpGTE: ">=",
	query.OpGT:  ">",
	query.OpLTE: "<=",
	query.OpLT:  "<",
}

// buildTourWhere renders f as a WHERE clause with positional arguments
// numbered from startArg. Array columns match when any element does.
func buildTourWhere(f query.Filters, startArg int) (string, []any, error) {
	var (
		conds []string
		args  []any
	)
	next := startArg
	add := func(col tourColumn, op string, operand any) error {
		v, err := sqlOperand(col, operand)
		if err != nil {
			return err
		}
		conds = append(conds, renderCondition(col, op, next))
		args = append(args, v)
		next++
		return nil
	}

	for _, field := range f.Fields() {
		col, ok := tourColumns[field]
		if !ok {
			return "", nil, apperror.Validation(fmt.Sprintf("Invalid filter field: %s", field))
		}
		ops, ok := f[field].(map[string]any)
		if !ok {
			if err := add(col, "=", f[field]); err != nil {
				return "", nil, err
			}
			continue
		}
		keys := make([]string, 0, len(ops))
		for op := range ops {
			keys = append(keys, op)
		}
		sort.Strings(keys)
		for _, op := range keys {
			sqlOp, ok := sqlOperators[op]
			if !ok || col.kind == kindUUID {
				return "", nil, apperror.Validation(fmt.Sprintf("Unsupported operator %q on %s", strings.TrimPrefix(op, "$"), field))
			}
			if err := add(col, sqlOp, ops[op]); err != nil {
				return "", nil, err
			}
		}
	}
	if len(conds) == 0 {
		return "", nil, nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args, nil
}

func renderCondition(col tourColumn, op string, n int) string {
	switch col.kind {
	case kindTextArray:
		if op == "=" {
			return fmt.Sprintf("$%d::text = ANY(%s)", n, col.name)
		}
		return fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(%s) AS e WHERE e %s $%d::text)", col.name, op, n)
	case kindTimeArray:
		if op == "=" {
			return fmt.Sprintf("$%d::timestamptz = ANY(%s)", n, col.name)
		}
		return fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(%s) AS e WHERE e %s $%d::timestamptz)", col.name, op, n)
	case kindNumber:
		return fmt.Sprintf("%s %s $%d::float8", col.name, op, n)
	case kindTime:
		return fmt.Sprintf("%s %s $%d::timestamptz", col.name, op, n)
	case kindUUID:
		return fmt.Sprintf("%s = $%d::uuid", col.name, n)
	default:
		return fmt.Sprintf("%s %s $%d::text", col.name, op, n)
	}
}

// sqlOperand converts a coerced filter operand to the argument type the
// column comparison expects.
func sqlOperand(col tourColumn, v any) (any, error) {
	invalid := apperror.Validation(fmt.Sprintf("Invalid value for %s: %v", col.name, v))
	switch col.kind {
	case kindNumber:
		switch n := v.(type) {
		case int64:
			return float64(n), nil
		case float64:
			return n, nil
		}
		return nil, invalid
	case kindTime, kindTimeArray:
		if t, ok := v.(time.Time); ok {
			return t, nil
		}
		return nil, invalid
	case kindUUID:
		s, ok := v.(string)
		if !ok {
			return nil, invalid
		}
		if _, err := uuid.Parse(s); err != nil {
			return nil, invalid
		}
		return s, nil
	default:
		switch x := v.(type) {
		case string:
			return x, nil
		case int64:
			return strconv.FormatInt(x, 10), nil
		case float64:
			return strconv.FormatFloat(x, 'f', -1, 64), nil
		case time.Time:
			if x.Equal(x.Truncate(24 * time.Hour)) {
				return x.Format(time.DateOnly), nil
			}
			return x.Format(time.RFC3339), nil
		}
		return nil, invalid
	}
}

// buildTourOrderBy renders keys as an ORDER BY clause. Unknown and array
// fields are skipped; id breaks ties so pages are stable.
func buildTourOrderBy(keys []query.SortKey) string {
	parts := make([]string, 0, len(keys)+1)
	seen := map[string]bool{}
	for _, k := range keys {
		field := k.Field
		if field == "durationWeeks" {
			field = "duration"
		}
		col, ok := tourColumns[field]
		if !ok || col.kind == kindTextArray || col.kind == kindTimeArray || seen[col.name] {
			continue
		}
		seen[col.name] = true
		dir := "ASC"
		if k.Desc {
			dir = "DESC"
		}
		parts = append(parts, col.name+" "+dir)
	}
	if !seen["id"] {
		parts = append(parts, "id ASC")
	}
	return "ORDER BY " + strings.Join(parts, ", ")
}

// tourSelectColumns lists the columns needed to render p. id is always
// selected and durationWeeks needs duration.
func tourSelectColumns(p query.Projection) string {
	cols := make([]string, 0, len(tourColumnOrder))
	for _, field := range tourColumnOrder {
		if field == query.IDField || p.Allows(field) ||
			(field == "duration" && p.IsInclusive() && p.Allows("durationWeeks")) {
			cols = append(cols, tourColumns[field].name)
		}
	}
	return strings.Join(cols, ", ")
}
