package query

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Storage operator syntax for the recognised comparisons.
const (
	OpGTE = "$gte"
	OpGT  = "$gt"
	OpLTE = "$lte"
	OpLT  = "$lt"
)

var comparisonOps = map[string]string{
	"gte": OpGTE,
	"gt":  OpGT,
	"lte": OpLTE,
	"lt":  OpLT,
}

// Filters maps a field to either an equality operand or an operator map
// (map[string]any) keyed by storage operators. Operand strings are coerced
// to int64, float64 or time.Time when they parse as such.
type Filters map[string]any

// BuildFilters strips the control parameters from raw (the only mutation it
// performs) and rewrites gte, gt, lte and lt into storage operator syntax.
// Any other nested key is passed through verbatim.
func BuildFilters(raw Params) Filters {
	StripControls(raw)
	return buildFilters(raw)
}

func buildFilters(raw Params) Filters {
	out := make(Filters, len(raw))
	for field, v := range raw {
		switch val := v.(type) {
		case Params:
			ops := make(map[string]any, len(val))
			for op, operand := range val {
				if mapped, ok := comparisonOps[op]; ok {
					op = mapped
				}
				ops[op] = coerceOperand(operand)
			}
			out[field] = ops
		default:
			out[field] = coerceOperand(val)
		}
	}
	return out
}

func coerceOperand(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t
	}
	return s
}

// IsComparisonOperator reports whether op is one of the recognised
// storage operators.
func IsComparisonOperator(op string) bool {
	switch op {
	case OpGTE, OpGT, OpLTE, OpLT:
		return true
	}
	return false
}

// UnsupportedOperators lists field[op] pairs whose operator was passed
// through without being recognised, sorted for stable messages.
func (f Filters) UnsupportedOperators() []string {
	var out []string
	for field, v := range f {
		ops, ok := v.(map[string]any)
		if !ok {
			continue
		}
		for op := range ops {
			if !IsComparisonOperator(op) {
				out = append(out, field+"["+strings.TrimPrefix(op, "$")+"]")
			}
		}
	}
	sort.Strings(out)
	return out
}

// Fields returns the filtered field names in sorted order.
func (f Filters) Fields() []string {
	out := make([]string, 0, len(f))
	for k := range f {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
