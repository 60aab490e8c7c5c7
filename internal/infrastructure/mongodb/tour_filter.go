package mongodb

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/1010nishant/BookMyTrip/internal/domain/apperror"
	"github.com/1010nishant/BookMyTrip/internal/domain/entity"
	"github.com/1010nishant/BookMyTrip/internal/domain/query"
)

var storedFields = func() map[string]bool {
	m := make(map[string]bool, len(entity.TourFields))
	for _, f := range entity.TourFields {
		m[f] = true
	}
	return m
}()

func docKey(field string) string {
	if field == query.IDField {
		return "_id"
	}
	return field
}

// toFilter converts f into a bson filter. Only stored fields and the
// recognised comparison operators are accepted.
func toFilter(f query.Filters) (bson.M, error) {
	out := bson.M{}
	for _, field := range f.Fields() {
		if !storedFields[field] {
			return nil, apperror.Validation(fmt.Sprintf("Invalid filter field: %s", field))
		}
		ops, ok := f[field].(map[string]any)
		if !ok {
			out[docKey(field)] = f[field]
			continue
		}
		cond := bson.M{}
		for op, operand := range ops {
			if !query.IsComparisonOperator(op) {
				return nil, apperror.Validation(fmt.Sprintf("Unsupported operator %q on %s", strings.TrimPrefix(op, "$"), field))
			}
			if _, nested := operand.(query.Params); nested {
				return nil, apperror.Validation(fmt.Sprintf("Invalid value for %s", field))
			}
			cond[op] = operand
		}
		out[docKey(field)] = cond
	}
	return out, nil
}

// toSort renders keys in order with _id as the final tiebreaker.
func toSort(keys []query.SortKey) bson.D {
	out := make(bson.D, 0, len(keys)+1)
	seen := map[string]bool{}
	for _, k := range keys {
		field := k.Field
		if field == "durationWeeks" {
			field = "duration"
		}
		key := docKey(field)
		if seen[key] {
			continue
		}
		seen[key] = true
		dir := 1
		if k.Desc {
			dir = -1
		}
		out = append(out, bson.E{Key: key, Value: dir})
	}
	if !seen["_id"] {
		out = append(out, bson.E{Key: "_id", Value: 1})
	}
	return out
}

// toProjection returns nil when every field is wanted.
func toProjection(p query.Projection) bson.M {
	if p.IsInclusive() {
		out := bson.M{}
		for _, field := range p.Include {
			switch {
			case field == "durationWeeks":
				out["duration"] = 1
			case storedFields[field]:
				out[docKey(field)] = 1
			}
		}
		return out
	}
	var out bson.M
	for _, field := range p.Exclude {
		if field == query.IDField || !storedFields[field] {
			continue
		}
		if out == nil {
			out = bson.M{}
		}
		out[field] = 0
	}
	return out
}
