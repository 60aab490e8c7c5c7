package query

import "strings"

// VersionField is the internal document version, hidden by default.
const VersionField = "__v"

// IDField is always part of a projection.
const IDField = "id"

// Projection selects the fields returned for each document. When Include is
// non-empty it wins and Exclude is ignored.
type Projection struct {
	Include []string
	Exclude []string
}

// DefaultProjection returns every field except the version field.
func DefaultProjection() Projection {
	return Projection{Exclude: []string{VersionField}}
}

// ApplyProjection parses "name,price" into an inclusion set. Entries with a
// leading "-" build an exclusion set instead.
func ApplyProjection(raw string) Projection {
	var p Projection
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "" || part == "-":
		case strings.HasPrefix(part, "-"):
			p.Exclude = append(p.Exclude, part[1:])
		default:
			p.Include = append(p.Include, part)
		}
	}
	if len(p.Include) == 0 && len(p.Exclude) == 0 {
		return DefaultProjection()
	}
	if len(p.Include) > 0 {
		p.Exclude = nil
	}
	return p
}

// IsInclusive reports whether the projection lists the fields to keep.
func (p Projection) IsInclusive() bool { return len(p.Include) > 0 }

// Allows reports whether field is part of the projected document.
func (p Projection) Allows(field string) bool {
	if field == IDField {
		return true
	}
	if p.IsInclusive() {
		return contains(p.Include, field)
	}
	return !contains(p.Exclude, field)
}

// Apply filters a rendered document down to the projected fields.
func (p Projection) Apply(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		if p.Allows(k) {
			out[k] = v
		}
	}
	return out
}

// Fields returns every field named in the projection.
func (p Projection) Fields() []string {
	if p.IsInclusive() {
		return p.Include
	}
	return p.Exclude
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
