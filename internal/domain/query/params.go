// Package query turns client query strings into bounded query descriptors
// for the tour repositories.
package query

import (
	"net/url"
	"sort"
	"strings"
)

// Params is the raw, nested view of a query string. Values are either a
// string or a nested Params built from bracket notation such as
// duration[gte]=5.
type Params map[string]any

// Control parameter names. They shape the query and are never filters.
const (
	ParamPage   = "page"
	ParamSort   = "sort"
	ParamLimit  = "limit"
	ParamFields = "fields"
)

var controlParams = []string{ParamPage, ParamSort, ParamLimit, ParamFields}

// ParseValues converts url.Values into Params. Only the first value of a
// repeated key is kept.
func ParseValues(values url.Values) Params {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := Params{}
	for _, key := range keys {
		vs := values[key]
		if len(vs) == 0 {
			continue
		}
		setPath(out, splitKey(key), vs[0])
	}
	return out
}

// splitKey splits "a[b][c]" into ["a", "b", "c"].
func splitKey(key string) []string {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return []string{key}
	}
	parts := []string{key[:open]}
	rest := key[open:]
	for len(rest) > 0 && rest[0] == '[' {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return []string{key}
		}
		parts = append(parts, rest[1:end])
		rest = rest[end+1:]
	}
	if rest != "" {
		return []string{key}
	}
	return parts
}

func setPath(p Params, path []string, value string) {
	head := path[0]
	if len(path) == 1 {
		if _, nested := p[head].(Params); !nested {
			p[head] = value
		}
		return
	}
	child, ok := p[head].(Params)
	if !ok {
		child = Params{}
		p[head] = child
	}
	setPath(child, path[1:], value)
}

// Controls holds the control parameters removed from a raw mapping.
type Controls struct {
	Page   string
	Sort   string
	Limit  string
	Fields string
}

// StripControls deletes page, sort, limit and fields from raw and returns
// their string values. It must run before anything else reads raw.
func StripControls(raw Params) Controls {
	var c Controls
	for _, key := range controlParams {
		v, ok := raw[key]
		if !ok {
			continue
		}
		delete(raw, key)
		s, _ := v.(string)
		switch key {
		case ParamPage:
			c.Page = s
		case ParamSort:
			c.Sort = s
		case ParamLimit:
			c.Limit = s
		case ParamFields:
			c.Fields = s
		}
	}
	return c
}
