package query

import (
	"context"
	"net/url"
)

// Descriptor is the complete, bounded description of a list query.
type Descriptor struct {
	Filters    Filters
	Sort       []SortKey
	Projection Projection
	Skip       int
	Limit      int
}

// Builder chains the four query stages. The first failing stage stops the
// chain and its error is returned by Build.
//
//	d, err := query.New(r.URL.Query()).Filter().Sort().LimitFields().Paginate(ctx, repo.Count).Build()
type Builder struct {
	raw      Params
	controls Controls
	desc     Descriptor
	err      error
}

// New parses values and removes the control parameters up front.
func New(values url.Values) *Builder {
	return FromParams(ParseValues(values))
}

// FromParams starts a chain over an already parsed mapping. raw loses its
// control parameters.
func FromParams(raw Params) *Builder {
	b := &Builder{raw: raw}
	b.controls = StripControls(raw)
	b.desc = Descriptor{
		Filters:    Filters{},
		Sort:       append([]SortKey(nil), DefaultSort...),
		Projection: DefaultProjection(),
		Limit:      DefaultLimit,
	}
	return b
}

func (b *Builder) Filter() *Builder {
	if b.err != nil {
		return b
	}
	b.desc.Filters = buildFilters(b.raw)
	return b
}

func (b *Builder) Sort() *Builder {
	if b.err != nil {
		return b
	}
	b.desc.Sort = ApplySort(b.controls.Sort)
	return b
}

func (b *Builder) LimitFields() *Builder {
	if b.err != nil {
		return b
	}
	b.desc.Projection = ApplyProjection(b.controls.Fields)
	return b
}

// Paginate computes skip and limit; count is consulted only when a page was
// explicitly requested.
func (b *Builder) Paginate(ctx context.Context, count CountFunc) *Builder {
	if b.err != nil {
		return b
	}
	skip, limit, err := ApplyPagination(ctx, b.controls.Page, b.controls.Limit, b.desc.Filters, count)
	if err != nil {
		b.err = err
		return b
	}
	b.desc.Skip, b.desc.Limit = skip, limit
	return b
}

// Check runs fn against the filters built so far, stopping the chain on error.
func (b *Builder) Check(fn func(Filters) error) *Builder {
	if b.err != nil {
		return b
	}
	b.err = fn(b.desc.Filters)
	return b
}

func (b *Builder) Build() (Descriptor, error) {
	if b.err != nil {
		return Descriptor{}, b.err
	}
	return b.desc, nil
}
