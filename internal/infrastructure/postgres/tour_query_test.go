package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1010nishant/BookMyTrip/internal/domain/apperror"
	"github.com/1010nishant/BookMyTrip/internal/domain/query"
)

func TestBuildTourWhere(t *testing.T) {
	f := query.Filters{
		"difficulty": "easy",
		"duration":   map[string]any{query.OpGTE: int64(5)},
		"price":      map[string]any{query.OpLT: 1500.5},
	}
	where, args, err := buildTourWhere(f, 1)
	require.NoError(t, err)

	assert.Equal(t, "WHERE difficulty = $1::text AND duration >= $2::float8 AND price < $3::float8", where)
	assert.Equal(t, []any{"easy", 5.0, 1500.5}, args)
}

func TestBuildTourWhereEmpty(t *testing.T) {
	where, args, err := buildTourWhere(query.Filters{}, 1)
	require.NoError(t, err)
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestBuildTourWhereArrays(t *testing.T) {
	day := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	f := query.Filters{
		"images":     "tour-2-1.jpg",
		"startDates": map[string]any{query.OpGTE: day},
	}
	where, args, err := buildTourWhere(f, 3)
	require.NoError(t, err)

	assert.Contains(t, where, "$3::text = ANY(images)")
	assert.Contains(t, where, "EXISTS (SELECT 1 FROM unnest(start_dates) AS e WHERE e >= $4::timestamptz)")
	assert.Equal(t, []any{"tour-2-1.jpg", day}, args)
}

func TestBuildTourWhereTextCoercedBack(t *testing.T) {
	_, args, err := buildTourWhere(query.Filters{"name": int64(42)}, 1)
	require.NoError(t, err)
	assert.Equal(t, []any{"42"}, args)
}

func TestBuildTourWhereRejects(t *testing.T) {
	cases := map[string]query.Filters{
		"unknown field":      {"colour": "red"},
		"unknown operator":   {"price": map[string]any{"$regex": "1"}},
		"text on number":     {"price": "cheap"},
		"number on date":     {"createdAt": int64(3)},
		"malformed id":       {"id": "not-a-uuid"},
		"operator on id":     {"id": map[string]any{query.OpGT: "x"}},
		"nested beyond ops":  {"price": map[string]any{query.OpGT: query.Params{"x": "1"}}},
		"virtual not stored": {"durationWeeks": int64(1)},
	}
	for name, f := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := buildTourWhere(f, 1)
			require.Error(t, err)
			assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
		})
	}
}

func TestBuildTourOrderBy(t *testing.T) {
	order := buildTourOrderBy([]query.SortKey{
		{Field: "price"},
		{Field: "ratingsAverage", Desc: true},
		{Field: "images"},
		{Field: "nope"},
	})
	assert.Equal(t, "ORDER BY price ASC, ratings_average DESC, id ASC", order)

	assert.Equal(t, "ORDER BY created_at DESC, id ASC", buildTourOrderBy(query.DefaultSort))
	assert.Equal(t, "ORDER BY duration ASC, id ASC", buildTourOrderBy([]query.SortKey{{Field: "durationWeeks"}}))
}

func TestTourSelectColumns(t *testing.T) {
	cols := tourSelectColumns(query.ApplyProjection("name,price"))
	assert.Equal(t, "id, name, price", cols)

	cols = tourSelectColumns(query.ApplyProjection("name,durationWeeks"))
	assert.Equal(t, "id, name, duration", cols)

	cols = tourSelectColumns(query.DefaultProjection())
	assert.NotContains(t, cols, "version")
	assert.Contains(t, cols, "start_dates")

	cols = tourSelectColumns(query.ApplyProjection("-id,-summary"))
	assert.Contains(t, cols, "id")
	assert.NotContains(t, cols, "summary")
}
