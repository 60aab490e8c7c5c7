package application

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/1010nishant/BookMyTrip/internal/domain/apperror"
	"github.com/1010nishant/BookMyTrip/internal/domain/entity"
	"github.com/1010nishant/BookMyTrip/internal/domain/query"
	repo "github.com/1010nishant/BookMyTrip/internal/domain/repository"
)

var errNoTour = apperror.NotFound("No tour found with that ID")

// Query values applied by the top-5-cheap alias.
const (
	TopCheapLimit  = "5"
	TopCheapSort   = "-ratingsAverage,price"
	TopCheapFields = "name,price,ratingsAverage,summary,difficulty"
)

// TourSearcher keeps a full-text index of tours. It is optional.
type TourSearcher interface {
	IndexTour(ctx context.Context, t *entity.Tour) error
	RemoveTour(ctx context.Context, id string) error
	SearchTours(ctx context.Context, q string, size int) ([]string, error)
}

type TourService struct {
	Repo   repo.TourRepository
	Cache  *TourCache
	Search TourSearcher
	Logger *logrus.Logger
}

func NewTourService(r repo.TourRepository, cache *TourCache, search TourSearcher, logger *logrus.Logger) *TourService {
	return &TourService{Repo: r, Cache: cache, Search: search, Logger: logger}
}

func rejectUnsupportedOperators(f query.Filters) error {
	if ops := f.UnsupportedOperators(); len(ops) > 0 {
		return apperror.Validation(fmt.Sprintf("Unsupported filter operator: %s", strings.Join(ops, ", "))).
			WithDetails(map[string]any{"operators": ops})
	}
	return nil
}

// List runs a filtered, sorted, projected and paginated query and returns
// the documents as the projection shapes them.
func (s *TourService) List(ctx context.Context, values url.Values) ([]map[string]any, error) {
	d, err := query.New(values).
		Filter().
		Check(rejectUnsupportedOperators).
		Sort().
		LimitFields().
		Paginate(ctx, s.Repo.Count).
		Build()
	if err != nil {
		return nil, err
	}
	tours, err := s.Repo.Find(ctx, d)
	if err != nil {
		return nil, err
	}
	docs := make([]map[string]any, 0, len(tours))
	for _, t := range tours {
		docs = append(docs, d.Projection.Apply(t.Document()))
	}
	return docs, nil
}

// TopCheap lists the five best rated, cheapest tours. Other query values,
// filters and page included, still apply.
func (s *TourService) TopCheap(ctx context.Context, values url.Values) ([]map[string]any, error) {
	v := url.Values{}
	for k, vals := range values {
		v[k] = append([]string(nil), vals...)
	}
	v.Set(query.ParamLimit, TopCheapLimit)
	v.Set(query.ParamSort, TopCheapSort)
	v.Set(query.ParamFields, TopCheapFields)
	return s.List(ctx, v)
}

func (s *TourService) Get(ctx context.Context, id string) (*entity.Tour, error) {
	if t, ok := s.Cache.Get(id); ok {
		return t, nil
	}
	t, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errNoTour
		}
		return nil, err
	}
	s.Cache.Add(t)
	return t, nil
}

func (s *TourService) Create(ctx context.Context, in entity.TourInput) (*entity.Tour, error) {
	t, err := entity.NewTour(in)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, t); err != nil {
		return nil, err
	}
	s.index(ctx, t)
	return t, nil
}

// Update applies p to the stored tour; the result is validated before it
// is written.
func (s *TourService) Update(ctx context.Context, id string, p entity.TourPatch) (*entity.Tour, error) {
	t, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errNoTour
		}
		return nil, err
	}
	if err := t.Apply(p); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, t); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errNoTour
		}
		return nil, err
	}
	s.Cache.Remove(id)
	s.index(ctx, t)
	return t, nil
}

func (s *TourService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return errNoTour
		}
		return err
	}
	s.Cache.Remove(id)
	if s.Search != nil {
		if err := s.Search.RemoveTour(ctx, id); err != nil {
			s.warn(err, id, "tour index remove failed")
		}
	}
	return nil
}

func (s *TourService) Stats(ctx context.Context) ([]entity.TourStat, error) {
	return s.Repo.Stats(ctx, entity.StatsMinRating)
}

func (s *TourService) MonthlyPlan(ctx context.Context, year int) ([]entity.MonthlyPlan, error) {
	if year < 1 || year > 9999 {
		return nil, apperror.Validation(fmt.Sprintf("Invalid year: %d", year))
	}
	return s.Repo.MonthlyPlan(ctx, year)
}

// SearchTours returns tours matching q in relevance order. Ids the index still
// holds for deleted tours are skipped.
func (s *TourService) SearchTours(ctx context.Context, q string, size int) ([]*entity.Tour, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, apperror.Validation("Please provide a search query")
	}
	if s.Search == nil {
		return []*entity.Tour{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	ids, err := s.Search.SearchTours(ctx, q, size)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Tour, 0, len(ids))
	for _, id := range ids {
		t, err := s.Get(ctx, id)
		if errors.Is(err, errNoTour) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *TourService) index(ctx context.Context, t *entity.Tour) {
	if s.Search == nil {
		return
	}
	if err := s.Search.IndexTour(ctx, t); err != nil {
		s.warn(err, t.ID, "tour index failed")
	}
}

func (s *TourService) warn(err error, id, msg string) {
	if s.Logger != nil {
		s.Logger.WithError(err).WithField("tour_id", id).Warn(msg)
	}
}
