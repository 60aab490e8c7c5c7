package repository

import (
	"context"

	"github.com/1010nishant/BookMyTrip/internal/domain/entity"
	"github.com/1010nishant/BookMyTrip/internal/domain/query"
)

// TourRepository executes query descriptors and pass-through CRUD.
// Implementations reject filters on unknown fields or with unrecognised
// operators with an apperror validation error.
type TourRepository interface {
	Find(ctx context.Context, d query.Descriptor) ([]*entity.Tour, error)
	Count(ctx context.Context, f query.Filters) (int64, error)
	GetByID(ctx context.Context, id string) (*entity.Tour, error)
	Create(ctx context.Context, t *entity.Tour) error
	Update(ctx context.Context, t *entity.Tour) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, minRating float64) ([]entity.TourStat, error)
	MonthlyPlan(ctx context.Context, year int) ([]entity.MonthlyPlan, error)
}
