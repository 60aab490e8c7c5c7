package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/1010nishant/BookMyTrip/internal/domain/entity"
	"github.com/1010nishant/BookMyTrip/internal/domain/query"
	"github.com/1010nishant/BookMyTrip/internal/domain/repository"
)

var allTourColumns = tourSelectColumns(query.Projection{})

type TourRepository struct {
	db DBTX
}

func NewTourRepository(db DBTX) *TourRepository {
	return &TourRepository{db: db}
}

func (r *TourRepository) Find(ctx context.Context, d query.Descriptor) ([]*entity.Tour, error) {
	where, args, err := buildTourWhere(d.Filters, 1)
	if err != nil {
		return nil, err
	}
	n := len(args) + 1
	sql := fmt.Sprintf("SELECT %s FROM tours %s %s LIMIT $%d OFFSET $%d",
		tourSelectColumns(d.Projection), where, buildTourOrderBy(d.Sort), n, n+1)

	rows, err := r.db.Query(ctx, sql, append(args, d.Limit, d.Skip)...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[entity.Tour])
}

func (r *TourRepository) Count(ctx context.Context, f query.Filters) (int64, error) {
	where, args, err := buildTourWhere(f, 1)
	if err != nil {
		return 0, err
	}
	var n int64
	err = r.db.QueryRow(ctx, "SELECT COUNT(*) FROM tours "+where, args...).Scan(&n)
	return n, err
}

func (r *TourRepository) GetByID(ctx context.Context, id string) (*entity.Tour, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}
	rows, err := r.db.Query(ctx, "SELECT "+allTourColumns+" FROM tours WHERE id = $1", id)
	if err != nil {
		return nil, err
	}
	t, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[entity.Tour])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return t, err
}

func (r *TourRepository) Create(ctx context.Context, t *entity.Tour) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO tours (name, duration, max_group_size, difficulty, ratings_average,
			ratings_quantity, price, price_discount, summary, description, image_cover,
			images, start_dates)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, version
	`, t.Name, t.Duration, t.MaxGroupSize, t.Difficulty, t.RatingsAverage,
		t.RatingsQuantity, t.Price, t.PriceDiscount, t.Summary, t.Description, t.ImageCover,
		t.Images, t.StartDates)

	return row.Scan(&t.ID, &t.CreatedAt, &t.Version)
}

func (r *TourRepository) Update(ctx context.Context, t *entity.Tour) error {
	if _, err := uuid.Parse(t.ID); err != nil {
		return repository.ErrNotFound
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE tours
		SET name = $1, duration = $2, max_group_size = $3, difficulty = $4,
			ratings_average = $5, ratings_quantity = $6, price = $7, price_discount = $8,
			summary = $9, description = $10, image_cover = $11, images = $12,
			start_dates = $13, version = $14
		WHERE id = $15
	`, t.Name, t.Duration, t.MaxGroupSize, t.Difficulty, t.RatingsAverage,
		t.RatingsQuantity, t.Price, t.PriceDiscount, t.Summary, t.Description,
		t.ImageCover, t.Images, t.StartDates, t.Version, t.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TourRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return repository.ErrNotFound
	}
	tag, err := r.db.Exec(ctx, "DELETE FROM tours WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Stats groups tours rated at least minRating by difficulty, cheapest
// average first.
func (r *TourRepository) Stats(ctx context.Context, minRating float64) ([]entity.TourStat, error) {
	rows, err := r.db.Query(ctx, `
		SELECT upper(difficulty)          AS difficulty,
		       COUNT(*)                   AS num_tours,
		       SUM(ratings_quantity)      AS num_ratings,
		       AVG(ratings_average)       AS avg_rating,
		       AVG(price)                 AS avg_price,
		       MIN(price)                 AS min_price,
		       MAX(price)                 AS max_price
		FROM tours
		WHERE ratings_average >= $1
		GROUP BY upper(difficulty)
		ORDER BY avg_price
	`, minRating)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[entity.TourStat])
}

// MonthlyPlan counts tour starts per month of year, busiest month first.
func (r *TourRepository) MonthlyPlan(ctx context.Context, year int) ([]entity.MonthlyPlan, error) {
	rows, err := r.db.Query(ctx, `
		SELECT EXTRACT(MONTH FROM s.start_date)::int AS month,
		       COUNT(*)::int                        AS num_tour_starts,
		       array_agg(t.name ORDER BY t.name)    AS tours
		FROM tours t
		CROSS JOIN LATERAL unnest(t.start_dates) AS s(start_date)
		WHERE s.start_date >= make_timestamptz($1, 1, 1, 0, 0, 0, 'UTC')
		  AND s.start_date <  make_timestamptz($1 + 1, 1, 1, 0, 0, 0, 'UTC')
		GROUP BY month
		ORDER BY num_tour_starts DESC, month
		LIMIT 12
	`, year)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[entity.MonthlyPlan])
}

var _ repository.TourRepository = (*TourRepository)(nil)
