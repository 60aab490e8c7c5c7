package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/1010nishant/BookMyTrip/internal/domain/entity"
	"github.com/1010nishant/BookMyTrip/internal/domain/query"
	"github.com/1010nishant/BookMyTrip/internal/domain/repository"
)

const toursCollection = "tours"

// TourRepository stores tours as documents keyed by a uuid string _id.
type TourRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewTourRepository(db *mongo.Database) *TourRepository {
	return &TourRepository{coll: db.Collection(toursCollection), now: time.Now}
}

// EnsureIndexes creates the unique name index and the price/rating index
// used by the cheap-tours listing.
func (r *TourRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "price", Value: 1}, {Key: "ratingsAverage", Value: -1}}},
	})
	return err
}

func (r *TourRepository) Find(ctx context.Context, d query.Descriptor) ([]*entity.Tour, error) {
	filter, err := toFilter(d.Filters)
	if err != nil {
		return nil, err
	}
	opts := options.Find().
		SetSort(toSort(d.Sort)).
		SetSkip(int64(d.Skip)).
		SetLimit(int64(d.Limit))
	if p := toProjection(d.Projection); p != nil {
		opts.SetProjection(p)
	}

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	tours := make([]*entity.Tour, 0)
	if err := cur.All(ctx, &tours); err != nil {
		return nil, err
	}
	return tours, nil
}

func (r *TourRepository) Count(ctx context.Context, f query.Filters) (int64, error) {
	filter, err := toFilter(f)
	if err != nil {
		return 0, err
	}
	return r.coll.CountDocuments(ctx, filter)
}

func (r *TourRepository) GetByID(ctx context.Context, id string) (*entity.Tour, error) {
	var t entity.Tour
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TourRepository) Create(ctx context.Context, t *entity.Tour) error {
	t.ID = uuid.NewString()
	t.CreatedAt = r.now().UTC().Truncate(time.Millisecond)
	t.Version = 0
	_, err := r.coll.InsertOne(ctx, t)
	return err
}

func (r *TourRepository) Update(ctx context.Context, t *entity.Tour) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": t.ID}, t)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TourRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TourRepository) Stats(ctx context.Context, minRating float64) ([]entity.TourStat, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"ratingsAverage": bson.M{"$gte": minRating}}}},
		{{Key: "$group", Value: bson.M{
			"_id":        bson.M{"$toUpper": "$difficulty"},
			"numTours":   bson.M{"$sum": 1},
			"numRatings": bson.M{"$sum": "$ratingsQuantity"},
			"avgRating":  bson.M{"$avg": "$ratingsAverage"},
			"avgPrice":   bson.M{"$avg": "$price"},
			"minPrice":   bson.M{"$min": "$price"},
			"maxPrice":   bson.M{"$max": "$price"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "avgPrice", Value: 1}}}},
	}
	stats := make([]entity.TourStat, 0)
	if err := r.aggregate(ctx, pipeline, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *TourRepository) MonthlyPlan(ctx context.Context, year int) ([]entity.MonthlyPlan, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$startDates"}},
		{{Key: "$match", Value: bson.M{"startDates": bson.M{"$gte": from, "$lt": from.AddDate(1, 0, 0)}}}},
		{{Key: "$group", Value: bson.M{
			"_id":           bson.M{"$month": "$startDates"},
			"numTourStarts": bson.M{"$sum": 1},
			"tours":         bson.M{"$push": "$name"},
		}}},
		{{Key: "$addFields", Value: bson.M{"month": "$_id"}}},
		{{Key: "$project", Value: bson.M{"_id": 0}}},
		{{Key: "$sort", Value: bson.D{{Key: "numTourStarts", Value: -1}, {Key: "month", Value: 1}}}},
		{{Key: "$limit", Value: 12}},
	}
	plan := make([]entity.MonthlyPlan, 0)
	if err := r.aggregate(ctx, pipeline, &plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (r *TourRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline, out any) error {
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)
	return cur.All(ctx, out)
}

var _ repository.TourRepository = (*TourRepository)(nil)
