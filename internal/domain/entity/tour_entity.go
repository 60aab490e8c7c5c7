package entity

import (
	"strings"
	"time"
)

type Difficulty string

const (
	DifficultyEasy      Difficulty = "easy"
	DifficultyMedium    Difficulty = "medium"
	DifficultyDifficult Difficulty = "difficult"
)

const (
	DefaultRatingsAverage = 4.5
	DefaultImageCover     = "default-cover.jpg"
)

// Tour is a bookable tour listing.
type Tour struct {
	ID              string      `json:"id" db:"id" bson:"_id"`
	Name            string      `json:"name" db:"name" bson:"name"`
	Duration        int         `json:"duration" db:"duration" bson:"duration"`
	MaxGroupSize    int         `json:"maxGroupSize" db:"max_group_size" bson:"maxGroupSize"`
	Difficulty      Difficulty  `json:"difficulty" db:"difficulty" bson:"difficulty"`
	RatingsAverage  float64     `json:"ratingsAverage" db:"ratings_average" bson:"ratingsAverage"`
	RatingsQuantity int         `json:"ratingsQuantity" db:"ratings_quantity" bson:"ratingsQuantity"`
	Price           float64     `json:"price" db:"price" bson:"price"`
	PriceDiscount   *float64    `json:"priceDiscount,omitempty" db:"price_discount" bson:"priceDiscount,omitempty"`
	Summary         string      `json:"summary" db:"summary" bson:"summary"`
	Description     string      `json:"description" db:"description" bson:"description"`
	ImageCover      string      `json:"imageCover" db:"image_cover" bson:"imageCover"`
	Images          []string    `json:"images" db:"images" bson:"images"`
	StartDates      []time.Time `json:"startDates" db:"start_dates" bson:"startDates"`
	CreatedAt       time.Time   `json:"createdAt" db:"created_at" bson:"createdAt"`
	Version         int         `json:"__v" db:"version" bson:"__v"`
}

// DurationWeeks is derived, never stored.
func (t *Tour) DurationWeeks() float64 {
	return float64(t.Duration) / 7
}

// TourFields lists the document fields clients may filter, sort and project on.
var TourFields = []string{
	"id", "name", "duration", "maxGroupSize", "difficulty", "ratingsAverage",
	"ratingsQuantity", "price", "priceDiscount", "summary", "description",
	"imageCover", "images", "startDates", "createdAt", "__v",
}

// VirtualTourFields are computed and may only be projected.
var VirtualTourFields = []string{"durationWeeks"}

// Document renders the tour with its virtual fields, keyed by JSON name.
func (t *Tour) Document() map[string]any {
	doc := map[string]any{
		"id":              t.ID,
		"name":            t.Name,
		"duration":        t.Duration,
		"maxGroupSize":    t.MaxGroupSize,
		"difficulty":      t.Difficulty,
		"ratingsAverage":  t.RatingsAverage,
		"ratingsQuantity": t.RatingsQuantity,
		"price":           t.Price,
		"summary":         t.Summary,
		"description":     t.Description,
		"imageCover":      t.ImageCover,
		"images":          nonNil(t.Images),
		"startDates":      nonNilTimes(t.StartDates),
		"createdAt":       t.CreatedAt,
		"__v":             t.Version,
		"durationWeeks":   t.DurationWeeks(),
	}
	if t.PriceDiscount != nil {
		doc["priceDiscount"] = *t.PriceDiscount
	}
	return doc
}

// TourInput is the payload for creating a tour.
type TourInput struct {
	Name            string      `json:"name" validate:"required,min=3,max=40"`
	Duration        int         `json:"duration" validate:"required,gt=0"`
	MaxGroupSize    int         `json:"maxGroupSize" validate:"required,gt=0"`
	Difficulty      Difficulty  `json:"difficulty" validate:"required,difficulty"`
	RatingsAverage  *float64    `json:"ratingsAverage" validate:"omitempty,gte=1,lte=5"`
	RatingsQuantity int         `json:"ratingsQuantity" validate:"gte=0"`
	Price           float64     `json:"price" validate:"required,gt=0"`
	PriceDiscount   *float64    `json:"priceDiscount" validate:"omitempty,gte=0,ltfield=Price"`
	Summary         string      `json:"summary" validate:"required"`
	Description     string      `json:"description"`
	ImageCover      string      `json:"imageCover"`
	Images          []string    `json:"images"`
	StartDates      []time.Time `json:"startDates"`
}

// NewTour validates in and applies the schema defaults.
func NewTour(in TourInput) (*Tour, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Summary = strings.TrimSpace(in.Summary)
	in.Description = strings.TrimSpace(in.Description)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	t := &Tour{
		Name:            in.Name,
		Duration:        in.Duration,
		MaxGroupSize:    in.MaxGroupSize,
		Difficulty:      in.Difficulty,
		RatingsAverage:  DefaultRatingsAverage,
		RatingsQuantity: in.RatingsQuantity,
		Price:           in.Price,
		PriceDiscount:   in.PriceDiscount,
		Summary:         in.Summary,
		Description:     in.Description,
		ImageCover:      in.ImageCover,
		Images:          nonNil(in.Images),
		StartDates:      nonNilTimes(in.StartDates),
	}
	if in.RatingsAverage != nil {
		t.RatingsAverage = *in.RatingsAverage
	}
	if t.ImageCover == "" {
		t.ImageCover = DefaultImageCover
	}
	return t, nil
}

// TourPatch is a partial update; nil fields are left untouched.
type TourPatch struct {
	Name            *string      `json:"name"`
	Duration        *int         `json:"duration"`
	MaxGroupSize    *int         `json:"maxGroupSize"`
	Difficulty      *Difficulty  `json:"difficulty"`
	RatingsAverage  *float64     `json:"ratingsAverage"`
	RatingsQuantity *int         `json:"ratingsQuantity"`
	Price           *float64     `json:"price"`
	PriceDiscount   *float64     `json:"priceDiscount"`
	Summary         *string      `json:"summary"`
	Description     *string      `json:"description"`
	ImageCover      *string      `json:"imageCover"`
	Images          *[]string    `json:"images"`
	StartDates      *[]time.Time `json:"startDates"`
}

// Apply merges p into a copy of t, validates the result and only then
// writes it back. The version is bumped on success.
func (t *Tour) Apply(p TourPatch) error {
	ratings := t.RatingsAverage
	in := TourInput{
		Name: t.Name, Duration: t.Duration, MaxGroupSize: t.MaxGroupSize,
		Difficulty: t.Difficulty, RatingsAverage: &ratings,
		RatingsQuantity: t.RatingsQuantity, Price: t.Price, PriceDiscount: t.PriceDiscount,
		Summary: t.Summary, Description: t.Description, ImageCover: t.ImageCover,
		Images: t.Images, StartDates: t.StartDates,
	}
	if p.Name != nil {
		in.Name = strings.TrimSpace(*p.Name)
	}
	if p.Duration != nil {
		in.Duration = *p.Duration
	}
	if p.MaxGroupSize != nil {
		in.MaxGroupSize = *p.MaxGroupSize
	}
	if p.Difficulty != nil {
		in.Difficulty = *p.Difficulty
	}
	if p.RatingsAverage != nil {
		in.RatingsAverage = p.RatingsAverage
	}
	if p.RatingsQuantity != nil {
		in.RatingsQuantity = *p.RatingsQuantity
	}
	if p.Price != nil {
		in.Price = *p.Price
	}
	if p.PriceDiscount != nil {
		in.PriceDiscount = p.PriceDiscount
	}
	if p.Summary != nil {
		in.Summary = strings.TrimSpace(*p.Summary)
	}
	if p.Description != nil {
		in.Description = strings.TrimSpace(*p.Description)
	}
	if p.ImageCover != nil {
		in.ImageCover = *p.ImageCover
	}
	if p.Images != nil {
		in.Images = *p.Images
	}
	if p.StartDates != nil {
		in.StartDates = *p.StartDates
	}
	if err := validateStruct(in); err != nil {
		return err
	}

	t.Name, t.Duration, t.MaxGroupSize, t.Difficulty = in.Name, in.Duration, in.MaxGroupSize, in.Difficulty
	t.RatingsAverage, t.RatingsQuantity = *in.RatingsAverage, in.RatingsQuantity
	t.Price, t.PriceDiscount = in.Price, in.PriceDiscount
	t.Summary, t.Description, t.ImageCover = in.Summary, in.Description, in.ImageCover
	t.Images, t.StartDates = nonNil(in.Images), nonNilTimes(in.StartDates)
	t.Version++
	return nil
}

// TourStat aggregates tours of one difficulty.
type TourStat struct {
	Difficulty string  `json:"difficulty" db:"difficulty" bson:"_id"`
	NumTours   int     `json:"numTours" db:"num_tours" bson:"numTours"`
	NumRatings int     `json:"numRatings" db:"num_ratings" bson:"numRatings"`
	AvgRating  float64 `json:"avgRating" db:"avg_rating" bson:"avgRating"`
	AvgPrice   float64 `json:"avgPrice" db:"avg_price" bson:"avgPrice"`
	MinPrice   float64 `json:"minPrice" db:"min_price" bson:"minPrice"`
	MaxPrice   float64 `json:"maxPrice" db:"max_price" bson:"maxPrice"`
}

// MonthlyPlan counts tour starts in one month of a year.
type MonthlyPlan struct {
	Month         int      `json:"month" db:"month" bson:"month"`
	NumTourStarts int      `json:"numTourStarts" db:"num_tour_starts" bson:"numTourStarts"`
	Tours         []string `json:"tours" db:"tours" bson:"tours"`
}

// StatsMinRating is the rating threshold for tour statistics.
const StatsMinRating = 4.5

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilTimes(s []time.Time) []time.Time {
	if s == nil {
		return []time.Time{}
	}
	return s
}
