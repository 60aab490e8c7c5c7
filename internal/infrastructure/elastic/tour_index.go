package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/1010nishant/BookMyTrip/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

// TourIndex keeps a searchable copy of tour name and summary.
type TourIndex struct {
	ES     *elasticsearch.Client
	Index  string
	Logger *logrus.Logger
}

func NewTourIndex(es *elasticsearch.Client, index string, logger *logrus.Logger) *TourIndex {
	return &TourIndex{ES: es, Index: index, Logger: logger}
}

type tourDoc struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Summary        string    `json:"summary"`
	Difficulty     string    `json:"difficulty"`
	Price          float64   `json:"price"`
	RatingsAverage float64   `json:"ratingsAverage"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (x *TourIndex) IndexTour(ctx context.Context, t *entity.Tour) error {
	b, err := json.Marshal(tourDoc{
		ID: t.ID, Name: t.Name, Summary: t.Summary, Difficulty: string(t.Difficulty),
		Price: t.Price, RatingsAverage: t.RatingsAverage, CreatedAt: t.CreatedAt,
	})
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.Index, DocumentID: t.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index %s: %s", t.ID, res.Status())
	}
	return nil
}

func (x *TourIndex) RemoveTour(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: x.Index, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es delete %s: %s", id, res.Status())
	}
	return nil
}

// SearchTours runs a multi_match on name and summary and returns matching ids
// in relevance order.
func (x *TourIndex) SearchTours(ctx context.Context, q string, size int) ([]string, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "summary"},
			},
		},
		"size":    size,
		"_source": false,
	}
	b, _ := json.Marshal(body)

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.ES.Search(
		x.ES.Search.WithContext(c),
		x.ES.Search.WithIndex(x.Index),
		x.ES.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	if x.Logger != nil {
		x.Logger.WithFields(logrus.Fields{"q": q, "hits": len(ids)}).Debug("tour search")
	}
	return ids, nil
}
