package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/natoursapp/natours-api/internal/domain/entity"
	"github.com/natoursapp/natours-api/internal/domain/repository"
	"github.com/natoursapp/natours-api/pkg/helpers"
)

const (
	tourListCacheKey = "tours:list"
	tourListCacheTTL = 60 * time.Second
)

// TourService serves the tour catalogue. The list read is cached in
// Redis and tours are mirrored into Elasticsearch for free-text search;
// both are best effort and the service works with either client nil.
type TourService struct {
	Repo    repository.TourRepository
	Redis   *redis.Client
	ES      *elasticsearch.Client
	ESIndex string
	Logger  *logrus.Logger
}

func NewTourService(repo repository.TourRepository, rdb *redis.Client, es *elasticsearch.Client, esIndex string, logger *logrus.Logger) *TourService {
	return &TourService{Repo: repo, Redis: rdb, ES: es, ESIndex: esIndex, Logger: logger}
}

func (s *TourService) List(ctx context.Context) ([]entity.Tour, error) {
	if s.Redis != nil {
		var cached []entity.Tour
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, tourListCacheKey, &cached); err == nil && ok {
			return cached, nil
		}
	}
	tours, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, tourListCacheKey, tours, tourListCacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("tour list cache write failed")
		}
	}
	return tours, nil
}

func (s *TourService) Get(ctx context.Context, id string) (*entity.Tour, error) {
	t, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

type CreateTourInput struct {
	Name           string
	DurationDays   int
	MaxGroupSize   int
	Difficulty     string
	Price          float64
	Summary        string
	Description    string
	ImageCoverURL  string
	StartLat       float64
	StartLng       float64
	RatingsAverage float64
}

func (s *TourService) Create(ctx context.Context, in CreateTourInput) (*entity.Tour, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, newValidationError("name", "is required")
	}
	t := &entity.Tour{
		Name:           name,
		Slug:           Slugify(name),
		DurationDays:   in.DurationDays,
		MaxGroupSize:   in.MaxGroupSize,
		Difficulty:     in.Difficulty,
		Price:          in.Price,
		Summary:        in.Summary,
		Description:    in.Description,
		ImageCoverURL:  in.ImageCoverURL,
		StartLat:       in.StartLat,
		StartLng:       in.StartLng,
		RatingsAverage: in.RatingsAverage,
	}
	if t.RatingsAverage == 0 {
		t.RatingsAverage = 4.5
	}
	if err := s.Repo.Create(ctx, t); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return nil, newValidationError("name", "already in use")
		}
		return nil, err
	}

	if s.Redis != nil {
		_ = helpers.RedisDel(ctx, s.Redis, tourListCacheKey)
	}
	_ = s.indexTour(ctx, t)
	return t, nil
}

func (s *TourService) indexTour(ctx context.Context, t *entity.Tour) error {
	if s.ES == nil || s.ESIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":         t.ID,
		"name":       t.Name,
		"slug":       t.Slug,
		"difficulty": t.Difficulty,
		"summary":    t.Summary,
		"price":      t.Price,
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: t.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("tour_id", t.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("tour_id", t.ID).Warn("es index response error")
	}
	return nil
}

// Search performs a multi_match query over tour names and summaries.
func (s *TourService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "summary"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

// Slugify turns a tour name into a URL-safe slug.
func Slugify(name string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash && b.Len() > 0 {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
