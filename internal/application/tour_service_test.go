package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natoursapp/natours-api/internal/domain/entity"
	"github.com/natoursapp/natours-api/internal/domain/repository"
)

type fakeTourRepo struct {
	mu    sync.Mutex
	tours map[string]*entity.Tour
}

var _ repository.TourRepository = (*fakeTourRepo)(nil)

func newFakeTourRepo() *fakeTourRepo {
	return &fakeTourRepo{tours: make(map[string]*entity.Tour)}
}

func (r *fakeTourRepo) Create(_ context.Context, t *entity.Tour) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = uuid.NewString()
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	cp := *t
	r.tours[t.ID] = &cp
	return nil
}

func (r *fakeTourRepo) GetByID(_ context.Context, id string) (*entity.Tour, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tours[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTourRepo) List(_ context.Context) ([]entity.Tour, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Tour, 0, len(r.tours))
	for _, t := range r.tours {
		out = append(out, *t)
	}
	return out, nil
}

// Redis and Elasticsearch stay nil here; the service must degrade to
// plain repository reads.
func newTestTourService(repo *fakeTourRepo) *TourService {
	return NewTourService(repo, nil, nil, "", nil)
}

func TestTourCreate(t *testing.T) {
	s := newTestTourService(newFakeTourRepo())

	tour, err := s.Create(context.Background(), CreateTourInput{
		Name:         "The Forest Hiker",
		DurationDays: 5,
		MaxGroupSize: 25,
		Difficulty:   "easy",
		Price:        397,
		Summary:      "Breathtaking hike",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tour.ID)
	assert.Equal(t, "the-forest-hiker", tour.Slug)
	assert.Equal(t, 4.5, tour.RatingsAverage)

	t.Run("empty name", func(t *testing.T) {
		_, err := s.Create(context.Background(), CreateTourInput{Name: "   "})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "name")
	})

	t.Run("explicit rating kept", func(t *testing.T) {
		tour, err := s.Create(context.Background(), CreateTourInput{Name: "The Sea Explorer", RatingsAverage: 4.8})
		require.NoError(t, err)
		assert.Equal(t, 4.8, tour.RatingsAverage)
	})
}

func TestTourGet(t *testing.T) {
	repo := newFakeTourRepo()
	s := newTestTourService(repo)

	created, err := s.Create(context.Background(), CreateTourInput{Name: "The Snow Adventurer"})
	require.NoError(t, err)

	got, err := s.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)

	_, err = s.Get(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTourList(t *testing.T) {
	repo := newFakeTourRepo()
	s := newTestTourService(repo)

	tours, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tours)

	_, err = s.Create(context.Background(), CreateTourInput{Name: "The Forest Hiker"})
	require.NoError(t, err)
	_, err = s.Create(context.Background(), CreateTourInput{Name: "The Sea Explorer"})
	require.NoError(t, err)

	tours, err = s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, tours, 2)
}

func TestTourSearchWithoutES(t *testing.T) {
	s := newTestTourService(newFakeTourRepo())
	hits, err := s.Search(context.Background(), "forest", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"The Forest Hiker":    "the-forest-hiker",
		"  Tour!  2024  ":     "tour-2024",
		"Çity Break":          "ity-break",
		"already-slugged":     "already-slugged",
		"UPPER CASE":          "upper-case",
		"trailing symbols!!!": "trailing-symbols",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}
