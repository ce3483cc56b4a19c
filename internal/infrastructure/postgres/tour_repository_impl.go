package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/natoursapp/natours-api/internal/domain/entity"
	"github.com/natoursapp/natours-api/internal/domain/repository"
)

const tourColumns = `id, name, slug, duration_days, max_group_size, difficulty, price,
	summary, description, ratings_average, ratings_count, image_cover_url,
	start_lat, start_lng, created_at, updated_at`

type TourRepository struct {
	pool *pgxpool.Pool
}

func NewTourRepository(pool *pgxpool.Pool) *TourRepository {
	return &TourRepository{pool: pool}
}

func (r *TourRepository) Create(ctx context.Context, t *entity.Tour) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tours (name, slug, duration_days, max_group_size, difficulty, price,
			summary, description, ratings_average, ratings_count, image_cover_url,
			start_lat, start_lng)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`, t.Name, t.Slug, t.DurationDays, t.MaxGroupSize, t.Difficulty, t.Price,
		t.Summary, t.Description, t.RatingsAverage, t.RatingsCount, t.ImageCoverURL,
		t.StartLat, t.StartLng)

	if err := row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrDuplicateName
		}
		return err
	}
	return nil
}

func (r *TourRepository) GetByID(ctx context.Context, id string) (*entity.Tour, error) {
	t := &entity.Tour{}
	row := r.pool.QueryRow(ctx, `SELECT `+tourColumns+` FROM tours WHERE id = $1`, id)
	if err := scanTour(row, t); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *TourRepository) List(ctx context.Context) ([]entity.Tour, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, `SELECT `+tourColumns+` FROM tours ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tours := make([]entity.Tour, 0)
	for rows.Next() {
		var t entity.Tour
		if err := scanTour(rows, &t); err != nil {
			return nil, err
		}
		tours = append(tours, t)
	}
	return tours, rows.Err()
}

func scanTour(row pgx.Row, t *entity.Tour) error {
	return row.Scan(&t.ID, &t.Name, &t.Slug, &t.DurationDays, &t.MaxGroupSize,
		&t.Difficulty, &t.Price, &t.Summary, &t.Description, &t.RatingsAverage,
		&t.RatingsCount, &t.ImageCoverURL, &t.StartLat, &t.StartLng,
		&t.CreatedAt, &t.UpdatedAt)
}

var _ repository.TourRepository = (*TourRepository)(nil)
