package repository

import (
	"context"

	"github.com/natoursapp/natours-api/internal/domain/entity"
)

// TourRepository defines tour persistence.
type TourRepository interface {
	Create(ctx context.Context, t *entity.Tour) error
	GetByID(ctx context.Context, id string) (*entity.Tour, error)
	List(ctx context.Context) ([]entity.Tour, error)
}
