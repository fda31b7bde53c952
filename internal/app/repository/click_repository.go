package repository

import (
	"context"

	"github.com/linkdeck/linkdeck/internal/app/model"
	"gorm.io/gorm"
)

// ClickRepository defines the data access contract for click records.
type ClickRepository interface {
	Create(ctx context.Context, click *model.LinkClick) error
}

type clickRepository struct {
	db *gorm.DB
}

// NewClickRepository returns a GORM-backed ClickRepository.
func NewClickRepository(db *gorm.DB) ClickRepository {
	return &clickRepository{db: db}
}

func (r *clickRepository) Create(ctx context.Context, click *model.LinkClick) error {
	return r.db.WithContext(ctx).Create(click).Error
}
