package repository

import (
	"context"
	"errors"

	"github.com/linkdeck/linkdeck/internal/app/model"
	"gorm.io/gorm"
)

var (
	// ErrPageNotFound signals that the requested landing page does not exist.
	ErrPageNotFound = errors.New("landing page not found")
)

// PageRepository defines the data access contract for landing pages.
type PageRepository interface {
	Create(ctx context.Context, page *model.LandingPage) error
	GetByID(ctx context.Context, id string) (*model.LandingPage, error)
	// GetByIDWithLinks preloads all child links ordered by position.
	GetByIDWithLinks(ctx context.Context, id string) (*model.LandingPage, error)
	// FindPublicBySlug resolves the catch-all fallback: public pages only,
	// preloading active child links ordered by position ascending.
	FindPublicBySlug(ctx context.Context, slug string) (*model.LandingPage, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]model.LandingPage, error)
	Update(ctx context.Context, page *model.LandingPage) error
	// Delete removes the page; child links are detached, not deleted.
	Delete(ctx context.Context, id string) error
	IncrementViewCount(ctx context.Context, id string) error
	AllSlugs(ctx context.Context) ([]string, error)
}

type pageRepository struct {
	db *gorm.DB
}

// NewPageRepository returns a GORM-backed PageRepository.
func NewPageRepository(db *gorm.DB) PageRepository {
	return &pageRepository{db: db}
}

func (r *pageRepository) Create(ctx context.Context, page *model.LandingPage) error {
	return r.db.WithContext(ctx).Create(page).Error
}

func (r *pageRepository) GetByID(ctx context.Context, id string) (*model.LandingPage, error) {
	var page model.LandingPage
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	return &page, nil
}

func (r *pageRepository) GetByIDWithLinks(ctx context.Context, id string) (*model.LandingPage, error) {
	var page model.LandingPage
	err := r.db.WithContext(ctx).
		Preload("Links", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&page).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	return &page, nil
}

func (r *pageRepository) FindPublicBySlug(ctx context.Context, slug string) (*model.LandingPage, error) {
	var page model.LandingPage
	err := r.db.WithContext(ctx).
		Preload("Links", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("position ASC")
		}).
		Where("slug = ?", slug).
		Where("visibility = ?", model.VisibilityPublic).
		First(&page).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	return &page, nil
}

func (r *pageRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.LandingPage{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *pageRepository) ListByUser(ctx context.Context, userID string) ([]model.LandingPage, error) {
	var result []model.LandingPage
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *pageRepository) Update(ctx context.Context, page *model.LandingPage) error {
	result := r.db.WithContext(ctx).
		Model(&model.LandingPage{}).
		Where("id = ?", page.ID).
		Updates(map[string]interface{}{
			"slug":         page.Slug,
			"profile_name": page.ProfileName,
			"bio":          page.Bio,
			"theme_config": page.ThemeConfig,
			"visibility":   page.Visibility,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPageNotFound
	}

	return r.db.WithContext(ctx).Where("id = ?", page.ID).First(page).Error
}

func (r *pageRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Children become standalone links rather than disappearing.
		if err := tx.Model(&model.Link{}).
			Where("landing_page_id = ?", id).
			Update("landing_page_id", nil).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.LandingPage{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPageNotFound
		}
		return nil
	})
}

func (r *pageRepository) IncrementViewCount(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&model.LandingPage{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *pageRepository) AllSlugs(ctx context.Context) ([]string, error) {
	var slugs []string
	if err := r.db.WithContext(ctx).
		Model(&model.LandingPage{}).
		Pluck("slug", &slugs).Error; err != nil {
		return nil, err
	}
	return slugs, nil
}
