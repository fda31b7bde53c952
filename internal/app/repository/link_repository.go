package repository

import (
	"context"
	"errors"
	"time"

	"github.com/linkdeck/linkdeck/internal/app/model"
	"gorm.io/gorm"
)

var (
	// ErrLinkNotFound signals that the requested short link does not exist.
	ErrLinkNotFound = errors.New("link not found")
)

// LinkRepository defines the data access contract for short links.
type LinkRepository interface {
	Create(ctx context.Context, link *model.Link) error
	GetByID(ctx context.Context, id string) (*model.Link, error)
	// FindActiveStandaloneByCode resolves the redirect hot path: only active,
	// unexpired links without a parent page match.
	FindActiveStandaloneByCode(ctx context.Context, code string) (*model.Link, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	ListStandaloneByUser(ctx context.Context, userID string) ([]model.Link, error)
	Update(ctx context.Context, link *model.Link) error
	// Delete removes the link and cascades removal of its click rows.
	Delete(ctx context.Context, id string) error
	IncrementClickCount(ctx context.Context, id string) error
	AllShortCodes(ctx context.Context) ([]string, error)
}

type linkRepository struct {
	db *gorm.DB
}

// NewLinkRepository returns a GORM-backed LinkRepository.
func NewLinkRepository(db *gorm.DB) LinkRepository {
	return &linkRepository{db: db}
}

func (r *linkRepository) Create(ctx context.Context, link *model.Link) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *linkRepository) GetByID(ctx context.Context, id string) (*model.Link, error) {
	var link model.Link
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}
	return &link, nil
}

func (r *linkRepository) FindActiveStandaloneByCode(ctx context.Context, code string) (*model.Link, error) {
	var link model.Link
	err := r.db.WithContext(ctx).
		Where("short_code = ?", code).
		Where("is_active = ?", true).
		Where("landing_page_id IS NULL").
		Where("expiration_date IS NULL OR expiration_date > ?", time.Now()).
		First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}
	return &link, nil
}

func (r *linkRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Link{}).
		Where("short_code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *linkRepository) ListStandaloneByUser(ctx context.Context, userID string) ([]model.Link, error) {
	var result []model.Link
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("landing_page_id IS NULL").
		Order("created_at DESC").
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *linkRepository) Update(ctx context.Context, link *model.Link) error {
	result := r.db.WithContext(ctx).
		Model(&model.Link{}).
		Where("id = ?", link.ID).
		Updates(map[string]interface{}{
			"title":           link.Title,
			"description":     link.Description,
			"destination_url": link.DestinationURL,
			"expiration_date": link.ExpirationDate,
			"position":        link.Position,
			"is_active":       link.IsActive,
			"utm_source":      link.UTMSource,
			"utm_medium":      link.UTMMedium,
			"utm_campaign":    link.UTMCampaign,
			"utm_term":        link.UTMTerm,
			"utm_content":     link.UTMContent,
			"custom_params":   link.CustomParams,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLinkNotFound
	}

	return r.db.WithContext(ctx).Where("id = ?", link.ID).First(link).Error
}

func (r *linkRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("link_id = ?", id).Delete(&model.LinkClick{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.Link{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrLinkNotFound
		}
		return nil
	})
}

func (r *linkRepository) IncrementClickCount(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&model.Link{}).
		Where("id = ?", id).
		UpdateColumn("click_count", gorm.Expr("click_count + 1")).Error
}

func (r *linkRepository) AllShortCodes(ctx context.Context) ([]string, error) {
	var codes []string
	if err := r.db.WithContext(ctx).
		Model(&model.Link{}).
		Pluck("short_code", &codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}
