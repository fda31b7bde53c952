package repository

import (
	"context"
	"errors"

	"github.com/linkdeck/linkdeck/internal/app/model"
	"gorm.io/gorm"
)

var (
	// ErrPresetNotFound signals that the requested UTM preset does not exist.
	ErrPresetNotFound = errors.New("utm preset not found")
)

// PresetRepository defines the data access contract for UTM presets.
type PresetRepository interface {
	Create(ctx context.Context, preset *model.UTMPreset) error
	GetByID(ctx context.Context, id string) (*model.UTMPreset, error)
	// ListByUser orders defaults first, then by name.
	ListByUser(ctx context.Context, userID string) ([]model.UTMPreset, error)
	Update(ctx context.Context, preset *model.UTMPreset) error
	Delete(ctx context.Context, id string) error
	ClearDefault(ctx context.Context, userID string) error
}

type presetRepository struct {
	db *gorm.DB
}

// NewPresetRepository returns a GORM-backed PresetRepository.
func NewPresetRepository(db *gorm.DB) PresetRepository {
	return &presetRepository{db: db}
}

func (r *presetRepository) Create(ctx context.Context, preset *model.UTMPreset) error {
	return r.db.WithContext(ctx).Create(preset).Error
}

func (r *presetRepository) GetByID(ctx context.Context, id string) (*model.UTMPreset, error) {
	var preset model.UTMPreset
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&preset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPresetNotFound
		}
		return nil, err
	}
	return &preset, nil
}

func (r *presetRepository) ListByUser(ctx context.Context, userID string) ([]model.UTMPreset, error) {
	var result []model.UTMPreset
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC").
		Order("name ASC").
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *presetRepository) Update(ctx context.Context, preset *model.UTMPreset) error {
	result := r.db.WithContext(ctx).
		Model(&model.UTMPreset{}).
		Where("id = ?", preset.ID).
		Updates(map[string]interface{}{
			"name":         preset.Name,
			"utm_source":   preset.UTMSource,
			"utm_medium":   preset.UTMMedium,
			"utm_campaign": preset.UTMCampaign,
			"utm_term":     preset.UTMTerm,
			"utm_content":  preset.UTMContent,
			"is_default":   preset.IsDefault,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPresetNotFound
	}
	return nil
}

func (r *presetRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.UTMPreset{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPresetNotFound
	}
	return nil
}

func (r *presetRepository) ClearDefault(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Model(&model.UTMPreset{}).
		Where("user_id = ?", userID).
		Update("is_default", false).Error
}
