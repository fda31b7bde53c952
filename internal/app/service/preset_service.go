package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/linkdeck/linkdeck/internal/app/model"
	"github.com/linkdeck/linkdeck/internal/app/repository"
)

// PresetService defines behaviour-level operations on UTM presets.
type PresetService interface {
	CreatePreset(ctx context.Context, input PresetInput) (*model.UTMPreset, error)
	ListPresets(ctx context.Context, userID string) ([]model.UTMPreset, error)
	UpdatePreset(ctx context.Context, userID, id string, input PresetInput) (*model.UTMPreset, error)
	DeletePreset(ctx context.Context, userID, id string) error
}

// PresetInput captures the full editable state of a preset.
type PresetInput struct {
	UserID      string
	Name        string
	UTMSource   *string
	UTMMedium   *string
	UTMCampaign *string
	UTMTerm     *string
	UTMContent  *string
	IsDefault   bool
}

type presetService struct {
	repo repository.PresetRepository
}

// NewPresetService returns a service implementation backed by the given repository.
func NewPresetService(repo repository.PresetRepository) PresetService {
	return &presetService{repo: repo}
}

func (s *presetService) CreatePreset(ctx context.Context, input PresetInput) (*model.UTMPreset, error) {
	// A user has at most one default preset.
	if input.IsDefault {
		if err := s.repo.ClearDefault(ctx, input.UserID); err != nil {
			return nil, fmt.Errorf("clear default preset: %w", err)
		}
	}

	preset := &model.UTMPreset{
		ID:          uuid.New().String(),
		UserID:      input.UserID,
		Name:        input.Name,
		UTMSource:   input.UTMSource,
		UTMMedium:   input.UTMMedium,
		UTMCampaign: input.UTMCampaign,
		UTMTerm:     input.UTMTerm,
		UTMContent:  input.UTMContent,
		IsDefault:   input.IsDefault,
	}

	if err := s.repo.Create(ctx, preset); err != nil {
		return nil, fmt.Errorf("create preset: %w", err)
	}
	return preset, nil
}

func (s *presetService) ListPresets(ctx context.Context, userID string) ([]model.UTMPreset, error) {
	presets, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	return presets, nil
}

func (s *presetService) UpdatePreset(ctx context.Context, userID, id string, input PresetInput) (*model.UTMPreset, error) {
	preset, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load preset: %w", err)
	}
	if preset.UserID != userID {
		return nil, repository.ErrPresetNotFound
	}

	if input.IsDefault && !preset.IsDefault {
		if err := s.repo.ClearDefault(ctx, userID); err != nil {
			return nil, fmt.Errorf("clear default preset: %w", err)
		}
	}

	preset.Name = input.Name
	preset.UTMSource = input.UTMSource
	preset.UTMMedium = input.UTMMedium
	preset.UTMCampaign = input.UTMCampaign
	preset.UTMTerm = input.UTMTerm
	preset.UTMContent = input.UTMContent
	preset.IsDefault = input.IsDefault

	if err := s.repo.Update(ctx, preset); err != nil {
		return nil, fmt.Errorf("update preset: %w", err)
	}
	return preset, nil
}

func (s *presetService) DeletePreset(ctx context.Context, userID, id string) error {
	preset, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load preset: %w", err)
	}
	if preset.UserID != userID {
		return repository.ErrPresetNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete preset: %w", err)
	}
	return nil
}
