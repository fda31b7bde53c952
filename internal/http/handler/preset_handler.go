package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/linkdeck/linkdeck/internal/app/repository"
	"github.com/linkdeck/linkdeck/internal/app/service"
	"github.com/linkdeck/linkdeck/internal/http/middleware"
	"go.uber.org/zap"
)

// PresetDeps groups dependencies required by the UTM preset handlers.
type PresetDeps struct {
	Logger        *zap.Logger
	PresetService service.PresetService
}

// PresetHandler implements the UTM preset management endpoints.
type PresetHandler struct {
	logger        *zap.Logger
	presetService service.PresetService
}

// NewPresetHandler creates a preset handler with the provided dependencies.
func NewPresetHandler(deps PresetDeps) *PresetHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PresetHandler{
		logger:        logger,
		presetService: deps.PresetService,
	}
}

// Register wires the preset routes onto the provided router.
func (h *PresetHandler) Register(router fiber.Router) {
	presets := router.Group("/utm-presets")
	{
		presets.Post("/", h.CreatePreset)
		presets.Get("/", h.ListPresets)
		presets.Put("/:id", h.UpdatePreset)
		presets.Delete("/:id", h.DeletePreset)
	}
}

// PresetRequest represents the request body for creating or replacing a preset.
type PresetRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	UTMSource   *string `json:"utm_source,omitempty" validate:"omitempty,max=255"`
	UTMMedium   *string `json:"utm_medium,omitempty" validate:"omitempty,max=255"`
	UTMCampaign *string `json:"utm_campaign,omitempty" validate:"omitempty,max=255"`
	UTMTerm     *string `json:"utm_term,omitempty" validate:"omitempty,max=255"`
	UTMContent  *string `json:"utm_content,omitempty" validate:"omitempty,max=255"`
	IsDefault   bool    `json:"is_default,omitempty"`
}

func (h *PresetHandler) parsePreset(c *fiber.Ctx) (*service.PresetInput, error) {
	var req PresetRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, errors.New("invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return nil, errors.New(validationMessage(err))
	}
	return &service.PresetInput{
		UserID:      middleware.UserID(c),
		Name:        req.Name,
		UTMSource:   req.UTMSource,
		UTMMedium:   req.UTMMedium,
		UTMCampaign: req.UTMCampaign,
		UTMTerm:     req.UTMTerm,
		UTMContent:  req.UTMContent,
		IsDefault:   req.IsDefault,
	}, nil
}

// CreatePreset handles POST /api/utm-presets
func (h *PresetHandler) CreatePreset(c *fiber.Ctx) error {
	input, err := h.parsePreset(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	preset, err := h.presetService.CreatePreset(ctx, *input)
	if err != nil {
		h.logger.Error("failed to create preset", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create preset",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(preset)
}

// ListPresets handles GET /api/utm-presets
func (h *PresetHandler) ListPresets(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	presets, err := h.presetService.ListPresets(ctx, middleware.UserID(c))
	if err != nil {
		h.logger.Error("failed to list presets", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list presets",
		})
	}

	return c.JSON(fiber.Map{
		"presets": presets,
		"count":   len(presets),
	})
}

// UpdatePreset handles PUT /api/utm-presets/:id
func (h *PresetHandler) UpdatePreset(c *fiber.Ctx) error {
	input, err := h.parsePreset(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	preset, err := h.presetService.UpdatePreset(ctx, middleware.UserID(c), c.Params("id"), *input)
	if err != nil {
		if errors.Is(err, repository.ErrPresetNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "preset not found",
			})
		}
		h.logger.Error("failed to update preset", zap.Error(err), zap.String("id", c.Params("id")))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to update preset",
		})
	}

	return c.JSON(preset)
}

// DeletePreset handles DELETE /api/utm-presets/:id
func (h *PresetHandler) DeletePreset(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := h.presetService.DeletePreset(ctx, middleware.UserID(c), c.Params("id")); err != nil {
		if errors.Is(err, repository.ErrPresetNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "preset not found",
			})
		}
		h.logger.Error("failed to delete preset", zap.Error(err), zap.String("id", c.Params("id")))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to delete preset",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
