package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/linkdeck/linkdeck/internal/app/model"
	"github.com/linkdeck/linkdeck/internal/app/repository"
	"github.com/linkdeck/linkdeck/internal/app/service"
	"github.com/linkdeck/linkdeck/internal/http/middleware"
	"go.uber.org/zap"
)

// LinkDeps groups dependencies required by the link handlers.
type LinkDeps struct {
	Logger      *zap.Logger
	LinkService service.LinkService
}

// LinkHandler implements the standalone short link management endpoints.
type LinkHandler struct {
	logger      *zap.Logger
	linkService service.LinkService
}

// NewLinkHandler creates a link handler with the provided dependencies.
func NewLinkHandler(deps LinkDeps) *LinkHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LinkHandler{
		logger:      logger,
		linkService: deps.LinkService,
	}
}

// Register wires the link routes onto the provided router.
func (h *LinkHandler) Register(router fiber.Router) {
	links := router.Group("/links")
	{
		links.Post("/", h.CreateLink)
		links.Get("/", h.ListLinks)
		links.Get("/:id", h.GetLink)
		links.Patch("/:id", h.UpdateLink)
		links.Delete("/:id", h.DeleteLink)
	}
}

// CustomParamRequest is one custom query parameter in a request body.
type CustomParamRequest struct {
	Key   string `json:"key" validate:"required,max=100"`
	Value string `json:"value" validate:"required,max=500"`
}

// CreateLinkRequest represents the request body for creating a link.
type CreateLinkRequest struct {
	Title          string               `json:"title" validate:"required,max=255"`
	Description    *string              `json:"description,omitempty"`
	DestinationURL string               `json:"destination_url" validate:"required,url,max=2048"`
	ShortCode      string               `json:"short_code,omitempty" validate:"omitempty,min=3,max=20,shortcode"`
	ExpirationDate *time.Time           `json:"expiration_date,omitempty"`
	UTMSource      *string              `json:"utm_source,omitempty" validate:"omitempty,max=255"`
	UTMMedium      *string              `json:"utm_medium,omitempty" validate:"omitempty,max=255"`
	UTMCampaign    *string              `json:"utm_campaign,omitempty" validate:"omitempty,max=255"`
	UTMTerm        *string              `json:"utm_term,omitempty" validate:"omitempty,max=255"`
	UTMContent     *string              `json:"utm_content,omitempty" validate:"omitempty,max=255"`
	CustomParams   []CustomParamRequest `json:"custom_params,omitempty" validate:"omitempty,dive"`
}

// CreateLink handles POST /api/links
func (h *LinkHandler) CreateLink(c *fiber.Ctx) error {
	var req CreateLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationMessage(err),
		})
	}

	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	input := service.CreateLinkInput{
		UserID:         middleware.UserID(c),
		Title:          req.Title,
		Description:    req.Description,
		DestinationURL: req.DestinationURL,
		ShortCode:      req.ShortCode,
		ExpirationDate: req.ExpirationDate,
		UTMSource:      req.UTMSource,
		UTMMedium:      req.UTMMedium,
		UTMCampaign:    req.UTMCampaign,
		UTMTerm:        req.UTMTerm,
		UTMContent:     req.UTMContent,
		CustomParams:   toCustomParams(req.CustomParams),
	}

	link, err := h.linkService.CreateLink(ctx, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrShortCodeTaken):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "short code is already taken",
			})
		case errors.Is(err, service.ErrInvalidDestinationURL):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "destination must be an absolute URL",
			})
		}
		h.logger.Error("failed to create link", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create link",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(link)
}

// ListLinks handles GET /api/links
func (h *LinkHandler) ListLinks(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	links, err := h.linkService.ListLinks(ctx, middleware.UserID(c))
	if err != nil {
		h.logger.Error("failed to list links", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list links",
		})
	}

	return c.JSON(fiber.Map{
		"links": links,
		"count": len(links),
	})
}

// GetLink handles GET /api/links/:id
func (h *LinkHandler) GetLink(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	link, err := h.linkService.GetLink(ctx, middleware.UserID(c), c.Params("id"))
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "link not found",
			})
		}
		h.logger.Error("failed to get link", zap.Error(err), zap.String("id", c.Params("id")))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to get link",
		})
	}

	return c.JSON(link)
}

// UpdateLinkRequest represents the request body for updating a link.
// Absent fields are left untouched.
type UpdateLinkRequest struct {
	Title          *string               `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description    *string               `json:"description,omitempty"`
	DestinationURL *string               `json:"destination_url,omitempty" validate:"omitempty,url,max=2048"`
	ExpirationDate *time.Time            `json:"expiration_date,omitempty"`
	IsActive       *bool                 `json:"is_active,omitempty"`
	UTMSource      *string               `json:"utm_source,omitempty" validate:"omitempty,max=255"`
	UTMMedium      *string               `json:"utm_medium,omitempty" validate:"omitempty,max=255"`
	UTMCampaign    *string               `json:"utm_campaign,omitempty" validate:"omitempty,max=255"`
	UTMTerm        *string               `json:"utm_term,omitempty" validate:"omitempty,max=255"`
	UTMContent     *string               `json:"utm_content,omitempty" validate:"omitempty,max=255"`
	CustomParams   *[]CustomParamRequest `json:"custom_params,omitempty" validate:"omitempty,dive"`
}

// UpdateLink handles PATCH /api/links/:id
func (h *LinkHandler) UpdateLink(c *fiber.Ctx) error {
	var req UpdateLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationMessage(err),
		})
	}

	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	input := service.UpdateLinkInput{
		Title:          req.Title,
		Description:    req.Description,
		DestinationURL: req.DestinationURL,
		ExpirationDate: req.ExpirationDate,
		IsActive:       req.IsActive,
		UTMSource:      req.UTMSource,
		UTMMedium:      req.UTMMedium,
		UTMCampaign:    req.UTMCampaign,
		UTMTerm:        req.UTMTerm,
		UTMContent:     req.UTMContent,
	}
	if req.CustomParams != nil {
		params := toCustomParams(*req.CustomParams)
		input.CustomParams = &params
	}

	link, err := h.linkService.UpdateLink(ctx, middleware.UserID(c), c.Params("id"), input)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrLinkNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "link not found",
			})
		case errors.Is(err, service.ErrInvalidDestinationURL):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "destination must be an absolute URL",
			})
		}
		h.logger.Error("failed to update link", zap.Error(err), zap.String("id", c.Params("id")))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to update link",
		})
	}

	return c.JSON(link)
}

// DeleteLink handles DELETE /api/links/:id
func (h *LinkHandler) DeleteLink(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := h.linkService.DeleteLink(ctx, middleware.UserID(c), c.Params("id")); err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "link not found",
			})
		}
		h.logger.Error("failed to delete link", zap.Error(err), zap.String("id", c.Params("id")))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to delete link",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func toCustomParams(reqs []CustomParamRequest) model.CustomParams {
	if len(reqs) == 0 {
		return nil
	}
	params := make(model.CustomParams, len(reqs))
	for i, p := range reqs {
		params[i] = model.CustomParam{Key: p.Key, Value: p.Value}
	}
	return params
}
