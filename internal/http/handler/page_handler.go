package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/linkdeck/linkdeck/internal/app/model"
	"github.com/linkdeck/linkdeck/internal/app/repository"
	"github.com/linkdeck/linkdeck/internal/app/service"
	"github.com/linkdeck/linkdeck/internal/http/middleware"
	"go.uber.org/zap"
)

// PageDeps groups dependencies required by the landing page handlers.
type PageDeps struct {
	Logger      *zap.Logger
	PageService service.PageService
}

// PageHandler implements the landing page management endpoints.
type PageHandler struct {
	logger      *zap.Logger
	pageService service.PageService
}

// NewPageHandler creates a page handler with the provided dependencies.
func NewPageHandler(deps PageDeps) *PageHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PageHandler{
		logger:      logger,
		pageService: deps.PageService,
	}
}

// Register wires the page routes onto the provided router.
func (h *PageHandler) Register(router fiber.Router) {
	pages := router.Group("/pages")
	{
		pages.Post("/", h.CreatePage)
		pages.Get("/", h.ListPages)
		pages.Get("/:id", h.GetPage)
		pages.Patch("/:id", h.UpdatePage)
		pages.Delete("/:id", h.DeletePage)
		pages.Post("/:id/links", h.AddPageLink)
		pages.Put("/:id/links/reorder", h.ReorderPageLinks)
	}
}

// ThemeConfigRequest is the theme portion of a page request body.
type ThemeConfigRequest struct {
	BackgroundColor string `json:"background_color,omitempty" validate:"omitempty,max=64"`
	TextColor       string `json:"text_color,omitempty" validate:"omitempty,max=64"`
	ButtonStyle     string `json:"button_style,omitempty" validate:"omitempty,oneof=rounded square pill"`
	FontFamily      string `json:"font_family,omitempty" validate:"omitempty,max=128"`
	CustomCSS       string `json:"custom_css,omitempty" validate:"omitempty,max=10000"`
}

// CreatePageRequest represents the request body for creating a landing page.
type CreatePageRequest struct {
	Slug        string              `json:"slug" validate:"required,min=3,max=20,shortcode"`
	ProfileName string              `json:"profile_name" validate:"required,max=255"`
	Bio         *string             `json:"bio,omitempty" validate:"omitempty,max=2000"`
	ThemeConfig *ThemeConfigRequest `json:"theme_config,omitempty"`
}

// CreatePage handles POST /api/pages
func (h *PageHandler) CreatePage(c *fiber.Ctx) error {
	var req CreatePageRequest
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

	input := service.CreatePageInput{
		UserID:      middleware.UserID(c),
		Slug:        strings.ToLower(req.Slug),
		ProfileName: req.ProfileName,
		Bio:         req.Bio,
		ThemeConfig: toThemeConfig(req.ThemeConfig),
	}

	page, err := h.pageService.CreatePage(ctx, input)
	if err != nil {
		if errors.Is(err, service.ErrSlugTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "slug is already taken",
			})
		}
		h.logger.Error("failed to create page", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create page",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(page)
}

// ListPages handles GET /api/pages
func (h *PageHandler) ListPages(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	pages, err := h.pageService.ListPages(ctx, middleware.UserID(c))
	if err != nil {
		h.logger.Error("failed to list pages", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list pages",
		})
	}

	return c.JSON(fiber.Map{
		"pages": pages,
		"count": len(pages),
	})
}

// GetPage handles GET /api/pages/:id
func (h *PageHandler) GetPage(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	page, err := h.pageService.GetPage(ctx, middleware.UserID(c), c.Params("id"))
	if err != nil {
		if errors.Is(err, repository.ErrPageNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "page not found",
			})
		}
		h.logger.Error("failed to get page", zap.Error(err), zap.String("id", c.Params("id")))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to get page",
		})
	}

	return c.JSON(page)
}

// UpdatePageRequest represents the request body for updating a landing page.
// Absent fields are left untouched.
type UpdatePageRequest struct {
	Slug        *string             `json:"slug,omitempty" validate:"omitempty,min=3,max=20,shortcode"`
	ProfileName *string             `json:"profile_name,omitempty" validate:"omitempty,min=1,max=255"`
	Bio         *string             `json:"bio,omitempty" validate:"omitempty,max=2000"`
	ThemeConfig *ThemeConfigRequest `json:"theme_config,omitempty"`
	Visibility  *string             `json:"visibility,omitempty" validate:"omitempty,oneof=public private"`
}

// UpdatePage handles PATCH /api/pages/:id
func (h *PageHandler) UpdatePage(c *fiber.Ctx) error {
	var req UpdatePageRequest
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

	input := service.UpdatePageInput{
		ProfileName: req.ProfileName,
		Bio:         req.Bio,
		ThemeConfig: toThemeConfig(req.ThemeConfig),
		Visibility:  req.Visibility,
	}
	if req.Slug != nil {
		slug := strings.ToLower(*req.Slug)
		input.Slug = &slug
	}

	page, err := h.pageService.UpdatePage(ctx, middleware.UserID(c), c.Params("id"), input)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPageNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "page not found",
			})
		case errors.Is(err, service.ErrSlugTaken):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "slug is already taken",
			})
		}
		h.logger.Error("failed to update page", zap.Error(err), zap.String("id", c.Params("id")))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to update page",
		})
	}

	return c.JSON(page)
}

// DeletePage handles DELETE /api/pages/:id
func (h *PageHandler) DeletePage(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := h.pageService.DeletePage(ctx, middleware.UserID(c), c.Params("id")); err != nil {
		if errors.Is(err, repository.ErrPageNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "page not found",
			})
		}
		h.logger.Error("failed to delete page", zap.Error(err), zap.String("id", c.Params("id")))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to delete page",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// AddPageLinkRequest represents the request body for adding a link to a page.
type AddPageLinkRequest struct {
	Title          string  `json:"title" validate:"required,max=255"`
	Description    *string `json:"description,omitempty"`
	DestinationURL string  `json:"destination_url" validate:"required,url,max=2048"`
}

// AddPageLink handles POST /api/pages/:id/links
func (h *PageHandler) AddPageLink(c *fiber.Ctx) error {
	var req AddPageLinkRequest
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

	input := service.AddPageLinkInput{
		Title:          req.Title,
		Description:    req.Description,
		DestinationURL: req.DestinationURL,
	}

	link, err := h.pageService.AddPageLink(ctx, middleware.UserID(c), c.Params("id"), input)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPageNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "page not found",
			})
		case errors.Is(err, service.ErrInvalidDestinationURL):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "destination must be an absolute URL",
			})
		}
		h.logger.Error("failed to add page link", zap.Error(err), zap.String("page_id", c.Params("id")))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to add page link",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(link)
}

// ReorderPageLinksRequest represents the request body for reordering a
// page's links. The list must name every link exactly once.
type ReorderPageLinksRequest struct {
	LinkIDs []string `json:"link_ids" validate:"required,min=1,dive,required"`
}

// ReorderPageLinks handles PUT /api/pages/:id/links/reorder
func (h *PageHandler) ReorderPageLinks(c *fiber.Ctx) error {
	var req ReorderPageLinksRequest
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

	if err := h.pageService.ReorderPageLinks(ctx, middleware.UserID(c), c.Params("id"), req.LinkIDs); err != nil {
		if errors.Is(err, repository.ErrPageNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "page not found",
			})
		}
		h.logger.Error("failed to reorder page links", zap.Error(err), zap.String("page_id", c.Params("id")))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "could not reorder page links",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func toThemeConfig(req *ThemeConfigRequest) *model.ThemeConfig {
	if req == nil {
		return nil
	}
	return &model.ThemeConfig{
		BackgroundColor: req.BackgroundColor,
		TextColor:       req.TextColor,
		ButtonStyle:     req.ButtonStyle,
		FontFamily:      req.FontFamily,
		CustomCSS:       req.CustomCSS,
	}
}
