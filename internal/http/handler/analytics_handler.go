package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/linkdeck/linkdeck/internal/app/service"
	"github.com/linkdeck/linkdeck/internal/http/middleware"
	"go.uber.org/zap"
)

// AnalyticsDeps groups dependencies required by the analytics handler.
type AnalyticsDeps struct {
	Logger           *zap.Logger
	AnalyticsService service.AnalyticsService
}

// AnalyticsHandler serves the per-user analytics dashboard.
type AnalyticsHandler struct {
	logger           *zap.Logger
	analyticsService service.AnalyticsService
}

// NewAnalyticsHandler creates an analytics handler with the provided dependencies.
func NewAnalyticsHandler(deps AnalyticsDeps) *AnalyticsHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsHandler{
		logger:           logger,
		analyticsService: deps.AnalyticsService,
	}
}

// Register wires the analytics routes onto the provided router.
func (h *AnalyticsHandler) Register(router fiber.Router) {
	router.Get("/analytics", h.Dashboard)
}

// Dashboard handles GET /api/analytics
func (h *AnalyticsHandler) Dashboard(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	dashboard, err := h.analyticsService.Dashboard(ctx, middleware.UserID(c))
	if err != nil {
		h.logger.Error("failed to build analytics dashboard", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load analytics",
		})
	}

	return c.JSON(dashboard)
}
