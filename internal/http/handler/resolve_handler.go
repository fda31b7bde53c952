package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/linkdeck/linkdeck/internal/app/service"
	"github.com/linkdeck/linkdeck/internal/http/util"
	"github.com/linkdeck/linkdeck/internal/http/view"
	"go.uber.org/zap"
)

// ResolveDeps groups dependencies required by the public resolver handler.
type ResolveDeps struct {
	Logger   *zap.Logger
	Resolver service.ResolverService
	Signer   *util.TokenSigner
}

// ResolveHandler serves the public surface: health checks and the top-level
// catch-all that turns a path segment into a redirect or a landing page.
type ResolveHandler struct {
	logger   *zap.Logger
	resolver service.ResolverService
	signer   *util.TokenSigner
}

// NewResolveHandler creates a resolver handler with the provided dependencies.
func NewResolveHandler(deps ResolveDeps) *ResolveHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResolveHandler{
		logger:   logger,
		resolver: deps.Resolver,
		signer:   deps.Signer,
	}
}

// Register wires the public routes onto the provided router. The catch-all
// must be registered after every other route so it only sees unclaimed paths.
func (h *ResolveHandler) Register(router fiber.Router) {
	router.Get("/", h.Index)
	router.Get("/healthz", h.Health)
	router.Get("/:segment", h.Resolve)
}

// Index handles GET /
func (h *ResolveHandler) Index(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": "linkdeck",
		"status":  "ok",
	})
}

// Health handles GET /healthz
func (h *ResolveHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Resolve handles GET /:segment. Short links win over landing pages when a
// segment exists in both namespaces.
func (h *ResolveHandler) Resolve(c *fiber.Ctx) error {
	segment := c.Params("segment")
	if segment == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "not found",
		})
	}

	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	meta := service.RequestMeta{
		IP:        c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
		Referrer:  c.Get(fiber.HeaderReferer),
		UserID:    h.visitorID(c),
	}

	res, err := h.resolver.Resolve(ctx, segment, meta)
	if err != nil {
		if errors.Is(err, service.ErrSegmentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "not found",
			})
		}
		h.logger.Error("failed to resolve segment",
			zap.String("segment", segment), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	if res.IsRedirect() {
		return c.Redirect(res.RedirectURL, fiber.StatusFound)
	}

	html, err := view.RenderLandingPage(res.Page)
	if err != nil {
		h.logger.Error("failed to render landing page",
			zap.String("page_id", res.Page.ID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(html)
}

// visitorID attributes clicks to a logged-in visitor when the public request
// happens to carry a valid bearer token. Anonymous traffic is the norm.
func (h *ResolveHandler) visitorID(c *fiber.Ctx) *string {
	if h.signer == nil {
		return nil
	}
	header := c.Get(fiber.HeaderAuthorization)
	const prefix = "Bearer "
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		return nil
	}
	userID, err := h.signer.Validate(header[len(prefix):])
	if err != nil {
		return nil
	}
	return &userID
}
