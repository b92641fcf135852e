package baseline

import (
	"errors"

	"schema-sentinel/core/logger"
	"schema-sentinel/core/resolve"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the baseline.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the baseline routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/baseline")
	group.Get("/", h.HandleList)
	group.Post("/check", h.HandleCheck)
	group.Post("/commit", h.HandleCommit)
	group.Delete("/", h.HandleClear)
}

// HandleList returns the persisted baseline.
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	entries, err := h.service.List(c.Context())
	if err != nil {
		l.Error("Failed to read baseline", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"count":   len(entries),
		"entries": entries,
	})
}

// HandleCheck compares a selection with the baseline.
func (h *Handler) HandleCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	sel, err := parseSelection(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := h.service.Check(c.Context(), sel)
	if err != nil {
		l.Error("Baseline check failed", zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Baseline checked",
		zap.Bool("changed", result.Report.Changed()),
		zap.Int("missed", len(result.Missed)),
	)
	return c.JSON(fiber.Map{
		"changed": result.Report.Changed(),
		"report":  result.Report,
		"missed":  result.Missed,
	})
}

// HandleCommit writes the resolved selection as the new baseline.
func (h *Handler) HandleCommit(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	sel, err := parseSelection(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	count, err := h.service.Commit(c.Context(), sel)
	if err != nil {
		l.Error("Baseline commit failed", zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Baseline committed", zap.Int("entries", count))
	return c.JSON(fiber.Map{
		"status":    "committed",
		"committed": count,
	})
}

// HandleClear empties the baseline.
func (h *Handler) HandleClear(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if err := h.service.Clear(c.Context()); err != nil {
		l.Error("Baseline clear failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Baseline cleared")
	return c.JSON(fiber.Map{"status": "cleared"})
}

// parseSelection reads an optional JSON selection body.
func parseSelection(c *fiber.Ctx) (resolve.Selection, error) {
	var sel resolve.Selection
	if len(c.Body()) == 0 {
		return sel, nil
	}
	if err := c.BodyParser(&sel); err != nil {
		return sel, errors.New("invalid request body")
	}
	return sel, nil
}

func statusFor(err error) int {
	if errors.Is(err, resolve.ErrEmptyIdentifier) || errors.Is(err, resolve.ErrInvalidPattern) {
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}
