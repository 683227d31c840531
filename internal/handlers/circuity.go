package handlers

import (
	"context"
	"strconv"

	"github.com/calroads/circuity-api/internal/models"
	"github.com/gofiber/fiber/v2"
)

// circuityCalculator runs a full circuity calculation
type circuityCalculator interface {
	Calculate(ctx context.Context, req *models.CircuityRequest) (*models.CircuityResponse, error)
}

// calculationReader serves stored calculations and aggregates
type calculationReader interface {
	History(limit, offset int) ([]models.Calculation, error)
	Stats() (*models.StatsSummary, error)
	MaxLimit() int
}

type CircuityHandler struct {
	circuity circuityCalculator
	cache    calculationReader
}

func NewCircuityHandler(circuity circuityCalculator, cache calculationReader) *CircuityHandler {
	return &CircuityHandler{
		circuity: circuity,
		cache:    cache,
	}
}

// Calculate godoc
// @Summary Calculate circuity factor between two locations
// @Description Road distance divided by great-circle distance; results are cached by coordinate key
// @Tags circuity
// @Accept json
// @Produce json
// @Param request body models.CircuityRequest true "Origin, destination and units"
// @Success 200 {object} models.CircuityResponse
// @Failure 422 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 504 {object} ErrorResponse
// @Router /calculate [post]
func (h *CircuityHandler) Calculate(c *fiber.Ctx) error {
	var req models.CircuityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
			Error:   "invalid_request",
			Details: "malformed request body",
		})
	}

	resp, err := h.circuity.Calculate(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}

// History godoc
// @Summary Get recent calculations, newest first
// @Tags circuity
// @Produce json
// @Param limit query int false "Page size (default 50)"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.Calculation
// @Failure 400 {object} ErrorResponse
// @Router /history [get]
func (h *CircuityHandler) History(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "0"))
	if err != nil || limit < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Details: "limit must be a non-negative integer",
		})
	}
	if limit > h.cache.MaxLimit() {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Details: "limit exceeds maximum of " + strconv.Itoa(h.cache.MaxLimit()),
		})
	}

	offset, err := strconv.Atoi(c.Query("offset", "0"))
	if err != nil || offset < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Details: "offset must be a non-negative integer",
		})
	}

	calcs, err := h.cache.History(limit, offset)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(calcs)
}

// Stats godoc
// @Summary Get aggregate calculation statistics
// @Tags circuity
// @Produce json
// @Success 200 {object} models.StatsSummary
// @Router /stats [get]
func (h *CircuityHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.cache.Stats()
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(stats)
}
