package handlers

import (
	"errors"

	"github.com/calroads/circuity-api/internal/models"
	"github.com/calroads/circuity-api/internal/routing"
	"github.com/calroads/circuity-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is the custom error handler for Fiber
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error: message,
	})
}

// respondError maps service-layer failures onto HTTP status codes:
// validation and degenerate input are the client's problem (422),
// routing failures are upstream problems (502/504), and store failures
// mean we cannot serve at all (503).
func respondError(c *fiber.Ctx, err error) error {
	var fieldErr *models.FieldError
	switch {
	case errors.As(err, &fieldErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
			Error:   "invalid_request",
			Details: fieldErr.Error(),
		})
	case errors.Is(err, services.ErrUndefinedCircuity):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
			Error:   "undefined_circuity",
			Details: err.Error(),
		})
	case errors.Is(err, routing.ErrTimeout):
		return c.Status(fiber.StatusGatewayTimeout).JSON(ErrorResponse{
			Error:   "routing_timeout",
			Details: err.Error(),
		})
	case errors.Is(err, routing.ErrNoRoute):
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Error:   "routing_no_route",
			Details: err.Error(),
		})
	case errors.Is(err, routing.ErrUnavailable):
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Error:   "routing_unavailable",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrStoreUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error:   "store_unavailable",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrStoreConstraint):
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "store_constraint",
			Details: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Details: err.Error(),
		})
	}
}
