// utils/response.go
package utils

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Sentinel errors for the service layer. Handlers translate them into HTTP
// status codes in exactly one place (ErrorResponse below) so every failure
// shares the same envelope shape.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrConflict           = errors.New("resource already exists")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid username/email or password")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("insufficient permissions")
)

// ValidationError carries the offending field so 400 responses can name it.
func ValidationError(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrValidation, field, reason)
}

// Response writes the uniform envelope used by every endpoint:
// { timestamp, status, error, message, data }.
func Response(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"timestamp": time.Now().Format(time.RFC3339),
		"status":    status,
		"error":     http.StatusText(status),
		"message":   message,
		"data":      data,
	})
}

// ErrorResponse maps a service error onto the envelope. Unrecognized errors
// become a generic 500; the underlying cause is logged, never sent verbatim.
func ErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return Response(c, fiber.StatusNotFound, err.Error(), nil)
	case errors.Is(err, ErrValidation):
		return Response(c, fiber.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, ErrConflict):
		return Response(c, fiber.StatusConflict, err.Error(), nil)
	case errors.Is(err, ErrInvalidCredentials):
		return Response(c, fiber.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, ErrUnauthorized):
		return Response(c, fiber.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, ErrForbidden):
		return Response(c, fiber.StatusForbidden, err.Error(), nil)
	default:
		log.Printf("[ERROR] unexpected failure on %s %s: %v", c.Method(), c.Path(), err)
		return Response(c, fiber.StatusInternalServerError, "An unexpected error occurred", nil)
	}
}
