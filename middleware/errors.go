package middleware

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
)

// APIError is the typed error handlers return for expected failures. The
// top-level ErrorHandler translates it into the response envelope; everything
// else falls through to a logged 500.
type APIError struct {
	Status   int
	Messages []string
}

func (e *APIError) Error() string {
	return strings.Join(e.Messages, "; ")
}

func newAPIError(status int, messages ...string) *APIError {
	return &APIError{Status: status, Messages: messages}
}

func BadRequest(messages ...string) *APIError {
	return newAPIError(fiber.StatusBadRequest, messages...)
}

func Unauthorized(message string) *APIError {
	return newAPIError(fiber.StatusUnauthorized, message)
}

func Forbidden(message string) *APIError {
	return newAPIError(fiber.StatusForbidden, message)
}

func NotFound(message string) *APIError {
	return newAPIError(fiber.StatusNotFound, message)
}

func BadGateway(message string) *APIError {
	return newAPIError(fiber.StatusBadGateway, message)
}

// ValidationError converts validator.v10 field errors into a 400 with one
// message per failed field.
func ValidationError(err error) *APIError {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return BadRequest("Invalid request body!")
	}
	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email", field))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s characters long", field, fe.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}
	return BadRequest(messages...)
}

// ErrorHandler is the single translator from errors to the HTTP envelope
// {"errors": <string | string[]>}. Wired into fiber.Config.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return respond(c, apiErr.Status, apiErr.Messages)
	}

	// Store constraint violations surface as readable 400s instead of 500s.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return respond(c, fiber.StatusBadRequest, []string{constraintMessage(pgErr)})
		case "23502": // not_null_violation
			return respond(c, fiber.StatusBadRequest, []string{pgErr.ColumnName + " is required"})
		}
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return respond(c, fiberErr.Code, []string{fiberErr.Message})
	}

	log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return respond(c, fiber.StatusInternalServerError, []string{"Something went wrong"})
}

func constraintMessage(pgErr *pgconn.PgError) string {
	// Detail looks like: Key (email)=(a@x.com) already exists.
	if idx := strings.Index(pgErr.Detail, "="); idx >= 0 && strings.HasSuffix(pgErr.Detail, ".") {
		return strings.Trim(pgErr.Detail[idx+1:len(pgErr.Detail)-1], "()") + " already exists"
	}
	return "duplicate value violates a uniqueness constraint"
}

func respond(c *fiber.Ctx, status int, messages []string) error {
	if len(messages) == 1 {
		return c.Status(status).JSON(fiber.Map{"errors": messages[0]})
	}
	return c.Status(status).JSON(fiber.Map{"errors": messages})
}
