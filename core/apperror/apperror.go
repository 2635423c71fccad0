// Package apperror defines the machine-readable errors returned by the HTTP
// API and the fiber error handler that renders them.
package apperror

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Error codes.
const (
	CodeMissingID       = "0x003"
	CodeInvalidCountry  = "0x004"
	CodeMissingHash     = "0x005"
	CodeNotFound        = "0x006"
	CodeInvalidPayload  = "0x007"
	CodeUnauthorized    = "0x401"
	CodeInternal        = "0x500"
	CodeNotImplemented  = "0x501"
	CodeUpstreamFailure = "0x502"
)

// Error is an API error with a stable code.
type Error struct {
	Status     int    `json:"-"`
	Code       string `json:"code"`
	Problem    string `json:"problem"`
	SentValues string `json:"sendValue"`
	Details    string `json:"details"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Code, e.Problem, e.Details)
}

// New creates an API error.
func New(status int, code, problem, sentValues, details string) *Error {
	return &Error{Status: status, Code: code, Problem: problem, SentValues: sentValues, Details: details}
}

// BadRequest creates a 400 error.
func BadRequest(code, problem, sentValues, details string) *Error {
	return New(fiber.StatusBadRequest, code, problem, sentValues, details)
}

// NotFound creates a 404 error with code 0x006.
func NotFound(problem, sentValues string) *Error {
	return New(fiber.StatusNotFound, CodeNotFound, problem, sentValues, "")
}

// Handler renders every error returned by a route as JSON. Errors that are
// not API errors become 500 responses with code 0x500; their details are
// logged, not returned.
func Handler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var apiErr *Error
		if errors.As(err, &apiErr) {
			return c.Status(apiErr.Status).JSON(apiErr)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(&Error{
				Code:    fmt.Sprintf("0x%03d", fiberErr.Code),
				Problem: fiberErr.Message,
			})
		}

		rid, _ := c.Locals("ray_id").(string)
		logger.Error("Unhandled request error",
			zap.String("path", c.Path()),
			zap.String("ray_id", rid),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(&Error{
			Code:    CodeInternal,
			Problem: "Internal Server Error",
		})
	}
}
