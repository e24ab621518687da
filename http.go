package identity

import (
	"net/http"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// APIResponse is the JSON envelope every endpoint answers with
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// OKResponse wraps a payload in a successful envelope
func OKResponse(message string, data any) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// ErrResponse wraps a message in a failed envelope
func ErrResponse(message string) APIResponse {
	return APIResponse{
		Success: false,
		Message: message,
	}
}

// ErrorWriter maps taxonomy errors to HTTP responses
type ErrorWriter struct {
	Logger Logger
}

// NewErrorWriter builds the default JSON error writer
func NewErrorWriter(logger Logger) *ErrorWriter {
	if logger == nil {
		logger = defLogger{}
	}
	return &ErrorWriter{Logger: logger}
}

// WriteJSONError renders err as the JSON envelope with the mapped status
// code. Unknown errors collapse to a generic 500 so internals never leak
// to clients.
func (w *ErrorWriter) WriteJSONError(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	status := richErr.Code
	if status == 0 {
		status = categoryStatus(richErr.Category)
	}

	message := richErr.Message
	if status == http.StatusInternalServerError {
		w.Logger.Error(
			"request failed",
			"error", richErr.Message,
			"category", richErr.Category,
			"details", print.MaybePrettyJSON(richErr.Metadata),
		)
		message = "An unexpected server error occurred"
	} else {
		w.Logger.Info(
			"request rejected",
			"error", richErr.Message,
			"category", richErr.Category,
			"text_code", richErr.TextCode,
			"path", c.OriginalURL(),
		)
	}

	return c.JSON(status, ErrResponse(message))
}

func categoryStatus(category errors.Category) int {
	switch category {
	case errors.CategoryAuth:
		return http.StatusUnauthorized
	case errors.CategoryAuthz:
		return http.StatusForbidden
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryConflict:
		return http.StatusConflict
	case errors.CategoryValidation, errors.CategoryBadInput:
		return http.StatusBadRequest
	case errors.CategoryRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
