// Package response writes the uniform success and error envelopes.
package response

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stayease_backend/internal/shared/apperr"
)

// Envelope wraps every successful payload.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

// ErrorBody is returned for every failed request.
type ErrorBody struct {
	Timestamp        time.Time         `json:"timestamp"`
	Status           int               `json:"status"`
	Error            string            `json:"error"`
	Message          string            `json:"message"`
	Path             string            `json:"path"`
	ValidationErrors map[string]string `json:"validationErrors,omitempty"`
}

// Page is the paginated payload shape.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Size          int   `json:"size"`
	Number        int   `json:"number"`
}

// OK writes 200 with data.
func OK(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Message: message})
}

// Created writes 201 with data.
func Created(c *gin.Context, data any, message string) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data, Message: message})
}

// Error maps err to the error envelope and aborts the chain.
func Error(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := StatusOf(kind)

	body := ErrorBody{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     reason(kind),
		Message:   err.Error(),
		Path:      c.Request.URL.Path,
	}

	switch kind {
	case apperr.KindValidation:
		body.Message = "Input validation failed"
		body.ValidationErrors = apperr.FieldsOf(err)
	case apperr.KindInternal:
		slog.ErrorContext(c.Request.Context(), "unhandled error",
			"error", err,
			"path", body.Path,
			"method", c.Request.Method,
		)
		body.Message = "An unexpected error occurred"
	}

	c.AbortWithStatusJSON(status, body)
}

// StatusOf returns the HTTP status for kind.
func StatusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindBadRequest, apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func reason(kind apperr.Kind) string {
	if kind == apperr.KindValidation {
		return "Validation Failed"
	}
	return http.StatusText(StatusOf(kind))
}

// BindError classifies an error returned by gin's ShouldBind* methods.
func BindError(err error) error {
	if fields := validationFields(err); fields != nil {
		return apperr.Validation(fields)
	}
	if errors.Is(err, io.EOF) {
		return apperr.BadRequest("request body is required")
	}
	return apperr.Wrap(err, apperr.KindBadRequest, "malformed request")
}
