package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/staffboard/internal/domain/notification"
	"github.com/rpggio/staffboard/internal/domain/timeline"
	"github.com/rpggio/staffboard/internal/repository"
)

var (
	// ErrUnknownMethod indicates a method name the handler does not serve.
	ErrUnknownMethod = errors.New("unknown method")
	// ErrInvalidParams indicates params that could not be decoded.
	ErrInvalidParams = errors.New("invalid params")
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) CodeValue() string {
	return e.Code
}

func (e *APIError) MessageValue() string {
	return e.Message
}

func (e *APIError) DetailsValue() any {
	return e.Details
}

func (e *APIError) RecoveryHintValue() string {
	return e.RecoveryHint
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, ErrUnknownMethod):
		return &APIError{Code: "METHOD_NOT_FOUND", Message: err.Error(), RecoveryHint: "Check the method name"}
	case errors.Is(err, ErrInvalidParams):
		return &APIError{Code: "INVALID_PARAMS", Message: err.Error(), RecoveryHint: "Check parameter names and types"}
	case errors.Is(err, timeline.ErrInvalidDate):
		return &APIError{Code: "INVALID_DATE", Message: "invalid date", RecoveryHint: "Use YYYY-MM-DD or omit for today"}
	case errors.Is(err, timeline.ErrInvalidHour):
		return &APIError{Code: "INVALID_HOUR", Message: "hour must be between 0 and 23"}
	case errors.Is(err, timeline.ErrHourLocked):
		return &APIError{Code: "HOUR_LOCKED", Message: "hour is locked", RecoveryHint: "Only open hours accept new activity"}
	case errors.Is(err, timeline.ErrInvalidInput), errors.Is(err, notification.ErrInvalidInput), errors.Is(err, repository.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Check required fields"}
	case errors.Is(err, notification.ErrNotFound), errors.Is(err, repository.ErrNotFound):
		return &APIError{Code: "NOTIFICATION_NOT_FOUND", Message: "notification not found", RecoveryHint: "Reload the notification list"}
	case errors.Is(err, notification.ErrUnsupported), errors.Is(err, notification.ErrMissingCapability):
		return &APIError{Code: "UNSUPPORTED", Message: "operation not supported by the notification store"}
	default:
		return nil
	}
}
