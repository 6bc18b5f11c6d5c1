package response

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/errors"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/models"
	"github.com/go-playground/validator/v10"
)

// APIResponse is the envelope every endpoint answers with.
type APIResponse struct {
	Success bool           `json:"success"`
	Data    any            `json:"data,omitempty"`
	Error   *ErrorResponse `json:"error,omitempty"`
}

type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func write(w http.ResponseWriter, statusCode int, body APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", slog.String("error", err.Error()))
	}
}

func Success(w http.ResponseWriter, statusCode int, data any) {
	write(w, statusCode, APIResponse{Success: true, Data: data})
}

// Created answers 201 with a Location header pointing at the new resource.
func Created(w http.ResponseWriter, location string, data any) {
	w.Header().Set("Location", location)
	Success(w, http.StatusCreated, data)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func Paginated(w http.ResponseWriter, data any, total, page, pageSize int) {
	Success(w, http.StatusOK, models.NewPaginatedResponse(data, total, page, pageSize))
}

func fail(w http.ResponseWriter, statusCode int, body *ErrorResponse) {
	write(w, statusCode, APIResponse{Success: false, Error: body})
}

// Error renders an *errors.AppError as-is. Anything else is masked as a 500
// so driver and network messages never reach clients.
func Error(w http.ResponseWriter, err error) {
	appErr, ok := errors.IsAppError(err)
	if !ok {
		fail(w, http.StatusInternalServerError, &ErrorResponse{
			Code:    errors.ErrCodeInternal,
			Message: "An unexpected error occurred",
		})
		return
	}

	body := &ErrorResponse{Code: appErr.Code, Message: appErr.Message}
	if appErr.Detail != "" {
		body.Details = []string{appErr.Detail}
	}

	fail(w, appErr.StatusCode, body)
}

// messages keyed by validator tag; %[1]s is the field, %[2]s the tag param.
var tagMessages = map[string]string{
	"required": "Field %[1]s is required",
	"email":    "Field %[1]s must be a valid email address",
	"min":      "Field %[1]s must be at least %[2]s",
	"max":      "Field %[1]s must be at most %[2]s",
	"gt":       "Field %[1]s must be greater than %[2]s",
	"gte":      "Field %[1]s must be greater than or equal to %[2]s",
	"lt":       "Field %[1]s must be less than %[2]s",
	"oneof":    "Field %[1]s must be one of: %[2]s",
}

func fieldMessage(fe validator.FieldError) string {
	if format, ok := tagMessages[fe.Tag()]; ok {
		if fe.Param() == "" {
			return fmt.Sprintf(format, fe.Field())
		}
		return fmt.Sprintf(format, fe.Field(), fe.Param())
	}

	return fmt.Sprintf("Field %s is invalid: %s=%s", fe.Field(), fe.Tag(), fe.Param())
}

// ValidationError answers 400 with one detail line per failed field.
func ValidationError(w http.ResponseWriter, errs validator.ValidationErrors) {
	details := make([]string, 0, len(errs))
	for _, fe := range errs {
		details = append(details, fieldMessage(fe))
	}

	fail(w, http.StatusBadRequest, &ErrorResponse{
		Code:    errors.ErrCodeValidation,
		Message: "Validation failed",
		Details: details,
	})
}
