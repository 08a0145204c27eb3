package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/portal/internal/service/models/validation"
	"github.com/corray333/backend-labs/portal/internal/service/services/composersvc"
	"github.com/corray333/backend-labs/portal/internal/service/services/desksvc"
	"github.com/corray333/backend-labs/portal/internal/service/services/historysvc"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// DecodeJSON decodes the request body into dst and validates its tags.
// An empty body leaves dst untouched when allowEmpty is set.
func DecodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if !(allowEmpty && errors.Is(err, io.EOF)) {
			return fmt.Errorf("invalid request body: %w", err)
		}
	}

	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}

	return nil
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "Error sending response", "error", err)
	}
}

// BadRequest reports a malformed request.
func BadRequest(w http.ResponseWriter, r *http.Request, err error) {
	slog.WarnContext(r.Context(), "Bad request", "path", r.URL.Path, "error", err)
	JSON(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()})
}

// Error maps a service error to its status code and writes it.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErr *validation.FieldError
	switch {
	case errors.As(err, &fieldErr):
		JSON(w, r, http.StatusUnprocessableEntity, errorResponse{Error: fieldErr.Message, Field: fieldErr.Field})
	case errors.Is(err, desksvc.ErrDeskNotFound),
		errors.Is(err, composersvc.ErrSuggestionNotFound),
		errors.Is(err, historysvc.ErrOrderNotFound):
		JSON(w, r, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, composersvc.ErrSubmitInProgress):
		JSON(w, r, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		slog.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
		JSON(w, r, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// BadGateway reports a failure of an upstream the request depends on.
func BadGateway(w http.ResponseWriter, r *http.Request, err error) {
	JSON(w, r, http.StatusBadGateway, errorResponse{Error: err.Error()})
}
