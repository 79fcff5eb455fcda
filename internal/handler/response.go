package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nhasan/codebin/internal/apperror"
)

// ErrorResponse is the JSON envelope for every error except 404. Field is
// present only for validation errors, naming the offending field.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// writeJSON sends a JSON response. Headers and status must go out before the
// body — once Encode writes, the headers are frozen.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers already sent; logging is all that's left.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError translates a domain error into an HTTP response. The service
// layer speaks apperror sentinels; this is the only place they meet status
// codes.
//
// Not-found responses carry no body — there is nothing useful to say about
// an id that doesn't exist. Unknown errors become a generic 500: internal
// messages can leak SQL or file paths and never reach the client.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		switch {
		case errors.Is(err, apperror.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			return
		case errors.Is(err, apperror.ErrValidation):
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: appErr.Message,
				Field:   appErr.Field,
			})
			return
		case errors.Is(err, apperror.ErrUnauthorized):
			w.Header().Set("WWW-Authenticate", `Basic realm="codebin"`)
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{
				Error:   "unauthorized",
				Message: appErr.Message,
			})
			return
		case errors.Is(err, apperror.ErrForbidden):
			writeJSON(w, http.StatusForbidden, ErrorResponse{
				Error:   "forbidden",
				Message: appErr.Message,
			})
			return
		case errors.Is(err, apperror.ErrConflict):
			writeJSON(w, http.StatusConflict, ErrorResponse{
				Error:   "conflict",
				Message: appErr.Message,
			})
			return
		}
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "an internal error occurred",
	})
}
