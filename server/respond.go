package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/randalmurphal/contentkit/generator"
	"github.com/randalmurphal/contentkit/template"
)

// ErrorResponse is the body of every non-2xx reply that is not a Result.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	reqID := middleware.GetReqID(r.Context())
	level := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	attrs := []slog.Attr{
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
	}
	if err != nil {
		attrs = append(attrs, slog.Any("error", err))
	}
	s.logger.LogAttrs(r.Context(), level, msg, attrs...)

	respondJSON(w, status, ErrorResponse{Error: msg, RequestID: reqID})
}

// statusFor maps library errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, template.ErrTemplateNotFound):
		return http.StatusNotFound
	case errors.Is(err, template.ErrTemplateValidation),
		errors.Is(err, template.ErrVariableValidation),
		errors.Is(err, template.ErrSanitization),
		errors.Is(err, generator.ErrUnsupportedFormat):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func resultStatus(res *generator.Result) int {
	if res.Success {
		return http.StatusOK
	}
	return http.StatusUnprocessableEntity
}
