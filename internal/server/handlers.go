package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/afrovids/afrovids-api/internal/pipeline"
)

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	service   *pipeline.Service
	validator *validator.Validate
	logger    *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *pipeline.Service, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		service:   service,
		validator: validator.New(),
		logger:    logger,
	}
}

// Health handles GET /health requests.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Generate handles POST /api/generate requests. It generates the narration
// script synchronously, answers the client, and only then schedules the
// remaining stages so the response never waits on audio or video work.
func (h *Handlers) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode request body",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.logger.Warn("request validation failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "topic is required", "VALIDATION_ERROR")
		return
	}

	job, err := h.service.Start(r.Context(), pipeline.Request{
		Topic:       req.Topic,
		Language:    req.Language,
		DurationSec: req.DurationSec,
		ClientID:    req.ClientID,
	})
	if err != nil {
		if errors.Is(err, pipeline.ErrTopicRequired) {
			writeError(w, http.StatusBadRequest, "topic is required", "VALIDATION_ERROR")
			return
		}
		h.logger.Error("script generation failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to generate script", "SCRIPT_GENERATION_FAILED")
		return
	}

	h.logger.Info("generation started",
		slog.String("job_id", job.ID),
		slog.String("topic", job.Topic),
	)

	writeJSON(w, http.StatusOK, GenerateResponse{
		Message: "video generation started",
		Script:  job.Script,
		Status:  "processing",
	})

	h.service.Dispatch(r.Context(), job)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
