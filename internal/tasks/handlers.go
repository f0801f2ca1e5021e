package tasks

import (
	"encoding/json"
	"errors"
	"net/http"

	"finadvise-backend/internal/analytics"
	"finadvise-backend/pkg/logging"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Detail string `json:"detail"`
}

type TaskHandler struct {
	generator *Generator
	analytics *analytics.Recorder
	logger    *logging.Logger
}

func NewHandler(generator *Generator, recorder *analytics.Recorder, logger *logging.Logger) *TaskHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &TaskHandler{
		generator: generator,
		analytics: recorder,
		logger:    logger,
	}
}

// Generate handles POST /ai/tasks/generate.
func (h *TaskHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn().Err(err).Msg("failed to decode task request")
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Detail: "request body too large"})
			return
		}
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid json"})
		return
	}

	if req.Context == nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "context is required"})
		return
	}

	tasks, err := h.generator.Generate(r.Context(), *req.Context)
	h.analytics.Record(r, OperationGenerate, map[string]any{
		"context_len": len(*req.Context),
		"task_count":  len(tasks),
		"ok":          err == nil,
	})
	if err != nil {
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "Error generating AI response"})
		return
	}

	h.writeJSON(w, http.StatusOK, GenerateResponse{Tasks: tasks})
}

func (h *TaskHandler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error().Err(err).Msg("failed to write JSON response")
	}
}
