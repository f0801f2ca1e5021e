package ai

import (
	"encoding/json"
	"errors"
	"net/http"

	"finadvise-backend/internal/analytics"
	"finadvise-backend/pkg/logging"
)

const (
	OperationAnalyze = "ai_analyze"
	OperationChat    = "ai_chat"

	maxBodyBytes = 1 << 20
)

// AnalyzeRequest is the body of POST /ai/analyze and POST /ai/chat.
type AnalyzeRequest struct {
	Text    string         `json:"text"`
	History []HistoryEntry `json:"history,omitempty"`
}

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// Handler wires HTTP requests to the analyze service.
type Handler struct {
	service   *Service
	analytics *analytics.Recorder
	logger    *logging.Logger
}

func NewHandler(service *Service, recorder *analytics.Recorder, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service:   service,
		analytics: recorder,
		logger:    logger,
	}
}

// Analyze handles POST /ai/analyze.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, OperationAnalyze)
}

// Chat handles POST /ai/chat. Same contract as Analyze.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, OperationChat)
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request, operation string) {
	var req AnalyzeRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn().Err(err).Str("operation", operation).Msg("failed to decode request")
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Detail: "request body too large"})
			return
		}
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: "invalid json"})
		return
	}

	res, err := h.service.Analyze(r.Context(), operation, req.Text, req.History)
	switch {
	case errors.Is(err, ErrEmptyText):
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: "text is required"})
		return
	case errors.Is(err, ErrUnknownRole):
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: err.Error()})
		return
	case err != nil:
		h.analytics.Record(r, operation, map[string]any{
			"text_len":    len(req.Text),
			"history_len": len(req.History),
			"ok":          false,
		})
		h.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Detail: "Error generating AI response"})
		return
	}

	h.analytics.Record(r, operation, map[string]any{
		"text_len":         len(req.Text),
		"history_len":      len(req.History),
		"reply_len":        len(res.Content),
		"suggestion_count": len(res.Suggestions),
		"ok":               true,
	})
	h.writeJSON(w, http.StatusOK, res)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error().Err(err).Msg("failed to write JSON response")
	}
}
