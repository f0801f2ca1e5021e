package ai

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finadvise-backend/internal/analytics"
	"finadvise-backend/pkg/logging"
)

func newTestHandler(c Completer) *Handler {
	return NewHandler(newTestService(c), analytics.NewRecorder(nil, logging.Nop()), logging.Nop())
}

func TestHandlerAnalyzeAndChatShareContract(t *testing.T) {
	routes := map[string]func(*Handler) http.HandlerFunc{
		"/ai/analyze": func(h *Handler) http.HandlerFunc { return h.Analyze },
		"/ai/chat":    func(h *Handler) http.HandlerFunc { return h.Chat },
	}

	for path, route := range routes {
		t.Run(path, func(t *testing.T) {
			fake := &fakeCompleter{Reply: "- Buy milk\n- Call client\nRandom line\n- Send report"}
			h := newTestHandler(fake)

			body := `{"text":"what next?","history":[{"type":"user","content":"hi"},{"type":"ai","content":"hello"}]}`
			req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
			rec := httptest.NewRecorder()

			route(h)(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var res Result
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
			assert.Equal(t, fake.Reply, res.Content)
			assert.Equal(t, []string{"Buy milk", "Call client", "Send report"}, res.Suggestions)

			require.Len(t, fake.Calls, 1)
			assert.Len(t, fake.Calls[0].Messages, 4)
			assert.Equal(t, RoleAssistant, fake.Calls[0].Messages[2].Role)
		})
	}
}

func TestHandlerCompletionFailureIsServerError(t *testing.T) {
	h := newTestHandler(&fakeCompleter{Err: errors.New("provider down")})

	req := httptest.NewRequest(http.MethodPost, "/ai/chat", strings.NewReader(`{"text":"hi"}`))
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Error generating AI response", body.Detail)
	assert.NotContains(t, rec.Body.String(), "provider down")
	assert.NotContains(t, rec.Body.String(), "suggestions")
}

func TestHandlerBadRequests(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		detail string
	}{
		{"invalid json", `{"text":`, "invalid json"},
		{"missing text", `{}`, "text is required"},
		{"blank text", `{"text":"   "}`, "text is required"},
		{"unknown role", `{"text":"hi","history":[{"type":"bot","content":"x"}]}`, `ai: unknown history role: "bot"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeCompleter{Reply: "unused"}
			h := newTestHandler(fake)

			req := httptest.NewRequest(http.MethodPost, "/ai/analyze", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Analyze(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Contains(t, body.Detail, tt.detail)
			assert.Empty(t, fake.Calls)
		})
	}
}

func TestHandlerRejectsOversizedBody(t *testing.T) {
	fake := &fakeCompleter{Reply: "unused"}
	h := newTestHandler(fake)

	body := `{"text":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/ai/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	var res ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "request body too large", res.Detail)
	assert.Empty(t, fake.Calls)
}
