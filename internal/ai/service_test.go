package ai

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finadvise-backend/internal/metrics"
	"finadvise-backend/pkg/logging"
)

// fakeCompleter records calls and returns a canned reply.
type fakeCompleter struct {
	mu    sync.Mutex
	Calls []CompletionRequest
	Reply string
	Err   error
}

func (f *fakeCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, req)
	if f.Err != nil {
		return "", f.Err
	}
	return f.Reply, nil
}

func newTestService(c Completer) *Service {
	return NewService(c, ServiceConfig{Temperature: 0.7, MaxTokens: 500},
		metrics.NewAIMetrics(prometheus.NewRegistry()), logging.Nop())
}

func TestServiceAnalyze(t *testing.T) {
	fake := &fakeCompleter{Reply: "Sure.\n- Buy milk\n- Call client\nRandom line\n- Send report"}
	svc := newTestService(fake)

	res, err := svc.Analyze(context.Background(), OperationChat, "plan my day", []HistoryEntry{
		{Type: "user", Content: "hi"},
		{Type: "assistant", Content: "hello"},
	})
	require.NoError(t, err)

	assert.Equal(t, fake.Reply, res.Content)
	assert.Equal(t, []string{"Buy milk", "Call client", "Send report"}, res.Suggestions)

	require.Len(t, fake.Calls, 1)
	call := fake.Calls[0]
	assert.Len(t, call.Messages, 4)
	assert.InDelta(t, 0.7, call.Temperature, 0.0001)
	assert.Equal(t, 500, call.MaxTokens)
}

func TestServiceAnalyzeFallbackSuggestions(t *testing.T) {
	svc := newTestService(&fakeCompleter{Reply: "Just a plain paragraph."})

	res, err := svc.Analyze(context.Background(), OperationAnalyze, "hi", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Create task", "Check schedule", "Generate report"}, res.Suggestions)
}

func TestServiceAnalyzeGenerationFailed(t *testing.T) {
	upstream := errors.New("connection refused")
	svc := newTestService(&fakeCompleter{Err: upstream})

	res, err := svc.Analyze(context.Background(), OperationAnalyze, "hi", nil)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.ErrorIs(t, err, upstream)
}

func TestServiceAnalyzeInvalidInputSkipsCompletion(t *testing.T) {
	fake := &fakeCompleter{Reply: "unused"}
	svc := newTestService(fake)

	_, err := svc.Analyze(context.Background(), OperationAnalyze, "hi", []HistoryEntry{{Type: "robot", Content: "x"}})
	assert.ErrorIs(t, err, ErrUnknownRole)

	_, err = svc.Analyze(context.Background(), OperationAnalyze, "", nil)
	assert.ErrorIs(t, err, ErrEmptyText)

	assert.Empty(t, fake.Calls)
}

func TestServiceGenerateCanceled(t *testing.T) {
	svc := newTestService(&fakeCompleter{Err: context.Canceled})

	_, err := svc.Generate(context.Background(), "ai_tasks_generate", CompletionRequest{})
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.Equal(t, "canceled", statusLabel(context.Canceled))
}

func TestNewServicePanicsWithoutCompleter(t *testing.T) {
	assert.Panics(t, func() { NewService(nil, ServiceConfig{}, nil, nil) })
}
