package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finadvise-backend/internal/metrics"
	"finadvise-backend/pkg/logging"
)

// Result is the reply relayed to the client.
type Result struct {
	Content     string   `json:"content"`
	Suggestions []string `json:"suggestions"`
}

// Service runs conversations against a Completer.
type Service struct {
	completer   Completer
	temperature float32
	maxTokens   int
	metrics     *metrics.AIMetrics
	logger      *logging.Logger
}

// ServiceConfig holds the completion parameters for analyze/chat calls.
type ServiceConfig struct {
	Temperature float32
	MaxTokens   int
}

func NewService(completer Completer, cfg ServiceConfig, m *metrics.AIMetrics, logger *logging.Logger) *Service {
	if completer == nil {
		panic("ai: completer cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		completer:   completer,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		metrics:     m,
		logger:      logger,
	}
}

// Analyze sends text with its history and extracts suggestions from the reply.
// Invalid input is returned as ErrEmptyText or ErrUnknownRole; every
// completion failure as ErrGenerationFailed.
func (s *Service) Analyze(ctx context.Context, operation, text string, history []HistoryEntry) (*Result, error) {
	turns, err := BuildConversation(text, history)
	if err != nil {
		return nil, err
	}

	content, err := s.Generate(ctx, operation, CompletionRequest{
		Messages:    turns,
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		return nil, err
	}

	suggestions, fallback := extractSuggestions(content)
	if fallback {
		s.metrics.ObserveSuggestionFallback()
	}

	return &Result{Content: content, Suggestions: suggestions}, nil
}

// Generate issues one completion call. No retries.
func (s *Service) Generate(ctx context.Context, operation string, req CompletionRequest) (string, error) {
	start := time.Now()
	content, err := s.completer.Complete(ctx, req)
	elapsed := time.Since(start)

	if err != nil {
		s.metrics.ObserveCompletion(operation, statusLabel(err), elapsed.Seconds())
		s.logger.Error().
			Err(err).
			Str("operation", operation).
			Int("messages", len(req.Messages)).
			Dur("duration", elapsed).
			Msg("completion call failed")
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	s.metrics.ObserveCompletion(operation, "ok", elapsed.Seconds())
	s.logger.Debug().
		Str("operation", operation).
		Int("messages", len(req.Messages)).
		Int("reply_len", len(content)).
		Dur("duration", elapsed).
		Msg("completion call finished")
	return content, nil
}

func statusLabel(err error) string {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	return "error"
}
