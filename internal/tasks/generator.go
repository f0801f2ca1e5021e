package tasks

import (
	"context"
	"time"

	"finadvise-backend/internal/ai"
	"finadvise-backend/pkg/logging"
)

const OperationGenerate = "ai_tasks_generate"

const dueIn = 3 * 24 * time.Hour

// Generator asks the model for task ideas.
//
// The reply is not parsed yet: every call returns the same portfolio review
// task, due three days from the time of handling.
type Generator struct {
	ai          *ai.Service
	temperature float32
	now         func() time.Time
	logger      *logging.Logger
}

func NewGenerator(service *ai.Service, temperature float32, logger *logging.Logger) *Generator {
	if logger == nil {
		logger = logging.Default()
	}
	return &Generator{
		ai:          service,
		temperature: temperature,
		now:         time.Now,
		logger:      logger,
	}
}

func (g *Generator) Generate(ctx context.Context, taskContext string) ([]Task, error) {
	reply, err := g.ai.Generate(ctx, OperationGenerate, ai.CompletionRequest{
		Messages:    ai.BuildTaskConversation(taskContext),
		Temperature: g.temperature,
	})
	if err != nil {
		return nil, err
	}

	g.logger.Debug().Int("reply_len", len(reply)).Msg("task reply discarded")

	return []Task{portfolioReview(g.now())}, nil
}

func portfolioReview(now time.Time) Task {
	return Task{
		Title:       "Review Portfolio Performance",
		Description: "Analyze current portfolio performance and prepare recommendations",
		Priority:    "high",
		Category:    "Portfolio Management",
		DueDate:     now.Add(dueIn).Format(time.RFC3339Nano),
	}
}
