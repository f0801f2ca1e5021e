package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChatClient struct {
	resp openai.ChatCompletionResponse
	err  error
	got  openai.ChatCompletionRequest
}

func (s *stubChatClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.got = req
	return s.resp, s.err
}

func TestOpenAIClientComplete(t *testing.T) {
	stub := &stubChatClient{resp: openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "- Call client"}},
		},
	}}
	client := newOpenAIClient(stub, "")

	out, err := client.Complete(context.Background(), CompletionRequest{
		Messages: []Turn{
			{Role: RoleSystem, Content: advisorSystemPrompt},
			{Role: RoleUser, Content: "hello"},
		},
		Temperature: 0.7,
		MaxTokens:   500,
	})
	require.NoError(t, err)

	assert.Equal(t, "- Call client", out)
	assert.Equal(t, "gpt-3.5-turbo", stub.got.Model)
	assert.InDelta(t, 0.7, stub.got.Temperature, 0.0001)
	assert.Equal(t, 500, stub.got.MaxTokens)
	require.Len(t, stub.got.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, stub.got.Messages[0].Role)
	assert.Equal(t, "hello", stub.got.Messages[1].Content)
}

func TestOpenAIClientUsesConfiguredModel(t *testing.T) {
	stub := &stubChatClient{resp: openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: "ok"}}},
	}}
	client := newOpenAIClient(stub, "gpt-4o-mini")

	_, err := client.Complete(context.Background(), CompletionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", stub.got.Model)
	assert.Zero(t, stub.got.MaxTokens)
}

func TestOpenAIClientErrors(t *testing.T) {
	stub := &stubChatClient{err: errors.New("quota exceeded")}
	client := newOpenAIClient(stub, "")

	_, err := client.Complete(context.Background(), CompletionRequest{})
	assert.EqualError(t, err, "quota exceeded")

	stub = &stubChatClient{}
	client = newOpenAIClient(stub, "")
	_, err = client.Complete(context.Background(), CompletionRequest{})
	assert.ErrorIs(t, err, errNoChoices)
}

func TestNewOpenAIClient(t *testing.T) {
	client := NewOpenAIClient(OpenAIOptions{APIKey: "sk-test", Model: "gpt-4o", BaseURL: "http://localhost:1234/v1"})
	assert.Equal(t, "gpt-4o", client.Model)
	assert.NotNil(t, client.client)
}

func TestOpenAIClientSendsZeroTemperature(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cmpl-1","object":"chat.completion","model":"gpt-3.5-turbo",` +
			`"choices":[{"index":0,"message":{"role":"assistant","content":"- Call client"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient(OpenAIOptions{APIKey: "sk-test", BaseURL: srv.URL + "/v1"})

	out, err := client.Complete(context.Background(), CompletionRequest{
		Messages:    []Turn{{Role: RoleUser, Content: "hi"}},
		Temperature: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, "- Call client", out)

	temp, ok := body["temperature"]
	require.True(t, ok, "temperature missing from request body: %v", body)
	assert.InDelta(t, 0, temp, 0.0001)
	assert.Greater(t, temp, 0.0)
}
