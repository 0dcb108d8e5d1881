package ai

import (
	"context"
	"fmt"
)

// MockLLMService is a scripted implementation of LLMService for testing.
type MockLLMService struct {
	// ChatFunc is invoked by Chat and Complete when set.
	ChatFunc func(ctx context.Context, messages []Message) (string, error)
	// EmbeddingFunc is invoked by Embedding when set.
	EmbeddingFunc func(ctx context.Context, text string) ([]float32, error)

	// Calls records the user content of each chat invocation.
	Calls []string
}

// NewMockLLMService creates a new MockLLMService.
func NewMockLLMService() *MockLLMService {
	return &MockLLMService{}
}

func (m *MockLLMService) Chat(ctx context.Context, messages []Message) (string, error) {
	if len(messages) > 0 {
		m.Calls = append(m.Calls, messages[len(messages)-1].Content)
	}
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, messages)
	}
	return "", fmt.Errorf("mock chat not configured")
}

func (m *MockLLMService) Complete(ctx context.Context, system, user string) (string, error) {
	return m.Chat(ctx, []Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	})
}

func (m *MockLLMService) Embedding(ctx context.Context, text string) ([]float32, error) {
	if m.EmbeddingFunc != nil {
		return m.EmbeddingFunc(ctx, text)
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

var _ LLMService = (*MockLLMService)(nil)
