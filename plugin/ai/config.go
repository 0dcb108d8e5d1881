package ai

import (
	"errors"
	"time"

	"github.com/studymate/studymate/internal/profile"
)

// Config represents AI provider configuration.
type Config struct {
	Enabled bool

	// BaseURL is an OpenAI-compatible endpoint (OpenRouter in production).
	BaseURL        string
	APIKey         string
	ChatModel      string
	EmbeddingModel string

	MaxRetries int
	Timeout    time.Duration
}

// NewConfigFromProfile creates AI config from profile.
func NewConfigFromProfile(p *profile.Profile) *Config {
	cfg := &Config{
		Enabled:        p.AIEnabled,
		BaseURL:        p.AIBaseURL,
		APIKey:         p.AIAPIKey,
		ChatModel:      p.AIModel,
		EmbeddingModel: p.AIEmbeddingModel,
		MaxRetries:     3,
		Timeout:        30 * time.Second,
	}
	return cfg
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.APIKey == "" {
		return errors.New("AI API key is required")
	}

	if c.ChatModel == "" {
		return errors.New("AI chat model is required")
	}

	return nil
}
