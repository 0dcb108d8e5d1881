package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studymate/studymate/internal/profile"
)

func TestNewConfigFromProfile(t *testing.T) {
	p := &profile.Profile{
		AIEnabled:        true,
		AIAPIKey:         "sk-test",
		AIBaseURL:        "https://openrouter.ai/api/v1",
		AIModel:          "qwen/qwen3-30b-a3b:free",
		AIEmbeddingModel: "text-embedding-3-small",
	}

	cfg := NewConfigFromProfile(p)
	require.NotNil(t, cfg)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.BaseURL)
	assert.Equal(t, "qwen/qwen3-30b-a3b:free", cfg.ChatModel)
	assert.Equal(t, 3, cfg.MaxRetries)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{
			name:    "disabled config is always valid",
			cfg:     &Config{Enabled: false},
			wantErr: false,
		},
		{
			name:    "enabled without API key",
			cfg:     &Config{Enabled: true, ChatModel: "gpt-4o-mini"},
			wantErr: true,
		},
		{
			name:    "enabled without chat model",
			cfg:     &Config{Enabled: true, APIKey: "sk-test"},
			wantErr: true,
		},
		{
			name:    "complete config",
			cfg:     &Config{Enabled: true, APIKey: "sk-test", ChatModel: "gpt-4o-mini"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
