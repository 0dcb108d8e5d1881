package profile

import (
	"os"
	"testing"
)

func TestFromEnvDefaults(t *testing.T) {
	clearEnvVars()

	profile := &Profile{}
	profile.FromEnv()

	tests := []struct {
		name     string
		expected string
		actual   string
	}{
		{"UISBaseURL default", "https://uis.ptit.edu.vn", profile.UISBaseURL},
		{"AIEnabled should be false by default", "false", boolToString(profile.AIEnabled)},
		{"AIBaseURL default", "https://openrouter.ai/api/v1", profile.AIBaseURL},
		{"AIModel default", "qwen/qwen3-30b-a3b:free", profile.AIModel},
		{"AIEmbeddingModel default", "text-embedding-3-small", profile.AIEmbeddingModel},
		{"JWTSecret default", "studymate-dev-secret", profile.JWTSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.actual != tt.expected {
				t.Errorf("%s: expected %q, got %q", tt.name, tt.expected, tt.actual)
			}
		})
	}
}

func TestFromEnv(t *testing.T) {
	clearEnvVars()

	tests := []struct {
		name     string
		envVar   string
		envValue string
		field    func(*Profile) string
		expected string
	}{
		{
			name:     "STUDYMATE_AI_ENABLED=true",
			envVar:   "STUDYMATE_AI_ENABLED",
			envValue: "true",
			field:    func(p *Profile) string { return boolToString(p.AIEnabled) },
			expected: "true",
		},
		{
			name:     "STUDYMATE_AI_API_KEY",
			envVar:   "STUDYMATE_AI_API_KEY",
			envValue: "test-key-123",
			field:    func(p *Profile) string { return p.AIAPIKey },
			expected: "test-key-123",
		},
		{
			name:     "STUDYMATE_AI_BASE_URL",
			envVar:   "STUDYMATE_AI_BASE_URL",
			envValue: "https://custom.proxy/v1",
			field:    func(p *Profile) string { return p.AIBaseURL },
			expected: "https://custom.proxy/v1",
		},
		{
			name:     "STUDYMATE_AI_MODEL",
			envVar:   "STUDYMATE_AI_MODEL",
			envValue: "gpt-4o-mini",
			field:    func(p *Profile) string { return p.AIModel },
			expected: "gpt-4o-mini",
		},
		{
			name:     "STUDYMATE_UIS_BASE_URL",
			envVar:   "STUDYMATE_UIS_BASE_URL",
			envValue: "https://uis.example.edu.vn",
			field:    func(p *Profile) string { return p.UISBaseURL },
			expected: "https://uis.example.edu.vn",
		},
		{
			name:     "STUDYMATE_BRAVE_API_KEY",
			envVar:   "STUDYMATE_BRAVE_API_KEY",
			envValue: "brave-key",
			field:    func(p *Profile) string { return p.BraveAPIKey },
			expected: "brave-key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars()
			os.Setenv(tt.envVar, tt.envValue)

			profile := &Profile{}
			profile.FromEnv()

			actual := tt.field(profile)
			if actual != tt.expected {
				t.Errorf("%s: expected %q, got %q", tt.name, tt.expected, actual)
			}
		})
	}
}

func TestIsAIEnabled(t *testing.T) {
	tests := []struct {
		name           string
		setup          func(*Profile)
		expectedResult bool
	}{
		{
			name: "AIEnabled=false should return false",
			setup: func(p *Profile) {
				p.AIEnabled = false
			},
			expectedResult: false,
		},
		{
			name: "AIEnabled=true but no API key should return false",
			setup: func(p *Profile) {
				p.AIEnabled = true
				p.AIAPIKey = ""
			},
			expectedResult: false,
		},
		{
			name: "AIEnabled=true with API key should return true",
			setup: func(p *Profile) {
				p.AIEnabled = true
				p.AIAPIKey = "test-key"
			},
			expectedResult: true,
		},
		{
			name: "AIEnabled=false with API key should return false",
			setup: func(p *Profile) {
				p.AIEnabled = false
				p.AIAPIKey = "test-key"
			},
			expectedResult: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := &Profile{}
			tt.setup(profile)
			result := profile.IsAIEnabled()
			if result != tt.expectedResult {
				t.Errorf("IsAIEnabled(): expected %v, got %v", tt.expectedResult, result)
			}
		})
	}
}

func clearEnvVars() {
	envVars := []string{
		"STUDYMATE_UIS_BASE_URL",
		"STUDYMATE_AI_ENABLED",
		"STUDYMATE_AI_API_KEY",
		"STUDYMATE_AI_BASE_URL",
		"STUDYMATE_AI_MODEL",
		"STUDYMATE_AI_EMBEDDING_MODEL",
		"STUDYMATE_BRAVE_API_KEY",
		"STUDYMATE_JWT_SECRET",
	}
	for _, envVar := range envVars {
		os.Unsetenv(envVar)
	}
}

func boolToString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
