package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration to start main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where studymate stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string

	// UIS Configuration
	UISBaseURL string // STUDYMATE_UIS_BASE_URL (default: https://uis.ptit.edu.vn)

	// AI Configuration
	AIEnabled        bool   // STUDYMATE_AI_ENABLED
	AIAPIKey         string // STUDYMATE_AI_API_KEY
	AIBaseURL        string // STUDYMATE_AI_BASE_URL (default: https://openrouter.ai/api/v1)
	AIModel          string // STUDYMATE_AI_MODEL (default: qwen/qwen3-30b-a3b:free)
	AIEmbeddingModel string // STUDYMATE_AI_EMBEDDING_MODEL (default: text-embedding-3-small)

	// Web Search Configuration
	BraveAPIKey string // STUDYMATE_BRAVE_API_KEY

	// TikaServerURL enables PDF/Office text extraction when set
	TikaServerURL string // STUDYMATE_TIKA_URL

	// JWTSecret signs local session tokens
	JWTSecret string // STUDYMATE_JWT_SECRET
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if AI is enabled and an API key is configured.
func (p *Profile) IsAIEnabled() bool {
	return p.AIEnabled && p.AIAPIKey != ""
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from STUDYMATE_* environment variables.
func (p *Profile) FromEnv() {
	p.UISBaseURL = getEnvOrDefault("STUDYMATE_UIS_BASE_URL", "https://uis.ptit.edu.vn")

	p.AIEnabled = os.Getenv("STUDYMATE_AI_ENABLED") == "true"
	p.AIAPIKey = os.Getenv("STUDYMATE_AI_API_KEY")
	p.AIBaseURL = getEnvOrDefault("STUDYMATE_AI_BASE_URL", "https://openrouter.ai/api/v1")
	p.AIModel = getEnvOrDefault("STUDYMATE_AI_MODEL", "qwen/qwen3-30b-a3b:free")
	p.AIEmbeddingModel = getEnvOrDefault("STUDYMATE_AI_EMBEDDING_MODEL", "text-embedding-3-small")

	p.BraveAPIKey = os.Getenv("STUDYMATE_BRAVE_API_KEY")
	p.TikaServerURL = os.Getenv("STUDYMATE_TIKA_URL")
	p.JWTSecret = getEnvOrDefault("STUDYMATE_JWT_SECRET", "studymate-dev-secret")
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "studymate")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/studymate"
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check dsn", slog.String("data", dataDir), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("studymate_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	return nil
}
