package config

import (
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server ServerConfig
	Model  ModelConfig
	Search SearchConfig
}

type ServerConfig struct {
	Port           string        `envconfig:"SERVER_PORT" default:"8000"`
	Host           string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	ReadTimeout    time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout   time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"120s"`
	MaxUploadBytes int64         `envconfig:"SERVER_MAX_UPLOAD_BYTES" default:"10485760"`
	StaticDir      string        `envconfig:"SERVER_STATIC_DIR" default:"web/static"`
}

type ModelConfig struct {
	// Provider is one of "gemini", "openai", or "azure".
	Provider    string `envconfig:"MODEL_PROVIDER" default:"gemini"`
	APIKey      string `envconfig:"MODEL_API_KEY" required:"true"`
	APIEndpoint string `envconfig:"MODEL_ENDPOINT" default:"https://api.openai.com/v1"`
	APIVersion  string `envconfig:"MODEL_API_VERSION" default:"2024-06-01"`
	Model       string `envconfig:"MODEL_NAME" default:"gemini-2.0-flash-exp"`
	MaxTokens   int64  `envconfig:"MODEL_MAX_TOKENS" default:"2048"`

	// Timeout bounds a single model call. Retries are on top of this.
	Timeout           time.Duration `envconfig:"MODEL_TIMEOUT" default:"60s"`
	MaxRetries        int           `envconfig:"MODEL_MAX_RETRIES" default:"2"`
	RetryBaseInterval time.Duration `envconfig:"MODEL_RETRY_BASE_INTERVAL" default:"500ms"`
}

type SearchConfig struct {
	Enabled    bool          `envconfig:"SEARCH_ENABLED" default:"true"`
	Endpoint   string        `envconfig:"SEARCH_ENDPOINT" default:"https://html.duckduckgo.com/html/"`
	Timeout    time.Duration `envconfig:"SEARCH_TIMEOUT" default:"10s"`
	MaxResults int           `envconfig:"SEARCH_MAX_RESULTS" default:"3"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("configuration loaded successfully")
	return &cfg, nil
}
