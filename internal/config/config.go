package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StoreDatabase = "database"
	StoreRedis    = "redis"
	StoreMemory   = "memory"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8000"`

	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	DatabaseURL    string `env:"DATABASE_URL" envDefault:"./data/santa.db"`

	SessionStore  string        `env:"SESSION_STORE" envDefault:"database"`
	RedisURL      string        `env:"REDIS_URL"`
	SessionMaxAge time.Duration `env:"SESSION_MAX_AGE" envDefault:"30m"`
	PurgeInterval time.Duration `env:"PURGE_INTERVAL" envDefault:"5m"`

	LLMProvider    string        `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIKey      string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL  string        `env:"OPENAI_BASE_URL"`
	OpenAIModel    string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	LLMTemperature float64       `env:"LLM_TEMPERATURE" envDefault:"0.7"`
	LLMTimeout     time.Duration `env:"LLM_TIMEOUT" envDefault:"50s"`

	MaxQuestions         int      `env:"MAX_QUESTIONS" envDefault:"0"`
	EnableSessionListing bool     `env:"ENABLE_SESSION_LISTING" envDefault:"false"`
	// Empty disables CORS. Origins must be explicit since the session cookie
	// is sent with credentialed requests.
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// LoadConfig reads the configuration from the process environment. Callers
// that support a dotenv file should load it before calling this.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("invalid DATABASE_DRIVER '%s', expected sqlite or postgres", c.DatabaseDriver)
	}

	switch c.SessionStore {
	case StoreDatabase, StoreMemory:
	case StoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL must be set when SESSION_STORE is redis")
		}
	default:
		return fmt.Errorf("invalid SESSION_STORE '%s', expected database, redis or memory", c.SessionStore)
	}

	switch c.LLMProvider {
	case "openai", "langchain":
		if c.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY must be set when LLM_PROVIDER is %s", c.LLMProvider)
		}
	case "static":
	default:
		return fmt.Errorf("invalid LLM_PROVIDER '%s', expected openai, langchain or static", c.LLMProvider)
	}

	if c.SessionMaxAge <= 0 {
		return fmt.Errorf("SESSION_MAX_AGE must be positive")
	}
	if c.LLMTimeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be positive")
	}
	if c.MaxQuestions < 0 {
		return fmt.Errorf("MAX_QUESTIONS must not be negative")
	}
	if c.LLMTemperature < 0 || c.LLMTemperature > 2 {
		return fmt.Errorf("LLM_TEMPERATURE must be between 0 and 2")
	}

	origins := make([]string, 0, len(c.CORSAllowedOrigins))
	for _, origin := range c.CORSAllowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if strings.Contains(origin, "*") {
			return fmt.Errorf("CORS_ALLOWED_ORIGINS must list explicit origins, got '%s'", origin)
		}
		origins = append(origins, origin)
	}
	c.CORSAllowedOrigins = origins

	return nil
}
