package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"santa-backend/internal/config"
	"santa-backend/internal/database"
	"santa-backend/internal/generator"
	"santa-backend/internal/session"

	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func LoadEnvFile() {
	var configPath string

	flag.StringVar(&configPath, "env", "", "path to load env from")
	flag.Parse()

	if configPath == "" {
		log.Printf("no env file specified, using os.Environ only")
		return
	}

	log.Printf("loading env from file %s", configPath)
	err := godotenv.Load(configPath)
	if err != nil {
		log.Fatalf("error loading .env file '%s': %v", configPath, err)
	}
}

// CreateSessionStore opens the backend selected by SESSION_STORE. The returned
// closer releases the underlying connection.
func CreateSessionStore(ctx context.Context, cfg *config.Config) (session.Store, func() error, error) {
	switch cfg.SessionStore {
	case config.StoreDatabase:
		db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("unable to access database handle: %w", err)
		}
		return session.NewGormStore(db), sqlDB.Close, nil

	case config.StoreRedis:
		client, err := session.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisStore(client, cfg.SessionMaxAge), client.Close, nil

	case config.StoreMemory:
		slog.Warn("using in-memory session store, sessions are lost on restart")
		return session.NewMemoryStore(), func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported session store '%s'", cfg.SessionStore)
	}
}

func CreateGenerator(cfg *config.Config) (generator.Generator, error) {
	switch cfg.LLMProvider {
	case generator.ProviderOpenAI:
		return generator.NewOpenAI(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.LLMTemperature), nil
	case generator.ProviderLangChain:
		return generator.NewLangChain(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.LLMTemperature)
	case generator.ProviderStatic:
		slog.Warn("using static generator, questions and suggestions are canned")
		return generator.Static{}, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider '%s'", cfg.LLMProvider)
	}
}

// CORSMiddleware allows credentialed requests from the listed origins only.
// It returns nil when no origins are configured.
func CORSMiddleware(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		return nil
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// StartPurger deletes expired sessions every interval until ctx is done.
func StartPurger(ctx context.Context, sessions *session.Manager, maxAge, interval time.Duration) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := sessions.PurgeExpired(ctx, maxAge)
				if err != nil {
					slog.Error("error purging expired sessions", "error", err)
					continue
				}
				if n > 0 {
					slog.Info("purged expired sessions", "count", n)
				}
			}
		}
	}()
}
