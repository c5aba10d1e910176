package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"santa-backend/cmd"
	"santa-backend/internal/api"
	"santa-backend/internal/config"
	"santa-backend/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	log.Println("Starting API Server...")

	cmd.LoadEnvFile()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	store, closeStore, err := cmd.CreateSessionStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open session store: %v", err)
	}
	defer closeStore() //nolint:errcheck

	gen, err := cmd.CreateGenerator(cfg)
	if err != nil {
		log.Fatalf("Failed to create generator: %v", err)
	}

	renderer, err := api.NewRenderer()
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	sessions := session.NewManager(store)
	cmd.StartPurger(ctx, sessions, cfg.SessionMaxAge, cfg.PurgeInterval)

	// --- Chi Router Setup ---
	r := chi.NewRouter()

	if corsHandler := cmd.CORSMiddleware(cfg.CORSAllowedOrigins); corsHandler != nil {
		r.Use(corsHandler)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// Leaves room for a full LLM call before the request is cut off.
	r.Use(middleware.Timeout(cfg.LLMTimeout + 10*time.Second))

	flow := api.NewFlowService(sessions, gen, renderer, api.FlowOptions{
		MaxQuestions:    cfg.MaxQuestions,
		CookieMaxAge:    cfg.SessionMaxAge,
		GenerateTimeout: cfg.LLMTimeout,
		EnableListing:   cfg.EnableSessionListing,
	})
	flow.AddRoutes(r)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Goroutine for graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")
		stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	log.Printf("API server listening on port %s", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %s: %v\n", cfg.Port, err)
	}

	log.Println("Server stopped.")
}
