package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"chat-backend/cmd"
	"chat-backend/internal/api"
	"chat-backend/internal/sentiment"
)

type PredictorConfig struct {
	Port string `env:"PREDICTOR_PORT" envDefault:"8000"`

	// Optional YAML file of phrase overrides applied by /predictes.
	OverridesPath string `env:"SENTIMENT_OVERRIDES_PATH"`
}

type predictRequest struct {
	Text     string `json:"text"`
	FileName string `json:"file_name,omitempty"`
	FileType string `json:"file_type,omitempty"`
	HasFile  bool   `json:"has_file,omitempty"`
}

type predictResponse struct {
	Sentiment string  `json:"sentiment"`
	Score     float64 `json:"score"`
}

func main() {
	log.Println("Starting sentiment prediction server...")

	cmd.LoadEnvFile()

	var cfg PredictorConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	overrides := sentiment.DefaultOverrides
	if cfg.OverridesPath != "" {
		loaded, err := sentiment.LoadOverrides(cfg.OverridesPath)
		if err != nil {
			log.Fatalf("error loading sentiment overrides: %v", err)
		}
		overrides = loaded
		log.Printf("loaded %d sentiment overrides from %s", len(loaded), cfg.OverridesPath)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/health", api.RestHandler(func(r *http.Request) (any, error) { return nil, nil }))

	// Plain lexicon scoring.
	r.Post("/predict", api.RestHandler(func(r *http.Request) (any, error) {
		req, err := api.ParseRequest[predictRequest](r)
		if err != nil {
			return nil, err
		}

		label, score := sentiment.Analyze(req.Text)
		return predictResponse{Sentiment: label, Score: score}, nil
	}))

	// Scoring with phrase overrides applied first.
	r.Post("/predictes", api.RestHandler(func(r *http.Request) (any, error) {
		req, err := api.ParseRequest[predictRequest](r)
		if err != nil {
			return nil, err
		}

		label, score := sentiment.AnalyzeWithOverrides(req.Text, overrides)
		return predictResponse{Sentiment: label, Score: score}, nil
	}))

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down prediction server...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	log.Printf("prediction server listening on port %s", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %s: %v\n", cfg.Port, err)
	}

	log.Println("Server stopped.")
}
