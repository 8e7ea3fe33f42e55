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
	"github.com/go-chi/cors"

	"chat-backend/cmd"
	"chat-backend/internal/api"
	"chat-backend/internal/auth"
	"chat-backend/internal/database"
	"chat-backend/internal/inference"
	"chat-backend/internal/messaging"
	"chat-backend/internal/realtime"
	"chat-backend/internal/storage"
)

type APIConfig struct {
	DatabaseURL string `env:"DATABASE_URL,notEmpty,required"`
	APIPort     string `env:"API_PORT" envDefault:"8080"`

	JWTSecret string        `env:"JWT_SECRET,notEmpty,required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	RedisURL  string        `env:"REDIS_URL"`

	// Empty RabbitMQURL selects the in-process queue, which is fine for a
	// single replica.
	RabbitMQURL string `env:"RABBITMQ_URL"`

	StorageDir        string `env:"STORAGE_DIR" envDefault:"./data/attachments"`
	S3EndpointURL     string `env:"S3_ENDPOINT_URL"`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	S3Region          string `env:"AWS_REGION"`
	AttachmentBucket  string `env:"ATTACHMENT_BUCKET_NAME"`

	GatewayBaseURL string `env:"GATEWAY_BASE_URL"`
	GatewayAPIKey  string `env:"GATEWAY_API_KEY"`
	GatewayModel   string `env:"GATEWAY_MODEL" envDefault:"gpt-4o-mini"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*"`
}

func main() {
	log.Println("Starting chat API server...")

	cmd.LoadEnvFile()

	var cfg APIConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	db, err := database.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	objects, err := createObjectStore(cfg)
	if err != nil {
		log.Fatalf("Failed to create object store: %v", err)
	}

	publisher, receiver, err := createQueue(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to message queue: %v", err)
	}
	defer publisher.Close()

	revoker, err := createRevoker(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)

	hub := realtime.NewHub()
	go hub.Run()
	defer hub.Shutdown()

	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	defer stopDispatcher()
	go realtime.NewDispatcher(receiver, hub).Run(dispatcherCtx)

	gateway := inference.NewGateway(cfg.GatewayBaseURL, cfg.GatewayAPIKey, cfg.GatewayModel)

	// --- Chi Router Setup ---
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300, // Cache preflight response for 5 minutes
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	authHandler := api.NewAuthService(db, tokens, revoker)
	chatHandler := api.NewChatService(db, publisher, objects)
	attachmentHandler := api.NewAttachmentService(chatHandler, objects)
	feedHandler := api.NewFeedService(chatHandler, hub)
	gatewayHandler := api.NewGatewayService(gateway)
	analysisHandler := api.NewAnalysisService()

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", api.RestHandler(func(r *http.Request) (any, error) { return nil, nil }))

		authHandler.AddPublicRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(tokens, revoker))

			authHandler.AddRoutes(r)
			chatHandler.AddRoutes(r)
			attachmentHandler.AddRoutes(r)
			feedHandler.AddRoutes(r)
			gatewayHandler.AddRoutes(r)
			analysisHandler.AddRoutes(r)
		})
	})

	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: r,
	}

	// Goroutine for graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	log.Printf("API server listening on port %s", cfg.APIPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
	}

	log.Println("Server stopped.")
}

func createObjectStore(cfg APIConfig) (storage.ObjectStore, error) {
	if cfg.AttachmentBucket != "" {
		return storage.NewS3ObjectStore(context.Background(), storage.S3ClientConfig{
			Endpoint:        cfg.S3EndpointURL,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		}, cfg.AttachmentBucket)
	}
	return storage.NewLocalObjectStore(cfg.StorageDir)
}

func createQueue(cfg APIConfig) (messaging.Publisher, messaging.Receiver, error) {
	if cfg.RabbitMQURL == "" {
		queue := messaging.NewInMemoryQueue()
		return queue, queue, nil
	}

	publisher, err := messaging.NewRabbitMQPublisher(cfg.RabbitMQURL)
	if err != nil {
		return nil, nil, err
	}
	receiver, err := messaging.NewRabbitMQReceiver(cfg.RabbitMQURL)
	if err != nil {
		publisher.Close()
		return nil, nil, err
	}
	return publisher, receiver, nil
}

func createRevoker(cfg APIConfig) (auth.Revoker, error) {
	if cfg.RedisURL == "" {
		return auth.NewMemoryRevoker(), nil
	}
	return auth.NewRedisRevoker(context.Background(), cfg.RedisURL)
}
