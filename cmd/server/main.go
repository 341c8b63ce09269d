package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"promptdeck/internal/auth"
	"promptdeck/internal/catalog"
	"promptdeck/internal/config"
	"promptdeck/internal/dispatch"
	"promptdeck/internal/domain/repositories"
	"promptdeck/internal/handler"
	"promptdeck/internal/middleware"
	"promptdeck/internal/provider"
	"promptdeck/internal/repository/memory"
	"promptdeck/internal/repository/postgres"
	"promptdeck/internal/service/workspace"
	"promptdeck/internal/upload"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOutput io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, 10)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer logFile.Close()
		logOutput = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"default_model", cfg.DefaultModel,
	)

	// Token verification: external JWKS when configured, local HMAC otherwise
	var verifier auth.TokenVerifier
	if cfg.AuthJWKSURL != "" {
		jwksVerifier, err := auth.NewJWKSVerifier(cfg.AuthJWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWKS verifier: %v", err)
		}
		verifier = jwksVerifier
	} else {
		if cfg.Environment == "prod" && cfg.JWTSecret == "your-secret-key-change-in-production" {
			logger.Warn("JWT_SECRET is unset in production; tokens are signed with the default secret")
		}
		verifier = auth.NewHMACVerifier(cfg.JWTSecret, logger)
	}
	defer verifier.Close()

	// Account storage: Postgres when configured, process memory otherwise
	var userRepo repositories.UserRepository
	if cfg.DatabaseURL != "" {
		ctx := context.Background()
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to create connection pool: %v", err)
		}
		defer pool.Close()
		logger.Info("database connected", "max_conns", 25, "min_conns", 5)
		userRepo = postgres.NewUserRepository(pool, logger)
	} else {
		logger.Info("no DATABASE_URL set; accounts are stored in process memory")
		userRepo = memory.NewUserRepository()
	}

	// Services
	authService := auth.NewService(userRepo, auth.NewIssuer(cfg.JWTSecret), logger)
	workspaces := workspace.NewManager(cfg.DefaultModel, logger)
	providerRegistry := provider.Setup(cfg, logger)
	dispatcher := dispatch.New(providerRegistry, logger)

	catalogRegistry, err := catalog.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load model catalog: %v", err)
	}
	logger.Info("model catalog loaded", "models", len(catalogRegistry.Models()))

	uploadService, err := upload.NewService(cfg.UploadDir, logger)
	if err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}

	// Handlers
	authHandler := handler.NewAuthHandler(authService, verifier, logger)
	sessionHandler := handler.NewSessionHandler(workspaces, logger)
	messageHandler := handler.NewMessageHandler(workspaces, logger)
	completionHandler := handler.NewCompletionHandler(workspaces, dispatcher, logger)
	paramsHandler := handler.NewParamsHandler(workspaces, logger)
	exportHandler := handler.NewExportHandler(workspaces, logger)
	catalogHandler := handler.NewCatalogHandler(catalogRegistry, logger)
	uploadHandler := handler.NewUploadHandler(uploadService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", handler.HealthCheck)

	// Auth routes (public)
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/auth/verify", authHandler.Verify)

	// Session routes
	mux.HandleFunc("GET /api/sessions", sessionHandler.ListSessions)
	mux.HandleFunc("POST /api/sessions", sessionHandler.CreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", sessionHandler.GetSession)
	mux.HandleFunc("PATCH /api/sessions/{id}", sessionHandler.RenameSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", sessionHandler.DeleteSession)
	mux.HandleFunc("POST /api/sessions/{id}/activate", sessionHandler.ActivateSession)
	mux.HandleFunc("GET /api/sessions/{id}/export", exportHandler.ExportSession)

	// Message routes on the current session
	mux.HandleFunc("POST /api/messages", messageHandler.AddMessage)
	mux.HandleFunc("DELETE /api/messages", messageHandler.ClearMessages)
	mux.HandleFunc("DELETE /api/messages/edit", messageHandler.CancelEditing) // Must come before {id} route
	mux.HandleFunc("PATCH /api/messages/{id}", messageHandler.UpdateMessage)
	mux.HandleFunc("POST /api/messages/{id}/edit", messageHandler.StartEditing)

	// Completion route
	mux.HandleFunc("POST /api/complete", completionHandler.Complete)

	// Parameter routes
	mux.HandleFunc("GET /api/parameters", paramsHandler.GetParameters)
	mux.HandleFunc("PATCH /api/parameters", paramsHandler.UpdateParameters)
	mux.HandleFunc("POST /api/parameters/preset", paramsHandler.ApplyPreset)

	// Catalog routes
	mux.HandleFunc("GET /api/models", catalogHandler.ListModels)
	mux.HandleFunc("GET /api/templates", catalogHandler.ListTemplates)

	// Upload route
	mux.HandleFunc("POST /api/upload", uploadHandler.Upload)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	root = middleware.Auth(verifier, logger)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // completions can take a while
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
