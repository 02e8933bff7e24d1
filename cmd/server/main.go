package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"matterdesk/internal/chatbackend"
	"matterdesk/internal/config"
	"matterdesk/internal/filestore"
	"matterdesk/internal/handler"
	"matterdesk/internal/middleware"
	"matterdesk/internal/repository/postgres"
	"matterdesk/internal/service"

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

	logOutput := os.Stdout
	if dir := os.Getenv("LOG_DIR"); dir != "" {
		f, err := config.SetupLogFile(dir, 10)
		if err != nil {
			log.Fatalf("Failed to setup log file: %v", err)
		}
		defer f.Close()
		logOutput = f
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create repositories
	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	chatRepo := postgres.NewChatRepository(repoConfig)
	folderRepo := postgres.NewFolderRepository(repoConfig)

	// External providers
	filestoreClient := filestore.NewClient(cfg.FilestoreURL)
	chatBackend := chatbackend.NewClient(cfg.ChatBackendURL)

	// Create services
	folderService := service.NewFolderService(folderRepo, chatRepo, filestoreClient, logger)
	chatService := service.NewChatService(chatBackend, logger)
	listService := service.NewListService(chatRepo, folderRepo, logger)

	// Create handlers
	folderHandler := handler.NewFolderHandler(folderService, logger)
	chatHandler := handler.NewChatHandler(chatService, logger)
	listHandler := handler.NewListHandler(listService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", handler.HealthCheck)

	// Combined listing
	mux.HandleFunc("GET /list", listHandler.List)

	// Folder routes
	mux.HandleFunc("POST /folders", folderHandler.CreateFolder)
	mux.HandleFunc("PATCH /folders", folderHandler.UpdateFolder)
	mux.HandleFunc("DELETE /folders", folderHandler.DeleteFolder)

	// Chat routes
	mux.HandleFunc("POST /chats", chatHandler.CreateChat)
	mux.HandleFunc("GET /chats", chatHandler.ListChats)
	mux.HandleFunc("PATCH /chats", chatHandler.UpdateChat)
	mux.HandleFunc("DELETE /chat/{chatId}", chatHandler.DeleteChat)
	mux.HandleFunc("POST /chat/{chatId}/rename", chatHandler.RenameChat)
	mux.HandleFunc("POST /generate-name", chatHandler.GenerateName)

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Identity → Routes
	h = middleware.Identity(h)
	h = middleware.Recovery(logger)(h)

	// CORS - must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-Id"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
