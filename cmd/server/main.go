package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cypress/internal/auth"
	"cypress/internal/config"
	"cypress/internal/handler"
	"cypress/internal/middleware"
	"cypress/internal/realtime"
	"cypress/internal/repository/postgres"
	"cypress/internal/service"
	"cypress/internal/storage"
	"cypress/internal/sync"

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
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if dir := os.Getenv("LOG_DIR"); dir != "" {
		f, err := config.SetupLogFile(dir, 10)
		if err != nil {
			log.Fatalf("Failed to setup log file: %v", err)
		}
		defer f.Close()
		logOut = io.MultiWriter(os.Stdout, f)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
		"debounce_delay", cfg.DebounceDelay.String(),
	)

	// Create JWT verifier for Supabase authentication
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	workspaceRepo := postgres.NewWorkspaceRepository(repoConfig)
	folderRepo := postgres.NewFolderRepository(repoConfig)
	fileRepo := postgres.NewFileRepository(repoConfig)
	collaboratorRepo := postgres.NewCollaboratorRepository(repoConfig)
	userRepo := postgres.NewUserRepository(repoConfig)
	subscriptionRepo := postgres.NewSubscriptionRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Per-user sync sessions: each authenticated user gets their own state
	// store, so one caller never reads another's tree.
	notifier := &sync.LogNotifier{Logger: logger}
	sessions := sync.NewSessions(
		workspaceRepo,
		folderRepo,
		fileRepo,
		collaboratorRepo,
		txManager,
		notifier,
		cfg.DebounceDelay,
		logger,
	)
	defer sessions.Close()

	// Services
	workspaceService := service.NewWorkspaceService(workspaceRepo, collaboratorRepo, logger)
	accountService := service.NewAccountService(subscriptionRepo, userRepo, logger)
	resolver := storage.NewSupabaseResolver(cfg.StoragePublicURL)

	// Presence hub
	hub := realtime.NewHub(logger)
	go hub.Run()
	defer hub.Shutdown()

	// Handlers
	workspaceHandler := handler.NewWorkspaceHandler(sessions, workspaceService, resolver, logger)
	folderHandler := handler.NewFolderHandler(sessions, workspaceService, accountService, logger)
	fileHandler := handler.NewFileHandler(sessions, workspaceService, logger)
	collaboratorHandler := handler.NewCollaboratorHandler(sessions, workspaceService, accountService, logger)
	treeHandler := handler.NewTreeHandler(sessions, workspaceService, logger)
	accountHandler := handler.NewAccountHandler(accountService, logger)
	presenceHandler := realtime.NewHandler(hub, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", handler.HealthCheck)

	// Workspace routes
	mux.HandleFunc("GET /api/workspaces", workspaceHandler.ListWorkspaces)
	mux.HandleFunc("POST /api/workspaces", workspaceHandler.CreateWorkspace)
	mux.HandleFunc("GET /api/workspaces/{id}", workspaceHandler.GetWorkspace)
	mux.HandleFunc("PATCH /api/workspaces/{id}", workspaceHandler.UpdateWorkspace)
	mux.HandleFunc("DELETE /api/workspaces/{id}", workspaceHandler.DeleteWorkspace)

	// Folder routes
	mux.HandleFunc("POST /api/workspaces/{id}/folders", folderHandler.CreateFolder)
	mux.HandleFunc("PATCH /api/workspaces/{id}/folders/{folderID}", folderHandler.UpdateFolder)
	mux.HandleFunc("DELETE /api/workspaces/{id}/folders/{folderID}", folderHandler.DeleteFolder)
	mux.HandleFunc("POST /api/workspaces/{id}/folders/{folderID}/trash", folderHandler.TrashFolder)
	mux.HandleFunc("POST /api/workspaces/{id}/folders/{folderID}/restore", folderHandler.RestoreFolder)

	// File routes
	mux.HandleFunc("POST /api/workspaces/{id}/folders/{folderID}/files", fileHandler.CreateFile)
	mux.HandleFunc("PATCH /api/workspaces/{id}/folders/{folderID}/files/{fileID}", fileHandler.UpdateFile)
	mux.HandleFunc("DELETE /api/workspaces/{id}/folders/{folderID}/files/{fileID}", fileHandler.DeleteFile)
	mux.HandleFunc("POST /api/workspaces/{id}/folders/{folderID}/files/{fileID}/trash", fileHandler.TrashFile)
	mux.HandleFunc("POST /api/workspaces/{id}/folders/{folderID}/files/{fileID}/restore", fileHandler.RestoreFile)

	// Collaborator routes
	mux.HandleFunc("GET /api/workspaces/{id}/collaborators", collaboratorHandler.ListCollaborators)
	mux.HandleFunc("POST /api/workspaces/{id}/collaborators", collaboratorHandler.AddCollaborator)
	mux.HandleFunc("DELETE /api/workspaces/{id}/collaborators/{userID}", collaboratorHandler.RemoveCollaborator)
	mux.HandleFunc("GET /api/users/search", collaboratorHandler.SearchUsers)

	// Tree and view routes
	mux.HandleFunc("GET /api/tree", treeHandler.GetTree)
	mux.HandleFunc("POST /api/tree/load", treeHandler.LoadTree)
	mux.HandleFunc("PUT /api/tree/focus", treeHandler.SetFocus)
	mux.HandleFunc("GET /api/breadcrumbs", treeHandler.GetBreadcrumbs)
	mux.HandleFunc("GET /api/workspaces/{id}/trash", treeHandler.GetTrash)

	// Account routes
	mux.HandleFunc("GET /api/account/plan", accountHandler.GetPlan)

	// Presence channel
	mux.HandleFunc("GET /api/realtime", presenceHandler.HandleConnection)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	root = middleware.Auth(jwtVerifier)(root)
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
		WriteTimeout: 0, // Disabled to allow long-lived WebSocket connections
		IdleTimeout:  60 * time.Second,
	}

	// Shut down on SIGINT/SIGTERM so pending persists get flushed
	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop

		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}

	// The deferred sessions.Close flushes pending debounced edits and waits
	// for in-flight persistence across every user session.
	logger.Info("server stopped")
}
