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

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"keepsafe/internal/auth"
	"keepsafe/internal/blob"
	"keepsafe/internal/config"
	"keepsafe/internal/handler"
	"keepsafe/internal/httputil"
	"keepsafe/internal/middleware"
	"keepsafe/internal/repository/postgres"
	"keepsafe/internal/service/vault"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, 10)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// JWT verifier against the identity provider's JWKS endpoint
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// pgx connection pool
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

	// Object store for file blobs
	blobStore, err := blob.NewMinioStore(ctx, blob.Config{
		Endpoint:  cfg.BlobEndpoint,
		AccessKey: cfg.BlobAccessKey,
		SecretKey: cfg.BlobSecretKey,
		Bucket:    cfg.BlobBucket,
		UseTLS:    cfg.BlobUseTLS,
	}, logger)
	if err != nil {
		log.Fatalf("Failed to connect to object store: %v", err)
	}

	// Repositories
	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	folderRepo := postgres.NewFolderRepository(repoConfig)
	fileRepo := postgres.NewFileRepository(repoConfig)
	shareRepo := postgres.NewShareRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Services
	folderService := vault.NewFolderService(folderRepo, fileRepo, logger)
	treeService := vault.NewTreeService(folderRepo, fileRepo, blobStore, txManager, logger)
	uploadService := vault.NewUploadService(folderRepo, fileRepo, blobStore, logger)
	bulkService := vault.NewBulkService(folderRepo, fileRepo, blobStore, treeService, logger)
	shareService := vault.NewShareService(fileRepo, folderRepo, shareRepo, blobStore, logger)

	// Handlers
	folderHandler := handler.NewFolderHandler(folderService, logger)
	treeHandler := handler.NewTreeHandler(treeService, logger)
	uploadHandler := handler.NewUploadHandler(uploadService, logger)
	bulkHandler := handler.NewBulkHandler(bulkService, logger)
	shareHandler := handler.NewShareHandler(shareService, logger)

	logger.Info("services initialized")

	// HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Folder routes
	mux.HandleFunc("POST /api/folders", folderHandler.CreateFolder)
	mux.HandleFunc("GET /api/folders/{id}", folderHandler.GetFolder)
	mux.HandleFunc("GET /api/folders/{id}/contents", folderHandler.ListContents)
	mux.HandleFunc("GET /api/contents", folderHandler.ListContents) // root level
	mux.HandleFunc("PATCH /api/folders/{id}/color", folderHandler.SetColor)

	// Trash lifecycle
	mux.HandleFunc("GET /api/trash", treeHandler.ListTrash)
	mux.HandleFunc("POST /api/folders/{id}/trash", treeHandler.TrashFolder)
	mux.HandleFunc("POST /api/folders/{id}/restore", treeHandler.RestoreFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", treeHandler.PurgeFolder)
	mux.HandleFunc("POST /api/files/{id}/trash", treeHandler.TrashFile)
	mux.HandleFunc("POST /api/files/{id}/restore", treeHandler.RestoreFile)
	mux.HandleFunc("DELETE /api/files/{id}", treeHandler.PurgeFile)

	// Uploads
	mux.HandleFunc("POST /api/uploads", uploadHandler.Upload)

	// Bulk operations
	mux.HandleFunc("POST /api/bulk/trash", bulkHandler.Trash)
	mux.HandleFunc("POST /api/bulk/purge", bulkHandler.Purge)
	mux.HandleFunc("POST /api/bulk/download", bulkHandler.Download)
	mux.HandleFunc("POST /api/bulk/share", bulkHandler.Share)

	// Links and folder sharing
	mux.HandleFunc("GET /api/files/{id}/preview", shareHandler.PreviewLink)
	mux.HandleFunc("GET /api/files/{id}/download", shareHandler.DownloadLink)
	mux.HandleFunc("POST /api/files/{id}/share-link", shareHandler.ShareLink)
	mux.HandleFunc("POST /api/folders/{id}/shares", shareHandler.ShareFolder)
	mux.HandleFunc("GET /api/folders/{id}/shares", shareHandler.ListShares)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS -> Recovery -> Auth -> Routes
	root = middleware.Auth(jwtVerifier, logger)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // uploads can be slow
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
