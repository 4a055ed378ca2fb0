// Package main is the entry point for the upload gateway server
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/example/uploadgateway/internal/auth"
	"github.com/example/uploadgateway/internal/config"
	"github.com/example/uploadgateway/internal/handlers"
	"github.com/example/uploadgateway/internal/middleware"
	"github.com/example/uploadgateway/internal/storage"
	"github.com/example/uploadgateway/internal/upload"
)

var (
	configFile = flag.String("config", "uploadgateway.json", "Configuration file path")
	testConfig = flag.Bool("test-config", false, "Test configuration and exit")
	verbose    = flag.Bool("verbose", false, "Enable debug logging")
	version    = "1.0.0"
)

func main() {
	flag.Parse()

	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level}))
	slog.SetDefault(logger)

	settings, err := config.Load(*configFile)
	if err != nil {
		logger.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}

	if *testConfig {
		fmt.Println("Configuration test successful")
		return
	}

	logger.Info("starting upload gateway",
		"version", version,
		"provider", settings.Storage.Provider,
		"bucket", settings.Storage.Bucket)

	store, err := storage.CreateProvider(settings.Storage.Provider, settings.ProviderConfig())
	if err != nil {
		logger.Error("failed to initialize object store", "err", err)
		os.Exit(1)
	}

	fetcher := upload.NewHTTPFetcher(time.Duration(settings.Upload.FetchTimeoutSeconds) * time.Second)
	svc := upload.NewService(store, fetcher, logger, settings.Upload.Fanout)
	uploadHandler := handlers.NewUploadHandler(svc, logger)

	router := mux.NewRouter()
	router.HandleFunc("/", handlers.Root).Methods(http.MethodGet)
	router.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)

	uploads := router.PathPrefix("/upload/oaas").Subrouter()
	uploads.HandleFunc("/folder", uploadHandler.UploadFolder).Methods(http.MethodPost)
	uploads.HandleFunc("/files", uploadHandler.UploadFiles).Methods(http.MethodPost)
	uploads.HandleFunc("/files/v2", uploadHandler.UploadProductBytes).Methods(http.MethodPost)

	if settings.Auth.Enabled {
		verifier := auth.NewVerifier(
			settings.Auth.JWTSecret,
			settings.Auth.JWTAlgorithm,
			settings.Auth.ServiceID,
		)
		uploads.Use(verifier.Middleware)
		logger.Info("bearer authentication enabled", "algorithm", settings.Auth.JWTAlgorithm)
	} else {
		logger.Warn("bearer authentication disabled")
	}

	handler := middleware.Chain(
		router,
		middleware.Logger(logger),
		middleware.Recover(logger),
		middleware.CORS(settings.Server.AllowedOrigins),
		middleware.RequestID(),
	)

	server := &http.Server{
		Addr:    settings.Address(),
		Handler: handler,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server listening", "addr", settings.Address())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	<-stop
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(settings.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "err", err)
	}
	logger.Info("server shutdown complete")
}
