package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/skdsam/image-scanner/internal/config"
	"github.com/skdsam/image-scanner/internal/logger"
	"github.com/skdsam/image-scanner/internal/server"
	"github.com/skdsam/image-scanner/internal/service"
	"github.com/skdsam/image-scanner/internal/transport"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const shutdownTimeout = 30 * time.Second

func main() {
	serveHTTP := false

	// Handle --version, --help and --http flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("image-scanner %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage()
			return
		case "--http":
			serveHTTP = true
		default:
			fmt.Fprintf(os.Stderr, "unknown option: %s\n\n", os.Args[1])
			printUsage()
			os.Exit(2)
		}
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load config")
	}
	logger.Configure(cfg.LogLevel, cfg.LogFormat)

	logger.WithFields(logrus.Fields{
		"version":    Version,
		"build_time": BuildTime,
		"commit":     GitCommit,
		"cache_dir":  cfg.CacheDir,
		"data_dir":   cfg.DataDir,
	}).Debug("Image scanner starting")

	scanner, err := service.New(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize scanner")
	}

	if serveHTTP {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		runHTTP(ctx, cfg, scanner)
		return
	}

	// The MCP client ends the session by closing stdin.
	srv := server.New(scanner, Version, cfg.RequestTimeout)
	if err := srv.Run(context.Background()); err != nil {
		logger.WithError(err).Fatal("Server error")
	}
}

func runHTTP(ctx context.Context, cfg *config.Config, scanner *service.Scanner) {
	httpServer := &http.Server{
		Addr:              cfg.ServerAddress(),
		Handler:           transport.NewHandler(scanner, Version, cfg.RequestTimeout),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.WithFields(logrus.Fields{
			"address": cfg.ServerAddress(),
			"timeout": cfg.RequestTimeout,
		}).Info("Starting HTTP server")

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Logger.Info("Server exited")
}

func printUsage() {
	fmt.Println("image-scanner - image metadata, thumbnail, focus and OCR engine")
	fmt.Println()
	fmt.Println("Usage: image-scanner [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println("  --http           Serve the JSON HTTP API instead of MCP over stdio")
	fmt.Println()
	fmt.Println("Environment variables (also read from .env):")
	fmt.Println("  IMAGE_SCANNER_LOG_LEVEL=debug|info|warn|error")
	fmt.Println("  IMAGE_SCANNER_LOG_FORMAT=text|json")
	fmt.Println("  IMAGE_SCANNER_CACHE_DIR, IMAGE_SCANNER_DATA_DIR")
	fmt.Println("  IMAGE_SCANNER_HTTP_HOST, IMAGE_SCANNER_HTTP_PORT")
	fmt.Println("  IMAGE_SCANNER_REQUEST_TIMEOUT, IMAGE_SCANNER_DOWNLOAD_TIMEOUT")
	fmt.Println("  IMAGE_SCANNER_MODEL_SOURCE=http|azure")
	fmt.Println("  IMAGE_SCANNER_AZURE_ACCOUNT, IMAGE_SCANNER_AZURE_KEY, IMAGE_SCANNER_AZURE_CONTAINER")
	fmt.Println("  IMAGE_SCANNER_OCR_LANGUAGE (default eng)")
	fmt.Println()
	fmt.Println("By default the scanner speaks MCP over stdin/stdout.")
}
