package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const appDirName = "image-scanner"

// Model sources understood by the provisioner.
const (
	ModelSourceHTTP  = "http"
	ModelSourceAzure = "azure"
)

// Config carries everything the scanner needs from its host. The two
// directories are handed to the core explicitly; nothing below this package
// looks them up on its own.
type Config struct {
	// CacheDir holds derived artifacts (thumbnails, heatmaps) keyed by hash.
	CacheDir string
	// DataDir holds the downloaded OCR model files.
	DataDir string

	LogLevel  string
	LogFormat string

	HTTPHost       string
	HTTPPort       string
	RequestTimeout time.Duration

	DownloadTimeout  time.Duration
	ModelSource      string
	AzureAccountName string
	AzureAccountKey  string
	AzureContainer   string

	OCRLanguage string
}

// ServerAddress returns host:port for the HTTP transport.
func (c *Config) ServerAddress() string {
	return net.JoinHostPort(strings.TrimSpace(c.HTTPHost), strings.TrimSpace(c.HTTPPort))
}

// LoadFromEnv reads an optional .env file, then the IMAGE_SCANNER_* environment.
func LoadFromEnv() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cacheDefault, err := defaultDir(os.UserCacheDir)
	if err != nil {
		return nil, err
	}
	dataDefault, err := defaultDir(os.UserConfigDir)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		CacheDir:         getEnvOrDefault("IMAGE_SCANNER_CACHE_DIR", cacheDefault),
		DataDir:          getEnvOrDefault("IMAGE_SCANNER_DATA_DIR", dataDefault),
		LogLevel:         getEnvOrDefault("IMAGE_SCANNER_LOG_LEVEL", "info"),
		LogFormat:        getEnvOrDefault("IMAGE_SCANNER_LOG_FORMAT", "text"),
		HTTPHost:         getEnvOrDefault("IMAGE_SCANNER_HTTP_HOST", "127.0.0.1"),
		HTTPPort:         getEnvOrDefault("IMAGE_SCANNER_HTTP_PORT", "7420"),
		RequestTimeout:   parseDurationOrDefault("IMAGE_SCANNER_REQUEST_TIMEOUT", 2*time.Minute),
		DownloadTimeout:  parseDurationOrDefault("IMAGE_SCANNER_DOWNLOAD_TIMEOUT", 10*time.Minute),
		ModelSource:      getEnvOrDefault("IMAGE_SCANNER_MODEL_SOURCE", ModelSourceHTTP),
		AzureAccountName: os.Getenv("IMAGE_SCANNER_AZURE_ACCOUNT"),
		AzureAccountKey:  os.Getenv("IMAGE_SCANNER_AZURE_KEY"),
		AzureContainer:   getEnvOrDefault("IMAGE_SCANNER_AZURE_CONTAINER", "ocr-models"),
		OCRLanguage:      getEnvOrDefault("IMAGE_SCANNER_OCR_LANGUAGE", "eng"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field ranges and cross-field requirements.
func (c *Config) Validate() error {
	if c.CacheDir == "" || c.DataDir == "" {
		return fmt.Errorf("cache and data directories must be set")
	}
	p, err := strconv.Atoi(strings.TrimSpace(c.HTTPPort))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid IMAGE_SCANNER_HTTP_PORT: %q", c.HTTPPort)
	}
	if c.RequestTimeout <= 0 || c.DownloadTimeout <= 0 {
		return fmt.Errorf("timeouts must be > 0 (got request=%s, download=%s)", c.RequestTimeout, c.DownloadTimeout)
	}
	switch c.ModelSource {
	case ModelSourceHTTP:
	case ModelSourceAzure:
		if c.AzureAccountName == "" || c.AzureAccountKey == "" {
			return fmt.Errorf("azure model source requires IMAGE_SCANNER_AZURE_ACCOUNT and IMAGE_SCANNER_AZURE_KEY")
		}
	default:
		return fmt.Errorf("unknown IMAGE_SCANNER_MODEL_SOURCE: %q", c.ModelSource)
	}
	return nil
}

func defaultDir(base func() (string, error)) (string, error) {
	dir, err := base()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user directory: %w", err)
	}
	return filepath.Join(dir, appDirName), nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}
