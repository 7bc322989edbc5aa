package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}

	if filepath.Base(cfg.CacheDir) != appDirName {
		t.Errorf("CacheDir: got %s, want suffix %s", cfg.CacheDir, appDirName)
	}
	if filepath.Base(cfg.DataDir) != appDirName {
		t.Errorf("DataDir: got %s, want suffix %s", cfg.DataDir, appDirName)
	}
	if cfg.ModelSource != ModelSourceHTTP {
		t.Errorf("ModelSource: got %s, want %s", cfg.ModelSource, ModelSourceHTTP)
	}
	if cfg.ServerAddress() != "127.0.0.1:7420" {
		t.Errorf("ServerAddress: got %s", cfg.ServerAddress())
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	cache := t.TempDir()
	data := t.TempDir()
	t.Setenv("IMAGE_SCANNER_CACHE_DIR", cache)
	t.Setenv("IMAGE_SCANNER_DATA_DIR", data)
	t.Setenv("IMAGE_SCANNER_HTTP_PORT", "9000")
	t.Setenv("IMAGE_SCANNER_DOWNLOAD_TIMEOUT", "30s")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}
	if cfg.CacheDir != cache || cfg.DataDir != data {
		t.Errorf("dirs: got %s, %s", cfg.CacheDir, cfg.DataDir)
	}
	if cfg.DownloadTimeout != 30*time.Second {
		t.Errorf("DownloadTimeout: got %s, want 30s", cfg.DownloadTimeout)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			CacheDir:        "/tmp/c",
			DataDir:         "/tmp/d",
			HTTPPort:        "7420",
			RequestTimeout:  time.Second,
			DownloadTimeout: time.Second,
			ModelSource:     ModelSourceHTTP,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"bad port", func(c *Config) { c.HTTPPort = "abc" }, true},
		{"port out of range", func(c *Config) { c.HTTPPort = "70000" }, true},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }, true},
		{"unknown source", func(c *Config) { c.ModelSource = "ftp" }, true},
		{"azure without creds", func(c *Config) { c.ModelSource = ModelSourceAzure }, true},
		{"azure with creds", func(c *Config) {
			c.ModelSource = ModelSourceAzure
			c.AzureAccountName = "acct"
			c.AzureAccountKey = "a2V5"
		}, false},
		{"missing cache dir", func(c *Config) { c.CacheDir = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate: got err=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}
