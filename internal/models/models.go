// Package models provisions the OCR model files on local disk.
//
// A Provisioner knows a fixed catalog of named assets. Ensure fetches any
// asset whose file is missing from the models directory and returns the
// local paths; files already present are never re-fetched or re-validated.
package models

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	apperrors "github.com/skdsam/image-scanner/internal/errors"
	"github.com/skdsam/image-scanner/internal/fsutil"
	"github.com/skdsam/image-scanner/internal/logger"
)

// Asset names understood by the OCR pipeline.
const (
	TextDetection   = "text-detection"
	TextRecognition = "text-recognition"
)

// Asset is one named model file and where to get it.
type Asset struct {
	Name string
	// File is the base name under the models directory. Tesseract resolves
	// models by "<language>.traineddata", so the name matters.
	File string
	URL  string
	// SHA256 is the expected lowercase hex digest. Empty skips verification.
	SHA256 string
}

// DefaultAssets is the built-in catalog.
var DefaultAssets = []Asset{
	{
		Name: TextDetection,
		File: "osd.traineddata",
		URL:  tessdataBaseURL + "osd.traineddata",
	},
	{
		Name: TextRecognition,
		File: "eng.traineddata",
		URL:  tessdataBaseURL + "eng.traineddata",
	},
}

// tessdataBaseURL hosts the fast Tesseract models.
const tessdataBaseURL = "https://github.com/tesseract-ocr/tessdata_fast/raw/main/"

// AssetsForLanguage returns DefaultAssets with the recognition model swapped
// for the given Tesseract language code. "" and "eng" return the defaults.
func AssetsForLanguage(lang string) []Asset {
	assets := make([]Asset, len(DefaultAssets))
	copy(assets, DefaultAssets)
	if lang == "" || lang == "eng" {
		return assets
	}
	for i := range assets {
		if assets[i].Name == TextRecognition {
			assets[i].File = lang + ".traineddata"
			assets[i].URL = tessdataBaseURL + assets[i].File
			assets[i].SHA256 = ""
		}
	}
	return assets
}

// Fetcher retrieves the bytes behind a model URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Provisioner makes catalog assets present under a directory.
type Provisioner struct {
	dir     string
	fetcher Fetcher
	assets  map[string]Asset
}

// NewProvisioner creates a provisioner writing into dir. With no assets the
// DefaultAssets catalog is used.
func NewProvisioner(dir string, fetcher Fetcher, assets ...Asset) *Provisioner {
	if len(assets) == 0 {
		assets = DefaultAssets
	}
	catalog := make(map[string]Asset, len(assets))
	for _, a := range assets {
		catalog[a.Name] = a
	}
	return &Provisioner{dir: dir, fetcher: fetcher, assets: catalog}
}

// Dir returns the models directory.
func (p *Provisioner) Dir() string {
	return p.dir
}

// Path returns where the named asset lives, whether or not it exists yet.
func (p *Provisioner) Path(name string) (string, bool) {
	a, ok := p.assets[name]
	if !ok {
		return "", false
	}
	return filepath.Join(p.dir, a.File), true
}

// Ensure makes every named asset present and returns their local paths in
// the order requested. It is idempotent.
//
// # Errors
//
//   - IO error if the directory cannot be created or the file cannot be written
//   - Download error if a name is not in the catalog, the fetch fails, or the
//     fetched bytes do not match the asset's checksum
//
// Nothing is written for an asset whose fetch or verification fails. A single
// attempt is made per asset; assets fetched before a failure stay on disk.
func (p *Provisioner) Ensure(ctx context.Context, names ...string) ([]string, error) {
	if err := os.MkdirAll(p.dir, 0755); err != nil {
		return nil, apperrors.NewIOError("failed to create models directory", err)
	}

	paths := make([]string, 0, len(names))
	for _, name := range names {
		asset, ok := p.assets[name]
		if !ok {
			return nil, apperrors.NewDownloadError(fmt.Sprintf("unknown model %q", name), nil)
		}

		path := filepath.Join(p.dir, asset.File)
		exists, err := fsutil.Exists(path)
		if err != nil {
			return nil, apperrors.NewIOError("failed to check model file", err)
		}
		if !exists {
			if err := p.download(ctx, asset, path); err != nil {
				return nil, err
			}
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (p *Provisioner) download(ctx context.Context, asset Asset, path string) error {
	log := logger.WithFields(logrus.Fields{
		"model": asset.Name,
		"url":   asset.URL,
	})
	log.Info("Downloading model")
	start := time.Now()

	data, err := p.fetcher.Fetch(ctx, asset.URL)
	if err != nil {
		return apperrors.NewDownloadError(fmt.Sprintf("failed to download %s", asset.Name), err)
	}

	if err := verify(asset, data); err != nil {
		return err
	}

	if err := fsutil.WriteFileAtomic(path, data, 0644); err != nil {
		return apperrors.NewIOError(fmt.Sprintf("failed to save %s", asset.Name), err)
	}

	log.WithFields(logrus.Fields{
		"bytes":    len(data),
		"duration": time.Since(start).String(),
	}).Info("Model downloaded")
	return nil
}

func verify(asset Asset, data []byte) error {
	if asset.SHA256 == "" {
		return nil
	}
	sum := sha256.Sum256(data)
	got := hex.EncodeToString(sum[:])
	if !strings.EqualFold(got, asset.SHA256) {
		return apperrors.NewDownloadError(
			fmt.Sprintf("checksum mismatch for %s: got %s, want %s", asset.Name, got, asset.SHA256), nil)
	}
	return nil
}
