// Package service wires the scanner's components behind one facade. Both
// transports call into a *Scanner and nothing else.
package service

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/skdsam/image-scanner/internal/cache"
	"github.com/skdsam/image-scanner/internal/catalog"
	"github.com/skdsam/image-scanner/internal/config"
	"github.com/skdsam/image-scanner/internal/imaging"
	"github.com/skdsam/image-scanner/internal/logger"
	"github.com/skdsam/image-scanner/internal/models"
	"github.com/skdsam/image-scanner/internal/ocr"
	"github.com/skdsam/image-scanner/internal/reveal"
	"github.com/skdsam/image-scanner/internal/storage"
)

// modelsSubdir is where model files live under the data directory.
const modelsSubdir = "models"

// Revealer shows a path in the platform file manager.
type Revealer interface {
	Open(path string) error
}

// Scanner is the boundary of the image scanner. Every method is synchronous
// and keeps no per-call state, so one Scanner serves concurrent callers.
type Scanner struct {
	cache    *cache.Store
	ocr      *ocr.Pipeline
	revealer Revealer
}

// New builds a Scanner from cfg, choosing the model fetcher by
// cfg.ModelSource.
func New(cfg *config.Config) (*Scanner, error) {
	var fetcher models.Fetcher
	switch cfg.ModelSource {
	case config.ModelSourceAzure:
		f, err := storage.NewAzureBlobFetcher(cfg.AzureAccountName, cfg.AzureAccountKey, cfg.AzureContainer)
		if err != nil {
			return nil, fmt.Errorf("failed to create azure fetcher: %w", err)
		}
		fetcher = f
	default:
		fetcher = storage.NewHTTPFetcher(cfg.DownloadTimeout)
	}

	provisioner := models.NewProvisioner(
		filepath.Join(cfg.DataDir, modelsSubdir),
		fetcher,
		models.AssetsForLanguage(cfg.OCRLanguage)...,
	)

	logger.WithFields(logrus.Fields{
		"cache_dir":    cfg.CacheDir,
		"models_dir":   provisioner.Dir(),
		"model_source": cfg.ModelSource,
		"ocr_language": cfg.OCRLanguage,
	}).Debug("Scanner configured")

	return NewWithDeps(
		cache.New(cfg.CacheDir),
		ocr.NewPipeline(provisioner, ocr.NewTesseractEngine),
		reveal.New(),
	), nil
}

// NewWithDeps assembles a Scanner from ready-made parts.
func NewWithDeps(store *cache.Store, pipeline *ocr.Pipeline, revealer Revealer) *Scanner {
	return &Scanner{cache: store, ocr: pipeline, revealer: revealer}
}

// ExtractMetadata returns the full record for one image.
func (s *Scanner) ExtractMetadata(path string) (*imaging.ImageRecord, error) {
	return imaging.Extract(path)
}

// ListImages lists image files under dir.
func (s *Scanner) ListImages(dir string, recursive bool) ([]catalog.Entry, error) {
	return catalog.List(dir, recursive)
}

// FilterImages lists dir and keeps entries matching query and format.
func (s *Scanner) FilterImages(dir string, recursive bool, query, format string) ([]catalog.Entry, error) {
	entries, err := catalog.List(dir, recursive)
	if err != nil {
		return nil, err
	}
	return catalog.Filter(entries, query, format), nil
}

// Thumbnail returns the cached JPEG thumbnail for path, building it on a miss.
func (s *Scanner) Thumbnail(path string) (string, error) {
	return s.cache.GetOrCreate(path, cache.PurposeThumbnail, "jpg", func() ([]byte, error) {
		img, _, err := imaging.Open(path)
		if err != nil {
			return nil, err
		}
		return imaging.Thumbnail(img)
	})
}

// FocusHeatmap returns the cached PNG focus overlay for path, building it on
// a miss.
func (s *Scanner) FocusHeatmap(path string) (string, error) {
	return s.cache.GetOrCreate(path, cache.PurposeHeatmap, "png", func() ([]byte, error) {
		img, _, err := imaging.Open(path)
		if err != nil {
			return nil, err
		}
		return imaging.FocusHeatmapPNG(img)
	})
}

// FocusScore returns the Laplacian variance of the image at path.
func (s *Scanner) FocusScore(path string) (float64, error) {
	img, _, err := imaging.Open(path)
	if err != nil {
		return 0, err
	}
	return imaging.FocusScore(img), nil
}

// Transform rewrites the file at path in place. Cached artifacts for path
// are not invalidated.
func (s *Scanner) Transform(path, action string) error {
	if err := imaging.TransformFile(path, action); err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{"path": path, "action": action}).Info("Image transformed")
	return nil
}

// RecognizeText runs OCR on the image at path, provisioning models first.
func (s *Scanner) RecognizeText(ctx context.Context, path string) (string, error) {
	return s.ocr.RecognizeText(ctx, path)
}

// OpenContainingLocation reveals path in the platform file manager.
func (s *Scanner) OpenContainingLocation(path string) error {
	return s.revealer.Open(path)
}

// ExportPalette renders the palette of the image at path in format, named
// after the file.
func (s *Scanner) ExportPalette(path, format string) (string, error) {
	img, _, err := imaging.Open(path)
	if err != nil {
		return "", err
	}
	return imaging.FormatPalette(filepath.Base(path), imaging.Palette(img), imaging.PaletteFormat(format))
}
