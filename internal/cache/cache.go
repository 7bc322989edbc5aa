// Package cache stores derived image artifacts (thumbnails, focus heatmaps)
// on disk under a content-addressed name.
//
// # Keys
//
// An artifact's file name is Key(absolutePath, purpose) plus an extension.
// The purpose tag is the only namespace separating artifact kinds that share
// one cache directory, so two tags never collide for the same source path.
//
// # Staleness
//
// A cached artifact is never invalidated. If the source image changes at the
// same path, the old artifact keeps being served until someone deletes it.
//
// # Concurrency
//
// GetOrCreate takes no lock. Two concurrent misses for the same key both run
// the builder and both write the destination; the last rename wins. Builders
// are pure functions of their input, so either result is correct, and the
// atomic write guarantees readers never see a partial file.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/skdsam/image-scanner/internal/errors"
	"github.com/skdsam/image-scanner/internal/fsutil"
	"github.com/skdsam/image-scanner/internal/logger"

	"github.com/sirupsen/logrus"
)

// Purpose tags for the artifact kinds the scanner produces.
const (
	PurposeThumbnail = "thumb"
	PurposeHeatmap   = "focus_peak"
)

// Key returns the lowercase hex SHA-256 digest of path followed by purpose.
// It is a pure function: identical inputs always give the identical key.
func Key(path, purpose string) string {
	h := sha256.New()
	h.Write([]byte(path))
	h.Write([]byte(purpose))
	return hex.EncodeToString(h.Sum(nil))
}

// Backing is the filesystem surface the store needs. The disk implementation
// is used in production; tests can substitute an in-memory one.
type Backing interface {
	Exists(path string) (bool, error)
	MkdirAll(dir string) error
	// WriteFile must replace path atomically.
	WriteFile(path string, data []byte) error
}

// Builder produces the encoded bytes of an artifact on a cache miss.
type Builder func() ([]byte, error)

// Store resolves artifacts inside a single cache directory.
type Store struct {
	dir     string
	backing Backing
}

// New returns a store rooted at dir on the local disk. The directory is
// created on first use.
func New(dir string) *Store {
	return NewWithBacking(dir, DiskBacking{})
}

// NewWithBacking returns a store rooted at dir that uses b for all file access.
func NewWithBacking(dir string, b Backing) *Store {
	return &Store{dir: dir, backing: b}
}

// Dir returns the cache directory.
func (s *Store) Dir() string {
	return s.dir
}

// PathFor returns where the artifact for (path, purpose) lives, whether or
// not it has been built yet.
func (s *Store) PathFor(path, purpose, ext string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", apperrors.NewIOError("failed to resolve source path", err)
	}
	return filepath.Join(s.dir, Key(abs, purpose)+"."+strings.TrimPrefix(ext, ".")), nil
}

// GetOrCreate returns the location of the artifact for (path, purpose). On a
// hit the file is returned as is, with no freshness check against the source.
// On a miss build is invoked and its bytes are written atomically first.
func (s *Store) GetOrCreate(path, purpose, ext string, build Builder) (string, error) {
	target, err := s.PathFor(path, purpose, ext)
	if err != nil {
		return "", err
	}

	if err := s.backing.MkdirAll(s.dir); err != nil {
		return "", apperrors.NewIOError("failed to create cache directory", err)
	}

	fields := logrus.Fields{"path": path, "purpose": purpose, "artifact": target}

	exists, err := s.backing.Exists(target)
	if err != nil {
		return "", apperrors.NewIOError("failed to stat cached artifact", err)
	}
	if exists {
		logger.WithFields(fields).Debug("cache hit")
		return target, nil
	}

	logger.WithFields(fields).Info("cache miss, building artifact")
	data, err := build()
	if err != nil {
		return "", err
	}
	if err := s.backing.WriteFile(target, data); err != nil {
		return "", apperrors.NewIOError("failed to write cached artifact", err)
	}
	return target, nil
}

// DiskBacking stores artifacts on the local filesystem.
type DiskBacking struct{}

// Exists reports whether path is present on disk.
func (DiskBacking) Exists(path string) (bool, error) {
	return fsutil.Exists(path)
}

// MkdirAll creates dir and any missing parents.
func (DiskBacking) MkdirAll(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// WriteFile replaces path atomically.
func (DiskBacking) WriteFile(path string, data []byte) error {
	if err := fsutil.WriteFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("failed to persist %s: %w", filepath.Base(path), err)
	}
	return nil
}
