// Package catalog lists the image files inside a directory tree.
package catalog

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/skdsam/image-scanner/internal/errors"
	"github.com/skdsam/image-scanner/internal/logger"
)

// Extensions are the file extensions, lowercase and without the dot, that
// List treats as images.
var Extensions = []string{"jpg", "jpeg", "png", "webp", "gif", "bmp"}

// Entry identifies one listed image.
type Entry struct {
	Path string `json:"path"`
	Name string `json:"name"`
	// OCRText is never filled by List; it exists so callers can attach
	// recognized text to a listing.
	OCRText *string `json:"ocr_text"`
}

// IsImageFile reports whether name has one of Extensions, ignoring case.
func IsImageFile(name string) bool {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" {
		return false
	}
	ext = strings.ToLower(ext)
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// List returns the regular image files under dir in lexical order. Without
// recursive only the top level is listed. An unreadable dir is an IO error;
// unreadable entries below it are skipped. Symlinks are not followed.
func List(dir string, recursive bool) ([]Entry, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, apperrors.NewIOError("failed to read directory", err)
	}
	if !info.IsDir() {
		return nil, apperrors.NewIOError("not a directory: "+dir, nil)
	}

	entries := make([]Entry, 0)
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			logger.WithError(err).WithField("path", path).Debug("Skipping unreadable entry")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != dir && !recursive {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && IsImageFile(d.Name()) {
			entries = append(entries, Entry{Path: path, Name: d.Name()})
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.NewIOError("failed to read directory", err)
	}
	return entries, nil
}

// FormatAll matches every entry in Filter.
const FormatAll = "all"

// Filter keeps the entries whose name or path contains query, ignoring case,
// and whose extension matches format. An empty format or FormatAll accepts
// every extension; "jpg" also accepts ".jpeg".
func Filter(entries []Entry, query, format string) []Entry {
	query = strings.ToLower(query)
	format = strings.ToLower(strings.TrimPrefix(format, "."))

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		name := strings.ToLower(e.Name)
		if query != "" && !strings.Contains(name, query) && !strings.Contains(strings.ToLower(e.Path), query) {
			continue
		}
		if !matchesFormat(name, format) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func matchesFormat(name, format string) bool {
	if format == "" || format == FormatAll {
		return true
	}
	if strings.HasSuffix(name, "."+format) {
		return true
	}
	return format == "jpg" && strings.HasSuffix(name, ".jpeg")
}
