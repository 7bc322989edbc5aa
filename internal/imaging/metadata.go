package imaging

import (
	"os"
	"path/filepath"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	apperrors "github.com/skdsam/image-scanner/internal/errors"
)

// ImageRecord is the structured metadata of a single image file. It is built
// fresh on every Extract call and never cached.
type ImageRecord struct {
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Format    string `json:"format"`
	ColorType string `json:"color_type"`

	// ColorDepth is "8-bit" or "16-bit" per channel.
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the decoded pixels carry transparency.
	HasAlpha bool `json:"has_alpha"`

	SizeBytes int64  `json:"size_bytes"`
	Path      string `json:"path"`
	Name      string `json:"name"`

	// Exif maps tag names to their display values. Nil means the file has no
	// EXIF block or it could not be parsed; the two cases are not told apart.
	Exif map[string]string `json:"exif"`

	// Palette holds PaletteSize "#rrggbb" samples.
	Palette []string `json:"palette"`

	// Histogram counts pixels per 8-bit luminance level. The buckets sum to
	// Width*Height.
	Histogram [HistogramBuckets]uint32 `json:"histogram"`

	// OCRText is filled only by callers that ran recognition; Extract leaves it nil.
	OCRText *string `json:"ocr_text"`
}

// Extract decodes the image at path and assembles its ImageRecord.
//
// # Errors
//
//   - IO error if the file cannot be opened or stat'd
//   - Decode error if the bytes are not a supported image
//
// EXIF parsing is best-effort and never fails the call.
func Extract(path string) (*ImageRecord, error) {
	img, format, err := Open(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, apperrors.NewIOError("failed to stat file", err)
	}

	bounds := img.Bounds()
	pixels := DescribePixels(img)

	return &ImageRecord{
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		Format:     format,
		ColorType:  pixels.ColorType,
		ColorDepth: pixels.ColorDepth,
		HasAlpha:   pixels.HasAlpha,
		SizeBytes:  stat.Size(),
		Path:       path,
		Name:       filepath.Base(path),
		Exif:       ReadExif(path),
		Palette:    Palette(img),
		Histogram:  Histogram(img),
	}, nil
}

// ReadExif returns the EXIF tags of the file at path, or nil if the file has
// none or they cannot be parsed.
func ReadExif(path string) map[string]string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return nil
	}

	tags := exifTags{}
	if err := x.Walk(tags); err != nil {
		return nil
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}

// exifTags collects walked EXIF fields.
type exifTags map[string]string

func (t exifTags) Walk(name exif.FieldName, tag *tiff.Tag) error {
	t[string(name)] = tag.String()
	return nil
}
