package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	apperrors "github.com/skdsam/image-scanner/internal/errors"
)

// JPEGQuality is used for every lossy artifact the scanner writes.
const JPEGQuality = 85

// Open reads and decodes the image at path.
//
// Returns:
//   - image.Image: The decoded image.
//   - string: The decoder's format name ("jpeg", "png", "gif", "bmp", "webp", "tiff").
//   - error: An IO error if the file cannot be opened, a decode error if its
//     bytes are not a supported image.
func Open(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", apperrors.NewIOError("failed to open image", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", apperrors.NewDecodeError(fmt.Sprintf("failed to decode %s", filepath.Base(path)), err)
	}
	return img, format, nil
}

// Encode serializes img in the format implied by filename's extension.
// WebP has no encoder, so images with a .webp extension cannot be written.
func Encode(img image.Image, filename string) ([]byte, error) {
	format, err := imaging.FormatFromFilename(filename)
	if err != nil {
		return nil, apperrors.NewIOError(fmt.Sprintf("no encoder for %q", filepath.Ext(filename)), err)
	}
	return EncodeFormat(img, format)
}

// EncodeFormat serializes img with the given codec format.
func EncodeFormat(img image.Image, format imaging.Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return nil, apperrors.NewIOError(fmt.Sprintf("failed to encode %s", strings.ToLower(format.String())), err)
	}
	return buf.Bytes(), nil
}

// PixelInfo describes an image's pixel layout.
type PixelInfo struct {
	// ColorType names the layout: "L8", "L16", "La8", "Rgb8", "Rgba8",
	// "Rgb16", "Rgba16" or "Unknown".
	ColorType string

	// ColorDepth is "8-bit" or "16-bit" per channel.
	ColorDepth string

	// HasAlpha reports whether the layout carries an alpha channel.
	HasAlpha bool
}

// DescribePixels classifies an image by its concrete Go type.
//
// Decoders for palette formats (GIF, 8-bit PNG) return *image.Paletted, which
// is reported as Rgba8 since palettes carry alpha. YCbCr and CMYK JPEGs are
// reported as Rgb8.
func DescribePixels(img image.Image) PixelInfo {
	switch img.(type) {
	case *image.Gray:
		return PixelInfo{ColorType: "L8", ColorDepth: "8-bit"}
	case *image.Gray16:
		return PixelInfo{ColorType: "L16", ColorDepth: "16-bit"}
	case *image.Alpha:
		return PixelInfo{ColorType: "La8", ColorDepth: "8-bit", HasAlpha: true}
	case *image.YCbCr, *image.CMYK:
		return PixelInfo{ColorType: "Rgb8", ColorDepth: "8-bit"}
	case *image.RGBA, *image.NRGBA, *image.NYCbCrA, *image.Paletted:
		return PixelInfo{ColorType: "Rgba8", ColorDepth: "8-bit", HasAlpha: true}
	case *image.RGBA64, *image.NRGBA64:
		return PixelInfo{ColorType: "Rgba16", ColorDepth: "16-bit", HasAlpha: true}
	default:
		return PixelInfo{ColorType: "Unknown", ColorDepth: "8-bit"}
	}
}
