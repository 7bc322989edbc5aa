package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// ThumbnailSize is the bounding box, in pixels, of every thumbnail.
const ThumbnailSize = 100

// Thumbnail scales img to fit within ThumbnailSize x ThumbnailSize, keeping
// its aspect ratio, and returns it encoded as JPEG. Images already inside the
// box are not enlarged.
func Thumbnail(img image.Image) ([]byte, error) {
	thumb := imaging.Fit(img, ThumbnailSize, ThumbnailSize, imaging.Lanczos)
	return EncodeFormat(thumb, imaging.JPEG)
}

// FocusHeatmapPNG renders FocusHeatmap and returns it encoded as PNG.
func FocusHeatmapPNG(img image.Image) ([]byte, error) {
	return EncodeFormat(FocusHeatmap(img), imaging.PNG)
}
