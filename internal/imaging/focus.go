package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/stat"
)

const (
	// FocusMaxDimension bounds the side length fed to the convolution.
	// Larger inputs are downscaled first, so the heatmap of a large photo is
	// smaller than the photo itself.
	FocusMaxDimension = 1000

	// FocusGain scales the absolute Laplacian response before clamping.
	FocusGain = 5

	// FocusThreshold is the edge magnitude (0-255) a pixel must exceed to be
	// highlighted.
	FocusThreshold = 40
)

// laplacian is the 4-neighbour discrete Laplacian.
var laplacian = [3][3]int{
	{0, -1, 0},
	{-1, 4, -1},
	{0, -1, 0},
}

// BoundForFocus downscales img with a Lanczos filter, preserving aspect
// ratio, when either side exceeds FocusMaxDimension. Smaller images are
// returned unchanged.
func BoundForFocus(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() > FocusMaxDimension || b.Dy() > FocusMaxDimension {
		return imaging.Fit(img, FocusMaxDimension, FocusMaxDimension, imaging.Lanczos)
	}
	return img
}

// laplacianAt returns the raw kernel sum centred on interior pixel (x, y).
func laplacianAt(gray *image.Gray, x, y int) int {
	sum := 0
	for ky := 0; ky < 3; ky++ {
		row := (y + ky - 1) * gray.Stride
		for kx := 0; kx < 3; kx++ {
			sum += int(gray.Pix[row+x+kx-1]) * laplacian[ky][kx]
		}
	}
	return sum
}

// EdgeMagnitude convolves a luminance map with the Laplacian kernel and
// returns |sum|*FocusGain clamped to 0-255 for every interior pixel. The
// one-pixel border is never processed and stays zero. The result has bounds
// starting at the origin with the same dimensions as gray.
func EdgeMagnitude(gray *image.Gray) *image.Gray {
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	edges := image.NewGray(image.Rect(0, 0, w, h))

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			sum := laplacianAt(gray, x, y)
			if sum < 0 {
				sum = -sum
			}
			edges.Pix[y*edges.Stride+x] = uint8(clamp(sum*FocusGain, 0, 255))
		}
	}
	return edges
}

// FocusHeatmap renders a translucent overlay marking sharp edges.
//
// # Algorithm
//
//  1. Downscale to at most FocusMaxDimension per side (BoundForFocus)
//  2. Convert to 8-bit luminance
//  3. Apply the Laplacian kernel to interior pixels (EdgeMagnitude)
//  4. Pixels with magnitude > FocusThreshold become opaque green with
//     alpha equal to the magnitude; all others become fully transparent
//
// There is no contrast normalization, so very dark or very flat images may
// show no highlighted edges at all. The function keeps no state between calls.
func FocusHeatmap(img image.Image) *image.NRGBA {
	edges := EdgeMagnitude(Luminance(BoundForFocus(img)))
	w, h := edges.Rect.Dx(), edges.Rect.Dy()

	heatmap := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			val := edges.Pix[y*edges.Stride+x]
			if val > FocusThreshold {
				heatmap.SetNRGBA(x, y, color.NRGBA{R: 0, G: 255, B: 0, A: val})
			}
		}
	}
	return heatmap
}

// FocusScore returns the variance of the raw Laplacian response over the
// interior pixels of the (bounded) luminance map. Higher values mean more
// high-frequency detail, i.e. a sharper image. Images with fewer than two
// interior pixels score 0.
func FocusScore(img image.Image) float64 {
	gray := Luminance(BoundForFocus(img))
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	if w < 3 || h < 3 || (w-2)*(h-2) < 2 {
		return 0
	}

	responses := make([]float64, 0, (w-2)*(h-2))
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			responses = append(responses, float64(laplacianAt(gray, x, y)))
		}
	}
	_, variance := stat.MeanVariance(responses, nil)
	return variance
}
