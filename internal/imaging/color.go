package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// PaletteSize is the number of samples in an image palette.
const PaletteSize = 10

// HistogramBuckets is the number of 8-bit luminance levels counted.
const HistogramBuckets = 256

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// RGBAColor represents an RGBA color with 8-bit components including alpha.
//
// The alpha component represents opacity:
//   - 0 = fully transparent
//   - 255 = fully opaque
type RGBAColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in multiple representations.
type ColorResult struct {
	Hex  string    `json:"hex"`  // Hex format "#rrggbb" (no alpha)
	RGB  RGBColor  `json:"rgb"`  // RGB components
	RGBA RGBAColor `json:"rgba"` // RGBA components with alpha
	HSL  HSLColor  `json:"hsl"`  // HSL representation
}

// SampleColor extracts the color value at a specific pixel coordinate.
//
// Coordinates are absolute, so for images whose bounds do not start at the
// origin the valid X range is Bounds().Min.X to Bounds().Max.X-1.
//
// The color is read non-premultiplied: a half-transparent red pixel reports
// R=255 with A=128, not R=128. The Hex format excludes alpha.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	bounds := img.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	cf := colorful.Color{R: float64(c.R) / 255.0, G: float64(c.G) / 255.0, B: float64(c.B) / 255.0}
	h, s, l := cf.Hsl()

	return &ColorResult{
		Hex:  cf.Hex(),
		RGB:  RGBColor{R: c.R, G: c.G, B: c.B},
		RGBA: RGBAColor{R: c.R, G: c.G, B: c.B, A: c.A},
		HSL:  HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)},
	}, nil
}

// Palette samples ten fixed points of an image and returns their colors as
// "#rrggbb" strings.
//
// The points are a near-corner offset of 10px from the top-left, the center,
// a near-corner offset of 10px from the bottom-right, the four quadrant
// centers, and the midpoints between the center and the top, bottom and left
// edges. Every coordinate is clamped into the image, so tiny images still
// yield exactly PaletteSize entries (repeating pixels as needed).
func Palette(img image.Image) []string {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return []string{}
	}

	points := [PaletteSize][2]int{
		{10, 10},
		{w / 2, h / 2},
		{w - 10, h - 10},
		{w / 4, h / 4},
		{3 * w / 4, h / 4},
		{w / 4, 3 * h / 4},
		{3 * w / 4, 3 * h / 4},
		{w / 2, h / 4},
		{w / 2, 3 * h / 4},
		{w / 4, h / 2},
	}

	palette := make([]string, 0, PaletteSize)
	for _, p := range points {
		x := bounds.Min.X + clamp(p[0], 0, w-1)
		y := bounds.Min.Y + clamp(p[1], 0, h-1)
		// In bounds by construction.
		c, _ := SampleColor(img, x, y)
		palette = append(palette, c.Hex)
	}
	return palette
}

// Rec. 709 luma weights.
const (
	lumaR = 0.2126
	lumaG = 0.7152
	lumaB = 0.0722
)

// Luminance converts an image to single-channel 8-bit gray with bounds
// starting at the origin and the same dimensions as img.
//
// Alpha is ignored: each pixel is weighted by its straight (non-premultiplied)
// color, so a fully transparent white pixel has luminance 255, not 0.
func Luminance(img image.Image) *image.Gray {
	opaque := imaging.Clone(img)
	for i := 3; i < len(opaque.Pix); i += 4 {
		opaque.Pix[i] = 0xff
	}

	weighted := effect.GrayscaleWithWeights(opaque, lumaR, lumaG, lumaB)
	w, h := opaque.Rect.Dx(), opaque.Rect.Dy()
	gray := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return gray
	}
	for y := 0; y < h; y++ {
		src := weighted.Pix[y*weighted.Stride:]
		dst := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		for x := range dst {
			dst[x] = src[x*4]
		}
	}
	return gray
}

// Histogram counts pixels per 8-bit luminance level in a single pass.
// The bucket sum always equals width*height.
func Histogram(img image.Image) [HistogramBuckets]uint32 {
	return grayHistogram(Luminance(img))
}

func grayHistogram(gray *image.Gray) [HistogramBuckets]uint32 {
	var hist [HistogramBuckets]uint32
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		for _, v := range row {
			hist[v]++
		}
	}
	return hist
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
