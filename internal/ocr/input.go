package ocr

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
)

// Input is an image as the engines consume it: tightly packed, interleaved
// 8-bit RGB rows with no alpha.
type Input struct {
	Width  int
	Height int
	RGB    []byte
}

// NewInput converts img to an Input. Alpha is discarded, not composited.
func NewInput(img image.Image) *Input {
	src := imaging.Clone(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()

	rgb := make([]byte, 0, w*h*3)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for x := 0; x < len(row); x += 4 {
			rgb = append(rgb, row[x], row[x+1], row[x+2])
		}
	}
	return &Input{Width: w, Height: h, RGB: rgb}
}

// Image rebuilds an opaque image from the RGB buffer.
func (in *Input) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, in.Width, in.Height))
	for i, j := 0, 0; i+2 < len(in.RGB); i, j = i+3, j+4 {
		img.Pix[j] = in.RGB[i]
		img.Pix[j+1] = in.RGB[i+1]
		img.Pix[j+2] = in.RGB[i+2]
		img.Pix[j+3] = 0xff
	}
	return img
}

// encodePNG serializes img losslessly for engines that take encoded bytes.
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
