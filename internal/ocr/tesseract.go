package ocr

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"github.com/skdsam/image-scanner/internal/detection"
)

// linePadding is added around each line crop so glyph edges are not clipped.
const linePadding = 4

// TesseractEngine runs detection and recognition on two Tesseract clients.
type TesseractEngine struct {
	det *gosseract.Client
	rec *gosseract.Client
}

// NewTesseractEngine is an EngineBuilder. The recognition language is the
// recognition model's file name without ".traineddata". Tesseract reads the
// files itself, so det and rec must sit in the same directory.
func NewTesseractEngine(det, rec *Model) (Engine, error) {
	dir := filepath.Dir(rec.Path)
	if filepath.Dir(det.Path) != dir {
		return nil, fmt.Errorf("models must share a directory: %s and %s", det.Path, rec.Path)
	}
	lang := strings.TrimSuffix(filepath.Base(rec.Path), ".traineddata")

	detClient, err := newClient(dir, lang, gosseract.PSM_AUTO_OSD)
	if err != nil {
		return nil, fmt.Errorf("failed to configure detection: %w", err)
	}
	recClient, err := newClient(dir, lang, gosseract.PSM_SINGLE_LINE)
	if err != nil {
		detClient.Close()
		return nil, fmt.Errorf("failed to configure recognition: %w", err)
	}

	return &TesseractEngine{det: detClient, rec: recClient}, nil
}

func newClient(tessdata, lang string, mode gosseract.PageSegMode) (*gosseract.Client, error) {
	client := gosseract.NewClient()
	if err := client.SetTessdataPrefix(tessdata); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set tessdata prefix: %w", err)
	}
	if err := client.SetLanguage(lang); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetPageSegMode(mode); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	return client, nil
}

// DetectWords returns Tesseract's word-level boxes. Boxes whose text is blank
// are dropped as noise.
func (e *TesseractEngine) DetectWords(ctx context.Context, in *Input) ([]detection.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := encodePNG(in.Image())
	if err != nil {
		return nil, fmt.Errorf("failed to encode input: %w", err)
	}
	if err := e.det.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := e.det.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("failed to get word boxes: %w", err)
	}

	words := make([]detection.Word, 0, len(boxes))
	for _, box := range boxes {
		if strings.TrimSpace(box.Word) == "" {
			continue
		}
		words = append(words, detection.Word{
			Bounds:     detection.FromRect(box.Box),
			Confidence: box.Confidence,
		})
	}
	return words, nil
}

// FindTextLines groups words geometrically.
func (e *TesseractEngine) FindTextLines(_ *Input, words []detection.Word) []detection.Line {
	return detection.GroupLines(words)
}

// RecognizeText reads each line from a padded crop. A line whose crop cannot
// be encoded or read yields a nil entry. Only cancellation fails the call.
func (e *TesseractEngine) RecognizeText(ctx context.Context, in *Input, lines []detection.Line) ([]*TextLine, error) {
	img := in.Image()
	frame := img.Bounds()

	results := make([]*TextLine, len(lines))
	for i, line := range lines {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		r := line.Bounds.Rect().Inset(-linePadding).Intersect(frame)
		if r.Empty() {
			continue
		}
		results[i] = e.recognizeLine(imaging.Crop(img, r), line.Bounds)
	}
	return results, nil
}

func (e *TesseractEngine) recognizeLine(crop image.Image, bounds detection.Bounds) *TextLine {
	data, err := encodePNG(crop)
	if err != nil {
		return nil
	}
	if err := e.rec.SetImageFromBytes(data); err != nil {
		return nil
	}
	text, err := e.rec.Text()
	if err != nil {
		return nil
	}

	line := &TextLine{Bounds: bounds, Text: strings.TrimSpace(text)}
	if boxes, err := e.rec.GetBoundingBoxes(gosseract.RIL_TEXTLINE); err == nil && len(boxes) > 0 {
		line.Confidence = boxes[0].Confidence
	}
	return line
}

// Close releases both clients.
func (e *TesseractEngine) Close() error {
	detErr := e.det.Close()
	recErr := e.rec.Close()
	if detErr != nil {
		return detErr
	}
	return recErr
}
