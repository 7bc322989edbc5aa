package ocr

import (
	"context"

	"github.com/skdsam/image-scanner/internal/detection"
)

// TextLine is the recognition result for one grouped line.
type TextLine struct {
	Bounds     detection.Bounds `json:"bounds"`
	Text       string           `json:"text"`
	Confidence float64          `json:"confidence"`
}

// Engine runs the three inference stages over one Input.
type Engine interface {
	// DetectWords finds word-level regions.
	DetectWords(ctx context.Context, in *Input) ([]detection.Word, error)

	// FindTextLines groups words into lines, top-to-bottom.
	FindTextLines(in *Input, words []detection.Word) []detection.Line

	// RecognizeText returns one entry per line in the same order. A nil
	// entry means the line produced no result; it is not an error.
	RecognizeText(ctx context.Context, in *Input, lines []detection.Line) ([]*TextLine, error)

	// Close releases the engine's resources.
	Close() error
}

// EngineBuilder constructs an Engine from the loaded detection and
// recognition models.
type EngineBuilder func(det, rec *Model) (Engine, error)
