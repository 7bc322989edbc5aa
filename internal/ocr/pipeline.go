package ocr

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	apperrors "github.com/skdsam/image-scanner/internal/errors"
	codec "github.com/skdsam/image-scanner/internal/imaging"
	"github.com/skdsam/image-scanner/internal/logger"
	"github.com/skdsam/image-scanner/internal/models"
)

// Provisioner makes named model files present and returns their paths.
type Provisioner interface {
	Ensure(ctx context.Context, names ...string) ([]string, error)
}

// Pipeline runs provisioning, engine construction and the inference stages.
type Pipeline struct {
	provisioner Provisioner
	build       EngineBuilder
}

// NewPipeline creates a pipeline. It holds no models or engines itself.
func NewPipeline(provisioner Provisioner, build EngineBuilder) *Pipeline {
	return &Pipeline{provisioner: provisioner, build: build}
}

// RecognizeText returns the text found in the image at path, one line per
// detected text line, top-to-bottom. An image without text yields "".
//
// Provisioning, load and decode errors keep their own kind. Engine
// construction and stage failures are inference errors.
func (p *Pipeline) RecognizeText(ctx context.Context, path string) (string, error) {
	paths, err := p.provisioner.Ensure(ctx, models.TextDetection, models.TextRecognition)
	if err != nil {
		return "", err
	}
	if len(paths) != 2 {
		return "", apperrors.NewInferenceError(fmt.Sprintf("expected 2 model paths, got %d", len(paths)), nil)
	}

	det, err := LoadModel(models.TextDetection, paths[0])
	if err != nil {
		return "", err
	}
	rec, err := LoadModel(models.TextRecognition, paths[1])
	if err != nil {
		return "", err
	}

	engine, err := p.build(det, rec)
	if err != nil {
		return "", asInference("failed to build OCR engine", err)
	}
	defer engine.Close()

	img, _, err := codec.Open(path)
	if err != nil {
		return "", err
	}
	in := NewInput(img)

	words, err := engine.DetectWords(ctx, in)
	if err != nil {
		return "", asInference("word detection failed", err)
	}
	lines := engine.FindTextLines(in, words)
	results, err := engine.RecognizeText(ctx, in, lines)
	if err != nil {
		return "", asInference("line recognition failed", err)
	}

	texts := make([]string, 0, len(results))
	for _, line := range results {
		if line == nil {
			continue
		}
		if text := strings.TrimSpace(line.Text); text != "" {
			texts = append(texts, text)
		}
	}

	logger.WithFields(logrus.Fields{
		"path":       path,
		"words":      len(words),
		"lines":      len(lines),
		"recognized": len(texts),
	}).Debug("OCR complete")

	return strings.Join(texts, "\n"), nil
}

// asInference keeps an existing AppError and wraps anything else.
func asInference(message string, err error) error {
	var appErr *apperrors.AppError
	if stderrors.As(err, &appErr) {
		return err
	}
	return apperrors.NewInferenceError(message, err)
}
