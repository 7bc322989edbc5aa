package ocr

import (
	"fmt"
	"os"

	apperrors "github.com/skdsam/image-scanner/internal/errors"
)

// Model is a model file loaded into memory.
type Model struct {
	Name string
	Path string
	Data []byte
}

// LoadModel reads the model file at path. An unreadable file is an IO
// error; an empty one is an inference error, since no engine can load it.
func LoadModel(name, path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewIOError(fmt.Sprintf("failed to read %s model", name), err)
	}
	if len(data) == 0 {
		return nil, apperrors.NewInferenceError(fmt.Sprintf("%s model at %s is empty", name, path), nil)
	}
	return &Model{Name: name, Path: path, Data: data}, nil
}
