package server

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/skdsam/image-scanner/internal/cache"
	"github.com/skdsam/image-scanner/internal/detection"
	"github.com/skdsam/image-scanner/internal/ocr"
	"github.com/skdsam/image-scanner/internal/service"
)

type recordingRevealer struct {
	paths []string
}

func (r *recordingRevealer) Open(path string) error {
	r.paths = append(r.paths, path)
	return nil
}

type stubModels struct{ dir string }

func (m stubModels) Ensure(_ context.Context, names ...string) ([]string, error) {
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(m.dir, name)
		if err := os.WriteFile(paths[i], []byte("w"), 0644); err != nil {
			return nil, err
		}
	}
	return paths, nil
}

// echoEngine recognizes a single line as text.
type echoEngine struct{ text string }

func (e echoEngine) DetectWords(context.Context, *ocr.Input) ([]detection.Word, error) {
	return []detection.Word{{Bounds: detection.Bounds{X1: 1, Y1: 1, X2: 5, Y2: 5}}}, nil
}

func (e echoEngine) FindTextLines(_ *ocr.Input, words []detection.Word) []detection.Line {
	return detection.GroupLines(words)
}

func (e echoEngine) RecognizeText(_ context.Context, _ *ocr.Input, lines []detection.Line) ([]*ocr.TextLine, error) {
	out := make([]*ocr.TextLine, len(lines))
	for i := range lines {
		out[i] = &ocr.TextLine{Text: e.text}
	}
	return out, nil
}

func (e echoEngine) Close() error { return nil }

// newTestServer builds a server over temp directories with OCR stubbed out.
func newTestServer(t *testing.T) (*Server, *recordingRevealer) {
	t.Helper()
	root := t.TempDir()
	modelsDir := filepath.Join(root, "models")
	if err := os.MkdirAll(modelsDir, 0755); err != nil {
		t.Fatal(err)
	}
	revealer := &recordingRevealer{}
	pipeline := ocr.NewPipeline(stubModels{dir: modelsDir}, func(det, rec *ocr.Model) (ocr.Engine, error) {
		return echoEngine{text: "hello world"}, nil
	})
	scanner := service.NewWithDeps(cache.New(filepath.Join(root, "cache")), pipeline, revealer)
	return New(scanner, "test", 0), revealer
}

// createTestImageFile writes a solid-color PNG into a fresh temp directory.
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// callTool issues a tools/call request and returns the response.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()
	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, _ := json.Marshal(params)

	resp := s.handleRequest(context.Background(), &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// toolText decodes the JSON text payload of a successful tool call into v.
func toolText(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("Result should be a map, got %T", resp.Result)
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("content: got %v", result["content"])
	}
	if content[0]["type"] != "text" {
		t.Errorf("content type: got %v, want text", content[0]["type"])
	}
	text, _ := content[0]["text"].(string)
	if err := json.Unmarshal([]byte(text), v); err != nil {
		t.Fatalf("failed to decode tool text %q: %v", text, err)
	}
}
