package server

import (
	"context"
	"encoding/json"
	"fmt"

	apperrors "github.com/skdsam/image-scanner/internal/errors"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_scan", "image_thumbnail").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// toolError is the data attached to a failed tool call.
type toolError struct {
	Kind    apperrors.Kind `json:"kind"`
	Message string         `json:"message"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000
// whose data carries the error kind.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", toolError{
			Kind:    apperrors.KindOf(err),
			Message: err.Error(),
		})
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Metadata and listing
	case "image_scan":
		return s.handleImageScan(args)
	case "image_list_directory":
		return s.handleImageListDirectory(args)
	case "image_filter":
		return s.handleImageFilter(args)

	// Cached artifacts
	case "image_thumbnail":
		return s.handleImageThumbnail(args)
	case "image_focus_heatmap":
		return s.handleImageFocusHeatmap(args)
	case "image_focus_score":
		return s.handleImageFocusScore(args)

	// File operations
	case "image_transform":
		return s.handleImageTransform(args)
	case "image_reveal":
		return s.handleImageReveal(args)

	// Text and color
	case "image_ocr":
		return s.handleImageOCR(ctx, args)
	case "image_export_palette":
		return s.handleImageExportPalette(args)

	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown tool: %s", name), nil)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments and requires a non-empty path.
func decodeArgs(args json.RawMessage, v interface{ pathArg() string }) error {
	if len(args) == 0 {
		args = []byte("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return apperrors.NewValidationError("invalid arguments", err)
	}
	if v.pathArg() == "" {
		return apperrors.NewValidationError("path is required", nil)
	}
	return nil
}

type pathArgs struct {
	Path string `json:"path"`
}

func (a *pathArgs) pathArg() string { return a.Path }

// === Metadata and Listing Handlers ===

func (s *Server) handleImageScan(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.scanner.ExtractMetadata(a.Path)
}

type listArgs struct {
	Path      string `json:"path"`
	Recursive *bool  `json:"recursive"`
	Query     string `json:"query"`
	Format    string `json:"format"`
}

func (a *listArgs) pathArg() string { return a.Path }

// recursive defaults to true, matching the desktop listing.
func (a *listArgs) recursive() bool {
	return a.Recursive == nil || *a.Recursive
}

type listResult struct {
	Images interface{} `json:"images"`
	Count  int         `json:"count"`
}

func (s *Server) handleImageListDirectory(args json.RawMessage) (interface{}, error) {
	var a listArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	entries, err := s.scanner.ListImages(a.Path, a.recursive())
	if err != nil {
		return nil, err
	}
	return listResult{Images: entries, Count: len(entries)}, nil
}

func (s *Server) handleImageFilter(args json.RawMessage) (interface{}, error) {
	var a listArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	entries, err := s.scanner.FilterImages(a.Path, a.recursive(), a.Query, a.Format)
	if err != nil {
		return nil, err
	}
	return listResult{Images: entries, Count: len(entries)}, nil
}

// === Artifact Handlers ===

type artifactResult struct {
	Source   string `json:"source"`
	Artifact string `json:"artifact"`
}

func (s *Server) handleImageThumbnail(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	path, err := s.scanner.Thumbnail(a.Path)
	if err != nil {
		return nil, err
	}
	return artifactResult{Source: a.Path, Artifact: path}, nil
}

func (s *Server) handleImageFocusHeatmap(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	path, err := s.scanner.FocusHeatmap(a.Path)
	if err != nil {
		return nil, err
	}
	return artifactResult{Source: a.Path, Artifact: path}, nil
}

func (s *Server) handleImageFocusScore(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	score, err := s.scanner.FocusScore(a.Path)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"path": a.Path, "focus_score": score}, nil
}

// === File Operation Handlers ===

type transformArgs struct {
	Path   string `json:"path"`
	Action string `json:"action"`
}

func (a *transformArgs) pathArg() string { return a.Path }

func (s *Server) handleImageTransform(args json.RawMessage) (interface{}, error) {
	var a transformArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := s.scanner.Transform(a.Path, a.Action); err != nil {
		return nil, err
	}
	return map[string]interface{}{"path": a.Path, "action": a.Action, "ok": true}, nil
}

func (s *Server) handleImageReveal(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := s.scanner.OpenContainingLocation(a.Path); err != nil {
		return nil, err
	}
	return map[string]interface{}{"path": a.Path, "ok": true}, nil
}

// === Text and Color Handlers ===

func (s *Server) handleImageOCR(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	text, err := s.scanner.RecognizeText(ctx, a.Path)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"path": a.Path, "text": text}, nil
}

type paletteArgs struct {
	Path   string `json:"path"`
	Format string `json:"format"`
}

func (a *paletteArgs) pathArg() string { return a.Path }

func (s *Server) handleImageExportPalette(args json.RawMessage) (interface{}, error) {
	var a paletteArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	out, err := s.scanner.ExportPalette(a.Path, a.Format)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"path": a.Path, "format": a.Format, "palette": out}, nil
}
