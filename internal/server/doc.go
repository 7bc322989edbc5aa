// Package server implements the MCP (Model Context Protocol) front end of the
// image scanner.
//
// The server speaks JSON-RPC 2.0 over stdio, one request per line, and maps
// each tool onto a service.Scanner operation.
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Tools
//
// Metadata and listing:
//   - image_scan: Full metadata record for one file
//   - image_list_directory: Image files under a directory
//   - image_filter: Listing narrowed by name query and format
//
// Cached artifacts:
//   - image_thumbnail: Path of a cached 100x100-bounded JPEG
//   - image_focus_heatmap: Path of a cached edge overlay PNG
//   - image_focus_score: Laplacian variance
//
// File operations:
//   - image_transform: Rotate, flip or strip metadata in place
//   - image_reveal: Open the containing folder
//
// Text and color:
//   - image_ocr: Two-stage text recognition
//   - image_export_palette: Palette as css, json, csv or text
//
// # Error Handling
//
// Tool failures are returned as JSON-RPC errors with code -32000. The data
// field carries the error kind (decode, io, download, unknown_action,
// inference, validation) and message. Malformed params use -32602 and
// unknown methods -32601.
package server
