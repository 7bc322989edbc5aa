// Package imaging implements the pixel-level work of the scanner: decoding
// and encoding files, metadata extraction, palette sampling, luminance
// histograms, focus analysis and in-place geometric transforms.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward.
//
// # Formats
//
// JPEG, PNG, GIF, BMP, TIFF and WebP can be decoded. WebP cannot be encoded,
// so it cannot be the target of TransformFile.
//
// # Color Representation
//
// Hex strings are lowercase "#rrggbb" with alpha excluded. Samples are read
// non-premultiplied.
//
// # Thread Safety
//
// Every function is stateless and safe for concurrent use on distinct
// images. TransformFile replaces files atomically but does not serialize
// concurrent writers to the same path; the last rename wins.
package imaging
