// Package detection holds the geometry shared by text detection and
// recognition: word bounding boxes and their grouping into text lines.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - Bounding boxes use inclusive top-left and exclusive bottom-right
//
// # Line Grouping
//
// GroupLines assigns each word to the first line whose vertical span
// overlaps the word by at least half of the shorter of the two heights.
// Lines come out top-to-bottom and words within a line left-to-right. The
// grouping is purely geometric; skewed or rotated text groups poorly.
package detection
