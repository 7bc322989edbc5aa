package detection

import "image"

// Bounds represents a rectangular bounding box in pixel coordinates.
//
// (X1, Y1) is the top-left corner (inclusive) and (X2, Y2) the bottom-right
// corner (exclusive).
type Bounds struct {
	X1 int `json:"x1"` // Left edge (inclusive)
	Y1 int `json:"y1"` // Top edge (inclusive)
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// FromRect converts an image.Rectangle.
func FromRect(r image.Rectangle) Bounds {
	r = r.Canon()
	return Bounds{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y}
}

// Rect converts b back to an image.Rectangle.
func (b Bounds) Rect() image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2, b.Y2)
}

func (b Bounds) Width() int  { return b.X2 - b.X1 }
func (b Bounds) Height() int { return b.Y2 - b.Y1 }

// Empty reports whether b encloses no pixels.
func (b Bounds) Empty() bool {
	return b.X1 >= b.X2 || b.Y1 >= b.Y2
}

// Overlaps reports whether b and o share any pixel.
func (b Bounds) Overlaps(o Bounds) bool {
	return b.X1 < o.X2 && b.X2 > o.X1 && b.Y1 < o.Y2 && b.Y2 > o.Y1
}

// Union returns the smallest box enclosing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{
		X1: min(b.X1, o.X1),
		Y1: min(b.Y1, o.Y1),
		X2: max(b.X2, o.X2),
		Y2: max(b.Y2, o.Y2),
	}
}

// verticalOverlap returns the number of rows shared by a and b.
func verticalOverlap(a, b Bounds) int {
	return max(0, min(a.Y2, b.Y2)-max(a.Y1, b.Y1))
}
