package detection

import "sort"

// minLineOverlap is the share of the shorter height two boxes must overlap
// vertically to sit on the same line.
const minLineOverlap = 0.5

// Word is one detected word-level region.
type Word struct {
	Bounds Bounds `json:"bounds"`

	// Confidence is the detector's score, 0-100 for Tesseract. Zero when the
	// detector does not report one.
	Confidence float64 `json:"confidence"`
}

// Line is a group of words sharing a baseline region, ordered left-to-right.
type Line struct {
	Bounds Bounds `json:"bounds"`
	Words  []Word `json:"words"`
}

// GroupLines groups words into text lines.
//
// Words are visited top-to-bottom; each joins the first existing line it
// overlaps vertically by at least half of the shorter height, otherwise it
// starts a new line. Empty boxes are ignored. The returned lines are sorted
// top-to-bottom and the words inside each line left-to-right.
func GroupLines(words []Word) []Line {
	sorted := make([]Word, 0, len(words))
	for _, w := range words {
		if !w.Bounds.Empty() {
			sorted = append(sorted, w)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Bounds.Y1 != sorted[j].Bounds.Y1 {
			return sorted[i].Bounds.Y1 < sorted[j].Bounds.Y1
		}
		return sorted[i].Bounds.X1 < sorted[j].Bounds.X1
	})

	lines := make([]Line, 0)
	for _, w := range sorted {
		idx := -1
		for i := range lines {
			if sameLine(lines[i].Bounds, w.Bounds) {
				idx = i
				break
			}
		}
		if idx < 0 {
			lines = append(lines, Line{Bounds: w.Bounds, Words: []Word{w}})
			continue
		}
		lines[idx].Bounds = lines[idx].Bounds.Union(w.Bounds)
		lines[idx].Words = append(lines[idx].Words, w)
	}

	for i := range lines {
		ws := lines[i].Words
		sort.SliceStable(ws, func(a, b int) bool { return ws[a].Bounds.X1 < ws[b].Bounds.X1 })
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Bounds.Y1 < lines[j].Bounds.Y1 })

	return lines
}

func sameLine(line, word Bounds) bool {
	shorter := min(line.Height(), word.Height())
	return float64(verticalOverlap(line, word)) >= minLineOverlap*float64(shorter)
}
