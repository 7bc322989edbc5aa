package imaging

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "github.com/skdsam/image-scanner/internal/errors"
)

// PaletteFormat selects the text layout of an exported palette.
type PaletteFormat string

const (
	PaletteCSS  PaletteFormat = "css"
	PaletteJSON PaletteFormat = "json"
	PaletteCSV  PaletteFormat = "csv"
	PaletteText PaletteFormat = "text"
)

type paletteDocument struct {
	Name   string   `json:"name"`
	Colors []string `json:"colors"`
}

// FormatPalette renders colors for copying into other tools.
//
//   - css:  one custom property per line, "--color-1: #rrggbb;"
//   - json: {"name": name, "colors": [...]} indented by two spaces
//   - csv:  an "Index,Hex" header followed by one 1-based row per color
//   - text: the hex values one per line (also used when format is empty)
//
// Any other format is a validation error.
func FormatPalette(name string, colors []string, format PaletteFormat) (string, error) {
	switch format {
	case PaletteCSS:
		lines := make([]string, len(colors))
		for i, c := range colors {
			lines[i] = fmt.Sprintf("--color-%d: %s;", i+1, c)
		}
		return strings.Join(lines, "\n"), nil

	case PaletteJSON:
		if colors == nil {
			colors = []string{}
		}
		out, err := json.MarshalIndent(paletteDocument{Name: name, Colors: colors}, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal palette: %w", err)
		}
		return string(out), nil

	case PaletteCSV:
		rows := make([]string, 0, len(colors)+1)
		rows = append(rows, "Index,Hex")
		for i, c := range colors {
			rows = append(rows, fmt.Sprintf("%d,%s", i+1, c))
		}
		return strings.Join(rows, "\n"), nil

	case PaletteText, "":
		return strings.Join(colors, "\n"), nil

	default:
		return "", apperrors.NewValidationError(fmt.Sprintf("unsupported palette format %q", format), nil)
	}
}
