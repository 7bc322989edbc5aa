package catalog

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	apperrors "github.com/skdsam/image-scanner/internal/errors"
)

// makeTree creates files (and their parent directories) under a temp root.
func makeTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestList(t *testing.T) {
	root := makeTree(t, "a.JPG", "b.txt", "sub/c.png")

	tests := []struct {
		name      string
		recursive bool
		want      []string
	}{
		{"non-recursive", false, []string{"a.JPG"}},
		{"recursive", true, []string{"a.JPG", "c.png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := List(root, tt.recursive)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if got := names(entries); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestList_Paths(t *testing.T) {
	root := makeTree(t, "sub/deep/x.webp")

	entries, err := List(root, true)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if want := filepath.Join(root, "sub", "deep", "x.webp"); entries[0].Path != want {
		t.Errorf("Path = %s, want %s", entries[0].Path, want)
	}
	if entries[0].OCRText != nil {
		t.Error("OCRText should be nil")
	}
}

func TestList_SkipsDirectoriesNamedLikeImages(t *testing.T) {
	root := makeTree(t, "album.png/inner.gif")

	entries, err := List(root, true)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if got := names(entries); !reflect.DeepEqual(got, []string{"inner.gif"}) {
		t.Errorf("got %v, want [inner.gif]", got)
	}
}

func TestList_Errors(t *testing.T) {
	root := makeTree(t, "file.png")

	for _, dir := range []string{filepath.Join(root, "missing"), filepath.Join(root, "file.png")} {
		if _, err := List(dir, true); !apperrors.IsKind(err, apperrors.KindIO) {
			t.Errorf("List(%s) error = %v, want io", dir, err)
		}
	}
}

func TestList_Empty(t *testing.T) {
	entries, err := List(t.TempDir(), true)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Errorf("got %v, want empty non-nil slice", entries)
	}
}

func TestIsImageFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"photo.jpg", true},
		{"photo.JPEG", true},
		{"icon.Png", true},
		{"anim.gif", true},
		{"scan.bmp", true},
		{"still.webp", true},
		{"raw.tiff", false},
		{"notes.txt", false},
		{"jpg", false},
		{".png", true},
	}

	for _, tt := range tests {
		if got := IsImageFile(tt.name); got != tt.want {
			t.Errorf("IsImageFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFilter(t *testing.T) {
	entries := []Entry{
		{Path: "/photos/Beach/sunset.jpg", Name: "sunset.jpg"},
		{Path: "/photos/Beach/wave.JPEG", Name: "wave.JPEG"},
		{Path: "/photos/city/night.png", Name: "night.png"},
		{Path: "/photos/city/logo.gif", Name: "logo.gif"},
	}

	tests := []struct {
		name   string
		query  string
		format string
		want   []string
	}{
		{"everything", "", "all", []string{"sunset.jpg", "wave.JPEG", "night.png", "logo.gif"}},
		{"empty format", "", "", []string{"sunset.jpg", "wave.JPEG", "night.png", "logo.gif"}},
		{"jpg includes jpeg", "", "jpg", []string{"sunset.jpg", "wave.JPEG"}},
		{"jpeg excludes jpg", "", "jpeg", []string{"wave.JPEG"}},
		{"query by name", "NIGHT", "all", []string{"night.png"}},
		{"query by path", "beach", "all", []string{"sunset.jpg", "wave.JPEG"}},
		{"query and format", "city", "png", []string{"night.png"}},
		{"no match", "forest", "all", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := names(Filter(entries, tt.query, tt.format)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
