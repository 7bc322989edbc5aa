package reveal

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	apperrors "github.com/skdsam/image-scanner/internal/errors"
)

func TestCommand(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "photo.jpg")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		goos     string
		path     string
		wantName string
		wantArgs []string
	}{
		{"windows selects file", "windows", file, "explorer", []string{"/select,", file}},
		{"darwin opens parent", "darwin", file, "open", []string{dir}},
		{"linux opens parent", "linux", file, "xdg-open", []string{dir}},
		{"linux directory as is", "linux", dir, "xdg-open", []string{dir}},
		{"freebsd falls back to xdg-open", "freebsd", file, "xdg-open", []string{dir}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, args := Command(tt.goos, tt.path)
			if name != tt.wantName || !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("got %s %v, want %s %v", name, args, tt.wantName, tt.wantArgs)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	var gotName string
	var gotArgs []string
	r := NewWithStarter("darwin", func(name string, args ...string) error {
		gotName, gotArgs = name, args
		return nil
	})

	dir := t.TempDir()
	if err := r.Open(dir); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if gotName != "open" || !reflect.DeepEqual(gotArgs, []string{dir}) {
		t.Errorf("started %s %v", gotName, gotArgs)
	}
}

func TestOpen_StartFailure(t *testing.T) {
	r := NewWithStarter("linux", func(string, ...string) error {
		return errors.New("executable file not found in $PATH")
	})

	if err := r.Open(t.TempDir()); !apperrors.IsKind(err, apperrors.KindIO) {
		t.Errorf("error = %v, want io", err)
	}
}
