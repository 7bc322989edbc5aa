// Package reveal shows a file in the platform's file manager.
package reveal

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	apperrors "github.com/skdsam/image-scanner/internal/errors"
)

// Starter launches a process without waiting for it to exit.
type Starter func(name string, args ...string) error

// StartProcess is the default Starter.
func StartProcess(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	// Reap the child once it exits.
	go cmd.Wait()
	return nil
}

// Revealer opens file manager windows.
type Revealer struct {
	goos  string
	start Starter
}

// New creates a Revealer for the running platform.
func New() *Revealer {
	return &Revealer{goos: runtime.GOOS, start: StartProcess}
}

// NewWithStarter creates a Revealer for goos that launches through start.
func NewWithStarter(goos string, start Starter) *Revealer {
	return &Revealer{goos: goos, start: start}
}

// Command returns the program and arguments that reveal path on goos.
// Windows selects the file in Explorer; elsewhere the containing directory
// is opened (path itself when it is not a regular file).
func Command(goos, path string) (string, []string) {
	if goos == "windows" {
		return "explorer", []string{"/select,", path}
	}

	dir := path
	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		dir = filepath.Dir(path)
	}
	if goos == "darwin" {
		return "open", []string{dir}
	}
	return "xdg-open", []string{dir}
}

// Open reveals path. The launched process is not awaited; failure to start
// it is an IO error.
func (r *Revealer) Open(path string) error {
	name, args := Command(r.goos, path)
	if err := r.start(name, args...); err != nil {
		return apperrors.NewIOError("failed to open "+name, err)
	}
	return nil
}
