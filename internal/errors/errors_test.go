package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	cause := fmt.Errorf("permission denied")

	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{"with cause", NewIOError("failed to create cache dir", cause), "io: failed to create cache dir (caused by: permission denied)"},
		{"without cause", NewUnknownActionError("spin"), `unknown_action: unknown action: "spin"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error(): got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsKind_Wrapped(t *testing.T) {
	base := NewDecodeError("not an image", nil)
	wrapped := fmt.Errorf("scan failed: %w", base)

	if !IsKind(wrapped, KindDecode) {
		t.Error("IsKind should see through fmt.Errorf wrapping")
	}
	if IsKind(wrapped, KindIO) {
		t.Error("IsKind reported the wrong kind")
	}
	if IsKind(stderrors.New("plain"), KindDecode) {
		t.Error("plain errors have no kind")
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("exit status 1")
	err := NewDownloadError("failed to fetch model", cause)
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should reach the cause")
	}
	if !strings.Contains(err.Error(), "exit status 1") {
		t.Errorf("message should include cause, got %q", err.Error())
	}
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NewValidationError("path is required", nil), http.StatusBadRequest},
		{NewUnknownActionError("x"), http.StatusBadRequest},
		{NewDecodeError("bad", nil), http.StatusUnprocessableEntity},
		{NewDownloadError("bad", nil), http.StatusBadGateway},
		{NewIOError("bad", nil), http.StatusInternalServerError},
		{NewInferenceError("bad", nil), http.StatusInternalServerError},
		{stderrors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := StatusCode(tt.err); got != tt.want {
			t.Errorf("StatusCode(%v): got %d, want %d", tt.err, got, tt.want)
		}
	}
}
