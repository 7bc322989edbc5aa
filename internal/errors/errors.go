// Package errors defines the error taxonomy shared by every scanner operation.
//
// Each boundary operation fails with a single *AppError whose Kind tells the
// caller what went wrong: the codec could not interpret the bytes (KindDecode),
// the filesystem refused a read, write, stat or create (KindIO), a model fetch
// failed (KindDownload), a transform name was not recognized
// (KindUnknownAction), or the OCR engine could not be built (KindInference).
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind categorizes an AppError.
type Kind string

const (
	KindDecode        Kind = "decode"
	KindIO            Kind = "io"
	KindDownload      Kind = "download"
	KindUnknownAction Kind = "unknown_action"
	KindInference     Kind = "inference"
	KindValidation    Kind = "validation"
)

// AppError represents a structured application error
type AppError struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewDecodeError reports bytes the codec could not interpret as an image.
func NewDecodeError(message string, cause error) *AppError {
	return &AppError{Kind: KindDecode, Message: message, Cause: cause}
}

// NewIOError reports a filesystem read, write, stat or create failure.
func NewIOError(message string, cause error) *AppError {
	return &AppError{Kind: KindIO, Message: message, Cause: cause}
}

// NewDownloadError reports a model fetch that could not be started or failed.
func NewDownloadError(message string, cause error) *AppError {
	return &AppError{Kind: KindDownload, Message: message, Cause: cause}
}

// NewUnknownActionError reports a transform request outside the fixed action set.
func NewUnknownActionError(action string) *AppError {
	return &AppError{Kind: KindUnknownAction, Message: fmt.Sprintf("unknown action: %q", action)}
}

// NewInferenceError reports a model load or engine construction failure.
func NewInferenceError(message string, cause error) *AppError {
	return &AppError{Kind: KindInference, Message: message, Cause: cause}
}

// NewValidationError reports malformed arguments at a transport boundary.
func NewValidationError(message string, cause error) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Cause: cause}
}

// IsKind reports whether any error in err's chain is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// KindOf returns the kind of the first AppError in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// StatusCode maps an error to the HTTP status the transport should answer with.
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindValidation, KindUnknownAction:
		return http.StatusBadRequest
	case KindDecode:
		return http.StatusUnprocessableEntity
	case KindDownload:
		return http.StatusBadGateway
	case KindIO, KindInference:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
