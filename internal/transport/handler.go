// Package transport exposes the scanner as a local JSON-over-HTTP API for the
// desktop shell.
package transport

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/skdsam/image-scanner/internal/catalog"
	apperrors "github.com/skdsam/image-scanner/internal/errors"
	"github.com/skdsam/image-scanner/internal/imaging"
	"github.com/skdsam/image-scanner/internal/logger"
)

// maxRequestBytes caps JSON request bodies. Requests carry paths, not pixels.
const maxRequestBytes = 1 << 20

const requestIDHeader = "X-Request-ID"

// Scanner is the set of operations served over HTTP.
type Scanner interface {
	ExtractMetadata(path string) (*imaging.ImageRecord, error)
	ListImages(dir string, recursive bool) ([]catalog.Entry, error)
	FilterImages(dir string, recursive bool, query, format string) ([]catalog.Entry, error)
	Thumbnail(path string) (string, error)
	FocusHeatmap(path string) (string, error)
	FocusScore(path string) (float64, error)
	Transform(path, action string) error
	RecognizeText(ctx context.Context, path string) (string, error)
	OpenContainingLocation(path string) error
	ExportPalette(path, format string) (string, error)
}

type PathRequest struct {
	Path string `json:"path" binding:"required"`
}

type ListRequest struct {
	Path      string `json:"path" binding:"required"`
	// Recursive descends into subdirectories. Omitted means true.
	Recursive *bool  `json:"recursive,omitempty"`
	Query     string `json:"query,omitempty"`
	Format    string `json:"format,omitempty"`
}

type TransformRequest struct {
	Path   string `json:"path" binding:"required"`
	Action string `json:"action" binding:"required"`
}

type PaletteRequest struct {
	Path   string `json:"path" binding:"required"`
	Format string `json:"format,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewHandler builds the gin engine. OCR requests run under requestTimeout;
// zero means unbounded.
func NewHandler(s Scanner, version string, requestTimeout time.Duration) http.Handler {
	r := gin.New()

	r.Use(
		gin.Recovery(),
		requestID(),
		requestLogger(),
		requestSizeLimiter(maxRequestBytes),
	)

	r.GET("/health", healthCheck(version))

	v1 := r.Group("/v1")
	v1.POST("/scan", scanImage(s))
	v1.POST("/list", listImages(s))
	v1.POST("/thumbnail", thumbnail(s))
	v1.POST("/heatmap", focusHeatmap(s))
	v1.POST("/focus-score", focusScore(s))
	v1.POST("/transform", transformImage(s))
	v1.POST("/ocr", recognizeText(s, requestTimeout))
	v1.POST("/reveal", reveal(s))
	v1.POST("/palette", exportPalette(s))

	return r
}

func scanImage(s Scanner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PathRequest
		if !bind(c, &req) {
			return
		}
		record, err := s.ExtractMetadata(req.Path)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, record)
	}
}

// listImages lists a directory, narrowing by query and format when either is
// set. Recursion defaults to on.
func listImages(s Scanner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ListRequest
		if !bind(c, &req) {
			return
		}
		recursive := req.Recursive == nil || *req.Recursive

		var entries []catalog.Entry
		var err error
		if req.Query != "" || req.Format != "" {
			entries, err = s.FilterImages(req.Path, recursive, req.Query, req.Format)
		} else {
			entries, err = s.ListImages(req.Path, recursive)
		}
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"images": entries, "count": len(entries)})
	}
}

func thumbnail(s Scanner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PathRequest
		if !bind(c, &req) {
			return
		}
		path, err := s.Thumbnail(req.Path)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"source": req.Path, "artifact": path})
	}
}

func focusHeatmap(s Scanner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PathRequest
		if !bind(c, &req) {
			return
		}
		path, err := s.FocusHeatmap(req.Path)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"source": req.Path, "artifact": path})
	}
}

func focusScore(s Scanner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PathRequest
		if !bind(c, &req) {
			return
		}
		score, err := s.FocusScore(req.Path)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"path": req.Path, "focus_score": score})
	}
}

func transformImage(s Scanner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TransformRequest
		if !bind(c, &req) {
			return
		}
		if err := s.Transform(req.Path, req.Action); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"path": req.Path, "action": req.Action, "ok": true})
	}
}

func recognizeText(s Scanner, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PathRequest
		if !bind(c, &req) {
			return
		}

		ctx := c.Request.Context()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		startTime := time.Now()
		text, err := s.RecognizeText(ctx, req.Path)
		if err != nil {
			respondError(c, err)
			return
		}

		logger.WithFields(logrus.Fields{
			"request_id":         c.GetString("request_id"),
			"path":               req.Path,
			"processing_time_ms": time.Since(startTime).Milliseconds(),
		}).Info("Text recognition completed")

		c.JSON(http.StatusOK, gin.H{"path": req.Path, "text": text})
	}
}

func reveal(s Scanner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PathRequest
		if !bind(c, &req) {
			return
		}
		if err := s.OpenContainingLocation(req.Path); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"path": req.Path, "ok": true})
	}
}

func exportPalette(s Scanner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PaletteRequest
		if !bind(c, &req) {
			return
		}
		out, err := s.ExportPalette(req.Path, req.Format)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"path": req.Path, "format": req.Format, "palette": out})
	}
}

func healthCheck(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "available",
			"version": version,
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// bind decodes the JSON body into req, answering 400 on failure.
func bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, apperrors.NewValidationError("invalid request format", err))
		return false
	}
	return true
}

// Middleware and helper functions

// requestID tags each request with an id, reusing one supplied by the caller.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithFields(logrus.Fields{
			"request_id":  c.GetString("request_id"),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": c.Writer.Status(),
			"duration":    time.Since(start).String(),
		}).Info("Request handled")
	}
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func determineStatusCode(err error) int {
	if apperrors.KindOf(err) != "" {
		return apperrors.StatusCode(err)
	}

	// Fallback to context-based errors
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	code := determineStatusCode(err)
	kind := string(apperrors.KindOf(err))
	if kind == "" {
		kind = http.StatusText(code)
	}

	logger.WithError(err).WithFields(logrus.Fields{
		"request_id":  c.GetString("request_id"),
		"status_code": code,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, ErrorResponse{
		Error:   kind,
		Message: err.Error(),
	})
}
