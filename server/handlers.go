package server

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lepinkainen/truthscore/analyze"
	"github.com/lepinkainen/truthscore/truth"
)

const (
	fileField = "file"
	textField = "text"
)

// Handler serves the form page and the JSON API on top of a Dispatcher.
type Handler struct {
	dispatcher *analyze.Dispatcher
	store      *DiskStore
	logger     *zap.Logger
}

// NewHandler builds a Handler.
func NewHandler(dispatcher *analyze.Dispatcher, store *DiskStore, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{dispatcher: dispatcher, store: store, logger: logger}
}

// Index renders the empty form.
func (h *Handler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{"result": ""})
}

// Submit handles the form post and renders the page with the result.
// Analysis failures are shown on the page, never as an error status.
func (h *Handler) Submit(c *gin.Context) {
	outcome, tooLarge := h.process(c)
	status := http.StatusOK
	if tooLarge {
		status = http.StatusRequestEntityTooLarge
	}
	c.HTML(status, "index.html", gin.H{"result": outcome.Message})
}

// Analyze is the JSON variant of Submit.
func (h *Handler) Analyze(c *gin.Context) {
	outcome, tooLarge := h.process(c)
	if outcome.OK() {
		RespondSuccess(c, http.StatusOK, outcome, outcome.Message)
		return
	}

	status := statusFor(outcome.Err)
	if tooLarge {
		status = http.StatusRequestEntityTooLarge
	}
	RespondError(c, status, outcome.Message, gin.H{
		"kind":     truth.KindOf(outcome.Err),
		"category": outcome.Category,
	})
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	RespondSuccess(c, http.StatusOK, gin.H{"status": "ok"}, "")
}

// process applies the dispatch priority: a named file part, then the text
// field, then the no-content placeholder.
func (h *Handler) process(c *gin.Context) (analyze.Outcome, bool) {
	ctx := c.Request.Context()

	fh, err := c.FormFile(fileField)
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		h.logger.Warn("upload rejected",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Int64("limit", maxErr.Limit))
		return analyze.Outcome{
			Message: truth.MsgTooLarge,
			Err:     truth.Wrap(truth.KindDecode, "server.upload", "request body too large", err),
		}, true
	case err == nil && fh.Filename != "":
		if path, ok := h.store.PathFor(fh.Filename); ok {
			return h.processFile(c, fh, path), false
		}
	}

	if text := c.PostForm(textField); text != "" {
		return h.dispatcher.Text(ctx, text), false
	}

	return analyze.NoContent(), false
}

func (h *Handler) processFile(c *gin.Context, fh *multipart.FileHeader, path string) analyze.Outcome {
	if err := c.SaveUploadedFile(fh, path); err != nil {
		h.logger.Error("failed to save upload", zap.String("path", path), zap.Error(err))
		return analyze.Outcome{
			Message: truth.MsgDecodeFailed,
			Err:     truth.Wrap(truth.KindDecode, "server.upload", "failed to save upload", err),
		}
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		if sniffed, err := analyze.DetectContentType(path); err == nil {
			contentType = sniffed
		}
	}

	h.logger.Debug("upload saved",
		zap.String("request_id", c.GetString(requestIDKey)),
		zap.String("path", path),
		zap.String("content_type", contentType),
		zap.Int64("size", fh.Size))

	outcome := h.dispatcher.File(c.Request.Context(), path, contentType)
	if truth.IsKind(outcome.Err, truth.KindUnsupportedFormat) {
		if err := h.store.Remove(path); err != nil {
			h.logger.Warn("failed to remove unsupported upload", zap.String("path", path), zap.Error(err))
		}
	}
	return outcome
}

// statusFor maps an analysis error to an API status. Scorer failures stay in the 4xx range.
func statusFor(err error) int {
	switch truth.KindOf(err) {
	case truth.KindEmptyInput:
		return http.StatusBadRequest
	case truth.KindUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case truth.KindNetwork, truth.KindFormat, truth.KindConfig:
		return http.StatusFailedDependency
	default:
		return http.StatusUnprocessableEntity
	}
}
