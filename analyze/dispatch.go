// Package analyze routes uploaded content to the matching scorer and turns
// the result into the message shown to the caller.
package analyze

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/lepinkainen/truthscore/truth"
)

// ImageScorer scores a still image on disk.
type ImageScorer interface {
	Score(ctx context.Context, path string) (*truth.Report, error)
}

// VideoScorer scores a video file on disk.
type VideoScorer interface {
	Score(ctx context.Context, path string) (*truth.Report, error)
}

// TextVerifier looks up free text against a claim database.
type TextVerifier interface {
	Verify(ctx context.Context, text string) (string, error)
}

// Outcome is the result of one dispatch. Message is always set.
type Outcome struct {
	Category truth.Category `json:"category,omitempty"`
	Report   *truth.Report  `json:"report,omitempty"`
	Verdict  string         `json:"verdict,omitempty"`
	Message  string         `json:"message"`
	Err      error          `json:"-"`
}

// OK reports whether the content was analyzed without error.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Dispatcher picks a scorer by content type.
type Dispatcher struct {
	Images   ImageScorer
	Videos   VideoScorer
	Verifier TextVerifier
	Logger   *zap.Logger
}

// NewDispatcher wires the three collaborators together.
func NewDispatcher(images ImageScorer, videos VideoScorer, text TextVerifier, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{Images: images, Videos: videos, Verifier: text, Logger: logger}
}

// File scores the file at path according to the declared content type prefix.
func (d *Dispatcher) File(ctx context.Context, path, contentType string) Outcome {
	var (
		category truth.Category
		scorer   interface {
			Score(ctx context.Context, path string) (*truth.Report, error)
		}
	)

	switch {
	case strings.HasPrefix(contentType, "image") && d.Images != nil:
		category, scorer = truth.CategoryImage, d.Images
	case strings.HasPrefix(contentType, "video") && d.Videos != nil:
		category, scorer = truth.CategoryVideo, d.Videos
	default:
		err := truth.New(truth.KindUnsupportedFormat, "analyze.file",
			"unsupported content type "+contentType)
		return d.failed("", path, err)
	}

	report, err := scorer.Score(ctx, path)
	if err != nil {
		return d.failed(category, path, err)
	}

	d.Logger.Info("file analyzed",
		zap.String("path", path),
		zap.String("category", string(category)),
		zap.Int("score", report.Score))

	return Outcome{
		Category: category,
		Report:   report,
		Message:  report.Message(),
	}
}

// Text verifies free text. Blank input is an empty_input error.
func (d *Dispatcher) Text(ctx context.Context, text string) Outcome {
	if strings.TrimSpace(text) == "" {
		return d.failed(truth.CategoryText, "", truth.New(truth.KindEmptyInput, "analyze.text", "no text provided"))
	}
	if d.Verifier == nil {
		return d.failed(truth.CategoryText, "", truth.New(truth.KindConfig, "analyze.text", "no text verifier configured"))
	}

	verdict, err := d.Verifier.Verify(ctx, text)
	if err != nil {
		return d.failed(truth.CategoryText, "", err)
	}

	d.Logger.Info("text analyzed", zap.Int("length", len(text)))

	// The placeholder is shown as is, without the text template around it.
	message := verdict
	if verdict != truth.MsgNoVerification {
		message = truth.TextMessage(verdict)
	}
	return Outcome{
		Category: truth.CategoryText,
		Verdict:  verdict,
		Message:  message,
	}
}

// NoContent is the outcome when a request carries neither a file nor text.
func NoContent() Outcome {
	return Outcome{
		Message: truth.MsgNoContent,
		Err:     truth.New(truth.KindEmptyInput, "analyze", "no file or text provided"),
	}
}

func (d *Dispatcher) failed(category truth.Category, path string, err error) Outcome {
	d.Logger.Warn("analysis failed",
		zap.String("path", path),
		zap.String("category", string(category)),
		zap.String("kind", string(truth.KindOf(err))),
		zap.Error(err))

	return Outcome{
		Category: category,
		Message:  truth.UserMessage(err),
		Err:      err,
	}
}
