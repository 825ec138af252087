// Package photo scores still images.
package photo

import (
	"context"
	"image"
	"strings"

	"go.uber.org/zap"

	"github.com/lepinkainen/truthscore/sharpness"
	"github.com/lepinkainen/truthscore/truth"
)

const (
	missingMetadataPenalty = 50
	editedPenalty          = 50
	lowResolutionPenalty   = 25
	lowDetailPenalty       = 25

	minDimension = 500

	// softwareTag is the EXIF field editing tools write their name into.
	softwareTag  = "Software"
	editorMarker = "Photoshop"
)

// Scorer computes the truthfulness score of a still image.
type Scorer struct {
	decoder   Decoder
	threshold float64
	variance  func(image.Image) float64
	logger    *zap.Logger
}

func laplacianOf(img image.Image) float64 {
	return sharpness.LaplacianVariance(sharpness.Grayscale(img))
}

// NewScorer creates a scorer reading files through decoder.
// A nil decoder means FileDecoder, a nil logger means zap.NewNop.
func NewScorer(decoder Decoder, logger *zap.Logger) *Scorer {
	if decoder == nil {
		decoder = FileDecoder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{
		decoder:   decoder,
		threshold: sharpness.DefaultThreshold,
		variance:  laplacianOf,
		logger:    logger,
	}
}

// Score decodes the image at path and scores it.
func (s *Scorer) Score(ctx context.Context, path string) (*truth.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sample, err := s.decoder.Decode(path)
	if err != nil {
		return nil, truth.Wrap(truth.KindDecode, "photo.score", "failed to decode image", err)
	}

	report := s.ScoreSample(sample)
	if fp, err := Fingerprint(sample.Image); err == nil {
		report.Fingerprint = fp
	} else {
		s.logger.Debug("perceptual hash failed", zap.String("path", path), zap.Error(err))
	}

	s.logger.Debug("image scored",
		zap.String("path", path),
		zap.Int("score", report.Score),
		zap.Int("width", sample.Width),
		zap.Int("height", sample.Height))

	return report, nil
}

// ScoreSample applies the deductions to an already decoded sample.
func (s *Scorer) ScoreSample(sample *Sample) *truth.Report {
	report := truth.NewReport(truth.CategoryImage)
	report.Width = sample.Width
	report.Height = sample.Height

	if len(sample.Metadata) == 0 {
		report.Deduct("no capture metadata", missingMetadataPenalty)
	} else {
		for tag, value := range sample.Metadata {
			if tag == softwareTag && strings.Contains(value, editorMarker) {
				report.Deduct("edited with "+value, editedPenalty)
			}
		}
	}

	if sample.Width < minDimension || sample.Height < minDimension {
		report.Deduct("low resolution", lowResolutionPenalty)
	}

	if sample.Image != nil {
		variance := s.variance(sample.Image)
		if sharpness.IsLowDetail(variance, s.threshold) {
			report.Deduct("lack of fine detail", lowDetailPenalty)
		}
	}

	return report.Finalize()
}
