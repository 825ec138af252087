// Package video scores video files by their frame statistics.
package video

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/lepinkainen/truthscore/photo"
	"github.com/lepinkainen/truthscore/sharpness"
	"github.com/lepinkainen/truthscore/truth"
)

const (
	shortVideoPenalty   = 50
	lowFrameRatePenalty = 25
	lowDetailFrameCost  = 1

	minFrameCount = 100
	minFrameRate  = 24.0
)

var (
	// ErrZeroFrameRate is returned for streams without a usable frame rate.
	ErrZeroFrameRate = truth.New(truth.KindDecode, "video.score", "video reports a frame rate of zero")
	// ErrNoFrames is returned when decoding yields no frame at all.
	ErrNoFrames = truth.New(truth.KindDecode, "video.score", "video contains no decodable frames")
)

// Scorer computes the truthfulness score of a video.
type Scorer struct {
	opener    Opener
	threshold float64
	logger    *zap.Logger
}

// NewScorer creates a scorer. A nil opener means FFmpegOpener, a nil logger means zap.NewNop.
func NewScorer(opener Opener, logger *zap.Logger) *Scorer {
	if opener == nil {
		opener = FFmpegOpener{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{
		opener:    opener,
		threshold: sharpness.DefaultThreshold,
		logger:    logger,
	}
}

// Score opens the video at path and scores every frame.
func (s *Scorer) Score(ctx context.Context, path string) (*truth.Report, error) {
	src, err := s.opener.Open(ctx, path)
	if err != nil {
		return nil, truth.Wrap(truth.KindDecode, "video.open", "failed to open video", err)
	}
	defer func() { _ = src.Close() }()

	info := src.Info()
	if info.FrameRate <= 0 {
		return nil, ErrZeroFrameRate
	}

	report := truth.NewReport(truth.CategoryVideo)
	report.Width = info.Width
	report.Height = info.Height

	if info.FrameCount < minFrameCount {
		report.Deduct("too short", shortVideoPenalty)
	}
	if info.FrameRate < minFrameRate {
		report.Deduct("low frame rate", lowFrameRatePenalty)
	}

	frames, lowDetail := 0, 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		frame, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, truth.Wrap(truth.KindDecode, "video.frame", fmt.Sprintf("failed to decode frame %d", frames+1), err)
		}

		frames++
		if frames == 1 {
			if fp, err := photo.Fingerprint(frame); err == nil {
				report.Fingerprint = fp
			}
		}
		if sharpness.IsLowDetail(sharpness.LaplacianVariance(frame), s.threshold) {
			lowDetail++
		}
	}

	if frames == 0 {
		return nil, ErrNoFrames
	}
	report.Deduct(fmt.Sprintf("%d low-detail frames", lowDetail), lowDetail*lowDetailFrameCost)
	report.Finalize()

	s.logger.Debug("video scored",
		zap.String("path", path),
		zap.Int("score", report.Score),
		zap.Int("frames", frames),
		zap.Int("low_detail_frames", lowDetail),
		zap.Float64("fps", info.FrameRate))

	return report, nil
}
