package cmd

import (
	"github.com/lepinkainen/truthscore/analyze"
	"github.com/lepinkainen/truthscore/factcheck"
	"github.com/lepinkainen/truthscore/photo"
	"github.com/lepinkainen/truthscore/types"
	"github.com/lepinkainen/truthscore/video"
)

// newDispatcher wires the production scorers from the application config.
func newDispatcher(appCtx *types.AppContext) *analyze.Dispatcher {
	cfg := appCtx.ConfigOrDefault()
	logger := appCtx.LoggerOrNop()

	return analyze.NewDispatcher(
		photo.NewScorer(photo.FileDecoder{}, logger),
		video.NewScorer(video.FFmpegOpener{}, logger),
		factcheck.NewClient(factcheck.Options{
			Endpoint: cfg.FactCheck.Endpoint,
			APIKey:   cfg.FactCheck.APIKey,
			Timeout:  cfg.FactCheck.Timeout,
			Logger:   logger,
		}),
		logger,
	)
}
