package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/lepinkainen/truthscore/server"
	"github.com/lepinkainen/truthscore/types"
	"github.com/lepinkainen/truthscore/ui"
	"github.com/lepinkainen/truthscore/utils"
)

// ServeCmd runs the web front-end.
type ServeCmd struct {
	Addr      string `help:"Address to listen on (overrides config)"`
	UploadDir string `help:"Directory for uploaded files (overrides config)" type:"path"`
}

func (cmd *ServeCmd) Run(appCtx *types.AppContext) error {
	cfg := appCtx.ConfigOrDefault()
	logger := appCtx.LoggerOrNop()

	if cmd.Addr != "" {
		cfg.Server.Addr = cmd.Addr
	}
	if cmd.UploadDir != "" {
		cfg.Server.UploadDir = cmd.UploadDir
	}

	// Images still work without ffmpeg, so this only warns
	if err := utils.ValidateFFmpegDependencies(); err != nil {
		logger.Warn("video scoring disabled", zap.Error(err))
		fmt.Fprintf(os.Stderr, "⚠️  %v\n", err)
	}
	if cfg.FactCheck.APIKey == "" {
		logger.Warn("fact-check API key not configured, text verification will fail")
	}

	router, err := server.Build(server.Options{
		Config:     cfg,
		Logger:     logger,
		Dispatcher: newDispatcher(appCtx),
	})
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Println(ui.HeaderStyle.Render(fmt.Sprintf("TruthScore %s", appCtx.VersionOrDefault())))
	fmt.Println(ui.InfoStyle.Render(fmt.Sprintf("Listening on %s, uploads in %s", cfg.Server.Addr, cfg.Server.UploadDir)))

	if err := server.Serve(ctx, cfg.Server.Addr, router.Engine, logger); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
