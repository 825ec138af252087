package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/lepinkainen/truthscore/cmd"
	"github.com/lepinkainen/truthscore/config"
	"github.com/lepinkainen/truthscore/types"
	"github.com/lepinkainen/truthscore/utils"
)

var Version = "dev"

type CLI struct {
	Verbose bool   `short:"v" help:"Enable debug logging"`
	Config  string `help:"Path to a YAML config file" type:"path" env:"TRUTHSCORE_CONFIG"`

	Serve cmd.ServeCmd `cmd:"" default:"1" help:"Run the web front-end"`
	Check cmd.CheckCmd `cmd:"" help:"Score local images and videos"`
	Text  cmd.TextCmd  `cmd:"" help:"Verify a claim against the fact-check service"`
}

// newAppContext loads the config and builds the logger shared by all commands.
func newAppContext(cli *CLI) (*types.AppContext, error) {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Log.Level
	if cli.Verbose {
		level = "debug"
	}
	logger, err := utils.NewLogger(level, cli.Verbose || cfg.Log.Development)
	if err != nil {
		return nil, err
	}

	return &types.AppContext{
		Version: Version,
		Config:  cfg,
		Logger:  logger,
	}, nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("truthscore"),
		kong.Description("Heuristic truthfulness scores for images, videos and text."),
		kong.UsageOnError(),
	)

	appCtx, err := newAppContext(&cli)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = appCtx.Logger.Sync() }()

	err = ctx.Run(appCtx)
	ctx.FatalIfErrorf(err)
}
