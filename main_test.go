package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func newParser(t *testing.T, cli *CLI) *kong.Kong {
	t.Helper()
	parser, err := kong.New(cli, kong.Name("truthscore"), kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)
	return parser
}

func TestCLI_DefaultsToServe(t *testing.T) {
	var cli CLI
	ctx, err := newParser(t, &cli).Parse([]string{})
	require.NoError(t, err)
	assert.Equal(t, "serve", ctx.Command())
}

func TestCLI_Check(t *testing.T) {
	dir := t.TempDir()

	var cli CLI
	ctx, err := newParser(t, &cli).Parse([]string{"check", "--workers", "2", "--similar", "8", "--json", dir})
	require.NoError(t, err)
	assert.Contains(t, ctx.Command(), "check")
	assert.Equal(t, []string{dir}, cli.Check.Files)
	assert.Equal(t, 2, cli.Check.Workers)
	assert.Equal(t, 8, cli.Check.Similar)
	assert.True(t, cli.Check.JSON)
	assert.False(t, cli.Check.TUI)
}

func TestCLI_CheckDefaults(t *testing.T) {
	var cli CLI
	_, err := newParser(t, &cli).Parse([]string{"check", "a.jpg"})
	require.NoError(t, err)
	assert.Equal(t, 0, cli.Check.Workers, "0 means pick automatically")
	assert.Equal(t, -1, cli.Check.Similar)
}

func TestCLI_TextAndGlobalFlags(t *testing.T) {
	var cli CLI
	_, err := newParser(t, &cli).Parse([]string{"--verbose", "text", "the", "earth", "is", "flat"})
	require.NoError(t, err)
	assert.True(t, cli.Verbose)
	assert.Equal(t, []string{"the", "earth", "is", "flat"}, cli.Text.Text)
}

func TestNewAppContext(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("FACTCHECK_API_KEY", "")

	path := filepath.Join(t.TempDir(), "truthscore.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":9999\"\nlog:\n  level: error\n"), 0644))

	appCtx, err := newAppContext(&CLI{Config: path, Verbose: true})
	require.NoError(t, err)
	assert.Equal(t, Version, appCtx.Version)
	assert.Equal(t, ":9999", appCtx.Config.Server.Addr)
	assert.NotNil(t, appCtx.Logger)
	assert.True(t, appCtx.Logger.Core().Enabled(zapcore.DebugLevel), "--verbose turns on debug")

	_, err = newAppContext(&CLI{Config: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test
// (stand-in for testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
