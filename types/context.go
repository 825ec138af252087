package types

import (
	"go.uber.org/zap"

	"github.com/lepinkainen/truthscore/config"
)

// DefaultVersion is the fallback version when AppContext is nil
const DefaultVersion = "dev"

// AppContext holds application-wide context information passed to commands
type AppContext struct {
	Version string
	Config  *config.Config
	Logger  *zap.Logger
}

// VersionOrDefault returns the version of a possibly nil context.
func (a *AppContext) VersionOrDefault() string {
	if a == nil || a.Version == "" {
		return DefaultVersion
	}
	return a.Version
}

// LoggerOrNop returns the logger of a possibly nil context.
func (a *AppContext) LoggerOrNop() *zap.Logger {
	if a == nil || a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

// ConfigOrDefault returns the config of a possibly nil context.
func (a *AppContext) ConfigOrDefault() *config.Config {
	if a == nil || a.Config == nil {
		return config.Default()
	}
	return a.Config
}
