// Package server exposes the analyzers over HTTP: an HTML form and a JSON API.
package server

import (
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lepinkainen/truthscore/analyze"
	"github.com/lepinkainen/truthscore/config"
)

//go:embed templates/*.html
var templatesFS embed.FS

// UploadsPrefix is where saved image and video uploads are served back as downloads.
const UploadsPrefix = "/static/uploads"

// Options configures the router builder.
type Options struct {
	Config     *config.Config
	Logger     *zap.Logger
	Dispatcher *analyze.Dispatcher
}

// Router bundles the gin engine and its API group.
type Router struct {
	Engine *gin.Engine
	API    *gin.RouterGroup
}

// Build constructs a gin engine with recovery, request ids, access logging,
// the upload limit and CORS on the API group.
func Build(opts Options) (*Router, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("http router requires config")
	}
	if opts.Dispatcher == nil {
		return nil, fmt.Errorf("http router requires a dispatcher")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := opts.Config

	if gin.Mode() != gin.TestMode {
		if cfg.Log.Level == "debug" {
			gin.SetMode(gin.DebugMode)
		} else {
			gin.SetMode(gin.ReleaseMode)
		}
	}

	store, err := NewDiskStore(cfg.Server.UploadDir)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	engine := gin.New()
	engine.Use(requestIDMiddleware())
	engine.Use(recoveryMiddleware(logger))
	engine.Use(loggingMiddleware(logger))

	if err := engine.SetTrustedProxies(nil); err != nil {
		return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
	}
	engine.MaxMultipartMemory = 8 << 20
	engine.SetHTMLTemplate(tmpl)

	engine.Use(uploadsGuardMiddleware(UploadsPrefix))
	engine.Use(static.Serve(UploadsPrefix, static.LocalFile(cfg.Server.UploadDir, false)))

	handler := NewHandler(opts.Dispatcher, store, logger)
	limit := bodyLimitMiddleware(cfg.MaxUploadBytes())

	engine.GET("/", handler.Index)
	engine.POST("/", limit, handler.Submit)
	engine.GET("/healthz", handler.Health)

	api := engine.Group("/api")
	api.Use(cors.New(corsConfig(cfg.Server.CORSOrigins)))
	api.POST("/analyze", limit, handler.Analyze)
	// cors answers preflights before this handler runs
	api.OPTIONS("/analyze", func(c *gin.Context) {})

	return &Router{
		Engine: engine,
		API:    api,
	}, nil
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}
