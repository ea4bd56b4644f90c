package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sentimeter-team/sentimeter/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg             *config.Config
	documentHandler *Document
	audioHandler    *Audio
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, documentHandler *Document, audioHandler *Audio) *Router {
	return &Router{
		cfg:             cfg,
		documentHandler: documentHandler,
		audioHandler:    audioHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupAnalysisRoutes(v1)
}

// setupAnalysisRoutes configures the two analysis channels
func (rt *Router) setupAnalysisRoutes(g *echo.Group) {
	printMedia := g.Group("/print-media")
	if rt.documentHandler != nil {
		printMedia.POST("/analyze", rt.documentHandler.Analyze)
	} else {
		printMedia.POST("/analyze", rt.notImplemented)
	}

	audioGroup := g.Group("/audio")
	if rt.audioHandler != nil {
		audioGroup.POST("/analyze", rt.audioHandler.Analyze)
	} else {
		audioGroup.POST("/analyze", rt.notImplemented)
	}
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":   "This endpoint is not yet implemented",
		"path":    c.Request().URL.Path,
		"method":  c.Request().Method,
		"message": "Please initialize the required handler in main.go",
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
