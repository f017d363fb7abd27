package routes

import (
	"github.com/Ajasmt08/Asset-Bundler-Pro/cmd/bundler/handlers"
	"github.com/labstack/echo/v4"
)

// RegisterBundleRoutes registers archive-creation routes
func RegisterBundleRoutes(g *echo.Group, handler *handlers.BundleHandler) {
	// POST /api/v1/bundles - Create persisted archive(s), return manifest
	g.POST("/bundles", handler.CreateBundle)

	// POST /api/v1/bundles/download - Stream a single archive immediately
	g.POST("/bundles/download", handler.DownloadBundle)
}
