package routes

import (
	"github.com/Ajasmt08/Asset-Bundler-Pro/cmd/bundler/handlers"
	"github.com/labstack/echo/v4"
)

// RegisterSearchRoutes registers image-search routes
func RegisterSearchRoutes(g *echo.Group, handler *handlers.SearchHandler) {
	// GET /api/v1/images - Fetch one merged page of images for a topic
	g.GET("/images", handler.GetImages)
}
