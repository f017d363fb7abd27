package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/Ajasmt08/Asset-Bundler-Pro/cmd/bundler/container"
	"github.com/Ajasmt08/Asset-Bundler-Pro/cmd/bundler/handlers"
	"github.com/Ajasmt08/Asset-Bundler-Pro/cmd/bundler/routes"
	"github.com/Ajasmt08/Asset-Bundler-Pro/common/bootstrap"
	"github.com/Ajasmt08/Asset-Bundler-Pro/common/server"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	ctx := context.Background()

	// Bootstrap common components (config, logger, DB, telemetry)
	components, err := bootstrap.Setup(ctx, "bundler")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap bundler: %v\n", err)
		os.Exit(1)
	}
	defer components.Shutdown(ctx)

	// Initialize service container (singleton pattern - all services created once)
	serviceContainer, err := container.NewContainer(components)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize service container: %v\n", err)
		os.Exit(1)
	}

	// Initialize Echo server
	e := setupEcho()

	// Setup middleware
	setupMiddleware(e)

	// Setup health check
	setupHealthCheck(e)

	// Persisted archives are served straight from the output directory
	e.Static("/downloads", components.Config.Bundler.OutputDir)

	// Register all routes
	registerRoutes(e, serviceContainer)

	// Start server with graceful shutdown
	srv := server.New("bundler", components.Config.Service.Port, e, components.Logger)
	if err := srv.Start(); err != nil {
		components.Logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}

// setupEcho initializes the Echo server with basic configuration
func setupEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &requestValidator{validate: validator.New()}
	return e
}

// setupMiddleware configures all middleware for the Echo server
func setupMiddleware(e *echo.Echo) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
}

// setupHealthCheck registers the health check endpoint
func setupHealthCheck(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "ok",
			"service": "bundler",
		})
	})
}

// registerRoutes registers all application routes using the service container
func registerRoutes(e *echo.Echo, serviceContainer *container.Container) {
	api := e.Group("/api/v1")

	searchHandler := handlers.NewSearchHandler(serviceContainer.Components, serviceContainer.SearchService)
	bundleHandler := handlers.NewBundleHandler(serviceContainer.Components, serviceContainer.BatchOrchestrator, serviceContainer.BundleService)

	routes.RegisterSearchRoutes(api, searchHandler)
	routes.RegisterBundleRoutes(api, bundleHandler)
}

// requestValidator adapts go-playground/validator to echo's Validator
type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
