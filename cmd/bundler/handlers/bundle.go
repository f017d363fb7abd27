package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Ajasmt08/Asset-Bundler-Pro/cmd/bundler/models"
	"github.com/Ajasmt08/Asset-Bundler-Pro/cmd/bundler/service"
	"github.com/Ajasmt08/Asset-Bundler-Pro/common/bootstrap"
	"github.com/labstack/echo/v4"
)

// BundleOrchestrator drives bundle jobs, batching oversized selections
type BundleOrchestrator interface {
	BundleAll(ctx context.Context, imageURLs []string, baseName string) (*models.BatchManifest, error)
}

// ArchiveStager produces a temporary archive for streamed delivery
type ArchiveStager interface {
	StageArchive(ctx context.Context, imageURLs []string, baseName string) (*models.BundleResult, error)
}

// BundleRequest is the body of both bundle endpoints
type BundleRequest struct {
	Images  []string `json:"images" validate:"required,min=1,dive,required,url"`
	ZipName string   `json:"zip_name"`
}

// BundleHandler handles archive-creation requests
type BundleHandler struct {
	components   *bootstrap.Components
	orchestrator BundleOrchestrator
	stager       ArchiveStager
}

// NewBundleHandler creates a new bundle handler
func NewBundleHandler(components *bootstrap.Components, orchestrator BundleOrchestrator, stager ArchiveStager) *BundleHandler {
	return &BundleHandler{
		components:   components,
		orchestrator: orchestrator,
		stager:       stager,
	}
}

// CreateBundle bundles the selected images into one or more persisted
// archives and returns the manifest
// POST /api/v1/bundles
func (h *BundleHandler) CreateBundle(c echo.Context) error {
	req, err := h.bindBundleRequest(c)
	if err != nil {
		return err
	}

	baseName := archiveBaseName(req.ZipName)

	h.components.Logger.Info("creating bundle",
		"base_name", baseName,
		"images", len(req.Images),
	)

	manifest, err := h.orchestrator.BundleAll(c.Request().Context(), req.Images, baseName)
	if err != nil {
		return h.mapBundleError(err, baseName)
	}

	return c.JSON(http.StatusCreated, manifest)
}

// DownloadBundle bundles the selected images into a single archive and
// streams it to the caller, then removes the staging file
// POST /api/v1/bundles/download
func (h *BundleHandler) DownloadBundle(c echo.Context) error {
	req, err := h.bindBundleRequest(c)
	if err != nil {
		return err
	}

	baseName := archiveBaseName(req.ZipName)

	h.components.Logger.Info("streaming bundle",
		"base_name", baseName,
		"images", len(req.Images),
	)

	result, err := h.stager.StageArchive(c.Request().Context(), req.Images, baseName)
	if err != nil {
		return h.mapBundleError(err, baseName)
	}
	defer os.Remove(result.Path)

	c.Response().Header().Set(echo.HeaderContentType, "application/zip")
	return c.Attachment(result.Path, result.Filename)
}

func (h *BundleHandler) bindBundleRequest(c echo.Context) (*BundleRequest, error) {
	req := new(BundleRequest)
	if err := c.Bind(req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid request body, expected JSON with an images array")
	}
	if err := c.Validate(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (h *BundleHandler) mapBundleError(err error, baseName string) error {
	var batchErr *service.BatchFailedError
	if errors.Is(err, service.ErrEmptyBundle) || errors.As(err, &batchErr) {
		h.components.Logger.Warn("bundle produced no usable archive", "base_name", baseName, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	h.components.Logger.Error("bundle creation failed", "base_name", baseName, "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "failed to create bundle")
}

// archiveBaseName derives the archive base name, defaulting to
// selected_images_<unix ts> and stripping any path components
func archiveBaseName(zipName string) string {
	if zipName == "" {
		return fmt.Sprintf("selected_images_%d", time.Now().Unix())
	}
	return filepath.Base(zipName)
}
