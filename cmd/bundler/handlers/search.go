package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Ajasmt08/Asset-Bundler-Pro/cmd/bundler/models"
	"github.com/Ajasmt08/Asset-Bundler-Pro/cmd/bundler/service"
	"github.com/Ajasmt08/Asset-Bundler-Pro/common/bootstrap"
	"github.com/labstack/echo/v4"
)

// ImageSearcher runs one planning+fetch round
type ImageSearcher interface {
	Search(ctx context.Context, query string, totalCount, cumulativeOffset int) (*models.SearchResult, error)
}

// SearchHandler handles image search requests
type SearchHandler struct {
	components *bootstrap.Components
	searchSvc  ImageSearcher
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(components *bootstrap.Components, searchSvc ImageSearcher) *SearchHandler {
	return &SearchHandler{
		components: components,
		searchSvc:  searchSvc,
	}
}

// GetImages fetches one merged page of images for a topic
// GET /api/v1/images?topic=shoes&limit=10&offset=0
func (h *SearchHandler) GetImages(c echo.Context) error {
	topic := strings.TrimSpace(c.QueryParam("topic"))
	if topic == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "topic is required")
	}

	limit, err := queryInt(c, "limit", 10)
	if err != nil || limit < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
	}

	offset, err := queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "offset must be a non-negative integer")
	}

	result, err := h.searchSvc.Search(c.Request().Context(), topic, limit, offset)
	if err != nil {
		var noResults *service.NoResultsError
		if errors.As(err, &noResults) {
			return echo.NewHTTPError(http.StatusNotFound, noResults.Error())
		}
		h.components.Logger.Error("image search failed", "topic", topic, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "image search failed")
	}

	return c.JSON(http.StatusOK, result)
}

func queryInt(c echo.Context, name string, defaultValue int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(raw)
}
