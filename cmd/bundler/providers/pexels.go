package providers

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Ajasmt08/Asset-Bundler-Pro/cmd/bundler/models"
	"github.com/Ajasmt08/Asset-Bundler-Pro/common/clients"
	"github.com/tidwall/gjson"
)

const pexelsBaseURL = "https://api.pexels.com/v1"

// Pexels adapts the Pexels photo search API.
// Auth is the raw API key in the Authorization header.
type Pexels struct {
	apiKey  string
	baseURL string
	client  clients.Fetcher
}

// NewPexels creates a Pexels adapter
func NewPexels(apiKey string, client clients.Fetcher) *Pexels {
	return &Pexels{
		apiKey:  apiKey,
		baseURL: pexelsBaseURL,
		client:  client,
	}
}

// Name returns the provider identifier
func (p *Pexels) Name() string {
	return "pexels"
}

// Fetch requests one page of search results
func (p *Pexels) Fetch(ctx context.Context, query string, count, page int) ([]models.ImageRef, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", fmt.Sprintf("%d", count))
	params.Set("page", fmt.Sprintf("%d", page))

	endpoint := fmt.Sprintf("%s/search?%s", p.baseURL, params.Encode())
	body, err := p.client.Get(ctx, endpoint, map[string]string{
		"Authorization": p.apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("pexels search: %w", err)
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("pexels search: unparsable response body")
	}

	var images []models.ImageRef
	for _, photo := range gjson.GetBytes(body, "photos").Array() {
		full := photo.Get("src.original").String()
		if full == "" {
			continue
		}

		thumb := photo.Get("src.medium").String()
		if thumb == "" {
			thumb = photo.Get("src.large").String()
		}
		if thumb == "" {
			thumb = full
		}

		images = append(images, models.ImageRef{
			URL:          full,
			ThumbnailURL: thumb,
			ExternalID:   photo.Get("id").String(),
			Provider:     p.Name(),
		})
	}

	return images, nil
}
