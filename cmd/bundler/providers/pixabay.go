package providers

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Ajasmt08/Asset-Bundler-Pro/cmd/bundler/models"
	"github.com/Ajasmt08/Asset-Bundler-Pro/common/clients"
	"github.com/tidwall/gjson"
)

const pixabayBaseURL = "https://pixabay.com/api/"

// Pixabay adapts the Pixabay image API.
// Auth is the API key passed as a query parameter.
type Pixabay struct {
	apiKey  string
	baseURL string
	client  clients.Fetcher
}

// NewPixabay creates a Pixabay adapter
func NewPixabay(apiKey string, client clients.Fetcher) *Pixabay {
	return &Pixabay{
		apiKey:  apiKey,
		baseURL: pixabayBaseURL,
		client:  client,
	}
}

// Name returns the provider identifier
func (p *Pixabay) Name() string {
	return "pixabay"
}

// Fetch requests one page of search results
func (p *Pixabay) Fetch(ctx context.Context, query string, count, page int) ([]models.ImageRef, error) {
	params := url.Values{}
	params.Set("key", p.apiKey)
	params.Set("q", query)
	params.Set("image_type", "photo")
	params.Set("per_page", fmt.Sprintf("%d", count))
	params.Set("page", fmt.Sprintf("%d", page))

	endpoint := fmt.Sprintf("%s?%s", p.baseURL, params.Encode())
	body, err := p.client.Get(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("pixabay search: %w", err)
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("pixabay search: unparsable response body")
	}

	var images []models.ImageRef
	for _, hit := range gjson.GetBytes(body, "hits").Array() {
		// Full HD is only available to approved accounts; fall back to
		// the large variant
		full := hit.Get("fullHDURL").String()
		if full == "" {
			full = hit.Get("largeImageURL").String()
		}
		if full == "" {
			continue
		}

		thumb := hit.Get("webformatURL").String()
		if thumb == "" {
			thumb = full
		}

		images = append(images, models.ImageRef{
			URL:          full,
			ThumbnailURL: thumb,
			ExternalID:   hit.Get("id").String(),
			Provider:     p.Name(),
		})
	}

	return images, nil
}
