package providers

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Ajasmt08/Asset-Bundler-Pro/cmd/bundler/models"
	"github.com/Ajasmt08/Asset-Bundler-Pro/common/clients"
	"github.com/tidwall/gjson"
)

const unsplashBaseURL = "https://api.unsplash.com"

// Unsplash adapts the Unsplash photo search API.
// Auth is "Client-ID <access key>" in the Authorization header.
type Unsplash struct {
	accessKey string
	baseURL   string
	client    clients.Fetcher
}

// NewUnsplash creates an Unsplash adapter
func NewUnsplash(accessKey string, client clients.Fetcher) *Unsplash {
	return &Unsplash{
		accessKey: accessKey,
		baseURL:   unsplashBaseURL,
		client:    client,
	}
}

// Name returns the provider identifier
func (u *Unsplash) Name() string {
	return "unsplash"
}

// Fetch requests one page of search results
func (u *Unsplash) Fetch(ctx context.Context, query string, count, page int) ([]models.ImageRef, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", fmt.Sprintf("%d", count))
	params.Set("page", fmt.Sprintf("%d", page))

	endpoint := fmt.Sprintf("%s/search/photos?%s", u.baseURL, params.Encode())
	body, err := u.client.Get(ctx, endpoint, map[string]string{
		"Authorization": "Client-ID " + u.accessKey,
	})
	if err != nil {
		return nil, fmt.Errorf("unsplash search: %w", err)
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("unsplash search: unparsable response body")
	}

	var images []models.ImageRef
	for _, photo := range gjson.GetBytes(body, "results").Array() {
		full := photo.Get("urls.full").String()
		if full == "" {
			full = photo.Get("urls.regular").String()
		}
		if full == "" {
			continue
		}

		thumb := photo.Get("urls.small").String()
		if thumb == "" {
			thumb = full
		}

		images = append(images, models.ImageRef{
			URL:          full,
			ThumbnailURL: thumb,
			ExternalID:   photo.Get("id").String(),
			Provider:     u.Name(),
		})
	}

	return images, nil
}
