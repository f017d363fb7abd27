package providers

import (
	"context"

	"github.com/Ajasmt08/Asset-Bundler-Pro/cmd/bundler/models"
)

// Provider is one external image-search source. Implementations issue a
// single outbound call per Fetch invocation (no internal retry) and
// normalize the provider's native records into ImageRefs, dropping any
// record without a resolvable full-size URL.
type Provider interface {
	// Name returns the provider identifier used in distribution
	// accounting and ImageRef.Provider
	Name() string
	// Fetch requests one page of results. Errors are absorbed by the
	// caller; a failed provider must not abort the round.
	Fetch(ctx context.Context, query string, count, page int) ([]models.ImageRef, error)
}
