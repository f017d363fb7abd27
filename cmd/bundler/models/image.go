package models

// ImageRef is one discovered image, normalized from a provider's native
// response record. Immutable once created.
type ImageRef struct {
	// URL is the full-resolution asset location, unique within a result set
	URL string `json:"url"`
	// ThumbnailURL is the preview location; falls back to URL when the
	// provider has no smaller variant
	ThumbnailURL string `json:"thumbnail"`
	// ExternalID is the provider's native identifier, opaque and not
	// assumed unique across providers
	ExternalID string `json:"id"`
	// Provider names the source, for diagnostics and distribution
	// accounting only
	Provider string `json:"source"`
}

// FetchPlan holds one round's per-provider request parameters.
// sum(Counts) always equals the requested total for the round.
type FetchPlan struct {
	// Counts maps provider name to the number of images requested from it
	Counts map[string]int
	// Pages maps provider name to the 1-based page to request. Providers
	// with a zero count this round have no entry.
	Pages map[string]int
}

// Total returns the sum of per-provider counts
func (p *FetchPlan) Total() int {
	total := 0
	for _, c := range p.Counts {
		total += c
	}
	return total
}

// SearchResult is the merged output of one planning+fetch round
type SearchResult struct {
	Query  string     `json:"query"`
	Count  int        `json:"count"`
	Images []ImageRef `json:"images"`
	// Distribution echoes the per-provider counts of the round
	Distribution map[string]int `json:"distribution"`
	// ProviderFailures counts providers whose calls were absorbed as
	// empty results (timeout, non-success status, unparsable body)
	ProviderFailures int `json:"provider_failures"`
}
