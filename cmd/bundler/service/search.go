package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/Ajasmt08/Asset-Bundler-Pro/cmd/bundler/models"
	"github.com/Ajasmt08/Asset-Bundler-Pro/cmd/bundler/providers"
	"github.com/Ajasmt08/Asset-Bundler-Pro/common/cache"
	"github.com/Ajasmt08/Asset-Bundler-Pro/common/logger"
	"golang.org/x/sync/errgroup"
)

// SearchService runs one planning+fetch round: plan the distribution, fan
// out to the provider adapters, and merge the results into one shuffled
// set. A single provider's failure never aborts the round; an empty
// merged set does.
type SearchService struct {
	planner   *Planner
	providers []providers.Provider
	cache     cache.Cache
	cacheTTL  time.Duration
	log       *logger.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSearchService creates a new search service. cache may be nil to
// disable round caching.
func NewSearchService(planner *Planner, provs []providers.Provider, c cache.Cache, cacheTTL time.Duration, log *logger.Logger) *SearchService {
	return &SearchService{
		planner:   planner,
		providers: provs,
		cache:     c,
		cacheTTL:  cacheTTL,
		log:       log,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Search produces one round's merged result set for the query
func (s *SearchService) Search(ctx context.Context, query string, totalCount, cumulativeOffset int) (*models.SearchResult, error) {
	log := s.log.WithQuery(query)

	cacheKey := fmt.Sprintf("search:%s:%d:%d", query, totalCount, cumulativeOffset)
	if s.cache != nil {
		if cached, found, err := s.cache.Get(ctx, cacheKey); err == nil && found {
			var result models.SearchResult
			if err := json.Unmarshal(cached, &result); err == nil {
				log.Debug("search cache hit", "key", cacheKey)
				return &result, nil
			}
			// Corrupt entry, drop it and fetch fresh
			_ = s.cache.Delete(ctx, cacheKey)
		}
	}

	plan := s.planner.Plan(totalCount, cumulativeOffset)

	perProvider := make([][]models.ImageRef, len(s.providers))
	var failures int
	var failMu sync.Mutex

	// Fan out to providers; the barrier below waits for all of them to
	// settle as success-or-empty before aggregation.
	g, gctx := errgroup.WithContext(ctx)
	for i, prov := range s.providers {
		count := plan.Counts[prov.Name()]
		if count == 0 {
			continue
		}
		page := plan.Pages[prov.Name()]

		i, prov := i, prov
		g.Go(func() error {
			refs, err := prov.Fetch(gctx, query, count, page)
			if err != nil {
				// Upstream unavailable: absorb, surface only as a
				// smaller result set
				log.Warn("provider fetch failed", "provider", prov.Name(), "error", err)
				failMu.Lock()
				failures++
				failMu.Unlock()
				return nil
			}
			perProvider[i] = refs
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("search round: %w", err)
	}

	merged := s.aggregate(perProvider)
	if len(merged) == 0 {
		return nil, &NoResultsError{Query: query}
	}

	result := &models.SearchResult{
		Query:            query,
		Count:            len(merged),
		Images:           merged,
		Distribution:     plan.Counts,
		ProviderFailures: failures,
	}

	log.Info("search round complete",
		"requested", totalCount,
		"returned", len(merged),
		"provider_failures", failures,
	)

	if s.cache != nil {
		if payload, err := json.Marshal(result); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL); err != nil {
				log.Warn("failed to cache search round", "error", err)
			}
		}
	}

	return result, nil
}

// aggregate concatenates the per-provider outputs and applies one uniform
// shuffle so the final order carries no provider-grouping signal
func (s *SearchService) aggregate(perProvider [][]models.ImageRef) []models.ImageRef {
	var merged []models.ImageRef
	for _, refs := range perProvider {
		merged = append(merged, refs...)
	}

	s.mu.Lock()
	s.rng.Shuffle(len(merged), func(i, j int) {
		merged[i], merged[j] = merged[j], merged[i]
	})
	s.mu.Unlock()

	return merged
}
