package service

import (
	"math/rand"
	"sync"
	"time"

	"github.com/Ajasmt08/Asset-Bundler-Pro/cmd/bundler/models"
)

// Planner splits a requested image count across providers and derives the
// page each provider should be asked for this round. Plans are created
// fresh per round and never persisted.
type Planner struct {
	providerNames []string

	mu  sync.Mutex
	rng *rand.Rand
}

// NewPlanner creates a planner over the given provider slots, in adapter
// registration order
func NewPlanner(providerNames []string) *Planner {
	return NewPlannerWithSource(providerNames, rand.NewSource(time.Now().UnixNano()))
}

// NewPlannerWithSource creates a planner with an explicit random source,
// so the two randomized policies can be pinned in tests
func NewPlannerWithSource(providerNames []string, src rand.Source) *Planner {
	return &Planner{
		providerNames: providerNames,
		rng:           rand.New(src),
	}
}

// Plan distributes totalCount across the provider slots and computes page
// numbers from the cumulative offset. Never fails; a totalCount of 0
// yields an all-zero plan.
func (p *Planner) Plan(totalCount, cumulativeOffset int) *models.FetchPlan {
	if totalCount < 0 {
		totalCount = 0
	}

	n := len(p.providerNames)
	counts := make([]int, n)
	for i := range counts {
		counts[i] = totalCount / n
	}

	p.mu.Lock()
	p.assignRemainder(counts, totalCount%n)
	p.shuffleSlots(counts)
	p.mu.Unlock()

	plan := &models.FetchPlan{
		Counts: make(map[string]int, n),
		Pages:  make(map[string]int),
	}

	for i, name := range p.providerNames {
		plan.Counts[name] = counts[i]
		if counts[i] > 0 {
			// Page forward at roughly the rate this provider's share is
			// consumed. A provider skipped this round (count 0) does not
			// advance, which can repeat or skip pages across rounds under
			// uneven distributions; accepted approximation.
			plan.Pages[name] = cumulativeOffset/n/counts[i] + 1
		}
	}

	return plan
}

// assignRemainder hands the leftover units to r slots chosen uniformly at
// random without replacement
func (p *Planner) assignRemainder(counts []int, r int) {
	for _, idx := range p.rng.Perm(len(counts))[:r] {
		counts[idx]++
	}
}

// shuffleSlots re-shuffles the per-slot counts before they are bound to
// concrete provider identities. Randomized load balancing, independent of
// the remainder draw.
func (p *Planner) shuffleSlots(counts []int) {
	p.rng.Shuffle(len(counts), func(i, j int) {
		counts[i], counts[j] = counts[j], counts[i]
	})
}
