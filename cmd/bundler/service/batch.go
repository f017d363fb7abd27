package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Ajasmt08/Asset-Bundler-Pro/cmd/bundler/models"
	"github.com/Ajasmt08/Asset-Bundler-Pro/common/logger"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ManifestStore persists bundle jobs and their produced archives.
// Implemented by repository.BundleRepository.
type ManifestStore interface {
	CreateJob(ctx context.Context, job *models.BundleJob) error
	RecordArtifact(ctx context.Context, jobID uuid.UUID, result *models.BundleResult) error
}

// BatchOrchestrator partitions oversized selections into fixed-size
// batches and drives one independent bundle job per batch. Jobs run
// concurrently; the manifest is ordered by batch index regardless of
// completion order.
type BatchOrchestrator struct {
	bundler       *BundleService
	store         ManifestStore
	perBatchLimit int
	log           *logger.Logger
}

// NewBatchOrchestrator creates a new orchestrator. store may be nil to
// skip manifest persistence.
func NewBatchOrchestrator(bundler *BundleService, store ManifestStore, perBatchLimit int, log *logger.Logger) *BatchOrchestrator {
	return &BatchOrchestrator{
		bundler:       bundler,
		store:         store,
		perBatchLimit: perBatchLimit,
		log:           log,
	}
}

// BundleAll bundles the images, splitting into batches when the selection
// exceeds the per-archive limit. If any batch fails outright the whole
// call fails; archives already produced by sibling batches are left on
// disk for inspection, not rolled back.
func (o *BatchOrchestrator) BundleAll(ctx context.Context, imageURLs []string, baseName string) (*models.BatchManifest, error) {
	if len(imageURLs) == 0 {
		return nil, fmt.Errorf("no images to bundle")
	}

	chunks := partition(imageURLs, o.perBatchLimit)
	results := make([]*models.BundleResult, len(chunks))

	// Plain errgroup: a failing batch must not cancel its siblings, which
	// are left to finish and stay on disk
	var g errgroup.Group
	for i, chunk := range chunks {
		i, chunk := i, chunk
		batchIndex := i + 1

		name := baseName
		if len(chunks) > 1 {
			name = fmt.Sprintf("%s_batch_%d", baseName, batchIndex)
		}

		g.Go(func() error {
			res, err := o.bundler.CreateArchive(ctx, chunk, name, batchIndex)
			if err != nil {
				return &BatchFailedError{BatchIndex: batchIndex, Err: err}
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		o.log.Error("bundle batch failed", "base_name", baseName, "error", err)
		return nil, err
	}

	// Jobs may finish out of order; the manifest must be ordered by index
	sort.Slice(results, func(i, j int) bool {
		return results[i].BatchIndex < results[j].BatchIndex
	})

	manifest := &models.BatchManifest{
		JobID:    uuid.New(),
		BaseName: baseName,
		Results:  results,
	}
	for _, res := range results {
		manifest.TotalImages += res.IncludedCount
	}

	o.log.Info("bundle job complete",
		"job_id", manifest.JobID,
		"batches", len(results),
		"total_images", manifest.TotalImages,
	)

	o.persist(ctx, manifest, len(imageURLs))

	return manifest, nil
}

// persist records the manifest. Persistence failure is logged but does
// not fail the call; the archives already exist and are deliverable.
func (o *BatchOrchestrator) persist(ctx context.Context, manifest *models.BatchManifest, requested int) {
	if o.store == nil {
		return
	}

	job := &models.BundleJob{
		ID:             manifest.JobID,
		BaseName:       manifest.BaseName,
		RequestedCount: requested,
		IncludedCount:  manifest.TotalImages,
		BatchCount:     len(manifest.Results),
		CreatedAt:      time.Now(),
	}

	if err := o.store.CreateJob(ctx, job); err != nil {
		o.log.Error("failed to persist bundle job", "job_id", job.ID, "error", err)
		return
	}

	for _, res := range manifest.Results {
		if err := o.store.RecordArtifact(ctx, job.ID, res); err != nil {
			o.log.Error("failed to persist bundle artifact",
				"job_id", job.ID,
				"batch_index", res.BatchIndex,
				"error", err,
			)
		}
	}
}

// partition splits urls into contiguous chunks of at most limit entries;
// the final chunk may be shorter
func partition(urls []string, limit int) [][]string {
	var chunks [][]string
	for start := 0; start < len(urls); start += limit {
		end := start + limit
		if end > len(urls) {
			end = len(urls)
		}
		chunks = append(chunks, urls[start:end])
	}
	return chunks
}
