package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/Ajasmt08/Asset-Bundler-Pro/cmd/bundler/models"
	"github.com/Ajasmt08/Asset-Bundler-Pro/common/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore records persisted jobs and artifacts
type fakeStore struct {
	mu        sync.Mutex
	jobs      []*models.BundleJob
	artifacts map[uuid.UUID][]*models.BundleResult
}

func newFakeStore() *fakeStore {
	return &fakeStore{artifacts: make(map[uuid.UUID][]*models.BundleResult)}
}

func (f *fakeStore) CreateJob(ctx context.Context, job *models.BundleJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, job)
	return nil
}

func (f *fakeStore) RecordArtifact(ctx context.Context, jobID uuid.UUID, result *models.BundleResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.artifacts[jobID] = append(f.artifacts[jobID], result)
	return nil
}

func newOrchestrator(t *testing.T, outputDir string, limit int, store ManifestStore) *BatchOrchestrator {
	t.Helper()
	bundler := newBundleService(t, outputDir)
	return NewBatchOrchestrator(bundler, store, limit, logger.New("error", "json"))
}

func TestPartition(t *testing.T) {
	urls := make([]string, 73)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://img.example.com/%d.jpg", i)
	}

	chunks := partition(urls, 30)

	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 30)
	assert.Len(t, chunks[1], 30)
	assert.Len(t, chunks[2], 13)

	// Chunks are contiguous slices of the input
	assert.Equal(t, urls[0], chunks[0][0])
	assert.Equal(t, urls[30], chunks[1][0])
	assert.Equal(t, urls[60], chunks[2][0])
}

func TestBundleAllSingleBatchBelowLimit(t *testing.T) {
	host := newImageHost(t)
	dir := t.TempDir()
	orch := newOrchestrator(t, dir, 30, nil)

	manifest, err := orch.BundleAll(context.Background(), imageURLs(host.URL, 5), "small")
	require.NoError(t, err)

	require.Len(t, manifest.Results, 1)
	res := manifest.Results[0]
	assert.Equal(t, 1, res.BatchIndex)
	assert.Equal(t, 5, res.IncludedCount)
	assert.Equal(t, 5, manifest.TotalImages)

	// Single-batch jobs keep the plain base name, no batch suffix
	assert.True(t, strings.HasPrefix(res.Filename, "small_"))
	assert.NotContains(t, res.Filename, "_batch_")
}

func TestBundleAllPartitionsIntoOrderedBatches(t *testing.T) {
	host := newImageHost(t)
	dir := t.TempDir()
	store := newFakeStore()
	orch := newOrchestrator(t, dir, 30, store)

	manifest, err := orch.BundleAll(context.Background(), imageURLs(host.URL, 73), "big_selection")
	require.NoError(t, err)

	require.Len(t, manifest.Results, 3)
	assert.Equal(t, 73, manifest.TotalImages)

	// Manifest ordered by batch index regardless of completion order
	wantSizes := []int{30, 30, 13}
	for i, res := range manifest.Results {
		assert.Equal(t, i+1, res.BatchIndex)
		assert.Equal(t, wantSizes[i], res.RequestedCount)
		assert.Equal(t, wantSizes[i], res.IncludedCount)
		assert.True(t, strings.HasPrefix(res.Filename, fmt.Sprintf("big_selection_batch_%d_", i+1)))
	}

	// Three independent archives on disk
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	// Manifest persisted: one job with all three artifacts
	require.Len(t, store.jobs, 1)
	job := store.jobs[0]
	assert.Equal(t, manifest.JobID, job.ID)
	assert.Equal(t, 73, job.RequestedCount)
	assert.Equal(t, 73, job.IncludedCount)
	assert.Equal(t, 3, job.BatchCount)
	assert.Len(t, store.artifacts[job.ID], 3)
}

func TestBundleAllFailsWhenOneBatchFailsOutright(t *testing.T) {
	host := newImageHost(t)
	dir := t.TempDir()
	store := newFakeStore()
	orch := newOrchestrator(t, dir, 5, store)

	// Batch 2 (positions 6-10) is entirely unreachable; batches 1 and 3
	// succeed
	urls := imageURLs(host.URL, 13)
	for i := 5; i < 10; i++ {
		urls[i] = fmt.Sprintf("%s/missing/%d.png", host.URL, i+1)
	}

	manifest, err := orch.BundleAll(context.Background(), urls, "torn")
	require.Error(t, err)
	assert.Nil(t, manifest)

	var batchErr *BatchFailedError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, 2, batchErr.BatchIndex)
	assert.ErrorIs(t, err, ErrEmptyBundle)

	// Best-effort policy: archives produced by sibling batches are left
	// on disk, not rolled back
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Len(t, entries, 2)

	// Nothing is persisted for a failed job
	assert.Empty(t, store.jobs)
}

func TestBundleAllRejectsEmptyInput(t *testing.T) {
	orch := newOrchestrator(t, t.TempDir(), 30, nil)

	_, err := orch.BundleAll(context.Background(), nil, "nothing")
	require.Error(t, err)
}

func TestBundleAllPartialFailureWithinBatchIsTolerated(t *testing.T) {
	host := newImageHost(t)
	dir := t.TempDir()
	orch := newOrchestrator(t, dir, 5, nil)

	// One dead URL inside each batch lowers counts but fails nothing
	urls := imageURLs(host.URL, 10)
	urls[0] = host.URL + "/missing/1.png"
	urls[7] = host.URL + "/missing/8.png"

	manifest, err := orch.BundleAll(context.Background(), urls, "dented")
	require.NoError(t, err)

	require.Len(t, manifest.Results, 2)
	assert.Equal(t, 4, manifest.Results[0].IncludedCount)
	assert.Equal(t, 4, manifest.Results[1].IncludedCount)
	assert.Equal(t, 8, manifest.TotalImages)
}
