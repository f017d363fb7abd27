package repository

import (
	"context"
	"fmt"

	"github.com/Ajasmt08/Asset-Bundler-Pro/cmd/bundler/models"
	"github.com/Ajasmt08/Asset-Bundler-Pro/common/db"
	"github.com/google/uuid"
)

// BundleRepository handles database operations for bundle jobs and the
// archives they produce
type BundleRepository struct {
	db *db.DB
}

// NewBundleRepository creates a new bundle repository
func NewBundleRepository(db *db.DB) *BundleRepository {
	return &BundleRepository{db: db}
}

// CreateJob inserts a new bundle job
func (r *BundleRepository) CreateJob(ctx context.Context, job *models.BundleJob) error {
	query := `
		INSERT INTO bundle_job (
			job_id, base_name, requested_count, included_count,
			batch_count, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
	`

	_, err := r.db.Exec(ctx, query,
		job.ID,
		job.BaseName,
		job.RequestedCount,
		job.IncludedCount,
		job.BatchCount,
		job.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create bundle job: %w", err)
	}

	return nil
}

// RecordArtifact inserts one produced archive for a job
func (r *BundleRepository) RecordArtifact(ctx context.Context, jobID uuid.UUID, result *models.BundleResult) error {
	query := `
		INSERT INTO bundle_artifact (
			job_id, batch_index, filename, requested_count,
			included_count, size_bytes
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
	`

	_, err := r.db.Exec(ctx, query,
		jobID,
		result.BatchIndex,
		result.Filename,
		result.RequestedCount,
		result.IncludedCount,
		result.SizeBytes,
	)

	if err != nil {
		return fmt.Errorf("failed to record bundle artifact: %w", err)
	}

	return nil
}

// GetJob retrieves a bundle job by ID
func (r *BundleRepository) GetJob(ctx context.Context, jobID uuid.UUID) (*models.BundleJob, error) {
	query := `
		SELECT job_id, base_name, requested_count, included_count,
			batch_count, created_at
		FROM bundle_job
		WHERE job_id = $1
	`

	job := &models.BundleJob{}
	err := r.db.QueryRow(ctx, query, jobID).Scan(
		&job.ID,
		&job.BaseName,
		&job.RequestedCount,
		&job.IncludedCount,
		&job.BatchCount,
		&job.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to get bundle job: %w", err)
	}

	return job, nil
}

// ListArtifacts retrieves the archives of a job ordered by batch index
func (r *BundleRepository) ListArtifacts(ctx context.Context, jobID uuid.UUID) ([]*models.BundleResult, error) {
	query := `
		SELECT batch_index, filename, requested_count, included_count, size_bytes
		FROM bundle_artifact
		WHERE job_id = $1
		ORDER BY batch_index ASC
	`

	rows, err := r.db.Query(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bundle artifacts: %w", err)
	}
	defer rows.Close()

	var results []*models.BundleResult
	for rows.Next() {
		res := &models.BundleResult{}
		if err := rows.Scan(
			&res.BatchIndex,
			&res.Filename,
			&res.RequestedCount,
			&res.IncludedCount,
			&res.SizeBytes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bundle artifact: %w", err)
		}
		res.DownloadURL = "downloads/" + res.Filename
		results = append(results, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bundle artifacts: %w", err)
	}

	return results, nil
}
