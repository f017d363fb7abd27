package models

import (
	"time"

	"github.com/google/uuid"
)

// BundleResult is the outcome of one archive-creation job
type BundleResult struct {
	// Filename is the collision-free name of the produced archive
	Filename string `json:"filename"`
	// Path is the on-disk location of the archive (persisted mode) or the
	// staging file (streamed mode, deleted after serving)
	Path string `json:"-"`
	// DownloadURL is the relative URL a caller uses to retrieve a
	// persisted archive
	DownloadURL string `json:"download_url,omitempty"`
	// RequestedCount is the length of the input URL list
	RequestedCount int `json:"requested_count"`
	// IncludedCount is the number of images successfully embedded; may be
	// lower than RequestedCount when some downloads failed
	IncludedCount int `json:"included_count"`
	// BatchIndex is the 1-based position among sibling batches
	BatchIndex int `json:"batch_index"`
	// SizeBytes is the finalized archive size
	SizeBytes int64 `json:"size_bytes"`
}

// BatchManifest is the ordered collection of batch outcomes for one
// bundle-all call. Results are sorted by BatchIndex ascending regardless
// of job completion order.
type BatchManifest struct {
	JobID       uuid.UUID       `json:"job_id"`
	BaseName    string          `json:"base_name"`
	Results     []*BundleResult `json:"archives"`
	TotalImages int             `json:"total_images"`
}

// BundleJob is the persisted record of one bundle-all invocation
type BundleJob struct {
	ID             uuid.UUID
	BaseName       string
	RequestedCount int
	IncludedCount  int
	BatchCount     int
	CreatedAt      time.Time
}
