package service

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Ajasmt08/Asset-Bundler-Pro/cmd/bundler/models"
	"github.com/Ajasmt08/Asset-Bundler-Pro/common/clients"
	"github.com/Ajasmt08/Asset-Bundler-Pro/common/config"
	"github.com/Ajasmt08/Asset-Bundler-Pro/common/logger"
)

// BundleService downloads images and writes them into zip archives.
// Downloads are processed sequentially in input order because entry
// numbering depends on input position; a failed download skips that entry
// (leaving a gap in the numbering) rather than failing the job.
type BundleService struct {
	fetch         clients.Fetcher
	outputDir     string
	throttleEvery int
	throttlePause time.Duration
	log           *logger.Logger
}

// NewBundleService creates a new bundle service
func NewBundleService(fetch clients.Fetcher, cfg config.BundlerConfig, log *logger.Logger) *BundleService {
	return &BundleService{
		fetch:         fetch,
		outputDir:     cfg.OutputDir,
		throttleEvery: cfg.ThrottleEvery,
		throttlePause: cfg.ThrottlePause,
		log:           log,
	}
}

// CreateArchive bundles the images into a named zip file in the output
// directory. The file persists until externally deleted; callers retrieve
// it via the returned download URL.
func (s *BundleService) CreateArchive(ctx context.Context, imageURLs []string, baseName string, batchIndex int) (*models.BundleResult, error) {
	if len(imageURLs) == 0 {
		return nil, fmt.Errorf("no images to bundle")
	}

	// Timestamp token keeps concurrent jobs from colliding on a filename
	filename := fmt.Sprintf("%s_%d.zip", baseName, time.Now().UnixNano())
	archivePath := filepath.Join(s.outputDir, filename)

	result, err := s.writeArchive(ctx, archivePath, imageURLs, baseName)
	if err != nil {
		return nil, err
	}

	result.Filename = filename
	result.DownloadURL = "downloads/" + filename
	result.BatchIndex = batchIndex

	s.log.Info("archive created",
		"filename", filename,
		"included", result.IncludedCount,
		"requested", result.RequestedCount,
		"size_bytes", result.SizeBytes,
	)

	return result, nil
}

// StageArchive bundles the images into a temporary zip file for streamed
// delivery. The caller is responsible for removing the staging file once
// the bytes have been sent.
func (s *BundleService) StageArchive(ctx context.Context, imageURLs []string, baseName string) (*models.BundleResult, error) {
	if len(imageURLs) == 0 {
		return nil, fmt.Errorf("no images to bundle")
	}

	staging, err := os.CreateTemp("", "asset_bundler_*.zip")
	if err != nil {
		return nil, fmt.Errorf("create staging file: %w", err)
	}
	stagingPath := staging.Name()
	if err := staging.Close(); err != nil {
		os.Remove(stagingPath)
		return nil, fmt.Errorf("close staging file: %w", err)
	}

	result, err := s.writeArchive(ctx, stagingPath, imageURLs, baseName)
	if err != nil {
		return nil, err
	}

	result.Filename = baseName + ".zip"
	result.BatchIndex = 1

	s.log.Info("archive staged for streaming",
		"base_name", baseName,
		"included", result.IncludedCount,
		"requested", result.RequestedCount,
		"size_bytes", result.SizeBytes,
	)

	return result, nil
}

// writeArchive downloads every image and writes the zip at path. A zip
// with zero surviving entries is removed and reported as ErrEmptyBundle.
func (s *BundleService) writeArchive(ctx context.Context, path string, imageURLs []string, baseName string) (*models.BundleResult, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create archive %s: %w", path, err)
	}

	zw := zip.NewWriter(f)
	included, writeErr := s.writeEntries(ctx, zw, imageURLs, baseName)

	if err := zw.Close(); err != nil && writeErr == nil {
		writeErr = fmt.Errorf("finalize archive: %w", err)
	}
	if err := f.Close(); err != nil && writeErr == nil {
		writeErr = fmt.Errorf("close archive: %w", err)
	}

	if writeErr != nil {
		os.Remove(path)
		return nil, writeErr
	}

	if included == 0 {
		os.Remove(path)
		return nil, ErrEmptyBundle
	}

	info, err := os.Stat(path)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("stat archive %s: %w", path, err)
	}

	return &models.BundleResult{
		Path:           path,
		RequestedCount: len(imageURLs),
		IncludedCount:  included,
		SizeBytes:      info.Size(),
	}, nil
}

// writeEntries walks the input list in order, carrying the original
// 1-based index into each entry name so gaps reveal which inputs failed.
// Each image's bytes are released as soon as the entry is written.
func (s *BundleService) writeEntries(ctx context.Context, zw *zip.Writer, imageURLs []string, baseName string) (int, error) {
	included := 0

	for i, imageURL := range imageURLs {
		// Cooperative throttle so long jobs don't burst the host or the
		// upstream image servers
		if i > 0 && i%s.throttleEvery == 0 {
			time.Sleep(s.throttlePause)
		}

		data, err := s.fetch.Get(ctx, imageURL, nil)
		if err != nil {
			s.log.Warn("image download failed, skipping",
				"url", imageURL,
				"position", i+1,
				"error", err,
			)
			continue
		}

		entryName := fmt.Sprintf("%s_%d.%s", baseName, i+1, detectFormat(imageURL, data))
		w, err := zw.Create(entryName)
		if err != nil {
			return included, fmt.Errorf("create entry %s: %w", entryName, err)
		}
		if _, err := w.Write(data); err != nil {
			return included, fmt.Errorf("write entry %s: %w", entryName, err)
		}

		included++
	}

	return included, nil
}
