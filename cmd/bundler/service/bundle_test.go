package service

import (
	"archive/zip"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Ajasmt08/Asset-Bundler-Pro/common/clients"
	"github.com/Ajasmt08/Asset-Bundler-Pro/common/config"
	"github.com/Ajasmt08/Asset-Bundler-Pro/common/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D}

// newImageHost serves fake images under /img/ and fails everything else
func newImageHost(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/img/"):
			w.Write(pngBytes)
		case r.URL.Path == "/empty":
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newBundleService(t *testing.T, outputDir string) *BundleService {
	t.Helper()
	log := logger.New("error", "json")
	fetch := clients.NewFetchClient(5*time.Second, false, log)
	return NewBundleService(fetch, config.BundlerConfig{
		OutputDir:     outputDir,
		PerBatchLimit: 30,
		ThrottleEvery: 10,
		ThrottlePause: time.Millisecond,
	}, log)
}

func imageURLs(host string, n int) []string {
	urls := make([]string, n)
	for i := range urls {
		urls[i] = fmt.Sprintf("%s/img/%d.png", host, i+1)
	}
	return urls
}

func archiveEntryNames(t *testing.T, path string) []string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names
}

func TestCreateArchiveRoundTrip(t *testing.T) {
	host := newImageHost(t)
	dir := t.TempDir()
	svc := newBundleService(t, dir)

	result, err := svc.CreateArchive(context.Background(), imageURLs(host.URL, 5), "holiday", 1)
	require.NoError(t, err)

	assert.Equal(t, 5, result.RequestedCount)
	assert.Equal(t, 5, result.IncludedCount)
	assert.Equal(t, 1, result.BatchIndex)
	assert.True(t, strings.HasPrefix(result.Filename, "holiday_"))
	assert.Equal(t, "downloads/"+result.Filename, result.DownloadURL)
	assert.Positive(t, result.SizeBytes)

	// Entries are numbered 1..N with no gaps when every download succeeds
	names := archiveEntryNames(t, result.Path)
	require.Len(t, names, 5)
	for i := 1; i <= 5; i++ {
		assert.Contains(t, names, fmt.Sprintf("holiday_%d.png", i))
	}
}

func TestCreateArchivePartialFailureKeepsOriginalNumbering(t *testing.T) {
	host := newImageHost(t)
	dir := t.TempDir()
	svc := newBundleService(t, dir)

	urls := imageURLs(host.URL, 5)
	urls[1] = host.URL + "/missing/2.png"
	urls[3] = host.URL + "/missing/4.png"

	result, err := svc.CreateArchive(context.Background(), urls, "partial", 1)
	require.NoError(t, err, "a partially-successful bundle is a valid outcome")

	assert.Equal(t, 5, result.RequestedCount)
	assert.Equal(t, 3, result.IncludedCount)

	// Gaps sit at exactly the failed positions
	names := archiveEntryNames(t, result.Path)
	assert.ElementsMatch(t, []string{"partial_1.png", "partial_3.png", "partial_5.png"}, names)
}

func TestCreateArchiveAllFailedRemovesArtifact(t *testing.T) {
	host := newImageHost(t)
	dir := t.TempDir()
	svc := newBundleService(t, dir)

	urls := []string{
		host.URL + "/missing/1.png",
		host.URL + "/missing/2.png",
	}

	_, err := svc.CreateArchive(context.Background(), urls, "doomed", 1)
	require.ErrorIs(t, err, ErrEmptyBundle)

	// The partially written zip must not linger in the output directory
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestCreateArchiveTreatsEmptyBodyAsFailure(t *testing.T) {
	host := newImageHost(t)
	dir := t.TempDir()
	svc := newBundleService(t, dir)

	urls := []string{
		host.URL + "/img/1.png",
		host.URL + "/empty",
	}

	result, err := svc.CreateArchive(context.Background(), urls, "mixed", 1)
	require.NoError(t, err)

	assert.Equal(t, 1, result.IncludedCount)
	names := archiveEntryNames(t, result.Path)
	assert.Equal(t, []string{"mixed_1.png"}, names)
}

func TestCreateArchiveRejectsEmptyInput(t *testing.T) {
	svc := newBundleService(t, t.TempDir())

	_, err := svc.CreateArchive(context.Background(), nil, "nothing", 1)
	require.Error(t, err)
}

func TestCreateArchiveFilenamesDoNotCollide(t *testing.T) {
	host := newImageHost(t)
	dir := t.TempDir()
	svc := newBundleService(t, dir)

	first, err := svc.CreateArchive(context.Background(), imageURLs(host.URL, 1), "same", 1)
	require.NoError(t, err)
	second, err := svc.CreateArchive(context.Background(), imageURLs(host.URL, 1), "same", 1)
	require.NoError(t, err)

	assert.NotEqual(t, first.Filename, second.Filename)
}

func TestStageArchiveForStreaming(t *testing.T) {
	host := newImageHost(t)
	svc := newBundleService(t, t.TempDir())

	result, err := svc.StageArchive(context.Background(), imageURLs(host.URL, 3), "stream_me")
	require.NoError(t, err)
	defer os.Remove(result.Path)

	assert.Equal(t, "stream_me.zip", result.Filename)
	assert.Equal(t, 3, result.IncludedCount)

	// The staging file lives outside the output directory and holds a
	// valid archive until the caller deletes it
	info, err := os.Stat(result.Path)
	require.NoError(t, err)
	assert.Equal(t, result.SizeBytes, info.Size())

	names := archiveEntryNames(t, result.Path)
	assert.Len(t, names, 3)
}

func TestStageArchiveAllFailedRemovesStagingFile(t *testing.T) {
	host := newImageHost(t)
	svc := newBundleService(t, t.TempDir())

	result, err := svc.StageArchive(context.Background(), []string{host.URL + "/missing/x.png"}, "doomed")
	require.ErrorIs(t, err, ErrEmptyBundle)
	assert.Nil(t, result)
}

func TestCreateArchiveFormatDetectionFromContent(t *testing.T) {
	// URLs without extensions fall back to magic-byte sniffing
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/asset/1":
			w.Write([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10})
		case "/asset/2":
			w.Write(pngBytes)
		}
	}))
	defer srv.Close()

	svc := newBundleService(t, t.TempDir())

	result, err := svc.CreateArchive(context.Background(), []string{
		srv.URL + "/asset/1",
		srv.URL + "/asset/2",
	}, "sniffed", 1)
	require.NoError(t, err)

	names := archiveEntryNames(t, result.Path)
	assert.ElementsMatch(t, []string{"sniffed_1.jpg", "sniffed_2.png"}, names)
}
