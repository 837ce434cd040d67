package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yourusername/clipcourier/internal/domain"
)

// fakeFetcher materializes files on disk the way the real downloader does, so
// resolution runs against the actual filesystem.
type fakeFetcher struct {
	streamErr        error
	progressiveErr   error
	streamExt        string
	selectors        []string
	progressiveCalls int
}

func (f *fakeFetcher) FetchStream(ctx context.Context, url, selector, outputPrefix string) (string, error) {
	f.selectors = append(f.selectors, selector)
	if f.streamErr != nil {
		return "", f.streamErr
	}
	ext := f.streamExt
	if ext == "" {
		ext = ".mp4"
	}
	path := outputPrefix + ext
	if err := os.WriteFile(path, []byte("stream"), 0644); err != nil {
		return "", err
	}
	return path, nil
}

func (f *fakeFetcher) FetchProgressive(ctx context.Context, url, outputPath string) error {
	f.progressiveCalls++
	if f.progressiveErr != nil {
		return f.progressiveErr
	}
	return os.WriteFile(outputPath, []byte("progressive"), 0644)
}

type fakeMerger struct {
	err   error
	calls int
}

func (m *fakeMerger) Merge(ctx context.Context, videoPath, audioPath, outputPath string) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	return os.WriteFile(outputPath, []byte("merged"), 0644)
}

func newTestOrchestrator(fetcher *fakeFetcher, merger *fakeMerger, workDir string) (*Orchestrator, *domain.DownloadJob) {
	config := &domain.DownloadConfig{
		WorkDir:             workDir,
		TargetHeight:        1080,
		ConcurrentFragments: 4,
	}
	job := domain.NewDownloadJob(1, 2, "https://youtu.be/abc", workDir)
	return NewOrchestrator(fetcher, merger, config, zap.NewNop()), job
}

func remainingFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestDownloadHighQualitySuccess(t *testing.T) {
	dir := t.TempDir()
	fetcher := &fakeFetcher{}
	merger := &fakeMerger{}
	o, job := newTestOrchestrator(fetcher, merger, dir)

	result, err := o.Download(context.Background(), job)
	require.NoError(t, err)
	assert.False(t, result.UsedFallback)
	assert.Equal(t, job.OutputPrefix+".mp4", result.Path)
	assert.Equal(t, 1, merger.calls)
	assert.Equal(t, 0, fetcher.progressiveCalls)

	// Both stream selectors issued, in order.
	require.Len(t, fetcher.selectors, 2)
	assert.Equal(t, "bestvideo[height<=1080]", fetcher.selectors[0])
	assert.Equal(t, "bestaudio", fetcher.selectors[1])

	// Stream temps are swept; only the merged output survives.
	assert.Equal(t, []string{filepath.Base(result.Path)}, remainingFiles(t, dir))
}

func TestDownloadFallsBackOnEncoderFailure(t *testing.T) {
	dir := t.TempDir()
	fetcher := &fakeFetcher{}
	merger := &fakeMerger{err: domain.NewFailure(domain.FailureEncoder, "ffmpeg merge failed")}
	o, job := newTestOrchestrator(fetcher, merger, dir)

	result, err := o.Download(context.Background(), job)
	require.NoError(t, err)
	assert.True(t, result.UsedFallback)
	assert.Equal(t, job.OutputPrefix+".mp4", result.Path)
	assert.Equal(t, 1, fetcher.progressiveCalls)
	assert.Equal(t, domain.StrategyProgressiveFallback, job.Strategy)

	// Stream temps from the failed attempt are gone.
	assert.Equal(t, []string{filepath.Base(result.Path)}, remainingFiles(t, dir))
}

func TestDownloadFallsBackOnStreamNotFound(t *testing.T) {
	dir := t.TempDir()
	fetcher := &fakeFetcher{streamErr: domain.NewFailure(domain.FailureStreamNotFound, "stream output was not found")}
	merger := &fakeMerger{}
	o, job := newTestOrchestrator(fetcher, merger, dir)

	result, err := o.Download(context.Background(), job)
	require.NoError(t, err)
	assert.True(t, result.UsedFallback)
	assert.Equal(t, 0, merger.calls)
	assert.Equal(t, 1, fetcher.progressiveCalls)
}

func TestDownloadDoesNotFallBackOnUnclassifiedError(t *testing.T) {
	dir := t.TempDir()
	netErr := errors.New("network unreachable")
	fetcher := &fakeFetcher{streamErr: netErr}
	merger := &fakeMerger{}
	o, job := newTestOrchestrator(fetcher, merger, dir)

	_, err := o.Download(context.Background(), job)
	require.Error(t, err)
	assert.Equal(t, netErr, err)
	assert.Equal(t, 0, fetcher.progressiveCalls)
}

func TestDownloadFallbackRunsExactlyOnce(t *testing.T) {
	dir := t.TempDir()
	fetcher := &fakeFetcher{
		streamErr:      domain.NewFailure(domain.FailureStreamNotFound, "missing"),
		progressiveErr: domain.NewFailure(domain.FailureStreamNotFound, "still missing"),
	}
	o, job := newTestOrchestrator(fetcher, &fakeMerger{}, dir)

	_, err := o.Download(context.Background(), job)
	require.Error(t, err)
	assert.Equal(t, 1, fetcher.progressiveCalls)
}

func TestDownloadHighQualityResolvesDriftedExtension(t *testing.T) {
	dir := t.TempDir()
	// Streams land as webm; the merger still writes the requested mp4.
	fetcher := &fakeFetcher{streamExt: ".webm"}
	merger := &fakeMerger{}
	o, job := newTestOrchestrator(fetcher, merger, dir)

	result, err := o.Download(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, job.OutputPrefix+".mp4", result.Path)
	assert.Equal(t, []string{filepath.Base(result.Path)}, remainingFiles(t, dir))
}
