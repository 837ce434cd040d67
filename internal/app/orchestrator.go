package app

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/yourusername/clipcourier/internal/domain"
	"github.com/yourusername/clipcourier/internal/infrastructure"
)

// Result is the outcome of a successful orchestrated download.
type Result struct {
	Path         string
	UsedFallback bool
}

// Orchestrator implements the two-tier download policy: an explicit
// video+audio merge for best quality, with a progressive single-container
// fallback when the failure looks merge-related.
type Orchestrator struct {
	fetcher domain.StreamFetcher
	merger  domain.StreamMerger
	config  *domain.DownloadConfig
	logger  *zap.Logger
}

// NewOrchestrator creates a new download orchestrator.
func NewOrchestrator(fetcher domain.StreamFetcher, merger domain.StreamMerger, config *domain.DownloadConfig, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{fetcher: fetcher, merger: merger, config: config, logger: logger}
}

// Download runs the high-quality path and, if its failure is classified as
// recoverable, the progressive path exactly once. Any other failure, and any
// failure of the progressive path itself, propagates unchanged.
func (o *Orchestrator) Download(ctx context.Context, job *domain.DownloadJob) (*Result, error) {
	path, err := o.downloadHighQuality(ctx, job)
	if err == nil {
		return &Result{Path: path}, nil
	}
	if !domain.IsRecoverableByFallback(err) {
		return nil, err
	}

	o.logger.Warn("high-quality path failed, falling back to progressive",
		zap.String("job_id", job.ID),
		zap.String("kind", domain.KindOf(err).String()),
		zap.Error(err))

	job.Strategy = domain.StrategyProgressiveFallback
	path, err = o.downloadProgressive(ctx, job)
	if err != nil {
		return nil, err
	}
	return &Result{Path: path, UsedFallback: true}, nil
}

// downloadHighQuality fetches the best video-only and audio-only streams
// sequentially, muxes them, and resolves the final file. Stream temps are
// removed on every exit path; the merged output is the caller's to delete.
func (o *Orchestrator) downloadHighQuality(ctx context.Context, job *domain.DownloadJob) (string, error) {
	dir := filepath.Dir(job.OutputPrefix)
	videoPrefix := job.BaseName() + ".fvideo"
	audioPrefix := job.BaseName() + ".faudio"

	defer func() {
		for _, prefix := range []string{videoPrefix, audioPrefix} {
			if err := infrastructure.SweepPrefix(dir, prefix); err != nil {
				o.logger.Warn("stream temp cleanup failed",
					zap.String("job_id", job.ID),
					zap.String("prefix", prefix),
					zap.Error(err))
			}
		}
	}()

	job.Phase = domain.PhaseFetching
	videoSelector := fmt.Sprintf("bestvideo[height<=%d]", o.config.TargetHeight)
	videoPath, err := o.fetcher.FetchStream(ctx, job.URL, videoSelector, filepath.Join(dir, videoPrefix))
	if err != nil {
		return "", err
	}
	audioPath, err := o.fetcher.FetchStream(ctx, job.URL, "bestaudio", filepath.Join(dir, audioPrefix))
	if err != nil {
		return "", err
	}

	job.Phase = domain.PhaseMerging
	if err := o.merger.Merge(ctx, videoPath, audioPath, job.OutputPrefix+".mp4"); err != nil {
		return "", err
	}

	job.Phase = domain.PhaseResolving
	return infrastructure.ResolveFinal(dir, job.BaseName())
}

// downloadProgressive fetches a single pre-muxed container and resolves it
// with the same generic procedure, since the tool may drift the extension.
func (o *Orchestrator) downloadProgressive(ctx context.Context, job *domain.DownloadJob) (string, error) {
	job.Phase = domain.PhaseFetching
	if err := o.fetcher.FetchProgressive(ctx, job.URL, job.OutputPrefix+".mp4"); err != nil {
		return "", err
	}
	job.Phase = domain.PhaseResolving
	return infrastructure.ResolveFinal(filepath.Dir(job.OutputPrefix), job.BaseName())
}
