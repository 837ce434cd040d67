package app

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/yourusername/clipcourier/internal/domain"
	"github.com/yourusername/clipcourier/internal/infrastructure"
	"github.com/yourusername/clipcourier/internal/telemetry"
)

const (
	fallbackNoticeText = "High-quality merge wasn't possible, sending the best available single file instead."
	failureText        = "Failed to download or send the video."
	successStatusText  = "✅ Done, sending the video."
	failureStatusText  = "❌ Download failed."
)

// VideoSource resolves a job's link into a local file.
type VideoSource interface {
	Download(ctx context.Context, job *domain.DownloadJob) (*Result, error)
}

// Handler is the per-message entry point. It extracts a video link, drives
// the orchestrator with a live progress message, enforces the attachment
// size ceiling, and guarantees temp-file cleanup on every exit path.
type Handler struct {
	transport domain.Transport
	source    VideoSource
	config    *domain.DownloadConfig
	stats     *Stats
	logger    *zap.Logger
}

// NewHandler creates a new request handler.
func NewHandler(transport domain.Transport, source VideoSource, config *domain.DownloadConfig, stats *Stats, logger *zap.Logger) *Handler {
	return &Handler{transport: transport, source: source, config: config, stats: stats, logger: logger}
}

// HandleMessage processes one inbound chat message. Messages without a
// qualifying link are ignored silently; everything else results in either a
// delivered video or exactly one generic failure notice.
func (h *Handler) HandleMessage(ctx context.Context, msg domain.Message) {
	url := domain.ExtractVideoURL(msg.Text)
	if url == "" {
		return
	}

	job := domain.NewDownloadJob(msg.ChatID, msg.MessageID, url, h.config.WorkDir)
	logger := h.logger.With(
		zap.String("job_id", job.ID),
		zap.Int64("chat_id", msg.ChatID),
		zap.Int("message_id", msg.MessageID),
		zap.String("url", url))
	logger.Info("video link detected")

	h.stats.jobStarted()
	telemetry.JobStarted()
	start := time.Now()
	defer func() {
		h.stats.jobFinished()
		telemetry.JobFinished()
	}()

	session, err := StartProgress(h.transport, msg.ChatID, h.logger)
	if err != nil {
		// The job can still run without a status message.
		logger.Warn("failed to start progress session", zap.Error(err))
	}

	result, err := h.source.Download(ctx, job)
	if err != nil {
		logger.Error("download failed", zap.Error(err))
		h.fail(session, job, "")
		return
	}

	if result.UsedFallback {
		h.stats.fallbackUsed()
		telemetry.FallbackUsed()
		if _, err := h.transport.SendText(msg.ChatID, fallbackNoticeText); err != nil {
			logger.Debug("fallback notice failed", zap.Error(err))
		}
	}

	job.Phase = domain.PhaseDelivering
	info, err := os.Stat(result.Path)
	if err != nil {
		logger.Error("failed to stat resolved file", zap.Error(err))
		h.fail(session, job, result.Path)
		return
	}

	if info.Size() > domain.MaxAttachmentBytes {
		logger.Info("video exceeds attachment ceiling",
			zap.Int64("size", info.Size()),
			zap.Int64("limit", domain.MaxAttachmentBytes))
		h.stats.jobTooLarge()
		telemetry.JobTooLarge()
		h.stopSession(session, "⚠️ Video is too large to send.")
		h.notify(job.ChatID, "The video is too large to send ("+
			humanize.IBytes(uint64(info.Size()))+", limit "+
			humanize.IBytes(uint64(domain.MaxAttachmentBytes))+").")
		h.removeFile(result.Path)
		return
	}

	if err := h.transport.SendVideo(msg.ChatID, result.Path); err != nil {
		logger.Error("failed to send video", zap.Error(err))
		h.fail(session, job, result.Path)
		return
	}

	h.stopSession(session, successStatusText)
	job.Phase = domain.PhaseCleanup
	h.removeFile(result.Path)

	h.stats.jobSucceeded()
	telemetry.JobSucceeded()
	telemetry.ObserveJobDuration(time.Since(start).Seconds())
	logger.Info("video delivered",
		zap.Int64("size", info.Size()),
		zap.Bool("fallback", result.UsedFallback),
		zap.Duration("duration", time.Since(start)))
}

// fail reports the generic failure message and cleans up. With a resolved
// path the file is deleted directly; otherwise the working directory is
// swept for anything sharing the job's prefix.
func (h *Handler) fail(session *ProgressSession, job *domain.DownloadJob, resolvedPath string) {
	h.stats.jobFailed()
	telemetry.JobFailed()
	h.stopSession(session, failureStatusText)
	h.notify(job.ChatID, failureText)

	job.Phase = domain.PhaseCleanup
	if resolvedPath != "" {
		h.removeFile(resolvedPath)
		return
	}
	if err := infrastructure.SweepPrefix(h.config.WorkDir, job.BaseName()); err != nil {
		h.logger.Warn("cleanup sweep failed",
			zap.String("job_id", job.ID),
			zap.String("prefix", job.BaseName()),
			zap.Error(err))
	}
}

func (h *Handler) stopSession(session *ProgressSession, finalText string) {
	if session != nil {
		session.Stop(finalText)
	}
}

func (h *Handler) notify(chatID int64, text string) {
	if _, err := h.transport.SendText(chatID, text); err != nil {
		h.logger.Debug("notification failed", zap.Error(err))
	}
}

func (h *Handler) removeFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		h.logger.Warn("failed to remove file",
			zap.String("path", filepath.Clean(path)),
			zap.Error(err))
	}
}
