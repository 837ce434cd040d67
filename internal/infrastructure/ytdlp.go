package infrastructure

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/yourusername/clipcourier/internal/domain"
)

// YTDLP wraps the external media downloader for the bot's two fetch modes.
type YTDLP struct {
	config *domain.DownloadConfig
	jobLog *JobLog
	logger *zap.Logger
}

// NewYTDLP creates a new downloader wrapper.
func NewYTDLP(config *domain.DownloadConfig, jobLog *JobLog, logger *zap.Logger) *YTDLP {
	return &YTDLP{config: config, jobLog: jobLog, logger: logger}
}

// FetchProgressive downloads a single container holding both audio and video,
// at or below the target height, preferring mp4 and falling back within the
// tool's own selector grammar to any audio+video container.
func (y *YTDLP) FetchProgressive(ctx context.Context, url, outputPath string) error {
	h := y.config.TargetHeight
	selector := fmt.Sprintf("best[height<=%d][ext=mp4]/best[height<=%d]/best", h, h)
	return y.run(ctx, url, selector, outputPath)
}

// FetchStream downloads one elementary stream matching selector to
// <outputPrefix>.<ext>, then resolves the file actually produced.
func (y *YTDLP) FetchStream(ctx context.Context, url, selector, outputPrefix string) (string, error) {
	if err := y.run(ctx, url, selector, outputPrefix+".%(ext)s"); err != nil {
		return "", err
	}
	return Resolve(filepath.Dir(outputPrefix), filepath.Base(outputPrefix))
}

func (y *YTDLP) run(ctx context.Context, url, selector, outputTemplate string) error {
	args := y.buildArgs(url, selector, outputTemplate)

	cmd := exec.CommandContext(ctx, y.config.YTDLPBinary, args...)
	logFile, err := y.jobLog.Open()
	if err != nil {
		return fmt.Errorf("failed to open job log: %w", err)
	}
	defer logFile.Close()

	y.jobLog.WriteHeader(logFile, url, y.config.YTDLPBinary, args...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	y.logger.Debug("running downloader",
		zap.String("url", url),
		zap.String("selector", selector),
		zap.String("output", outputTemplate))

	if err := cmd.Run(); err != nil {
		y.jobLog.WriteFooter(logFile, false, fmt.Sprintf("yt-dlp failed: %v", err))
		return fmt.Errorf("yt-dlp failed: %w", err)
	}
	y.jobLog.WriteFooter(logFile, true, "download finished")
	return nil
}

// buildArgs assembles the downloader invocation. The concurrency knob and
// optional encoder location are passed through unmodified.
func (y *YTDLP) buildArgs(url, selector, outputTemplate string) []string {
	args := []string{
		"--no-playlist",
		"-f", selector,
		"-o", outputTemplate,
		"-N", strconv.Itoa(y.config.ConcurrentFragments),
	}
	if y.config.FFmpegPath != "" {
		args = append(args, "--ffmpeg-location", y.config.FFmpegPath)
	}
	return append(args, url)
}
