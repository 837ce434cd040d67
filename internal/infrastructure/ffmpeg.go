package infrastructure

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/yourusername/clipcourier/internal/domain"
)

// FFmpeg merges a video-only and an audio-only stream into one playable
// mp4 container without re-encoding the video.
type FFmpeg struct {
	config *domain.DownloadConfig
	jobLog *JobLog
	logger *zap.Logger
}

// NewFFmpeg creates a new encoder wrapper.
func NewFFmpeg(config *domain.DownloadConfig, jobLog *JobLog, logger *zap.Logger) *FFmpeg {
	return &FFmpeg{config: config, jobLog: jobLog, logger: logger}
}

// Merge muxes videoPath and audioPath into outputPath. The video bitstream is
// copied unmodified, audio is transcoded to AAC at a fixed bitrate, and the
// container metadata is relocated for progressive-streaming playback.
// Success requires exit status zero and an existing output file.
func (f *FFmpeg) Merge(ctx context.Context, videoPath, audioPath, outputPath string) error {
	// A stale file at the output path would survive an encoder crash and
	// be mistaken for fresh output.
	_ = os.Remove(outputPath)

	args := []string{
		"-y",
		"-i", videoPath,
		"-i", audioPath,
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", "128k",
		"-movflags", "+faststart",
		outputPath,
	}

	binary := f.config.FFmpegPath
	if binary == "" {
		binary = "ffmpeg"
	}

	f.logger.Debug("merging streams",
		zap.String("video", videoPath),
		zap.String("audio", audioPath),
		zap.String("output", outputPath))

	cmd := exec.CommandContext(ctx, binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if logFile, err := f.jobLog.Open(); err == nil {
		f.jobLog.WriteHeader(logFile, outputPath, binary, args...)
		logFile.Write(stderr.Bytes())
		f.jobLog.WriteFooter(logFile, runErr == nil, "merge")
		logFile.Close()
	}

	if runErr != nil {
		detail := lastLines(stderr.String(), 5)
		if detail == "" {
			detail = runErr.Error()
		}
		return domain.NewFailure(domain.FailureEncoder, "ffmpeg merge failed: %s", detail)
	}
	if _, err := os.Stat(outputPath); err != nil {
		return domain.NewFailure(domain.FailureEncoder,
			"ffmpeg exited cleanly but produced no output at %s", outputPath)
	}
	return nil
}

// lastLines trims encoder output to its tail; ffmpeg prints the actual
// error last, after pages of stream info.
func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
