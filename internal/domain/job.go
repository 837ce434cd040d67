package domain

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// MaxAttachmentBytes is the transport's attachment size ceiling (50 MiB).
// Files at the limit are deliverable; anything over is not.
const MaxAttachmentBytes = 50 << 20

// Strategy identifies which download path a job is taking
type Strategy string

const (
	StrategyHighQualityMerge    Strategy = "high-quality-merge"
	StrategyProgressiveFallback Strategy = "progressive-fallback"
)

// Phase represents the current lifecycle phase of a job
type Phase string

const (
	PhaseFetching   Phase = "fetching"
	PhaseMerging    Phase = "merging"
	PhaseResolving  Phase = "resolving"
	PhaseDelivering Phase = "delivering"
	PhaseCleanup    Phase = "cleanup"
)

// Message is one inbound chat message as seen by the request handler.
type Message struct {
	ChatID    int64
	MessageID int
	Text      string
}

// DownloadJob identifies one in-flight request. Jobs are transient and
// scoped to a single chat message; there is no durable store.
type DownloadJob struct {
	ID           string
	ChatID       int64
	MessageID    int
	URL          string
	OutputPrefix string // absolute path prefix; all temp artifacts start with it
	Strategy     Strategy
	Phase        Phase
	CreatedAt    time.Time
}

// NewDownloadJob creates a job with a collision-free output prefix.
// The prefix includes chat id, message id and a nanosecond timestamp so
// concurrent jobs never share temporary files.
func NewDownloadJob(chatID int64, messageID int, url, workDir string) *DownloadJob {
	base := fmt.Sprintf("clip_%d_%d_%d", chatID, messageID, time.Now().UnixNano())
	return &DownloadJob{
		ID:           uuid.New().String(),
		ChatID:       chatID,
		MessageID:    messageID,
		URL:          url,
		OutputPrefix: filepath.Join(workDir, base),
		Strategy:     StrategyHighQualityMerge,
		Phase:        PhaseFetching,
		CreatedAt:    time.Now(),
	}
}

// BaseName returns the prefix without its directory, for prefix sweeps.
func (j *DownloadJob) BaseName() string {
	return filepath.Base(j.OutputPrefix)
}
