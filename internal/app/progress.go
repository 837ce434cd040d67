package app

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/clipcourier/internal/domain"
)

// progressCycleSeconds is the countdown cycle length; the counter wraps back
// here instead of ever showing zero.
const progressCycleSeconds = 30

// ProgressSession owns one status message for an in-flight job and keeps a
// countdown ticking on it. Every edit is best-effort: a deleted message or a
// rate limit must never interrupt the download.
type ProgressSession struct {
	transport domain.Transport
	logger    *zap.Logger
	chatID    int64
	messageID int

	remaining int
	mu        sync.Mutex // held during an edit; ticks that can't take it are skipped
	stop      chan struct{}
	done      chan struct{}
	stopOnce  sync.Once
}

// StartProgress sends the initial status message and begins ticking once per
// second until Stop is called.
func StartProgress(transport domain.Transport, chatID int64, logger *zap.Logger) (*ProgressSession, error) {
	messageID, err := transport.SendText(chatID, statusText(progressCycleSeconds))
	if err != nil {
		return nil, fmt.Errorf("failed to send status message: %w", err)
	}
	s := &ProgressSession{
		transport: transport,
		logger:    logger,
		chatID:    chatID,
		messageID: messageID,
		remaining: progressCycleSeconds,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go s.run()
	return s, nil
}

func (s *ProgressSession) run() {
	defer close(s.done)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// tick decrements the countdown and edits the status message. If the
// previous edit is still in flight the tick is dropped, never queued, so
// edits cannot arrive out of order.
func (s *ProgressSession) tick() {
	if !s.mu.TryLock() {
		return
	}
	defer s.mu.Unlock()

	s.remaining--
	if s.remaining <= 0 {
		s.remaining = progressCycleSeconds
	}
	if err := s.transport.EditText(s.chatID, s.messageID, statusText(s.remaining)); err != nil {
		s.logger.Debug("progress edit failed", zap.Error(err))
	}
}

// Stop cancels the timer and makes one final best-effort edit. Safe to call
// more than once; only the first call's finalText is used.
func (s *ProgressSession) Stop(finalText string) {
	s.stopOnce.Do(func() {
		close(s.stop)
		<-s.done

		s.mu.Lock()
		defer s.mu.Unlock()
		if err := s.transport.EditText(s.chatID, s.messageID, finalText); err != nil {
			s.logger.Debug("final status edit failed", zap.Error(err))
		}
	})
}

func statusText(remaining int) string {
	return fmt.Sprintf("⏬ Downloading... ~%ds", remaining)
}
