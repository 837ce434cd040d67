package app

import "sync/atomic"

// Stats tracks job counts for the ops API. All fields are updated with
// atomics; jobs run concurrently.
type Stats struct {
	started   atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
	tooLarge  atomic.Int64
	fallbacks atomic.Int64
	active    atomic.Int64
}

// NewStats creates an empty stats tracker.
func NewStats() *Stats {
	return &Stats{}
}

// Snapshot is a point-in-time view of the counters.
type Snapshot struct {
	Started   int64 `json:"started"`
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`
	TooLarge  int64 `json:"too_large"`
	Fallbacks int64 `json:"fallbacks"`
	Active    int64 `json:"active"`
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Started:   s.started.Load(),
		Succeeded: s.succeeded.Load(),
		Failed:    s.failed.Load(),
		TooLarge:  s.tooLarge.Load(),
		Fallbacks: s.fallbacks.Load(),
		Active:    s.active.Load(),
	}
}

func (s *Stats) jobStarted() {
	s.started.Add(1)
	s.active.Add(1)
}

func (s *Stats) jobFinished()  { s.active.Add(-1) }
func (s *Stats) jobSucceeded() { s.succeeded.Add(1) }
func (s *Stats) jobFailed()    { s.failed.Add(1) }
func (s *Stats) jobTooLarge()  { s.tooLarge.Add(1) }
func (s *Stats) fallbackUsed() { s.fallbacks.Add(1) }
