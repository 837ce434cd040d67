package domain

import (
	"errors"
	"fmt"
)

// FailureKind classifies a download failure for the fallback decision.
type FailureKind int

const (
	// FailureOther is any failure that does not warrant the progressive fallback.
	FailureOther FailureKind = iota
	// FailureStreamNotFound means an expected output file was absent after a
	// downloader run. Raised for video and audio stream fetches alike.
	FailureStreamNotFound
	// FailureIntermediatesOnly means resolution found only stream-only
	// artifacts, never eligible for delivery.
	FailureIntermediatesOnly
	// FailureEncoder means the external encoder exited non-zero or produced
	// no output file.
	FailureEncoder
)

// String returns a human-readable name for the failure kind.
func (k FailureKind) String() string {
	switch k {
	case FailureStreamNotFound:
		return "stream-not-found"
	case FailureIntermediatesOnly:
		return "intermediates-only"
	case FailureEncoder:
		return "encoder"
	default:
		return "other"
	}
}

// Failure is a classified download error.
type Failure struct {
	Kind FailureKind
	msg  string
}

func (f *Failure) Error() string { return f.msg }

// NewFailure creates a classified failure with a descriptive message.
func NewFailure(kind FailureKind, format string, args ...interface{}) *Failure {
	return &Failure{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the failure kind from an error chain.
// Unclassified errors are FailureOther.
func KindOf(err error) FailureKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return FailureOther
}

// IsRecoverableByFallback reports whether a high-quality path failure should
// trigger the progressive fallback. Stream-not-found qualifies even when the
// underlying fetch failed for reasons unrelated to merging; that trigger is
// intentionally broad.
func IsRecoverableByFallback(err error) bool {
	switch KindOf(err) {
	case FailureStreamNotFound, FailureIntermediatesOnly, FailureEncoder:
		return true
	default:
		return false
	}
}
