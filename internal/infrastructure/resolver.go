package infrastructure

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/yourusername/clipcourier/internal/domain"
)

// partialSuffixes mark in-flight downloader artifacts that must never be
// treated as final output.
var partialSuffixes = []string{".part", ".ytdl"}

// intermediateTag recognizes stream-only artifacts by the format-tag segment
// the downloader (and our own stream prefixes) embed in the filename,
// e.g. "clip_1_2_3.f137.mp4" or "clip_1_2_3.fvideo.webm".
var intermediateTag = regexp.MustCompile(`\.f(?:\d+|video|audio)\.`)

// containerExts are the media container extensions eligible as output.
var containerExts = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".webm": true,
	".mov":  true,
	".m4a":  true,
	".m4v":  true,
	".flv":  true,
	".avi":  true,
}

// finalExt is the conventional final container, preferred over any other.
const finalExt = ".mp4"

type candidate struct {
	path    string
	modTime time.Time
}

// Resolve finds the file a downloader run actually produced for an exact
// stream prefix. It returns the newest complete entry starting with the
// prefix, or a stream-not-found failure when none exists.
func Resolve(dir, prefix string) (string, error) {
	candidates, err := listCandidates(dir, prefix)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", domain.NewFailure(domain.FailureStreamNotFound,
			"stream output was not found for prefix %s", prefix)
	}
	return newest(candidates), nil
}

// ResolveFinal finds the final deliverable file for a generic output prefix,
// tolerating extension drift by the external tool. Intermediate stream-only
// entries are excluded; an exact "<prefix>.mp4" wins, otherwise the
// newest-modified recognized container. It distinguishes "nothing produced"
// from "only intermediate streams produced".
func ResolveFinal(dir, prefix string) (string, error) {
	candidates, err := listCandidates(dir, prefix)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", domain.NewFailure(domain.FailureStreamNotFound,
			"no output file was found for prefix %s", prefix)
	}

	var finals []candidate
	for _, c := range candidates {
		if !intermediateTag.MatchString(filepath.Base(c.path)) {
			finals = append(finals, c)
		}
	}
	if len(finals) == 0 {
		return "", domain.NewFailure(domain.FailureIntermediatesOnly,
			"only intermediate stream files were found for prefix %s", prefix)
	}

	exact := filepath.Join(dir, prefix+finalExt)
	var containers []candidate
	for _, c := range finals {
		if c.path == exact {
			return c.path, nil
		}
		if containerExts[strings.ToLower(filepath.Ext(c.path))] {
			containers = append(containers, c)
		}
	}
	if len(containers) == 0 {
		return "", domain.NewFailure(domain.FailureStreamNotFound,
			"no playable container was found for prefix %s", prefix)
	}
	return newest(containers), nil
}

// SweepPrefix deletes every file in dir whose name starts with prefix.
// Used for job cleanup; missing files are not an error.
func SweepPrefix(dir, prefix string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	var firstErr error
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// listCandidates snapshots the complete (non-partial) entries sharing prefix.
func listCandidates(dir, prefix string) ([]candidate, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var candidates []candidate
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		if isPartial(name) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{
			path:    filepath.Join(dir, name),
			modTime: info.ModTime(),
		})
	}
	return candidates, nil
}

func isPartial(name string) bool {
	for _, suffix := range partialSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

func newest(candidates []candidate) string {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.modTime.After(best.modTime) {
			best = c
		}
	}
	return best.path
}
