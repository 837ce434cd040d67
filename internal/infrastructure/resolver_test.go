package infrastructure

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/clipcourier/internal/domain"
)

func writeFile(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	mtime := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

func TestResolveReturnsNewestMatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "clip_1_2_3.fvideo.webm", 2*time.Hour)
	want := writeFile(t, dir, "clip_1_2_3.fvideo.mp4", time.Minute)

	got, err := Resolve(dir, "clip_1_2_3.fvideo")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResolveIgnoresPartialFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "clip_1_2_3.fvideo.mp4.part", time.Minute)
	writeFile(t, dir, "clip_1_2_3.fvideo.mp4.ytdl", time.Minute)

	_, err := Resolve(dir, "clip_1_2_3.fvideo")
	require.Error(t, err)
	assert.Equal(t, domain.FailureStreamNotFound, domain.KindOf(err))
}

func TestResolveNothingProduced(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "unrelated.mp4", time.Minute)

	_, err := Resolve(dir, "clip_1_2_3.fvideo")
	require.Error(t, err)
	assert.Equal(t, domain.FailureStreamNotFound, domain.KindOf(err))
}

func TestResolveFinalPrefersExactMP4(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "clip_1_2_3.webm", time.Minute)
	want := writeFile(t, dir, "clip_1_2_3.mp4", 2*time.Hour)

	got, err := ResolveFinal(dir, "clip_1_2_3")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResolveFinalFallsBackToNewestContainer(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "clip_1_2_3.webm", 2*time.Hour)
	want := writeFile(t, dir, "clip_1_2_3.mkv", time.Minute)

	got, err := ResolveFinal(dir, "clip_1_2_3")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResolveFinalExcludesIntermediates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "clip_1_2_3.f137.mp4", time.Minute)
	writeFile(t, dir, "clip_1_2_3.fvideo.mp4", time.Minute)
	writeFile(t, dir, "clip_1_2_3.faudio.m4a", time.Minute)
	want := writeFile(t, dir, "clip_1_2_3.mp4", 2*time.Hour)

	got, err := ResolveFinal(dir, "clip_1_2_3")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResolveFinalIntermediatesOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "clip_1_2_3.f137.mp4", time.Minute)
	writeFile(t, dir, "clip_1_2_3.f251.webm", time.Minute)

	_, err := ResolveFinal(dir, "clip_1_2_3")
	require.Error(t, err)
	assert.Equal(t, domain.FailureIntermediatesOnly, domain.KindOf(err))
}

func TestResolveFinalNothingProduced(t *testing.T) {
	dir := t.TempDir()

	_, err := ResolveFinal(dir, "clip_1_2_3")
	require.Error(t, err)
	assert.Equal(t, domain.FailureStreamNotFound, domain.KindOf(err))
}

func TestResolveFinalNoPlayableContainer(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "clip_1_2_3.description", time.Minute)

	_, err := ResolveFinal(dir, "clip_1_2_3")
	require.Error(t, err)
	assert.Equal(t, domain.FailureStreamNotFound, domain.KindOf(err))
}

func TestSweepPrefix(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "clip_1_2_3.mp4", time.Minute)
	writeFile(t, dir, "clip_1_2_3.fvideo.mp4.part", time.Minute)
	keep := writeFile(t, dir, "clip_9_9_9.mp4", time.Minute)

	require.NoError(t, SweepPrefix(dir, "clip_1_2_3"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(keep), entries[0].Name())
}

func TestSweepPrefixEmptyDirIsNoop(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, SweepPrefix(dir, "clip_1_2_3"))
}
