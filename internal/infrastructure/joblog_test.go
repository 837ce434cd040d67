package infrastructure

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobLogWritesDailyFile(t *testing.T) {
	dir := t.TempDir()
	jobLog := NewJobLog(filepath.Join(dir, "logs"))

	file, err := jobLog.Open()
	require.NoError(t, err)
	jobLog.WriteHeader(file, "job-1", "yt-dlp", "-f", "bestaudio", "https://youtu.be/abc")
	jobLog.WriteFooter(file, true, "download finished")
	require.NoError(t, file.Close())

	name := "jobs-" + time.Now().Format("20060102") + ".log"
	data, err := os.ReadFile(filepath.Join(dir, "logs", name))
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "Job: job-1")
	assert.Contains(t, content, "$ yt-dlp -f bestaudio https://youtu.be/abc")
	assert.Contains(t, content, "SUCCESS: download finished")
	assert.Contains(t, content, "=== END ===")
}

func TestJobLogFooterFailed(t *testing.T) {
	dir := t.TempDir()
	jobLog := NewJobLog(dir)

	file, err := jobLog.Open()
	require.NoError(t, err)
	jobLog.WriteFooter(file, false, "yt-dlp failed: exit status 1")
	require.NoError(t, file.Close())

	name := "jobs-" + time.Now().Format("20060102") + ".log"
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Contains(t, string(data), "FAILED: yt-dlp failed: exit status 1")
}

func TestDisplayCommandQuoting(t *testing.T) {
	assert.Equal(t, "yt-dlp -o 'a b.mp4'", displayCommand("yt-dlp", "-o", "a b.mp4"))
	assert.Equal(t, `yt-dlp '-f bestvideo[height<=1080]'`, displayCommand("yt-dlp", "-f bestvideo[height<=1080]"))
	assert.Equal(t, "yt-dlp ''", displayCommand("yt-dlp", ""))
}
