package infrastructure

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// JobLog appends external-tool output to a daily log file. All of a run's
// stdout and stderr goes to the same file, with per-run markers.
type JobLog struct {
	dir string
}

// NewJobLog creates a job log writing under dir.
func NewJobLog(dir string) *JobLog {
	return &JobLog{dir: dir}
}

// Open opens today's log file for appending.
func (l *JobLog) Open() (*os.File, error) {
	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}
	name := "jobs-" + time.Now().Format("20060102") + ".log"
	return os.OpenFile(filepath.Join(l.dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

// WriteHeader writes the run-start marker with the display-escaped command.
func (l *JobLog) WriteHeader(file *os.File, jobID, binary string, args ...string) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(file, "\n=== [%s] Job: %s ===\n", timestamp, jobID)
	fmt.Fprintf(file, "$ %s\n", displayCommand(binary, args...))
}

// WriteFooter writes the run-end marker.
func (l *JobLog) WriteFooter(file *os.File, success bool, message string) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	status := "SUCCESS"
	if !success {
		status = "FAILED"
	}
	fmt.Fprintf(file, "[%s] %s: %s\n=== END ===\n\n", timestamp, status, message)
}

// displayCommand renders a command line for the log. Quoting is for human
// readability only; exec.Command never goes through a shell.
func displayCommand(binary string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	for _, arg := range append([]string{binary}, args...) {
		if arg == "" || strings.ContainsAny(arg, " \t'\"$`\\!*?[](){}|;<>&~#%\n") {
			arg = "'" + strings.ReplaceAll(arg, "'", `'"'"'`) + "'"
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, " ")
}
