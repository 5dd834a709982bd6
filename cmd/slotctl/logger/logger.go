package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// L is the global logger instance. It's initialized to discard all output by default.
// Call Init() to enable logging.
var L *slog.Logger = slog.New(slog.DiscardHandler)

const (
	logPrefix     = "slotctl-"
	logSuffix     = ".log"
	retentionDays = 30
)

// Options configures the logger initialization.
type Options struct {
	Enabled bool       // If false, all logging is discarded
	LogDir  string     // Directory for dated log files. Empty means stderr
	Level   slog.Level // Minimum log level
	JSON    bool       // JSON records instead of text

	// Writer overrides stderr when LogDir is empty.
	Writer io.Writer
}

// Init configures logging. Call before any log calls.
// If opts.Enabled is false, all log output is discarded.
func Init(opts Options) error {
	if !opts.Enabled {
		L = slog.New(slog.DiscardHandler)
		return nil
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	if opts.LogDir != "" {
		f, err := openLogFile(opts.LogDir, time.Now())
		if err != nil {
			return err
		}
		w = f
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.Level}
	if opts.JSON {
		L = slog.New(slog.NewJSONHandler(w, handlerOpts))
	} else {
		L = slog.New(slog.NewTextHandler(w, handlerOpts))
	}
	return nil
}

func openLogFile(logDir string, now time.Time) (*os.File, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, err
	}

	// Clean up old logs (best-effort, ignore errors)
	cleanOldLogs(logDir, now)

	filename := filepath.Join(logDir, logPrefix+now.Format("2006-01-02")+logSuffix)
	return os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
}

// cleanOldLogs removes log files older than retentionDays.
func cleanOldLogs(logDir string, now time.Time) {
	cutoff := now.AddDate(0, 0, -retentionDays)

	entries, err := os.ReadDir(logDir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, logPrefix) || !strings.HasSuffix(name, logSuffix) {
			continue
		}

		// Parse date from filename: slotctl-2024-01-05.log
		dateStr := strings.TrimPrefix(strings.TrimSuffix(name, logSuffix), logPrefix)
		logDate, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}

		if logDate.Before(cutoff) {
			os.Remove(filepath.Join(logDir, name))
		}
	}
}
