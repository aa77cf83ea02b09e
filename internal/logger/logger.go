package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the log file created under <DataDir>/logs.
const FileName = "fieldplan.log"

// Config holds logger configuration.
type Config struct {
	Debug   bool
	DataDir string
	// Stderr overrides the debug mirror; nil means os.Stderr.
	Stderr io.Writer
}

// Logger wraps the charm logger behind a *slog.Logger so services can log
// through log/slog. Close releases the rotating file.
type Logger struct {
	*slog.Logger
	file io.Closer
}

// New creates a logger writing to a rotating file. In debug mode entries are
// mirrored to stderr and the level drops to debug.
func New(cfg Config) (*Logger, error) {
	logDir := filepath.Join(cfg.DataDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, FileName),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	level := log.InfoLevel
	var writer io.Writer = fileWriter
	if cfg.Debug {
		level = log.DebugLevel
		stderr := cfg.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		writer = io.MultiWriter(stderr, fileWriter)
	}

	return &Logger{Logger: slog.New(newHandler(writer, level, cfg.Debug)), file: fileWriter}, nil
}

// NewWriter builds an unrotated logger over w, used by tests and by commands
// that must not touch the data directory.
func NewWriter(w io.Writer, debug bool) *Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	return &Logger{Logger: slog.New(newHandler(w, level, debug))}
}

func newHandler(w io.Writer, level log.Level, caller bool) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportCaller:    caller,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "fieldplan",
	})
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
