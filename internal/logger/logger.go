package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger writes leveled, printf-style messages to the terminal and, when
// configured, to a size-rotated log file.
type Logger struct {
	Verbose bool

	mu      sync.Mutex
	out     io.Writer
	errOut  io.Writer
	fileLog *lumberjack.Logger
	hasBar  bool
}

// New creates a Logger that writes to stdout and stderr.
func New(verbose bool) *Logger {
	return &Logger{
		Verbose: verbose,
		out:     os.Stdout,
		errOut:  os.Stderr,
	}
}

// Discard returns a Logger that drops all terminal output. Used by tests and
// by library callers that do not want console noise.
func Discard() *Logger {
	return &Logger{out: io.Discard, errOut: io.Discard}
}

// SetOutput redirects terminal output; errors go to the same writer.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
	l.errOut = w
}

// SetFileLog enables logging to a file. The file is rotated once it reaches
// maxSizeMB; keeps up to five old files.
func (l *Logger) SetFileLog(path string, maxSizeMB int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.fileLog = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: 5,
		MaxAge:     30,
	}
	return nil
}

// SetProgressBar indicates that a progress bar owns the terminal line.
func (l *Logger) SetProgressBar(active bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hasBar = active
}

// Close closes the log file if open.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fileLog != nil {
		err := l.fileLog.Close()
		l.fileLog = nil
		return err
	}
	return nil
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.log("INFO", format, args...)
}

// Debug logs to the terminal only in verbose mode; the file always gets it.
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.Verbose {
		l.log("DEBUG", format, args...)
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writeFile(l.format("DEBUG", format, args...))
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.log("WARN", format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := l.format("ERROR", format, args...)
	fmt.Fprint(l.errOut, msg)
	l.writeFile(msg)
}

func (l *Logger) log(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := l.format(level, format, args...)
	if l.Verbose || !l.hasBar {
		fmt.Fprint(l.out, msg)
	}
	l.writeFile(msg)
}

func (l *Logger) format(level, format string, args ...interface{}) string {
	msg := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	if level == "INFO" {
		return msg
	}
	return "[" + level + "] " + msg
}

// writeFile must be called with l.mu held.
func (l *Logger) writeFile(msg string) {
	if l.fileLog != nil {
		l.fileLog.Write([]byte(msg))
	}
}
