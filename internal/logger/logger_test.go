package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(false)
	l.SetOutput(&buf)

	l.Info("hello %s", "world")
	l.Debug("hidden")
	l.Warn("careful")
	l.Error("broken: %d", 42)

	got := buf.String()
	if !strings.Contains(got, "hello world\n") {
		t.Errorf("info line missing: %q", got)
	}
	if strings.Contains(got, "hidden") {
		t.Errorf("debug should not print when not verbose: %q", got)
	}
	if !strings.Contains(got, "[WARN] careful\n") {
		t.Errorf("warn line missing: %q", got)
	}
	if !strings.Contains(got, "[ERROR] broken: 42\n") {
		t.Errorf("error line missing: %q", got)
	}
}

func TestVerboseDebug(t *testing.T) {
	var buf bytes.Buffer
	l := New(true)
	l.SetOutput(&buf)

	l.Debug("token mode: %s", "id")
	if got := buf.String(); got != "[DEBUG] token mode: id\n" {
		t.Errorf("got %q", got)
	}
}

func TestProgressBarSuppressesInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(false)
	l.SetOutput(&buf)
	l.SetProgressBar(true)

	l.Info("quiet")
	if buf.Len() != 0 {
		t.Errorf("expected no terminal output with an active bar, got %q", buf.String())
	}
}

func TestFileLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "qobuz.log")
	l := Discard()
	if err := l.SetFileLog(path, 1); err != nil {
		t.Fatalf("SetFileLog() error: %v", err)
	}

	l.Debug("written to file only")
	l.Info("and this")
	if err := l.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "[DEBUG] written to file only") {
		t.Errorf("debug line missing from file: %q", data)
	}
	if !strings.Contains(string(data), "and this") {
		t.Errorf("info line missing from file: %q", data)
	}
}
