package logger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"unknown", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.name); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestFileLoggerWritesEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	l, err := New(&Config{LogFilePath: path, MaxFileSize: 1 << 20, Level: LevelDebug})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	l.Info("server started", String("addr", "127.0.0.1:8080"), Int("sections", 3))
	l.Error("compile failed", errors.New("pdflatex exited 1"))
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	content := string(data)

	for _, want := range []string{
		"[INFO] server started",
		"addr=127.0.0.1:8080",
		"sections=3",
		"[ERROR] compile failed",
		`error="pdflatex exited 1"`,
	} {
		if !strings.Contains(content, want) {
			t.Errorf("log output missing %q:\n%s", want, content)
		}
	}
}

func TestFileLoggerLevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	l, err := New(&Config{LogFilePath: path, MaxFileSize: 1 << 20, Level: LevelWarn})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	l.Debug("noise")
	l.Info("more noise")
	l.Warn("kept")
	l.Close()

	data, _ := os.ReadFile(path)
	content := string(data)
	if strings.Contains(content, "noise") {
		t.Errorf("entries below the level should be dropped:\n%s", content)
	}
	if !strings.Contains(content, "kept") {
		t.Errorf("warn entry missing:\n%s", content)
	}
}

func TestFileLoggerRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	l, err := New(&Config{LogFilePath: path, MaxFileSize: 128, Level: LevelDebug})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 0; i < 20; i++ {
		l.Info("a fairly long log line to push the file over the rotation threshold")
	}
	l.Close()

	if _, err := os.Stat(path + ".1"); err != nil {
		t.Errorf("rotated backup not found: %v", err)
	}
}

func TestGlobalLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "global.log")
	if err := Init(&Config{LogFilePath: path, MaxFileSize: 1 << 20, Level: LevelInfo}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer func() {
		Close()
		SetGlobalLogger(nil)
	}()

	Info("global entry", Bool("ready", true))
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if !strings.Contains(string(data), "global entry") {
		t.Errorf("global log output missing entry:\n%s", data)
	}
	if !strings.Contains(string(data), "ready=true") {
		t.Errorf("field missing:\n%s", data)
	}
}
