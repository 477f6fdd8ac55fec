package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_Development(t *testing.T) {
	log, err := New(true)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	if log == nil {
		t.Fatal("expected non-nil logger")
	}

	// Should not panic
	log.Info("test message")
}

func TestNew_Production(t *testing.T) {
	log, err := New(false)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	if log == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestMust(t *testing.T) {
	// Should not panic
	log := Must(true)
	if log == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestNew_Level(t *testing.T) {
	log, err := New(false, WithLevel("warn"))
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	if log.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	if !log.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn should be enabled")
	}

	if _, err := New(false, WithLevel("loud")); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNew_DevelopmentIgnoresLevel(t *testing.T) {
	log := Must(true, WithLevel("error"))
	if !log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("development logger should log debug")
	}
}

func TestNew_Output(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fearwatch.log")

	log, err := New(false, WithOutput(path))
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	log.Info("poller started")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "poller started") {
		t.Errorf("log file missing message: %s", data)
	}
}
