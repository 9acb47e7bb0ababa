package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"", zapcore.InfoLevel, false},
		{"INFO", zapcore.InfoLevel, false},
		{"warning", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFileOutputRespectsLevel(t *testing.T) {
	tests := []struct {
		level    string
		wantInfo bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "softsim.log")
			cfg := DefaultFileConfig(path)
			cfg.Compress = false
			if err := InitWithFileConfig(tt.level, cfg, nil); err != nil {
				t.Fatal(err)
			}
			Info("body added", zap.String("name", "jelly"))
			Warn("body diverged", zap.Int("tick", 7))
			Sync()

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			out := string(data)
			if got := strings.Contains(out, "body added"); got != tt.wantInfo {
				t.Errorf("info line present = %v, want %v", got, tt.wantInfo)
			}
			if !strings.Contains(out, `"tick":7`) {
				t.Error("expected structured warn line in file")
			}
		})
	}
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithFileConfig("info", FileConfig{}, &buf); err != nil {
		t.Fatal(err)
	}
	Named("world").Info("pause changed", zap.Bool("paused", true))
	Sync()

	out := buf.String()
	if !strings.Contains(out, "world") || !strings.Contains(out, "pause changed") {
		t.Errorf("unexpected console output %q", out)
	}
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	if err := Init("verbose", ""); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestNoSinksDiscards(t *testing.T) {
	if err := InitWithFileConfig("debug", FileConfig{}, nil); err != nil {
		t.Fatal(err)
	}
	if Log.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger without sinks should be a no-op")
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/softsim.log")
	if cfg.Path != "/tmp/softsim.log" || cfg.MaxSizeMB != 20 || cfg.MaxBackups != 3 || cfg.MaxAgeDays != 14 || !cfg.Compress {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}
