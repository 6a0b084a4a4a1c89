package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/niveshlab/fundrank/backend/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *config.Config
		wantLevel zerolog.Level
	}{
		{
			name: "debug level",
			cfg: &config.Config{
				Env:       "development",
				LogLevel:  "debug",
				LogFormat: "json",
			},
			wantLevel: zerolog.DebugLevel,
		},
		{
			name: "info level",
			cfg: &config.Config{
				Env:       "production",
				LogLevel:  "info",
				LogFormat: "json",
			},
			wantLevel: zerolog.InfoLevel,
		},
		{
			name: "warn level",
			cfg: &config.Config{
				Env:       "staging",
				LogLevel:  "warn",
				LogFormat: "json",
			},
			wantLevel: zerolog.WarnLevel,
		},
		{
			name: "error level",
			cfg: &config.Config{
				Env:       "production",
				LogLevel:  "error",
				LogFormat: "json",
			},
			wantLevel: zerolog.ErrorLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.cfg)
			if log.Zerolog().GetLevel() != tt.wantLevel {
				t.Errorf("Expected level %s, got %s", tt.wantLevel, log.Zerolog().GetLevel())
			}
		})
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)
	log := &Logger{zlog: base}

	log.WithFields(map[string]interface{}{
		"philosophy": "buffett",
		"ranked":     42,
	}).Info("run completed")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Log output is not JSON: %v", err)
	}

	if entry["philosophy"] != "buffett" {
		t.Errorf("Expected philosophy field, got %v", entry["philosophy"])
	}
	if entry["ranked"] != float64(42) {
		t.Errorf("Expected ranked=42, got %v", entry["ranked"])
	}
	if entry["message"] != "run completed" {
		t.Errorf("Expected message, got %v", entry["message"])
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)
	log := &Logger{zlog: base}

	log.WithError(errors.New("boom")).Error("something failed")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Log output is not JSON: %v", err)
	}

	if entry["error"] != "boom" {
		t.Errorf("Expected error field boom, got %v", entry["error"])
	}
}
