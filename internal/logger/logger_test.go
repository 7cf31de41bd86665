package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

// createTestLogger builds a logger writing JSON to the given buffer.
func createTestLogger(t *testing.T, buf *bytes.Buffer) *Logger {
	t.Helper()
	handler := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return &Logger{slog: slog.New(handler)}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "valid json config stdout",
			config:  Config{Level: "debug", Format: "json", Output: "stdout"},
			wantErr: false,
		},
		{
			name:    "valid text config stderr",
			config:  Config{Level: "info", Format: "text", Output: "stderr"},
			wantErr: false,
		},
		{
			name:    "invalid level",
			config:  Config{Level: "invalid", Format: "json", Output: "stdout"},
			wantErr: true,
		},
		{
			name:    "invalid format",
			config:  Config{Level: "debug", Format: "xml", Output: "stdout"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && log == nil {
				t.Error("New() returned nil logger without error")
			}
		})
	}
}

func TestLogger_Info(t *testing.T) {
	buf := &bytes.Buffer{}
	log := createTestLogger(t, buf)

	log.Info("assistant started", Field{Key: "chat_id", Value: "42"})

	output := buf.String()
	if !strings.Contains(output, "assistant started") {
		t.Errorf("Expected log to contain message, got: %s", output)
	}
	if !strings.Contains(output, "chat_id") {
		t.Errorf("Expected log to contain field 'chat_id', got: %s", output)
	}
}

func TestLogger_Error(t *testing.T) {
	buf := &bytes.Buffer{}
	log := createTestLogger(t, buf)

	log.Error("delivery failed", errors.New("chat not found"), Field{Key: "chat_id", Value: "42"})

	output := buf.String()
	if !strings.Contains(output, "delivery failed") {
		t.Errorf("Expected log to contain message, got: %s", output)
	}
	if !strings.Contains(output, "chat not found") {
		t.Errorf("Expected log to contain error message, got: %s", output)
	}
}

func TestLogger_With(t *testing.T) {
	buf := &bytes.Buffer{}
	log := createTestLogger(t, buf)

	child := log.With(Field{Key: "component", Value: "sweeper"})
	child.Info("tick")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	if record["component"] != "sweeper" {
		t.Errorf("expected attached field in output, got: %v", record)
	}
}
