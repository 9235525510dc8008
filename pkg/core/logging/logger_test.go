package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	mdwlog "github.com/msto63/actionvm/foundation/core/log"
	"github.com/msto63/actionvm/pkg/core/config"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{Level(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNew(t *testing.T) {
	logger := New("test-service")

	if logger == nil {
		t.Fatal("New() returned nil")
	}
	if logger.name != "test-service" {
		t.Errorf("name = %v, want test-service", logger.name)
	}
}

func TestLogger_KeyValues(t *testing.T) {
	var buf bytes.Buffer
	logger := Wrap(NewLogger(LoggerConfig{Level: "debug", Format: "json", Output: &buf}), "grpc")

	logger.Info("gRPC request", "method", "/actionvm.v1.ActionService/Execute", "status", "OK", "orphan")

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if decoded["logger"] != "grpc" {
		t.Errorf("logger = %v, want grpc", decoded["logger"])
	}
	if decoded["method"] != "/actionvm.v1.ActionService/Execute" {
		t.Errorf("method = %v", decoded["method"])
	}
	if _, ok := decoded["orphan"]; ok {
		t.Error("orphan key should be dropped")
	}
}

func TestLogger_WithLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := Wrap(NewLogger(LoggerConfig{Level: "debug", Output: &buf}), "test")

	quiet := logger.WithLevel(LevelError)
	quiet.Warn("hidden")
	if buf.Len() != 0 {
		t.Errorf("warn written at error level: %q", buf.String())
	}
	if quiet.name != "test" {
		t.Errorf("name should be preserved: got %v", quiet.name)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected mdwlog.Level
	}{
		{"trace", mdwlog.LevelTrace},
		{"DEBUG", mdwlog.LevelDebug},
		{"warning", mdwlog.LevelWarn},
		{"error", mdwlog.LevelError},
		{"invalid", mdwlog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%s) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.General.LogLevel = "debug"
	cfg.General.LogFormat = "console"

	lc := FromConfig(cfg, "interp")
	if lc.ServiceName != "interp" || lc.Level != "debug" || lc.Format != "console" {
		t.Errorf("FromConfig() = %+v", lc)
	}

	if lc := FromConfig(nil, "x"); lc.Level != "info" {
		t.Errorf("FromConfig(nil) level = %v, want info", lc.Level)
	}
}

func TestSetRoot(t *testing.T) {
	var buf bytes.Buffer
	SetRoot(NewLogger(LoggerConfig{Level: "info", Format: "text", Output: &buf}))
	defer SetRoot(NewLogger(DefaultLoggerConfig("actionvm")))

	NewSimpleLogger("ws").Info("derived")
	if !strings.Contains(buf.String(), "derived") {
		t.Errorf("component logger did not use root output: %q", buf.String())
	}
}

func TestToFields(t *testing.T) {
	if fields := toFields(); fields != nil {
		t.Error("toFields() with no args should return nil")
	}

	fields := toFields("key1", "value1", "key2", 42)
	if fields["key1"] != "value1" {
		t.Errorf("fields[key1] = %v, want value1", fields["key1"])
	}
	if fields["key2"] != 42 {
		t.Errorf("fields[key2] = %v, want 42", fields["key2"])
	}

	fields = toFields(123, "value")
	if len(fields) != 0 {
		t.Errorf("Non-string key should be skipped, got %v fields", len(fields))
	}
}
