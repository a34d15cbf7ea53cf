package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/socialhealth/healthscore/pkg/config"
)

func TestInitLogger(t *testing.T) {
	oldLogger := Logger
	defer func() { Logger = oldLogger }()

	tests := []struct {
		name  string
		cfg   config.LoggingConfig
		level zapcore.Level
	}{
		{"json info", config.LoggingConfig{Level: "INFO", Format: "json"}, zapcore.InfoLevel},
		{"text debug", config.LoggingConfig{Level: "debug", Format: "text"}, zapcore.DebugLevel},
		{"bad level falls back to info", config.LoggingConfig{Level: "loud", Format: "json"}, zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := InitLogger(&tt.cfg); err != nil {
				t.Fatalf("Failed to initialize logger: %v", err)
			}
			if !GetLogger().Core().Enabled(tt.level) {
				t.Errorf("Expected level %s to be enabled", tt.level)
			}
			if tt.level > zapcore.DebugLevel && GetLogger().Core().Enabled(tt.level-1) {
				t.Errorf("Expected level %s to be disabled", tt.level-1)
			}
		})
	}
}

func TestContextFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	WithTraceID(WithAccount(base, 42), "abc123").Info("score calculated")
	WithTraceID(base, "").Info("no trace")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}

	fields := entries[0].ContextMap()
	if fields["account_id"] != int64(42) {
		t.Errorf("Expected account_id 42, got %v", fields["account_id"])
	}
	if fields["trace_id"] != "abc123" {
		t.Errorf("Expected trace_id abc123, got %v", fields["trace_id"])
	}
	if _, ok := entries[1].ContextMap()["trace_id"]; ok {
		t.Error("Expected empty trace id to be omitted")
	}
}
