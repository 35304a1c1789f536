package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSetLevel_AppliesAtRuntime(t *testing.T) {
	Init("info")
	defer SetLevel("info")

	ctx := context.Background()
	if L().Enabled(ctx, slog.LevelDebug) {
		t.Fatal("debug enabled at info level")
	}

	SetLevel("debug")
	if !L().Enabled(ctx, slog.LevelDebug) {
		t.Error("debug not enabled after SetLevel")
	}
	if Level() != slog.LevelDebug {
		t.Errorf("Level: got %v, want %v", Level(), slog.LevelDebug)
	}

	SetLevel("error")
	if L().Enabled(ctx, slog.LevelWarn) {
		t.Error("warn enabled at error level")
	}
}

func TestHelpers_RespectLevel(t *testing.T) {
	Init("info")
	prev := logger
	defer func() {
		logger = prev
		SetLevel("info")
	}()

	var buf bytes.Buffer
	logger = slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level}))
	SetLevel("warn")

	Debug("d")
	Info("i")
	Warn("w", "k", 1)
	Error("e")

	var got []string
	dec := json.NewDecoder(&buf)
	for dec.More() {
		var rec map[string]any
		if err := dec.Decode(&rec); err != nil {
			t.Fatalf("decode: %v", err)
		}
		got = append(got, rec["msg"].(string))
	}
	if len(got) != 2 || got[0] != "w" || got[1] != "e" {
		t.Errorf("messages: got %v, want [w e]", got)
	}
}
