package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q)=%v want %v", in, got, want)
		}
	}
}

func TestJSONComponent(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "debug", true)
	defer Init("info", false)

	Component("economy").Debug("attack resolved", "attacker", 1)

	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec); err != nil {
		t.Fatalf("not json: %v (%s)", err, buf.String())
	}
	if rec["component"] != "economy" || rec["msg"] != "attack resolved" {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "warn", false)
	defer Init("info", false)

	Info("hidden")
	Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}
