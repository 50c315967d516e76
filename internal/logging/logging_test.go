package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: HumanFormat, Level: WarnLevel, Output: &buf})

	logger.Debug("hidden", nil)
	logger.Info("hidden", nil)
	logger.Warn("shown", nil)
	logger.Error("shown too", nil)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("filtered levels leaked: %s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "shown too") {
		t.Errorf("enabled levels missing: %s", out)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: JSONFormat, Level: InfoLevel, Output: &buf})

	logger.Info("corpus saved", Fields{"files": 3})

	var e struct {
		Level   string                 `json:"level"`
		Message string                 `json:"message"`
		Fields  map[string]interface{} `json:"fields"`
	}
	if err := json.Unmarshal(buf.Bytes(), &e); err != nil {
		t.Fatalf("output is not JSON: %v: %s", err, buf.String())
	}
	if e.Level != "info" || e.Message != "corpus saved" {
		t.Errorf("entry = %+v", e)
	}
	if e.Fields["files"] != float64(3) {
		t.Errorf("fields = %v", e.Fields)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", DebugLevel},
		{"error", ErrorLevel},
		{"bogus", InfoLevel},
		{"", InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
