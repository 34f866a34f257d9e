package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestInfoWritesJSONLine(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Info("store.put", map[string]any{"id": "cv_1", "size": 42})

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["level"] != "info" {
		t.Fatalf("expected level info, got %v", entry["level"])
	}
	if entry["msg"] != "store.put" {
		t.Fatalf("expected msg store.put, got %v", entry["msg"])
	}
	if entry["id"] != "cv_1" {
		t.Fatalf("expected id field, got %v", entry["id"])
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts field in %v", entry)
	}
}

func TestErrorRendersErrorValues(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Error("render.failed", map[string]any{"error": errors.New("boom")})

	line := buf.String()
	if !strings.Contains(line, `"level":"error"`) {
		t.Fatalf("expected error level, got %s", line)
	}
	if !strings.Contains(line, `"error":"boom"`) {
		t.Fatalf("expected error text, got %s", line)
	}
}
