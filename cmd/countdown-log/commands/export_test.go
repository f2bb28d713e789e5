package commands

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestExportToJSONL(t *testing.T) {
	start := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	path := createTestLogFile(t, sessionEvents("s1", "offer", start))

	var buf bytes.Buffer
	if err := Export(path, "jsonl", &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 8 {
		t.Fatalf("expected 8 lines, got %d", len(lines))
	}
	for i, line := range lines {
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", i, err)
		}
		if m["Key"] != "offer" {
			t.Errorf("line %d: expected key offer, got %v", i, m["Key"])
		}
	}
}

func TestExportToCSV(t *testing.T) {
	start := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	path := createTestLogFile(t, sessionEvents("s1", "offer", start))

	var buf bytes.Buffer
	if err := Export(path, "csv", &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(records) != 9 {
		t.Fatalf("expected header + 8 rows, got %d", len(records))
	}
	if records[0][0] != "timestamp" || records[0][6] != "remaining_ms" {
		t.Errorf("unexpected header: %v", records[0])
	}

	// Row 4 is the initial tick.
	tick := records[4]
	if tick[3] != "TICK" || tick[6] != "2000" {
		t.Errorf("unexpected tick row: %v", tick)
	}
	// Last row is the expiry transition.
	last := records[8]
	if last[3] != "STATE" || last[4] != "EXPIRED" {
		t.Errorf("unexpected last row: %v", last)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	path := createTestLogFile(t, nil)
	var buf bytes.Buffer
	if err := Export(path, "xml", &buf); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestRunExportToFile(t *testing.T) {
	start := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	path := createTestLogFile(t, sessionEvents("s1", "offer", start))
	out := filepath.Join(t.TempDir(), "out.jsonl")

	if err := RunExport(path, "jsonl", out); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if strings.Count(string(data), "\n") != 8 {
		t.Errorf("expected 8 lines, got:\n%s", data)
	}
}
