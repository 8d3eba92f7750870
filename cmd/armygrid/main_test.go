package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	err := run(args, &out)
	return out.String(), err
}

func TestSplitPrintsValues(t *testing.T) {
	out, err := runCLI(t, "--seed", "9", "split", "100", "6", "--lower", "5", "--upper", "40")
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	var body struct {
		Values []int `json:"values"`
	}
	if err := json.Unmarshal([]byte(out), &body); err != nil {
		t.Fatalf("failed to decode output: %v\n%s", err, out)
	}
	if len(body.Values) != 6 {
		t.Fatalf("expected 6 values, got %v", body.Values)
	}
	total := 0
	for _, v := range body.Values {
		if v < 5 || v > 40 {
			t.Fatalf("value %d outside [5, 40]", v)
		}
		total += v
	}
	if total != 100 {
		t.Fatalf("expected sum 100, got %d", total)
	}

	again, err := runCLI(t, "--seed", "9", "split", "100", "6", "--lower", "5", "--upper", "40")
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if again != out {
		t.Fatalf("expected identical output for the same seed")
	}
}

func TestSplitInfeasible(t *testing.T) {
	if _, err := runCLI(t, "split", "10", "2", "--upper", "4"); err == nil {
		t.Fatalf("expected infeasible split to fail")
	}
}

func TestSplitPreview(t *testing.T) {
	out, err := runCLI(t, "--preview", "split", "20", "4")
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if !strings.Contains(out, "4 parts") {
		t.Fatalf("expected partition preview, got:\n%s", out)
	}
}

func TestLayoutUsesDefaultProfile(t *testing.T) {
	out, err := runCLI(t, "layout", "30")
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	var body layoutOutput
	if err := json.Unmarshal([]byte(out), &body); err != nil {
		t.Fatalf("failed to decode output: %v\n%s", err, out)
	}
	if body.Rows != 5 || body.Columns != 7 {
		t.Fatalf("expected a 5x7 grid, got %dx%d", body.Rows, body.Columns)
	}
	if len(body.Slots) != 30 {
		t.Fatalf("expected 30 filled slots, got %d", len(body.Slots))
	}
}

func TestLayoutFlagsOverrideProfile(t *testing.T) {
	out, err := runCLI(t, "layout", "30", "--margin-x", "0", "--min-columns", "8")
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	var body layoutOutput
	if err := json.Unmarshal([]byte(out), &body); err != nil {
		t.Fatalf("failed to decode output: %v\n%s", err, out)
	}
	if body.Rows != 4 || body.Columns != 8 {
		t.Fatalf("expected a 4x8 grid, got %dx%d", body.Rows, body.Columns)
	}
}

func TestLayoutRejectsBadDirection(t *testing.T) {
	if _, err := runCLI(t, "layout", "3", "--direction-x", "up"); err == nil {
		t.Fatalf("expected unknown direction to fail")
	}
}

func TestRosterFromConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "army.toml")
	content := "max_roster_units = 50\n\n[layout]\narea_width = 400\narea_height = 400\nitem_width = 40\nitem_height = 40\nmax_columns = 3\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	out, err := runCLI(t, "--config", path, "--seed", "4", "roster", "10")
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	var body struct {
		Total   int `json:"total"`
		Columns int `json:"columns"`
		Counts  []struct {
			Type  string `json:"type"`
			Count int    `json:"count"`
		} `json:"counts"`
		Placements []struct {
			Unit string `json:"unit"`
		} `json:"placements"`
	}
	if err := json.Unmarshal([]byte(out), &body); err != nil {
		t.Fatalf("failed to decode output: %v\n%s", err, out)
	}
	if body.Total != 10 || len(body.Placements) != 10 {
		t.Fatalf("expected 10 placed units, got %+v", body)
	}
	if body.Columns > 3 {
		t.Fatalf("expected at most 3 columns, got %d", body.Columns)
	}
	if len(body.Counts) != 3 || body.Counts[0].Type != "spearman" {
		t.Fatalf("unexpected counts %+v", body.Counts)
	}

	if _, err := runCLI(t, "--config", path, "roster", "51"); err == nil {
		t.Fatalf("expected the configured unit limit to apply")
	}
}

func TestRosterPreview(t *testing.T) {
	out, err := runCLI(t, "--preview", "roster", "7")
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if !strings.Contains(out, "7 units on a") {
		t.Fatalf("expected army preview, got:\n%s", out)
	}
}

func TestUnknownCommand(t *testing.T) {
	if _, err := runCLI(t, "march"); err == nil {
		t.Fatalf("expected parse error")
	}
}
