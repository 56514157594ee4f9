package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"marmurfit_voicebot/internal/estimate/transport"
)

const testCatalog = `{"materials": [
  {"name": "gri", "price_per_m2": 350},
  {"name": "gri antracit", "price_per_m2": 420},
  {"name": "negru absolut", "price_per_m2": 700}
]}`

func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kb.json")
	if err := os.WriteFile(path, []byte(testCatalog), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEstimateFromArgs(t *testing.T) {
	out, err := run(t, "", "--catalog", writeCatalog(t), "gri", "antracit", "3", "metri", "patrati")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp transport.EstimateResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if resp.Material == nil || *resp.Material != "gri antracit" {
		t.Fatalf("expected gri antracit, got %+v", resp.Material)
	}
	if resp.EstimateRON == nil || *resp.EstimateRON != 1260 {
		t.Fatalf("expected 1260 lei, got %+v", resp.EstimateRON)
	}
	if !resp.Complete {
		t.Fatalf("expected complete result")
	}
}

func TestEstimateReadsStdinLines(t *testing.T) {
	out, err := run(t, "negru absolut 2 m2\n\nceva fara material\n", "--catalog", writeCatalog(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 results, got %d: %q", len(lines), out)
	}

	var second transport.EstimateResponse
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("decode second line: %v", err)
	}
	if second.Complete || second.Material != nil {
		t.Fatalf("expected incomplete result without material, got %+v", second)
	}
}

func TestMaterialsListsDetectionOrder(t *testing.T) {
	out, err := run(t, "", "materials", "--catalog", writeCatalog(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 materials, got %q", out)
	}
	if !strings.HasPrefix(lines[0], "negru absolut") || !strings.HasPrefix(lines[2], "gri ") {
		t.Fatalf("unexpected order: %q", out)
	}
}

func TestMissingCatalogFails(t *testing.T) {
	if _, err := run(t, "", "--catalog", filepath.Join(t.TempDir(), "missing.json"), "gri 2 mp"); err == nil {
		t.Fatalf("expected error for missing catalog")
	}
}
