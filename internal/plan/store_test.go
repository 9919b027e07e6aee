package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "plan.json")

	p := New("test-project")
	p.AddPhase("Foundation", "Set things up")
	if _, err := p.AddTask("0", "Scaffold"); err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}

	if err := Save(path, p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Meta.Project != "test-project" {
		t.Errorf("project: got %q", loaded.Meta.Project)
	}
	if _, task := loaded.FindTask("0.1.1"); task == nil {
		t.Error("task 0.1.1 missing after round trip")
	}
	// Load migrates legacy documents.
	if loaded.FindPhase(PhaseBugs) == nil || loaded.FindPhase(PhaseDeferred) == nil {
		t.Error("reserved phases missing after load")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.HasSuffix(string(data), "}\n") {
		t.Error("document missing trailing newline")
	}
	if !strings.Contains(string(data), "\n  \"meta\"") {
		t.Error("document not 2-space indented")
	}
}

func TestLoadErrors(t *testing.T) {
	tmpDir := t.TempDir()

	if _, err := Load(filepath.Join(tmpDir, "absent.json")); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing file: got %v, want ErrNotFound", err)
	}

	bad := filepath.Join(tmpDir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); !errors.Is(err, ErrParseError) {
		t.Errorf("corrupt file: got %v, want ErrParseError", err)
	}
}

func TestSaveStampsAndSorts(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "plan.json")

	p := New("test-project")
	p.Meta.UpdatedAt = "2020-01-01T00:00:00Z"
	p.Phases = []Phase{
		{ID: PhaseDeferred, Status: StatusPending},
		{ID: "2", Status: StatusPending},
		{ID: PhaseBugs, Status: StatusPending},
		{ID: "0", Status: StatusPending},
		{ID: "10", Status: StatusPending},
	}

	if err := Save(path, p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	want := []string{"0", "2", "10", PhaseBugs, PhaseDeferred}
	for i, id := range want {
		if p.Phases[i].ID != id {
			t.Fatalf("phase order[%d]: got %s, want %s", i, p.Phases[i].ID, id)
		}
	}

	if p.Meta.UpdatedAt == "2020-01-01T00:00:00Z" {
		t.Error("updated_at not refreshed")
	}
	if !strings.HasSuffix(p.Meta.UpdatedAt, "Z") {
		t.Errorf("updated_at not UTC: %s", p.Meta.UpdatedAt)
	}
	if p.Summary.TotalPhases != 5 {
		t.Errorf("summary not recalculated: %+v", p.Summary)
	}
}

func TestTrackingRoundTrip(t *testing.T) {
	in := Tracking{
		StartedAt: "2026-01-01T00:00:00Z",
		Extra:     map[string]any{"defer_reason": "waiting on review", "attempts": float64(2)},
	}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(data), "Extra") {
		t.Errorf("tracking not flattened: %s", data)
	}

	var out Tracking
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if out.StartedAt != in.StartedAt {
		t.Errorf("started_at: got %q", out.StartedAt)
	}
	if out.GetString("defer_reason") != "waiting on review" {
		t.Errorf("defer_reason: got %q", out.GetString("defer_reason"))
	}
	if v, _ := out.Get("attempts"); v != float64(2) {
		t.Errorf("attempts: got %v", v)
	}

	empty, err := json.Marshal(Tracking{})
	if err != nil {
		t.Fatal(err)
	}
	if string(empty) != "{}" {
		t.Errorf("empty tracking: got %s, want {}", empty)
	}
}

func TestRotateBackups(t *testing.T) {
	tmpDir := t.TempDir()
	const maxBackups = 3

	// No backups yet: rotation is a no-op.
	if err := RotateBackups(tmpDir, "plan.json", maxBackups); err != nil {
		t.Fatalf("empty rotation failed: %v", err)
	}

	// Write more snapshots than capacity; the oldest must fall off.
	for i := 1; i <= maxBackups+2; i++ {
		content := []byte(fmt.Sprintf("snapshot %d", i))
		if _, err := WriteBackup(tmpDir, "plan.json", content, maxBackups); err != nil {
			t.Fatalf("WriteBackup %d failed: %v", i, err)
		}
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != maxBackups {
		t.Fatalf("backup count: got %d, want %d", len(entries), maxBackups)
	}

	// plan.json.1 is the newest snapshot, plan.json.3 the oldest kept.
	for slot, want := range map[int]string{1: "snapshot 5", 2: "snapshot 4", 3: "snapshot 3"} {
		data, err := os.ReadFile(filepath.Join(tmpDir, fmt.Sprintf("plan.json.%d", slot)))
		if err != nil {
			t.Fatalf("read slot %d: %v", slot, err)
		}
		if string(data) != want {
			t.Errorf("slot %d: got %q, want %q", slot, data, want)
		}
	}
}
