package plan

import (
	"errors"
	"testing"
)

func TestSetStatusTransitions(t *testing.T) {
	p := &Plan{Phases: []Phase{
		{ID: "0", Status: StatusPending, Tasks: []Task{
			{ID: "0.1.1", Status: StatusPending, Subtasks: []Subtask{
				{ID: "0.1.1.1", Status: StatusPending},
				{ID: "0.1.1.2", Status: StatusInProgress},
			}},
		}},
	}}

	if err := p.SetStatus("0.1.1", StatusInProgress); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	_, task := p.FindTask("0.1.1")
	if task.Tracking.StartedAt == "" {
		t.Error("started_at not stamped")
	}
	if task.Subtasks[0].Status != StatusPending {
		t.Error("in_progress must not cascade to subtasks")
	}

	if err := p.SetStatus("0.1.1", StatusCompleted); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if task.Tracking.CompletedAt == "" {
		t.Error("completed_at not stamped")
	}
	for _, st := range task.Subtasks {
		if st.Status != StatusCompleted {
			t.Errorf("subtask %s not cascaded: %s", st.ID, st.Status)
		}
	}

	// Cascade is one-way: reverting the task leaves subtasks completed.
	if err := p.SetStatus("0.1.1", StatusPending); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if task.Subtasks[0].Status != StatusCompleted {
		t.Error("revert cascaded to subtasks")
	}
}

func TestSetStatusErrors(t *testing.T) {
	p := &Plan{Phases: []Phase{{ID: "0", Tasks: []Task{{ID: "0.1.1", Status: StatusPending}}}}}

	if err := p.SetStatus("0.1.1", Status("done")); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("bad status: got %v, want ErrInvalidStatus", err)
	}
	if err := p.SetStatus("9.9.9", StatusCompleted); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("missing task: got %v, want ErrTaskNotFound", err)
	}
}

func TestAddPhaseAndTask(t *testing.T) {
	p := New("test")
	ph := p.AddPhase("Foundation", "first")
	if ph.ID != "0" || ph.Status != StatusPending {
		t.Errorf("phase: %+v", ph)
	}

	task, err := p.AddTask("0", "Scaffold")
	if err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	if task.ID != "0.1.1" || task.Status != StatusPending {
		t.Errorf("task: %+v", task)
	}

	task2, err := p.AddTask("0", "Wire config")
	if err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	if task2.ID != "0.1.2" {
		t.Errorf("second task ID: got %s, want 0.1.2", task2.ID)
	}

	if _, err := p.AddTask("7", "nope"); !errors.Is(err, ErrPhaseNotFound) {
		t.Errorf("missing phase: got %v, want ErrPhaseNotFound", err)
	}
}

func TestRemoveTaskAndPhase(t *testing.T) {
	p := &Plan{Phases: []Phase{
		{ID: "0", Tasks: []Task{{ID: "0.1.1"}, {ID: "0.1.2"}}},
		{ID: "1"},
	}}

	if err := p.RemoveTask("0.1.1"); err != nil {
		t.Fatalf("RemoveTask failed: %v", err)
	}
	if len(p.Phases[0].Tasks) != 1 || p.Phases[0].Tasks[0].ID != "0.1.2" {
		t.Errorf("tasks after removal: %+v", p.Phases[0].Tasks)
	}
	if err := p.RemoveTask("0.1.1"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("double removal: got %v, want ErrTaskNotFound", err)
	}

	if err := p.RemovePhase("1"); err != nil {
		t.Fatalf("RemovePhase failed: %v", err)
	}
	if err := p.RemovePhase("1"); !errors.Is(err, ErrPhaseNotFound) {
		t.Errorf("double removal: got %v, want ErrPhaseNotFound", err)
	}
}
