package plan

import "testing"

func twoPhasePlan() *Plan {
	return &Plan{Phases: []Phase{
		{ID: "0", Name: "Foundation", Status: StatusPending, Tasks: []Task{
			{ID: "0.1.1", Title: "Scaffold", Status: StatusPending},
			{ID: "0.1.2", Title: "Config", Status: StatusPending, DependsOn: []string{"0.1.1"}},
		}},
		{ID: "1", Name: "Core", Status: StatusPending, Tasks: []Task{
			{ID: "1.1.1", Title: "Engine", Status: StatusPending, DependsOn: []string{"0.1.2"}},
		}},
	}}
}

func TestNextTaskWalkthrough(t *testing.T) {
	p := twoPhasePlan()

	// Walk the plan to completion; each step the resolver must hand out
	// tasks in dependency order.
	want := []string{"0.1.1", "0.1.2", "1.1.1"}
	for _, id := range want {
		_, task := NextTask(p)
		if task == nil {
			t.Fatalf("NextTask returned nil, want %s", id)
		}
		if task.ID != id {
			t.Fatalf("NextTask: got %s, want %s", task.ID, id)
		}
		if err := p.SetStatus(task.ID, StatusCompleted); err != nil {
			t.Fatalf("SetStatus failed: %v", err)
		}
		Recalculate(p)
	}

	if _, task := NextTask(p); task != nil {
		t.Errorf("finished plan: got %s, want nil", task.ID)
	}
	if p.Summary.OverallProgress != 100 {
		t.Errorf("overall progress: got %v, want 100", p.Summary.OverallProgress)
	}
}

func TestNextTaskInProgressShortCircuits(t *testing.T) {
	p := twoPhasePlan()
	p.Phases[1].Tasks[0].Status = StatusInProgress

	// Started work pre-empts earlier pending tasks only within its scan
	// position; phase 0 still comes first in stored order, so its pending
	// task wins unless it is dependency-gated.
	p.Phases[0].Tasks[0].Status = StatusCompleted
	p.Phases[0].Tasks[1].Status = StatusCompleted

	_, task := NextTask(p)
	if task == nil || task.ID != "1.1.1" {
		t.Fatalf("NextTask: got %v, want 1.1.1", task)
	}
}

func TestNextTaskMissingDependencyFailsClosed(t *testing.T) {
	p := &Plan{Phases: []Phase{
		{ID: "0", Status: StatusPending, Tasks: []Task{
			{ID: "0.1.1", Status: StatusPending, DependsOn: []string{"9.9.9"}},
			{ID: "0.1.2", Status: StatusPending},
		}},
	}}

	_, task := NextTask(p)
	if task == nil || task.ID != "0.1.2" {
		t.Fatalf("NextTask: got %v, want 0.1.2", task)
	}
}

func TestNextTaskCycleNeverActionable(t *testing.T) {
	tests := []struct {
		name  string
		tasks []Task
	}{
		{
			name: "self cycle",
			tasks: []Task{
				{ID: "0.1.1", Status: StatusPending, DependsOn: []string{"0.1.1"}},
			},
		},
		{
			name: "two-node cycle",
			tasks: []Task{
				{ID: "0.1.1", Status: StatusPending, DependsOn: []string{"0.1.2"}},
				{ID: "0.1.2", Status: StatusPending, DependsOn: []string{"0.1.1"}},
			},
		},
		{
			name: "three-node cycle",
			tasks: []Task{
				{ID: "0.1.1", Status: StatusPending, DependsOn: []string{"0.1.3"}},
				{ID: "0.1.2", Status: StatusPending, DependsOn: []string{"0.1.1"}},
				{ID: "0.1.3", Status: StatusPending, DependsOn: []string{"0.1.2"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Plan{Phases: []Phase{{ID: "0", Status: StatusPending, Tasks: tt.tasks}}}
			if _, task := NextTask(p); task != nil {
				t.Errorf("NextTask: got %s, want nil", task.ID)
			}
		})
	}
}

func TestNextTaskCycleDoesNotGateIndependentTask(t *testing.T) {
	p := &Plan{Phases: []Phase{
		{ID: "0", Status: StatusPending, Tasks: []Task{
			{ID: "0.1.1", Status: StatusPending, DependsOn: []string{"0.1.2"}},
			{ID: "0.1.2", Status: StatusPending, DependsOn: []string{"0.1.1"}},
			{ID: "0.1.3", Status: StatusPending},
		}},
	}}

	_, task := NextTask(p)
	if task == nil || task.ID != "0.1.3" {
		t.Fatalf("NextTask: got %v, want 0.1.3", task)
	}
}

func TestNextTaskSkipsCompletedAndSkippedPhases(t *testing.T) {
	p := &Plan{Phases: []Phase{
		{ID: "0", Status: StatusCompleted, Tasks: []Task{
			{ID: "0.1.1", Status: StatusPending},
		}},
		{ID: "1", Status: StatusSkipped, Tasks: []Task{
			{ID: "1.1.1", Status: StatusInProgress},
		}},
		{ID: "2", Status: StatusPending, Tasks: []Task{
			{ID: "2.1.1", Status: StatusPending},
		}},
	}}

	_, task := NextTask(p)
	if task == nil || task.ID != "2.1.1" {
		t.Fatalf("NextTask: got %v, want 2.1.1", task)
	}
}

func TestUpcomingOrdering(t *testing.T) {
	p := &Plan{Phases: []Phase{
		{ID: "0", Status: StatusInProgress, Tasks: []Task{
			{ID: "0.1.1", Status: StatusBlocked},
			{ID: "0.1.2", Status: StatusPending},
			{ID: "0.1.3", Status: StatusInProgress},
			{ID: "0.1.4", Status: StatusPending, DependsOn: []string{"0.1.2"}},
		}},
		{ID: "bugs", Status: StatusPending, Tasks: []Task{
			{ID: "bugs.1.1", Status: StatusPending},
		}},
	}}

	entries := Upcoming(p)
	got := make([]string, len(entries))
	for i, e := range entries {
		got[i] = e.Task.ID
	}

	want := []string{"0.1.3", "0.1.2", "0.1.4", "0.1.1"}
	if len(got) != len(want) {
		t.Fatalf("Upcoming: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Upcoming[%d]: got %s, want %s (full: %v)", i, got[i], want[i], got)
		}
	}

	if !entries[0].Actionable || !entries[1].Actionable {
		t.Error("in_progress and unblocked pending entries must be actionable")
	}
	if entries[2].Actionable || entries[3].Actionable {
		t.Error("waiting and blocked entries must not be actionable")
	}
}

func TestCurrentPhase(t *testing.T) {
	p := &Plan{Phases: []Phase{
		{ID: "0", Status: StatusCompleted},
		{ID: "1", Status: StatusPending},
		{ID: "2", Status: StatusInProgress},
	}}
	if ph := CurrentPhase(p); ph == nil || ph.ID != "2" {
		t.Errorf("CurrentPhase: got %v, want phase 2", ph)
	}

	p.Phases[2].Status = StatusCompleted
	if ph := CurrentPhase(p); ph == nil || ph.ID != "1" {
		t.Errorf("CurrentPhase fallback: got %v, want phase 1", ph)
	}
}
