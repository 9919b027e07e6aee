package plan

import "testing"

func TestRecalculate(t *testing.T) {
	p := &Plan{Phases: []Phase{
		{ID: "0", Status: StatusPending, Tasks: []Task{
			{ID: "0.1.1", Status: StatusCompleted},
			{ID: "0.1.2", Status: StatusCompleted},
		}},
		{ID: "1", Status: StatusPending, Tasks: []Task{
			{ID: "1.1.1", Status: StatusCompleted},
			{ID: "1.1.2", Status: StatusPending},
			{ID: "1.1.3", Status: StatusPending},
			{ID: "1.1.4", Status: StatusPending},
		}},
		{ID: "2", Status: StatusPending, Tasks: []Task{
			{ID: "2.1.1", Status: StatusPending},
		}},
	}}

	Recalculate(p)

	if p.Phases[0].Status != StatusCompleted {
		t.Errorf("phase 0 status: got %s, want completed", p.Phases[0].Status)
	}
	if p.Phases[0].Progress.Percentage != 100 {
		t.Errorf("phase 0 percentage: got %v, want 100", p.Phases[0].Progress.Percentage)
	}
	if p.Phases[1].Status != StatusInProgress {
		t.Errorf("phase 1 status: got %s, want in_progress", p.Phases[1].Status)
	}
	if p.Phases[1].Progress.Percentage != 25 {
		t.Errorf("phase 1 percentage: got %v, want 25", p.Phases[1].Progress.Percentage)
	}
	if p.Phases[2].Status != StatusPending {
		t.Errorf("phase 2 status: got %s, want pending", p.Phases[2].Status)
	}

	if p.Summary.TotalPhases != 3 || p.Summary.TotalTasks != 7 || p.Summary.CompletedTasks != 3 {
		t.Errorf("summary: got %+v", p.Summary)
	}
}

func TestRecalculateIdempotent(t *testing.T) {
	p := &Plan{Phases: []Phase{
		{ID: "0", Status: StatusPending, Tasks: []Task{
			{ID: "0.1.1", Status: StatusCompleted},
			{ID: "0.1.2", Status: StatusInProgress},
		}},
	}}

	Recalculate(p)
	first := *p
	Recalculate(p)
	if p.Phases[0].Progress != first.Phases[0].Progress ||
		p.Phases[0].Status != first.Phases[0].Status ||
		p.Summary != first.Summary {
		t.Errorf("second pass changed results: %+v vs %+v", p.Summary, first.Summary)
	}
}

func TestRecalculateNeverDowngradesManualStatus(t *testing.T) {
	p := &Plan{Phases: []Phase{
		{ID: "0", Status: StatusBlocked, Tasks: []Task{
			{ID: "0.1.1", Status: StatusPending},
		}},
		{ID: "1", Status: StatusSkipped, Tasks: []Task{
			{ID: "1.1.1", Status: StatusPending},
		}},
	}}

	Recalculate(p)

	if p.Phases[0].Status != StatusBlocked {
		t.Errorf("blocked phase: got %s, want blocked", p.Phases[0].Status)
	}
	if p.Phases[1].Status != StatusSkipped {
		t.Errorf("skipped phase: got %s, want skipped", p.Phases[1].Status)
	}

	// Progress in a blocked phase still promotes it to in_progress:
	// activity overrides the manual flag.
	p.Phases[0].Tasks[0].Status = StatusCompleted
	Recalculate(p)
	if p.Phases[0].Status != StatusCompleted {
		t.Errorf("fully completed blocked phase: got %s, want completed", p.Phases[0].Status)
	}
}

func TestRecalculateEmptyPhase(t *testing.T) {
	p := &Plan{Phases: []Phase{{ID: "0", Status: StatusPending}}}
	Recalculate(p)

	if p.Phases[0].Status != StatusPending {
		t.Errorf("empty phase status: got %s, want pending", p.Phases[0].Status)
	}
	if p.Phases[0].Progress.Percentage != 0 {
		t.Errorf("empty phase percentage: got %v, want 0", p.Phases[0].Progress.Percentage)
	}
	if p.Summary.OverallProgress != 0 {
		t.Errorf("overall progress: got %v, want 0", p.Summary.OverallProgress)
	}
}
