package plan

// Recalculate recomputes every derived progress field: per-phase
// {completed, total, percentage}, phase status, and the plan summary.
// It is idempotent and runs as part of every save so the document is
// self-consistent on disk.
//
// Phase status derivation: completed when every task is completed (and
// there is at least one), in_progress when any task is actively worked
// or the phase has partial progress, otherwise unchanged — a manually
// set blocked/skipped phase status is never downgraded.
func Recalculate(p *Plan) {
	totalTasks := 0
	completedTasks := 0

	for i := range p.Phases {
		ph := &p.Phases[i]
		total := len(ph.Tasks)
		completed := 0
		active := false
		for j := range ph.Tasks {
			switch ph.Tasks[j].Status {
			case StatusCompleted:
				completed++
			case StatusInProgress:
				active = true
			}
		}

		ph.Progress = Progress{
			Completed: completed,
			Total:     total,
		}
		if total > 0 {
			ph.Progress.Percentage = float64(completed) / float64(total) * 100
		}

		switch {
		case total > 0 && completed == total:
			ph.Status = StatusCompleted
		case active || completed > 0:
			ph.Status = StatusInProgress
		}

		totalTasks += total
		completedTasks += completed
	}

	p.Summary = Summary{
		TotalPhases:    len(p.Phases),
		TotalTasks:     totalTasks,
		CompletedTasks: completedTasks,
	}
	if totalTasks > 0 {
		p.Summary.OverallProgress = float64(completedTasks) / float64(totalTasks) * 100
	}
}
