package plan

// CompactTask strips historical bookkeeping from a completed task,
// reducing it to exactly {id, title, status, tracking} with tracking
// reduced to at most {completed_at}. Non-completed tasks are untouched.
// Returns true if the task was modified.
//
// Compaction is lossy: callers must rotate a backup of the document
// before persisting the result.
func CompactTask(t *Task) bool {
	if t.Status != StatusCompleted {
		return false
	}

	modified := t.AgentType != "" || t.Skill != "" ||
		len(t.DependsOn) > 0 || len(t.Subtasks) > 0 ||
		t.Tracking.StartedAt != "" || len(t.Tracking.Extra) > 0

	t.AgentType = ""
	t.Skill = ""
	t.DependsOn = nil
	t.Subtasks = nil
	t.Tracking = Tracking{CompletedAt: t.Tracking.CompletedAt}

	return modified
}

// Compact applies CompactTask to every task in the plan and returns the
// number of tasks modified.
func Compact(p *Plan) int {
	count := 0
	for i := range p.Phases {
		for j := range p.Phases[i].Tasks {
			if CompactTask(&p.Phases[i].Tasks[j]) {
				count++
			}
		}
	}
	return count
}
