package plan

// NextTask returns the next actionable task and its phase, scanning
// phases in stored order. An in_progress task is returned immediately:
// work already started always pre-empts the search for new work. A
// pending task is returned once every dependency resolves to a completed
// task somewhere in the plan; a dependency ID that resolves to no task at
// all counts as unmet. Phases that are completed or skipped are passed
// over entirely. Returns (nil, nil) when nothing is actionable.
//
// There is no cycle detection: tasks in a dependency cycle simply never
// become actionable, which is the intended safety behavior.
func NextTask(p *Plan) (*Phase, *Task) {
	for i := range p.Phases {
		ph := &p.Phases[i]
		if ph.Status == StatusCompleted || ph.Status == StatusSkipped {
			continue
		}
		for j := range ph.Tasks {
			t := &ph.Tasks[j]
			switch t.Status {
			case StatusInProgress:
				return ph, t
			case StatusPending:
				if depsMet(p, t) {
					return ph, t
				}
			}
		}
	}
	return nil, nil
}

// depsMet reports whether every dependency of t resolves to a completed
// task. A reference to a nonexistent task fails closed.
func depsMet(p *Plan, t *Task) bool {
	for _, dep := range t.DependsOn {
		_, depTask := p.FindTask(dep)
		if depTask == nil || depTask.Status != StatusCompleted {
			return false
		}
	}
	return true
}

// UpcomingEntry is one row of the forward-looking classification.
type UpcomingEntry struct {
	Phase      *Phase
	Task       *Task
	Actionable bool
}

// Upcoming classifies every non-terminal task across active, non-reserved
// phases. Entries are grouped by status priority — in_progress first,
// then actionable pending, waiting pending, and blocked — and are stable
// in phase-then-task scan order within each group.
func Upcoming(p *Plan) []UpcomingEntry {
	var inProgress, actionable, waiting, blocked []UpcomingEntry

	for i := range p.Phases {
		ph := &p.Phases[i]
		if ph.Status == StatusCompleted || ph.Status == StatusSkipped {
			continue
		}
		if IsReservedPhase(ph.ID) {
			continue
		}
		for j := range ph.Tasks {
			t := &ph.Tasks[j]
			switch t.Status {
			case StatusInProgress:
				inProgress = append(inProgress, UpcomingEntry{ph, t, true})
			case StatusPending:
				if depsMet(p, t) {
					actionable = append(actionable, UpcomingEntry{ph, t, true})
				} else {
					waiting = append(waiting, UpcomingEntry{ph, t, false})
				}
			case StatusBlocked:
				blocked = append(blocked, UpcomingEntry{ph, t, false})
			}
		}
	}

	out := make([]UpcomingEntry, 0, len(inProgress)+len(actionable)+len(waiting)+len(blocked))
	out = append(out, inProgress...)
	out = append(out, actionable...)
	out = append(out, waiting...)
	out = append(out, blocked...)
	return out
}

// CurrentPhase returns the first in_progress phase, falling back to the
// first pending phase, or nil.
func CurrentPhase(p *Plan) *Phase {
	for i := range p.Phases {
		if p.Phases[i].Status == StatusInProgress {
			return &p.Phases[i]
		}
	}
	for i := range p.Phases {
		if p.Phases[i].Status == StatusPending {
			return &p.Phases[i]
		}
	}
	return nil
}
