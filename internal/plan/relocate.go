package plan

import "fmt"

// Reserved triage phases, in their fixed sort order.
const (
	PhaseBugs     = "bugs"
	PhaseIdeas    = "ideas"
	PhaseDeferred = "deferred"
)

var reservedPhases = []struct {
	ID          string
	Name        string
	Description string
}{
	{PhaseBugs, "Bugs", "Bug fixes and issue resolution"},
	{PhaseIdeas, "Ideas", "Ideas and suggestions for future consideration"},
	{PhaseDeferred, "Deferred", "Tasks postponed for later consideration"},
}

// IsReservedPhase reports whether id is one of the reserved literals.
func IsReservedPhase(id string) bool {
	return reservedOrder(id) >= 0
}

// reservedOrder returns the fixed sort position of a reserved phase ID,
// or -1 for non-reserved IDs.
func reservedOrder(id string) int {
	for i, r := range reservedPhases {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// newReservedPhase builds an empty reserved phase with its fixed name and
// description.
func newReservedPhase(id string) Phase {
	for _, r := range reservedPhases {
		if r.ID == id {
			return Phase{
				ID:          r.ID,
				Name:        r.Name,
				Description: r.Description,
				Status:      StatusPending,
				Tasks:       []Task{},
			}
		}
	}
	panic("not a reserved phase: " + id)
}

// EnsureReservedPhases adds the bugs and deferred phases to legacy plans
// that lack them. The ideas phase is only created lazily when a task is
// first relocated into it. Returns true if the plan was modified.
func EnsureReservedPhases(p *Plan) bool {
	modified := false
	for _, id := range []string{PhaseDeferred, PhaseBugs} {
		if p.FindPhase(id) == nil {
			p.Phases = append(p.Phases, newReservedPhase(id))
			modified = true
		}
	}
	return modified
}

// Relocate moves a task to another phase. The target must be an existing
// phase or a reserved literal, which is created on demand. The task is
// removed from its source phase, given a fresh ID allocated within the
// target phase, and appended there with its dependencies cleared —
// references to the old hierarchical position are assumed invalid after
// the move. Returns the old and new task IDs.
//
// Attaching a reason record (e.g. why a task was deferred) is the
// caller's concern, via the task's tracking map.
func Relocate(p *Plan, taskID, targetPhaseID string) (oldID, newID string, err error) {
	source, task := p.FindTask(taskID)
	if task == nil {
		return "", "", fmt.Errorf("%w: %q", ErrTaskNotFound, taskID)
	}

	target := p.FindPhase(targetPhaseID)
	if target == nil {
		if !IsReservedPhase(targetPhaseID) {
			return "", "", fmt.Errorf("%w: %q", ErrUnknownPhase, targetPhaseID)
		}
		p.Phases = append(p.Phases, newReservedPhase(targetPhaseID))
		target = &p.Phases[len(p.Phases)-1]
		// Appending may have relocated the backing array.
		source, task = p.FindTask(taskID)
	}

	moved := *task
	oldID = moved.ID

	for i := range source.Tasks {
		if source.Tasks[i].ID == taskID {
			source.Tasks = append(source.Tasks[:i], source.Tasks[i+1:]...)
			break
		}
	}

	newID, err = NextTaskID(target)
	if err != nil {
		// Put the task back; the plan must stay intact on failure.
		source.Tasks = append(source.Tasks, moved)
		return "", "", err
	}

	moved.ID = newID
	moved.DependsOn = nil
	target.Tasks = append(target.Tasks, moved)
	return oldID, newID, nil
}
