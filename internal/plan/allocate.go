package plan

import (
	"fmt"
	"strconv"
	"strings"
)

// NextTaskID allocates the next task ID within ph, of the form
// "<phase>.<section>.<n>".
//
// An empty phase yields "<phase>.1.1". Otherwise the allocator tracks the
// largest (section, task) pair over the phase's existing IDs — section
// maximized first, task number within that section second — and returns
// the pair with the task number incremented. Incrementing always happens
// in the highest-numbered section, even when a lower section holds a
// larger task number.
//
// IDs with fewer than three dot-separated segments are silently skipped;
// if every ID is skipped both counters stay 0 and the result is
// "<phase>.0.1". A non-numeric segment in a well-formed ID is a hard
// error (ErrInvalidNumeral).
func NextTaskID(ph *Phase) (string, error) {
	if len(ph.Tasks) == 0 {
		return ph.ID + ".1.1", nil
	}

	maxSection, maxTask := 0, 0
	for i := range ph.Tasks {
		id := ph.Tasks[i].ID
		parts := strings.Split(id, ".")
		if len(parts) < 3 {
			continue
		}
		section, err := strconv.Atoi(parts[1])
		if err != nil {
			return "", fmt.Errorf("%w: %q in %q", ErrInvalidNumeral, parts[1], id)
		}
		taskNum, err := strconv.Atoi(parts[2])
		if err != nil {
			return "", fmt.Errorf("%w: %q in %q", ErrInvalidNumeral, parts[2], id)
		}
		if section > maxSection || (section == maxSection && taskNum > maxTask) {
			maxSection = section
			maxTask = taskNum
		}
	}

	return fmt.Sprintf("%s.%d.%d", ph.ID, maxSection, maxTask+1), nil
}

// NextPhaseID returns the next numeric phase ID as a string: one greater
// than the current maximum numeric ID, independent of reserved phases.
// A plan with no numeric phases yields "0".
func NextPhaseID(p *Plan) string {
	max := -1
	for i := range p.Phases {
		if n, err := strconv.Atoi(p.Phases[i].ID); err == nil && n > max {
			max = n
		}
	}
	return strconv.Itoa(max + 1)
}
