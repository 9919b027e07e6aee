// Package plan implements the plan document model and the state engine
// behind it: progress aggregation, dependency resolution, identifier
// allocation, task relocation, and compaction.
package plan

import (
	"errors"
	"fmt"
	"time"
)

// Status represents a task or phase status.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusBlocked    Status = "blocked"
	StatusSkipped    Status = "skipped"
)

// ValidStatuses lists every accepted task status, in display order.
var ValidStatuses = []Status{
	StatusPending,
	StatusInProgress,
	StatusCompleted,
	StatusBlocked,
	StatusSkipped,
}

// Valid reports whether s is one of the accepted statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusBlocked, StatusSkipped:
		return true
	}
	return false
}

// Sentinel errors surfaced by engine operations.
var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrPhaseNotFound = errors.New("phase not found")
	ErrUnknownPhase  = errors.New("unknown phase")
	// ErrInvalidNumeral is returned when a well-formed task ID carries a
	// non-numeric section or task segment. Silently defaulting here would
	// corrupt the allocator's ordering guarantees, so it is a hard failure.
	ErrInvalidNumeral = errors.New("non-numeric task id segment")
	ErrInvalidStatus  = errors.New("invalid status")
)

// Plan is the root aggregate for a plan.json document.
type Plan struct {
	Meta      Meta       `json:"meta"`
	Summary   Summary    `json:"summary"`
	Phases    []Phase    `json:"phases"`
	Decisions *Decisions `json:"decisions,omitempty"`
	Blockers  []Record   `json:"blockers,omitempty"`
}

// Meta holds project metadata.
type Meta struct {
	Project          string `json:"project"`
	Version          string `json:"version"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
	BusinessPlanPath string `json:"business_plan_path,omitempty"`
}

// Summary holds derived whole-plan statistics. It is recomputed on every
// save and must never be hand-edited.
type Summary struct {
	TotalPhases     int     `json:"total_phases"`
	TotalTasks      int     `json:"total_tasks"`
	CompletedTasks  int     `json:"completed_tasks"`
	OverallProgress float64 `json:"overall_progress"`
}

// Decisions holds free-form pending/resolved decision records.
type Decisions struct {
	Pending  []Record `json:"pending,omitempty"`
	Resolved []Record `json:"resolved,omitempty"`
}

// Record is a free-form document record (decisions, blockers).
type Record map[string]any

// Phase groups tasks. The ID is either a small non-negative integer
// rendered as a string, or one of the reserved literals "bugs", "ideas",
// "deferred".
type Phase struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Status      Status   `json:"status"`
	Progress    Progress `json:"progress"`
	Tasks       []Task   `json:"tasks"`
}

// Progress holds derived per-phase completion statistics.
type Progress struct {
	Completed  int     `json:"completed"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// Task is the atomic unit of trackable work.
type Task struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Status    Status    `json:"status"`
	AgentType string    `json:"agent_type,omitempty"`
	Skill     string    `json:"skill,omitempty"`
	DependsOn []string  `json:"depends_on,omitempty"`
	Tracking  Tracking  `json:"tracking"`
	Subtasks  []Subtask `json:"subtasks,omitempty"`
}

// Subtask is a minimal sub-record under a task.
type Subtask struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status Status `json:"status"`
}

// NowISO returns the current UTC time in ISO-8601 with a literal Z suffix.
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// FindTask returns the phase and task matching id, or nils if absent.
func (p *Plan) FindTask(id string) (*Phase, *Task) {
	for i := range p.Phases {
		ph := &p.Phases[i]
		for j := range ph.Tasks {
			if ph.Tasks[j].ID == id {
				return ph, &ph.Tasks[j]
			}
		}
	}
	return nil, nil
}

// FindPhase returns the phase matching id, or nil if absent.
func (p *Plan) FindPhase(id string) *Phase {
	for i := range p.Phases {
		if p.Phases[i].ID == id {
			return &p.Phases[i]
		}
	}
	return nil
}

// SetStatus updates a task's status and applies the transition side
// effects: in_progress stamps tracking.started_at, completed stamps
// tracking.completed_at and cascades completion to every subtask.
func (p *Plan) SetStatus(taskID string, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	_, task := p.FindTask(taskID)
	if task == nil {
		return fmt.Errorf("%w: %q", ErrTaskNotFound, taskID)
	}
	task.Status = status
	switch status {
	case StatusInProgress:
		task.Tracking.StartedAt = NowISO()
	case StatusCompleted:
		task.Tracking.CompletedAt = NowISO()
		for i := range task.Subtasks {
			task.Subtasks[i].Status = StatusCompleted
		}
	}
	return nil
}

// RemoveTask deletes a task by ID.
func (p *Plan) RemoveTask(id string) error {
	for i := range p.Phases {
		ph := &p.Phases[i]
		for j := range ph.Tasks {
			if ph.Tasks[j].ID == id {
				ph.Tasks = append(ph.Tasks[:j], ph.Tasks[j+1:]...)
				return nil
			}
		}
	}
	return fmt.Errorf("%w: %q", ErrTaskNotFound, id)
}

// RemovePhase deletes a phase by ID.
func (p *Plan) RemovePhase(id string) error {
	for i := range p.Phases {
		if p.Phases[i].ID == id {
			p.Phases = append(p.Phases[:i], p.Phases[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrPhaseNotFound, id)
}

// AddPhase appends a new pending phase with the next numeric ID and
// returns it.
func (p *Plan) AddPhase(name, description string) *Phase {
	p.Phases = append(p.Phases, Phase{
		ID:          NextPhaseID(p),
		Name:        name,
		Description: description,
		Status:      StatusPending,
		Tasks:       []Task{},
	})
	return &p.Phases[len(p.Phases)-1]
}

// AddTask creates a pending task in the given phase with a freshly
// allocated ID and returns it.
func (p *Plan) AddTask(phaseID, title string) (*Task, error) {
	ph := p.FindPhase(phaseID)
	if ph == nil {
		return nil, fmt.Errorf("%w: %q", ErrPhaseNotFound, phaseID)
	}
	id, err := NextTaskID(ph)
	if err != nil {
		return nil, err
	}
	ph.Tasks = append(ph.Tasks, Task{
		ID:     id,
		Title:  title,
		Status: StatusPending,
	})
	return &ph.Tasks[len(ph.Tasks)-1], nil
}
