package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/planview/pv/internal/plan"
)

// TaskView is the flat task representation used by JSON output and the
// dashboard API.
type TaskView struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Status    plan.Status   `json:"status"`
	PhaseID   string        `json:"phase_id"`
	PhaseName string        `json:"phase_name"`
	AgentType string        `json:"agent_type,omitempty"`
	Skill     string        `json:"skill,omitempty"`
	DependsOn []string      `json:"depends_on"`
	Tracking  plan.Tracking `json:"tracking"`
}

// NewTaskView flattens a task with its phase context.
func NewTaskView(ph *plan.Phase, t *plan.Task) TaskView {
	deps := t.DependsOn
	if deps == nil {
		deps = []string{}
	}
	return TaskView{
		ID:        t.ID,
		Title:     t.Title,
		Status:    t.Status,
		PhaseID:   ph.ID,
		PhaseName: ph.Name,
		AgentType: t.AgentType,
		Skill:     t.Skill,
		DependsOn: deps,
		Tracking:  t.Tracking,
	}
}

func agentLabel(t *plan.Task) string {
	if t.AgentType != "" {
		return t.AgentType
	}
	return "general"
}

func writeHeader(w io.Writer, p *plan.Plan) {
	fmt.Fprintf(w, "\n%s\n", bold(fmt.Sprintf("📋 %s v%s", p.Meta.Project, p.Meta.Version)))
	fmt.Fprintf(w, "Progress: %.0f%% (%d/%d tasks)\n\n",
		p.Summary.OverallProgress, p.Summary.CompletedTasks, p.Summary.TotalTasks)
}

// Overview renders the full plan: every phase with its tasks.
func Overview(w io.Writer, p *plan.Plan) {
	writeHeader(w, p)

	for i := range p.Phases {
		ph := &p.Phases[i]
		fmt.Fprintf(w, "%s %s (%.0f%%)\n",
			StatusIcon(ph.Status),
			bold(fmt.Sprintf("Phase %s: %s", ph.ID, ph.Name)),
			ph.Progress.Percentage)
		fmt.Fprintf(w, "   %s\n\n", ph.Description)

		for j := range ph.Tasks {
			t := &ph.Tasks[j]
			fmt.Fprintf(w, "   %s [%s] %s %s\n",
				StatusIcon(t.Status), t.ID, t.Title, dim(fmt.Sprintf("(%s)", agentLabel(t))))
		}
		fmt.Fprintln(w)
	}
}

// Current renders completed phases, the active phase, and the next task.
func Current(w io.Writer, p *plan.Plan) {
	writeHeader(w, p)

	for i := range p.Phases {
		ph := &p.Phases[i]
		if ph.Status == plan.StatusCompleted {
			fmt.Fprintln(w, green(fmt.Sprintf("✅ Phase %s: %s (100%%)", ph.ID, ph.Name)))
		}
	}

	if current := plan.CurrentPhase(p); current != nil {
		icon := "⏳"
		if current.Status == plan.StatusInProgress {
			icon = "🔄"
		}
		fmt.Fprintf(w, "\n%s %s\n", icon,
			boldYellow(fmt.Sprintf("Phase %s: %s (%.0f%%)", current.ID, current.Name, current.Progress.Percentage)))
		fmt.Fprintf(w, "   %s\n\n", current.Description)

		for j := range current.Tasks {
			t := &current.Tasks[j]
			fmt.Fprintf(w, "   %s [%s] %s %s\n",
				StatusIcon(t.Status), t.ID, t.Title, dim(fmt.Sprintf("(%s)", agentLabel(t))))
		}
	}

	if _, task := plan.NextTask(p); task != nil {
		fmt.Fprintf(w, "\n%s [%s] %s\n", bold("👉 Next:"), task.ID, task.Title)
	}
	fmt.Fprintln(w)
}

// Next renders the next actionable task.
func Next(w io.Writer, p *plan.Plan) {
	ph, task := plan.NextTask(p)
	if task == nil {
		fmt.Fprintln(w, "No pending tasks found!")
		return
	}

	agent := task.AgentType
	if agent == "" {
		agent = "general-purpose"
	}

	fmt.Fprintf(w, "\n%s\n", bold("Next Task:"))
	fmt.Fprintf(w, "  %s [%s] %s\n", StatusIcon(task.Status), task.ID, task.Title)
	fmt.Fprintf(w, "  %s %s\n", dim("Phase:"), ph.Name)
	fmt.Fprintf(w, "  %s %s\n", dim("Agent:"), agent)
	if task.Skill != "" {
		fmt.Fprintf(w, "  %s %s\n", dim("Skill:"), task.Skill)
	}
	if len(task.DependsOn) > 0 {
		fmt.Fprintf(w, "  %s %s\n", dim("Depends on:"), strings.Join(task.DependsOn, ", "))
	}
	fmt.Fprintln(w)
}

// PhaseDetail renders the current phase with dependencies.
func PhaseDetail(w io.Writer, p *plan.Plan) {
	ph := plan.CurrentPhase(p)
	if ph == nil {
		fmt.Fprintln(w, "No active phase found!")
		return
	}

	fmt.Fprintf(w, "\n%s\n", boldCyan(fmt.Sprintf("Phase %s: %s", ph.ID, ph.Name)))
	fmt.Fprintf(w, "   %s\n", ph.Description)
	fmt.Fprintf(w, "   Progress: %.0f%% (%d/%d tasks)\n\n",
		ph.Progress.Percentage, ph.Progress.Completed, ph.Progress.Total)

	for j := range ph.Tasks {
		t := &ph.Tasks[j]
		agentStr := ""
		if t.AgentType != "" {
			agentStr = fmt.Sprintf("(%s)", t.AgentType)
		}
		depStr := ""
		if len(t.DependsOn) > 0 {
			depStr = fmt.Sprintf(" [deps: %s]", strings.Join(t.DependsOn, ", "))
		}
		fmt.Fprintf(w, "   %s [%s] %s %s%s\n",
			StatusIcon(t.Status), t.ID, t.Title, dim(agentStr), dim(depStr))
	}
	fmt.Fprintln(w)
}

// TaskDetail renders a single task by ID.
func TaskDetail(w io.Writer, p *plan.Plan, taskID string) bool {
	ph, task := p.FindTask(taskID)
	if task == nil {
		fmt.Fprintf(w, "Task '%s' not found!\n", taskID)
		return false
	}

	agent := task.AgentType
	if agent == "" {
		agent = "general-purpose"
	}

	fmt.Fprintf(w, "\n%s\n", bold(fmt.Sprintf("[%s] %s", task.ID, task.Title)))
	fmt.Fprintf(w, "  %s %s %s\n", dim("Status:"), StatusIcon(task.Status), task.Status)
	fmt.Fprintf(w, "  %s %s\n", dim("Phase:"), ph.Name)
	fmt.Fprintf(w, "  %s %s\n", dim("Agent:"), agent)
	if task.Skill != "" {
		fmt.Fprintf(w, "  %s %s\n", dim("Skill:"), task.Skill)
	}
	if len(task.DependsOn) > 0 {
		fmt.Fprintf(w, "  %s %s\n", dim("Depends on:"), strings.Join(task.DependsOn, ", "))
	}
	if task.Tracking.StartedAt != "" {
		fmt.Fprintf(w, "  %s %s\n", dim("Started:"), dateOnly(task.Tracking.StartedAt))
	}
	if task.Tracking.CompletedAt != "" {
		fmt.Fprintf(w, "  %s %s\n", dim("Completed:"), dateOnly(task.Tracking.CompletedAt))
	}
	if reason := task.Tracking.GetString("defer_reason"); reason != "" {
		fmt.Fprintf(w, "  %s %s\n", dim("Defer reason:"), reason)
	}
	fmt.Fprintln(w)
	return true
}

// CompletedView is one row of the recently-completed listing.
type CompletedView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	PhaseID     string `json:"phase_id"`
	PhaseName   string `json:"phase_name"`
	CompletedAt string `json:"completed_at,omitempty"`
	AgentType   string `json:"agent_type,omitempty"`
}

// RecentlyCompleted collects up to count completed tasks, most recent
// first. Tasks without a completion timestamp sort last.
func RecentlyCompleted(p *plan.Plan, count int) []CompletedView {
	var all []CompletedView
	for i := range p.Phases {
		ph := &p.Phases[i]
		for j := range ph.Tasks {
			t := &ph.Tasks[j]
			if t.Status != plan.StatusCompleted {
				continue
			}
			all = append(all, CompletedView{
				ID:          t.ID,
				Title:       t.Title,
				PhaseID:     ph.ID,
				PhaseName:   ph.Name,
				CompletedAt: t.Tracking.CompletedAt,
				AgentType:   t.AgentType,
			})
		}
	}

	// Insertion sort by timestamp descending; the lists are small.
	for i := 1; i < len(all); i++ {
		for j := i; j > 0 && all[j].CompletedAt > all[j-1].CompletedAt; j-- {
			all[j], all[j-1] = all[j-1], all[j]
		}
	}

	if count > 0 && len(all) > count {
		all = all[:count]
	}
	return all
}

// Last renders the recently completed tasks.
func Last(w io.Writer, p *plan.Plan, count int) {
	completed := RecentlyCompleted(p, count)
	if len(completed) == 0 {
		fmt.Fprintln(w, "No completed tasks found!")
		return
	}

	fmt.Fprintf(w, "\n%s\n\n", bold("Recently Completed:"))
	for _, c := range completed {
		fmt.Fprintf(w, "   ✅ [%s] %s\n", c.ID, c.Title)
		fmt.Fprintf(w, "      %s\n", dim(fmt.Sprintf("%s · %s", c.PhaseName, dateOnly(c.CompletedAt))))
	}
	fmt.Fprintln(w)
}

// Future renders the forward-looking task classification.
func Future(w io.Writer, p *plan.Plan, count int) {
	entries := plan.Upcoming(p)
	if count > 0 && len(entries) > count {
		entries = entries[:count]
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "No upcoming tasks!")
		return
	}

	fmt.Fprintf(w, "\n%s\n\n", bold("Upcoming:"))
	for _, e := range entries {
		marker := dim("·")
		if e.Actionable {
			marker = green("▶")
		}
		fmt.Fprintf(w, " %s %s [%s] %s %s\n",
			marker, StatusIcon(e.Task.Status), e.Task.ID, e.Task.Title,
			dim(fmt.Sprintf("(%s)", e.Phase.Name)))
	}
	fmt.Fprintln(w)
}

// Validation renders a schema validation result.
func Validation(w io.Writer, path string, res *plan.ValidationResult) {
	if res.Valid {
		fmt.Fprintf(w, "✅ %s is valid\n", path)
		return
	}
	fmt.Fprintf(w, "❌ Validation failed for %s:\n", path)
	for _, e := range res.Errors {
		fmt.Fprintf(w, "   %s\n", e.Message)
		if e.Path != "" {
			fmt.Fprintf(w, "   Path: %s\n", e.Path)
		}
	}
}
