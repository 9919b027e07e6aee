// Package ui provides optional terminal interfaces.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/planview/pv/internal/plan"
	"github.com/planview/pv/internal/render"
)

// RunTUI starts the live plan viewer on the given plan file.
func RunTUI(ctx context.Context, planFile string) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	model := newTUIModel(planFile)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type tuiModel struct {
	planFile     string
	loadErr      error
	plan         *plan.Plan
	tickInterval time.Duration
	filter       plan.Status
	showHelp     bool
}

type tickMsg time.Time

func newTUIModel(planFile string) *tuiModel {
	return &tuiModel{
		planFile:     planFile,
		tickInterval: time.Second,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	m.refresh()
	return tickCmd(m.tickInterval)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "f5":
			m.refresh()
			return m, nil
		case "h", "?":
			m.showHelp = !m.showHelp
			return m, nil
		case "1":
			m.filter = plan.StatusPending
			return m, nil
		case "2":
			m.filter = plan.StatusInProgress
			return m, nil
		case "3":
			m.filter = plan.StatusBlocked
			return m, nil
		case "4":
			m.filter = plan.StatusCompleted
			return m, nil
		case "0":
			m.filter = ""
			return m, nil
		}
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	}
	return m, nil
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	if m.filter != "" {
		fmt.Fprintf(&b, "Filter: %s (0 to clear)\n\n", m.filter)
	}

	if m.loadErr != nil {
		b.WriteString("Error loading plan file:\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		writeFooter(&b, m.tickInterval)
		return b.String()
	}
	if m.plan == nil {
		b.WriteString("Loading...\n\n")
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	writeSummary(&b, m.plan)
	writePhases(&b, m.plan, m.filter)
	writeNext(&b, m.plan)
	writeFooter(&b, m.tickInterval)
	return b.String()
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *tuiModel) refresh() {
	p, err := plan.Load(m.planFile)
	if err != nil {
		m.loadErr = err
		m.plan = nil
		return
	}
	plan.Recalculate(p)
	m.loadErr = nil
	m.plan = p
}

func writeTitle(b *strings.Builder) {
	title := "Plan Viewer"
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeSummary(b *strings.Builder, p *plan.Plan) {
	fmt.Fprintf(b, "%s v%s\n\n", p.Meta.Project, p.Meta.Version)
	fmt.Fprintf(b, "  %s %.0f%% (%d/%d tasks)\n\n",
		render.ProgressBar(p.Summary.CompletedTasks, p.Summary.TotalTasks),
		p.Summary.OverallProgress, p.Summary.CompletedTasks, p.Summary.TotalTasks)
}

func writePhases(b *strings.Builder, p *plan.Plan, filter plan.Status) {
	for i := range p.Phases {
		ph := &p.Phases[i]
		fmt.Fprintf(b, "%s Phase %s: %s (%d/%d)\n",
			render.StatusIcon(ph.Status), ph.ID, ph.Name,
			ph.Progress.Completed, ph.Progress.Total)
		for j := range ph.Tasks {
			t := &ph.Tasks[j]
			if filter != "" && t.Status != filter {
				continue
			}
			fmt.Fprintf(b, "   %s [%s] %s\n", render.StatusIcon(t.Status), t.ID, t.Title)
		}
	}
	b.WriteString("\n")
}

func writeNext(b *strings.Builder, p *plan.Plan) {
	b.WriteString("Next Task\n\n")
	_, task := plan.NextTask(p)
	if task == nil {
		b.WriteString("  Nothing actionable.\n\n")
		return
	}
	fmt.Fprintf(b, "  %s [%s] %s\n\n", render.StatusIcon(task.Status), task.ID, task.Title)
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  r, F5        Refresh data\n")
	b.WriteString("  h, ?         Toggle this help screen\n")
	b.WriteString("  1            Filter by pending\n")
	b.WriteString("  2            Filter by in_progress\n")
	b.WriteString("  3            Filter by blocked\n")
	b.WriteString("  4            Filter by completed\n")
	b.WriteString("  0            Clear filter\n\n")
}

func writeFooter(b *strings.Builder, interval time.Duration) {
	fmt.Fprintf(b, "Press h for help | q to quit | Refreshing every %s\n", interval)
}

// IsTTY returns true if stdout is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, _ := f.Stat()
	return (info.Mode() & os.ModeCharDevice) != 0
}
