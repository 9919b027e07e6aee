package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/planview/pv/internal/plan"
	"github.com/planview/pv/internal/utils"
)

// savePlan persists p and logs the write at debug level.
func savePlan(e *env, p *plan.Plan) error {
	if err := plan.Save(e.cfg.PlanFile, p); err != nil {
		return err
	}
	e.logger.Debug("saved plan", "path", e.cfg.PlanFile)
	return nil
}

func initCommand(e *env, args []string) error {
	fs := flag.NewFlagSet("pv init", flag.ContinueOnError)
	force := fs.Bool("force", false, "Overwrite an existing plan file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: pv init [--force] NAME")
	}
	name := fs.Arg(0)

	if _, err := os.Stat(e.cfg.PlanFile); err == nil && !*force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", e.cfg.PlanFile)
	}

	p := plan.New(name)
	if err := savePlan(e, p); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "✅ Created %s for project %q\n", e.cfg.PlanFile, name)
	return nil
}

func addPhaseCommand(e *env, args []string) error {
	fs := flag.NewFlagSet("pv add-phase", flag.ContinueOnError)
	desc := fs.String("desc", "", "Phase description")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: pv add-phase [--desc DESCRIPTION] NAME")
	}
	name := fs.Arg(0)

	p, err := plan.Load(e.cfg.PlanFile)
	if err != nil {
		return err
	}
	ph := p.AddPhase(name, *desc)
	if err := savePlan(e, p); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "✅ Added Phase %s: %s\n", ph.ID, ph.Name)
	return nil
}

func addTaskCommand(e *env, args []string) error {
	fs := flag.NewFlagSet("pv add-task", flag.ContinueOnError)
	agent := fs.String("agent", "", "Agent type")
	skill := fs.String("skill", "", "Skill hint")
	deps := fs.String("deps", "", "Comma-separated dependency task IDs")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("usage: pv add-task [--agent A] [--skill S] [--deps IDS] PHASE TITLE")
	}
	phaseID, title := fs.Arg(0), fs.Arg(1)

	p, err := plan.Load(e.cfg.PlanFile)
	if err != nil {
		return err
	}
	task, err := p.AddTask(phaseID, title)
	if err != nil {
		return err
	}
	task.AgentType = *agent
	task.Skill = *skill
	if *deps != "" {
		task.DependsOn = utils.SplitAndTrim(*deps, ",")
	}
	if err := savePlan(e, p); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "✅ Added [%s] %s\n", task.ID, task.Title)
	return nil
}

func setCommand(e *env, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: pv set ID FIELD VALUE")
	}
	taskID, field, value := args[0], args[1], args[2]

	p, err := plan.Load(e.cfg.PlanFile)
	if err != nil {
		return err
	}

	switch field {
	case "status":
		if err := p.SetStatus(taskID, plan.Status(value)); err != nil {
			return err
		}
	case "agent":
		_, task := p.FindTask(taskID)
		if task == nil {
			return fmt.Errorf("%w: %q", plan.ErrTaskNotFound, taskID)
		}
		if value == "none" {
			task.AgentType = ""
		} else {
			task.AgentType = value
		}
	case "skill":
		_, task := p.FindTask(taskID)
		if task == nil {
			return fmt.Errorf("%w: %q", plan.ErrTaskNotFound, taskID)
		}
		if value == "none" {
			task.Skill = ""
		} else {
			task.Skill = value
		}
	case "title":
		_, task := p.FindTask(taskID)
		if task == nil {
			return fmt.Errorf("%w: %q", plan.ErrTaskNotFound, taskID)
		}
		task.Title = value
	default:
		return fmt.Errorf("unknown field %q (expected status, agent, skill, or title)", field)
	}

	if err := savePlan(e, p); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "✅ [%s] %s → %s\n", taskID, field, value)
	return nil
}

// statusCommand backs the done/start/block/skip shortcuts.
func statusCommand(e *env, args []string, status plan.Status) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: pv %s ID", statusVerb(status))
	}
	taskID := args[0]

	p, err := plan.Load(e.cfg.PlanFile)
	if err != nil {
		return err
	}
	if err := p.SetStatus(taskID, status); err != nil {
		return err
	}
	if err := savePlan(e, p); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "✅ [%s] status → %s\n", taskID, status)
	return nil
}

func statusVerb(status plan.Status) string {
	switch status {
	case plan.StatusCompleted:
		return "done"
	case plan.StatusInProgress:
		return "start"
	case plan.StatusBlocked:
		return "block"
	case plan.StatusSkipped:
		return "skip"
	}
	return "set"
}

// relocateCommand backs the defer/bug/idea shortcuts.
func relocateCommand(e *env, args []string, target string) error {
	fs := flag.NewFlagSet("pv "+target, flag.ContinueOnError)
	reason := fs.String("reason", "", "Why the task is being moved")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: pv %s [--reason R] ID", target)
	}
	return relocate(e, fs.Arg(0), target, *reason)
}

func moveCommand(e *env, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: pv move ID PHASE")
	}
	return relocate(e, args[0], args[1], "")
}

func relocate(e *env, taskID, target, reason string) error {
	p, err := plan.Load(e.cfg.PlanFile)
	if err != nil {
		return err
	}
	oldID, newID, err := plan.Relocate(p, taskID, target)
	if err != nil {
		return err
	}
	if reason != "" {
		if _, task := p.FindTask(newID); task != nil {
			task.Tracking.Set("defer_reason", reason)
		}
	}
	if err := savePlan(e, p); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "✅ [%s] → [%s] (%s)\n", oldID, newID, target)
	return nil
}

func rmCommand(e *env, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: pv rm {phase|task} ID")
	}
	kind, id := args[0], args[1]

	p, err := plan.Load(e.cfg.PlanFile)
	if err != nil {
		return err
	}

	switch kind {
	case "task":
		if err := p.RemoveTask(id); err != nil {
			return err
		}
	case "phase":
		if err := p.RemovePhase(id); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown type %q (expected phase or task)", kind)
	}

	if err := savePlan(e, p); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "✅ Removed %s [%s]\n", kind, id)
	return nil
}

func compactCommand(e *env, args []string) error {
	fs := flag.NewFlagSet("pv compact", flag.ContinueOnError)
	dryRun := fs.Bool("dry-run", false, "Report what would change without writing")
	maxBackups := fs.Int("max-backups", e.cfg.MaxBackups, "Backup slots to keep")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p, err := plan.Load(e.cfg.PlanFile)
	if err != nil {
		return err
	}

	if *dryRun {
		n := plan.Compact(p)
		fmt.Fprintf(e.stdout, "Would compact %d task(s) (dry run, nothing written)\n", n)
		return nil
	}

	// Snapshot the file as it is on disk before rewriting it.
	data, err := os.ReadFile(e.cfg.PlanFile)
	if err != nil {
		return err
	}
	backupPath, err := plan.WriteBackup(e.cfg.BackupDir, "plan.json", data, *maxBackups)
	if err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}
	e.logger.Debug("wrote backup", "path", backupPath)

	n := plan.Compact(p)
	if err := savePlan(e, p); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "✅ Compacted %d task(s), backup at %s\n", n, backupPath)
	return nil
}
