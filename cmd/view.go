package cmd

import (
	"encoding/json"
	"flag"
	"fmt"

	"github.com/planview/pv/internal/plan"
	"github.com/planview/pv/internal/render"
)

func loadPlan(e *env) (*plan.Plan, error) {
	p, err := plan.Load(e.cfg.PlanFile)
	if err != nil {
		return nil, err
	}
	plan.Recalculate(p)
	return p, nil
}

func printJSON(e *env, v any) error {
	enc := json.NewEncoder(e.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func overviewCommand(e *env) error {
	p, err := loadPlan(e)
	if err != nil {
		return err
	}
	if e.asJSON {
		return printJSON(e, p)
	}
	render.Overview(e.stdout, p)
	return nil
}

func currentCommand(e *env) error {
	p, err := loadPlan(e)
	if err != nil {
		return err
	}
	if e.asJSON {
		out := map[string]any{
			"summary":       p.Summary,
			"current_phase": plan.CurrentPhase(p),
			"next_task":     nil,
		}
		if ph, task := plan.NextTask(p); task != nil {
			out["next_task"] = render.NewTaskView(ph, task)
		}
		return printJSON(e, out)
	}
	render.Current(e.stdout, p)
	return nil
}

func nextCommand(e *env) error {
	p, err := loadPlan(e)
	if err != nil {
		return err
	}
	if e.asJSON {
		ph, task := plan.NextTask(p)
		if task == nil {
			return printJSON(e, nil)
		}
		return printJSON(e, render.NewTaskView(ph, task))
	}
	render.Next(e.stdout, p)
	return nil
}

func phaseCommand(e *env) error {
	p, err := loadPlan(e)
	if err != nil {
		return err
	}
	if e.asJSON {
		ph := plan.CurrentPhase(p)
		if ph == nil {
			return printJSON(e, nil)
		}
		return printJSON(e, ph)
	}
	render.PhaseDetail(e.stdout, p)
	return nil
}

func getCommand(e *env, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: pv get ID")
	}
	taskID := args[0]

	p, err := loadPlan(e)
	if err != nil {
		return err
	}
	if e.asJSON {
		ph, task := p.FindTask(taskID)
		if task == nil {
			return printJSON(e, nil)
		}
		return printJSON(e, render.NewTaskView(ph, task))
	}
	if !render.TaskDetail(e.stdout, p, taskID) {
		return fmt.Errorf("%w: %q", plan.ErrTaskNotFound, taskID)
	}
	return nil
}

func lastCommand(e *env, args []string) error {
	fs := flag.NewFlagSet("pv last", flag.ContinueOnError)
	count := fs.Int("n", 5, "Number of tasks to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p, err := loadPlan(e)
	if err != nil {
		return err
	}
	if e.asJSON {
		completed := render.RecentlyCompleted(p, *count)
		if completed == nil {
			completed = []render.CompletedView{}
		}
		return printJSON(e, completed)
	}
	render.Last(e.stdout, p, *count)
	return nil
}

func futureCommand(e *env, args []string) error {
	fs := flag.NewFlagSet("pv future", flag.ContinueOnError)
	count := fs.Int("n", 10, "Number of tasks to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p, err := loadPlan(e)
	if err != nil {
		return err
	}
	if e.asJSON {
		type futureView struct {
			render.TaskView
			Actionable bool `json:"actionable"`
		}
		entries := plan.Upcoming(p)
		if *count > 0 && len(entries) > *count {
			entries = entries[:*count]
		}
		out := make([]futureView, 0, len(entries))
		for _, entry := range entries {
			out = append(out, futureView{
				TaskView:   render.NewTaskView(entry.Phase, entry.Task),
				Actionable: entry.Actionable,
			})
		}
		return printJSON(e, out)
	}
	render.Future(e.stdout, p, *count)
	return nil
}

func validateCommand(e *env) error {
	p, err := plan.Load(e.cfg.PlanFile)
	if err != nil {
		if e.asJSON {
			printJSON(e, map[string]any{
				"valid": false,
				"path":  e.cfg.PlanFile,
				"error": err.Error(),
			})
			return fmt.Errorf("validation failed")
		}
		return err
	}

	res, err := plan.Validate(p)
	if err != nil {
		return err
	}

	if e.asJSON {
		errs := res.Errors
		if errs == nil {
			errs = []*plan.ValidationError{}
		}
		if err := printJSON(e, map[string]any{
			"valid":  res.Valid,
			"path":   e.cfg.PlanFile,
			"errors": errs,
		}); err != nil {
			return err
		}
	} else {
		render.Validation(e.stdout, e.cfg.PlanFile, res)
	}

	if !res.Valid {
		return fmt.Errorf("validation failed")
	}
	return nil
}
