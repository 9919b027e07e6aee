// Package cmd implements the CLI command structure for pv.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/planview/pv/internal/config"
	"github.com/planview/pv/internal/logging"

	charmlog "github.com/charmbracelet/log"
)

// Version is set via ldflags at build time.
var Version = "dev"

// env carries the resolved configuration and logger into subcommands.
type env struct {
	cfg    *config.Config
	logger *charmlog.Logger
	asJSON bool
	stdout io.Writer
}

// Run executes the pv CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("pv", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")
	planFile := fs.String("file", "", "Path to plan.json")
	fs.StringVar(planFile, "f", "", "Path to plan.json")
	asJSON := fs.Bool("json", false, "Output as JSON (view commands)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *help {
		printUsage(os.Stdout)
		return nil
	}
	if *showVersion {
		fmt.Printf("pv version %s\n", Version)
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *planFile != "" {
		cfg.PlanFile = *planFile
		if !filepath.IsAbs(cfg.PlanFile) {
			cfg.PlanFile = filepath.Join(cfg.ProjectRoot, cfg.PlanFile)
		}
	}

	e := &env{
		cfg:    cfg,
		logger: logging.New(cfg.LogLevel, cfg.LogFormat),
		asJSON: *asJSON || containsFlag(args, "--json"),
		stdout: os.Stdout,
	}

	subcommand := ""
	remaining := fs.Args()
	if len(remaining) > 0 && !strings.HasPrefix(remaining[0], "-") {
		subcommand = remaining[0]
		remaining = remaining[1:]
	}
	remaining = stripJSONFlag(remaining)

	switch subcommand {
	case "":
		return overviewCommand(e)
	case "current", "c":
		return currentCommand(e)
	case "next", "n":
		return nextCommand(e)
	case "phase", "p":
		return phaseCommand(e)
	case "get", "g":
		return getCommand(e, remaining)
	case "last", "l":
		return lastCommand(e, remaining)
	case "future", "f":
		return futureCommand(e, remaining)
	case "validate", "v":
		return validateCommand(e)
	case "init":
		return initCommand(e, remaining)
	case "add-phase":
		return addPhaseCommand(e, remaining)
	case "add-task":
		return addTaskCommand(e, remaining)
	case "set":
		return setCommand(e, remaining)
	case "done":
		return statusCommand(e, remaining, "completed")
	case "start":
		return statusCommand(e, remaining, "in_progress")
	case "block":
		return statusCommand(e, remaining, "blocked")
	case "skip":
		return statusCommand(e, remaining, "skipped")
	case "defer":
		return relocateCommand(e, remaining, "deferred")
	case "bug":
		return relocateCommand(e, remaining, "bugs")
	case "idea":
		return relocateCommand(e, remaining, "ideas")
	case "move":
		return moveCommand(e, remaining)
	case "rm":
		return rmCommand(e, remaining)
	case "compact":
		return compactCommand(e, remaining)
	case "dashboard":
		return dashboardCommand(ctx, e, remaining)
	case "tui":
		return tuiCommand(ctx, e)
	case "version":
		fmt.Printf("pv version %s\n", Version)
		return nil
	case "help", "h":
		printUsage(os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// containsFlag reports whether the raw argument list carries flag; view
// commands accept --json in any position.
func containsFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

func stripJSONFlag(args []string) []string {
	out := args[:0:0]
	for _, a := range args {
		if a == "--json" {
			continue
		}
		out = append(out, a)
	}
	return out
}

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "pv - View and edit plan.json for task tracking")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  pv [-f FILE] [--json] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "View Commands:")
	fmt.Fprintln(w, "  (none)              Show full plan overview")
	fmt.Fprintln(w, "  current, c          Show current progress and next task")
	fmt.Fprintln(w, "  next, n             Show next task to work on")
	fmt.Fprintln(w, "  phase, p            Show current phase details")
	fmt.Fprintln(w, "  get, g ID           Show a specific task by ID")
	fmt.Fprintln(w, "  last, l [-n N]      Show recently completed tasks")
	fmt.Fprintln(w, "  future, f [-n N]    Show upcoming tasks in execution order")
	fmt.Fprintln(w, "  validate, v         Validate plan.json structure")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Edit Commands:")
	fmt.Fprintln(w, "  init [--force] NAME   Create new plan.json")
	fmt.Fprintln(w, "  add-phase NAME        Add a new phase")
	fmt.Fprintln(w, "  add-task PHASE TITLE  Add a new task to a phase")
	fmt.Fprintln(w, "  set ID FIELD VALUE    Set a task field (status, agent, skill, title)")
	fmt.Fprintln(w, "  done ID               Mark task as completed")
	fmt.Fprintln(w, "  start ID              Mark task as in_progress")
	fmt.Fprintln(w, "  block ID              Mark task as blocked")
	fmt.Fprintln(w, "  skip ID               Mark task as skipped")
	fmt.Fprintln(w, "  defer [--reason R] ID Move task to the deferred phase")
	fmt.Fprintln(w, "  bug ID                Move task to the bugs phase")
	fmt.Fprintln(w, "  idea ID               Move task to the ideas phase")
	fmt.Fprintln(w, "  move ID PHASE         Move task to any phase")
	fmt.Fprintln(w, "  rm TYPE ID            Remove a phase or task")
	fmt.Fprintln(w, "  compact               Strip bookkeeping from completed tasks")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Other Commands:")
	fmt.Fprintln(w, "  dashboard           Serve the browser dashboard")
	fmt.Fprintln(w, "  tui                 Launch the live terminal viewer")
	fmt.Fprintln(w, "  version             Show version information")
	fmt.Fprintln(w, "  help                Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  -f, --file FILE     Path to plan.json (default: ./plan.json)")
	fmt.Fprintln(w, "  --json              Output as JSON (view commands only)")
	fmt.Fprintln(w, "  -h, --help          Show this help message")
	fmt.Fprintln(w, "  -v, --version       Show version")
}
