package cmd

import (
	"context"
	"flag"
	"fmt"
	"net"

	"github.com/planview/pv/internal/dashboard"
	"github.com/planview/pv/internal/ui"
	"github.com/planview/pv/internal/utils"
)

func dashboardCommand(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("pv dashboard", flag.ContinueOnError)
	port := fs.Int("port", e.cfg.DashboardPort, "Port to serve on")
	noOpen := fs.Bool("no-open", false, "Do not open the browser")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Fall back to an ephemeral port when the preferred one is taken.
	if ln, err := net.Listen("tcp", fmt.Sprintf(":%d", *port)); err != nil {
		free, ferr := utils.FindFreePort()
		if ferr != nil {
			return fmt.Errorf("port %d unavailable and no free port found: %w", *port, ferr)
		}
		e.logger.Warn("port unavailable, using fallback", "wanted", *port, "using", free)
		*port = free
	} else {
		ln.Close()
	}

	url := fmt.Sprintf("http://localhost:%d", *port)
	fmt.Fprintf(e.stdout, "📋 Dashboard: %s (Ctrl+C to stop)\n", url)

	if e.cfg.OpenBrowser && !*noOpen {
		if err := utils.OpenBrowser(url); err != nil {
			e.logger.Warn("could not open browser", "error", err)
		}
	}

	srv := dashboard.New(e.cfg.PlanFile, e.logger)
	return srv.ListenAndServe(ctx, *port)
}

func tuiCommand(ctx context.Context, e *env) error {
	return ui.RunTUI(ctx, e.cfg.PlanFile)
}
