// Package dashboard serves the browser view of a plan and a small JSON
// API for editing it. Every mutation is a load-modify-save round trip
// against plan.json, so the file on disk stays the single source of
// truth and concurrent CLI edits are picked up on the next refresh.
package dashboard

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/planview/pv/internal/plan"
)

//go:embed dashboard.html
var dashboardHTML []byte

// Server is the dashboard HTTP server.
type Server struct {
	PlanFile string
	Logger   *log.Logger

	mux *http.ServeMux
}

// New builds a dashboard server for the given plan file.
func New(planFile string, logger *log.Logger) *Server {
	s := &Server{PlanFile: planFile, Logger: logger}
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/plan", s.handlePlan)
	mux.HandleFunc("/api/", s.handleAction)
	s.mux = mux
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe runs the server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", port, err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(dashboardHTML)
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	p, err := plan.Load(s.PlanFile)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(p)
}

// actionRequest is the union of all API request bodies.
type actionRequest struct {
	ID     string `json:"id"`
	Target string `json:"target"`
	Phase  string `json:"phase"`
	Title  string `json:"title"`
	Agent  string `json:"agent"`
	Skill  string `json:"skill"`
	Reason string `json:"reason"`
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, errors.New("POST required"))
		return
	}

	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.New("invalid JSON"))
		return
	}

	action := r.URL.Path[len("/api/"):]

	p, err := plan.Load(s.PlanFile)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	if err := s.apply(p, action, req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := plan.Save(s.PlanFile, p); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	if s.Logger != nil {
		s.Logger.Debug("applied dashboard action", "action", action, "id", req.ID)
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) apply(p *plan.Plan, action string, req actionRequest) error {
	switch action {
	case "done":
		return p.SetStatus(req.ID, plan.StatusCompleted)
	case "start":
		return p.SetStatus(req.ID, plan.StatusInProgress)
	case "block":
		return p.SetStatus(req.ID, plan.StatusBlocked)
	case "skip":
		return p.SetStatus(req.ID, plan.StatusSkipped)
	case "move":
		_, newID, err := plan.Relocate(p, req.ID, req.Target)
		if err == nil && req.Reason != "" {
			if _, task := p.FindTask(newID); task != nil {
				task.Tracking.Set("defer_reason", req.Reason)
			}
		}
		return err
	case "add-task":
		if req.Title == "" {
			return errors.New("title required")
		}
		task, err := p.AddTask(req.Phase, req.Title)
		if err != nil {
			return err
		}
		task.AgentType = req.Agent
		task.Skill = req.Skill
		return nil
	case "edit-task":
		if req.Title == "" {
			return errors.New("title required")
		}
		_, task := p.FindTask(req.ID)
		if task == nil {
			return fmt.Errorf("%w: %q", plan.ErrTaskNotFound, req.ID)
		}
		task.Title = req.Title
		task.AgentType = req.Agent
		task.Skill = req.Skill
		return nil
	default:
		return fmt.Errorf("unknown action: %s", action)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if s.Logger != nil {
		s.Logger.Warn("dashboard request failed", "error", err)
	}
	s.writeJSON(w, status, map[string]any{"ok": false, "error": err.Error()})
}
