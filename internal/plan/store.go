package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// Load/parse failures, distinguishable via errors.Is.
var (
	ErrNotFound   = errors.New("plan file not found")
	ErrParseError = errors.New("plan file is not valid JSON")
)

// Load reads and decodes a plan document. Legacy documents are migrated
// in place (reserved triage phases added); the migration is in-memory
// only and persists on the next save.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read plan: %w", err)
	}

	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParseError, path, err)
	}

	EnsureReservedPhases(&p)
	return &p, nil
}

// Save normalizes and writes a plan document: the updated_at stamp is
// refreshed, phases are sorted into canonical order, derived progress is
// recalculated, and the result is written as 2-space-indented JSON with
// a trailing newline.
func Save(path string, p *Plan) error {
	p.Meta.UpdatedAt = NowISO()
	SortPhases(p)
	Recalculate(p)

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write plan: %w", err)
	}
	return nil
}

// SortPhases orders phases canonically: numeric IDs ascending by value,
// then the reserved triage phases in their fixed order (bugs, ideas,
// deferred). Non-numeric, non-reserved IDs sort after the numeric block.
func SortPhases(p *Plan) {
	sort.SliceStable(p.Phases, func(i, j int) bool {
		gi, ki := phaseSortKey(p.Phases[i].ID)
		gj, kj := phaseSortKey(p.Phases[j].ID)
		if gi != gj {
			return gi < gj
		}
		return ki < kj
	})
}

func phaseSortKey(id string) (group, key int) {
	if n, err := strconv.Atoi(id); err == nil {
		return 0, n
	}
	if ord := reservedOrder(id); ord >= 0 {
		return 1, ord
	}
	// Unknown non-numeric IDs land between the numeric block and the
	// reserved tail.
	return 0, 999999
}

// New builds an empty plan document for a fresh project.
func New(project string) *Plan {
	now := NowISO()
	return &Plan{
		Meta: Meta{
			Project:          project,
			Version:          "1.0.0",
			CreatedAt:        now,
			UpdatedAt:        now,
			BusinessPlanPath: ".claude/BUSINESS_PLAN.md",
		},
		Phases: []Phase{},
	}
}
