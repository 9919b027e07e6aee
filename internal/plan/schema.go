package plan

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/planview/pv/internal/utils"
)

//go:embed plan.schema.json
var planSchemaJSON []byte

// ValidationError is one schema violation, located by a dot-notation
// path into the document.
type ValidationError struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationResult aggregates the outcome of a document validation.
type ValidationResult struct {
	Valid  bool               `json:"valid"`
	Errors []*ValidationError `json:"errors,omitempty"`
}

// Validate checks p against the embedded document schema and then
// applies the structural checks the schema cannot express: duplicate
// IDs and dangling dependency references.
func Validate(p *Plan) (*ValidationResult, error) {
	res := &ValidationResult{Valid: true}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("plan.schema.json", bytes.NewReader(planSchemaJSON)); err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	schema, err := compiler.Compile("plan.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	// Round-trip through JSON so the schema sees the wire form.
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal plan: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal plan: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			collectSchemaErrors(ve, res)
		} else {
			res.addError("", err.Error())
		}
	}

	validateStructure(p, res)
	return res, nil
}

// collectSchemaErrors flattens a jsonschema error tree into leaf
// violations with dot-notation paths.
func collectSchemaErrors(err *jsonschema.ValidationError, res *ValidationResult) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		res.addError(utils.JSONPointerToPath(err.InstanceLocation), err.Message)
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, res)
	}
}

// validateStructure applies checks beyond the schema: task IDs must be
// unique across the whole plan, and every depends_on reference must
// resolve to an existing task.
func validateStructure(p *Plan, res *ValidationResult) {
	ids := make(map[string]bool)
	for i := range p.Phases {
		ph := &p.Phases[i]
		for j := range ph.Tasks {
			t := &ph.Tasks[j]
			path := fmt.Sprintf("phases[%d].tasks[%d]", i, j)
			if ids[t.ID] {
				res.addError(path+".id", fmt.Sprintf("duplicate task id %q", t.ID))
			}
			ids[t.ID] = true
		}
	}
	for i := range p.Phases {
		ph := &p.Phases[i]
		for j := range ph.Tasks {
			t := &ph.Tasks[j]
			for _, dep := range t.DependsOn {
				if !ids[dep] {
					path := fmt.Sprintf("phases[%d].tasks[%d].depends_on", i, j)
					res.addError(path, fmt.Sprintf("unknown dependency %q", dep))
				}
			}
		}
	}
}

func (r *ValidationResult) addError(path, message string) {
	r.Valid = false
	r.Errors = append(r.Errors, &ValidationError{Path: path, Message: message})
}
