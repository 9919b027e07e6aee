package plan

import "encoding/json"

// Tracking is the per-task bookkeeping record: two well-known timestamp
// fields plus an open string-keyed extension map (defer_reason, notes,
// time_spent_minutes, ...). It round-trips through a flat JSON object so
// documents written by other tools keep their extra keys.
type Tracking struct {
	StartedAt   string
	CompletedAt string
	Extra       map[string]any
}

// IsZero reports whether the record carries no data at all.
func (t Tracking) IsZero() bool {
	return t.StartedAt == "" && t.CompletedAt == "" && len(t.Extra) == 0
}

// Set stores an extension value under key.
func (t *Tracking) Set(key string, value any) {
	if t.Extra == nil {
		t.Extra = make(map[string]any)
	}
	t.Extra[key] = value
}

// Get returns the extension value under key, if present.
func (t Tracking) Get(key string) (any, bool) {
	v, ok := t.Extra[key]
	return v, ok
}

// GetString returns the extension value under key as a string, or "" if
// absent or not a string.
func (t Tracking) GetString(key string) string {
	if v, ok := t.Extra[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// MarshalJSON flattens the record into a single JSON object. An empty
// record marshals as {}.
func (t Tracking) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(t.Extra)+2)
	for k, v := range t.Extra {
		m[k] = v
	}
	if t.StartedAt != "" {
		m["started_at"] = t.StartedAt
	}
	if t.CompletedAt != "" {
		m["completed_at"] = t.CompletedAt
	}
	return json.Marshal(m)
}

// UnmarshalJSON splits the well-known timestamp fields out of the flat
// object; everything else lands in Extra.
func (t *Tracking) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*t = Tracking{}
	for k, v := range m {
		switch k {
		case "started_at":
			if s, ok := v.(string); ok {
				t.StartedAt = s
				continue
			}
		case "completed_at":
			if s, ok := v.(string); ok {
				t.CompletedAt = s
				continue
			}
		}
		t.Set(k, v)
	}
	return nil
}
