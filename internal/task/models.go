// Package task defines the task shape returned by the relay and consumed by the planner UI.
package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Priority is the urgency label the model assigns to a task.
// Values outside the known set are kept as-is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Known reports whether p is one of low, medium or high.
func (p Priority) Known() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is one actionable unit of a generated plan.
// Title doubles as the identifier referenced by other tasks' Dependencies.
type Task struct {
	Title          string   `json:"title" yaml:"title"`
	Description    string   `json:"description" yaml:"description"`
	Priority       Priority `json:"priority" yaml:"priority"`
	Category       string   `json:"category" yaml:"category"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty" yaml:"estimated_hours,omitempty"`
	DeadlineDays   *float64 `json:"deadline_days,omitempty" yaml:"deadline_days,omitempty"`
	Dependencies   []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`

	// Raw is the element exactly as it was decoded. When set, it is what
	// MarshalJSON writes, so a relayed list leaves unchanged.
	Raw json.RawMessage `json:"-" yaml:"-"`
}

// taskFields has Task's fields without its methods.
type taskFields Task

// UnmarshalJSON decodes a task without rejecting anything.
// Loosely typed fields are carried over in their printed form, a bare
// string becomes the title, and any other non-object leaves the fields
// empty. The input is always kept in Raw.
func (t *Task) UnmarshalJSON(data []byte) error {
	*t = Task{Raw: append(json.RawMessage(nil), data...)}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		var title string
		if json.Unmarshal(data, &title) == nil {
			t.Title = title
		}
		return nil
	}

	t.Title = stringField(raw["title"])
	t.Description = stringField(raw["description"])
	t.Priority = Priority(stringField(raw["priority"]))
	t.Category = stringField(raw["category"])
	t.EstimatedHours = numberField(raw["estimated_hours"])
	t.DeadlineDays = numberField(raw["deadline_days"])

	switch deps := raw["dependencies"].(type) {
	case []any:
		t.Dependencies = make([]string, 0, len(deps))
		for _, d := range deps {
			if d == nil {
				continue
			}
			t.Dependencies = append(t.Dependencies, stringField(d))
		}
	case string:
		if strings.TrimSpace(deps) != "" {
			t.Dependencies = []string{deps}
		}
	}
	return nil
}

// MarshalJSON writes Raw when the task was decoded, and the fields otherwise.
func (t Task) MarshalJSON() ([]byte, error) {
	if len(t.Raw) > 0 {
		return t.Raw, nil
	}
	return json.Marshal(taskFields(t))
}

// MarshalYAML mirrors MarshalJSON so YAML output carries the same content.
func (t Task) MarshalYAML() (any, error) {
	if len(t.Raw) == 0 {
		return taskFields(t), nil
	}
	var v any
	if err := json.Unmarshal(t.Raw, &v); err != nil {
		return nil, fmt.Errorf("decode raw task: %w", err)
	}
	return v, nil
}

// IsObject reports whether the task came from a JSON object.
// Tasks built in code always are.
func (t Task) IsObject() bool {
	raw := bytes.TrimSpace(t.Raw)
	return len(raw) == 0 || raw[0] == '{'
}

func stringField(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return fmt.Sprintf("%g", s)
	default:
		return fmt.Sprint(s)
	}
}

func numberField(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case string:
		var f float64
		if _, err := fmt.Sscanf(strings.TrimSpace(n), "%g", &f); err == nil {
			return &f
		}
	}
	return nil
}

// Hours returns the estimated hours, or 0 when absent.
func (t Task) Hours() float64 {
	if t.EstimatedHours == nil {
		return 0
	}
	return *t.EstimatedHours
}

// Deadline returns the deadline offset in days, or 0 when absent.
func (t Task) Deadline() float64 {
	if t.DeadlineDays == nil {
		return 0
	}
	return *t.DeadlineDays
}

// Float is a convenience for building optional numeric fields.
func Float(v float64) *float64 {
	return &v
}
