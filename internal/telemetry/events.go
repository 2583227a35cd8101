package telemetry

import "time"

// Event names sent by the relay.
const (
	EventPlanGenerated = "plan_generated"
	EventPlanFailed    = "plan_failed"
	EventServerStarted = "server_started"
)

// PlanEvent describes one relay generation. The goal text is never part of it.
type PlanEvent struct {
	Provider string
	Model    string
	Elapsed  time.Duration

	// Tasks and Issues are set for a successful generation.
	Tasks  int
	Issues int

	// ErrorKind names the relay error kind; empty means success.
	ErrorKind string
}

// Failed reports whether the generation ended in an error.
func (e PlanEvent) Failed() bool {
	return e.ErrorKind != ""
}

// Name returns the event name the generation is reported under.
func (e PlanEvent) Name() string {
	if e.Failed() {
		return EventPlanFailed
	}
	return EventPlanGenerated
}

// Properties returns the event payload.
func (e PlanEvent) Properties() Properties {
	props := Properties{
		"provider":    e.Provider,
		"model":       e.Model,
		"duration_ms": e.Elapsed.Milliseconds(),
	}
	if e.Failed() {
		props["error_kind"] = e.ErrorKind
		return props
	}
	props["task_count"] = e.Tasks
	props["validation_issues"] = e.Issues
	return props
}
