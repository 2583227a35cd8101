// Package session holds the planner's view state and drives one generation at a time.
package session

import (
	"strings"

	"github.com/josephgoksu/TaskFlow/internal/task"
)

// Phase is the planner view state.
type Phase int

const (
	// PhaseIdle shows the goal input.
	PhaseIdle Phase = iota
	// PhaseLoading means a request is outstanding and input is disabled.
	PhaseLoading
	// PhaseResult shows a non-empty task list.
	PhaseResult
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseResult:
		return "result"
	default:
		return "unknown"
	}
}

// Session is an immutable snapshot of the planner state.
// Transitions replace it wholesale through Reduce.
type Session struct {
	Goal  string
	Tasks []task.Task
	Phase Phase
}

// EventKind identifies a state transition request.
type EventKind int

const (
	EventSubmitted EventKind = iota
	EventSucceeded
	EventFailed
	EventReset
)

// Event is an input to Reduce.
type Event struct {
	Kind  EventKind
	Goal  string
	Tasks []task.Task
}

// Submitted requests generation for goal.
func Submitted(goal string) Event { return Event{Kind: EventSubmitted, Goal: goal} }

// Succeeded delivers the relay's tasks.
func Succeeded(tasks []task.Task) Event { return Event{Kind: EventSucceeded, Tasks: tasks} }

// Failed reports a failed generation.
func Failed() Event { return Event{Kind: EventFailed} }

// Reset returns to an empty input.
func Reset() Event { return Event{Kind: EventReset} }

// Reduce returns the state that follows s after e.
// Events that are not legal in the current phase return s unchanged.
func Reduce(s Session, e Event) Session {
	switch e.Kind {
	case EventSubmitted:
		goal := strings.TrimSpace(e.Goal)
		if goal == "" || s.Phase == PhaseLoading {
			return s
		}
		return Session{Goal: goal, Phase: PhaseLoading}

	case EventSucceeded:
		if s.Phase != PhaseLoading {
			return s
		}
		if len(e.Tasks) == 0 {
			return Session{Goal: s.Goal, Phase: PhaseIdle}
		}
		tasks := make([]task.Task, len(e.Tasks))
		copy(tasks, e.Tasks)
		return Session{Goal: s.Goal, Tasks: tasks, Phase: PhaseResult}

	case EventFailed:
		if s.Phase != PhaseLoading {
			return s
		}
		return Session{Goal: s.Goal, Phase: PhaseIdle}

	case EventReset:
		return Session{Phase: PhaseIdle}
	}
	return s
}

// Summary returns presentation totals for the session's tasks.
func (s Session) Summary() task.Summary {
	return task.Summarize(s.Tasks)
}
