package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/josephgoksu/TaskFlow/internal/task"
)

// Generator produces tasks for a goal. Both the HTTP client and the
// in-process relay satisfy it.
type Generator interface {
	Generate(ctx context.Context, goal string) ([]task.Task, error)
}

// Outcome is the result of one submission.
type Outcome struct {
	// Accepted is false when the goal was blank or a request was already outstanding.
	Accepted bool
	Session  Session
	Notice   Notice
	Err      error
}

// Controller owns the planner state and allows one outstanding request.
type Controller struct {
	gen Generator
	log *slog.Logger

	inFlight atomic.Bool

	mu    sync.RWMutex
	state Session
}

// NewController creates a controller in the Idle phase.
func NewController(gen Generator, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{gen: gen, log: log}
}

// Submit trims goal and, unless it is blank or a request is in flight,
// calls the generator once and applies the result.
func (c *Controller) Submit(ctx context.Context, goal string) Outcome {
	goal, ok := c.begin(goal)
	if !ok {
		return Outcome{Session: c.Snapshot()}
	}
	return c.run(ctx, goal)
}

// SubmitAsync is Submit without blocking. The channel receives exactly one
// Outcome when accepted is true; it is nil otherwise.
func (c *Controller) SubmitAsync(ctx context.Context, goal string) (<-chan Outcome, bool) {
	goal, ok := c.begin(goal)
	if !ok {
		return nil, false
	}
	ch := make(chan Outcome, 1)
	go func() {
		ch <- c.run(ctx, goal)
	}()
	return ch, true
}

// Loading reports whether a request is outstanding.
func (c *Controller) Loading() bool {
	return c.inFlight.Load()
}

// Reset clears the goal and tasks and returns to Idle.
func (c *Controller) Reset() {
	c.apply(Reset())
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.state
	if s.Tasks != nil {
		s.Tasks = append([]task.Task(nil), s.Tasks...)
	}
	return s
}

// Export renders the current result as a downloadable plan.
func (c *Controller) Export(now time.Time) (string, []byte, error) {
	return ExportPlan(c.Snapshot(), now)
}

func (c *Controller) begin(goal string) (string, bool) {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return "", false
	}
	if !c.inFlight.CompareAndSwap(false, true) {
		c.log.Debug("submission dropped while loading", "goal", goal)
		return "", false
	}
	c.apply(Submitted(goal))
	return goal, true
}

func (c *Controller) run(ctx context.Context, goal string) (out Outcome) {
	defer c.inFlight.Store(false)
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("Unexpected error", "panic", r)
			out = Outcome{
				Accepted: true,
				Session:  c.apply(Failed()),
				Notice:   noticeUnexpected,
				Err:      fmt.Errorf("generator panic: %v", r),
			}
		}
	}()

	tasks, err := c.gen.Generate(ctx, goal)
	notice := NoticeFor(tasks, err)
	if err != nil {
		c.log.Error("Error generating tasks", "error", err)
		return Outcome{Accepted: true, Session: c.apply(Failed()), Notice: notice, Err: err}
	}
	return Outcome{Accepted: true, Session: c.apply(Succeeded(tasks)), Notice: notice}
}

func (c *Controller) apply(e Event) Session {
	c.mu.Lock()
	c.state = Reduce(c.state, e)
	c.mu.Unlock()
	return c.Snapshot()
}
