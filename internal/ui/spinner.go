package ui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// Spinner animates a progress line for commands that run without the TUI.
// It borrows its frames from the bubbles dot spinner and shows how long the
// call has been waiting. Output goes to w, normally stderr.
type Spinner struct {
	w     io.Writer
	label string
	style spinner.Spinner

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewSpinner returns a stopped spinner that will draw label on w.
func NewSpinner(w io.Writer, label string) *Spinner {
	return &Spinner{w: w, label: label, style: spinner.Dot}
}

// Start begins drawing. Calling it on a running spinner does nothing.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(s.stop, s.done)
}

func (s *Spinner) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	started := time.Now()
	ticker := time.NewTicker(s.style.FPS)
	defer ticker.Stop()

	frames := s.style.Frames
	for i := 0; ; i++ {
		elapsed := StyleSubtle.Render(fmt.Sprintf("(%ds)", int(time.Since(started).Seconds())))
		fmt.Fprintf(s.w, "\r%s %s %s", StylePrimary.Render(frames[i%len(frames)]), s.label, elapsed)
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}

// Stop halts the animation and clears the line. It is safe to call on a
// spinner that never started.
func (s *Spinner) Stop() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
	fmt.Fprint(s.w, "\r\033[K")
}
