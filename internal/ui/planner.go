package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/josephgoksu/TaskFlow/internal/session"
	"github.com/josephgoksu/TaskFlow/internal/utils"
	"github.com/spf13/afero"
)

// ExampleGoals are offered below the input; Tab cycles through them.
var ExampleGoals = []string{
	"Launch a product in 2 weeks",
	"Plan a wedding in 6 months",
	"Learn web development in 3 months",
	"Start a freelance business",
}

// Layout constants
const (
	DefaultViewportWidth  = 80
	DefaultViewportHeight = 15
	MinViewportHeight     = 6
	HeaderFooterHeight    = 14 // Space for header, input, chips and footer
	GoalCharLimit         = 500
)

// PlannerModel is the interactive front end over a session.Controller.
type PlannerModel struct {
	// Dependencies
	Ctx        context.Context
	Controller *session.Controller
	Fs         afero.Fs
	ExportDir  string
	Now        func() time.Time

	// State
	Session     session.Session
	Notice      session.Notice
	ExampleIdx  int  // -1 until Tab is pressed
	ConfirmQuit bool // first ctrl+c while loading
	Width       int

	// Components
	Input    textinput.Model
	Spinner  spinner.Model
	Viewport viewport.Model
}

// MsgOutcome delivers the controller's answer for an accepted submission.
type MsgOutcome struct {
	Outcome session.Outcome
}

// NewPlannerModel builds the model. exportDir receives ctrl+e exports.
func NewPlannerModel(ctx context.Context, ctrl *session.Controller, exportDir string) PlannerModel {
	ti := textinput.New()
	ti.Placeholder = "e.g., Launch a mobile app in 3 months"
	ti.CharLimit = GoalCharLimit
	ti.Width = DefaultViewportWidth - 6
	ti.Prompt = "› "
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = StylePrimary

	return PlannerModel{
		Ctx:        ctx,
		Controller: ctrl,
		Fs:         afero.NewOsFs(),
		ExportDir:  exportDir,
		Now:        time.Now,
		Session:    ctrl.Snapshot(),
		ExampleIdx: -1,
		Width:      DefaultViewportWidth,
		Input:      ti,
		Spinner:    s,
		Viewport:   viewport.New(DefaultViewportWidth, DefaultViewportHeight),
	}
}

func (m PlannerModel) Init() tea.Cmd {
	return textinput.Blink
}

func waitForOutcome(ch <-chan session.Outcome) tea.Cmd {
	return func() tea.Msg {
		return MsgOutcome{Outcome: <-ch}
	}
}

func (m PlannerModel) loading() bool {
	return m.Session.Phase == session.PhaseLoading
}

func (m PlannerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Input.Width = msg.Width - 8
		m.Viewport.Width = msg.Width - 2
		m.Viewport.Height = msg.Height - HeaderFooterHeight
		if m.Viewport.Height < MinViewportHeight {
			m.Viewport.Height = MinViewportHeight
		}
		m.refreshPlan()
		return m, nil

	case MsgOutcome:
		m.Session = msg.Outcome.Session
		m.Notice = msg.Outcome.Notice
		m.ConfirmQuit = false
		m.refreshPlan()
		return m, m.Input.Focus()

	case spinner.TickMsg:
		if !m.loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

func (m PlannerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A request cannot be aborted, so quitting mid-flight needs a second ctrl+c.
	if msg.Type == tea.KeyCtrlC {
		if m.loading() && !m.ConfirmQuit {
			m.ConfirmQuit = true
			return m, nil
		}
		return m, tea.Quit
	}

	if m.loading() {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit

	case tea.KeyEnter:
		return m.submit()

	case tea.KeyTab:
		m.ExampleIdx = (m.ExampleIdx + 1) % len(ExampleGoals)
		m.Input.SetValue(ExampleGoals[m.ExampleIdx])
		m.Input.CursorEnd()
		return m, nil

	case tea.KeyCtrlR:
		m.Controller.Reset()
		m.Session = m.Controller.Snapshot()
		m.Notice = session.Notice{}
		m.ExampleIdx = -1
		m.Input.SetValue("")
		m.refreshPlan()
		return m, nil

	case tea.KeyCtrlE:
		m.Notice = m.export()
		return m, nil

	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.Viewport, cmd = m.Viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

func (m PlannerModel) submit() (tea.Model, tea.Cmd) {
	ch, ok := m.Controller.SubmitAsync(m.Ctx, m.Input.Value())
	if !ok {
		return m, nil
	}
	m.Session = m.Controller.Snapshot()
	m.Notice = session.Notice{}
	m.Input.Blur()
	return m, tea.Batch(m.Spinner.Tick, waitForOutcome(ch))
}

func (m PlannerModel) export() session.Notice {
	path, err := session.SaveExport(m.Fs, m.ExportDir, m.Session, m.Now())
	if err != nil {
		return session.Notice{Level: session.LevelError, Title: "Export Failed", Description: err.Error()}
	}
	return session.Notice{Level: session.LevelSuccess, Title: "Exported", Description: "Plan saved to " + path}
}

func (m *PlannerModel) refreshPlan() {
	if m.Session.Phase != session.PhaseResult {
		m.Viewport.SetContent("")
		return
	}
	m.Viewport.SetContent(RenderPlan(m.Session, m.Viewport.Width))
	m.Viewport.GotoTop()
}

func (m PlannerModel) View() string {
	var s strings.Builder

	s.WriteString(StyleHeader.Render("◆ TaskFlow"))
	s.WriteString(" " + StyleSubtle.Render("Turn a goal into an actionable plan") + "\n\n")

	s.WriteString(StyleInputBox.Render(m.Input.View()) + "\n")
	s.WriteString(m.renderExamples() + "\n\n")

	if m.loading() {
		goal := utils.Truncate(m.Session.Goal, 60)
		s.WriteString(m.Spinner.View() + " " + StylePrimary.Render(fmt.Sprintf("Generating tasks for %q...", goal)) + "\n")
		if m.ConfirmQuit {
			s.WriteString(StyleWarning.Render("⚠ A request is in progress. Press ctrl+c again to quit.") + "\n")
		}
		return s.String()
	}

	if notice := RenderNotice(m.Notice, m.Viewport.Width); notice != "" {
		s.WriteString(notice + "\n")
	}

	if m.Session.Phase == session.PhaseResult {
		s.WriteString(m.Viewport.View() + "\n")
		s.WriteString(StyleSubtle.Render("[Enter] Regenerate | [Ctrl+E] Export | [Ctrl+R] New goal | [PgUp/PgDn] Scroll | [Esc] Quit"))
	} else {
		s.WriteString(StyleSubtle.Render("[Enter] Generate | [Tab] Example goal | [Esc] Quit"))
	}
	s.WriteString("\n")
	return s.String()
}

func (m PlannerModel) renderExamples() string {
	chips := make([]string, 0, len(ExampleGoals))
	for i, g := range ExampleGoals {
		style := StyleChip
		if i == m.ExampleIdx {
			style = StyleChipActive
		}
		chips = append(chips, style.Render(g))
	}
	return StyleSubtle.Render("Try: ") + strings.Join(chips, " ")
}

// RunPlanner starts the TUI and blocks until the user quits.
func RunPlanner(ctx context.Context, ctrl *session.Controller, exportDir string) error {
	p := tea.NewProgram(NewPlannerModel(ctx, ctrl, exportDir), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil {
		return fmt.Errorf("run planner: %w", err)
	}
	return nil
}
