package tui

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"quizdrill/internal/app"
	"quizdrill/internal/domain"
)

// Model renders an interactive drill session using Bubble Tea.
type Model struct {
	state        State
	service      *app.DrillService
	sessionID    string
	updates      <-chan domain.Progress
	cancel       func()
	exportDir    string
	noColor      bool
	width        int
	height       int
	summaryTable table.Model
}

// Options configures the drill UI model.
type Options struct {
	NoColor   bool
	ExportDir string
}

// NewModel constructs a drill UI model over a started session.
func NewModel(service *app.DrillService, view app.SessionView, updates <-chan domain.Progress, cancel func(), opts Options) Model {
	exportDir := opts.ExportDir
	if exportDir == "" {
		exportDir = "."
	}
	state := Reduce(State{}, sessionEvent(view))
	return Model{
		state:     state,
		service:   service,
		sessionID: view.SessionID,
		updates:   updates,
		cancel:    cancel,
		exportDir: exportDir,
		noColor:   opts.NoColor,
	}
}

// Init waits for the first progress push.
func (m Model) Init() tea.Cmd {
	return waitForUpdate(m.updates)
}

// Update consumes key presses, service replies, and progress pushes.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		if m.state.Summary != nil {
			m.summaryTable.SetColumns(summaryColumns(typed.Width))
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(typed)
	case progressMsg:
		m.state = Reduce(m.state, Event{Kind: EventProgress, Progress: domain.Progress(typed)})
		return m.maybeFetchSummary(waitForUpdate(m.updates))
	case toggleDoneMsg:
		if typed.err != nil {
			m.state.LastEvent = typed.err.Error()
			return m, nil
		}
		m.state = Reduce(m.state, Event{Kind: EventFeedback, Feedback: typed.feedback, Progress: typed.progress})
		return m.maybeFetchSummary(nil)
	case resetDoneMsg:
		if typed.err != nil {
			m.state.LastEvent = typed.err.Error()
			return m, nil
		}
		m.state = Reduce(m.state, sessionEvent(typed.view))
		return m, nil
	case summaryMsg:
		if typed.err != nil {
			m.state.LastEvent = typed.err.Error()
			return m, nil
		}
		m.state = Reduce(m.state, Event{Kind: EventSummary, Summary: typed.summary})
		m.summaryTable = newSummaryTable(typed.summary, m.width, m.noColor)
		return m, nil
	case exportDoneMsg:
		if typed.err != nil {
			m.state.LastEvent = "export failed: " + typed.err.Error()
		} else {
			m.state.LastEvent = "saved " + typed.path
		}
		return m, nil
	}
	return m, nil
}

// View renders the drill screen, or the summary once every question locks.
func (m Model) View() string {
	if m.state.Finished && m.state.Summary != nil {
		return renderSummaryView(m.state, m.summaryTable.View(), m.noColor)
	}
	return renderDrillView(m.state, m.width, m.noColor)
}

// handleKey dispatches a key press against the current state.
func (m Model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c", "q":
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit
	case "up", "k":
		m.state = MoveCursor(m.state, -1)
	case "down", "j":
		m.state = MoveCursor(m.state, 1)
	case "left", "h", "shift+tab":
		m.state = MoveQuestion(m.state, -1)
	case "right", "l", "tab":
		m.state = MoveQuestion(m.state, 1)
	case " ", "enter":
		if cmd := m.toggleCmd(); cmd != nil {
			return m, cmd
		}
	case "r":
		return m, m.resetCmd()
	case "e":
		if m.state.Finished {
			return m, m.exportCmd()
		}
	}
	return m, nil
}

// maybeFetchSummary chains a summary fetch once the run completes.
func (m Model) maybeFetchSummary(next tea.Cmd) (tea.Model, tea.Cmd) {
	if m.state.Finished && m.state.Summary == nil {
		return m, tea.Batch(next, m.summaryCmd())
	}
	return m, next
}

// toggleCmd issues the toggle under the cursor, or nil when there is
// nothing to toggle.
func (m Model) toggleCmd() tea.Cmd {
	q, ok := CurrentQuestion(m.state)
	if !ok {
		return nil
	}
	key, ok := CursorKey(m.state)
	if !ok {
		return nil
	}
	service, sessionID, questionID := m.service, m.sessionID, q.ID
	return func() tea.Msg {
		feedback, progress, err := service.Toggle(context.Background(), sessionID, questionID, key)
		return toggleDoneMsg{feedback: feedback, progress: progress, err: err}
	}
}

// resetCmd rebuilds the session from its source quiz.
func (m Model) resetCmd() tea.Cmd {
	service, sessionID := m.service, m.sessionID
	return func() tea.Msg {
		view, err := service.Reset(context.Background(), sessionID)
		return resetDoneMsg{view: view, err: err}
	}
}

// summaryCmd fetches the end-of-run summary.
func (m Model) summaryCmd() tea.Cmd {
	service, sessionID := m.service, m.sessionID
	return func() tea.Msg {
		summary, err := service.Summary(context.Background(), sessionID)
		return summaryMsg{summary: summary, err: err}
	}
}

// exportCmd writes the incorrect-question export next to the caller.
func (m Model) exportCmd() tea.Cmd {
	service, sessionID, dir := m.service, m.sessionID, m.exportDir
	return func() tea.Msg {
		export, err := service.Export(context.Background(), sessionID)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		payload, err := json.MarshalIndent(export, "", "  ")
		if err != nil {
			return exportDoneMsg{err: err}
		}
		path := filepath.Join(dir, "incorrect_answers_"+export.Timestamp.Format("20060102_150405")+".json")
		if err := os.WriteFile(path, payload, 0o644); err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{path: path}
	}
}

// sessionEvent converts a session view into a reducer event.
func sessionEvent(view app.SessionView) Event {
	return Event{
		Kind:      EventSession,
		SessionID: view.SessionID,
		Title:     view.Title,
		Questions: view.Questions,
		Progress:  view.Progress,
	}
}

// progressMsg carries a broadcast progress update.
type progressMsg domain.Progress

// toggleDoneMsg carries the outcome of a toggle call.
type toggleDoneMsg struct {
	feedback domain.Feedback
	progress domain.Progress
	err      error
}

// resetDoneMsg carries the fresh session after a reset.
type resetDoneMsg struct {
	view app.SessionView
	err  error
}

// summaryMsg carries the end-of-run summary.
type summaryMsg struct {
	summary domain.Summary
	err     error
}

// exportDoneMsg carries the written export path.
type exportDoneMsg struct {
	path string
	err  error
}

// waitForUpdate blocks until a progress push is available.
func waitForUpdate(updates <-chan domain.Progress) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return nil
		}
		return progressMsg(update)
	}
}
