package ui

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/dashdrop/internal/emoji"
	"github.com/yildizm/dashdrop/internal/upload"
)

// Submitter is the controller surface the model drives
type Submitter interface {
	Submit(ctx context.Context, path string) error
	Cancel()
}

// Drawing is a chart surface the model can print
type Drawing interface {
	String() string
}

var spinnerChars = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Model is the upload screen: a file field, a status line, a dashboard
// revealed after the first successful analysis, and a modal alert.
type Model struct {
	ctx       context.Context
	submitter Submitter
	bar, line Drawing
	styles    Styles

	path      string
	status    string
	notice    string
	alert     string
	dashboard bool
	inFlight  int

	spinnerFrame int
	width        int
	height       int
	quitting     bool
}

// NewModel creates the upload screen model
func NewModel(ctx context.Context, submitter Submitter, bar, line Drawing, initialPath string, theme Theme) *Model {
	return &Model{
		ctx:       ctx,
		submitter: submitter,
		bar:       bar,
		line:      line,
		styles:    NewStyles(theme),
		path:      initialPath,
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		return m.handleKey(msg)
	case statusMsg:
		m.status = string(msg)
		m.notice = ""
	case alertMsg:
		m.alert = string(msg)
	case dashboardMsg:
		m.dashboard = true
	case submitDoneMsg:
		return m.handleSubmitDone(msg)
	case tickMsg:
		if m.inFlight == 0 {
			return m, nil
		}
		m.spinnerFrame = (m.spinnerFrame + 1) % len(spinnerChars)
		return m, tick()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	// the alert is modal: only acknowledging it does anything
	if m.alert != "" {
		switch msg.Type {
		case tea.KeyEnter, tea.KeyEsc, tea.KeySpace:
			m.alert = ""
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		return m.quit()
	case tea.KeyEnter:
		return m, m.submit()
	case tea.KeyBackspace:
		if r := []rune(m.path); len(r) > 0 {
			m.path = string(r[:len(r)-1])
		}
	case tea.KeyCtrlU:
		m.path = ""
	case tea.KeySpace:
		m.path += " "
	case tea.KeyRunes:
		m.path += string(msg.Runes)
	}
	return m, nil
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if m.inFlight > 0 {
		m.submitter.Cancel()
	}
	return m, tea.Quit
}

// submit runs the controller off the event loop; its view calls come back
// as messages and the returned error as submitDoneMsg
func (m *Model) submit() tea.Cmd {
	path := strings.TrimSpace(m.path)
	ctx := m.ctx
	run := func() tea.Msg {
		return submitDoneMsg{path: path, err: m.submitter.Submit(ctx, path)}
	}
	if path == "" {
		return run
	}

	m.inFlight++
	if m.inFlight == 1 {
		return tea.Batch(run, tick())
	}
	return run
}

func (m *Model) handleSubmitDone(msg submitDoneMsg) (tea.Model, tea.Cmd) {
	if msg.path != "" && m.inFlight > 0 {
		m.inFlight--
	}
	switch {
	case errors.Is(msg.err, upload.ErrBusy):
		m.notice = "An analysis is already running; wait for it to finish."
	case errors.Is(msg.err, upload.ErrSuperseded):
		m.notice = "Analysis of " + msg.path + " was superseded."
	}
	return m, nil
}

// View renders the model
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.alert != "" {
		return m.renderAlert()
	}

	sections := []string{
		m.styles.Title.Render(emoji.GetEmoji("dashboard") + " dashdrop"),
		m.styles.Subtitle.Render("Upload a dataset to the analysis server"),
		"",
		m.styles.Label.Render("File"),
		m.styles.Input.Render(m.path + "█"),
		m.styles.Help.Render("enter analyze • ctrl+u clear • esc quit"),
		"",
		m.renderStatus(),
	}
	if m.notice != "" {
		sections = append(sections, m.styles.Notice.Render(m.notice))
	}
	if m.dashboard {
		sections = append(sections, "", m.renderDashboard())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderStatus() string {
	switch {
	case m.status == "":
		return m.styles.Status.Render("Ready.")
	case strings.HasPrefix(m.status, "Error: "):
		return m.styles.Error.Render(emoji.Prefix("error", m.status))
	case m.status == upload.StatusComplete:
		return m.styles.Success.Render(emoji.Prefix("success", m.status))
	case m.inFlight > 0:
		return m.styles.Busy.Render(spinnerChars[m.spinnerFrame] + " " + m.status)
	default:
		return m.styles.Status.Render(m.status)
	}
}

func (m *Model) renderDashboard() string {
	bar := m.styles.Panel.Render(m.bar.String())
	line := m.styles.Panel.Render(m.line.String())
	if m.width > 0 && lipgloss.Width(bar)+lipgloss.Width(line)+1 > m.width {
		return lipgloss.JoinVertical(lipgloss.Left, bar, line)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, bar, " ", line)
}

func (m *Model) renderAlert() string {
	box := m.styles.Alert.Render(lipgloss.JoinVertical(lipgloss.Center,
		emoji.Prefix("warning", m.alert),
		"",
		m.styles.Help.Render("[ OK ]"),
	))
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
