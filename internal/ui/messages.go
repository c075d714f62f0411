package ui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Messages the controller sends into the event loop through programView
type statusMsg string

type alertMsg string

type dashboardMsg struct{}

// submitDoneMsg carries the result of one Submit call
type submitDoneMsg struct {
	path string
	err  error
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// programView adapts upload.View onto a running tea.Program.
// Calls made before attach are dropped.
type programView struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func (v *programView) attach(send func(tea.Msg)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.send = send
}

func (v *programView) dispatch(msg tea.Msg) {
	v.mu.Lock()
	send := v.send
	v.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

func (v *programView) Alert(msg string) {
	v.dispatch(alertMsg(msg))
}

func (v *programView) SetStatus(msg string) {
	v.dispatch(statusMsg(msg))
}

func (v *programView) ShowDashboard() {
	v.dispatch(dashboardMsg{})
}
