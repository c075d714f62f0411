package ui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/dashdrop/internal/canvas"
	"github.com/yildizm/dashdrop/internal/dashboard"
	"github.com/yildizm/dashdrop/internal/emoji"
	"github.com/yildizm/dashdrop/internal/upload"
)

type fakeSubmitter struct {
	mu        sync.Mutex
	paths     []string
	err       error
	cancelled int
}

func (f *fakeSubmitter) Submit(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, path)
	return f.err
}

func (f *fakeSubmitter) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled++
}

type staticDrawing string

func (d staticDrawing) String() string { return string(d) }

func newTestModel(sub Submitter) *Model {
	return NewModel(context.Background(), sub, staticDrawing("BAR"), staticDrawing("LINE"), "", DefaultTheme)
}

func typeText(m *Model, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

// runCmd executes cmd and feeds every resulting message back into m
func runCmd(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			if inner := c(); inner != nil {
				if _, isTick := inner.(tickMsg); !isTick {
					m.Update(inner)
				}
			}
		}
	case nil:
	default:
		m.Update(msg)
	}
}

func TestMain(m *testing.M) {
	emoji.SetEmojiDisabled(true)
	os.Exit(m.Run())
}

func TestTypingEditsPath(t *testing.T) {
	m := newTestModel(&fakeSubmitter{})

	typeText(m, "data.csx")
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	typeText(m, "v")
	if m.path != "data.csv" {
		t.Errorf("Expected path data.csv, got %q", m.path)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	if m.path != "" {
		t.Errorf("Expected path to be cleared, got %q", m.path)
	}
}

func TestEnterSubmitsTrimmedPath(t *testing.T) {
	sub := &fakeSubmitter{}
	m := newTestModel(sub)
	typeText(m, "  sales.csv ")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.inFlight != 1 {
		t.Fatalf("Expected one submission in flight, got %d", m.inFlight)
	}
	runCmd(m, cmd)

	if len(sub.paths) != 1 || sub.paths[0] != "sales.csv" {
		t.Errorf("Expected sales.csv to be submitted, got %v", sub.paths)
	}
	if m.inFlight != 0 {
		t.Errorf("Expected no submission in flight after completion, got %d", m.inFlight)
	}
}

func TestViewMessages(t *testing.T) {
	m := newTestModel(&fakeSubmitter{})

	if strings.Contains(m.View(), "BAR") {
		t.Error("Dashboard must be hidden initially")
	}

	m.Update(statusMsg("Analysis Complete."))
	m.Update(dashboardMsg{})
	out := m.View()
	for _, want := range []string{"[OK] Analysis Complete.", "BAR", "LINE"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in view:\n%s", want, out)
		}
	}

	m.Update(statusMsg("Error: Server Error: 500"))
	if !strings.Contains(m.View(), "[ERR] Error: Server Error: 500") {
		t.Errorf("Expected error status in view:\n%s", m.View())
	}
}

func TestAlertIsModal(t *testing.T) {
	sub := &fakeSubmitter{}
	m := newTestModel(sub)

	m.Update(alertMsg("Select a file."))
	if !strings.Contains(m.View(), "Select a file.") {
		t.Fatalf("Expected alert in view:\n%s", m.View())
	}

	// typing and esc are swallowed by the alert
	typeText(m, "x")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd != nil || m.quitting {
		t.Error("Esc should dismiss the alert, not quit")
	}
	if m.path != "" {
		t.Errorf("Input must be blocked while the alert is shown, got %q", m.path)
	}
	if m.alert != "" {
		t.Error("Expected alert to be dismissed")
	}
}

func TestEmptySubmitRaisesAlertThroughController(t *testing.T) {
	view := &programView{}
	var msgs []tea.Msg
	view.attach(func(msg tea.Msg) { msgs = append(msgs, msg) })

	ctrl := upload.NewController(upload.NewClient("http://127.0.0.1:1"), dashboard.NewRenderer(canvas.NewTerminal(20, 4), canvas.NewTerminal(20, 4)), view)
	m := newTestModel(ctrl)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	runCmd(m, cmd)
	for _, msg := range msgs {
		m.Update(msg)
	}

	if m.alert != upload.AlertSelectFile {
		t.Errorf("Expected alert %q, got %q", upload.AlertSelectFile, m.alert)
	}
	if m.inFlight != 0 {
		t.Errorf("Empty submission must not count as in flight, got %d", m.inFlight)
	}
}

func TestSubmitDoneNotices(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: upload.ErrBusy, want: "already running"},
		{err: upload.ErrSuperseded, want: "was superseded"},
		{err: errors.New("boom"), want: ""},
	}
	for _, tt := range tests {
		m := newTestModel(&fakeSubmitter{})
		m.inFlight = 1
		m.Update(submitDoneMsg{path: "a.csv", err: tt.err})
		if m.inFlight != 0 {
			t.Errorf("%v: expected in-flight count to drop", tt.err)
		}
		if (tt.want == "" && m.notice != "") || !strings.Contains(m.notice, tt.want) {
			t.Errorf("%v: notice = %q, want it to contain %q", tt.err, m.notice, tt.want)
		}
	}
}

func TestQuitCancelsInFlight(t *testing.T) {
	sub := &fakeSubmitter{}
	m := newTestModel(sub)
	m.inFlight = 1

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil || !m.quitting {
		t.Fatal("Expected ctrl+c to quit")
	}
	if sub.cancelled != 1 {
		t.Errorf("Expected in-flight submission to be cancelled, got %d cancels", sub.cancelled)
	}
}

func TestQuitWhileViewUpdatePending(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"charts":{"bar_chart":{"labels":["A"],"values":[1]},"line_chart":{"labels":["Jan"],"values":[5]}}}`)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "sales.csv")
	if err := os.WriteFile(path, []byte("region,amount\nA,1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	// the event loop is busy, so every send stalls until unblock closes
	pending := make(chan struct{}, 1)
	unblock := make(chan struct{})
	view := &programView{}
	view.attach(func(tea.Msg) {
		select {
		case pending <- struct{}{}:
		default:
		}
		<-unblock
	})
	bar, line := canvas.NewTerminal(30, 4), canvas.NewTerminal(30, 4)
	ctrl := upload.NewController(upload.NewClient(srv.URL), dashboard.NewRenderer(bar, line), view)

	m := NewModel(context.Background(), ctrl, bar, line, path, DefaultTheme)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	batch, ok := cmd().(tea.BatchMsg)
	if !ok || len(batch) == 0 {
		t.Fatalf("Expected a batched submit command, got %T", cmd())
	}
	doneCh := make(chan tea.Msg, 1)
	go func() { doneCh <- batch[0]() }()

	select {
	case <-pending:
	case <-time.After(5 * time.Second):
		close(unblock)
		t.Fatal("submission never reached the view")
	}

	quitCh := make(chan tea.Cmd, 1)
	go func() {
		_, quitCmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		quitCh <- quitCmd
	}()
	select {
	case quitCmd := <-quitCh:
		if quitCmd == nil || !m.quitting {
			t.Error("Expected esc to quit")
		}
	case <-time.After(2 * time.Second):
		close(unblock)
		t.Fatal("quit blocked behind a pending view update")
	}

	close(unblock)
	select {
	case msg := <-doneCh:
		done, ok := msg.(submitDoneMsg)
		if !ok || !errors.Is(done.err, context.Canceled) {
			t.Errorf("Expected cancelled submission, got %#v", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("submission never returned after quit")
	}
}

func TestEndToEndWithServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"charts":{"bar_chart":{"title":"Sales","labels":["A","B"],"values":[1,2]},"line_chart":{"title":"Trend","labels":["Jan","Feb"],"values":[5,6]}}}`)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "sales.csv")
	if err := os.WriteFile(path, []byte("region,amount\nA,1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	bar, line := canvas.NewTerminal(30, 4), canvas.NewTerminal(30, 4)
	view := &programView{}
	var mu sync.Mutex
	var msgs []tea.Msg
	view.attach(func(msg tea.Msg) {
		mu.Lock()
		defer mu.Unlock()
		msgs = append(msgs, msg)
	})
	ctrl := upload.NewController(upload.NewClient(srv.URL), dashboard.NewRenderer(bar, line), view)

	m := NewModel(context.Background(), ctrl, bar, line, path, DefaultTheme)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	runCmd(m, cmd)

	mu.Lock()
	for _, msg := range msgs {
		m.Update(msg)
	}
	mu.Unlock()

	out := m.View()
	for _, want := range []string{"Analysis Complete.", "Sales", "Trend", "Jan"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in view:\n%s", want, out)
		}
	}
}

func TestThemeByName(t *testing.T) {
	for _, name := range AvailableThemes() {
		if _, ok := ThemeByName(name); !ok {
			t.Errorf("Theme %q should exist", name)
		}
	}
	if _, ok := ThemeByName("neon"); ok {
		t.Error("Unknown theme should not resolve")
	}
}
