package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

type staticChecker bool

func (s staticChecker) IsVerbose() bool { return bool(s) }

func TestLoggerVerboseGating(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		want    []string
		notWant []string
	}{
		{
			name:    "quiet hides debug and info",
			verbose: false,
			want:    []string{"WARN [upload] careful", "ERROR [upload] broken"},
			notWant: []string{"DEBUG", "INFO"},
		},
		{
			name:    "verbose shows everything",
			verbose: true,
			want:    []string{"DEBUG [upload] details", "INFO [upload] hello", "WARN [upload] careful", "ERROR [upload] broken"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewWithWriter("upload", staticChecker(tt.verbose), &buf)

			l.Debug("details")
			l.Info("hello")
			l.Warn("careful")
			l.Error("broken")

			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("expected output to contain %q, got:\n%s", w, out)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(out, nw) {
					t.Errorf("expected output not to contain %q, got:\n%s", nw, out)
				}
			}
		})
	}
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("", nil, &buf)

	l.ErrorWithFields("upload failed for %s", []Field{Status(500), Error(errors.New("boom"))}, "data.csv")

	out := buf.String()
	if !strings.Contains(out, "ERROR [main] upload failed for data.csv [status=500 error=boom]") {
		t.Errorf("unexpected log line: %s", out)
	}
}

func TestLoggerMessageWithoutArgsKeepsPercent(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("ui", nil, &buf)

	l.Warn("100% done")

	if !strings.Contains(buf.String(), "100% done") {
		t.Errorf("expected literal percent to survive, got %s", buf.String())
	}
}

func TestWithComponentSharesWriter(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithCallback("base", func() bool { return true })
	base.writer = &buf

	child := base.WithComponent("watch")
	child.Info("tick")

	if !strings.Contains(buf.String(), "INFO [watch] tick") {
		t.Errorf("child logger did not write to parent writer: %s", buf.String())
	}
}
