package canvas

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yildizm/dashdrop/internal/dashboard"
	"github.com/yildizm/dashdrop/internal/report"
)

func barSpec() dashboard.Spec {
	return dashboard.Spec{Kind: dashboard.KindBar, Title: "Sales", Labels: []string{"A", "B"}, Values: []float64{1, 2}, Color: "#3498db"}
}

func lineSpec() dashboard.Spec {
	return dashboard.Spec{Kind: dashboard.KindLine, Title: "Trend", Labels: []string{"Jan", "Feb"}, Values: []float64{5, 6}, Color: "#e74c3c"}
}

func salesTrend() *report.Report {
	return &report.Report{Charts: report.Charts{
		Bar:  &report.Chart{Title: "Sales", Labels: []string{"A", "B"}, Values: []float64{1, 2}},
		Line: &report.Chart{Title: "Trend", Labels: []string{"Jan", "Feb"}, Values: []float64{5, 6}},
	}}
}

func TestCheckSpec(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*dashboard.Spec)
		wantErr string
	}{
		{name: "valid", mutate: func(*dashboard.Spec) {}},
		{
			name:    "length mismatch",
			mutate:  func(s *dashboard.Spec) { s.Values = []float64{1} },
			wantErr: "labels and values differ in length (2 != 1)",
		},
		{
			name:    "empty",
			mutate:  func(s *dashboard.Spec) { s.Labels, s.Values = nil, nil },
			wantErr: ErrNoData.Error(),
		},
		{
			name:    "unknown kind",
			mutate:  func(s *dashboard.Spec) { s.Kind = "pie" },
			wantErr: `unsupported chart kind "pie"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := barSpec()
			tt.mutate(&spec)
			err := checkSpec(spec)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("Expected %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestTerminalBarChart(t *testing.T) {
	term := NewTerminal(40, 8)
	inst, err := term.Draw(barSpec())
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}

	out := term.String()
	if !strings.Contains(out, "Sales") {
		t.Errorf("Expected title in output:\n%s", out)
	}

	var rowA, rowB string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, " ")
		switch {
		case strings.HasPrefix(line, "A "):
			rowA = line
		case strings.HasPrefix(line, "B "):
			rowB = line
		}
	}
	if rowA == "" || rowB == "" {
		t.Fatalf("Expected a row per label:\n%s", out)
	}
	if strings.Count(rowB, "█") != 2*strings.Count(rowA, "█") {
		t.Errorf("Expected B's bar to be twice A's:\nA=%q\nB=%q", rowA, rowB)
	}
	if !strings.HasSuffix(rowB, " 2") {
		t.Errorf("Expected value printed after bar, got %q", rowB)
	}

	if term.Live() != 1 {
		t.Errorf("Expected 1 live chart, got %d", term.Live())
	}
	if err := inst.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if term.String() != "" || term.Live() != 0 {
		t.Errorf("Expected empty surface after destroy, got %q (live %d)", term.String(), term.Live())
	}
}

func TestTerminalLineChart(t *testing.T) {
	term := NewTerminal(40, 5)
	if _, err := term.Draw(lineSpec()); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	out := term.String()
	for _, want := range []string{"Trend", "Jan", "Feb", "6", "5"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
	if strings.Count(out, "●") != 2 {
		t.Errorf("Expected one dot per value:\n%s", out)
	}
}

func TestTerminalStaleDestroyKeepsNewerDrawing(t *testing.T) {
	term := NewTerminal(40, 5)
	old, _ := term.Draw(barSpec())
	if _, err := term.Draw(lineSpec()); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	_ = old.Destroy()
	_ = old.Destroy()

	if !strings.Contains(term.String(), "Trend") {
		t.Error("Destroying an older chart must not clear the newer drawing")
	}
	if term.Live() != 1 {
		t.Errorf("Expected 1 live chart, got %d", term.Live())
	}
}

func TestTerminalRejectsMismatch(t *testing.T) {
	spec := barSpec()
	spec.Labels = append(spec.Labels, "C")
	if _, err := NewTerminal(40, 5).Draw(spec); err == nil {
		t.Error("Expected error for mismatched labels and values")
	}
}

func TestRenderPNG(t *testing.T) {
	for _, spec := range []dashboard.Spec{barSpec(), lineSpec()} {
		t.Run(string(spec.Kind), func(t *testing.T) {
			var buf bytes.Buffer
			if err := RenderPNG(&buf, spec, 640, 320); err != nil {
				t.Fatalf("RenderPNG: %v", err)
			}
			img, err := png.Decode(&buf)
			if err != nil {
				t.Fatalf("output is not a PNG: %v", err)
			}
			if b := img.Bounds(); b.Dx() != 640 || b.Dy() != 320 {
				t.Errorf("Expected 640x320, got %dx%d", b.Dx(), b.Dy())
			}
		})
	}
}

func TestImageSurfaceLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts", "bar_chart.png")
	surface := NewImage(path, 640, 320)

	inst, err := surface.Draw(barSpec())
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Expected chart file: %v", err)
	}
	if surface.Live() != 1 {
		t.Errorf("Expected 1 live chart, got %d", surface.Live())
	}

	if err := inst.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected chart file to be removed, stat err = %v", err)
	}
	if surface.Live() != 0 {
		t.Errorf("Expected 0 live charts, got %d", surface.Live())
	}
}

func TestImageSurfaceWithRenderer(t *testing.T) {
	dir := t.TempDir()
	bar := NewImage(filepath.Join(dir, "bar_chart.png"), 640, 320)
	line := NewImage(filepath.Join(dir, "line_chart.png"), 640, 320)
	r := dashboard.NewRenderer(bar, line)

	for i := 0; i < 2; i++ {
		if err := r.Render(salesTrend()); err != nil {
			t.Fatalf("Render #%d: %v", i, err)
		}
		if bar.Live() != 1 || line.Live() != 1 {
			t.Fatalf("render #%d left bar=%d line=%d live charts", i, bar.Live(), line.Live())
		}
	}
	for _, p := range []string{bar.Path(), line.Path()} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("Expected %s to exist: %v", p, err)
		}
	}
}
