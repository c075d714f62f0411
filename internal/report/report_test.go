package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const salesTrend = `{"charts": {
  "bar_chart": {"title": "Sales", "labels": ["A", "B"], "values": [1, 2]},
  "line_chart": {"title": "Trend", "labels": ["Jan", "Feb"], "values": [5, 6]}
}}`

func TestDecodeCanonicalKey(t *testing.T) {
	rep, err := Decode(strings.NewReader(salesTrend), DefaultDecodeOptions())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	want := Charts{
		Bar:  &Chart{Title: "Sales", Labels: []string{"A", "B"}, Values: []float64{1, 2}},
		Line: &Chart{Title: "Trend", Labels: []string{"Jan", "Feb"}, Values: []float64{5, 6}},
	}
	if diff := cmp.Diff(want, rep.Charts); diff != "" {
		t.Errorf("charts mismatch (-want +got):\n%s", diff)
	}
	if rep.Source != KeyCharts {
		t.Errorf("Expected source %q, got %q", KeyCharts, rep.Source)
	}
	if len(rep.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", rep.Warnings)
	}
}

func TestDecodeKeyResolution(t *testing.T) {
	bar := `{"title":"B","labels":["x"],"values":[1]}`
	line := `{"title":"L","labels":["y"],"values":[2]}`
	other := `{"title":"Other","labels":["z"],"values":[3]}`

	tests := []struct {
		name        string
		body        string
		opts        DecodeOptions
		wantErr     error
		wantSource  string
		wantBar     string
		wantWarning string
	}{
		{
			name:        "legacy key accepted",
			body:        `{"visuals":{"bar_chart":` + bar + `,"line_chart":` + line + `}}`,
			opts:        DefaultDecodeOptions(),
			wantSource:  KeyVisuals,
			wantBar:     "B",
			wantWarning: "deprecated",
		},
		{
			name:    "legacy key rejected",
			body:    `{"visuals":{"bar_chart":` + bar + `,"line_chart":` + line + `}}`,
			opts:    DecodeOptions{AcceptLegacyKey: false},
			wantErr: ErrLegacyKey,
		},
		{
			name:        "both keys prefers charts",
			body:        `{"charts":{"bar_chart":` + bar + `,"line_chart":` + line + `},"visuals":{"bar_chart":` + other + `,"line_chart":` + line + `}}`,
			opts:        DefaultDecodeOptions(),
			wantSource:  KeyCharts,
			wantBar:     "B",
			wantWarning: "both",
		},
		{
			name:    "neither key",
			body:    `{"summary":{}}`,
			opts:    DefaultDecodeOptions(),
			wantErr: ErrMissingCharts,
		},
		{
			name:    "null charts",
			body:    `{"charts":null}`,
			opts:    DefaultDecodeOptions(),
			wantErr: ErrMissingCharts,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep, err := Decode(strings.NewReader(tt.body), tt.opts)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if rep.Source != tt.wantSource {
				t.Errorf("Expected source %q, got %q", tt.wantSource, rep.Source)
			}
			if rep.Charts.Bar == nil || rep.Charts.Bar.Title != tt.wantBar {
				t.Errorf("Expected bar chart %q, got %+v", tt.wantBar, rep.Charts.Bar)
			}
			if len(rep.Warnings) != 1 || !strings.Contains(rep.Warnings[0], tt.wantWarning) {
				t.Errorf("Expected a warning mentioning %q, got %v", tt.wantWarning, rep.Warnings)
			}
		})
	}
}

func TestDecodeMalformedJSON(t *testing.T) {
	_, err := Decode(strings.NewReader(`<html>oops</html>`), DefaultDecodeOptions())
	if err == nil {
		t.Fatal("Expected a syntax error")
	}
	if !strings.Contains(err.Error(), "invalid character") {
		t.Errorf("Expected decoder message, got %q", err.Error())
	}
}

func TestDecodeStrict(t *testing.T) {
	mismatched := `{"charts":{"bar_chart":{"title":"Sales","labels":["A","B"],"values":[1]},"line_chart":{"title":"T","labels":[],"values":[]}}}`

	// lenient decoding leaves the mismatch for the renderer
	rep, err := Decode(strings.NewReader(mismatched), DefaultDecodeOptions())
	if err != nil {
		t.Fatalf("lenient Decode: %v", err)
	}
	if rep.Charts.Bar == nil {
		t.Fatal("Expected bar chart")
	}

	_, err = Decode(strings.NewReader(mismatched), DecodeOptions{AcceptLegacyKey: true, Strict: true})
	if err == nil || err.Error() != `chart "Sales" has 2 labels but 1 values` {
		t.Errorf("Expected length mismatch error, got %v", err)
	}

	missingLine := `{"charts":{"bar_chart":{"title":"Sales","labels":["A"],"values":[1]}}}`
	_, err = Decode(strings.NewReader(missingLine), DecodeOptions{Strict: true})
	if err == nil || !strings.Contains(err.Error(), "line_chart") {
		t.Errorf("Expected missing line_chart error, got %v", err)
	}
}
