// Package report models the analysis server's response and decodes it.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Key names the server may use for the chart payload
const (
	KeyCharts  = "charts"
	KeyVisuals = "visuals"
)

var (
	// ErrMissingCharts is returned when neither "charts" nor "visuals" is present
	ErrMissingCharts = errors.New(`analysis response has no "charts" object`)

	// ErrLegacyKey is returned for a "visuals" payload when the alias is disabled
	ErrLegacyKey = errors.New(`analysis response uses the deprecated "visuals" key`)
)

// Chart is one chart description produced by the server
type Chart struct {
	Title  string    `json:"title"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Validate checks that every label has a value
func (c *Chart) Validate() error {
	if len(c.Labels) != len(c.Values) {
		return fmt.Errorf("chart %q has %d labels but %d values", c.Title, len(c.Labels), len(c.Values))
	}
	return nil
}

// Charts groups the two charts of a dashboard
type Charts struct {
	Bar  *Chart `json:"bar_chart,omitempty"`
	Line *Chart `json:"line_chart,omitempty"`
}

// Response is the raw response body
type Response struct {
	Charts  *Charts `json:"charts,omitempty"`
	Visuals *Charts `json:"visuals,omitempty"`
}

// Report is a decoded response normalized onto the canonical key
type Report struct {
	Charts   Charts   `json:"charts"`
	Source   string   `json:"-"`
	Warnings []string `json:"-"`
}

// DecodeOptions controls how strictly a response is read
type DecodeOptions struct {
	AcceptLegacyKey bool
	Strict          bool
}

// DefaultDecodeOptions accepts both key names without length checks
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{AcceptLegacyKey: true}
}

// Decode reads a response body into a Report
func Decode(r io.Reader, opts DecodeOptions) (*Report, error) {
	var resp Response
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, err
	}
	return resp.Normalize(opts)
}

// Normalize resolves the canonical/alias key pair into a Report
func (r *Response) Normalize(opts DecodeOptions) (*Report, error) {
	rep := &Report{}

	switch {
	case r.Charts != nil:
		rep.Charts = *r.Charts
		rep.Source = KeyCharts
		if r.Visuals != nil {
			rep.Warnings = append(rep.Warnings, `response carries both "charts" and "visuals"; using "charts"`)
		}
	case r.Visuals != nil:
		if !opts.AcceptLegacyKey {
			return nil, ErrLegacyKey
		}
		rep.Charts = *r.Visuals
		rep.Source = KeyVisuals
		rep.Warnings = append(rep.Warnings, `response uses deprecated key "visuals"`)
	default:
		return nil, ErrMissingCharts
	}

	if opts.Strict {
		if err := rep.Validate(); err != nil {
			return nil, err
		}
	}

	return rep, nil
}

// Validate checks that both charts are present and well formed
func (r *Report) Validate() error {
	if r.Charts.Bar == nil {
		return errors.New(`analysis response has no "bar_chart"`)
	}
	if r.Charts.Line == nil {
		return errors.New(`analysis response has no "line_chart"`)
	}
	if err := r.Charts.Bar.Validate(); err != nil {
		return err
	}
	return r.Charts.Line.Validate()
}
