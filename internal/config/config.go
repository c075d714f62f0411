package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds the complete application configuration
type Config struct {
	Version  string         `yaml:"version" json:"version"`
	Server   ServerConfig   `yaml:"server" json:"server"`
	Upload   UploadConfig   `yaml:"upload" json:"upload"`
	Response ResponseConfig `yaml:"response" json:"response"`
	Render   RenderConfig   `yaml:"render" json:"render"`
	Watch    WatchConfig    `yaml:"watch" json:"watch"`
	Output   OutputConfig   `yaml:"output" json:"output"`
}

// ServerConfig describes the analysis endpoint
type ServerConfig struct {
	URL       string        `yaml:"url" json:"url"`               // base URL of the analysis server
	Endpoint  string        `yaml:"endpoint" json:"endpoint"`     // path the file is posted to
	FieldName string        `yaml:"field_name" json:"field_name"` // multipart field carrying the file
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`       // 0 waits indefinitely
}

// UploadConfig configures submission behaviour
type UploadConfig struct {
	Overlap   string `yaml:"overlap" json:"overlap"`     // supersede|reject
	Preflight bool   `yaml:"preflight" json:"preflight"` // inspect the file before upload
}

// ResponseConfig configures how analysis responses are decoded
type ResponseConfig struct {
	AcceptLegacyKey bool `yaml:"accept_legacy_key" json:"accept_legacy_key"` // accept "visuals" for "charts"
	Strict          bool `yaml:"strict" json:"strict"`                       // reject label/value length mismatches while decoding
}

// RenderConfig configures the chart surfaces
type RenderConfig struct {
	OutputDir      string `yaml:"output_dir" json:"output_dir"`
	Images         bool   `yaml:"images" json:"images"`
	Width          int    `yaml:"width" json:"width"`
	Height         int    `yaml:"height" json:"height"`
	BarColor       string `yaml:"bar_color" json:"bar_color"`
	LineColor      string `yaml:"line_color" json:"line_color"`
	TerminalWidth  int    `yaml:"terminal_width" json:"terminal_width"`
	TerminalHeight int    `yaml:"terminal_height" json:"terminal_height"`
}

// WatchConfig configures the watch command
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" json:"debounce"`
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // text|json|markdown|csv
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Verbose       bool   `yaml:"verbose" json:"verbose"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Server: ServerConfig{
			URL:       "http://127.0.0.1:8000",
			Endpoint:  "/analyze",
			FieldName: "file",
			Timeout:   0,
		},
		Upload: UploadConfig{
			Overlap:   "supersede",
			Preflight: true,
		},
		Response: ResponseConfig{
			AcceptLegacyKey: true,
			Strict:          false,
		},
		Render: RenderConfig{
			OutputDir:      "./dashboard",
			Images:         true,
			Width:          800,
			Height:         400,
			BarColor:       "#3498db",
			LineColor:      "#e74c3c",
			TerminalWidth:  60,
			TerminalHeight: 10,
		},
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
			Verbose:       false,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateServerConfig(); err != nil {
		return err
	}
	if err := c.validateUploadConfig(); err != nil {
		return err
	}
	if err := c.validateRenderConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch debounce must be non-negative")
	}
	return nil
}

func (c *Config) validateServerConfig() error {
	if c.Server.URL == "" {
		return fmt.Errorf("server url is required")
	}
	u, err := url.Parse(c.Server.URL)
	if err != nil {
		return fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid server url scheme: %s (must be http or https)", u.Scheme)
	}
	if !strings.HasPrefix(c.Server.Endpoint, "/") {
		return fmt.Errorf("server endpoint must start with /")
	}
	if c.Server.FieldName == "" {
		return fmt.Errorf("server field_name is required")
	}
	if c.Server.Timeout < 0 {
		return fmt.Errorf("server timeout must be non-negative")
	}
	return nil
}

func (c *Config) validateUploadConfig() error {
	switch c.Upload.Overlap {
	case "supersede", "reject":
		return nil
	default:
		return fmt.Errorf("invalid overlap policy: %s (must be one of: supersede, reject)", c.Upload.Overlap)
	}
}

func (c *Config) validateRenderConfig() error {
	if c.Render.Width < 1 || c.Render.Height < 1 {
		return fmt.Errorf("render width and height must be greater than 0")
	}
	if c.Render.TerminalWidth < 10 {
		return fmt.Errorf("terminal_width must be at least 10")
	}
	if c.Render.TerminalHeight < 3 {
		return fmt.Errorf("terminal_height must be at least 3")
	}
	for name, color := range map[string]string{"bar_color": c.Render.BarColor, "line_color": c.Render.LineColor} {
		if !isHexColor(color) {
			return fmt.Errorf("invalid %s: %q (expected #rrggbb)", name, color)
		}
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json":     true,
			"text":     true,
			"markdown": true,
			"csv":      true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text, markdown, csv)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	return nil
}

func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
