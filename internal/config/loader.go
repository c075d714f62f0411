package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.dashdrop.yaml",               // Project-specific config (highest priority)
	"~/.config/dashdrop/config.yaml", // User config
	"/etc/dashdrop/config.yaml",      // System config (lowest priority)
}

// EnvFile is the dotenv file read before environment overrides are applied
const EnvFile = ".env"

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
	envFile     string
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		envFile:     EnvFile,
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables (including a local .env file)
// 3. ./.dashdrop.yaml
// 4. ~/.config/dashdrop/config.yaml
// 5. /etc/dashdrop/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// lowest priority first so later files win
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			expandedPath := expandPath(l.configPaths[i])
			if fileExists(expandedPath) {
				if err := l.loadFromFile(config, expandedPath); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: Failed to load config from %s: %v\n", expandedPath, err)
				}
			}
		}
	}

	if err := l.loadEnvFile(); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", l.envFile, err)
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile decodes a YAML file on top of the current config.
// Keys absent from the file keep their current value.
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() or comes from ConfigPaths
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	merged := *config
	if err := yaml.Unmarshal(data, &merged); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	*config = merged

	return nil
}

// loadEnvFile populates the process environment from a dotenv file.
// Variables already set are left alone; a missing file is not an error.
func (l *Loader) loadEnvFile() error {
	if l.envFile == "" {
		return nil
	}
	err := godotenv.Load(l.envFile)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		// Server Config
		"DASHDROP_SERVER_URL":        func(v string) error { config.Server.URL = v; return nil },
		"DASHDROP_SERVER_ENDPOINT":   func(v string) error { config.Server.Endpoint = v; return nil },
		"DASHDROP_SERVER_FIELD_NAME": func(v string) error { config.Server.FieldName = v; return nil },
		"DASHDROP_SERVER_TIMEOUT":    func(v string) error { return parseDuration(v, &config.Server.Timeout) },

		// Upload Config
		"DASHDROP_UPLOAD_OVERLAP":   func(v string) error { config.Upload.Overlap = v; return nil },
		"DASHDROP_UPLOAD_PREFLIGHT": func(v string) error { return parseBool(v, &config.Upload.Preflight) },

		// Response Config
		"DASHDROP_RESPONSE_ACCEPT_LEGACY_KEY": func(v string) error { return parseBool(v, &config.Response.AcceptLegacyKey) },
		"DASHDROP_RESPONSE_STRICT":            func(v string) error { return parseBool(v, &config.Response.Strict) },

		// Render Config
		"DASHDROP_RENDER_OUTPUT_DIR":      func(v string) error { config.Render.OutputDir = v; return nil },
		"DASHDROP_RENDER_IMAGES":          func(v string) error { return parseBool(v, &config.Render.Images) },
		"DASHDROP_RENDER_WIDTH":           func(v string) error { return parseInt(v, &config.Render.Width) },
		"DASHDROP_RENDER_HEIGHT":          func(v string) error { return parseInt(v, &config.Render.Height) },
		"DASHDROP_RENDER_BAR_COLOR":       func(v string) error { config.Render.BarColor = v; return nil },
		"DASHDROP_RENDER_LINE_COLOR":      func(v string) error { config.Render.LineColor = v; return nil },
		"DASHDROP_RENDER_TERMINAL_WIDTH":  func(v string) error { return parseInt(v, &config.Render.TerminalWidth) },
		"DASHDROP_RENDER_TERMINAL_HEIGHT": func(v string) error { return parseInt(v, &config.Render.TerminalHeight) },

		// Watch Config
		"DASHDROP_WATCH_DEBOUNCE": func(v string) error { return parseDuration(v, &config.Watch.Debounce) },

		// Output Config
		"DASHDROP_OUTPUT_DEFAULT_FORMAT": func(v string) error { config.Output.DefaultFormat = v; return nil },
		"DASHDROP_OUTPUT_COLOR_MODE":     func(v string) error { config.Output.ColorMode = v; return nil },
		"DASHDROP_OUTPUT_VERBOSE":        func(v string) error { return parseBool(v, &config.Output.Verbose) },
	}

	for envVar, setter := range envMappings {
		if value := os.Getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := expandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// Helper functions

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/proc/") || strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Type conversion helpers

func parseInt(s string, dst *int) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
