package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Theme represents a color theme for the TUI
type Theme struct {
	Name string

	Primary lipgloss.AdaptiveColor
	Accent  lipgloss.AdaptiveColor

	Success lipgloss.AdaptiveColor
	Warning lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor

	Border lipgloss.AdaptiveColor
	Muted  lipgloss.AdaptiveColor
	Input  lipgloss.AdaptiveColor
}

// buildTheme creates a theme from [light, dark] pairs
func buildTheme(name string, primary, accent, success, warning, errorColor, border, muted, input [2]string) Theme {
	return Theme{
		Name:    name,
		Primary: lipgloss.AdaptiveColor{Light: primary[0], Dark: primary[1]},
		Accent:  lipgloss.AdaptiveColor{Light: accent[0], Dark: accent[1]},
		Success: lipgloss.AdaptiveColor{Light: success[0], Dark: success[1]},
		Warning: lipgloss.AdaptiveColor{Light: warning[0], Dark: warning[1]},
		Error:   lipgloss.AdaptiveColor{Light: errorColor[0], Dark: errorColor[1]},
		Border:  lipgloss.AdaptiveColor{Light: border[0], Dark: border[1]},
		Muted:   lipgloss.AdaptiveColor{Light: muted[0], Dark: muted[1]},
		Input:   lipgloss.AdaptiveColor{Light: input[0], Dark: input[1]},
	}
}

// Available themes
var (
	DefaultTheme = buildTheme("default",
		[2]string{"#1E40AF", "#3B82F6"}, [2]string{"#7C3AED", "#A855F7"},
		[2]string{"#059669", "#10B981"}, [2]string{"#D97706", "#F59E0B"}, [2]string{"#DC2626", "#EF4444"},
		[2]string{"#D1D5DB", "#374151"}, [2]string{"#6B7280", "#9CA3AF"}, [2]string{"#111827", "#F9FAFB"})

	HighContrastTheme = buildTheme("high-contrast",
		[2]string{"#000000", "#FFFFFF"}, [2]string{"#000080", "#8080FF"},
		[2]string{"#006600", "#00FF00"}, [2]string{"#CC6600", "#FFAA00"}, [2]string{"#CC0000", "#FF4444"},
		[2]string{"#000000", "#FFFFFF"}, [2]string{"#666666", "#BBBBBB"}, [2]string{"#000000", "#FFFFFF"})

	MinimalTheme = buildTheme("minimal",
		[2]string{"#2D3748", "#E2E8F0"}, [2]string{"#4A5568", "#CBD5E0"},
		[2]string{"#2F855A", "#68D391"}, [2]string{"#C05621", "#F6AD55"}, [2]string{"#C53030", "#FC8181"},
		[2]string{"#E2E8F0", "#2D3748"}, [2]string{"#A0AEC0", "#718096"}, [2]string{"#2D3748", "#F7FAFC"})
)

// ThemeByName looks up a theme; ok is false for unknown names
func ThemeByName(name string) (Theme, bool) {
	switch name {
	case "", "default":
		return DefaultTheme, true
	case "high-contrast":
		return HighContrastTheme, true
	case "minimal":
		return MinimalTheme, true
	default:
		return Theme{}, false
	}
}

// AvailableThemes returns the names accepted by ThemeByName
func AvailableThemes() []string {
	return []string{"default", "high-contrast", "minimal"}
}

// IsColorDisabled checks if colors should be disabled
func IsColorDisabled() bool {
	return os.Getenv("NO_COLOR") != ""
}

// Styles contains the styled components of the upload screen
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Label    lipgloss.Style
	Input    lipgloss.Style
	Status   lipgloss.Style
	Busy     lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Notice   lipgloss.Style
	Help     lipgloss.Style
	Panel    lipgloss.Style
	Alert    lipgloss.Style
}

// NewStyles builds the screen styles for a theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Label: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		Input: lipgloss.NewStyle().
			Foreground(theme.Input).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Primary).
			Padding(0, 1),

		Status: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Busy: lipgloss.NewStyle().
			Foreground(theme.Warning).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error).
			Bold(true),

		Notice: lipgloss.NewStyle().
			Foreground(theme.Warning),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		Alert: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(theme.Error).
			Padding(1, 4).
			Align(lipgloss.Center),
	}
}
