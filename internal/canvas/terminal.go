package canvas

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/dashdrop/internal/dashboard"
)

// Terminal is a text surface. Draw replaces its buffer and String reads it.
type Terminal struct {
	mu      sync.Mutex
	width   int
	height  int
	content string
	live    int
	gen     uint64
}

// NewTerminal creates a terminal surface of the given size in cells
func NewTerminal(width, height int) *Terminal {
	return &Terminal{width: width, height: height}
}

// Draw renders spec into the buffer
func (t *Terminal) Draw(spec dashboard.Spec) (dashboard.Instance, error) {
	if err := checkSpec(spec); err != nil {
		return nil, err
	}

	var body string
	if spec.Kind == dashboard.KindBar {
		body = t.renderBars(spec)
	} else {
		body = t.renderLine(spec)
	}

	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(spec.Color)).Bold(true)
	content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(spec.Title), "", body)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	t.live++
	t.content = content
	return &terminalChart{surface: t, gen: t.gen}, nil
}

// String returns the current drawing, empty when nothing is live
func (t *Terminal) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.content
}

// Live reports how many charts drawn on this surface are not yet destroyed
func (t *Terminal) Live() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.live
}

type terminalChart struct {
	surface *Terminal
	gen     uint64
	once    sync.Once
}

func (c *terminalChart) Destroy() error {
	c.once.Do(func() {
		t := c.surface
		t.mu.Lock()
		defer t.mu.Unlock()
		t.live--
		if t.gen == c.gen {
			t.content = ""
		}
	})
	return nil
}

// renderBars draws one horizontal bar per label
func (t *Terminal) renderBars(spec dashboard.Spec) string {
	labelWidth := 0
	valueWidth := 0
	for i, l := range spec.Labels {
		labelWidth = max(labelWidth, lipgloss.Width(l))
		valueWidth = max(valueWidth, len(formatValue(spec.Values[i])))
	}
	barWidth := max(1, t.width-labelWidth-valueWidth-4)

	_, hi := valueRange(spec.Values)
	barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(spec.Color))
	axisStyle := lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"})

	lines := make([]string, 0, len(spec.Labels))
	for i, label := range spec.Labels {
		n := 0
		if hi > 0 && spec.Values[i] > 0 {
			n = int(math.Round(spec.Values[i] / hi * float64(barWidth)))
		}
		line := fmt.Sprintf("%-*s %s%s %s",
			labelWidth, label,
			axisStyle.Render("│"),
			barStyle.Render(strings.Repeat("█", n)),
			formatValue(spec.Values[i]))
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// renderLine draws a dot plot with one column group per label
func (t *Terminal) renderLine(spec dashboard.Spec) string {
	lo, hi := valueRange(spec.Values)
	loLabel, hiLabel := formatValue(lo), formatValue(hi)
	axisWidth := max(len(loLabel), len(hiLabel))

	rows := max(2, t.height)
	n := len(spec.Values)
	colWidth := max(1, (t.width-axisWidth-2)/n)

	grid := make([][]bool, rows)
	for r := range grid {
		grid[r] = make([]bool, n)
	}
	for i, v := range spec.Values {
		row := rows / 2
		if hi > lo {
			row = int(math.Round((v - lo) / (hi - lo) * float64(rows-1)))
		}
		grid[rows-1-row][i] = true
	}

	dotStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(spec.Color))
	axisStyle := lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"})

	lines := make([]string, 0, rows+1)
	for r := 0; r < rows; r++ {
		yLabel := ""
		switch r {
		case 0:
			yLabel = hiLabel
		case rows - 1:
			yLabel = loLabel
		}
		var b strings.Builder
		b.WriteString(fmt.Sprintf("%*s ", axisWidth, yLabel))
		b.WriteString(axisStyle.Render("│"))
		for c := 0; c < n; c++ {
			cell := strings.Repeat(" ", colWidth)
			if grid[r][c] {
				cell = dotStyle.Render("●") + strings.Repeat(" ", colWidth-1)
			}
			b.WriteString(cell)
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}

	var x strings.Builder
	x.WriteString(strings.Repeat(" ", axisWidth+2))
	for _, label := range spec.Labels {
		x.WriteString(fitLabel(label, colWidth))
	}
	lines = append(lines, strings.TrimRight(x.String(), " "))

	return strings.Join(lines, "\n")
}

// fitLabel pads or truncates label to exactly width cells
func fitLabel(label string, width int) string {
	r := []rune(label)
	if len(r) >= width {
		if width <= 1 {
			return string(r[:width])
		}
		return string(r[:width-1]) + " "
	}
	return label + strings.Repeat(" ", width-len(r))
}
