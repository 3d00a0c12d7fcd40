package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
	ColorBlue      = lipgloss.Color("#4385BE")
	ColorPurple    = lipgloss.Color("#8B7EC8")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	highlightStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorOrange)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Table is a bordered text table. Rows listed in Highlight are drawn in the
// highlight style.
type Table struct {
	Title     string
	Headers   []string
	Rows      [][]string
	Highlight map[int]bool
}

// RenderTitle renders a centered title in a rounded box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(60).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders t with the first column left-aligned and every other
// column right-aligned.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	numCols := len(t.Headers)
	if numCols == 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < numCols && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	var b strings.Builder

	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	writeRule(&b, widths, "╭", "┬", "╮")

	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			b.WriteString(headerStyle.Render(pad(h, widths[i], i == 0)))
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
		writeRule(&b, widths, "├", "┼", "┤")
	}

	for r, row := range t.Rows {
		style := valueStyle
		if t.Highlight[r] {
			style = highlightStyle
		}
		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(style.Render(pad(cell, widths[i], i == 0)))
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
	}

	writeRule(&b, widths, "╰", "┴", "╯")
	return b.String()
}

func writeRule(b *strings.Builder, widths []int, left, mid, right string) {
	b.WriteString(dimStyle.Render(left))
	for i, w := range widths {
		b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
		if i < len(widths)-1 {
			b.WriteString(dimStyle.Render(mid))
		}
	}
	b.WriteString(dimStyle.Render(right))
	b.WriteString("\n")
}

func pad(cell string, width int, left bool) string {
	gap := width - lipgloss.Width(cell)
	if gap < 0 {
		gap = 0
	}
	if left {
		return " " + cell + strings.Repeat(" ", gap) + " "
	}
	return " " + strings.Repeat(" ", gap) + cell + " "
}

// BarEntry is one labelled value of a bar chart.
type BarEntry struct {
	Label string
	Value float64
	Text  string // printed after the bar, usually the formatted value
}

// RenderBarChart renders one horizontal bar per entry, scaled against the largest
// absolute value.
func RenderBarChart(title string, entries []BarEntry, color lipgloss.Color, maxWidth int) string {
	if len(entries) == 0 {
		return ""
	}

	maxValue := 0.0
	labelWidth := 0
	for _, e := range entries {
		maxValue = max(maxValue, abs(e.Value))
		labelWidth = max(labelWidth, lipgloss.Width(e.Label))
	}

	barStyle := lipgloss.NewStyle().Foreground(color)

	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "  %s %s %s\n",
			valueStyle.Render(pad(e.Label, labelWidth, true)),
			barStyle.Render(RenderHorizontalBar(abs(e.Value), maxValue, maxWidth)),
			mutedStyle.Render(e.Text))
	}
	return b.String()
}

// GroupedEntry is a category with two values drawn as a pair of bars.
type GroupedEntry struct {
	Label      string
	First      float64
	Second     float64
	FirstText  string
	SecondText string
}

// RenderGroupedBarChart draws two bars per entry, both scaled against the largest
// value of either series.
func RenderGroupedBarChart(title, firstName, secondName string, entries []GroupedEntry, maxWidth int) string {
	if len(entries) == 0 {
		return ""
	}

	maxValue := 0.0
	labelWidth := max(lipgloss.Width(firstName), lipgloss.Width(secondName))
	for _, e := range entries {
		maxValue = max(maxValue, abs(e.First), abs(e.Second))
		labelWidth = max(labelWidth, lipgloss.Width(e.Label))
	}

	firstStyle := lipgloss.NewStyle().Foreground(ColorBlue)
	secondStyle := lipgloss.NewStyle().Foreground(ColorPurple)

	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s %s   %s %s\n",
		firstStyle.Render("█"), mutedStyle.Render(firstName),
		secondStyle.Render("█"), mutedStyle.Render(secondName))
	for _, e := range entries {
		fmt.Fprintf(&b, "  %s %s %s\n",
			valueStyle.Render(pad(e.Label, labelWidth, true)),
			firstStyle.Render(RenderHorizontalBar(abs(e.First), maxValue, maxWidth)),
			mutedStyle.Render(e.FirstText))
		fmt.Fprintf(&b, "  %s %s %s\n",
			pad("", labelWidth, true),
			secondStyle.Render(RenderHorizontalBar(abs(e.Second), maxValue, maxWidth)),
			mutedStyle.Render(e.SecondText))
	}
	return b.String()
}

// RenderHorizontalBar returns a bar of up to maxWidth blocks proportional to
// value/maxValue. Non-zero values get at least one block.
func RenderHorizontalBar(value, maxValue float64, maxWidth int) string {
	if maxValue <= 0 || value <= 0 {
		return ""
	}
	barLen := int(value / maxValue * float64(maxWidth))
	if barLen < 1 {
		barLen = 1
	}
	if barLen > maxWidth {
		barLen = maxWidth
	}
	return strings.Repeat("█", barLen)
}

// RenderShareBar renders a single stacked bar splitting width between the shares
// (percentages summing to at most 100), followed by a legend.
func RenderShareBar(title string, labels []string, shares []float64, width int) string {
	if len(labels) == 0 {
		return ""
	}

	palette := []lipgloss.Color{ColorBlue, ColorPurple, ColorGreen, ColorOrange, ColorAccent, ColorRed}

	var bar, legend strings.Builder
	used := 0
	for i, share := range shares {
		style := lipgloss.NewStyle().Foreground(palette[i%len(palette)])
		n := int(share / 100 * float64(width))
		if i == len(shares)-1 {
			n = max(0, width-used)
		}
		n = min(n, width-used)
		used += n
		bar.WriteString(style.Render(strings.Repeat("█", n)))
		fmt.Fprintf(&legend, "  %s %s %s\n", style.Render("█"), valueStyle.Render(labels[i]), mutedStyle.Render(fmt.Sprintf("%.1f%%", share)))
	}

	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n  ")
	b.WriteString(bar.String())
	b.WriteString("\n")
	b.WriteString(legend.String())
	return b.String()
}

// RenderNotice renders a muted one-line message.
func RenderNotice(msg string) string {
	return "  " + mutedStyle.Render(msg) + "\n"
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
