package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/hyperpart/pkg/metrics"
)

// Terminal palette (ANSI 256).
var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorFail   = lipgloss.Color("167")
	colorCmd    = lipgloss.Color("75")
	colorValue  = lipgloss.Color("255")
	colorLabel  = lipgloss.Color("245")
	colorMuted  = lipgloss.Color("240")
)

// Exported styles are shared with command help and tests.
var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleDim     = lipgloss.NewStyle().Foreground(colorMuted)
	StyleValue   = lipgloss.NewStyle().Foreground(colorValue)
	StyleNumber  = lipgloss.NewStyle().Foreground(colorAccent)
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)
)

var (
	styleOK       = lipgloss.NewStyle().Foreground(colorOK)
	styleFail     = lipgloss.NewStyle().Foreground(colorFail)
	styleLabel    = lipgloss.NewStyle().Foreground(colorLabel)
	styleKey      = lipgloss.NewStyle().Foreground(colorLabel).Width(12)
	styleCmd      = lipgloss.NewStyle().Foreground(colorCmd)
	styleIconSpin = lipgloss.NewStyle().Foreground(colorAccent)
)

// status line prefixes
const (
	markOK   = "✓"
	markFail = "✗"
	markWarn = "!"
	markInfo = "›"
	markFile = "→"
	sep      = " · "
)

func printMarked(mark string, style lipgloss.Style, msg string) {
	fmt.Fprintln(stdout, style.Render(mark)+" "+msg)
}

func printSuccess(format string, args ...any) {
	printMarked(markOK, styleOK, fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	printMarked(markFail, styleFail, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	printMarked(markWarn, StyleWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	printMarked(markInfo, styleLabel, fmt.Sprintf(format, args...))
}

// printDetail prints an indented, muted line under the previous status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(markFile)+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+StyleValue.Render(value))
}

func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCmd.Render(cmd))
}

func printNewline() { fmt.Fprintln(stdout) }

// printStats prints the hypergraph size followed by whether the result came
// from the cache, e.g. "7 vertices · 4 hyperedges · 12 pins · cached".
func printStats(vertices, hyperedges, pins int, cached bool) {
	fields := []string{
		StyleDim.Render(fmt.Sprintf("%d vertices", vertices)),
		StyleDim.Render(fmt.Sprintf("%d hyperedges", hyperedges)),
		StyleDim.Render(fmt.Sprintf("%d pins", pins)),
	}
	if cached {
		fields = append(fields, styleOK.Render("cached"))
	} else {
		fields = append(fields, styleLabel.Render("fresh"))
	}
	fmt.Fprintln(stdout, "  "+strings.Join(fields, StyleDim.Render(sep)))
}

// printQuality prints the objectives and balance of a partition.
func printQuality(q *metrics.Quality, epsilon float64) {
	num := func(v int64) string { return StyleNumber.Render(strconv.FormatInt(v, 10)) }
	printKeyValue("km1", num(q.KM1))
	printKeyValue("cut", num(q.Cut))
	printKeyValue("soed", num(q.SOED))
	printKeyValue("cut edges", strconv.Itoa(q.NumCutEdges()))

	balance := styleOK.Render("balanced")
	if !q.Balanced(epsilon) {
		balance = StyleWarning.Render(fmt.Sprintf("exceeds limit %d", q.Limit(epsilon)))
	}
	printKeyValue("imbalance", fmt.Sprintf("%.4f (%s)", q.Imbalance, balance))
}

// printBlockTable prints one row per block with its weight and its share
// of the perfectly balanced weight.
func printBlockTable(q *metrics.Quality) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("block", "weight", "of perfect").
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return style.Bold(true).Foreground(colorLabel)
			case col > 0:
				return style.Align(lipgloss.Right)
			}
			return style
		})

	for b, w := range q.BlockWeights {
		share := "-"
		if q.PerfectWeight > 0 {
			share = fmt.Sprintf("%.1f%%", 100*float64(w)/float64(q.PerfectWeight))
		}
		t.Row(strconv.Itoa(b), strconv.FormatInt(w, 10), share)
	}
	fmt.Fprintln(stdout, t.Render())
}
