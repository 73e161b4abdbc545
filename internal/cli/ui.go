package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/boxplan/pkg/layout"
	"github.com/matzehuels/boxplan/pkg/observability"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand  = lipgloss.NewStyle().Foreground(colorBlue)
	styleHeader   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a line prefixed with a green check mark.
func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

// printWarning prints a yellow line prefixed with a warning sign.
func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printInfo prints a line prefixed with an info marker.
func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printNextStep prints a suggested next command.
func printNextStep(w io.Writer, description, cmd string) {
	fmt.Fprintln(w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Layout Summaries
// =============================================================================

// printStats prints layout statistics on a single line, e.g.
// "42 units · 7 corridors · 3 zones · 61.2% coverage · cached".
func printStats(w io.Writer, s layout.Stats, cached bool) {
	parts := []string{fmt.Sprintf("%d units", s.PlacedCount)}
	if s.TargetCount > 0 {
		parts[0] = fmt.Sprintf("%d/%d units", s.PlacedCount, s.TargetCount)
	}
	parts = append(parts,
		fmt.Sprintf("%d corridors", s.CorridorCount),
		fmt.Sprintf("%d zones", s.ZoneCount),
		fmt.Sprintf("%.1f%% coverage", s.Coverage*100),
	)

	status, statusStyle := iconFresh, styleComputed
	if cached {
		status, statusStyle = iconCached, styleCached
	}

	var line strings.Builder
	line.WriteString("  ")
	for i, part := range parts {
		if i > 0 {
			line.WriteString(StyleDim.Render(" · "))
		}
		line.WriteString(StyleDim.Render(part))
	}
	line.WriteString(StyleDim.Render(" · ") + statusStyle.Render(status))
	fmt.Fprintln(w, line.String())
}

// typeSummary renders per-type counts in ascending type order, e.g.
// "L×2 M×5 S×11".
func typeSummary(counts map[string]int) string {
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = fmt.Sprintf("%s×%d", t, counts[t])
	}
	return strings.Join(parts, " ")
}

// zoneTable renders zones with their area and, when clusters are given,
// active/planned cluster counts.
func zoneTable(zones []layout.Zone, clusters []layout.Cluster) string {
	perZone := make(map[int][2]int)
	for _, c := range clusters {
		n := perZone[c.Zone]
		n[0]++
		if c.Active() {
			n[1]++
		}
		perZone[c.Zone] = n
	}

	headers := []string{"Zone", "Origin", "Size (m)", "Area (m²)"}
	if clusters != nil {
		headers = append(headers, "Clusters")
	}
	rows := make([][]string, len(zones))
	for i, z := range zones {
		rows[i] = []string{
			fmt.Sprintf("%d", z.ID),
			fmt.Sprintf("%.2f, %.2f", z.X, z.Y),
			fmt.Sprintf("%.2f × %.2f", z.Width, z.Height),
			fmt.Sprintf("%.2f", z.Width*z.Height),
		}
		if clusters != nil {
			n := perZone[z.ID]
			rows[i] = append(rows[i], fmt.Sprintf("%d/%d", n[1], n[0]))
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case col == 0:
				return StyleNumber
			default:
				return StyleValue
			}
		})
	return t.Render()
}

// stageTable renders accumulated wall time per pipeline stage. Cached runs
// record no stages.
func stageTable(stages map[string]time.Duration) string {
	var rows [][]string
	var total time.Duration
	for _, name := range observability.Stages {
		d, ok := stages[name]
		if !ok {
			continue
		}
		total += d
		rows = append(rows, []string{name, d.Round(time.Microsecond).String()})
	}
	if len(rows) == 0 {
		return StyleDim.Render("  no stages ran (all results cached)")
	}
	rows = append(rows, []string{"total", total.Round(time.Microsecond).String()})

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Stage", "Time").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case row == len(rows)-1:
				return StyleNumber.Bold(true)
			default:
				return StyleValue
			}
		}).
		Render()
}
