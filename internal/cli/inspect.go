package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/boxplan/pkg/layout"
)

var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listActiveStyle = lipgloss.NewStyle().Foreground(colorGreen)
)

// inspectCommand creates the inspect command, an interactive browser over a
// layout file's clusters and their units. It runs full-screen and exits on q.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect LAYOUT",
		Short: "Browse a layout's clusters and units interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := layout.ReadFile(args[0])
			if err != nil {
				return err
			}
			if len(r.Clusters) == 0 {
				printWarning(c.Out, "Layout has no clusters")
				return nil
			}
			_, err = tea.NewProgram(NewInspectModel(r), tea.WithAltScreen()).Run()
			return err
		},
	}
}

// =============================================================================
// InspectModel - Cluster and unit browser
// =============================================================================

// InspectModel is the bubbletea model behind "boxplan inspect". It lists
// clusters; enter drills into a cluster's units and esc goes back.
type InspectModel struct {
	Layout layout.Result
	Height int

	// Cursor and Offset track the cluster list.
	Cursor int
	Offset int

	// Open is the cluster being browsed, -1 for the cluster list.
	Open       int
	UnitCursor int
	UnitOffset int

	units map[string][]layout.Unit
}

// NewInspectModel creates a browser over r.
func NewInspectModel(r layout.Result) InspectModel {
	units := make(map[string][]layout.Unit)
	for _, u := range r.Units {
		units[u.ClusterID] = append(units[u.ClusterID], u)
	}
	return InspectModel{Layout: r, Height: 15, Open: -1, units: units}
}

// Init implements tea.Model. The browser needs no startup command.
func (m InspectModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. Arrow keys and hjkl move and drill in or out;
// esc on the cluster list and q anywhere quit. Window resizes adjust Height.
func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc", "backspace", "left", "h":
			if m.Open < 0 {
				if msg.String() == "esc" {
					return m, tea.Quit
				}
				return m, nil
			}
			m.Open = -1
		case "enter", "right", "l":
			if m.Open < 0 && len(m.Layout.Clusters) > 0 {
				m.Open = m.Cursor
				m.UnitCursor, m.UnitOffset = 0, 0
			}
		case "up", "k":
			if m.Open < 0 {
				m.Cursor, m.Offset = moveUp(m.Cursor, m.Offset)
			} else {
				m.UnitCursor, m.UnitOffset = moveUp(m.UnitCursor, m.UnitOffset)
			}
		case "down", "j":
			if m.Open < 0 {
				m.Cursor, m.Offset = moveDown(m.Cursor, m.Offset, len(m.Layout.Clusters), m.Height)
			} else {
				n := len(m.openUnits())
				m.UnitCursor, m.UnitOffset = moveDown(m.UnitCursor, m.UnitOffset, n, m.Height)
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-10, 5)
	}
	return m, nil
}

// moveUp moves the cursor one line up and scrolls the window to keep it
// visible.
func moveUp(cursor, offset int) (int, int) {
	if cursor > 0 {
		cursor--
		offset = min(offset, cursor)
	}
	return cursor, offset
}

// moveDown moves the cursor one line down within n items, scrolling a
// window of height lines when the cursor leaves it.
func moveDown(cursor, offset, n, height int) (int, int) {
	if cursor < n-1 {
		cursor++
		if cursor >= offset+height {
			offset = cursor - height + 1
		}
	}
	return cursor, offset
}

// openUnits returns the units of the opened cluster, or nil on the list.
func (m InspectModel) openUnits() []layout.Unit {
	if m.Open < 0 || m.Open >= len(m.Layout.Clusters) {
		return nil
	}
	return m.units[m.Layout.Clusters[m.Open].ID]
}

// View implements tea.Model.
func (m InspectModel) View() string {
	var b strings.Builder
	if m.Open < 0 {
		m.viewClusters(&b)
	} else {
		m.viewUnits(&b)
	}
	return b.String()
}

func (m InspectModel) viewClusters(b *strings.Builder) {
	s := m.Layout.Stats
	b.WriteString(StyleTitle.Render("Layout " + shortID(m.Layout.ID)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%d units · %d corridors · %.1f%% coverage · %s",
		s.PlacedCount, s.CorridorCount, s.Coverage*100, typeSummary(s.TypeCounts))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  q quit"))
	b.WriteString("\n\n")

	clusters := m.Layout.Clusters
	end := min(m.Offset+m.Height, len(clusters))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		c := clusters[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor, c.ID, fmt.Sprintf("%d", c.Zone), c.RowAxis,
			fmt.Sprintf("%.2f × %.2f", c.Width, c.Height), fmt.Sprintf("%d", c.Units),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Cluster", "Zone", "Rows", "Size (m)", "Units").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			idx := m.Offset + row
			if idx >= len(clusters) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if !clusters[idx].Active() {
				base = base.Foreground(colorDim)
			} else {
				base = listActiveStyle
			}
			if idx == m.Cursor {
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(clusters))))
}

func (m InspectModel) viewUnits(b *strings.Builder) {
	c := m.Layout.Clusters[m.Open]
	units := m.openUnits()

	b.WriteString(StyleTitle.Render(c.ID))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("zone %d · rows along %s · %d units", c.Zone, c.RowAxis, len(units))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  esc back  q quit"))
	b.WriteString("\n\n")

	end := min(m.UnitOffset+m.Height, len(units))
	rows := [][]string{}
	for i := m.UnitOffset; i < end; i++ {
		u := units[i]
		cursor := "  "
		if i == m.UnitCursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor, u.ID, u.Type, u.Row, u.PartitionType,
			fmt.Sprintf("%.2f, %.2f", u.X, u.Y), fmt.Sprintf("%.2f × %.2f", u.Width, u.Height),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Unit", "Type", "Row", "Partition", "Origin", "Size (m)").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if m.UnitOffset+row == m.UnitCursor {
				return listActiveStyle.Bold(true)
			}
			return StyleValue
		})
	b.WriteString(t.Render())
	b.WriteString("\n")

	var served []string
	for _, cor := range m.Layout.Corridors {
		for _, id := range cor.ClusterIDs {
			if id == c.ID {
				served = append(served, fmt.Sprintf("%s (%s)", cor.ID, cor.Type))
				break
			}
		}
	}
	if len(served) > 0 {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("corridors: " + strings.Join(served, ", ")))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
