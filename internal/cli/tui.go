package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/objectgrid/pkg/layout"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// placementModel - Interactive placement browser
// =============================================================================

// placementModel is the bubbletea model behind inspect --interactive.
type placementModel struct {
	layout layout.Layout
	cursor int
	offset int
	height int
}

func newPlacementModel(l layout.Layout) placementModel {
	return placementModel{layout: l, height: 15}
}

func (m placementModel) Init() tea.Cmd {
	return nil
}

func (m placementModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	n := len(m.layout.Placements)
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < n-1 {
				m.cursor++
			}
		case "home", "g":
			m.cursor = 0
		case "end", "G":
			m.cursor = max(n-1, 0)
		}
	case tea.WindowSizeMsg:
		// Leave room for the title, the detail pane and the footer.
		m.height = max(msg.Height-14, 5)
	}

	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	return m, nil
}

func (m placementModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("%s · %s", m.layout.Scene, m.layout.Config.Surface)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if len(m.layout.Placements) == 0 {
		b.WriteString(listDimStyle.Render("  no placements"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(placementTable(m.layout, m.offset, m.offset+m.height, m.cursor))
	b.WriteString("\n\n")

	p := m.layout.Placements[m.cursor]
	b.WriteString(detailLine("Key", p.Key))
	b.WriteString(detailLine("Position", formatVec(p.Position)))
	b.WriteString(detailLine("Forward", formatVec(p.Forward)))
	r := p.Rotation
	b.WriteString(detailLine("Rotation", fmt.Sprintf("w=%.4f x=%.4f y=%.4f z=%.4f", r[0], r[1], r[2], r[3])))
	if p.Radius > 0 {
		b.WriteString(detailLine("Radius", fmt.Sprintf("%.3f", p.Radius)))
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.layout.Placements))))
	return b.String()
}

func detailLine(label, value string) string {
	return lipgloss.NewStyle().Foreground(colorGray).Width(10).Render(label) + " " + StyleValue.Render(value) + "\n"
}
