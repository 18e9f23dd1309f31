package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/productsummary/internal/summary"
)

// NoRecordsText is shown when there is nothing to display.
const NoRecordsText = "No records found"

const (
	borderPadding = 2
	helpText      = "r reload • q quit"
)

// View implements tea.Model.
func (m *SummaryModel) View() string {
	if m.quitting {
		return ""
	}

	var body string
	state := m.ctrl.State()
	switch state.Kind {
	case summary.StateLoading:
		body = fmt.Sprintf("%s Loading product information...", m.spinner.View())
	case summary.StateError:
		body = ErrorStyle.Render(state.Message)
	case summary.StateEmpty:
		body = SubtleStyle.Render(NoRecordsText)
	case summary.StateReady:
		body = m.table.View()
	}

	var content strings.Builder
	content.WriteString(HeaderStyle.Render("Product summary"))
	if id := m.ctrl.CaseID(); id != "" {
		content.WriteString(LabelStyle.Render("  case " + id))
	}
	content.WriteString("\n\n")
	content.WriteString(body)

	width := m.width - borderPadding
	if width < 0 {
		width = 0
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		BoxStyle.Width(width).Render(content.String()),
		SubtleStyle.Render(helpText),
	)
}
