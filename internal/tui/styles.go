package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette.
//
//nolint:gochecknoglobals // Styles are shared, read-only values.
var (
	ColorHeader  = lipgloss.AdaptiveColor{Light: "#1F4E79", Dark: "#7FB2E5"}
	ColorLabel   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#A0A0A0"}
	ColorValue   = lipgloss.AdaptiveColor{Light: "#111111", Dark: "#EEEEEE"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#888888", Dark: "#6C6C6C"}
	ColorError   = lipgloss.AdaptiveColor{Light: "#B00020", Dark: "#FF6B6B"}
	ColorSpinner = lipgloss.AdaptiveColor{Light: "#0B6E4F", Dark: "#5FD7AF"}
	ColorBorder  = lipgloss.AdaptiveColor{Light: "#BBBBBB", Dark: "#444444"}
)

//nolint:gochecknoglobals // Styles are shared, read-only values.
var (
	HeaderStyle = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	LabelStyle  = lipgloss.NewStyle().Foreground(ColorLabel)
	SubtleStyle = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
	ErrorStyle  = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	SpinStyle   = lipgloss.NewStyle().Foreground(ColorSpinner)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorHeader).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(ColorBorder).
				BorderBottom(true)
	TableCellStyle = lipgloss.NewStyle().Foreground(ColorValue).Padding(0, 1)
)
