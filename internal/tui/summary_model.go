// Package tui renders the product summary of a case as a Bubble Tea program.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/productsummary/internal/summary"
)

const (
	defaultWidth = 80
	// Header with its bottom border plus one row.
	tableHeight = 4
)

// SummaryModel is the Bubble Tea model around a summary.Controller. It shows
// exactly one of: a spinner, the one-row table, "No records found", or the
// error text.
type SummaryModel struct {
	ctx    context.Context
	ctrl   *summary.Controller
	caseID string

	spinner spinner.Model
	table   table.Model

	width    int
	quitting bool
}

// NewSummaryModel returns a model that loads caseID when started.
func NewSummaryModel(ctx context.Context, ctrl *summary.Controller, caseID string) *SummaryModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinStyle

	m := &SummaryModel{
		ctx:     ctx,
		ctrl:    ctrl,
		caseID:  caseID,
		spinner: s,
		width:   defaultWidth,
	}
	m.table = newSummaryTable(nil)
	return m
}

// Init starts the spinner and the case fetch.
func (m *SummaryModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.ctrl.SetCaseID(m.ctx, m.caseID))
}

// Update implements tea.Model.
func (m *SummaryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case summary.CaseLoadedMsg, summary.ProductLoadedMsg:
		cmd := m.ctrl.Update(msg)
		m.table.SetRows(tableRows(m.ctrl.Rows()))
		return m, cmd
	}
	return m, nil
}

func (m *SummaryModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "q":
			m.quitting = true
			return m, tea.Quit
		case "r":
			cmd := m.ctrl.Reload()
			m.table.SetRows(nil)
			return m, tea.Batch(m.spinner.Tick, cmd)
		}
	}
	return m, nil
}

// Controller exposes the wrapped controller.
func (m *SummaryModel) Controller() *summary.Controller {
	return m.ctrl
}

func newSummaryTable(rows []summary.ViewRow) table.Model {
	cols := summary.Columns()
	columns := make([]table.Column, len(cols))
	for i, c := range cols {
		columns[i] = table.Column{Title: c.Label, Width: columnWidth(c)}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(tableRows(rows)),
		table.WithHeight(tableHeight),
	)
	s := table.DefaultStyles()
	s.Header = TableHeaderStyle
	s.Cell = TableCellStyle
	s.Selected = TableCellStyle
	t.SetStyles(s)
	return t
}

func tableRows(rows []summary.ViewRow) []table.Row {
	if len(rows) == 0 {
		return nil
	}
	cols := summary.Columns()
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		cells := make(table.Row, len(cols))
		for j, c := range cols {
			cells[j] = r.Cell(c.FieldName)
		}
		out[i] = cells
	}
	return out
}

func columnWidth(c summary.Column) int {
	if c.Type == summary.ColumnCurrency {
		return 16 //nolint:mnd // Column width.
	}
	return 14 //nolint:mnd // Column width.
}
