package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/productsummary/internal/backend/fixture"
	"github.com/rshade/productsummary/internal/summary"
)

func newStore() *fixture.Store {
	store := fixture.New()
	withProduct := summary.ContactID("003A")
	noProduct := summary.ContactID("003C")
	zero := 0.0
	store.PutCase(summary.CaseRecord{ID: "500A", ContactID: &withProduct})
	store.PutCase(summary.CaseRecord{ID: "500B"})
	store.PutCase(summary.CaseRecord{ID: "500C", ContactID: &noProduct})
	store.PutProduct(withProduct, summary.ProductSummary{
		ProductName:         "Metal",
		MonthlyCost:         16.9,
		ATMFee:              &zero,
		CardReplacementCost: 10,
		CountryCode:         "DE",
	})
	store.FailCase("500X")
	return store
}

func newModel(caseID string) *SummaryModel {
	store := newStore()
	ctrl := summary.NewController(store, summary.NewLoader(store))
	return NewSummaryModel(context.Background(), ctrl, caseID)
}

// drain runs cmd and every command it produces, feeding the resulting
// messages back into m. Spinner ticks are dropped so the loop terminates.
func drain(t *testing.T, m *SummaryModel, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case spinner.TickMsg:
		default:
			_, follow := m.Update(msg)
			queue = append(queue, follow)
		}
	}
}

func TestSummaryModel_InitialView(t *testing.T) {
	m := newModel("500A")
	assert.True(t, m.Controller().IsLoading())
	assert.Contains(t, m.View(), "Loading product information")
}

func TestSummaryModel_States(t *testing.T) {
	tests := []struct {
		name     string
		caseID   string
		kind     summary.StateKind
		contains []string
		absent   []string
	}{
		{
			name:     "ready shows one row",
			caseID:   "500A",
			kind:     summary.StateReady,
			contains: []string{"Product", "ATM fee", "Metal", "Free", "16,90"},
			absent:   []string{NoRecordsText, "Loading"},
		},
		{
			name:     "case without contact",
			caseID:   "500B",
			kind:     summary.StateEmpty,
			contains: []string{NoRecordsText},
			absent:   []string{"Metal"},
		},
		{
			name:     "contact without product",
			caseID:   "500C",
			kind:     summary.StateEmpty,
			contains: []string{NoRecordsText},
		},
		{
			name:     "case load error",
			caseID:   "500X",
			kind:     summary.StateError,
			contains: []string{summary.MsgCaseLoadError},
			absent:   []string{NoRecordsText},
		},
		{
			name:     "empty case id",
			caseID:   "",
			kind:     summary.StateEmpty,
			contains: []string{NoRecordsText},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(tt.caseID)
			drain(t, m, m.Init())

			assert.Equal(t, tt.kind, m.Controller().State().Kind)
			view := m.View()
			for _, s := range tt.contains {
				assert.Contains(t, view, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, view, s)
			}
		})
	}
}

func TestSummaryModel_ProductError(t *testing.T) {
	store := newStore()
	products := summary.ProductServiceFunc(func(context.Context, summary.ContactID) (*summary.ProductSummary, error) {
		return nil, errors.New("backend down")
	})
	ctrl := summary.NewController(store, summary.NewLoader(products))
	m := NewSummaryModel(context.Background(), ctrl, "500A")

	drain(t, m, m.Init())

	assert.Contains(t, m.View(), summary.MsgProductLoadError)
	assert.Empty(t, tableRows(ctrl.Rows()))
}

func TestSummaryModel_Keys(t *testing.T) {
	t.Run("q quits", func(t *testing.T) {
		m := newModel("500A")
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
		assert.Empty(t, m.View())
	})

	t.Run("ctrl+c quits", func(t *testing.T) {
		m := newModel("500A")
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	})

	t.Run("r reloads", func(t *testing.T) {
		m := newModel("500A")
		drain(t, m, m.Init())
		require.Equal(t, summary.StateReady, m.Controller().State().Kind)

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
		assert.True(t, m.Controller().IsLoading())
		assert.Contains(t, m.View(), "Loading")

		drain(t, m, cmd)
		assert.Equal(t, summary.StateReady, m.Controller().State().Kind)
	})

	t.Run("other keys ignored", func(t *testing.T) {
		m := newModel("500A")
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
		assert.Nil(t, cmd)
	})
}

func TestSummaryModel_WindowSize(t *testing.T) {
	m := newModel("500A")
	_, cmd := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Nil(t, cmd)
	assert.Equal(t, 120, m.width)
}

func TestTableRows(t *testing.T) {
	fee := 250.0
	rows := tableRows([]summary.ViewRow{summary.NewViewRow(summary.ProductSummary{
		ProductName:         "Gold",
		MonthlyCost:         1234.5,
		ATMFee:              &fee,
		CardReplacementCost: 0,
	})})

	require.Len(t, rows, 1)
	assert.Equal(t, "Gold", rows[0][0])
	assert.Equal(t, "1.234,50\u00a0€", rows[0][1])
	assert.Equal(t, "250,00\u00a0€", rows[0][2])
	assert.Equal(t, "0,00\u00a0€", rows[0][3])

	assert.Nil(t, tableRows(nil))
}
