package summary

import (
	"github.com/rshade/productsummary/internal/fee"
)

// ContactID identifies the contact attached to a case.
type ContactID string

// CaseRecord is the slice of a case record this package reads.
type CaseRecord struct {
	ID        string     `json:"id"                  yaml:"id"`
	ContactID *ContactID `json:"contactId,omitempty" yaml:"contact_id,omitempty"`
}

// ProductSummary is the product-summary service payload for one contact.
// ATMFee is nil when the backend has no fee on file.
type ProductSummary struct {
	ProductName         string   `json:"productName"         yaml:"product_name"`
	MonthlyCost         float64  `json:"monthlyCost"         yaml:"monthly_cost"`
	ATMFee              *float64 `json:"atmFee"              yaml:"atm_fee"`
	CardReplacementCost float64  `json:"cardReplacementCost" yaml:"card_replacement_cost"`
	CountryCode         string   `json:"countryCode"         yaml:"country_code"`
	IsDefault           bool     `json:"isDefault"           yaml:"is_default"`
}

// ViewRow is a ProductSummary ready for display.
type ViewRow struct {
	ProductName         string   `json:"productName"`
	MonthlyCost         float64  `json:"monthlyCost"`
	ATMFee              *float64 `json:"atmFee"`
	ATMFeeLabel         string   `json:"atmFeeLabel"`
	CardReplacementCost float64  `json:"cardReplacementCost"`
	CountryCode         string   `json:"countryCode"`
	IsDefault           bool     `json:"isDefault"`
}

// NewViewRow projects a summary into a row and derives the ATM fee label.
func NewViewRow(s ProductSummary) ViewRow {
	var atmFee *float64
	if s.ATMFee != nil {
		v := *s.ATMFee
		atmFee = &v
	}
	return ViewRow{
		ProductName:         s.ProductName,
		MonthlyCost:         s.MonthlyCost,
		ATMFee:              atmFee,
		ATMFeeLabel:         fee.FormatATMFee(s.ATMFee),
		CardReplacementCost: s.CardReplacementCost,
		CountryCode:         s.CountryCode,
		IsDefault:           s.IsDefault,
	}
}

// StateKind enumerates the load states.
type StateKind int

const (
	// StateLoading means a case or product fetch is outstanding.
	StateLoading StateKind = iota
	// StateReady means a row is available.
	StateReady
	// StateEmpty means there is nothing to show and nothing went wrong.
	StateEmpty
	// StateError means a fetch failed; Message holds the user-facing text.
	StateError
)

// String returns the lower-case state name.
func (k StateKind) String() string {
	switch k {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateEmpty:
		return "empty"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// LoadState is the single display slot. Only Ready carries a row and only
// Error carries a message.
type LoadState struct {
	Kind    StateKind
	Row     *ViewRow
	Message string
}

// Loading returns the loading state.
func Loading() LoadState { return LoadState{Kind: StateLoading} }

// Empty returns the empty state.
func Empty() LoadState { return LoadState{Kind: StateEmpty} }

// Ready returns a state holding row.
func Ready(row ViewRow) LoadState { return LoadState{Kind: StateReady, Row: &row} }

// Failed returns an error state with the given user-facing message.
func Failed(message string) LoadState { return LoadState{Kind: StateError, Message: message} }

// Rows returns the displayed rows: one for Ready, none otherwise.
func (s LoadState) Rows() []ViewRow {
	if s.Kind != StateReady || s.Row == nil {
		return nil
	}
	return []ViewRow{*s.Row}
}

// HasNoRows reports whether there is nothing to put in the table.
func (s LoadState) HasNoRows() bool {
	return s.Kind == StateEmpty || (s.Kind == StateReady && len(s.Rows()) == 0)
}
