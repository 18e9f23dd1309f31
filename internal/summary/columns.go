package summary

import (
	"github.com/rshade/productsummary/internal/fee"
)

// Column types understood by renderers.
const (
	ColumnText     = "text"
	ColumnCurrency = "currency"
)

// Field names of ViewRow as exposed to renderers.
const (
	FieldProductName         = "productName"
	FieldMonthlyCost         = "monthlyCost"
	FieldATMFeeLabel         = "atmFeeLabel"
	FieldCardReplacementCost = "cardReplacementCost"
)

const currencyFractionDigits = 2

// TypeAttributes carries currency formatting hints for currency columns.
type TypeAttributes struct {
	CurrencyCode          string `json:"currencyCode"`
	MinimumFractionDigits int    `json:"minimumFractionDigits"`
}

// Column describes one table column.
type Column struct {
	Label          string          `json:"label"`
	FieldName      string          `json:"fieldName"`
	Type           string          `json:"type"`
	TypeAttributes *TypeAttributes `json:"typeAttributes,omitempty"`
}

// Columns returns the four fixed columns of the product summary table.
// Each call returns a fresh slice.
func Columns() []Column {
	eur := func() *TypeAttributes {
		return &TypeAttributes{CurrencyCode: fee.CurrencyCode, MinimumFractionDigits: currencyFractionDigits}
	}
	return []Column{
		{Label: "Product", FieldName: FieldProductName, Type: ColumnText},
		{Label: "Monthly cost", FieldName: FieldMonthlyCost, Type: ColumnCurrency, TypeAttributes: eur()},
		{Label: "ATM fee", FieldName: FieldATMFeeLabel, Type: ColumnText},
		{Label: "Card replacement", FieldName: FieldCardReplacementCost, Type: ColumnCurrency, TypeAttributes: eur()},
	}
}

// Cell renders the value of field for display. Unknown fields render empty.
func (r ViewRow) Cell(field string) string {
	switch field {
	case FieldProductName:
		return r.ProductName
	case FieldMonthlyCost:
		return fee.FormatEUR(r.MonthlyCost)
	case FieldATMFeeLabel:
		return r.ATMFeeLabel
	case FieldCardReplacementCost:
		return fee.FormatEUR(r.CardReplacementCost)
	default:
		return ""
	}
}
