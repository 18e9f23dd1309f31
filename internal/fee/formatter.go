// Package fee renders fee values for display.
//
// The backend reports ATM fees as a bare number without saying whether it is
// a percentage or an amount. Values up to PercentThreshold (inclusive) are
// shown as percentages, anything larger as a EUR amount in German formatting.
package fee

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Display labels.
const (
	LabelMissing = "-"
	LabelFree    = "Free"
)

// PercentThreshold is the largest absolute value rendered as a percentage.
const PercentThreshold = 100.0

// CurrencyCode is the only currency this package formats.
const CurrencyCode = "EUR"

const (
	currencySymbol  = "€"
	noBreakSpace    = "\u00a0"
	currencyDigits  = 2
	percentDigits   = 2
	floatBitSize    = 64
	percentSuffix   = "%"
	fractionPadding = "0"
	scale           = 100
)

// printer formats numbers with de-DE grouping and decimal separators.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.German)

// FormatATMFee returns the display label for a raw ATM fee.
// nil and non-finite values yield "-", zero yields "Free".
func FormatATMFee(raw *float64) string {
	if raw == nil {
		return LabelMissing
	}
	return formatFinite(*raw)
}

// FormatATMFeeValue is FormatATMFee for untyped values as they arrive from
// JSON or structpb payloads. Anything that is not a number yields "-".
func FormatATMFeeValue(raw any) string {
	v, ok := ToFloat(raw)
	if !ok {
		return LabelMissing
	}
	return formatFinite(v)
}

func formatFinite(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return LabelMissing
	}

	var label string
	if math.Abs(v) <= PercentThreshold {
		label = FormatPercent(v)
	} else {
		label = FormatEUR(v)
	}

	if v == 0 {
		label = LabelFree
	}
	return label
}

// FormatPercent renders v as a percentage: integers without decimals,
// everything else with at most two decimals and no trailing zeros.
func FormatPercent(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, floatBitSize) + percentSuffix
	}
	s := strconv.FormatFloat(roundHalfUp(v), 'f', percentDigits, floatBitSize)
	s = strings.TrimRight(s, fractionPadding)
	s = strings.TrimSuffix(s, ".")
	return s + percentSuffix
}

// FormatEUR renders v as a de-DE euro amount, e.g. "1.234,50 €".
func FormatEUR(v float64) string {
	amount := printer.Sprint(number.Decimal(roundHalfUp(v),
		number.MinFractionDigits(currencyDigits),
		number.MaxFractionDigits(currencyDigits),
	))
	return amount + noBreakSpace + currencySymbol
}

// roundHalfUp rounds v to two decimals with halves away from zero.
func roundHalfUp(v float64) float64 {
	return math.Round(v*scale) / scale
}

// ToFloat converts a loosely typed numeric value to float64.
// Strings are parsed after trimming; blank strings and booleans are not numbers.
func ToFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, false
	case float64:
		return v, true
	case *float64:
		if v == nil {
			return 0, false
		}
		return *v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, floatBitSize)
		return f, err == nil
	default:
		return 0, false
	}
}
