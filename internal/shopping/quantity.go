package shopping

import (
	"math"
	"strconv"
	"strings"
)

// integerTolerance is how close a value must be to a whole number to be
// displayed without decimals.
const integerTolerance = 0.01

// TryParse converts a free-text quantity to a number. It reports false for
// text that has no clean numeric reading ("to taste", "a pinch", "2 large");
// that is a normal outcome, not an error.
func TryParse(text string) (float64, bool) {
	if strings.Contains(text, "/") {
		parts := strings.Split(text, "/")
		if len(parts) != 2 {
			return 0, false
		}
		num, ok := parseNumber(parts[0])
		if !ok {
			return 0, false
		}
		den, ok := parseNumber(parts[1])
		if !ok || den == 0 {
			return 0, false
		}
		return num / den, true
	}

	if strings.Contains(strings.ToLower(text), "to taste") {
		return 0, false
	}

	return parseNumber(text)
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Format renders a quantity for display: whole numbers (within 0.01) without
// decimals, anything else with at most two decimals and no trailing zeros.
func Format(v float64) string {
	rounded := math.Round(v)
	if math.Abs(v-rounded) < integerTolerance {
		if rounded == 0 {
			rounded = 0 // drop negative zero
		}
		return strconv.FormatFloat(rounded, 'f', 0, 64)
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// Combine merges two quantities of the same ingredient. Numeric quantities in
// exactly the same unit are summed; anything else is kept verbatim as
// "existing + new" so no information is lost.
func Combine(existingQty, existingUnit, newQty, newUnit string) string {
	return parseAmount(existingQty, existingUnit).plus(parseAmount(newQty, newUnit)).String()
}

// amount is either a numeric value in a unit or opaque text.
type amount struct {
	numeric bool
	value   float64
	unit    string
	text    string
}

func numericAmount(v float64, unit string) amount {
	return amount{numeric: true, value: v, unit: unit, text: Format(v)}
}

func opaqueAmount(text string) amount {
	return amount{text: text}
}

func parseAmount(text, unit string) amount {
	v, ok := TryParse(text)
	if !ok {
		return opaqueAmount(text)
	}
	a := numericAmount(v, unit)
	// Keep the caller's spelling so a fallback concatenation shows what was entered.
	a.text = text
	return a
}

func (a amount) plus(b amount) amount {
	if a.numeric && b.numeric && a.unit == b.unit {
		return numericAmount(a.value+b.value, a.unit)
	}
	return opaqueAmount(a.text + " + " + b.text)
}

func (a amount) String() string {
	return a.text
}
