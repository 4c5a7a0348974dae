package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseWeight converts a decimal string to a weight with one-decimal precision.
//
// It accepts both dot (69.5) and comma (69,5) separators and performs half-up
// rounding on the second decimal place. Signs, zero and values above
// MaxWeight are rejected with a ValidationError.
//
// Examples:
//   ParseWeight("70")    -> 70.0, nil
//   ParseWeight("69,5")  -> 69.5, nil
//   ParseWeight("69.54") -> 69.5, nil
//   ParseWeight("69.55") -> 69.6, nil
func ParseWeight(s string) (float64, error) {
	tenths, ok := parseTenths(s)
	if !ok || tenths <= 0 {
		return 0, newValidationError("weight", ErrInvalidWeight)
	}
	w := float64(tenths) / 10
	if err := ValidateWeight(w); err != nil {
		return 0, err
	}
	return w, nil
}

// NormalizeWeight applies the ParseWeight rounding to a weight that arrived
// as a number, e.g. from YAML, so 69.55 is stored as 69.6.
func NormalizeWeight(w float64) (float64, error) {
	return ParseWeight(FormatWeightShort(w))
}

// ParseCalorie converts a non-negative integer string to a total calorie value.
func ParseCalorie(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, newValidationError("total_calorie", ErrInvalidCalorie)
	}
	for _, r := range s {
		if !isDigit(r) {
			return 0, newValidationError("total_calorie", ErrInvalidCalorie)
		}
	}
	c, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, newValidationError("total_calorie", ErrInvalidCalorie)
	}
	if err := ValidateCalorie(c); err != nil {
		return 0, err
	}
	return c, nil
}

func parseTenths(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, false
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, false
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !isDigit(r) {
			return 0, false
		}
	}
	// Weights never need more than a handful of integer digits.
	if len(intPart) > 6 {
		return 0, false
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, false
	}
	tenths := iv * 10
	if len(fracPart) > 0 {
		tenths += int64(fracPart[0] - '0')
		if len(fracPart) > 1 && fracPart[1] >= '5' {
			tenths++
		}
	}
	return tenths, true
}

// isDigit reports ASCII digits only; parseTenths reads the fraction byte-wise.
func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// RoundTenth rounds v half away from zero to one decimal place.
func RoundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// FormatWeight renders a weight with exactly one decimal, e.g. "70.0".
func FormatWeight(w float64) string {
	return strconv.FormatFloat(RoundTenth(w), 'f', 1, 64)
}

// FormatWeightShort renders a weight in its shortest decimal form, e.g. "70" or "69.5".
func FormatWeightShort(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}
