// Package units converts weights between the canonical kilogram and display units.
package units

import "strings"

const (
	KG     = "kg"
	LBS    = "lbs"
	Pounds = "pounds"
)

const (
	kgToLbs = 2.20462
	lbsToKg = 0.453592
)

// Normalize lowercases and trims a unit token. Empty means kg.
func Normalize(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	if u == "" {
		return KG
	}
	return u
}

// Valid reports whether unit is one of kg, lbs or pounds.
func Valid(unit string) bool {
	switch Normalize(unit) {
	case KG, LBS, Pounds:
		return true
	}
	return false
}

func isPounds(u string) bool { return u == LBS || u == Pounds }

// ConvertWeight converts value from one unit to another through kilograms.
// Unknown unit tokens pass the value through unchanged.
func ConvertWeight(value float64, from, to string) float64 {
	f, t := Normalize(from), Normalize(to)
	switch {
	case f == KG && isPounds(t):
		return value * kgToLbs
	case isPounds(f) && t == KG:
		return value * lbsToKg
	default:
		// same unit, lbs/pounds pair, or unknown token
		return value
	}
}

// ToKG converts an input weight to the canonical storage unit.
func ToKG(value float64, unit string) float64 {
	return ConvertWeight(value, unit, KG)
}
