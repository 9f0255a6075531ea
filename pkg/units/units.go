// Package units converts ingredient quantities between display units and the
// canonical base units used for storage and arithmetic (g, mL, pcs).
//
// Conversion factors are a fixed table: unknown units fall back to a factor of
// 1.0, matching the historical behavior that callers depend on. Use
// CheckCompatible at input boundaries to reject cross-family units before they
// reach the arithmetic.
package units

import (
	"fmt"
	"math"
)

// Base units, one per family.
const (
	Gram       = "g"
	Milliliter = "mL"
	Piece      = "pcs"
)

// Family groups units that convert into the same base unit.
type Family string

const (
	Mass    Family = "mass"
	Volume  Family = "volume"
	Count   Family = "count"
	Unknown Family = ""
)

// toBase maps a unit symbol to its factor into the family's base unit.
var toBase = map[string]float64{
	"g":     1.0,
	"kg":    1000.0,
	"mL":    1.0,
	"ml":    1.0,
	"L":     1000.0,
	"l":     1000.0,
	"pcs":   1.0,
	"dozen": 12.0,
}

var families = map[string]Family{
	"g":     Mass,
	"kg":    Mass,
	"mL":    Volume,
	"ml":    Volume,
	"L":     Volume,
	"l":     Volume,
	"pcs":   Count,
	"dozen": Count,
}

// unitOrder keeps Compatible deterministic (map iteration is randomized).
var unitOrder = []string{"g", "kg", "mL", "ml", "L", "l", "pcs", "dozen"}

// ToBase converts quantity from fromUnit into base units. The baseUnit
// argument exists for interface symmetry only; the factor lookup depends on
// fromUnit alone and unrecognized units use factor 1.0. Callers that need
// family safety must call CheckCompatible first.
func ToBase(quantity float64, fromUnit, baseUnit string) float64 {
	factor, ok := toBase[fromUnit]
	if !ok {
		factor = 1.0
	}
	return quantity * factor
}

// FromBase rescales a base-unit quantity into a coarser display unit:
// 1000 g or more becomes kg, 1000 mL or more becomes L. Counts are never
// rescaled.
func FromBase(quantity float64, baseUnit string) (float64, string) {
	if baseUnit == Gram && quantity >= 1000 {
		return quantity / 1000, "kg"
	}
	if baseUnit == Milliliter && quantity >= 1000 {
		return quantity / 1000, "L"
	}
	return quantity, baseUnit
}

// Format renders a base-unit quantity for display, e.g. "1.50 kg" or "500 g".
// Whole values print without a fractional part.
func Format(quantity float64, baseUnit string) string {
	val, unit := FromBase(quantity, baseUnit)
	if val == math.Trunc(val) {
		return fmt.Sprintf("%d %s", int64(val), unit)
	}
	return fmt.Sprintf("%.2f %s", val, unit)
}

// Compatible returns every unit symbol sharing baseUnit's family, in table
// order. An unknown base unit yields a singleton slice of itself.
func Compatible(baseUnit string) []string {
	family, ok := families[baseUnit]
	if !ok {
		return []string{baseUnit}
	}
	var out []string
	for _, u := range unitOrder {
		if families[u] == family {
			out = append(out, u)
		}
	}
	return out
}

// FamilyOf returns the unit's family, or Unknown for unrecognized symbols.
func FamilyOf(unit string) Family {
	return families[unit]
}

// BaseUnitFor returns the canonical base unit for the given unit's family.
// Unknown units map to themselves.
func BaseUnitFor(unit string) string {
	switch families[unit] {
	case Mass:
		return Gram
	case Volume:
		return Milliliter
	case Count:
		return Piece
	default:
		return unit
	}
}

// CheckCompatible reports whether fromUnit can be meaningfully converted into
// baseUnit, i.e. both are known and belong to the same family.
func CheckCompatible(fromUnit, baseUnit string) error {
	ff, ok := families[fromUnit]
	if !ok {
		return fmt.Errorf("unknown unit %q", fromUnit)
	}
	bf, ok := families[baseUnit]
	if !ok {
		return fmt.Errorf("unknown base unit %q", baseUnit)
	}
	if ff != bf {
		return fmt.Errorf("unit %q (%s) is not compatible with base unit %q (%s)", fromUnit, ff, baseUnit, bf)
	}
	return nil
}
