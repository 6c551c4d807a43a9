package units

const (
	Kilograms = "kg"
	Pounds    = "lbs"
)

const poundsToKilograms = 0.453592

// ToKilograms converts a weight in the given unit to the canonical storage
// unit. Rounding is a display concern and is not applied here. Callers are
// expected to have range-validated the weight in its original unit.
func ToKilograms(weight float64, unit string) float64 {
	if unit == Pounds {
		return weight * poundsToKilograms
	}
	return weight
}

// IsValid reports whether unit is one of the accepted unit tags.
func IsValid(unit string) bool {
	return unit == Kilograms || unit == Pounds
}
