package crossover

import (
	"fmt"
	"strings"
)

// Family selects how bands are separated at each crossover point.
type Family uint8

const (
	// LinkwitzRiley4 is the allpass-compensated fourth-order crossover.
	LinkwitzRiley4 Family = iota
	// LinkwitzRiley4Subtractive lowpasses twice and subtracts.
	LinkwitzRiley4Subtractive
	// Butterworth2Subtractive lowpasses once and subtracts.
	Butterworth2Subtractive

	numFamilies
)

// NumFamilies is the number of defined families.
const NumFamilies = int(numFamilies)

var familyNames = [NumFamilies]string{
	LinkwitzRiley4:            "lr4",
	LinkwitzRiley4Subtractive: "lr4-subtractive",
	Butterworth2Subtractive:   "bw2-subtractive",
}

// String returns the short family name used on the command line.
func (f Family) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Family(%d)", uint8(f))
	}
	return familyNames[f]
}

// Valid reports whether f is a defined family.
func (f Family) Valid() bool { return f < numFamilies }

// Passes returns how often each lowpass or highpass section is applied.
func (f Family) Passes() int {
	if f == Butterworth2Subtractive {
		return 1
	}
	return 2
}

// Subtractive reports whether the upper band is derived by subtraction.
func (f Family) Subtractive() bool {
	return f == LinkwitzRiley4Subtractive || f == Butterworth2Subtractive
}

// ParseFamily looks a family up by its String name, ignoring case.
func ParseFamily(name string) (Family, error) {
	for i, n := range familyNames {
		if strings.EqualFold(name, n) {
			return Family(i), nil
		}
	}
	return 0, fmt.Errorf("crossover: unknown family %q (want one of %s)", name, strings.Join(familyNames[:], ", "))
}
