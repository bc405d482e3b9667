package model

import (
	"fmt"
	"strings"
)

// Division is one of the sailing sub-fleets A to D.
type Division string

const (
	DivisionA Division = "A"
	DivisionB Division = "B"
	DivisionC Division = "C"
	DivisionD Division = "D"
)

var allDivisions = []Division{DivisionA, DivisionB, DivisionC, DivisionD}

// Divisions returns all known divisions in their natural order.
func Divisions() []Division {
	ret := make([]Division, len(allDivisions))
	copy(ret, allDivisions)
	return ret
}

func ParseDivision(s string) (Division, error) {
	d := Division(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range allDivisions {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: unknown division %q", ErrInvalidInput, s)
}

func (d Division) String() string {
	return string(d)
}

// Compare orders divisions lexically.
func (d Division) Compare(other Division) int {
	return strings.Compare(string(d), string(other))
}
