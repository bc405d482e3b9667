package model

import (
	"fmt"
	"strconv"
	"strings"
)

type Race struct {
	ID       int
	Division Division
	Number   int
	Boat     string

	// team racing only
	TrTeam1   *Team
	TrTeam2   *Team
	TrIgnore1 bool // exclude this race from team1's record
	TrIgnore2 bool // exclude this race from team2's record
}

// String returns the usual notation like "3A"
func (r *Race) String() string {
	return fmt.Sprintf("%d%s", r.Number, r.Division)
}

// CompareRaces orders by number, then by division.
func CompareRaces(a, b *Race) int {
	if a.Number != b.Number {
		return a.Number - b.Number
	}
	return a.Division.Compare(b.Division)
}

// ParseRaceLabel parses the notation of String, e.g. "12B".
func ParseRaceLabel(label string) (number int, div Division, err error) {
	label = strings.TrimSpace(label)
	if len(label) < 2 {
		return 0, "", fmt.Errorf("%w: invalid race %q", ErrInvalidInput, label)
	}
	div, err = ParseDivision(label[len(label)-1:])
	if err != nil {
		return 0, "", err
	}
	number, err = strconv.Atoi(label[:len(label)-1])
	if err != nil || number <= 0 {
		return 0, "", fmt.Errorf("%w: invalid race number in %q", ErrInvalidInput, label)
	}
	return number, div, nil
}
