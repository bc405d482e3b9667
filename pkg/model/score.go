package model

import "strconv"

// Score is the outcome of one team in one race. Lower is better.
type Score struct {
	value       int
	place       string
	explanation string
}

func NewScore(value int, explanation string) Score {
	return Score{value: value, explanation: explanation}
}

// NewPlacedScore creates a score whose place is displayed as place (e.g. "DSQ").
func NewPlacedScore(value int, place, explanation string) Score {
	return Score{value: value, place: place, explanation: explanation}
}

func (s Score) Value() int          { return s.value }
func (s Score) Explanation() string { return s.explanation }

// Place returns the place descriptor, which defaults to the numeric score.
func (s Score) Place() string {
	if s.place != "" {
		return s.place
	}
	return strconv.Itoa(s.value)
}

func (s Score) HasPlace() bool { return s.place != "" }
