package model

import "time"

// Finish is one team's recorded completion of one race.
type Finish struct {
	ID      int
	Race    *Race
	Team    *Team
	Entered time.Time

	modifier *FinishModifier

	// output fields, set by scoring
	Score  *Score
	Earned int
}

func NewFinish(race *Race, team *Team, entered time.Time) *Finish {
	return &Finish{Race: race, Team: team, Entered: entered}
}

// SetModifier replaces any existing modifier. A finish carries either a
// penalty or a breakdown, never both. nil removes the modifier.
func (f *Finish) SetModifier(m *FinishModifier) {
	f.modifier = m
}

func (f *Finish) Modifier() *FinishModifier {
	return f.modifier
}

// Penalty returns the modifier if it is a penalty, nil otherwise
func (f *Finish) Penalty() *FinishModifier {
	if f.modifier.IsPenalty() {
		return f.modifier
	}
	return nil
}

// Breakdown returns the modifier if it is a breakdown, nil otherwise
func (f *Finish) Breakdown() *FinishModifier {
	if f.modifier.IsBreakdown() {
		return f.modifier
	}
	return nil
}

func (f *Finish) IsScored() bool {
	return f.Score != nil
}

// ScoreValue returns the numeric score or 0 if the finish is not scored yet.
func (f *Finish) ScoreValue() int {
	if f.Score == nil {
		return 0
	}
	return f.Score.Value()
}

func (f *Finish) SetScore(s Score) {
	f.Score = &s
}
