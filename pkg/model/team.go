package model

import "github.com/shopspring/decimal"

type School struct {
	ID   string
	Name string
}

// Team is a school's entry in a regatta.
// The Dt* fields are derived by every ranking pass and persisted by the caller.
type Team struct {
	ID     int
	Name   string
	School School

	DtRank        int
	DtScore       int
	DtExplanation string
	DtWins        int
	DtLosses      int
	DtTies        int
	DtWinPct      decimal.Decimal
}

func (t *Team) String() string {
	if t.School.Name == "" {
		return t.Name
	}
	return t.School.Name + " " + t.Name
}
