package model

import (
	"fmt"
	"slices"
)

type ModifierKind int

const (
	KindPenalty ModifierKind = iota
	KindBreakdown
)

func (k ModifierKind) String() string {
	switch k {
	case KindPenalty:
		return "penalty"
	case KindBreakdown:
		return "breakdown"
	default:
		return fmt.Sprintf("ModifierKind(%d)", int(k))
	}
}

func ParseModifierKind(s string) (ModifierKind, error) {
	switch s {
	case "penalty":
		return KindPenalty, nil
	case "breakdown":
		return KindBreakdown, nil
	default:
		return 0, fmt.Errorf("%w: unknown modifier kind %q", ErrInvalidInput, s)
	}
}

// penalty codes
const (
	PenaltyDSQ = "DSQ"
	PenaltyRAF = "RAF"
	PenaltyOCS = "OCS"
	PenaltyDNF = "DNF"
	PenaltyDNS = "DNS"
)

// breakdown (handicap) codes
const (
	BreakdownRDG = "RDG"
	BreakdownBKD = "BKD"
	BreakdownBYE = "BYE"
)

var (
	penaltyTypes   = []string{PenaltyDSQ, PenaltyRAF, PenaltyOCS, PenaltyDNF, PenaltyDNS}
	breakdownTypes = []string{BreakdownRDG, BreakdownBKD, BreakdownBYE}
)

func PenaltyTypes() []string   { return slices.Clone(penaltyTypes) }
func BreakdownTypes() []string { return slices.Clone(breakdownTypes) }

// FinishModifier is a penalty or a breakdown attached to a finish.
// An Amount <= 0 means "not assigned": penalties get fleet+1, breakdowns are
// averaged. Displace controls whether the modified finish pushes the
// subsequent finishers back by one place.
type FinishModifier struct {
	Kind     ModifierKind
	Type     string
	Amount   int
	Comments string
	Displace bool
}

func NewPenalty(typ string, amount int, comments string, displace bool) (*FinishModifier, error) {
	if !slices.Contains(penaltyTypes, typ) {
		return nil, fmt.Errorf("%w: invalid penalty type %q", ErrInvalidInput, typ)
	}
	return &FinishModifier{
		Kind: KindPenalty, Type: typ, Amount: amount, Comments: comments, Displace: displace,
	}, nil
}

func NewBreakdown(typ string, amount int, comments string, displace bool) (*FinishModifier, error) {
	if !slices.Contains(breakdownTypes, typ) {
		return nil, fmt.Errorf("%w: invalid breakdown type %q", ErrInvalidInput, typ)
	}
	return &FinishModifier{
		Kind: KindBreakdown, Type: typ, Amount: amount, Comments: comments, Displace: displace,
	}, nil
}

// NewModifier validates typ against the vocabulary of kind.
func NewModifier(kind ModifierKind, typ string, amount int, comments string, displace bool) (
	*FinishModifier, error,
) {
	switch kind {
	case KindPenalty:
		return NewPenalty(typ, amount, comments, displace)
	case KindBreakdown:
		return NewBreakdown(typ, amount, comments, displace)
	default:
		return nil, fmt.Errorf("%w: unknown modifier kind %d", ErrInvalidInput, kind)
	}
}

func (m *FinishModifier) IsPenalty() bool   { return m != nil && m.Kind == KindPenalty }
func (m *FinishModifier) IsBreakdown() bool { return m != nil && m.Kind == KindBreakdown }

// IsAssigned reports whether an explicit amount was given.
func (m *FinishModifier) IsAssigned() bool { return m.Amount > 0 }

// team penalty codes
const (
	TeamPenaltyMRP = "MRP" // missing RP information
	TeamPenaltyPFD = "PFD" // illegal PFD
	TeamPenaltyLOP = "LOP" // missing pinnie
	TeamPenaltyGDQ = "GDQ" // general disqualification
)

// TeamPenaltyPoints is the amount added to a division total when no explicit
// amount is set.
const TeamPenaltyPoints = 20

var teamPenaltyTypes = []string{TeamPenaltyMRP, TeamPenaltyPFD, TeamPenaltyLOP, TeamPenaltyGDQ}

func TeamPenaltyTypes() []string { return slices.Clone(teamPenaltyTypes) }

// TeamPenalty is a fixed penalty for a team in one division.
type TeamPenalty struct {
	Team     *Team
	Division Division
	Type     string
	Comments string
	Amount   int
}

func NewTeamPenalty(team *Team, div Division, typ, comments string) (*TeamPenalty, error) {
	if !slices.Contains(teamPenaltyTypes, typ) {
		return nil, fmt.Errorf("%w: invalid team penalty type %q", ErrInvalidInput, typ)
	}
	return &TeamPenalty{
		Team: team, Division: div, Type: typ, Comments: comments, Amount: TeamPenaltyPoints,
	}, nil
}

// Points returns the amount added to the total.
func (p *TeamPenalty) Points() int {
	if p.Amount <= 0 {
		return TeamPenaltyPoints
	}
	return p.Amount
}
