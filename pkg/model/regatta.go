package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ScoringFormat selects the scoring and ranking strategy of a regatta.
type ScoringFormat string

const (
	ScoringStandard ScoringFormat = "standard"
	ScoringCombined ScoringFormat = "combined"
	ScoringTeam     ScoringFormat = "team"
)

func ParseScoringFormat(s string) (ScoringFormat, error) {
	switch f := ScoringFormat(s); f {
	case ScoringStandard, ScoringCombined, ScoringTeam:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown scoring format %q", ErrInvalidInput, s)
	}
}

type RegattaInfo struct {
	ID        int
	Key       uuid.UUID
	Name      string
	Scoring   ScoringFormat
	StartDate time.Time
}
