// Package notify announces changed standings to interested parties.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StandingsChanged is sent after the standings of a regatta were persisted.
type StandingsChanged struct {
	RegattaID  int       `json:"regattaId"`
	RegattaKey uuid.UUID `json:"regattaKey"`
	// Races lists the races (like "3A") which were scored, empty for a full
	// rescore
	Races     []string      `json:"races,omitempty"`
	Leaders   []StandingRow `json:"leaders"`
	Timestamp time.Time     `json:"timestamp"`
}

type StandingRow struct {
	Rank        int    `json:"rank"`
	Team        string `json:"team"`
	Score       int    `json:"score"`
	Explanation string `json:"explanation,omitempty"`
}

type Publisher interface {
	PublishStandingsChanged(ctx context.Context, evt *StandingsChanged) error
	Close()
}

type noopPublisher struct{}

// NewNoopPublisher returns a publisher which drops every event
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) PublishStandingsChanged(context.Context, *StandingsChanged) error {
	return nil
}

func (noopPublisher) Close() {}
