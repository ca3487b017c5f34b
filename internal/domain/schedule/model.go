package schedule

import (
	"context"
	"time"

	"github.com/riskibarqy/fpl-fixture-difficulty/internal/domain/teamstrength"
)

// Match is an upcoming league match as reported by the stats provider.
type Match struct {
	ID        string
	HomeTeam  string
	HomeShort string
	AwayTeam  string
	AwayShort string
	KickoffAt time.Time
}

// Provider supplies season expected-goals records and the remaining schedule.
type Provider interface {
	FetchSeasonRecords(ctx context.Context) ([]teamstrength.SeasonRecord, error)
	FetchUpcomingMatches(ctx context.Context) ([]Match, error)
}
