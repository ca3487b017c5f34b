package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/fpl-fixture-difficulty/internal/domain/fixture"
	"github.com/riskibarqy/fpl-fixture-difficulty/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-fixture-difficulty/internal/domain/schedule"
	"github.com/riskibarqy/fpl-fixture-difficulty/internal/domain/teamstrength"
	"github.com/riskibarqy/fpl-fixture-difficulty/internal/platform/logging"
	schedulemock "github.com/riskibarqy/fpl-fixture-difficulty/internal/mocks/domain/schedule"
)

func kickoff(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04:05", value)
	if err != nil {
		t.Fatalf("parse kickoff %q: %v", value, err)
	}
	return parsed
}

func TestFeedService_ListTeamFixtures_JoinsOpponentStrengthUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider := schedulemock.NewProvider(t)
	service := NewFeedService(provider, gameweek.Default(), logging.NewNop())

	provider.
		On("FetchSeasonRecords", mock.Anything).
		Return([]teamstrength.SeasonRecord{
			{Team: "Arsenal", ShortName: "ARS", Matches: 10, XG: 18.5, XGA: 8.1},
			{Team: "Liverpool", ShortName: "LIV", Matches: 10, XG: 22.3, XGA: 9.8},
			{Team: "Ipswich", ShortName: "IPS", Matches: 10, XG: 9.2, XGA: 19.6},
		}, nil).
		Once()
	provider.
		On("FetchUpcomingMatches", mock.Anything).
		Return([]schedule.Match{
			{ID: "3", HomeTeam: "Liverpool", HomeShort: "LIV", AwayTeam: "Arsenal", AwayShort: "ARS", KickoffAt: kickoff(t, "2025-02-23 16:30:00")},
			{ID: "1", HomeTeam: "Arsenal", HomeShort: "ARS", AwayTeam: "Ipswich", AwayShort: "IPS", KickoffAt: kickoff(t, "2025-02-15 15:00:00")},
			{ID: "2", HomeTeam: "Ipswich", HomeShort: "IPS", AwayTeam: "Arsenal", AwayShort: "ARS", KickoffAt: kickoff(t, "2025-02-21 20:00:00")},
			{ID: "9", HomeTeam: "Liverpool", HomeShort: "LIV", AwayTeam: "Ipswich", AwayShort: "IPS", KickoffAt: kickoff(t, "2025-08-16 15:00:00")},
		}, nil).
		Once()

	feed, err := service.ListTeamFixtures(ctx)
	if err != nil {
		t.Fatalf("list team fixtures: %v", err)
	}

	arsenal := feed["Arsenal"]
	if len(arsenal) != 3 {
		t.Fatalf("expected 3 arsenal fixtures, got %d", len(arsenal))
	}
	wantOrder := []struct {
		gw       int
		opponent string
		homeAway string
	}{
		{gw: 25, opponent: "IPS", homeAway: fixture.Home},
		{gw: 26, opponent: "IPS", homeAway: fixture.Away},
		{gw: 26, opponent: "LIV", homeAway: fixture.Away},
	}
	for i, want := range wantOrder {
		got := arsenal[i]
		if got.Gameweek != want.gw || got.OpponentShort != want.opponent || got.HomeAway != want.homeAway {
			t.Fatalf("fixture %d: got %+v want %+v", i, got, want)
		}
	}

	if arsenal[2].XG != 2.23 || arsenal[2].XGRank != 1 {
		t.Fatalf("expected liverpool strength joined, got %+v", arsenal[2])
	}
	if arsenal[0].XGARank != 3 {
		t.Fatalf("expected ipswich to have the worst defence rank, got %d", arsenal[0].XGARank)
	}

	if got := len(feed["Liverpool"]); got != 1 {
		t.Fatalf("expected match outside calendar to be dropped, liverpool has %d fixtures", got)
	}
}

func TestFeedService_ListTeamFixtures_UnknownOpponentIsZeroFilled(t *testing.T) {
	t.Parallel()

	provider := schedulemock.NewProvider(t)
	service := NewFeedService(provider, nil, logging.NewNop())

	provider.On("FetchSeasonRecords", mock.Anything).Return([]teamstrength.SeasonRecord{}, nil).Once()
	provider.
		On("FetchUpcomingMatches", mock.Anything).
		Return([]schedule.Match{
			{ID: "1", HomeTeam: "Arsenal", HomeShort: "ARS", AwayTeam: "Promoted FC", AwayShort: "PRO", KickoffAt: kickoff(t, "2025-03-08 15:00:00")},
		}, nil).
		Once()

	feed, err := service.ListTeamFixtures(context.Background())
	if err != nil {
		t.Fatalf("list team fixtures: %v", err)
	}
	got := feed["Arsenal"][0]
	if got.XG != 0 || got.XGA != 0 || got.XGRank != 0 {
		t.Fatalf("expected zero-filled stats, got %+v", got)
	}
	if got.Gameweek != 28 {
		t.Fatalf("expected gameweek 28, got %d", got.Gameweek)
	}
}

func TestFeedService_ListTeamFixtures_ProviderErrorUsingMockery(t *testing.T) {
	t.Parallel()

	provider := schedulemock.NewProvider(t)
	service := NewFeedService(provider, gameweek.Default(), logging.NewNop())

	provider.On("FetchSeasonRecords", mock.Anything).Return(nil, ErrDependencyUnavailable).Once()
	provider.On("FetchUpcomingMatches", mock.Anything).Return([]schedule.Match{}, nil).Maybe()

	_, err := service.ListTeamFixtures(context.Background())
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestFeedService_ListTeamFixtures_EmptyProviderIsNotFound(t *testing.T) {
	t.Parallel()

	provider := schedulemock.NewProvider(t)
	service := NewFeedService(provider, gameweek.Default(), logging.NewNop())

	provider.On("FetchSeasonRecords", mock.Anything).Return([]teamstrength.SeasonRecord{}, nil).Once()
	provider.On("FetchUpcomingMatches", mock.Anything).Return([]schedule.Match{}, nil).Once()

	_, err := service.ListTeamFixtures(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
