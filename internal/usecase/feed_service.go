package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/fpl-fixture-difficulty/internal/domain/fixture"
	"github.com/riskibarqy/fpl-fixture-difficulty/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-fixture-difficulty/internal/domain/schedule"
	"github.com/riskibarqy/fpl-fixture-difficulty/internal/domain/teamstrength"
	"github.com/riskibarqy/fpl-fixture-difficulty/internal/platform/logging"
)

// FeedService builds the team → fixtures feed from provider data. It satisfies
// fixture.Repository.
type FeedService struct {
	provider schedule.Provider
	calendar *gameweek.Calendar
	logger   *logging.Logger
}

var _ fixture.Repository = (*FeedService)(nil)

func NewFeedService(provider schedule.Provider, calendar *gameweek.Calendar, logger *logging.Logger) *FeedService {
	if logger == nil {
		logger = logging.Default()
	}
	if calendar == nil {
		calendar = gameweek.Default()
	}
	return &FeedService{
		provider: provider,
		calendar: calendar,
		logger:   logger,
	}
}

func (s *FeedService) ListTeamFixtures(ctx context.Context) (fixture.LeagueFixtures, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedService.ListTeamFixtures")
	defer span.End()

	var (
		records []teamstrength.SeasonRecord
		matches []schedule.Match
	)
	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		out, err := s.provider.FetchSeasonRecords(ctx)
		if err != nil {
			return fmt.Errorf("fetch season records: %w", err)
		}
		records = out
		return nil
	})
	p.Go(func(ctx context.Context) error {
		out, err := s.provider.FetchUpcomingMatches(ctx)
		if err != nil {
			return fmt.Errorf("fetch upcoming matches: %w", err)
		}
		matches = out
		return nil
	})
	if err := p.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if len(records) == 0 && len(matches) == 0 {
		return nil, fmt.Errorf("%w: provider returned no teams or matches", ErrNotFound)
	}

	feed := BuildLeagueFixtures(ctx, records, matches, s.calendar, s.logger)
	span.SetAttributes(
		attribute.Int("feed.teams", len(feed)),
		attribute.Int("feed.matches", len(matches)),
	)
	return feed, nil
}

type scheduledFixture struct {
	fixture.Fixture
	kickoff time.Time
}

// BuildLeagueFixtures joins upcoming matches with opponent strength. Every match
// yields one fixture per side; matches outside the calendar are dropped.
func BuildLeagueFixtures(
	ctx context.Context,
	records []teamstrength.SeasonRecord,
	matches []schedule.Match,
	calendar *gameweek.Calendar,
	logger *logging.Logger,
) fixture.LeagueFixtures {
	if logger == nil {
		logger = logging.Default()
	}
	strength := teamstrength.Index(teamstrength.BuildTable(records))

	byTeam := make(map[string][]scheduledFixture, len(records))
	for _, record := range records {
		byTeam[record.Team] = nil
	}

	unassigned := 0
	for _, match := range matches {
		gw, ok := calendar.Assign(match.KickoffAt)
		if !ok {
			unassigned++
			logger.DebugContext(ctx, "match outside gameweek calendar", "match_id", match.ID, "kickoff_at", match.KickoffAt)
			continue
		}

		byTeam[match.HomeTeam] = append(byTeam[match.HomeTeam], scheduledFixture{
			Fixture: opponentFixture(gw, fixture.Home, match.AwayTeam, match.AwayShort, strength),
			kickoff: match.KickoffAt,
		})
		byTeam[match.AwayTeam] = append(byTeam[match.AwayTeam], scheduledFixture{
			Fixture: opponentFixture(gw, fixture.Away, match.HomeTeam, match.HomeShort, strength),
			kickoff: match.KickoffAt,
		})
	}
	if unassigned > 0 {
		logger.WarnContext(ctx, "matches dropped outside gameweek calendar", "count", unassigned)
	}

	out := make(fixture.LeagueFixtures, len(byTeam))
	for team, items := range byTeam {
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].Gameweek != items[j].Gameweek {
				return items[i].Gameweek < items[j].Gameweek
			}
			return items[i].kickoff.Before(items[j].kickoff)
		})

		list := make(fixture.TeamFixtures, len(items))
		for i, item := range items {
			list[i] = item.Fixture
		}
		out[team] = list
	}
	return out
}

func opponentFixture(gw int, homeAway, opponent, opponentShort string, strength map[string]teamstrength.Strength) fixture.Fixture {
	item := fixture.Fixture{
		Gameweek:      gw,
		HomeAway:      homeAway,
		Opponent:      opponent,
		OpponentShort: opponentShort,
	}
	if opp, ok := strength[opponent]; ok {
		item.XG = opp.XGPer90
		item.XGA = opp.XGAPer90
		item.XGRank = opp.XGRank
		item.XGARank = opp.XGARank
		if item.OpponentShort == "" {
			item.OpponentShort = opp.ShortName
		}
	}
	return item
}
