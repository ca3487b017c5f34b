package fixture

import (
	"sort"
	"strings"
)

const (
	Home = "H"
	Away = "A"
)

// Fixture is one scheduled match seen from a single team's side. XG and XGA are the
// opponent-derived expectations, XGRank and XGARank the opponent's league ranks.
type Fixture struct {
	Gameweek      int     `json:"gameweek"`
	HomeAway      string  `json:"home_away"`
	Opponent      string  `json:"opponent"`
	OpponentShort string  `json:"opponent_short"`
	XG            float64 `json:"xG"`
	XGA           float64 `json:"xGA"`
	XGRank        int     `json:"xGrank"`
	XGARank       int     `json:"xGArank"`
}

// TeamFixtures is ordered by ascending gameweek. Fixtures sharing a gameweek stay
// adjacent in kickoff order.
type TeamFixtures []Fixture

// LeagueFixtures maps team name to that team's fixture list.
type LeagueFixtures map[string]TeamFixtures

func NormalizeHomeAway(value string) string {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case Home, "HOME":
		return Home
	case Away, "AWAY":
		return Away
	default:
		return ""
	}
}

func (f TeamFixtures) Clone() TeamFixtures {
	out := make(TeamFixtures, len(f))
	copy(out, f)
	return out
}

// SortByGameweek orders fixtures by gameweek without reordering ties.
func (f TeamFixtures) SortByGameweek() {
	sort.SliceStable(f, func(i, j int) bool {
		return f[i].Gameweek < f[j].Gameweek
	})
}

func (l LeagueFixtures) Clone() LeagueFixtures {
	out := make(LeagueFixtures, len(l))
	for team, fixtures := range l {
		out[team] = fixtures.Clone()
	}
	return out
}

// Teams returns team names in ascending order.
func (l LeagueFixtures) Teams() []string {
	out := make([]string, 0, len(l))
	for team := range l {
		out = append(out, team)
	}
	sort.Strings(out)
	return out
}

// GameweekBounds returns the smallest and largest gameweek in the feed.
// ok is false when no team has a fixture.
func (l LeagueFixtures) GameweekBounds() (minGW, maxGW int, ok bool) {
	for _, fixtures := range l {
		for _, item := range fixtures {
			if !ok {
				minGW, maxGW, ok = item.Gameweek, item.Gameweek, true
				continue
			}
			if item.Gameweek < minGW {
				minGW = item.Gameweek
			}
			if item.Gameweek > maxGW {
				maxGW = item.Gameweek
			}
		}
	}
	return minGW, maxGW, ok
}
