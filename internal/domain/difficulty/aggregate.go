package difficulty

import (
	"github.com/shopspring/decimal"

	"github.com/riskibarqy/fpl-fixture-difficulty/internal/domain/fixture"
)

// Window is an inclusive gameweek range. It is not validated: a reversed window
// simply matches nothing.
type Window struct {
	MinGW int `json:"min_gw"`
	MaxGW int `json:"max_gw"`
}

func (w Window) Contains(gameweek int) bool {
	return w.MinGW <= gameweek && gameweek <= w.MaxGW
}

// AggregatedTeamEntry holds one team's fixtures inside a window and the opponent
// totals over exactly those fixtures, formatted with two decimals.
type AggregatedTeamEntry struct {
	Fixtures         fixture.TeamFixtures `json:"fixtures"`
	TotalOpponentXG  string               `json:"total_opponent_xG"`
	TotalOpponentXGA string               `json:"total_opponent_xGA"`
}

// Aggregate filters every team's fixtures to window and sums xG and xGA over the
// kept fixtures. The result never aliases the input slices.
func Aggregate(fixtures fixture.LeagueFixtures, window Window) map[string]AggregatedTeamEntry {
	out := make(map[string]AggregatedTeamEntry, len(fixtures))
	for team, list := range fixtures {
		kept := make(fixture.TeamFixtures, 0, len(list))
		var sumXG, sumXGA float64
		for _, item := range list {
			if !window.Contains(item.Gameweek) {
				continue
			}
			kept = append(kept, item)
			sumXG += item.XG
			sumXGA += item.XGA
		}

		out[team] = AggregatedTeamEntry{
			Fixtures:         kept,
			TotalOpponentXG:  FormatTotal(sumXG),
			TotalOpponentXGA: FormatTotal(sumXGA),
		}
	}
	return out
}

// FormatTotal renders v as a fixed-point string with two decimals, rounding half
// away from zero. Rounding applies to the shortest decimal form of v, not its
// exact binary value, so 1.005 renders "1.01" where strconv 'f' formatting
// gives "1.00".
func FormatTotal(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// ParseTotal reads a formatted total back. Unparseable input yields 0.
func ParseTotal(s string) float64 {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}
