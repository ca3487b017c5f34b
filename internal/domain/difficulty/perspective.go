package difficulty

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/fpl-fixture-difficulty/internal/domain/fixture"
)

// Perspective selects which opponent statistic drives a table. Attack looks at
// how much the opponent concedes (xGA), Defence at how much it creates (xG).
type Perspective string

const (
	PerspectiveAttack  Perspective = "attack"
	PerspectiveDefence Perspective = "defence"
)

// Metric names one of the two aggregated totals.
type Metric string

const (
	MetricXG  Metric = "xG"
	MetricXGA Metric = "xGA"
)

func ParsePerspective(raw string) (Perspective, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(PerspectiveAttack):
		return PerspectiveAttack, nil
	case string(PerspectiveDefence), "defense":
		return PerspectiveDefence, nil
	default:
		return "", fmt.Errorf("unknown perspective %q", raw)
	}
}

// Metric is the total a perspective displays and sorts by by default.
func (p Perspective) Metric() Metric {
	if p == PerspectiveDefence {
		return MetricXG
	}
	return MetricXGA
}

// Stat returns the cell value shown for f.
func (p Perspective) Stat(f fixture.Fixture) float64 {
	if p == PerspectiveDefence {
		return f.XG
	}
	return f.XGA
}

// Rank returns the opponent rank used to band f.
func (p Perspective) Rank(f fixture.Fixture) int {
	if p == PerspectiveDefence {
		return f.XGRank
	}
	return f.XGARank
}

// Total picks the formatted total for metric m from entry.
func (m Metric) Total(entry AggregatedTeamEntry) string {
	if m == MetricXG {
		return entry.TotalOpponentXG
	}
	return entry.TotalOpponentXGA
}
