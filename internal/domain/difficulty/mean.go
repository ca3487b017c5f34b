package difficulty

import "math"

// Means is the cross-team average of the aggregated totals. XG and XGA are NaN
// when Teams is 0.
type Means struct {
	XG    float64
	XGA   float64
	Teams int
}

func (m Means) Valid() bool {
	return m.Teams > 0 && !math.IsNaN(m.XG) && !math.IsNaN(m.XGA)
}

func CalculateMeans(entries map[string]AggregatedTeamEntry) Means {
	if len(entries) == 0 {
		return Means{XG: math.NaN(), XGA: math.NaN()}
	}

	var sumXG, sumXGA float64
	for _, entry := range entries {
		sumXG += ParseTotal(entry.TotalOpponentXG)
		sumXGA += ParseTotal(entry.TotalOpponentXGA)
	}

	n := float64(len(entries))
	return Means{
		XG:    sumXG / n,
		XGA:   sumXGA / n,
		Teams: len(entries),
	}
}
