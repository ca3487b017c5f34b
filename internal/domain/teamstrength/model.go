package teamstrength

import (
	"sort"

	"github.com/shopspring/decimal"
)

// SeasonRecord is a team's accumulated expected-goals record for the season so far.
type SeasonRecord struct {
	Team      string
	ShortName string
	Matches   int
	XG        float64
	XGA       float64
}

// Strength is a team's per-90 output and its league ranks. XGRank 1 is the
// strongest attack, XGARank 1 the meanest defence.
type Strength struct {
	Team      string  `json:"team"`
	ShortName string  `json:"short_name"`
	Matches   int     `json:"matches"`
	XGPer90   float64 `json:"xG_per90"`
	XGAPer90  float64 `json:"xGA_per90"`
	XGRank    int     `json:"xGrank"`
	XGARank   int     `json:"xGArank"`
}

// BuildTable computes per-90 figures rounded to two decimals and ranks every team.
// Ties are ranked by team name.
func BuildTable(records []SeasonRecord) []Strength {
	table := make([]Strength, 0, len(records))
	for _, record := range records {
		table = append(table, Strength{
			Team:      record.Team,
			ShortName: record.ShortName,
			Matches:   record.Matches,
			XGPer90:   per90(record.XG, record.Matches),
			XGAPer90:  per90(record.XGA, record.Matches),
		})
	}

	sort.SliceStable(table, func(i, j int) bool {
		if table[i].XGPer90 != table[j].XGPer90 {
			return table[i].XGPer90 > table[j].XGPer90
		}
		return table[i].Team < table[j].Team
	})
	for i := range table {
		table[i].XGRank = i + 1
	}

	sort.SliceStable(table, func(i, j int) bool {
		if table[i].XGAPer90 != table[j].XGAPer90 {
			return table[i].XGAPer90 < table[j].XGAPer90
		}
		return table[i].Team < table[j].Team
	})
	for i := range table {
		table[i].XGARank = i + 1
	}

	sort.SliceStable(table, func(i, j int) bool {
		return table[i].XGRank < table[j].XGRank
	})
	return table
}

// Index keys a table by team name.
func Index(table []Strength) map[string]Strength {
	out := make(map[string]Strength, len(table))
	for _, item := range table {
		out[item.Team] = item
	}
	return out
}

func per90(total float64, matches int) float64 {
	if matches <= 0 {
		return 0
	}
	v, _ := decimal.NewFromFloat(total).
		Div(decimal.NewFromInt(int64(matches))).
		Round(2).
		Float64()
	return v
}
