package difficulty

import "github.com/riskibarqy/fpl-fixture-difficulty/internal/domain/fixture"

// Cell is one column of a team row. Fixture is nil for an empty cell.
type Cell struct {
	Gameweek int
	Fixture  *fixture.Fixture
}

// ResolveRow lays a team's fixtures onto axis. A column shows the first fixture of
// its gameweek that an earlier column has not consumed; when the next label repeats
// the current one, the shown fixture is consumed so the repeat reveals the team's
// second fixture or stays empty. fixtures is read only.
func ResolveRow(fixtures fixture.TeamFixtures, axis Axis) []Cell {
	runs := make(map[int][]int, len(fixtures))
	for i, item := range fixtures {
		runs[item.Gameweek] = append(runs[item.Gameweek], i)
	}
	consumed := make(map[int]int, len(runs))

	cells := make([]Cell, len(axis))
	for i, gw := range axis {
		cells[i].Gameweek = gw

		run := runs[gw]
		next := consumed[gw]
		if next >= len(run) {
			continue
		}

		shown := fixtures[run[next]]
		cells[i].Fixture = &shown
		if i+1 < len(axis) && axis[i+1] == gw {
			consumed[gw] = next + 1
		}
	}
	return cells
}

// Band maps a rank in 1..teamCount onto five equal severity bands, 1 hardest and
// 5 easiest. Ranks outside the league yield 0.
func Band(rank, teamCount int) int {
	if teamCount < 1 || rank < 1 || rank > teamCount {
		return 0
	}
	return (rank*5 + teamCount - 1) / teamCount
}

var bandColors = [...]string{
	1: "#b91c1c",
	2: "#f87171",
	3: "#d1d5db",
	4: "#86efac",
	5: "#15803d",
}

// BandColor returns the display color of a band, empty for band 0.
func BandColor(band int) string {
	if band < 1 || band >= len(bandColors) {
		return ""
	}
	return bandColors[band]
}
