package difficulty

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/fpl-fixture-difficulty/internal/domain/fixture"
)

// Axis is the shared, ordered sequence of gameweek column labels. A label repeats
// once per extra fixture in a double gameweek.
type Axis []int

// Window keeps the labels inside w, duplicates included.
func (a Axis) Window(w Window) Axis {
	out := make(Axis, 0, len(a))
	for _, gw := range a {
		if w.Contains(gw) {
			out = append(out, gw)
		}
	}
	return out
}

// Bounds returns the smallest and largest label, ok false for an empty axis.
func (a Axis) Bounds() (minGW, maxGW int, ok bool) {
	for i, gw := range a {
		if i == 0 || gw < minGW {
			minGW = gw
		}
		if i == 0 || gw > maxGW {
			maxGW = gw
		}
	}
	return minGW, maxGW, len(a) > 0
}

type AxisStrategy string

const (
	AxisUnion     AxisStrategy = "union"
	AxisReference AxisStrategy = "reference"
)

func ParseAxisStrategy(raw string) (AxisStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(AxisUnion):
		return AxisUnion, nil
	case string(AxisReference):
		return AxisReference, nil
	default:
		return "", fmt.Errorf("unknown axis strategy %q", raw)
	}
}

func BuildAxis(strategy AxisStrategy, fixtures fixture.LeagueFixtures) Axis {
	if strategy == AxisReference {
		return ReferenceAxis(fixtures)
	}
	return UnionAxis(fixtures)
}

// ReferenceAxis uses the gameweeks of the team with the most fixtures, ties going
// to the alphabetically first team. A double gameweek that only other teams play
// is under-represented.
func ReferenceAxis(fixtures fixture.LeagueFixtures) Axis {
	var reference string
	best := -1
	for _, team := range fixtures.Teams() {
		if n := len(fixtures[team]); n > best {
			reference, best = team, n
		}
	}
	if best <= 0 {
		return Axis{}
	}

	list := fixtures[reference]
	out := make(Axis, len(list))
	for i, item := range list {
		out[i] = item.Gameweek
	}
	return out
}

// UnionAxis covers every gameweek from the season minimum to maximum. Each label
// appears as many times as the busiest team plays in that gameweek, and at least
// once.
func UnionAxis(fixtures fixture.LeagueFixtures) Axis {
	minGW, maxGW, ok := fixtures.GameweekBounds()
	if !ok {
		return Axis{}
	}

	width := make(map[int]int, maxGW-minGW+1)
	for _, list := range fixtures {
		perTeam := make(map[int]int, len(list))
		for _, item := range list {
			perTeam[item.Gameweek]++
		}
		for gw, n := range perTeam {
			if n > width[gw] {
				width[gw] = n
			}
		}
	}

	out := make(Axis, 0, maxGW-minGW+1)
	for gw := minGW; gw <= maxGW; gw++ {
		n := max(width[gw], 1)
		for i := 0; i < n; i++ {
			out = append(out, gw)
		}
	}
	return out
}
