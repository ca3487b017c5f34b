package difficulty

import (
	"reflect"
	"testing"

	"github.com/riskibarqy/fpl-fixture-difficulty/internal/domain/fixture"
)

func assertAxis(t *testing.T, want, got Axis) {
	t.Helper()
	if len(want) == 0 && len(got) == 0 {
		return
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("expected axis %v, got %v", want, got)
	}
}

func TestReferenceAxis_UsesTeamWithMostFixtures(t *testing.T) {
	assertAxis(t, Axis{24, 25, 26, 26, 27}, ReferenceAxis(sampleLeague()))
}

func TestReferenceAxis_TieBreaksByTeamName(t *testing.T) {
	league := fixture.LeagueFixtures{
		"Wolves":  {{Gameweek: 30}, {Gameweek: 30}},
		"Burnley": {{Gameweek: 30}, {Gameweek: 31}},
	}
	assertAxis(t, Axis{30, 31}, ReferenceAxis(league))
}

func TestUnionAxis_CoversEveryDoubleGameweek(t *testing.T) {
	league := fixture.LeagueFixtures{
		"Arsenal":   {{Gameweek: 1}, {Gameweek: 2}, {Gameweek: 2}, {Gameweek: 4}},
		"Liverpool": {{Gameweek: 1}, {Gameweek: 3}, {Gameweek: 3}, {Gameweek: 4}},
	}

	assertAxis(t, Axis{1, 2, 2, 3, 3, 4}, UnionAxis(league))
	// the reference axis drops the other team's double
	assertAxis(t, Axis{1, 2, 2, 4}, ReferenceAxis(league))
}

func TestUnionAxis_AlignsEveryRow(t *testing.T) {
	league := fixture.LeagueFixtures{
		"Arsenal":   {{Gameweek: 1, OpponentShort: "A1"}, {Gameweek: 2, OpponentShort: "A2"}, {Gameweek: 2, OpponentShort: "A2b"}},
		"Liverpool": {{Gameweek: 1, OpponentShort: "L1"}, {Gameweek: 2, OpponentShort: "L2"}},
	}
	axis := UnionAxis(league)

	for team, list := range league {
		cells := ResolveRow(list, axis)
		if len(cells) != len(axis) {
			t.Fatalf("%s: expected %d cells, got %d", team, len(axis), len(cells))
		}

		shown := 0
		for _, cell := range cells {
			if cell.Fixture != nil {
				shown++
			}
		}
		if shown != len(list) {
			t.Fatalf("%s: expected every fixture shown once, shown=%d fixtures=%d", team, shown, len(list))
		}
	}
}

func TestUnionAxis_FillsGaps(t *testing.T) {
	league := fixture.LeagueFixtures{
		"Arsenal": {{Gameweek: 29}, {Gameweek: 32}},
	}
	assertAxis(t, Axis{29, 30, 31, 32}, UnionAxis(league))
}

func TestAxis_EmptyLeague(t *testing.T) {
	if got := UnionAxis(fixture.LeagueFixtures{}); len(got) != 0 {
		t.Fatalf("expected empty union axis, got %v", got)
	}
	if got := ReferenceAxis(fixture.LeagueFixtures{"Everton": {}}); len(got) != 0 {
		t.Fatalf("expected empty reference axis, got %v", got)
	}
}

func TestAxis_WindowKeepsDuplicates(t *testing.T) {
	axis := Axis{24, 25, 26, 26, 27, 28}
	assertAxis(t, Axis{26, 26, 27}, axis.Window(Window{MinGW: 26, MaxGW: 27}))
	if got := axis.Window(Window{MinGW: 27, MaxGW: 26}); len(got) != 0 {
		t.Fatalf("expected reversed window to be empty, got %v", got)
	}

	minGW, maxGW, ok := axis.Bounds()
	if !ok || minGW != 24 || maxGW != 28 {
		t.Fatalf("expected bounds 24..28, got %d..%d ok=%v", minGW, maxGW, ok)
	}
}

func TestBuildAxis(t *testing.T) {
	league := sampleLeague()
	assertAxis(t, UnionAxis(league), BuildAxis(AxisUnion, league))
	assertAxis(t, ReferenceAxis(league), BuildAxis(AxisReference, league))

	strategy, err := ParseAxisStrategy("Reference")
	if err != nil {
		t.Fatalf("parse reference: %v", err)
	}
	if strategy != AxisReference {
		t.Fatalf("expected %q, got %q", AxisReference, strategy)
	}

	if _, err := ParseAxisStrategy("diagonal"); err == nil {
		t.Fatalf("expected error for unknown strategy")
	}
}

func TestPerspective(t *testing.T) {
	f := fixture.Fixture{XG: 1.1, XGA: 2.2, XGRank: 3, XGARank: 18}

	attack, err := ParsePerspective("")
	if err != nil {
		t.Fatalf("parse default perspective: %v", err)
	}
	if attack != PerspectiveAttack {
		t.Fatalf("expected attack by default, got %q", attack)
	}
	if attack.Stat(f) != 2.2 || attack.Rank(f) != 18 || attack.Metric() != MetricXGA {
		t.Fatalf("attack reads opponent xGA: stat=%v rank=%d metric=%q", attack.Stat(f), attack.Rank(f), attack.Metric())
	}

	defence, err := ParsePerspective("defense")
	if err != nil {
		t.Fatalf("parse defense: %v", err)
	}
	if defence.Stat(f) != 1.1 || defence.Rank(f) != 3 || defence.Metric() != MetricXG {
		t.Fatalf("defence reads opponent xG: stat=%v rank=%d metric=%q", defence.Stat(f), defence.Rank(f), defence.Metric())
	}

	if _, err := ParsePerspective("midfield"); err == nil {
		t.Fatalf("expected error for unknown perspective")
	}
}
