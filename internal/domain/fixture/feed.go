package fixture

import (
	"strings"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
)

// DecodeFeed parses the upstream team → fixtures JSON object. Malformed numeric
// fields are zero-filled, non-object fixture entries are skipped, and every team's
// list is stably sorted by gameweek.
func DecodeFeed(raw []byte) (LeagueFixtures, error) {
	var payload map[string]any
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return nil, crerr.Wrap(err, "decode fixture feed")
	}
	if payload == nil {
		return nil, crerr.New("decode fixture feed: expected a JSON object keyed by team")
	}

	out := make(LeagueFixtures, len(payload))
	for team, value := range payload {
		name := strings.TrimSpace(team)
		if name == "" {
			continue
		}

		items, _ := value.([]any)
		fixtures := make(TeamFixtures, 0, len(items))
		for _, item := range items {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			fixtures = append(fixtures, fixtureFromObject(obj))
		}
		fixtures.SortByGameweek()
		out[name] = fixtures
	}

	return out, nil
}

func fixtureFromObject(obj map[string]any) Fixture {
	return Fixture{
		Gameweek:      CoerceRank(obj["gameweek"]),
		HomeAway:      NormalizeHomeAway(coerceString(obj["home_away"])),
		Opponent:      coerceString(obj["opponent"]),
		OpponentShort: coerceString(obj["opponent_short"]),
		XG:            CoerceStat(obj["xG"]),
		XGA:           CoerceStat(obj["xGA"]),
		XGRank:        CoerceRank(obj["xGrank"]),
		XGARank:       CoerceRank(obj["xGArank"]),
	}
}

// EncodeFeed writes the feed in the same shape DecodeFeed reads.
func EncodeFeed(fixtures LeagueFixtures) ([]byte, error) {
	raw, err := sonic.Marshal(fixtures)
	if err != nil {
		return nil, crerr.Wrap(err, "encode fixture feed")
	}
	return raw, nil
}
