package fixture

import "context"

// Repository exposes the league fixture feed.
type Repository interface {
	ListTeamFixtures(ctx context.Context) (LeagueFixtures, error)
}

// Refresher is implemented by sources that can drop cached data or reload it.
type Refresher interface {
	Refresh(ctx context.Context) error
}
