package memory

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/riskibarqy/fpl-fixture-difficulty/internal/domain/fixture"
)

// FixtureRepository serves a fixed feed. Callers always get a copy. A repository
// loaded from a file re-reads it on Refresh.
type FixtureRepository struct {
	mu       sync.RWMutex
	fixtures fixture.LeagueFixtures
	path     string
}

var (
	_ fixture.Repository = (*FixtureRepository)(nil)
	_ fixture.Refresher  = (*FixtureRepository)(nil)
)

func NewFixtureRepository(fixtures fixture.LeagueFixtures) *FixtureRepository {
	stored := fixtures.Clone()
	for _, list := range stored {
		list.SortByGameweek()
	}
	return &FixtureRepository{fixtures: stored}
}

// NewFixtureRepositoryFromFile loads a team → fixtures JSON feed from disk.
func NewFixtureRepositoryFromFile(path string) (*FixtureRepository, error) {
	feed, err := readFeedFile(path)
	if err != nil {
		return nil, err
	}
	return &FixtureRepository{fixtures: feed, path: path}, nil
}

// Refresh re-reads the backing file. The served feed is kept when the file is unreadable.
func (r *FixtureRepository) Refresh(_ context.Context) error {
	if r.path == "" {
		return nil
	}
	feed, err := readFeedFile(r.path)
	if err != nil {
		return err
	}
	r.Replace(feed)
	return nil
}

func readFeedFile(path string) (fixture.LeagueFixtures, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture feed %s: %w", path, err)
	}

	feed, err := fixture.DecodeFeed(raw)
	if err != nil {
		return nil, fmt.Errorf("load fixture feed %s: %w", path, err)
	}
	return feed, nil
}

func (r *FixtureRepository) ListTeamFixtures(_ context.Context) (fixture.LeagueFixtures, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.fixtures.Clone(), nil
}

// Replace swaps the served feed.
func (r *FixtureRepository) Replace(fixtures fixture.LeagueFixtures) {
	stored := fixtures.Clone()
	for _, list := range stored {
		list.SortByGameweek()
	}

	r.mu.Lock()
	r.fixtures = stored
	r.mu.Unlock()
}
