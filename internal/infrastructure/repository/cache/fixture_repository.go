package cache

import (
	"context"

	"github.com/riskibarqy/fpl-fixture-difficulty/internal/domain/fixture"
	basecache "github.com/riskibarqy/fpl-fixture-difficulty/internal/platform/cache"
)

const fixtureFeedKey = "fixture:feed"

// FixtureRepository caches the upstream feed and collapses concurrent loads.
type FixtureRepository struct {
	next  fixture.Repository
	cache *basecache.Store[fixture.LeagueFixtures]
}

var (
	_ fixture.Repository = (*FixtureRepository)(nil)
	_ fixture.Refresher  = (*FixtureRepository)(nil)
)

func NewFixtureRepository(next fixture.Repository, cache *basecache.Store[fixture.LeagueFixtures]) *FixtureRepository {
	return &FixtureRepository{next: next, cache: cache}
}

func (r *FixtureRepository) ListTeamFixtures(ctx context.Context) (fixture.LeagueFixtures, error) {
	v, err := r.cache.GetOrLoad(ctx, fixtureFeedKey, func(ctx context.Context) (fixture.LeagueFixtures, error) {
		items, err := r.next.ListTeamFixtures(ctx)
		if err != nil {
			return nil, err
		}
		return items.Clone(), nil
	})
	if err != nil {
		return nil, err
	}

	return v.Clone(), nil
}

// Refresh reloads the wrapped source when it supports it, then drops the cached
// feed. A failed reload leaves the cache untouched.
func (r *FixtureRepository) Refresh(ctx context.Context) error {
	if refresher, ok := r.next.(fixture.Refresher); ok {
		if err := refresher.Refresh(ctx); err != nil {
			return err
		}
	}
	r.cache.Delete(ctx, fixtureFeedKey)
	return nil
}
