package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/fpl-fixture-difficulty/internal/platform/resilience"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Store is an in-process TTL cache. A ttl <= 0 keeps entries until deleted.
// Deletes bump a generation so loads started before them never write back.
type Store[V any] struct {
	mu       sync.RWMutex
	entries  map[string]entry[V]
	inflight map[string]int
	gen      uint64
	ttl      time.Duration
	flight   resilience.Group[V]
	now      func() time.Time
}

func NewStore[V any](ttl time.Duration) *Store[V] {
	return &Store[V]{
		entries:  make(map[string]entry[V]),
		inflight: make(map[string]int),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *Store[V]) Get(_ context.Context, key string) (V, bool) {
	var zero V
	if key == "" {
		return zero, false
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if s.ttl > 0 && !e.expiresAt.After(s.now()) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return zero, false
	}

	return e.value, true
}

func (s *Store[V]) Set(_ context.Context, key string, value V) {
	if key == "" {
		return
	}

	expiresAt := time.Time{}
	if s.ttl > 0 {
		expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[key] = entry[V]{value: value, expiresAt: expiresAt}
	s.mu.Unlock()
}

func (s *Store[V]) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.gen++
	s.mu.Unlock()
	s.flight.Forget(key)
}

func (s *Store[V]) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}

	s.mu.Lock()
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
	loading := make([]string, 0, len(s.inflight))
	for key := range s.inflight {
		if strings.HasPrefix(key, prefix) {
			loading = append(loading, key)
		}
	}
	s.gen++
	s.mu.Unlock()

	for _, key := range loading {
		s.flight.Forget(key)
	}
}

func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// GetOrLoad returns the cached value for key or runs loader once across concurrent
// callers. Loader errors are not cached.
func (s *Store[V]) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (V, error)) (V, error) {
	var zero V
	if loader == nil {
		return zero, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (V, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		gen := s.beginLoad(key)
		loaded, loadErr := loader(ctx)
		stale := s.endLoad(key, gen)
		if loadErr != nil {
			return zero, loadErr
		}
		if !stale {
			s.Set(ctx, key, loaded)
		}
		return loaded, nil
	})
	if err != nil {
		return zero, err
	}

	return value, nil
}

func (s *Store[V]) beginLoad(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight[key]++
	return s.gen
}

// endLoad reports whether a delete happened while key was loading.
func (s *Store[V]) endLoad(key string, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[key] <= 1 {
		delete(s.inflight, key)
	} else {
		s.inflight[key]--
	}
	return s.gen != gen
}
