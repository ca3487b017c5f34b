package resilience

import "golang.org/x/sync/singleflight"

// Group deduplicates concurrent loads for the same key and returns a typed result.
type Group[T any] struct {
	group singleflight.Group
}

// Do runs fn once per key among concurrent callers. shared reports whether the
// result was handed to more than one caller.
func (g *Group[T]) Do(key string, fn func() (T, error)) (value T, err error, shared bool) {
	raw, err, shared := g.group.Do(key, func() (any, error) {
		return fn()
	})
	if raw != nil {
		value, _ = raw.(T)
	}
	return value, err, shared
}

// Forget drops an in-flight key so the next caller starts a fresh load.
func (g *Group[T]) Forget(key string) {
	g.group.Forget(key)
}
