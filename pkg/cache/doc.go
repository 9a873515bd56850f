// Package cache provides a generic TTL cache with in-memory and Redis backends.
//
// Sitegear uses it in two places: parsed form definitions are kept in a
// [Memory] cache keyed by file path, and visitor sessions are stored through
// either backend by pkg/session.
//
// TTL semantics for Set:
//   - positive: the entry expires after the duration
//   - zero: the backend's default TTL
//   - negative: the entry never expires
//
// [GetOrSet] collapses concurrent misses on the same key into one load:
//
//	def, err := cache.GetOrSet(ctx, defs, path, func(ctx context.Context) (map[string]any, time.Duration, error) {
//	    d, err := load(path)
//	    return d, -1, err
//	})
package cache
