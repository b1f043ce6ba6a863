// Package cache provides a bounded, time-expiring, least-recently-used cache.
//
// LRU is safe for concurrent use. Every operation takes the same mutex, and
// the recency order is only updated by Set and by successful Get calls.
//
//	c := cache.New[*Result](cache.WithCapacity(100), cache.WithTTL(time.Hour))
//	c.Set(key, result)
//	if r, ok := c.Get(key); ok {
//	    // fresh hit
//	}
//
// Expired entries are removed lazily when they are looked up, and such a
// lookup counts as a miss in HitRate.
package cache
