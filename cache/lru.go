package cache

import (
	"container/list"
	"sync"
	"time"
)

// Defaults used when no option overrides them.
const (
	DefaultCapacity = 100
	DefaultTTL      = time.Hour
)

// Entry is a cached value with its insertion time.
type Entry[V any] struct {
	Key       string
	Value     V
	CreatedAt time.Time
	TTL       time.Duration
}

// Expired reports whether now is past CreatedAt+TTL. A zero TTL never expires.
func (e *Entry[V]) Expired(now time.Time) bool {
	if e.TTL <= 0 {
		return false
	}
	return now.After(e.CreatedAt.Add(e.TTL))
}

// LRU is a capacity-bounded cache with per-entry TTL.
type LRU[V any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	now      func() time.Time

	order *list.List // front = most recently used
	items map[string]*list.Element

	hits   uint64
	misses uint64
}

// Option configures an LRU.
type Option func(*options)

type options struct {
	capacity int
	ttl      time.Duration
	now      func() time.Time
}

// WithCapacity sets the maximum number of entries. Values < 1 keep the default.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithTTL sets the time-to-live for new entries. Zero disables expiry.
func WithTTL(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.ttl = d
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// New creates an empty cache.
func New[V any](opts ...Option) *LRU[V] {
	o := options{
		capacity: DefaultCapacity,
		ttl:      DefaultTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &LRU[V]{
		capacity: o.capacity,
		ttl:      o.ttl,
		now:      o.now,
		order:    list.New(),
		items:    make(map[string]*list.Element, o.capacity),
	}
}

// Get returns the value stored under key. Absent and expired entries are
// misses; an expired entry is evicted on the way out.
func (c *LRU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.items[key]
	if !ok {
		c.misses++
		return zero, false
	}

	entry := el.Value.(*Entry[V])
	if entry.Expired(c.now()) {
		c.removeElement(el)
		c.misses++
		return zero, false
	}

	c.order.MoveToFront(el)
	c.hits++
	return entry.Value, true
}

// Set stores value under key, making it the most recently used entry.
// When the cache is full the least recently used entry is evicted first.
func (c *LRU[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}

	for c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.removeElement(oldest)
	}

	entry := &Entry[V]{
		Key:       key,
		Value:     value,
		CreatedAt: c.now(),
		TTL:       c.ttl,
	}
	c.items[key] = c.order.PushFront(entry)
}

// Delete removes key and reports whether it was present.
func (c *LRU[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return false
	}
	c.removeElement(el)
	return true
}

// Clear empties the cache and returns how many entries it held.
// Hit and miss counters are kept.
func (c *LRU[V]) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.order.Len()
	c.order.Init()
	c.items = make(map[string]*list.Element, c.capacity)
	return n
}

// Len returns the number of stored entries, including expired ones that
// have not been looked up yet.
func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// HitRate returns hits/(hits+misses) as a percentage, or 0 before any lookup.
func (c *LRU[V]) HitRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total) * 100
}

// Stats returns the raw hit and miss counters.
func (c *LRU[V]) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Keys returns keys from most to least recently used.
func (c *LRU[V]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*Entry[V]).Key)
	}
	return keys
}

func (c *LRU[V]) removeElement(el *list.Element) {
	entry := c.order.Remove(el).(*Entry[V])
	delete(c.items, entry.Key)
}
