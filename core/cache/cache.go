// Package cache memoizes completed non-streaming replies keyed by a request
// fingerprint. The cache is a fixed-capacity, recency-ordered map with
// TTL-bounded entries: insertion evicts the least-recently-used entry when
// full, and an expired entry is treated as absent and physically removed by
// the next lookup that observes the expiry.
//
// The cache is shared state guarded by a single mutex per operation, and it
// degrades rather than fails: when the lock cannot be acquired immediately,
// Lookup reports a miss and Store becomes a no-op, so cache contention never
// surfaces as a request error. Critical sections are map/list operations
// only and are never held across I/O.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// DefaultCapacity bounds the number of retained replies when no explicit
// capacity is given.
const DefaultCapacity = 100

type entry struct {
	key       Fingerprint
	response  string
	createdAt time.Time
	ttl       time.Duration
}

func (e *entry) expired(now time.Time) bool {
	return now.Sub(e.createdAt) > e.ttl
}

// ResponseCache is a bounded, TTL-bounded LRU of completed replies. Safe for
// concurrent use.
type ResponseCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front = most recently used; values are *entry
	elements map[Fingerprint]*list.Element

	now func() time.Time // injectable clock for tests
}

// New creates a ResponseCache holding at most capacity entries. A
// non-positive capacity falls back to [DefaultCapacity].
func New(capacity int) *ResponseCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &ResponseCache{
		capacity: capacity,
		order:    list.New(),
		elements: make(map[Fingerprint]*list.Element, capacity),
		now:      time.Now,
	}
}

// Lookup returns the cached reply for fp if present and not expired, marking
// it most recently used. An entry observed expired is removed and reported
// as a miss. Lock contention also reports a miss.
func (c *ResponseCache) Lookup(fp Fingerprint) (string, bool) {
	if !c.mu.TryLock() {
		return "", false
	}
	defer c.mu.Unlock()

	element, ok := c.elements[fp]
	if !ok {
		return "", false
	}

	cached := element.Value.(*entry)
	if cached.expired(c.now()) {
		c.order.Remove(element)
		delete(c.elements, fp)
		return "", false
	}

	c.order.MoveToFront(element)
	return cached.response, true
}

// Store inserts or replaces the reply for fp with the given TTL, evicting
// the least-recently-used entry when at capacity. Lock contention turns the
// store into a no-op.
func (c *ResponseCache) Store(fp Fingerprint, response string, ttl time.Duration) {
	if !c.mu.TryLock() {
		return
	}
	defer c.mu.Unlock()

	if element, ok := c.elements[fp]; ok {
		cached := element.Value.(*entry)
		cached.response = response
		cached.createdAt = c.now()
		cached.ttl = ttl
		c.order.MoveToFront(element)
		return
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.elements, oldest.Value.(*entry).key)
		}
	}

	c.elements[fp] = c.order.PushFront(&entry{
		key:       fp,
		response:  response,
		createdAt: c.now(),
		ttl:       ttl,
	})
}

// Len returns the number of retained entries, expired or not.
func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
