// Package cache provides the in-memory LRU used by the upstream API
// decorators.
package cache

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// LRU is a thread-safe least-recently-used cache with an optional TTL.
// A zero TTL keeps entries until they are evicted by size.
type LRU[K comparable, V any] struct {
	maxEntries int
	ttl        time.Duration
	clock      clockwork.Clock

	mu      sync.Mutex
	entries map[K]*entry[K, V]
	head    *entry[K, V] // most recently used
	tail    *entry[K, V] // least recently used
}

type entry[K comparable, V any] struct {
	key     K
	value   V
	expires time.Time
	prev    *entry[K, V]
	next    *entry[K, V]
}

// New creates an LRU holding at most maxEntries values (minimum 1). A nil
// clock uses real time.
func New[K comparable, V any](maxEntries int, ttl time.Duration, clock clockwork.Clock) *LRU[K, V] {
	if maxEntries < 1 {
		maxEntries = 1
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &LRU[K, V]{
		maxEntries: maxEntries,
		ttl:        ttl,
		clock:      clock,
		entries:    make(map[K]*entry[K, V]),
	}
}

// Get returns the value for key if present and not expired.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if c.ttl > 0 && !c.clock.Now().Before(e.expires) {
		c.remove(e)
		delete(c.entries, key)
		return zero, false
	}
	c.moveToFront(e)
	return e.value, true
}

// Put stores value under key, evicting the least recently used entry when
// the cache is full.
func (c *LRU[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expires time.Time
	if c.ttl > 0 {
		expires = c.clock.Now().Add(c.ttl)
	}

	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expires = expires
		c.moveToFront(e)
		return
	}

	e := &entry[K, V]{key: key, value: value, expires: expires}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

// Len returns the number of stored entries, including expired ones not yet
// looked up.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *LRU[K, V]) moveToFront(e *entry[K, V]) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *LRU[K, V]) addToFront(e *entry[K, V]) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *LRU[K, V]) remove(e *entry[K, V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *LRU[K, V]) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
