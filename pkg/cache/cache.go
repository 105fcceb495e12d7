// Package cache provides a generic in-memory key/value cache with per-entry
// time-to-live expiry.
//
// Expiry is evaluated lazily: an entry past its deadline is treated as
// absent and physically removed on the next lookup of that key. There is no
// background sweep. The cache is bounded: when the configured capacity is
// reached, the least recently used entry is evicted to make room.
//
// All operations are thread-safe.
package cache

import (
	"sync"
	"time"
)

// Clock provides an abstraction for time operations to enable testing.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// SystemClock is a Clock implementation backed by the system time.
type SystemClock struct{}

// Now returns the current system time.
func (c *SystemClock) Now() time.Time {
	return time.Now()
}

// entry holds a cached value and its expiry deadline. An entry is logically
// absent once the clock passes ExpiresAt, even while it still occupies
// memory.
type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Config holds construction parameters for a TTLCache.
type Config struct {
	// Name identifies this cache instance in metrics labels (e.g.
	// "search", "detail").
	Name string

	// MaxEntries caps the number of live entries. Zero or negative values
	// fall back to DefaultMaxEntries.
	MaxEntries int

	// Clock provides time operations. Defaults to SystemClock.
	Clock Clock

	// Metrics records cache activity. Defaults to NoopMetrics.
	Metrics Metrics
}

// DefaultMaxEntries is the entry cap applied when none is configured.
const DefaultMaxEntries = 10000

// TTLCache is a bounded, thread-safe TTL cache keyed by any comparable type.
type TTLCache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*entry[V]
	lru     *lruList[K]

	name       string
	maxEntries int
	clock      Clock
	metrics    Metrics
}

// New creates a TTLCache with the given configuration.
func New[K comparable, V any](cfg Config) *TTLCache[K, V] {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultMaxEntries
	}
	if cfg.Clock == nil {
		cfg.Clock = &SystemClock{}
	}
	if cfg.Metrics == nil {
		cfg.Metrics = &NoopMetrics{}
	}

	return &TTLCache[K, V]{
		entries:    make(map[K]*entry[V]),
		lru:        newLRUList[K](),
		name:       cfg.Name,
		maxEntries: cfg.MaxEntries,
		clock:      cfg.Clock,
		metrics:    cfg.Metrics,
	}
}

// Get returns the value stored under key, or the zero value and false when
// the key is absent or its entry has expired. Expired entries are removed
// during the lookup.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V

	e, ok := c.entries[key]
	if !ok {
		c.metrics.RecordMiss(c.name)
		return zero, false
	}

	if c.clock.Now().After(e.expiresAt) {
		delete(c.entries, key)
		c.lru.remove(key)
		c.metrics.RecordExpired(c.name)
		c.metrics.RecordMiss(c.name)
		c.metrics.SetEntryCount(c.name, len(c.entries))
		return zero, false
	}

	c.lru.touch(key)
	c.metrics.RecordHit(c.name)
	return e.value, true
}

// Set stores value under key with the given TTL, unconditionally
// overwriting any prior entry for that key. Inserting a new key at capacity
// evicts the least recently used entry first.
func (c *TTLCache[K, V]) Set(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictLRU()
	}

	c.entries[key] = &entry[V]{
		value:     value,
		expiresAt: c.clock.Now().Add(ttl),
	}
	c.lru.touch(key)
	c.metrics.SetEntryCount(c.name, len(c.entries))
}

// Len returns the number of entries physically present, including entries
// that have expired but have not been looked up since.
func (c *TTLCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictLRU removes the least recently used entry. Must be called with the
// lock held.
func (c *TTLCache[K, V]) evictLRU() {
	if c.lru.tail == nil {
		return
	}
	key := c.lru.tail.key
	delete(c.entries, key)
	c.lru.remove(key)
	c.metrics.RecordEviction(c.name, 1)
}

// lruList maintains a doubly-linked list of keys ordered by last access.
type lruList[K comparable] struct {
	head *lruNode[K]
	tail *lruNode[K]
	keys map[K]*lruNode[K]
}

type lruNode[K comparable] struct {
	key  K
	prev *lruNode[K]
	next *lruNode[K]
}

func newLRUList[K comparable]() *lruList[K] {
	return &lruList[K]{keys: make(map[K]*lruNode[K])}
}

// touch moves key to the most recently used position, inserting it if
// absent.
func (l *lruList[K]) touch(key K) {
	if node, exists := l.keys[key]; exists {
		l.unlink(node)
		l.pushFront(node)
		return
	}

	node := &lruNode[K]{key: key}
	l.keys[key] = node
	l.pushFront(node)
}

// remove deletes key from the list if present.
func (l *lruList[K]) remove(key K) {
	node, exists := l.keys[key]
	if !exists {
		return
	}
	l.unlink(node)
	delete(l.keys, key)
}

func (l *lruList[K]) pushFront(node *lruNode[K]) {
	node.prev = nil
	node.next = l.head
	if l.head != nil {
		l.head.prev = node
	}
	l.head = node
	if l.tail == nil {
		l.tail = node
	}
}

func (l *lruList[K]) unlink(node *lruNode[K]) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}
	node.prev = nil
	node.next = nil
}
