package ratelimit

import (
	"context"
	"sync"
	"time"
)

// InMemoryStore is a thread-safe in-memory implementation of Store.
//
// Request timestamps are kept per key. Stale timestamps are pruned when the
// key is accessed (there is no background sweep) and the pruned window is
// written back whether or not the request is admitted. The store is bounded:
// when the configured key cap is reached, the least recently used keys are
// evicted.
type InMemoryStore struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	maxKeys  int

	lru *lruList
}

// InMemoryStoreConfig holds configuration for InMemoryStore.
type InMemoryStoreConfig struct {
	// MaxKeys is the maximum number of keys tracked. Least recently used
	// keys are evicted beyond this count. Default: 10000.
	MaxKeys int
}

// NewInMemoryStore creates an in-memory store with the given configuration.
func NewInMemoryStore(cfg InMemoryStoreConfig) *InMemoryStore {
	if cfg.MaxKeys <= 0 {
		cfg.MaxKeys = 10000
	}
	return &InMemoryStore{
		requests: make(map[string][]time.Time),
		maxKeys:  cfg.MaxKeys,
		lru:      newLRUList(),
	}
}

// CheckAndAdd atomically prunes, counts, and conditionally records a request
// for key.
//
// Steps, all under one lock acquisition:
//  1. Drop timestamps before cutoff and write the pruned window back.
//  2. If the pruned count is at or above limit, deny without recording.
//  3. Otherwise append timestamp and admit.
func (s *InMemoryStore) CheckAndAdd(ctx context.Context, key string, timestamp, cutoff time.Time, limit int) (bool, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	window, exists := s.requests[key]
	if !exists && len(s.requests) >= s.maxKeys {
		s.evictLRU()
	}

	// Prune in place: keep timestamps at or after the window start.
	pruned := window[:0]
	for _, ts := range window {
		if !ts.Before(cutoff) {
			pruned = append(pruned, ts)
		}
	}

	if len(pruned) >= limit {
		s.requests[key] = pruned
		s.lru.touch(key)
		return false, len(pruned), nil
	}

	pruned = append(pruned, timestamp)
	s.requests[key] = pruned
	s.lru.touch(key)
	return true, len(pruned), nil
}

// KeyCount returns the number of keys currently tracked.
func (s *InMemoryStore) KeyCount(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests), nil
}

// evictLRU removes the least recently used key. Must be called with the
// lock held.
func (s *InMemoryStore) evictLRU() {
	if s.lru.tail == nil {
		return
	}
	key := s.lru.tail.key
	delete(s.requests, key)
	s.lru.remove(key)
}

// lruList maintains a doubly-linked list of keys ordered by last access.
type lruList struct {
	head *lruNode
	tail *lruNode
	keys map[string]*lruNode
}

type lruNode struct {
	key  string
	prev *lruNode
	next *lruNode
}

func newLRUList() *lruList {
	return &lruList{keys: make(map[string]*lruNode)}
}

// touch moves key to the most recently used position, inserting it if
// absent.
func (l *lruList) touch(key string) {
	if node, exists := l.keys[key]; exists {
		l.unlink(node)
		l.pushFront(node)
		return
	}

	node := &lruNode{key: key}
	l.keys[key] = node
	l.pushFront(node)
}

// remove deletes key from the list if present.
func (l *lruList) remove(key string) {
	node, exists := l.keys[key]
	if !exists {
		return
	}
	l.unlink(node)
	delete(l.keys, key)
}

func (l *lruList) pushFront(node *lruNode) {
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

func (l *lruList) unlink(node *lruNode) {
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
