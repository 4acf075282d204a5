// Package pipecache provides a sharded LRU cache keyed by 64-bit hashes.
//
// Pipeline lookups happen on every bind in hot recording loops and may come
// from several goroutines recording independent command buffers, so the
// cache is split into shards selected by the key's low bits. Keys are
// already hashes; no further mixing is needed for shard selection.
package pipecache

import (
	"sync"
	"sync/atomic"
)

const (
	// shardCount must be a power of two for mask-based shard selection.
	shardCount = 8
	shardMask  = shardCount - 1

	// DefaultCapacity is the per-shard entry limit when none is given.
	DefaultCapacity = 128
)

// Cache is a thread-safe sharded LRU cache. The zero value is not usable;
// call New.
type Cache[V any] struct {
	shards   [shardCount]shard[V]
	capacity int

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type shard[V any] struct {
	mu      sync.Mutex
	entries map[uint64]*entry[V]
	// Intrusive doubly-linked LRU order. head is most recently used.
	head, tail *entry[V]
}

type entry[V any] struct {
	key        uint64
	value      V
	prev, next *entry[V]
}

// New creates a cache holding up to capacity entries per shard.
func New[V any](capacity int) *Cache[V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &Cache[V]{capacity: capacity}
	for i := range c.shards {
		c.shards[i].entries = make(map[uint64]*entry[V])
	}
	return c
}

func (c *Cache[V]) shard(key uint64) *shard[V] {
	return &c.shards[key&shardMask]
}

// Get returns the cached value for key and refreshes its recency.
func (c *Cache[V]) Get(key uint64) (V, bool) {
	s := c.shard(key)
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		s.mu.Unlock()
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	s.moveToFront(e)
	v := e.value
	s.mu.Unlock()
	c.hits.Add(1)
	return v, true
}

// GetOrCreate returns the cached value for key, building and inserting it on
// a miss. The build function runs with the shard locked so concurrent
// lookups of the same key build at most once; keep it cheap.
func (c *Cache[V]) GetOrCreate(key uint64, build func() V) V {
	s := c.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		s.moveToFront(e)
		c.hits.Add(1)
		return e.value
	}
	c.misses.Add(1)

	v := build()
	for len(s.entries) >= c.capacity {
		c.evictOldest(s)
	}
	s.insert(key, v)
	return v
}

// Put inserts or replaces the value for key.
func (c *Cache[V]) Put(key uint64, v V) {
	s := c.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		e.value = v
		s.moveToFront(e)
		return
	}
	for len(s.entries) >= c.capacity {
		c.evictOldest(s)
	}
	s.insert(key, v)
}

// Len returns the total entry count across shards.
func (c *Cache[V]) Len() int {
	n := 0
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		n += len(s.entries)
		s.mu.Unlock()
	}
	return n
}

// Clear drops every entry. Statistics are kept.
func (c *Cache[V]) Clear() {
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		s.entries = make(map[uint64]*entry[V])
		s.head, s.tail = nil, nil
		s.mu.Unlock()
	}
}

// Stats is a point-in-time snapshot of cache effectiveness counters.
type Stats struct {
	Len       int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Stats returns current counters.
func (c *Cache[V]) Stats() Stats {
	return Stats{
		Len:       c.Len(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}

func (c *Cache[V]) evictOldest(s *shard[V]) {
	e := s.tail
	if e == nil {
		return
	}
	s.unlink(e)
	delete(s.entries, e.key)
	c.evictions.Add(1)
}

func (s *shard[V]) insert(key uint64, v V) {
	e := &entry[V]{key: key, value: v}
	e.next = s.head
	if s.head != nil {
		s.head.prev = e
	}
	s.head = e
	if s.tail == nil {
		s.tail = e
	}
	s.entries[key] = e
}

func (s *shard[V]) moveToFront(e *entry[V]) {
	if e == s.head {
		return
	}
	s.unlink(e)
	e.next = s.head
	if s.head != nil {
		s.head.prev = e
	}
	s.head = e
	if s.tail == nil {
		s.tail = e
	}
}

func (s *shard[V]) unlink(e *entry[V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		s.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		s.tail = e.prev
	}
	e.prev, e.next = nil, nil
}
