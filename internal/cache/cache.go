// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package cache provides a small generic LRU cache.
//
// LRU is not safe for concurrent use. It backs per-brush caches that are
// only touched from the render goroutine.
package cache

// LRU is a least-recently-used cache bounded by an entry count.
type LRU[K comparable, V any] struct {
	limit int
	items map[K]*node[K, V]
	head  *node[K, V] // most recently used
	tail  *node[K, V] // least recently used
	stats Stats
}

type node[K comparable, V any] struct {
	key   K
	value V
	prev  *node[K, V]
	next  *node[K, V]
}

// Stats counts cache activity since creation or the last Clear.
type Stats struct {
	Len       int
	Hits      int
	Misses    int
	Evictions int
}

// New creates a cache holding at most limit entries.
// A limit of 0 or less means unbounded.
func New[K comparable, V any](limit int) *LRU[K, V] {
	return &LRU[K, V]{
		limit: limit,
		items: make(map[K]*node[K, V]),
	}
}

// Get returns the value for key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	n, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		var zero V
		return zero, false
	}
	c.stats.Hits++
	c.moveToFront(n)
	return n.value, true
}

// Put stores value under key, evicting the least recently used entry
// when the cache is full.
func (c *LRU[K, V]) Put(key K, value V) {
	if n, ok := c.items[key]; ok {
		n.value = value
		c.moveToFront(n)
		return
	}
	n := &node[K, V]{key: key, value: value}
	c.items[key] = n
	c.pushFront(n)
	if c.limit > 0 && len(c.items) > c.limit {
		old := c.tail
		c.unlink(old)
		delete(c.items, old.key)
		c.stats.Evictions++
	}
}

// GetOrCreate returns the cached value for key, calling create and storing
// its result on a miss.
func (c *LRU[K, V]) GetOrCreate(key K, create func() V) V {
	if v, ok := c.Get(key); ok {
		return v
	}
	v := create()
	c.Put(key, v)
	return v
}

// Delete removes key. It reports whether the key was present.
func (c *LRU[K, V]) Delete(key K) bool {
	n, ok := c.items[key]
	if !ok {
		return false
	}
	c.unlink(n)
	delete(c.items, key)
	return true
}

// Clear drops every entry and resets the counters.
func (c *LRU[K, V]) Clear() {
	c.items = make(map[K]*node[K, V])
	c.head, c.tail = nil, nil
	c.stats = Stats{}
}

// Len returns the number of cached entries.
func (c *LRU[K, V]) Len() int { return len(c.items) }

// Stats returns a snapshot of the counters.
func (c *LRU[K, V]) Stats() Stats {
	s := c.stats
	s.Len = len(c.items)
	return s
}

func (c *LRU[K, V]) pushFront(n *node[K, V]) {
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

func (c *LRU[K, V]) moveToFront(n *node[K, V]) {
	if n == c.head {
		return
	}
	c.unlink(n)
	c.pushFront(n)
}

func (c *LRU[K, V]) unlink(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
	n.prev, n.next = nil, nil
}
