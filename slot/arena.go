// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package slot provides a generational slot arena.
//
// An Arena hands out Handles that stay valid while their slot is occupied,
// independent of insertions and removals elsewhere. Reclaimed slots are
// reused by later pushes, and every reuse bumps the slot generation so a
// handle retained past its removal resolves to nothing instead of to the
// new occupant.
//
// Arena is not safe for concurrent use.
package slot

import "iter"

// Handle identifies a record in an Arena.
//
// The zero Handle is never issued and can be used as "no handle".
type Handle struct {
	Index uint32
	Gen   uint32
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool { return h.Gen == 0 }

type entry[T any] struct {
	value    T
	gen      uint32
	occupied bool
}

// Arena is a growable array of slots with index reuse.
type Arena[T any] struct {
	entries []entry[T]
	free    []uint32
	live    int
}

// Push stores v and returns its handle. The oldest reclaimed slot is reused
// first; with no reclaimed slots the value is appended.
func (a *Arena[T]) Push(v T) Handle {
	if len(a.free) > 0 {
		idx := a.free[0]
		a.free = a.free[1:]
		e := &a.entries[idx]
		e.value = v
		e.gen++
		e.occupied = true
		a.live++
		return Handle{Index: idx, Gen: e.gen}
	}
	a.entries = append(a.entries, entry[T]{value: v, gen: 1, occupied: true})
	a.live++
	return Handle{Index: uint32(len(a.entries) - 1), Gen: 1}
}

// Reclaim marks the slot of h free for reuse. The stored value is kept until
// the slot is overwritten by a later Push. Reclaiming an out-of-range, stale
// or already free handle does nothing.
func (a *Arena[T]) Reclaim(h Handle) {
	e := a.entry(h)
	if e == nil {
		return
	}
	e.occupied = false
	a.free = append(a.free, h.Index)
	a.live--
}

// Get returns the value stored under h.
func (a *Arena[T]) Get(h Handle) (T, bool) {
	if e := a.entry(h); e != nil {
		return e.value, true
	}
	var zero T
	return zero, false
}

// GetMut returns a pointer to the value stored under h. The pointer is
// invalidated by the next Push.
func (a *Arena[T]) GetMut(h Handle) (*T, bool) {
	if e := a.entry(h); e != nil {
		return &e.value, true
	}
	return nil, false
}

// Set overwrites the value stored under h and reports whether h was live.
func (a *Arena[T]) Set(h Handle, v T) bool {
	e := a.entry(h)
	if e == nil {
		return false
	}
	e.value = v
	return true
}

// Contains reports whether h refers to an occupied slot.
func (a *Arena[T]) Contains(h Handle) bool { return a.entry(h) != nil }

// All iterates over occupied slots in index order.
func (a *Arena[T]) All() iter.Seq2[Handle, T] {
	return func(yield func(Handle, T) bool) {
		for i := range a.entries {
			e := &a.entries[i]
			if !e.occupied {
				continue
			}
			if !yield(Handle{Index: uint32(i), Gen: e.gen}, e.value) {
				return
			}
		}
	}
}

// Values iterates over every slot in index order, including reclaimed ones
// which still yield their last value. It mirrors the layout a GPU buffer
// indexed by slot index needs.
func (a *Arena[T]) Values() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := range a.entries {
			if !yield(i, a.entries[i].value) {
				return
			}
		}
	}
}

// Len returns the number of occupied slots.
func (a *Arena[T]) Len() int { return a.live }

// Cap returns the number of slots, occupied or free.
func (a *Arena[T]) Cap() int { return len(a.entries) }

func (a *Arena[T]) entry(h Handle) *entry[T] {
	if int(h.Index) >= len(a.entries) {
		return nil
	}
	e := &a.entries[h.Index]
	if !e.occupied || e.gen != h.Gen {
		return nil
	}
	return e
}
