// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cache

import "testing"

func TestLRUGetPut(t *testing.T) {
	c := New[string, int](2)
	c.Put("a", 1)
	c.Put("b", 2)

	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("Get(a) = %d, %v; want 1, true", v, ok)
	}
	// "b" is now least recently used.
	c.Put("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	for _, k := range []string{"a", "c"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("%s missing", k)
		}
	}
	if got := c.Stats().Evictions; got != 1 {
		t.Errorf("Evictions = %d, want 1", got)
	}
}

func TestLRUPutOverwrites(t *testing.T) {
	c := New[int, string](0)
	c.Put(1, "x")
	c.Put(1, "y")
	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}
	if v, _ := c.Get(1); v != "y" {
		t.Errorf("Get(1) = %q, want y", v)
	}
}

func TestLRUGetOrCreate(t *testing.T) {
	c := New[int, int](4)
	calls := 0
	create := func() int { calls++; return 42 }

	for range 3 {
		if v := c.GetOrCreate(7, create); v != 42 {
			t.Fatalf("GetOrCreate = %d, want 42", v)
		}
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}
	s := c.Stats()
	if s.Hits != 2 || s.Misses != 1 || s.Len != 1 {
		t.Errorf("Stats = %+v", s)
	}
}

func TestLRUDeleteAndClear(t *testing.T) {
	c := New[int, int](3)
	for i := range 3 {
		c.Put(i, i)
	}
	if !c.Delete(1) {
		t.Error("Delete(1) = false")
	}
	if c.Delete(1) {
		t.Error("second Delete(1) = true")
	}
	// Deleting the middle entry must keep the list intact.
	c.Put(3, 3)
	c.Put(4, 4)
	if _, ok := c.Get(0); ok {
		t.Error("0 should have been evicted")
	}

	c.Clear()
	if c.Len() != 0 || c.Stats() != (Stats{}) {
		t.Errorf("after Clear: len %d stats %+v", c.Len(), c.Stats())
	}
	c.Put(9, 9)
	if v, ok := c.Get(9); !ok || v != 9 {
		t.Error("cache unusable after Clear")
	}
}
