// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"fmt"
	"iter"
	"slices"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/homescreen/slot"
	"github.com/gogpu/wgpu/hal"
)

// SyncStats describes the GPU work performed by one SyncedBuffer.Sync call.
type SyncStats struct {
	// Reallocated is true when a new GPU buffer replaced the previous one.
	Reallocated bool
	// BytesWritten is the number of bytes uploaded through the queue.
	BytesWritten int
}

// SyncedBuffer is a CPU-resident array of fixed-layout records mirrored into
// a single GPU buffer.
//
// Records live in a slot arena, so the GPU layout is indexed exactly like the
// arena: the record of handle h sits at byte offset h.Index*Stride. Push marks
// the buffer for expansion and Set marks it for rewrite; nothing reaches the
// GPU until Sync.
//
// SyncedBuffer is not safe for concurrent use.
type SyncedBuffer[T any] struct {
	label  string
	usage  gputypes.BufferUsage
	stride int
	encode func(dst []byte, v T)

	items    slot.Arena[T]
	buf      hal.Buffer
	capacity int // records the GPU buffer can hold
	scratch  []byte

	expand bool
	update bool
}

// NewSyncedBuffer creates an empty buffer. Every record is encoded by encode
// into exactly stride bytes. COPY_DST is always added to usage.
func NewSyncedBuffer[T any](label string, usage gputypes.BufferUsage, stride int, encode func(dst []byte, v T)) *SyncedBuffer[T] {
	return &SyncedBuffer[T]{
		label:  label,
		usage:  usage | gputypes.BufferUsageCopyDst,
		stride: stride,
		encode: encode,
	}
}

// Push appends or reuses a slot for v and flags the buffer for expansion.
func (b *SyncedBuffer[T]) Push(v T) slot.Handle {
	b.expand = true
	return b.items.Push(v)
}

// Set overwrites the record of h and flags the buffer for rewrite. It
// reports false, and flags nothing, when h is not live.
func (b *SyncedBuffer[T]) Set(h slot.Handle, v T) bool {
	if !b.items.Set(h, v) {
		return false
	}
	b.update = true
	return true
}

// Get returns the CPU copy of the record of h.
func (b *SyncedBuffer[T]) Get(h slot.Handle) (T, bool) {
	return b.items.Get(h)
}

// Remove frees the slot of h for reuse. The GPU copy is left as is because
// nothing draws a freed slot.
func (b *SyncedBuffer[T]) Remove(h slot.Handle) {
	b.items.Reclaim(h)
}

// All iterates over live records in slot order.
func (b *SyncedBuffer[T]) All() iter.Seq2[slot.Handle, T] {
	return b.items.All()
}

// Len returns the number of live records.
func (b *SyncedBuffer[T]) Len() int { return b.items.Len() }

// Slots returns the number of record slots the GPU layout spans.
func (b *SyncedBuffer[T]) Slots() int { return b.items.Cap() }

// Stride returns the size in bytes of one encoded record.
func (b *SyncedBuffer[T]) Stride() int { return b.stride }

// Capacity returns how many records the current GPU buffer can hold.
func (b *SyncedBuffer[T]) Capacity() int { return b.capacity }

// Dirty reports whether the next Sync has work to do.
func (b *SyncedBuffer[T]) Dirty() bool { return b.expand || b.update }

// Buffer returns the current GPU buffer, or nil before the first Sync. A
// later Sync may replace it, so do not keep it across frames.
func (b *SyncedBuffer[T]) Buffer() hal.Buffer { return b.buf }

// Sync makes the GPU buffer match the CPU mirror.
//
// With the expand flag set the buffer is reallocated if it is too small
// (capacity doubles, or grows to fit if doubling is not enough) and then
// fully rewritten. With only the update flag set the contents are rewritten
// in place. With neither flag set Sync does nothing.
func (b *SyncedBuffer[T]) Sync(device hal.Device, queue hal.Queue) (SyncStats, error) {
	var stats SyncStats
	if !b.expand && !b.update {
		return stats, nil
	}

	n := b.items.Cap()
	if n == 0 {
		b.expand, b.update = false, false
		return stats, nil
	}

	if b.buf == nil || (b.expand && n > b.capacity) {
		newCap := max(n, b.capacity*2)
		buf, err := device.CreateBuffer(&hal.BufferDescriptor{
			Label: b.label,
			Size:  uint64(newCap * b.stride),
			Usage: b.usage,
		})
		if err != nil {
			return stats, fmt.Errorf("create %s buffer: %w", b.label, err)
		}
		if b.buf != nil {
			device.DestroyBuffer(b.buf)
		}
		Logger().Debug("synced buffer reallocated",
			"label", b.label, "records", n, "capacity", newCap)
		b.buf = buf
		b.capacity = newCap
		stats.Reallocated = true
	}

	data := b.bytes(n)
	if err := queue.WriteBuffer(b.buf, 0, data); err != nil {
		// Flags stay set so the next Sync writes again.
		return stats, fmt.Errorf("write %s buffer: %w", b.label, err)
	}
	stats.BytesWritten = len(data)

	b.expand, b.update = false, false
	return stats, nil
}

// Bytes returns a copy of the encoded CPU mirror, one record per slot.
func (b *SyncedBuffer[T]) Bytes() []byte {
	return slices.Clone(b.bytes(b.items.Cap()))
}

func (b *SyncedBuffer[T]) bytes(n int) []byte {
	size := n * b.stride
	if cap(b.scratch) < size {
		b.scratch = make([]byte, size)
	}
	data := b.scratch[:size]
	for i, v := range b.items.Values() {
		b.encode(data[i*b.stride:(i+1)*b.stride], v)
	}
	return data
}

// Destroy releases the GPU buffer. The CPU mirror is kept, and the next Sync
// after a Push recreates the buffer.
func (b *SyncedBuffer[T]) Destroy(device hal.Device) {
	if b.buf != nil {
		device.DestroyBuffer(b.buf)
		b.buf = nil
		b.capacity = 0
	}
}
