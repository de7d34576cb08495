// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/homescreen/internal/gputest"
)

func encodeU32(dst []byte, v uint32) { binary.LittleEndian.PutUint32(dst, v) }

func newTestBuffer() *SyncedBuffer[uint32] {
	return NewSyncedBuffer("test_records", gputypes.BufferUsageVertex, 4, encodeU32)
}

func TestSyncedBufferIdleSyncDoesNothing(t *testing.T) {
	device, queue := gputest.NoopDevice(t)
	b := newTestBuffer()

	stats, err := b.Sync(device, queue)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if stats != (SyncStats{}) {
		t.Errorf("empty sync stats = %+v, want zero", stats)
	}
	if b.Buffer() != nil {
		t.Error("empty buffer allocated GPU memory")
	}
}

func TestSyncedBufferSecondSyncIsIdempotent(t *testing.T) {
	device, queue := gputest.NoopDevice(t)
	b := newTestBuffer()
	b.Push(1)

	first, err := b.Sync(device, queue)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if first.BytesWritten != 4 {
		t.Errorf("first sync wrote %d bytes, want 4", first.BytesWritten)
	}
	second, err := b.Sync(device, queue)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if second != (SyncStats{}) {
		t.Errorf("second sync = %+v, want no GPU work", second)
	}
	if b.Dirty() {
		t.Error("buffer still dirty after sync")
	}
}

func TestSyncedBufferExpandReallocatesOnce(t *testing.T) {
	for _, n := range []int{1, 3, 17, 100} {
		dev, queue := gputest.NoopDevice(t)
		device := gputest.NewCountingDevice(dev)
		b := newTestBuffer()
		for i := range n {
			b.Push(uint32(i))
		}

		stats, err := b.Sync(device, queue)
		if err != nil {
			t.Fatalf("n=%d: Sync: %v", n, err)
		}
		if !stats.Reallocated {
			t.Errorf("n=%d: expected reallocation", n)
		}
		if got := device.Buffers["test_records"]; got != 1 {
			t.Errorf("n=%d: created %d buffers, want 1", n, got)
		}
		if stats.BytesWritten != n*4 {
			t.Errorf("n=%d: wrote %d bytes, want %d", n, stats.BytesWritten, n*4)
		}
	}
}

func TestSyncedBufferSetRewritesWithoutReallocation(t *testing.T) {
	dev, queue := gputest.NoopDevice(t)
	device := gputest.NewCountingDevice(dev)
	b := newTestBuffer()
	h := b.Push(1)
	b.Push(2)
	if _, err := b.Sync(device, queue); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	gpuBuf := b.Buffer()

	if !b.Set(h, 42) {
		t.Fatal("Set on live handle failed")
	}
	stats, err := b.Sync(device, queue)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if stats.Reallocated {
		t.Error("update reallocated the buffer")
	}
	if stats.BytesWritten != 8 {
		t.Errorf("update wrote %d bytes, want 8", stats.BytesWritten)
	}
	if b.Buffer() != gpuBuf {
		t.Error("GPU buffer replaced by an update")
	}
	if device.Buffers["test_records"] != 1 {
		t.Errorf("created %d buffers, want 1", device.Buffers["test_records"])
	}
}

func TestSyncedBufferGrowthDoubles(t *testing.T) {
	dev, queue := gputest.NoopDevice(t)
	device := gputest.NewCountingDevice(dev)
	b := newTestBuffer()

	b.Push(0)
	b.Push(1)
	if _, err := b.Sync(device, queue); err != nil {
		t.Fatal(err)
	}
	if b.Capacity() != 2 {
		t.Fatalf("capacity = %d, want 2", b.Capacity())
	}

	b.Push(2)
	stats, err := b.Sync(device, queue)
	if err != nil {
		t.Fatal(err)
	}
	if !stats.Reallocated || b.Capacity() != 4 {
		t.Fatalf("after growth: reallocated=%v capacity=%d, want true/4", stats.Reallocated, b.Capacity())
	}
	if device.BufferSizes["test_records"] != 16 {
		t.Errorf("buffer size = %d, want 16", device.BufferSizes["test_records"])
	}
	if device.BuffersFreed != 1 {
		t.Errorf("freed %d buffers, want 1", device.BuffersFreed)
	}

	b.Push(3)
	stats, err = b.Sync(device, queue)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Reallocated {
		t.Error("push within capacity reallocated")
	}
	if stats.BytesWritten != 16 {
		t.Errorf("wrote %d bytes, want 16", stats.BytesWritten)
	}
}

func TestSyncedBufferReusedSlotKeepsLayout(t *testing.T) {
	dev, queue := gputest.NoopDevice(t)
	b := newTestBuffer()
	b.Push(10)
	h := b.Push(20)
	b.Push(30)
	b.Remove(h)
	h2 := b.Push(40)
	if h2.Index != 1 {
		t.Fatalf("reused index = %d, want 1", h2.Index)
	}
	if _, err := b.Sync(dev, queue); err != nil {
		t.Fatal(err)
	}

	want := make([]byte, 12)
	encodeU32(want[0:], 10)
	encodeU32(want[4:], 40)
	encodeU32(want[8:], 30)
	if got := b.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("mirror = %v, want %v", got, want)
	}
}

func TestSyncedBufferSetStaleHandle(t *testing.T) {
	b := newTestBuffer()
	h := b.Push(1)
	b.Remove(h)
	b.Push(2)
	if b.Set(h, 3) {
		t.Error("Set with stale handle succeeded")
	}
	if v, _ := b.Get(h); v != 0 {
		t.Errorf("stale Get = %d, want zero value", v)
	}
}

func TestSyncedBufferDestroyRecreates(t *testing.T) {
	dev, queue := gputest.NoopDevice(t)
	b := newTestBuffer()
	h := b.Push(1)
	if _, err := b.Sync(dev, queue); err != nil {
		t.Fatal(err)
	}
	b.Destroy(dev)
	if b.Buffer() != nil {
		t.Fatal("buffer kept after Destroy")
	}

	b.Set(h, 2)
	stats, err := b.Sync(dev, queue)
	if err != nil {
		t.Fatal(err)
	}
	if !stats.Reallocated || b.Buffer() == nil {
		t.Error("Sync after Destroy did not recreate the buffer")
	}
}

func TestSyncedBufferWriteFailureKeepsFlags(t *testing.T) {
	device, q := gputest.NoopDevice(t)
	queue := gputest.NewCountingQueue(q, nil)
	b := newTestBuffer()
	b.Push(7)

	queue.FailWrites = true
	if _, err := b.Sync(device, queue); !errors.Is(err, gputest.ErrWriteRefused) {
		t.Fatalf("Sync error = %v, want ErrWriteRefused", err)
	}
	if !b.Dirty() {
		t.Fatal("failed write cleared the dirty flags")
	}

	queue.FailWrites = false
	stats, err := b.Sync(device, queue)
	if err != nil {
		t.Fatalf("retry Sync: %v", err)
	}
	if stats.BytesWritten != 4 || b.Dirty() {
		t.Errorf("retry stats = %+v dirty = %v, want 4 bytes and clean", stats, b.Dirty())
	}
	if queue.BufferWrites != 1 {
		t.Errorf("buffer writes = %d, want 1", queue.BufferWrites)
	}
}
