package meminterface

import (
	"testing"

	"github.com/rvsim/rvsim/internal/memory"
)

func tick(mi Interface, n int) {
	for i := 0; i < n; i++ {
		mi.Clock()
	}
}

func TestCachedFetchHit(t *testing.T) {
	mem := memory.New(memory.DefaultWords)
	mem.Write(0x200, 0xaabbccdd)
	mi := NewCached(mem)

	mi.RequestFetch(0x200)
	// Prime the line so the first poll after latency is a hit.
	mi.cache.ReadInstruction(0x200)

	for i := 0; i < CacheHitLatency-1; i++ {
		mi.Clock()
		if _, ready := mi.ResponseFetch(); ready {
			t.Fatalf("fetch ready too early at cycle %d", i)
		}
	}
	mi.Clock()
	w, ready := mi.ResponseFetch()
	if !ready || w != 0xaabbccdd {
		t.Errorf("got (%#x, %v) want (0xaabbccdd, true)", w, ready)
	}
}

func TestCachedFetchMissTakesMemoryLatency(t *testing.T) {
	mem := memory.New(memory.DefaultWords)
	mem.Write(0x400, 0x11223344)
	mi := NewCached(mem)

	mi.RequestFetch(0x400)
	tick(mi, CacheHitLatency)
	if _, ready := mi.ResponseFetch(); ready {
		t.Fatalf("cold fetch must miss, not be ready immediately")
	}
	tick(mi, MemoryLatency-1)
	if _, ready := mi.ResponseFetch(); ready {
		t.Fatalf("miss penalty not yet elapsed")
	}
	tick(mi, 1)
	w, ready := mi.ResponseFetch()
	if !ready || w != 0x11223344 {
		t.Errorf("got (%#x, %v) want (0x11223344, true)", w, ready)
	}
}

func TestCachedNonMemoryRequestIsImmediatelyReady(t *testing.T) {
	mem := memory.New(memory.DefaultWords)
	mi := NewCached(mem)
	mi.RequestData(DataNone, 0, 0)
	if _, ready := mi.ResponseData(); !ready {
		t.Errorf("non-memory request must be ready with no wait")
	}
}

func TestCachedStoreHitVisibleAfterHitLatency(t *testing.T) {
	mem := memory.New(memory.DefaultWords)
	mi := NewCached(mem)

	mi.RequestData(DataStore, 0x300, 0x77)
	mi.cache.StoreData(0x300, 0x77) // warm the line so the polled call is a hit
	tick(mi, CacheHitLatency)
	if _, ready := mi.ResponseData(); !ready {
		t.Errorf("store hit should complete after CacheHitLatency cycles")
	}
}

func TestUncachedFixedLatency(t *testing.T) {
	mem := memory.New(memory.DefaultWords)
	mem.Write(0x500, 0x9)
	mi := NewUncached(mem)

	mi.RequestFetch(0x500)
	tick(mi, UncachedLatency-1)
	if _, ready := mi.ResponseFetch(); ready {
		t.Fatalf("uncached fetch ready too early")
	}
	tick(mi, 1)
	w, ready := mi.ResponseFetch()
	if !ready || w != 9 {
		t.Errorf("got (%#x, %v) want (9, true)", w, ready)
	}
}

func TestUncachedStoreCommitsToMemory(t *testing.T) {
	mem := memory.New(memory.DefaultWords)
	mi := NewUncached(mem)

	mi.RequestData(DataStore, 0x600, 0x55)
	tick(mi, UncachedLatency)
	if _, ready := mi.ResponseData(); !ready {
		t.Fatalf("store should be ready after fixed latency")
	}
	if v := mem.Read(0x600); v != 0x55 {
		t.Errorf("memory got %#x want 0x55", v)
	}
}
