/*
 * rvsim - Memory interface: the stateful facade between CPU and cache/memory.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package meminterface implements the latched request/response timing
// contract the CPU controller stalls against: two interchangeable
// variants, Cached (hit/miss latency through the split cache) and
// Uncached (fixed latency straight to main memory). Both expose
// separate fetch and data transaction pairs so an in-flight
// instruction fetch never contends with a still-draining load/store
// from the previous instruction.
package meminterface

import (
	"github.com/rvsim/rvsim/internal/cache"
	"github.com/rvsim/rvsim/internal/memory"
)

// DataKind distinguishes the three shapes a data-stage request can
// take: no memory traffic at all (ALU/branch/jump/system
// instructions), a load, or a store.
type DataKind int

const (
	DataNone DataKind = iota
	DataLoad
	DataStore
)

const (
	// CacheHitLatency is the cycle count a fetch or load/store spends
	// before the cache is consulted.
	CacheHitLatency = 3
	// MemoryLatency is the additional penalty charged on a cache miss.
	MemoryLatency = 152
	// UncachedLatency is the fixed per-request latency of the
	// uncached variant.
	UncachedLatency = 120
)

// Interface is the contract the CPU controller drives: independent
// request/response pairs for instruction fetch and load/store data,
// plus a single Clock advancing both.
type Interface interface {
	RequestFetch(addr uint32)
	ResponseFetch() (word uint32, ready bool)
	RequestData(kind DataKind, addr, storeVal uint32)
	ResponseData() (word uint32, ready bool)
	Clock()
}

// txn holds the in-flight state of one transaction: the fields
// described by the spec as (requestedAddr, waitCycles, latchedData,
// isMiss), plus bookkeeping for whether a transaction is armed at all
// and, for data transactions, what kind of access it is.
type txn struct {
	active     bool
	addr       uint32
	waitCycles int
	latched    uint32
	isMiss     bool
	kind       DataKind
	storeVal   uint32
}

func (t *txn) clock() {
	if t.active && t.waitCycles > 0 {
		t.waitCycles--
	}
}

// Cached is the memory interface variant backed by the split
// instruction/data cache: cheap on a hit, a full main-memory
// round trip on a miss.
type Cached struct {
	mem   *memory.Memory
	cache *cache.Storage
	fetch txn
	data  txn
}

// NewCached builds a cached memory interface over mem, with its own
// private cache storage. It holds a reference to mem, never a copy.
func NewCached(mem *memory.Memory) *Cached {
	return &Cached{mem: mem, cache: cache.New(mem)}
}

func (c *Cached) RequestFetch(addr uint32) {
	c.fetch = txn{active: true, addr: addr, waitCycles: CacheHitLatency}
}

func (c *Cached) ResponseFetch() (uint32, bool) {
	t := &c.fetch
	if !t.active {
		return 0, true
	}
	if t.waitCycles > 0 {
		return 0, false
	}
	if !t.isMiss {
		w, miss := c.cache.ReadInstruction(t.addr)
		if miss {
			t.isMiss = true
			t.waitCycles = MemoryLatency
			t.latched = w
			return 0, false
		}
		t.active = false
		return w, true
	}
	t.active = false
	return t.latched, true
}

func (c *Cached) RequestData(kind DataKind, addr, storeVal uint32) {
	if kind != DataLoad && kind != DataStore {
		c.data = txn{}
		return
	}
	c.data = txn{active: true, addr: addr, kind: kind, storeVal: storeVal, waitCycles: CacheHitLatency}
}

func (c *Cached) ResponseData() (uint32, bool) {
	t := &c.data
	if !t.active {
		return 0, true
	}
	if t.waitCycles > 0 {
		return 0, false
	}
	if !t.isMiss {
		var w uint32
		var miss bool
		if t.kind == DataLoad {
			w, miss = c.cache.LoadData(t.addr)
		} else {
			miss = c.cache.StoreData(t.addr, t.storeVal)
		}
		if miss {
			t.isMiss = true
			t.waitCycles = MemoryLatency
			t.latched = w
			return 0, false
		}
		t.active = false
		return w, true
	}
	t.active = false
	return t.latched, true
}

func (c *Cached) Clock() {
	c.fetch.clock()
	c.data.clock()
}

// Uncached is the memory interface variant that bypasses the cache
// entirely: every request costs a fixed UncachedLatency cycles.
type Uncached struct {
	mem   *memory.Memory
	fetch txn
	data  txn
}

// NewUncached builds an uncached memory interface directly over mem.
func NewUncached(mem *memory.Memory) *Uncached {
	return &Uncached{mem: mem}
}

func (u *Uncached) RequestFetch(addr uint32) {
	u.fetch = txn{active: true, addr: addr, waitCycles: UncachedLatency}
}

func (u *Uncached) ResponseFetch() (uint32, bool) {
	t := &u.fetch
	if !t.active {
		return 0, true
	}
	if t.waitCycles > 0 {
		return 0, false
	}
	t.active = false
	return u.mem.Read(t.addr), true
}

func (u *Uncached) RequestData(kind DataKind, addr, storeVal uint32) {
	if kind != DataLoad && kind != DataStore {
		u.data = txn{}
		return
	}
	u.data = txn{active: true, addr: addr, kind: kind, storeVal: storeVal, waitCycles: UncachedLatency}
}

func (u *Uncached) ResponseData() (uint32, bool) {
	t := &u.data
	if !t.active {
		return 0, true
	}
	if t.waitCycles > 0 {
		return 0, false
	}
	t.active = false
	if t.kind == DataStore {
		u.mem.Write(t.addr, t.storeVal)
		return 0, true
	}
	return u.mem.Read(t.addr), true
}

func (u *Uncached) Clock() {
	u.fetch.clock()
	u.data.clock()
}
