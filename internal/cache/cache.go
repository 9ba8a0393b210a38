/*
 * rvsim - Split instruction/data cache storage.
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

// Package cache implements the write-back, write-allocate, FIFO-eviction
// split instruction/data cache that sits between the CPU's memory
// interface and main memory. Lookup is a linear scan over a small fixed
// array, matching the content-addressed design in the spec: there is no
// separate index field, the line base byte address is the tag.
package cache

import "github.com/rvsim/rvsim/internal/memory"

const (
	// LineSizeWords is the number of 32-bit words per cache line.
	LineSizeWords = 32
	// LineSizeBytes is the number of bytes per cache line.
	LineSizeBytes = LineSizeWords * 4

	// CodeLines is the number of lines in the instruction cache.
	CodeLines = 4
	// DataLines is the number of lines in the data cache.
	DataLines = 8

	// emptyTag marks an unused entry. It is itself 128-byte aligned,
	// so it differs from every real line base only because it lies
	// beyond the end of any main memory smaller than 2 GiB.
	emptyTag uint32 = 0x80000000
)

type line [LineSizeWords]uint32

// entry is one resident cache line: its tag (line-base byte address),
// the line contents, and whether it has been written since fill.
type entry struct {
	tag   uint32
	data  line
	clean bool
}

func newEntry() entry {
	return entry{tag: emptyTag, clean: true}
}

// lineAddr returns the line-base byte address for addr.
func lineAddr(addr uint32) uint32 {
	return addr &^ (LineSizeBytes - 1)
}

// lineOffset returns the word offset of addr within its line.
func lineOffset(addr uint32) uint32 {
	return (addr >> 2) & (LineSizeWords - 1)
}

// set is one direct-mapped-by-linear-search cache with FIFO replacement.
type set struct {
	entries []entry
	fifo    []int // indices into entries, in fill order; head = oldest
}

func newSet(n int) *set {
	entries := make([]entry, n)
	for i := range entries {
		entries[i] = newEntry()
	}
	return &set{entries: entries}
}

// find returns the index of the resident entry for tag, or -1.
func (s *set) find(tag uint32) int {
	for i := range s.entries {
		if s.entries[i].tag == tag {
			return i
		}
	}
	return -1
}

// fill inserts a freshly-read line under FIFO rules, writing back the
// evicted victim first if it is dirty. Returns the index it was placed
// at.
func (s *set) fill(mem *memory.Memory, tag uint32, data line, clean bool) int {
	var idx int
	if len(s.fifo) == len(s.entries) {
		idx = s.fifo[0]
		s.fifo = s.fifo[1:]
		victim := s.entries[idx]
		if !victim.clean {
			writeLine(mem, victim.tag, victim.data)
		}
	} else {
		idx = len(s.fifo)
	}
	s.entries[idx] = entry{tag: tag, data: data, clean: clean}
	s.fifo = append(s.fifo, idx)
	return idx
}

// contains reports whether tag is currently resident, for test
// observation of FIFO eviction.
func (s *set) contains(tag uint32) bool {
	return s.find(tag) >= 0
}

func readLine(mem *memory.Memory, base uint32) line {
	var l line
	for i := range l {
		l[i] = mem.Read(base + uint32(i)*4)
	}
	return l
}

func writeLine(mem *memory.Memory, base uint32, l line) {
	for i, w := range l {
		mem.Write(base+uint32(i)*4, w)
	}
}

// Storage is the split instruction/data cache owned by a memory
// interface. It holds a reference to main memory for line fill and
// victim writeback; it never copies it.
type Storage struct {
	mem  *memory.Memory
	code *set
	data *set
}

// New builds cache storage backed by mem, with the fixed line counts
// from the spec: 4 code lines, 8 data lines, 32-word lines.
func New(mem *memory.Memory) *Storage {
	return &Storage{
		mem:  mem,
		code: newSet(CodeLines),
		data: newSet(DataLines),
	}
}

// ReadInstruction returns the word at byteAddr from the instruction
// cache, filling the line on a miss. The second result is true iff the
// access missed.
func (c *Storage) ReadInstruction(byteAddr uint32) (uint32, bool) {
	base := lineAddr(byteAddr)
	offset := lineOffset(byteAddr)

	if idx := c.code.find(base); idx >= 0 {
		return c.code.entries[idx].data[offset], false
	}

	l := readLine(c.mem, base)
	c.code.fill(c.mem, base, l, true)
	return l[offset], true
}

// LoadData returns the word at byteAddr from the data cache, filling
// the line on a miss (write-allocate applies only to stores; a load
// miss simply fills a clean line).
func (c *Storage) LoadData(byteAddr uint32) (uint32, bool) {
	base := lineAddr(byteAddr)
	offset := lineOffset(byteAddr)

	if idx := c.data.find(base); idx >= 0 {
		return c.data.entries[idx].data[offset], false
	}

	l := readLine(c.mem, base)
	c.data.fill(c.mem, base, l, true)
	return l[offset], true
}

// StoreData writes w to byteAddr in the data cache, marking the line
// dirty. On a hit the write lands directly in the resident line and no
// main-memory round trip is required this transaction (returns false).
// On a miss the line is fetched (write-allocate), the word is
// overwritten, and the line is inserted dirty (returns true).
func (c *Storage) StoreData(byteAddr, w uint32) bool {
	base := lineAddr(byteAddr)
	offset := lineOffset(byteAddr)

	if idx := c.data.find(base); idx >= 0 {
		c.data.entries[idx].data[offset] = w
		c.data.entries[idx].clean = false
		return false
	}

	l := readLine(c.mem, base)
	l[offset] = w
	c.data.fill(c.mem, base, l, false)
	return true
}

// ContainsDataTag reports whether the data cache currently holds a
// resident line for the given line-base address. Exposed for tests
// observing eviction.
func (c *Storage) ContainsDataTag(lineBase uint32) bool {
	return c.data.contains(lineBase)
}

// ContainsCodeTag reports whether the instruction cache currently
// holds a resident line for the given line-base address.
func (c *Storage) ContainsCodeTag(lineBase uint32) bool {
	return c.code.contains(lineBase)
}
