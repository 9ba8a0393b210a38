/*
 * rvsim - Flat main memory.
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

// Package memory implements the flat word-addressed main memory that backs
// the cache hierarchy. It is owned by the harness and referenced, never
// copied, by exactly one memory interface.
package memory

// DefaultWords is the default memory size, in 32-bit words (1 MiW).
const DefaultWords = 1024 * 1024

// Memory is a contiguous array of 32-bit words, addressed externally by
// byte address. The low two bits of any byte address are discarded.
type Memory struct {
	words []uint32
}

// New allocates a zeroed memory of the given size in words.
func New(sizeWords int) *Memory {
	return &Memory{words: make([]uint32, sizeWords)}
}

// SizeWords returns the number of 32-bit words backing this memory.
func (m *Memory) SizeWords() int {
	return len(m.words)
}

// Read returns the word stored at byteAddr. Out-of-range access is
// undefined; callers are trusted to stay within SizeWords()*4.
func (m *Memory) Read(byteAddr uint32) uint32 {
	return m.words[byteAddr>>2]
}

// Write stores w at byteAddr.
func (m *Memory) Write(byteAddr, w uint32) {
	m.words[byteAddr>>2] = w
}

// Poke copies data directly into memory starting at byteAddr, bypassing
// the cache hierarchy entirely. Only the ELF loader is permitted to use
// this before simulation begins.
func (m *Memory) Poke(byteAddr uint32, data []byte) {
	for i, b := range data {
		addr := byteAddr + uint32(i)
		word := addr >> 2
		shift := (addr & 3) * 8
		m.words[word] = (m.words[word] &^ (0xff << shift)) | (uint32(b) << shift)
	}
}

// ZeroFill clears n bytes of memory starting at byteAddr.
func (m *Memory) ZeroFill(byteAddr uint32, n uint32) {
	for i := uint32(0); i < n; i++ {
		addr := byteAddr + i
		word := addr >> 2
		shift := (addr & 3) * 8
		m.words[word] &^= 0xff << shift
	}
}
