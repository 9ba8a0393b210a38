/*
 * rvsim - General-purpose register file.
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

// Package regfile implements the 32-entry RV32I general-purpose
// register file. x0 is hardwired to zero: writes to it are accepted
// and discarded, reads always return zero.
package regfile

// NumRegs is the number of architectural general-purpose registers.
const NumRegs = 32

// File is the set of general-purpose registers x0-x31.
type File struct {
	regs [NumRegs]uint32
}

// New returns a register file with all registers cleared.
func New() *File {
	return &File{}
}

// Read returns the value of register r. Reading x0 always yields 0.
func (f *File) Read(r uint8) uint32 {
	if r == 0 {
		return 0
	}
	return f.regs[r]
}

// Write sets register r to v. Writes to x0 are silently discarded.
func (f *File) Write(r uint8, v uint32) {
	if r == 0 {
		return
	}
	f.regs[r] = v
}

// Reset clears all registers to zero.
func (f *File) Reset() {
	for i := range f.regs {
		f.regs[i] = 0
	}
}
