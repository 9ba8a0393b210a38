/*
 * rvsim - Host-communication CSR shim.
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

// Package csr implements the bank of host-communication control/status
// registers: the guest's only window onto the outside world. Writes to
// these addresses produce an observable message rather than ordinary
// computation; everything else about CSRRW/CSRRS/CSRRC is handled
// generically by the isa package and the CPU controller, which simply
// hands this bank the address being written and the new value.
package csr

// Host-communication CSR addresses. These four are the only CSRs this
// bank recognizes; any other address reads/writes as a plain scratch
// register with no side effect, matching the "ordinary bank of
// registers" framing for CSRs that aren't host-communication.
const (
	ExitCodeAddr     = 0x780
	PrintCharAddr    = 0x781
	PrintIntLowAddr  = 0x782
	PrintIntHighAddr = 0x783
)

// Kind identifies which host message a completed CSR write produced.
type Kind int

const (
	// KindNone means no message is pending.
	KindNone Kind = iota
	KindExitCode
	KindPrintChar
	KindPrintIntLow
	KindPrintIntHigh
)

// Message is one observable event raised by a retiring CSR write.
type Message struct {
	Kind  Kind
	Value uint32
}

// Bank is the host-communication CSR file. At most one message is
// buffered between retirements, matching the spec's invariant that a
// message's type is preserved exactly and is never coalesced with the
// next one.
type Bank struct {
	regs    map[uint16]uint32
	pending Message
	armed   bool
}

// New returns an empty CSR bank with no message pending.
func New() *Bank {
	return &Bank{regs: make(map[uint16]uint32)}
}

// Read returns the current value of the CSR at addr.
func (b *Bank) Read(addr uint16) uint32 {
	return b.regs[addr]
}

// Write stores v at addr. If addr is one of the host-communication
// registers, the write also arms a pending message; InstructionExecuted
// must be called once the writing instruction retires before the
// message becomes visible through GetMessage.
func (b *Bank) Write(addr uint16, v uint32) {
	b.regs[addr] = v
	switch addr {
	case ExitCodeAddr:
		b.pending = Message{Kind: KindExitCode, Value: v}
	case PrintCharAddr:
		b.pending = Message{Kind: KindPrintChar, Value: v}
	case PrintIntLowAddr:
		b.pending = Message{Kind: KindPrintIntLow, Value: v}
	case PrintIntHighAddr:
		b.pending = Message{Kind: KindPrintIntHigh, Value: v}
	default:
		return
	}
	b.armed = false // only becomes visible after retirement
}

// InstructionExecuted notifies the bank that the instruction which
// issued the most recent Write has retired. The pending message, if
// any, becomes visible to the next GetMessage call.
func (b *Bank) InstructionExecuted() {
	if b.pending.Kind != KindNone {
		b.armed = true
	}
}

// GetMessage returns the next pending message and clears it, or
// (Message{}, false) if none is queued. A message only becomes
// available after InstructionExecuted has been called following the
// Write that produced it.
func (b *Bank) GetMessage() (Message, bool) {
	if !b.armed {
		return Message{}, false
	}
	m := b.pending
	b.pending = Message{}
	b.armed = false
	return m, true
}

// Reset clears all registers and any pending message.
func (b *Bank) Reset() {
	b.regs = make(map[uint16]uint32)
	b.pending = Message{}
	b.armed = false
}
