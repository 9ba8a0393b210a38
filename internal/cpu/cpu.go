/*
 * rvsim - CPU controller: fetch/decode/read/execute/memory/writeback.
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

// Package cpu drives one instruction at a time through fetch, decode,
// register read, execute, memory access and writeback, stalling
// whenever the memory interface isn't ready and resuming on a later
// tick. It is a three-state machine (Idle, AwaitingFetch,
// AwaitingWriteback) rather than a set of goroutines or callbacks --
// the in-flight instruction's lifetime is a single owned value, never
// shared across ticks.
package cpu

import (
	"github.com/rvsim/rvsim/internal/csr"
	"github.com/rvsim/rvsim/internal/isa"
	"github.com/rvsim/rvsim/internal/meminterface"
	"github.com/rvsim/rvsim/internal/regfile"
)

// State is the controller's suspension point.
type State int

const (
	Idle State = iota
	AwaitingFetch
	AwaitingWriteback
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingFetch:
		return "awaiting-fetch"
	case AwaitingWriteback:
		return "awaiting-writeback"
	default:
		return "unknown"
	}
}

// CPU is the controller. It holds a non-owning reference to its
// memory interface; the harness owns that interface (and, through it,
// main memory).
type CPU struct {
	mem   meminterface.Interface
	regs  *regfile.File
	csr   *csr.Bank
	ip    uint32
	state State

	pending     isa.Instruction
	pendingKind meminterface.DataKind

	err error // set on decode failure; halts further ticks

	// Trace, if set, is called with the program counter and the
	// decoded instruction each time one retires. It has no effect on
	// architectural state; the harness uses it for debug-level logging.
	Trace func(ip uint32, in *isa.Instruction)
}

// New builds a CPU driving mem, with a fresh register file and CSR
// bank, reset to ip.
func New(mem meminterface.Interface, ip uint32) *CPU {
	return &CPU{mem: mem, regs: regfile.New(), csr: csr.New(), ip: ip}
}

// Reset reinitializes the controller to ip with cleared registers and
// CSRs. Valid only before simulation begins; there is no mid-run
// cancellation of an in-flight transaction.
func (c *CPU) Reset(ip uint32) {
	c.ip = ip
	c.state = Idle
	c.pending = isa.Instruction{}
	c.err = nil
	c.regs.Reset()
	c.csr.Reset()
}

// IP returns the current program counter.
func (c *CPU) IP() uint32 { return c.ip }

// State returns the controller's current suspension point.
func (c *CPU) State() State { return c.state }

// Err returns the sticky decode error, if the controller has halted
// because the instruction stream contained something the decoder
// doesn't recognize.
func (c *CPU) Err() error { return c.err }

// GetMessage drains the next pending host-communication message, if
// any instruction has retired a CSR write since the last call.
func (c *CPU) GetMessage() (csr.Message, bool) {
	return c.csr.GetMessage()
}

// Clock advances the controller by one cycle.
func (c *CPU) Clock() {
	if c.err != nil {
		return
	}

	switch c.state {
	case Idle:
		c.mem.RequestFetch(c.ip)
		if word, ready := c.mem.ResponseFetch(); ready {
			c.resumeAfterFetch(word)
		} else {
			c.state = AwaitingFetch
		}

	case AwaitingFetch:
		if word, ready := c.mem.ResponseFetch(); ready {
			c.resumeAfterFetch(word)
		}

	case AwaitingWriteback:
		if val, ready := c.mem.ResponseData(); ready {
			if c.pendingKind == meminterface.DataLoad {
				c.pending.Data = val
			}
			c.retire(&c.pending)
			c.state = Idle
		}
	}
}

// resumeAfterFetch runs decode/read/execute/memory-request for a
// freshly fetched word, completing writeback in the same tick if the
// memory stage is immediately ready (true for every non-memory
// instruction, and possible in principle for a zero-latency memory
// variant).
func (c *CPU) resumeAfterFetch(word uint32) {
	in, err := isa.Decode(word)
	if err != nil {
		c.err = err
		return
	}

	in.Src1 = c.regs.Read(in.Rs1)
	in.Src2 = c.regs.Read(in.Rs2)
	if in.WritesCSR {
		in.CSRVal = c.csr.Read(in.CSR)
	}

	isa.Execute(&in, c.ip)

	kind := meminterface.DataNone
	var addr, storeVal uint32
	switch in.Kind {
	case isa.KindLoad:
		kind = meminterface.DataLoad
		addr = in.Addr
	case isa.KindStore:
		kind = meminterface.DataStore
		addr = in.Addr
		storeVal = in.Data
	}

	c.mem.RequestData(kind, addr, storeVal)
	if val, ready := c.mem.ResponseData(); ready {
		if kind == meminterface.DataLoad {
			in.Data = val
		}
		c.retire(&in)
		c.state = Idle
		return
	}

	c.pending = in
	c.pendingKind = kind
	c.state = AwaitingWriteback
}

// retire commits register and CSR writeback for in, notifies the CSR
// bank that an instruction retired (arming any message produced by a
// CSR write this instruction made), and advances ip. This is the only
// point at which architectural state changes.
func (c *CPU) retire(in *isa.Instruction) {
	if in.WritesRd {
		result := in.Result
		if in.Kind == isa.KindLoad {
			result = in.Data
		}
		c.regs.Write(in.Rd, result)
	}
	if in.WritesCSR {
		c.csr.Write(in.CSR, in.Data)
	}
	c.csr.InstructionExecuted()
	if c.Trace != nil {
		c.Trace(c.ip, in)
	}
	c.ip = in.NextPC
}
