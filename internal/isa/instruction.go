/*
 * rvsim - Decoded instruction record.
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

// Package isa holds the decoder and ALU/branch executor: pure functions
// from a fetched word (and, for execute, the program counter) to the
// decoded record threaded through the CPU controller's stages. Neither
// is the focus of this simulator -- they are external-collaborator
// concerns per the spec -- but something has to supply them for the
// repository to run end to end.
package isa

import "errors"

// ErrUnsupportedInstruction is returned by Decode when the opcode/funct
// fields don't correspond to any instruction this decoder knows.
var ErrUnsupportedInstruction = errors.New("isa: unsupported instruction")

// Kind classifies a decoded instruction for the controller's memory
// stage and the executor's PC-update rule.
type Kind int

const (
	KindALU Kind = iota
	KindLoad
	KindStore
	KindBranch
	KindJump
	KindSystem
)

func (k Kind) String() string {
	switch k {
	case KindALU:
		return "alu"
	case KindLoad:
		return "load"
	case KindStore:
		return "store"
	case KindBranch:
		return "branch"
	case KindJump:
		return "jump"
	case KindSystem:
		return "system"
	default:
		return "unknown"
	}
}

// Instruction is the opaque token threaded through the controller's
// fetch/decode/read/execute/memory/writeback stages. Fields are filled
// in progressively: Decode sets the structural fields, Read fills Src1/
// Src2/CSRVal, Execute fills Result/Addr/NextPC, and the memory stage
// fills Data on loads (for stores Execute copies the Src2 value read
// from the register file into Data, and for CSR instructions Execute
// puts the new CSR value there -- the same slot serves each use, one
// per instruction).
type Instruction struct {
	Raw    uint32
	Kind   Kind
	Funct3 uint8
	Funct7 uint8
	Rd     uint8
	Rs1    uint8
	Rs2    uint8
	Imm    int32
	CSR    uint16

	// Filled by the Read stage.
	Src1   uint32
	Src2   uint32
	CSRVal uint32

	// Filled by the Execute stage.
	Result uint32
	Addr   uint32
	NextPC uint32
	Taken  bool

	// Filled by Execute (store value, new CSR value) or the Memory
	// stage (loads).
	Data uint32

	WritesRd  bool
	WritesCSR bool
}

// IsMemoryOp reports whether this instruction requires data-cache
// traffic, the only instructions the memory interface's RequestData/
// ResponseData pair does real work for.
func (i *Instruction) IsMemoryOp() bool {
	return i.Kind == KindLoad || i.Kind == KindStore
}
