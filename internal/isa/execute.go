/*
 * rvsim - ALU/branch executor.
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

package isa

// Execute computes the ALU/branch result, the effective address for
// loads/stores, and the next program counter for in, given the program
// counter of the instruction being executed (pc) and the operands
// already latched into in.Src1/in.Src2/in.CSRVal by the Read stage. It
// is a pure function of its inputs: no register, memory, or CSR access.
func Execute(in *Instruction, pc uint32) {
	in.NextPC = pc + 4

	switch in.Kind {
	case KindALU:
		execALU(in)

	case KindJump:
		execJump(in, pc)

	case KindBranch:
		execBranch(in, pc)

	case KindLoad, KindStore:
		in.Addr = uint32(int32(in.Src1) + in.Imm)
		if in.Kind == KindStore {
			in.Data = in.Src2
		}

	case KindSystem:
		if in.WritesCSR {
			var operand uint32
			if in.Funct3 >= 5 {
				operand = uint32(in.Imm)
			} else {
				operand = in.Src1
			}
			in.Result = in.CSRVal // old value returned to rd, per CSRRx semantics
			in.Data = csrUpdate(in.Funct3, in.CSRVal, operand)
		}
	}
}

// csrUpdate applies a CSRRW/CSRRS/CSRRC(I) update function, returning
// the new CSR value to be written back.
func csrUpdate(funct3 uint8, oldVal, operand uint32) uint32 {
	switch funct3 {
	case 1, 5: // CSRRW, CSRRWI
		return operand
	case 2, 6: // CSRRS, CSRRSI
		return oldVal | operand
	case 3, 7: // CSRRC, CSRRCI
		return oldVal &^ operand
	default:
		return oldVal
	}
}

func execJump(in *Instruction, pc uint32) {
	in.Result = pc + 4
	if in.isJALR() {
		in.NextPC = (uint32(int32(in.Src1)+in.Imm)) &^ 1
	} else {
		in.NextPC = uint32(int32(pc) + in.Imm)
	}
}

// isJALR distinguishes JAL from JALR; both decode to KindJump.
func (in *Instruction) isJALR() bool {
	return in.Raw&0x7f == opJALR
}

func execBranch(in *Instruction, pc uint32) {
	a, b := in.Src1, in.Src2
	switch in.Funct3 {
	case 0: // BEQ
		in.Taken = a == b
	case 1: // BNE
		in.Taken = a != b
	case 4: // BLT
		in.Taken = int32(a) < int32(b)
	case 5: // BGE
		in.Taken = int32(a) >= int32(b)
	case 6: // BLTU
		in.Taken = a < b
	case 7: // BGEU
		in.Taken = a >= b
	}
	if in.Taken {
		in.NextPC = uint32(int32(pc) + in.Imm)
	}
}

func execALU(in *Instruction) {
	switch in.Raw & 0x7f {
	case opLUI:
		in.Result = uint32(in.Imm)
		return
	case opAUIPC:
		in.Result = in.NextPC - 4 + uint32(in.Imm)
		return
	}

	a := in.Src1
	if in.Raw&0x7f == opOpImm {
		in.Result = execALUImm(in, a)
		return
	}
	in.Result = execALUReg(in, a, in.Src2)
}

func execALUImm(in *Instruction, a uint32) uint32 {
	imm := in.Imm
	switch in.Funct3 {
	case 0: // ADDI
		return uint32(int32(a) + imm)
	case 2: // SLTI
		return boolToWord(int32(a) < imm)
	case 3: // SLTIU
		return boolToWord(a < uint32(imm))
	case 4: // XORI
		return a ^ uint32(imm)
	case 6: // ORI
		return a | uint32(imm)
	case 7: // ANDI
		return a & uint32(imm)
	case 1: // SLLI
		return a << (uint32(imm) & 0x1f)
	case 5: // SRLI / SRAI
		shamt := uint32(imm) & 0x1f
		if in.Funct7 == 0x20 {
			return uint32(int32(a) >> shamt)
		}
		return a >> shamt
	}
	return 0
}

func execALUReg(in *Instruction, a, b uint32) uint32 {
	if in.Funct7 == 0x01 {
		return execMExt(in.Funct3, a, b)
	}
	switch in.Funct3 {
	case 0: // ADD / SUB
		if in.Funct7 == 0x20 {
			return uint32(int32(a) - int32(b))
		}
		return a + b
	case 1: // SLL
		return a << (b & 0x1f)
	case 2: // SLT
		return boolToWord(int32(a) < int32(b))
	case 3: // SLTU
		return boolToWord(a < b)
	case 4: // XOR
		return a ^ b
	case 5: // SRL / SRA
		if in.Funct7 == 0x20 {
			return uint32(int32(a) >> (b & 0x1f))
		}
		return a >> (b & 0x1f)
	case 6: // OR
		return a | b
	case 7: // AND
		return a & b
	}
	return 0
}

func execMExt(funct3 uint8, a, b uint32) uint32 {
	switch funct3 {
	case 0: // MUL
		return uint32(int32(a) * int32(b))
	case 1: // MULH
		return uint32((int64(int32(a)) * int64(int32(b))) >> 32)
	case 2: // MULHSU
		return uint32((int64(int32(a)) * int64(b)) >> 32)
	case 3: // MULHU
		return uint32((uint64(a) * uint64(b)) >> 32)
	case 4: // DIV
		if b == 0 {
			return 0xffffffff
		}
		if int32(a) == -0x80000000 && int32(b) == -1 {
			return a
		}
		return uint32(int32(a) / int32(b))
	case 5: // DIVU
		if b == 0 {
			return 0xffffffff
		}
		return a / b
	case 6: // REM
		if b == 0 {
			return a
		}
		if int32(a) == -0x80000000 && int32(b) == -1 {
			return 0
		}
		return uint32(int32(a) % int32(b))
	case 7: // REMU
		if b == 0 {
			return a
		}
		return a % b
	}
	return 0
}

func boolToWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
