/*
 * rvsim - Instruction decoder.
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

// Opcode values (bits [6:0]).
const (
	opLoad   = 0x03
	opOpImm  = 0x13
	opAUIPC  = 0x17
	opStore  = 0x23
	opOp     = 0x33
	opLUI    = 0x37
	opBranch = 0x63
	opJALR   = 0x67
	opJAL    = 0x6f
	opSystem = 0x73
)

func bit(w uint32, n uint) uint32 {
	return (w >> n) & 1
}

func bits(w uint32, hi, lo uint) uint32 {
	return (w >> lo) & ((1 << (hi - lo + 1)) - 1)
}

func signExtend(v uint32, width uint) int32 {
	shift := 32 - width
	return int32(v<<shift) >> shift
}

func immI(w uint32) int32 {
	return signExtend(bits(w, 31, 20), 12)
}

func immS(w uint32) int32 {
	v := (bits(w, 31, 25) << 5) | bits(w, 11, 7)
	return signExtend(v, 12)
}

func immB(w uint32) int32 {
	v := (bit(w, 31) << 12) | (bit(w, 7) << 11) | (bits(w, 30, 25) << 5) | (bits(w, 11, 8) << 1)
	return signExtend(v, 13)
}

func immU(w uint32) int32 {
	return int32(bits(w, 31, 12) << 12)
}

func immJ(w uint32) int32 {
	v := (bit(w, 31) << 20) | (bits(w, 19, 12) << 12) | (bit(w, 20) << 11) | (bits(w, 30, 21) << 1)
	return signExtend(v, 21)
}

// Decode turns a fetched 32-bit word into an Instruction record. It is a
// pure function: no side effects, no access to registers or memory.
func Decode(word uint32) (Instruction, error) {
	op := bits(word, 6, 0)
	in := Instruction{
		Raw:    word,
		Rd:     uint8(bits(word, 11, 7)),
		Rs1:    uint8(bits(word, 19, 15)),
		Rs2:    uint8(bits(word, 24, 20)),
		Funct3: uint8(bits(word, 14, 12)),
		Funct7: uint8(bits(word, 31, 25)),
	}

	switch op {
	case opLUI, opAUIPC:
		in.Kind = KindALU
		in.Imm = immU(word)
		in.WritesRd = true

	case opJAL:
		in.Kind = KindJump
		in.Imm = immJ(word)
		in.WritesRd = true

	case opJALR:
		in.Kind = KindJump
		in.Imm = immI(word)
		in.WritesRd = true

	case opBranch:
		switch in.Funct3 {
		case 0, 1, 4, 5, 6, 7: // BEQ, BNE, BLT, BGE, BLTU, BGEU
		default:
			return Instruction{}, ErrUnsupportedInstruction
		}
		in.Kind = KindBranch
		in.Imm = immB(word)

	case opLoad:
		// Main memory is word-granular by construction (byte addresses
		// are truncated to a word index): only LW is supported. Sub-word
		// loads would need a read-modify path through the cache that
		// the word-level LoadData/StoreData contract doesn't expose.
		if in.Funct3 != 2 {
			return Instruction{}, ErrUnsupportedInstruction
		}
		in.Kind = KindLoad
		in.Imm = immI(word)
		in.WritesRd = true

	case opStore:
		if in.Funct3 != 2 { // SW only, see opLoad
			return Instruction{}, ErrUnsupportedInstruction
		}
		in.Kind = KindStore
		in.Imm = immS(word)

	case opOpImm:
		switch in.Funct3 {
		case 0, 2, 3, 4, 6, 7: // ADDI, SLTI, SLTIU, XORI, ORI, ANDI
			in.Imm = immI(word)
		case 1, 5: // SLLI, SRLI, SRAI
			in.Imm = int32(bits(word, 24, 20))
		default:
			return Instruction{}, ErrUnsupportedInstruction
		}
		in.Kind = KindALU
		in.WritesRd = true

	case opOp:
		if in.Funct7 != 0 && in.Funct7 != 0x20 && in.Funct7 != 0x01 {
			return Instruction{}, ErrUnsupportedInstruction
		}
		in.Kind = KindALU
		in.WritesRd = true

	case opSystem:
		switch in.Funct3 {
		case 1, 2, 3, 5, 6, 7: // CSRRW(I), CSRRS(I), CSRRC(I)
			in.Kind = KindSystem
			in.CSR = uint16(bits(word, 31, 20))
			in.WritesRd = in.Rd != 0
			in.WritesCSR = true
			if in.Funct3 >= 5 { // immediate forms carry rs1 as a 5-bit zero-extended value
				in.Imm = int32(in.Rs1)
			}
		case 0: // ECALL / EBREAK, no host-comm effect of their own
			in.Kind = KindSystem
		default:
			return Instruction{}, ErrUnsupportedInstruction
		}

	default:
		return Instruction{}, ErrUnsupportedInstruction
	}

	return in, nil
}
