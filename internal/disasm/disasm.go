/*
 * rvsim - RV32I/M disassembler for debug tracing.
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

// Package disasm renders a decoded instruction as a mnemonic string for
// debug-level tracing. It has zero architectural effect: the CPU
// controller never calls it, the harness does, only when logging at
// slog.LevelDebug.
package disasm

import (
	"fmt"
	"strings"

	"github.com/rvsim/rvsim/internal/isa"
	hexfmt "github.com/rvsim/rvsim/util/hex"
)

var aluRegMnemonic = map[uint8]string{
	0: "add", 1: "sll", 2: "slt", 3: "sltu",
	4: "xor", 5: "srl", 6: "or", 7: "and",
}

var aluRegAltMnemonic = map[uint8]string{0: "sub", 5: "sra"}

var aluMExtMnemonic = map[uint8]string{
	0: "mul", 1: "mulh", 2: "mulhsu", 3: "mulhu",
	4: "div", 5: "divu", 6: "rem", 7: "remu",
}

var aluImmMnemonic = map[uint8]string{
	0: "addi", 1: "slli", 2: "slti", 3: "sltiu",
	4: "xori", 5: "srli", 6: "ori", 7: "andi",
}

var branchMnemonic = map[uint8]string{
	0: "beq", 1: "bne", 4: "blt", 5: "bge", 6: "bltu", 7: "bgeu",
}

var csrMnemonic = map[uint8]string{
	1: "csrrw", 2: "csrrs", 3: "csrrc",
	5: "csrrwi", 6: "csrrsi", 7: "csrrci",
}

// String renders in as an assembly mnemonic with its operands, the
// way a debugger trace line would show it.
func String(in *isa.Instruction) string {
	switch in.Kind {
	case isa.KindALU:
		return formatALU(in)
	case isa.KindLoad:
		return fmt.Sprintf("lw   x%d, %d(x%d)", in.Rd, in.Imm, in.Rs1)
	case isa.KindStore:
		return fmt.Sprintf("sw   x%d, %d(x%d)", in.Rs2, in.Imm, in.Rs1)
	case isa.KindBranch:
		name := branchMnemonic[in.Funct3]
		if name == "" {
			name = "b?"
		}
		return fmt.Sprintf("%-4s x%d, x%d, %d", name, in.Rs1, in.Rs2, in.Imm)
	case isa.KindJump:
		if in.Raw&0x7f == 0x67 {
			return fmt.Sprintf("jalr x%d, %d(x%d)", in.Rd, in.Imm, in.Rs1)
		}
		return fmt.Sprintf("jal  x%d, %d", in.Rd, in.Imm)
	case isa.KindSystem:
		return formatSystem(in)
	default:
		return rawHex(in.Raw)
	}
}

func formatALU(in *isa.Instruction) string {
	switch in.Raw & 0x7f {
	case 0x37:
		return fmt.Sprintf("lui  x%d, %#x", in.Rd, uint32(in.Imm)>>12)
	case 0x17:
		return fmt.Sprintf("auipc x%d, %#x", in.Rd, uint32(in.Imm)>>12)
	case 0x13:
		name := aluImmMnemonic[in.Funct3]
		return fmt.Sprintf("%-5s x%d, x%d, %d", name, in.Rd, in.Rs1, in.Imm)
	default:
		if in.Funct7 == 0x01 {
			return fmt.Sprintf("%-6s x%d, x%d, x%d", aluMExtMnemonic[in.Funct3], in.Rd, in.Rs1, in.Rs2)
		}
		name := aluRegMnemonic[in.Funct3]
		if in.Funct7 == 0x20 {
			if alt, ok := aluRegAltMnemonic[in.Funct3]; ok {
				name = alt
			}
		}
		return fmt.Sprintf("%-4s x%d, x%d, x%d", name, in.Rd, in.Rs1, in.Rs2)
	}
}

func formatSystem(in *isa.Instruction) string {
	if !in.WritesCSR {
		return "ecall/ebreak"
	}
	name := csrMnemonic[in.Funct3]
	if in.Funct3 >= 5 {
		return fmt.Sprintf("%-6s x%d, %#x, %d", name, in.Rd, in.CSR, in.Imm)
	}
	return fmt.Sprintf("%-6s x%d, %#x, x%d", name, in.Rd, in.CSR, in.Rs1)
}

func rawHex(word uint32) string {
	var b strings.Builder
	hexfmt.FormatWord(&b, []uint32{word})
	return strings.TrimSpace(b.String())
}
