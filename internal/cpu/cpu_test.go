package cpu

import (
	"testing"

	"github.com/rvsim/rvsim/internal/csr"
	"github.com/rvsim/rvsim/internal/meminterface"
	"github.com/rvsim/rvsim/internal/memory"
)

const (
	opOpImm  = 0x13
	opOp     = 0x33
	opStore  = 0x23
	opLoad   = 0x03
	opBranch = 0x63
	opSystem = 0x73
)

func encodeI(opcode, funct3, rd, rs1 uint32, imm int32) uint32 {
	return (uint32(imm)&0xfff)<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func encodeR(opcode, funct3, funct7, rd, rs1, rs2 uint32) uint32 {
	return funct7<<25 | rs2<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func encodeS(opcode, funct3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm) & 0xfff
	return (u>>5)<<25 | rs2<<20 | rs1<<15 | funct3<<12 | (u&0x1f)<<7 | opcode
}

func tickUntilIdle(t *testing.T, c *CPU, mi meminterface.Interface, maxTicks int) {
	t.Helper()
	for i := 0; i < maxTicks; i++ {
		c.Clock()
		mi.Clock()
		if c.state == Idle && i > 0 {
			return
		}
	}
	t.Fatalf("CPU did not return to Idle within %d ticks (state=%v)", maxTicks, c.state)
}

func TestADDIRetiresAndAdvancesIP(t *testing.T) {
	mem := memory.New(memory.DefaultWords)
	mem.Write(0x200, encodeI(opOpImm, 0, 1, 0, 5)) // addi x1, x0, 5
	mi := meminterface.NewUncached(mem)
	c := New(mi, 0x200)

	tickUntilIdle(t, c, mi, meminterface.UncachedLatency+2)

	if c.ip != 0x204 {
		t.Errorf("ip got %#x want 0x204", c.ip)
	}
	if v := c.regs.Read(1); v != 5 {
		t.Errorf("x1 got %d want 5", v)
	}
}

func TestStoreThenLoadRoundTrip(t *testing.T) {
	mem := memory.New(memory.DefaultWords)
	// addi x1, x0, 0x100   ; base address
	// addi x2, x0, 0x42    ; value
	// sw   x2, 0(x1)
	// lw   x3, 0(x1)
	prog := []uint32{
		encodeI(opOpImm, 0, 1, 0, 0x100),
		encodeI(opOpImm, 0, 2, 0, 0x42),
		encodeS(opStore, 2, 1, 2, 0),
		encodeI(opLoad, 2, 3, 1, 0),
	}
	for i, w := range prog {
		mem.Write(0x200+uint32(i)*4, w)
	}
	mi := meminterface.NewUncached(mem)
	c := New(mi, 0x200)

	// A load or store costs two uncached transactions: fetch, then data.
	for i := 0; i < len(prog); i++ {
		tickUntilIdle(t, c, mi, 2*meminterface.UncachedLatency+2)
	}

	if v := c.regs.Read(3); v != 0x42 {
		t.Errorf("x3 got %#x want 0x42", v)
	}
}

func TestBranchTakenSkipsForward(t *testing.T) {
	mem := memory.New(memory.DefaultWords)
	// beq x0, x0, 8  -> always taken, skip the next instruction
	mem.Write(0x200, func() uint32 {
		imm := int32(8)
		v := uint32((imm>>12)&1)<<31 | uint32((imm>>11)&1)<<7 | uint32((imm>>5)&0x3f)<<25 | uint32((imm>>1)&0xf)<<8
		return v | opBranch
	}())
	mi := meminterface.NewUncached(mem)
	c := New(mi, 0x200)

	tickUntilIdle(t, c, mi, meminterface.UncachedLatency+2)

	if c.ip != 0x208 {
		t.Errorf("ip got %#x want 0x208 (branch taken)", c.ip)
	}
}

func TestCSRRWProducesExitCodeMessageOnlyAfterRetirement(t *testing.T) {
	mem := memory.New(memory.DefaultWords)
	// csrrw x0, 0x780, x1  (ExitCode = 0; x1 is 0 in a fresh register file)
	word := (uint32(0x780) << 20) | (1 << 15) | (1 << 12) | (0 << 7) | opSystem
	mem.Write(0x200, word)
	mi := meminterface.NewUncached(mem)
	c := New(mi, 0x200)

	if _, ok := c.GetMessage(); ok {
		t.Fatalf("message pending before any instruction retired")
	}
	tickUntilIdle(t, c, mi, meminterface.UncachedLatency+2)

	m, ok := c.GetMessage()
	if !ok || m.Kind != csr.KindExitCode {
		t.Errorf("got (%+v, %v) want ExitCode message", m, ok)
	}
}

func TestSuspendsIndefinitelyWithoutMemoryClock(t *testing.T) {
	mem := memory.New(memory.DefaultWords)
	mem.Write(0x200, encodeI(opOpImm, 0, 1, 0, 1))
	mi := meminterface.NewUncached(mem)
	c := New(mi, 0x200)

	for i := 0; i < 10; i++ {
		c.Clock() // memory never ticked
	}
	if c.state != AwaitingFetch {
		t.Errorf("state got %v want AwaitingFetch", c.state)
	}
	if c.ip != 0x200 {
		t.Errorf("ip must not advance while suspended, got %#x", c.ip)
	}
}

func TestResetReinitializes(t *testing.T) {
	mem := memory.New(memory.DefaultWords)
	mem.Write(0x200, encodeI(opOpImm, 0, 1, 0, 5))
	mi := meminterface.NewUncached(mem)
	c := New(mi, 0x200)
	tickUntilIdle(t, c, mi, meminterface.UncachedLatency+2)

	c.Reset(0x1000)
	if c.ip != 0x1000 || c.state != Idle {
		t.Errorf("Reset did not reinitialize ip/state")
	}
	if v := c.regs.Read(1); v != 0 {
		t.Errorf("Reset must clear registers, x1 got %d", v)
	}
}
