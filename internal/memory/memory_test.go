package memory

import "testing"

func TestReadWrite(t *testing.T) {
	m := New(64)
	m.Write(0x80, 0xdeadbeef)
	if r := m.Read(0x80); r != 0xdeadbeef {
		t.Errorf("Read not correct got: %#x expected: %#x", r, 0xdeadbeef)
	}
}

func TestSizeWords(t *testing.T) {
	m := New(128)
	if r := m.SizeWords(); r != 128 {
		t.Errorf("SizeWords not correct got: %d expected: %d", r, 128)
	}
}

func TestPokeLittleEndian(t *testing.T) {
	m := New(16)
	m.Poke(0x10, []byte{0xef, 0xbe, 0xad, 0xde})
	if r := m.Read(0x10); r != 0xdeadbeef {
		t.Errorf("Poke not correct got: %#x expected: %#x", r, 0xdeadbeef)
	}
}

func TestPokeUnaligned(t *testing.T) {
	m := New(16)
	m.Write(0x20, 0xffffffff)
	m.Poke(0x21, []byte{0x00, 0x00})
	// Bytes 1 and 2 cleared; bytes 0 and 3 unchanged (0xff).
	if r := m.Read(0x20); r != 0xff0000ff {
		t.Errorf("Poke unaligned not correct got: %#x expected: %#x", r, 0xff0000ff)
	}
}

func TestZeroFill(t *testing.T) {
	m := New(16)
	m.Write(0x30, 0xffffffff)
	m.ZeroFill(0x30, 4)
	if r := m.Read(0x30); r != 0 {
		t.Errorf("ZeroFill not correct got: %#x expected: 0", r)
	}
}
