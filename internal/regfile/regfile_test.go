package regfile

import "testing"

func TestX0HardwiredZero(t *testing.T) {
	f := New()
	f.Write(0, 0xdeadbeef)
	if v := f.Read(0); v != 0 {
		t.Errorf("x0 read back %#x want 0", v)
	}
}

func TestReadWrite(t *testing.T) {
	f := New()
	f.Write(5, 0x1234)
	if v := f.Read(5); v != 0x1234 {
		t.Errorf("x5 got %#x want 0x1234", v)
	}
}

func TestReset(t *testing.T) {
	f := New()
	f.Write(3, 1)
	f.Write(4, 2)
	f.Reset()
	if f.Read(3) != 0 || f.Read(4) != 0 {
		t.Errorf("Reset did not clear registers")
	}
}
