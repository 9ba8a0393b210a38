package elfload

import (
	"bytes"
	"debug/elf"
	"testing"

	"github.com/rvsim/rvsim/internal/memory"
)

func prog(paddr uint64, data []byte, memsz uint64) *elf.Prog {
	p := &elf.Prog{
		ProgHeader: elf.ProgHeader{
			Type:   elf.PT_LOAD,
			Paddr:  paddr,
			Filesz: uint64(len(data)),
			Memsz:  memsz,
		},
	}
	p.ReaderAt = bytes.NewReader(data)
	return p
}

func TestLoadCopiesFileBytesAndZeroFillsRemainder(t *testing.T) {
	mem := memory.New(memory.DefaultWords)
	mem.Write(0x200, 0xffffffff) // poison the zero-fill region

	f := &elf.File{Progs: []*elf.Prog{
		prog(0x200, []byte{0xef, 0xbe, 0xad, 0xde}, 8),
	}}

	if err := Load(f, mem); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if w := mem.Read(0x200); w != 0xdeadbeef {
		t.Errorf("loaded word got %#x want 0xdeadbeef", w)
	}
	if w := mem.Read(0x204); w != 0 {
		t.Errorf("zero-filled remainder got %#x want 0", w)
	}
}

func TestLoadSkipsNonLoadAndZeroMemszSegments(t *testing.T) {
	mem := memory.New(memory.DefaultWords)

	noteProg := &elf.Prog{ProgHeader: elf.ProgHeader{Type: elf.PT_NOTE, Paddr: 0x1000, Filesz: 4, Memsz: 4}}
	noteProg.ReaderAt = bytes.NewReader([]byte{1, 2, 3, 4})
	zeroProg := &elf.Prog{ProgHeader: elf.ProgHeader{Type: elf.PT_LOAD, Paddr: 0x2000, Filesz: 0, Memsz: 0}}
	zeroProg.ReaderAt = bytes.NewReader(nil)

	f := &elf.File{Progs: []*elf.Prog{noteProg, zeroProg}}
	if err := Load(f, mem); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if mem.Read(0x1000) != 0 {
		t.Errorf("PT_NOTE segment must not be loaded")
	}
}

func TestLoadRejectsFilesizeLargerThanMemsz(t *testing.T) {
	mem := memory.New(memory.DefaultWords)
	f := &elf.File{Progs: []*elf.Prog{
		prog(0x200, []byte{1, 2, 3, 4, 5, 6, 7, 8}, 4),
	}}
	if err := Load(f, mem); err == nil {
		t.Fatalf("expected error when p_filesz > p_memsz")
	}
}
