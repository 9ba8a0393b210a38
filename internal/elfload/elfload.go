/*
 * rvsim - ELF program loader.
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

// Package elfload is the external collaborator that turns a 32-bit or
// 64-bit ELF object into an initialized byte image poked directly into
// main memory, ahead of the first cycle. It leans on the standard
// library's debug/elf for header and program-table parsing rather than
// hand-rolling one: parsing the container format is explicitly out of
// scope for the simulator proper, and debug/elf already does it
// correctly for both ELF classes this loader needs to support.
package elfload

import (
	"debug/elf"
	"fmt"

	"github.com/rvsim/rvsim/internal/memory"
)

// LoadFile opens path, validates it as an ELF32 or ELF64 object, and
// copies every PT_LOAD segment into mem: p_filesz bytes from the file
// followed by (p_memsz - p_filesz) zero bytes, landing at p_paddr.
func LoadFile(path string, mem *memory.Memory) error {
	f, err := elf.Open(path)
	if err != nil {
		return fmt.Errorf("elfload: %w", err)
	}
	defer f.Close()

	return Load(f, mem)
}

// Load copies every PT_LOAD segment of f into mem. It is split out
// from LoadFile so tests can exercise it against an in-memory ELF
// object without touching the filesystem.
func Load(f *elf.File, mem *memory.Memory) error {
	for _, prog := range f.Progs {
		if prog.Type != elf.PT_LOAD || prog.Memsz == 0 {
			continue
		}
		if err := loadSegment(prog, mem); err != nil {
			return err
		}
	}
	return nil
}

func loadSegment(prog *elf.Prog, mem *memory.Memory) error {
	if prog.Filesz > prog.Memsz {
		return fmt.Errorf("elfload: segment at %#x: file size %d exceeds memory size %d", prog.Paddr, prog.Filesz, prog.Memsz)
	}

	data := make([]byte, prog.Filesz)
	if prog.Filesz > 0 {
		n, err := prog.ReadAt(data, 0)
		if err != nil && uint64(n) != prog.Filesz {
			return fmt.Errorf("elfload: segment at %#x: reading %d bytes: %w", prog.Paddr, prog.Filesz, err)
		}
	}

	base := uint32(prog.Paddr)
	mem.Poke(base, data)
	mem.ZeroFill(base+uint32(prog.Filesz), uint32(prog.Memsz-prog.Filesz))
	return nil
}
