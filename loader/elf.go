// Package loader reads a statically linked RV32 ELF executable into a
// vm.Memory image, the Go-native replacement for the teacher's
// assembly-level LoadProgramIntoVM: rather than encoding source text, it
// consumes an already-assembled binary the same way the original
// simulator's read_elf did (_examples/original_source/src/read_elf.h).
package loader

import (
	"debug/elf"
	"fmt"
	"sort"

	"rv32sim/vm"
)

// ProgramInfo mirrors the original simulator's `struct program_info`:
// the bounds of the text segment and the program's entry address.
type ProgramInfo struct {
	TextStart uint32
	TextEnd   uint32
	Entry     uint32
}

// LoadELF reads the ELF file at path, copies every PT_LOAD segment into
// machine's memory at its physical address, and points the program
// counter at the file's entry point. It returns the text segment bounds
// and a name->address symbol table built from the file's symbol section,
// when present (spec §6.2, SUPPLEMENTED FEATURES "symbol-aware trace").
func LoadELF(machine *vm.VM, path string) (ProgramInfo, map[string]uint32, error) {
	f, err := elf.Open(path)
	if err != nil {
		return ProgramInfo{}, nil, fmt.Errorf("open elf: %w", err)
	}
	defer f.Close()

	if f.Class != elf.ELFCLASS32 {
		return ProgramInfo{}, nil, fmt.Errorf("loader: %s is not a 32-bit ELF", path)
	}
	if f.Machine != elf.EM_RISCV {
		return ProgramInfo{}, nil, fmt.Errorf("loader: %s is not a RISC-V ELF", path)
	}

	info := ProgramInfo{Entry: uint32(f.Entry)}
	info.TextStart = ^uint32(0)

	for _, prog := range f.Progs {
		if prog.Type != elf.PT_LOAD {
			continue
		}

		data := make([]byte, prog.Filesz)
		if _, err := prog.ReadAt(data, 0); err != nil {
			return ProgramInfo{}, nil, fmt.Errorf("read segment at 0x%08x: %w", prog.Paddr, err)
		}

		start := uint32(prog.Paddr)
		machine.Memory.EnsureCapacity(start, uint32(prog.Memsz))
		if err := machine.Memory.LoadBytes(start, data); err != nil {
			return ProgramInfo{}, nil, fmt.Errorf("load segment at 0x%08x: %w", start, err)
		}

		if prog.Flags&elf.PF_X != 0 {
			end := start + uint32(prog.Memsz)
			if start < info.TextStart {
				info.TextStart = start
			}
			if end > info.TextEnd {
				info.TextEnd = end
			}
		}
	}

	if info.TextStart == ^uint32(0) {
		info.TextStart = 0
	}

	symbols, err := readSymbols(f)
	if err != nil {
		return ProgramInfo{}, nil, fmt.Errorf("read symbols: %w", err)
	}

	machine.EntryPoint = info.Entry
	machine.CPU.PC = info.Entry

	return info, symbols, nil
}

// readSymbols builds a name->address map from the ELF's symbol table,
// skipping unnamed and zero-valued entries. It returns an empty, non-nil
// map rather than an error if the file carries no symbol table (stripped
// binaries are not a load failure).
func readSymbols(f *elf.File) (map[string]uint32, error) {
	syms, err := f.Symbols()
	if err != nil {
		if err == elf.ErrNoSymbols {
			return map[string]uint32{}, nil
		}
		return nil, err
	}

	out := make(map[string]uint32, len(syms))
	for _, s := range syms {
		if s.Name == "" || s.Value == 0 {
			continue
		}
		if elf.ST_TYPE(s.Info) != elf.STT_FUNC && elf.ST_TYPE(s.Info) != elf.STT_OBJECT && elf.ST_TYPE(s.Info) != elf.STT_NOTYPE {
			continue
		}
		out[s.Name] = uint32(s.Value)
	}
	return out, nil
}

// FindEntryPoint resolves a preferred entry symbol name (spec §6.2),
// falling back to the ELF header's own entry address when none of the
// candidates are present.
func FindEntryPoint(symbols map[string]uint32, fallback uint32) uint32 {
	for _, name := range []string{"_start", "main", "__start", "start"} {
		if addr, ok := symbols[name]; ok {
			return addr
		}
	}
	return fallback
}

// SymbolAt returns the name of the symbol whose address equals addr
// exactly, the Go equivalent of symbols_value_to_sym, or "" if none
// matches.
func SymbolAt(symbols map[string]uint32, addr uint32) string {
	// Deterministic tie-break when multiple names alias one address:
	// prefer the lexicographically smallest, matching the original's
	// first-match-wins table scan given a stable symbol order.
	names := make([]string, 0, 1)
	for name, value := range symbols {
		if value == addr {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	return names[0]
}
