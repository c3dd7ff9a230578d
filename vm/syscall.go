package vm

import (
	"fmt"

	"rv32sim/decoder"
)

// Register numbers for the calling convention ECALL relies on: a7 carries
// the syscall number, a0 carries its argument / return value.
const (
	regA0 = 10
	regA7 = 17
)

// executeSystem handles opcode 0x73. Only ECALL is defined; any other
// encoding at this opcode is a decode fault, matching the original
// simulator's behaviour of only recognizing the bare ECALL word (spec
// §4.2.6).
//
// Error Handling Philosophy: only a non-ECALL SYSTEM encoding is a VM
// integrity failure (a decode fault). An ECALL with an a7 value this
// simulator does not recognize has no effect at all: execution continues
// at the next instruction, matching the "other | — | no effect" row of
// the simulator's ecall table.
func (vm *VM) executeSystem(inst decoder.Instruction) error {
	if inst.Word != decoder.ECALL {
		return fmt.Errorf("%w: non-ECALL SYSTEM word 0x%08x at 0x%08x", ErrDecodeFault, inst.Word, vm.CPU.PC)
	}

	switch vm.CPU.GetRegisterUnsigned(regA7) {
	case SyscallGetchar:
		return vm.syscallGetchar()
	case SyscallPutchar:
		return vm.syscallPutchar()
	case SyscallExit3, SyscallExit93:
		return vm.syscallExit()
	default:
		vm.CPU.IncrementPC()
		return nil
	}
}

func (vm *VM) syscallGetchar() error {
	b, err := vm.InputReader.ReadByte()
	if err != nil {
		vm.CPU.SetRegister(regA0, -1)
	} else {
		vm.CPU.SetRegister(regA0, int32(b))
	}
	vm.CPU.IncrementPC()
	return nil
}

func (vm *VM) syscallPutchar() error {
	c := byte(vm.CPU.GetRegisterUnsigned(regA0))
	if _, err := vm.OutputWriter.Write([]byte{c}); err != nil {
		return fmt.Errorf("putchar: %w", err)
	}
	vm.CPU.IncrementPC()
	return nil
}

func (vm *VM) syscallExit() error {
	vm.ExitCode = vm.CPU.GetRegister(regA0)
	vm.State = StateHalted
	vm.CPU.IncrementPC()
	return nil
}
