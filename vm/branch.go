package vm

import (
	"fmt"

	"rv32sim/decoder"
)

// executeBranch handles opcode 0x63: the six conditional branches (spec
// §4.2.5). Every conditional branch, taken or not, is reported to the
// predictor bank exactly once with its signed displacement and actual
// outcome, regardless of whether it is taken.
func (vm *VM) executeBranch(inst decoder.Instruction) error {
	a := vm.CPU.GetRegister(inst.RS1)
	b := vm.CPU.GetRegister(inst.RS2)
	au := uint32(a)
	bu := uint32(b)

	var taken bool
	switch inst.Funct3 {
	case decoder.Funct3BEQ:
		taken = a == b
	case decoder.Funct3BNE:
		taken = a != b
	case decoder.Funct3BLT:
		taken = a < b
	case decoder.Funct3BGE:
		taken = a >= b
	case decoder.Funct3BLTU:
		taken = au < bu
	case decoder.Funct3BGEU:
		taken = au >= bu
	default:
		return fmt.Errorf("%w: funct3 0x%x at 0x%08x", ErrUnknownFunct, inst.Funct3, vm.CPU.PC)
	}

	pc := vm.CPU.PC
	vm.Predictors.Observe(pc, inst.Imm, taken)

	if taken {
		vm.CPU.Branch(pc + uint32(inst.Imm))
	} else {
		vm.CPU.IncrementPC()
	}
	return nil
}
