package vm

import (
	"fmt"

	"rv32sim/decoder"
)

// executeOp handles the R-type opcode (0x33): the RV32I register-register
// ALU plus the M-extension (spec §4.2.2). funct7 selects between the base
// ALU (0x00/0x20) and the multiply/divide extension (0x01). An funct7
// outside that set is not a fault: it silently produces no write, the
// decoder does not raise on it either.
func (vm *VM) executeOp(inst decoder.Instruction) error {
	switch inst.Funct7 {
	case decoder.Funct7Base, decoder.Funct7Alt:
		return vm.executeAluReg(inst)
	case decoder.Funct7M:
		return vm.executeMulDiv(inst)
	default:
		vm.CPU.IncrementPC()
		return nil
	}
}

func (vm *VM) executeAluReg(inst decoder.Instruction) error {
	a := vm.CPU.GetRegister(inst.RS1)
	b := vm.CPU.GetRegister(inst.RS2)
	au := uint32(a)
	bu := uint32(b)

	var result int32
	switch inst.Funct3 {
	case decoder.Funct3AddSub:
		if inst.Funct7 == decoder.Funct7Alt {
			result = a - b
		} else {
			result = a + b
		}
	case decoder.Funct3SllMulh:
		result = int32(au << (bu & 0x1F))
	case decoder.Funct3SltMulhsu:
		result = boolToInt32(a < b)
	case decoder.Funct3SltuMulhu:
		result = boolToInt32(au < bu)
	case decoder.Funct3XorDiv:
		result = a ^ b
	case decoder.Funct3SrlSraDivu:
		if inst.Funct7 == decoder.Funct7Alt {
			result = a >> (bu & 0x1F)
		} else {
			result = int32(au >> (bu & 0x1F))
		}
	case decoder.Funct3OrRem:
		result = a | b
	case decoder.Funct3AndRemu:
		result = a & b
	default:
		return fmt.Errorf("%w: funct3 0x%x at 0x%08x", ErrUnknownFunct, inst.Funct3, vm.CPU.PC)
	}

	vm.CPU.SetRegister(inst.RD, result)
	vm.CPU.IncrementPC()
	return nil
}

// executeOpImm handles the I-type opcode (0x13): RV32I immediate ALU
// operations and shifts (spec §4.2.3).
func (vm *VM) executeOpImm(inst decoder.Instruction) error {
	a := vm.CPU.GetRegister(inst.RS1)
	au := uint32(a)
	imm := inst.Imm

	var result int32
	switch inst.Funct3 {
	case decoder.Funct3AddSub: // ADDI
		result = a + imm
	case decoder.Funct3SllMulh: // SLLI
		result = int32(au << (inst.Shamt & 0x1F))
	case decoder.Funct3SltMulhsu: // SLTI
		result = boolToInt32(a < imm)
	case decoder.Funct3SltuMulhu: // SLTIU
		result = boolToInt32(au < uint32(imm))
	case decoder.Funct3XorDiv: // XORI
		result = a ^ imm
	case decoder.Funct3SrlSraDivu: // SRLI / SRAI: funct7 0x20 selects SRAI, any other funct7 runs SRLI
		if inst.Funct7 == decoder.Funct7Alt {
			result = a >> (inst.Shamt & 0x1F)
		} else {
			result = int32(au >> (inst.Shamt & 0x1F))
		}
	case decoder.Funct3OrRem: // ORI
		result = a | imm
	case decoder.Funct3AndRemu: // ANDI
		result = a & imm
	default:
		return fmt.Errorf("%w: funct3 0x%x at 0x%08x", ErrUnknownFunct, inst.Funct3, vm.CPU.PC)
	}

	vm.CPU.SetRegister(inst.RD, result)
	vm.CPU.IncrementPC()
	return nil
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
