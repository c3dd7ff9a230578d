package vm

import (
	"fmt"

	"rv32sim/decoder"
)

// executeLoad handles opcode 0x03: LB/LH/LW/LBU/LHU (spec §4.2.4). The
// effective address is rs1 + imm, computed modulo 2^32; any fault raised
// by the memory collaborator (unmapped address, misalignment) propagates
// as the instruction's error.
func (vm *VM) executeLoad(inst decoder.Instruction) error {
	addr := vm.CPU.GetRegisterUnsigned(inst.RS1) + uint32(inst.Imm)

	var result int32
	switch inst.Funct3 {
	case decoder.Funct3Byte:
		b, err := vm.Memory.ReadByte(addr)
		if err != nil {
			return fmt.Errorf("LB: %w", err)
		}
		result = int32(int8(b))
	case decoder.Funct3Half:
		h, err := vm.Memory.ReadHalfword(addr)
		if err != nil {
			return fmt.Errorf("LH: %w", err)
		}
		result = int32(int16(h))
	case decoder.Funct3Word:
		w, err := vm.Memory.ReadWord(addr)
		if err != nil {
			return fmt.Errorf("LW: %w", err)
		}
		result = int32(w)
	case decoder.Funct3ByteUnsigned:
		b, err := vm.Memory.ReadByte(addr)
		if err != nil {
			return fmt.Errorf("LBU: %w", err)
		}
		result = int32(b)
	case decoder.Funct3HalfUnsigned:
		h, err := vm.Memory.ReadHalfword(addr)
		if err != nil {
			return fmt.Errorf("LHU: %w", err)
		}
		result = int32(h)
	default:
		return fmt.Errorf("%w: funct3 0x%x at 0x%08x", ErrUnknownFunct, inst.Funct3, vm.CPU.PC)
	}

	vm.CPU.SetRegister(inst.RD, result)
	vm.CPU.IncrementPC()
	return nil
}

// executeStore handles opcode 0x23: SB/SH/SW (spec §4.2.4).
func (vm *VM) executeStore(inst decoder.Instruction) error {
	addr := vm.CPU.GetRegisterUnsigned(inst.RS1) + uint32(inst.Imm)
	value := vm.CPU.GetRegisterUnsigned(inst.RS2)

	var err error
	switch inst.Funct3 {
	case decoder.Funct3Byte:
		err = vm.Memory.WriteByte(addr, byte(value))
	case decoder.Funct3Half:
		err = vm.Memory.WriteHalfword(addr, uint16(value))
	case decoder.Funct3Word:
		err = vm.Memory.WriteWord(addr, value)
	default:
		return fmt.Errorf("%w: funct3 0x%x at 0x%08x", ErrUnknownFunct, inst.Funct3, vm.CPU.PC)
	}
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}

	vm.CPU.IncrementPC()
	return nil
}
