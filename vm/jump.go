package vm

import (
	"rv32sim/decoder"
)

// executeJAL handles opcode 0x6F: JAL writes PC+4 to rd and jumps to
// PC+imm (spec §4.2.7).
func (vm *VM) executeJAL(inst decoder.Instruction) error {
	link := vm.CPU.PC + 4
	target := vm.CPU.PC + uint32(inst.Imm)
	vm.CPU.SetRegisterUnsigned(inst.RD, link)
	vm.CPU.Branch(target)
	return nil
}

// executeJALR handles opcode 0x67: JALR jumps to (rs1+imm) with bit 0
// cleared, writing PC+4 to rd. The target is computed from rs1 before rd
// is written, so `jalr rd, rd, imm` with rd==rs1 still reads the
// pre-jump value of rs1 (spec §4.2.7 "JALR ordering").
func (vm *VM) executeJALR(inst decoder.Instruction) error {
	target := (vm.CPU.GetRegisterUnsigned(inst.RS1) + uint32(inst.Imm)) &^ 1
	link := vm.CPU.PC + 4
	vm.CPU.SetRegisterUnsigned(inst.RD, link)
	vm.CPU.Branch(target)
	return nil
}
