package disasm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rv32sim/disasm"
	"rv32sim/decoder"
)

func encodeR(opcode, rd, funct3, rs1, rs2, funct7 uint32) uint32 {
	return funct7<<25 | rs2<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func encodeI(opcode, rd, funct3, rs1 uint32, imm int32) uint32 {
	return uint32(imm)<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func TestDisassembleADD(t *testing.T) {
	word := encodeR(decoder.OpcodeOp, 1, decoder.Funct3AddSub, 2, 3, decoder.Funct7Base)
	assert.Equal(t, "add x1, x2, x3", disasm.Disassemble(0, word))
}

func TestDisassembleMUL(t *testing.T) {
	word := encodeR(decoder.OpcodeOp, 1, decoder.Funct3AddSub, 2, 3, decoder.Funct7M)
	assert.Equal(t, "mul x1, x2, x3", disasm.Disassemble(0, word))
}

func TestDisassembleADDI(t *testing.T) {
	word := encodeI(decoder.OpcodeOpImm, 5, decoder.Funct3AddSub, 0, -1)
	assert.Equal(t, "addi x5, x0, -1", disasm.Disassemble(0, word))
}

func TestDisassembleECALL(t *testing.T) {
	assert.Equal(t, "ecall", disasm.Disassemble(0, decoder.ECALL))
}

func TestDisassembleBranchComputesAbsoluteTarget(t *testing.T) {
	// beq x1, x2, +16 at pc=0x8000 -> target 0x8010
	word := uint32(0)
	disp := int32(16)
	raw := uint32(disp) & 0x1FFE
	word |= ((raw >> 12) & 0x1) << 31
	word |= ((raw >> 5) & 0x3F) << 25
	word |= 2 << 20 // rs2
	word |= 1 << 15 // rs1
	word |= decoder.Funct3BEQ << 12
	word |= ((raw >> 1) & 0xF) << 8
	word |= ((raw >> 11) & 0x1) << 7
	word |= decoder.OpcodeBranch

	assert.Equal(t, "beq x1, x2, 32784", disasm.Disassemble(0x8000, word))
}

func TestDisassembleUnknownOpcode(t *testing.T) {
	assert.Equal(t, "unknown instruction", disasm.Disassemble(0, 0x0000007F))
}

func TestWithSymbolAppendsName(t *testing.T) {
	line := disasm.WithSymbol("jal x1, 100", 100, func(addr uint32) string {
		if addr == 100 {
			return "foo"
		}
		return ""
	})
	assert.Equal(t, "jal x1, 100 <foo>", line)
}

func TestWithSymbolLeavesLineAloneWhenNilLookup(t *testing.T) {
	line := disasm.WithSymbol("jal x1, 100", 100, nil)
	assert.Equal(t, "jal x1, 100", line)
}
