// Package disasm renders a decoded instruction as the mnemonic text the
// simulator's trace output uses (spec §6.3), grounded line-for-line on
// _examples/original_source/src/disassemble.c's per-opcode switch.
package disasm

import (
	"fmt"

	"rv32sim/decoder"
)

// Disassemble renders the instruction word fetched from address pc as a
// single mnemonic line, e.g. "addi x1, x0, 5" or "beq x1, x2, 4112". It
// never errors: an opcode/funct combination this simulator does not
// recognize renders as "unknown instruction", matching the original's
// behaviour of falling through to that same string rather than
// aborting. On the FENCE opcode only the exact word 0x0000000F renders
// (as "pause"); every other FENCE-opcode word renders as "unknown
// instruction", although the executor runs all of them as NOPs.
func Disassemble(pc uint32, word uint32) string {
	inst := decoder.Decode(word)

	switch inst.Opcode {
	case decoder.OpcodeOp:
		return disassembleOp(inst)
	case decoder.OpcodeLoad:
		return disassembleLoad(inst)
	case decoder.OpcodeOpImm:
		return disassembleOpImm(inst)
	case decoder.OpcodeStore:
		return disassembleStore(inst)
	case decoder.OpcodeBranch:
		return disassembleBranch(pc, inst)
	case decoder.OpcodeAUIPC:
		return fmt.Sprintf("auipc x%d, %d", inst.RD, inst.Imm)
	case decoder.OpcodeLUI:
		return fmt.Sprintf("lui x%d, %d", inst.RD, inst.Imm)
	case decoder.OpcodeJAL:
		return fmt.Sprintf("jal x%d, %d", inst.RD, pc+uint32(inst.Imm))
	case decoder.OpcodeJALR:
		return fmt.Sprintf("jalr x%d, %d(x%d)", inst.RD, inst.Imm, inst.RS1)
	case decoder.OpcodeSystem:
		if word == decoder.ECALL {
			return "ecall"
		}
		return "unknown instruction"
	case decoder.OpcodeFence:
		if word == 0x0000000F {
			return "pause"
		}
		return "unknown instruction"
	default:
		return "unknown instruction"
	}
}

func disassembleOp(inst decoder.Instruction) string {
	rd, rs1, rs2 := inst.RD, inst.RS1, inst.RS2
	switch inst.Funct3 {
	case decoder.Funct3AddSub:
		switch inst.Funct7 {
		case decoder.Funct7Base:
			return fmt.Sprintf("add x%d, x%d, x%d", rd, rs1, rs2)
		case decoder.Funct7Alt:
			return fmt.Sprintf("sub x%d, x%d, x%d", rd, rs1, rs2)
		case decoder.Funct7M:
			return fmt.Sprintf("mul x%d, x%d, x%d", rd, rs1, rs2)
		}
	case decoder.Funct3SllMulh:
		switch inst.Funct7 {
		case decoder.Funct7Base:
			return fmt.Sprintf("sll x%d, x%d, x%d", rd, rs1, rs2)
		case decoder.Funct7M:
			return fmt.Sprintf("mulh x%d, x%d, x%d", rd, rs1, rs2)
		}
	case decoder.Funct3SltMulhsu:
		switch inst.Funct7 {
		case decoder.Funct7Base:
			return fmt.Sprintf("slt x%d, x%d, x%d", rd, rs1, rs2)
		case decoder.Funct7M:
			return fmt.Sprintf("mulhsu x%d, x%d, x%d", rd, rs1, rs2)
		}
	case decoder.Funct3SltuMulhu:
		switch inst.Funct7 {
		case decoder.Funct7Base:
			return fmt.Sprintf("sltu x%d, x%d, x%d", rd, rs1, rs2)
		case decoder.Funct7M:
			return fmt.Sprintf("mulhu x%d, x%d, x%d", rd, rs1, rs2)
		}
	case decoder.Funct3XorDiv:
		switch inst.Funct7 {
		case decoder.Funct7Base:
			return fmt.Sprintf("xor x%d, x%d, x%d", rd, rs1, rs2)
		case decoder.Funct7M:
			return fmt.Sprintf("div x%d, x%d, x%d", rd, rs1, rs2)
		}
	case decoder.Funct3SrlSraDivu:
		switch inst.Funct7 {
		case decoder.Funct7Base:
			return fmt.Sprintf("srl x%d, x%d, x%d", rd, rs1, rs2)
		case decoder.Funct7Alt:
			return fmt.Sprintf("sra x%d, x%d, x%d", rd, rs1, rs2)
		case decoder.Funct7M:
			return fmt.Sprintf("divu x%d, x%d, x%d", rd, rs1, rs2)
		}
	case decoder.Funct3OrRem:
		switch inst.Funct7 {
		case decoder.Funct7Base:
			return fmt.Sprintf("or x%d, x%d, x%d", rd, rs1, rs2)
		case decoder.Funct7M:
			return fmt.Sprintf("rem x%d, x%d, x%d", rd, rs1, rs2)
		}
	case decoder.Funct3AndRemu:
		switch inst.Funct7 {
		case decoder.Funct7Base:
			return fmt.Sprintf("and x%d, x%d, x%d", rd, rs1, rs2)
		case decoder.Funct7M:
			return fmt.Sprintf("remu x%d, x%d, x%d", rd, rs1, rs2)
		}
	}
	return "unknown instruction"
}

func disassembleLoad(inst decoder.Instruction) string {
	switch inst.Funct3 {
	case decoder.Funct3Byte:
		return fmt.Sprintf("lb x%d, %d(x%d)", inst.RD, inst.Imm, inst.RS1)
	case decoder.Funct3Half:
		return fmt.Sprintf("lh x%d, %d(x%d)", inst.RD, inst.Imm, inst.RS1)
	case decoder.Funct3Word:
		return fmt.Sprintf("lw x%d, %d(x%d)", inst.RD, inst.Imm, inst.RS1)
	case decoder.Funct3ByteUnsigned:
		return fmt.Sprintf("lbu x%d, %d(x%d)", inst.RD, inst.Imm, inst.RS1)
	case decoder.Funct3HalfUnsigned:
		return fmt.Sprintf("lhu x%d, %d(x%d)", inst.RD, inst.Imm, inst.RS1)
	default:
		return "unknown instruction"
	}
}

func disassembleOpImm(inst decoder.Instruction) string {
	rd, rs1 := inst.RD, inst.RS1
	switch inst.Funct3 {
	case decoder.Funct3AddSub:
		return fmt.Sprintf("addi x%d, x%d, %d", rd, rs1, inst.Imm)
	case decoder.Funct3SltMulhsu:
		return fmt.Sprintf("slti x%d, x%d, %d", rd, rs1, inst.Imm)
	case decoder.Funct3SltuMulhu:
		return fmt.Sprintf("sltiu x%d, x%d, %d", rd, rs1, inst.Imm)
	case decoder.Funct3XorDiv:
		return fmt.Sprintf("xori x%d, x%d, %d", rd, rs1, inst.Imm)
	case decoder.Funct3OrRem:
		return fmt.Sprintf("ori x%d, x%d, %d", rd, rs1, inst.Imm)
	case decoder.Funct3AndRemu:
		return fmt.Sprintf("andi x%d, x%d, %d", rd, rs1, inst.Imm)
	case decoder.Funct3SllMulh:
		if inst.Funct7 == decoder.Funct7Base {
			return fmt.Sprintf("slli x%d, x%d, %d", rd, rs1, inst.Shamt)
		}
	case decoder.Funct3SrlSraDivu:
		switch inst.Funct7 {
		case decoder.Funct7Base:
			return fmt.Sprintf("srli x%d, x%d, %d", rd, rs1, inst.Shamt)
		case decoder.Funct7Alt:
			return fmt.Sprintf("srai x%d, x%d, %d", rd, rs1, inst.Shamt)
		}
	}
	return "unknown instruction"
}

func disassembleStore(inst decoder.Instruction) string {
	switch inst.Funct3 {
	case decoder.Funct3Byte:
		return fmt.Sprintf("sb x%d, %d(x%d)", inst.RS2, inst.Imm, inst.RS1)
	case decoder.Funct3Half:
		return fmt.Sprintf("sh x%d, %d(x%d)", inst.RS2, inst.Imm, inst.RS1)
	case decoder.Funct3Word:
		return fmt.Sprintf("sw x%d, %d(x%d)", inst.RS2, inst.Imm, inst.RS1)
	default:
		return "unknown instruction"
	}
}

func disassembleBranch(pc uint32, inst decoder.Instruction) string {
	target := pc + uint32(inst.Imm)
	switch inst.Funct3 {
	case decoder.Funct3BEQ:
		return fmt.Sprintf("beq x%d, x%d, %d", inst.RS1, inst.RS2, target)
	case decoder.Funct3BNE:
		return fmt.Sprintf("bne x%d, x%d, %d", inst.RS1, inst.RS2, target)
	case decoder.Funct3BLT:
		return fmt.Sprintf("blt x%d, x%d, %d", inst.RS1, inst.RS2, target)
	case decoder.Funct3BGE:
		return fmt.Sprintf("bge x%d, x%d, %d", inst.RS1, inst.RS2, target)
	case decoder.Funct3BLTU:
		return fmt.Sprintf("bltu x%d, x%d, %d", inst.RS1, inst.RS2, target)
	case decoder.Funct3BGEU:
		return fmt.Sprintf("bgeu x%d, x%d, %d", inst.RS1, inst.RS2, target)
	default:
		return "unknown instruction"
	}
}

// WithSymbol appends " <name>" to a disassembled line when addr resolves
// to a known symbol, the Go analogue of the original's optional
// symbols_value_to_sym pretty-printing.
func WithSymbol(line string, addr uint32, symbolAt func(uint32) string) string {
	if symbolAt == nil {
		return line
	}
	if name := symbolAt(addr); name != "" {
		return fmt.Sprintf("%s <%s>", line, name)
	}
	return line
}
