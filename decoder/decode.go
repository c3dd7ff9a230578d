// Package decoder extracts opcode and bitfields from RV32IM instruction
// words. Decoding is a pure function of the 32-bit word: it never touches
// memory, registers, or the program counter, and two calls with the same
// input always produce the same output.
package decoder

// Opcode values for the RV32IM base instruction formats this simulator
// understands (spec §4.2.1). Any other 7-bit opcode is a decode fault.
const (
	OpcodeLoad       = 0x03 // I-type: LB/LH/LW/LBU/LHU
	OpcodeFence      = 0x0F // FENCE/PAUSE, treated as NOP
	OpcodeOpImm      = 0x13 // I-type ALU/shifts
	OpcodeAUIPC      = 0x17 // U-type
	OpcodeStore      = 0x23 // S-type: SB/SH/SW
	OpcodeOp         = 0x33 // R-type RV32I + M-extension
	OpcodeLUI        = 0x37 // U-type
	OpcodeBranch     = 0x63 // B-type conditional branches
	OpcodeJALR       = 0x67 // I-type
	OpcodeJAL        = 0x6F // J-type
	OpcodeSystem     = 0x73 // ECALL and friends
)

// funct3 values for opcode 0x33 / 0x13 (shared between register and
// immediate ALU forms).
const (
	Funct3AddSub = 0x0
	Funct3SllMulh = 0x1
	Funct3SltMulhsu = 0x2
	Funct3SltuMulhu = 0x3
	Funct3XorDiv  = 0x4
	Funct3SrlSraDivu = 0x5
	Funct3OrRem   = 0x6
	Funct3AndRemu = 0x7
)

// funct3 values for opcode 0x63 (conditional branches).
const (
	Funct3BEQ  = 0x0
	Funct3BNE  = 0x1
	Funct3BLT  = 0x4
	Funct3BGE  = 0x5
	Funct3BLTU = 0x6
	Funct3BGEU = 0x7
)

// funct3 values for opcode 0x03 (loads) and 0x23 (stores).
const (
	Funct3Byte          = 0x0 // LB / SB
	Funct3Half          = 0x1 // LH / SH
	Funct3Word          = 0x2 // LW / SW
	Funct3ByteUnsigned  = 0x4 // LBU
	Funct3HalfUnsigned  = 0x5 // LHU
)

// funct7 discriminators.
const (
	Funct7Base = 0x00 // ADD, SLL, SLT, ..., SRL
	Funct7Alt  = 0x20 // SUB, SRA
	Funct7M    = 0x01 // MUL/MULH/.../REMU
)

// ECALL is the only defined SYSTEM encoding.
const ECALL = 0x00000073

// Instruction holds every bitfield extracted from one 32-bit word plus the
// immediate decoded for whichever format applies to its opcode. It is a
// small value type, passed by value, and never stored across a fetch.
type Instruction struct {
	Word   uint32
	Opcode uint32
	RD     uint32
	RS1    uint32
	RS2    uint32
	Funct3 uint32
	Funct7 uint32
	Shamt  uint32

	// Imm holds the sign-extended immediate for I/S/B/J-type instructions,
	// or the U-type immediate (already shifted into bits 31:12) for AUIPC
	// and LUI. Its meaning depends on Opcode; see the per-format decode
	// helpers below.
	Imm int32
}

// Decode extracts the fields of a 32-bit instruction word. It never
// returns an error: an unrecognized opcode is still decoded into its raw
// bitfields, and it is the executor's job to reject it (spec §4.2.1,
// §4.2.2 "unknown funct7 ... silently produce no write").
func Decode(word uint32) Instruction {
	inst := Instruction{
		Word:   word,
		Opcode: word & 0x7F,
		RD:     (word >> 7) & 0x1F,
		Funct3: (word >> 12) & 0x7,
		RS1:    (word >> 15) & 0x1F,
		RS2:    (word >> 20) & 0x1F,
		Funct7: (word >> 25) & 0x7F,
		Shamt:  (word >> 20) & 0x1F,
	}

	switch inst.Opcode {
	case OpcodeLoad, OpcodeOpImm, OpcodeJALR:
		inst.Imm = ImmI(word)
	case OpcodeStore:
		inst.Imm = ImmS(word)
	case OpcodeBranch:
		inst.Imm = ImmB(word)
	case OpcodeLUI, OpcodeAUIPC:
		inst.Imm = ImmU(word)
	case OpcodeJAL:
		inst.Imm = ImmJ(word)
	}
	return inst
}

// ImmI sign-extends the 12-bit I-type immediate in bits 31:20.
func ImmI(word uint32) int32 {
	return int32(word) >> 20
}

// ImmS sign-extends the 12-bit S-type immediate: I[31:25] || I[11:7].
func ImmS(word uint32) int32 {
	upper := (word >> 25) & 0x7F
	lower := (word >> 7) & 0x1F
	raw := (upper << 5) | lower
	return signExtend(raw, 12)
}

// ImmB sign-extends the 13-bit B-type immediate (low bit always 0):
// I[31] || I[7] || I[30:25] || I[11:8] || 0.
func ImmB(word uint32) int32 {
	bit12 := (word >> 31) & 0x1
	bit11 := (word >> 7) & 0x1
	bits10_5 := (word >> 25) & 0x3F
	bits4_1 := (word >> 8) & 0xF
	raw := (bit12 << 12) | (bit11 << 11) | (bits10_5 << 5) | (bits4_1 << 1)
	return signExtend(raw, 13)
}

// ImmU returns the 20-bit U-type immediate already positioned in bits
// 31:12 with the low 12 bits zeroed; it needs no sign extension since it
// occupies the full upper half of the word.
func ImmU(word uint32) int32 {
	return int32(word & 0xFFFFF000)
}

// ImmJ sign-extends the 21-bit J-type immediate (low bit always 0):
// I[31] || I[19:12] || I[20] || I[30:21] || 0.
func ImmJ(word uint32) int32 {
	bit20 := (word >> 31) & 0x1
	bits19_12 := (word >> 12) & 0xFF
	bit11 := (word >> 20) & 0x1
	bits10_1 := (word >> 21) & 0x3FF
	raw := (bit20 << 20) | (bits19_12 << 12) | (bit11 << 11) | (bits10_1 << 1)
	return signExtend(raw, 21)
}

// signExtend sign-extends the low `bits` bits of raw to a full int32.
func signExtend(raw uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(raw<<shift) >> shift
}
