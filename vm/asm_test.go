package vm_test

import "rv32sim/decoder"

// Minimal RV32IM word encoders shared by this package's tests. Mirrors
// decoder_test.go's encodeR/encodeI, extended with the S/B/U/J forms the
// vm package's integration tests need to assemble short programs.

func encodeR(opcode, rd, funct3, rs1, rs2, funct7 uint32) uint32 {
	return funct7<<25 | rs2<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func encodeI(opcode, rd, funct3, rs1 uint32, imm int32) uint32 {
	return uint32(imm)<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func encodeS(opcode, funct3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm) & 0xFFF
	return (u>>5)<<25 | rs2<<20 | rs1<<15 | funct3<<12 | (u&0x1F)<<7 | opcode
}

func encodeB(funct3, rs1, rs2 uint32, disp int32) uint32 {
	raw := uint32(disp) & 0x1FFE
	word := ((raw >> 12) & 0x1) << 31
	word |= ((raw >> 5) & 0x3F) << 25
	word |= rs2 << 20
	word |= rs1 << 15
	word |= funct3 << 12
	word |= ((raw >> 1) & 0xF) << 8
	word |= ((raw >> 11) & 0x1) << 7
	word |= decoder.OpcodeBranch
	return word
}

func encodeU(opcode, rd uint32, imm int32) uint32 {
	return uint32(imm)&0xFFFFF000 | rd<<7 | opcode
}

func encodeJ(rd uint32, disp int32) uint32 {
	v := uint32(disp)
	word := ((v >> 20) & 0x1) << 31
	word |= ((v >> 12) & 0xFF) << 12
	word |= ((v >> 11) & 0x1) << 20
	word |= ((v >> 1) & 0x3FF) << 21
	word |= rd << 7
	word |= decoder.OpcodeJAL
	return word
}

func wordBytes(words ...uint32) []byte {
	buf := make([]byte, 0, 4*len(words))
	for _, w := range words {
		buf = append(buf, byte(w), byte(w>>8), byte(w>>16), byte(w>>24))
	}
	return buf
}
