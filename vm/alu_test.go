package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rv32sim/decoder"
	"rv32sim/vm"
)

func newLoadedVM(t *testing.T, words ...uint32) *vm.VM {
	t.Helper()
	m := vm.NewVM()
	require.NoError(t, m.LoadProgram(wordBytes(words...), vm.CodeSegmentStart))
	return m
}

func TestADDI(t *testing.T) {
	m := newLoadedVM(t, encodeI(decoder.OpcodeOpImm, 1, decoder.Funct3AddSub, 0, -1))
	require.NoError(t, m.Step())
	assert.Equal(t, int32(-1), m.CPU.GetRegister(1))
}

func TestSRAIArithmeticShift(t *testing.T) {
	m := vm.NewVM()
	m.CPU.SetRegister(1, -8)
	word := encodeI(decoder.OpcodeOpImm, 2, decoder.Funct3SrlSraDivu, 1, 1) | decoder.Funct7Alt<<25
	require.NoError(t, m.LoadProgram(wordBytes(word), vm.CodeSegmentStart))
	require.NoError(t, m.Step())
	assert.Equal(t, int32(-4), m.CPU.GetRegister(2))
}

func TestSRLILogicalShift(t *testing.T) {
	m := vm.NewVM()
	m.CPU.SetRegister(1, -8) // 0xFFFFFFF8
	word := encodeI(decoder.OpcodeOpImm, 2, decoder.Funct3SrlSraDivu, 1, 1)
	require.NoError(t, m.LoadProgram(wordBytes(word), vm.CodeSegmentStart))
	require.NoError(t, m.Step())
	assert.Equal(t, uint32(0x7FFFFFFC), m.CPU.GetRegisterUnsigned(2))
}

func TestADDRegisterRegister(t *testing.T) {
	m := vm.NewVM()
	m.CPU.SetRegister(1, 10)
	m.CPU.SetRegister(2, 32)
	word := encodeR(decoder.OpcodeOp, 3, decoder.Funct3AddSub, 1, 2, decoder.Funct7Base)
	require.NoError(t, m.LoadProgram(wordBytes(word), vm.CodeSegmentStart))
	require.NoError(t, m.Step())
	assert.Equal(t, int32(42), m.CPU.GetRegister(3))
}

func TestSUBRegisterRegister(t *testing.T) {
	m := vm.NewVM()
	m.CPU.SetRegister(1, 10)
	m.CPU.SetRegister(2, 32)
	word := encodeR(decoder.OpcodeOp, 3, decoder.Funct3AddSub, 1, 2, decoder.Funct7Alt)
	require.NoError(t, m.LoadProgram(wordBytes(word), vm.CodeSegmentStart))
	require.NoError(t, m.Step())
	assert.Equal(t, int32(-22), m.CPU.GetRegister(3))
}

func TestSLTSigned(t *testing.T) {
	m := vm.NewVM()
	m.CPU.SetRegister(1, -1)
	m.CPU.SetRegister(2, 1)
	word := encodeR(decoder.OpcodeOp, 3, decoder.Funct3SltMulhsu, 1, 2, decoder.Funct7Base)
	require.NoError(t, m.LoadProgram(wordBytes(word), vm.CodeSegmentStart))
	require.NoError(t, m.Step())
	assert.Equal(t, int32(1), m.CPU.GetRegister(3))
}

func TestSLTUUnsigned(t *testing.T) {
	m := vm.NewVM()
	m.CPU.SetRegister(1, -1) // huge as unsigned
	m.CPU.SetRegister(2, 1)
	word := encodeR(decoder.OpcodeOp, 3, decoder.Funct3SltuMulhu, 1, 2, decoder.Funct7Base)
	require.NoError(t, m.LoadProgram(wordBytes(word), vm.CodeSegmentStart))
	require.NoError(t, m.Step())
	assert.Zero(t, m.CPU.GetRegister(3))
}

func TestOpImmUnknownFunct7ForShiftDoesNotFault(t *testing.T) {
	m := vm.NewVM()
	word := encodeI(decoder.OpcodeOpImm, 1, decoder.Funct3SrlSraDivu, 0, 0) | uint32(0x10)<<25
	require.NoError(t, m.LoadProgram(wordBytes(word), vm.CodeSegmentStart))
	err := m.Step()
	// A bogus funct7 bit pattern on a shift still runs: only funct7 0x20
	// selects SRAI, anything else runs as SRLI, so this should NOT fault.
	assert.NoError(t, err)
}

func TestOpUnknownFunct7IsSilentNoOp(t *testing.T) {
	m := vm.NewVM()
	m.CPU.SetRegister(1, 5)
	m.CPU.SetRegister(2, 7)
	m.CPU.SetRegister(3, 99)
	word := encodeR(decoder.OpcodeOp, 3, decoder.Funct3AddSub, 1, 2, 0x10)
	require.NoError(t, m.LoadProgram(wordBytes(word), vm.CodeSegmentStart))
	start := m.CPU.PC
	require.NoError(t, m.Step())
	assert.Equal(t, int32(99), m.CPU.GetRegister(3))
	assert.Equal(t, start+4, m.CPU.PC)
	assert.NotEqual(t, vm.StateError, m.State)
}

func TestWriteToX0IsDiscarded(t *testing.T) {
	m := vm.NewVM()
	m.CPU.SetRegister(1, 99)
	word := encodeI(decoder.OpcodeOpImm, 0, decoder.Funct3AddSub, 1, 5)
	require.NoError(t, m.LoadProgram(wordBytes(word), vm.CodeSegmentStart))
	require.NoError(t, m.Step())
	assert.Zero(t, m.CPU.GetRegister(0))
}
