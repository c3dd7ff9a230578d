package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rv32sim/decoder"
	"rv32sim/vm"
)

func TestBEQTakenBranchesAndRecordsPredictor(t *testing.T) {
	m := vm.NewVM()
	m.CPU.SetRegister(1, 5)
	m.CPU.SetRegister(2, 5)
	beq := encodeB(decoder.Funct3BEQ, 1, 2, 16)
	require.NoError(t, m.LoadProgram(wordBytes(beq), vm.CodeSegmentStart))
	require.NoError(t, m.Step())
	assert.Equal(t, vm.CodeSegmentStart+16, m.CPU.PC)
	assert.Equal(t, uint64(1), m.Predictors.NT().Predictions)
	assert.Equal(t, uint64(1), m.Predictors.NT().Mispredictions)
}

func TestBNENotTakenFallsThrough(t *testing.T) {
	m := vm.NewVM()
	m.CPU.SetRegister(1, 5)
	m.CPU.SetRegister(2, 5)
	bne := encodeB(decoder.Funct3BNE, 1, 2, 16)
	require.NoError(t, m.LoadProgram(wordBytes(bne), vm.CodeSegmentStart))
	require.NoError(t, m.Step())
	assert.Equal(t, vm.CodeSegmentStart+4, m.CPU.PC)
	assert.Zero(t, m.Predictors.NT().Mispredictions)
}

func TestBackwardBEQTakenDoesNotMispredictBTFNT(t *testing.T) {
	m := vm.NewVM()
	m.CPU.PC = vm.CodeSegmentStart + 100
	m.CPU.SetRegister(1, 1)
	m.CPU.SetRegister(2, 1)
	beq := encodeB(decoder.Funct3BEQ, 1, 2, -8)
	require.NoError(t, m.LoadProgram(wordBytes(beq), m.CPU.PC))
	require.NoError(t, m.Step())
	assert.Zero(t, m.Predictors.BTFNT().Mispredictions)
}

func TestBLTSigned(t *testing.T) {
	m := vm.NewVM()
	m.CPU.SetRegister(1, -5)
	m.CPU.SetRegister(2, 1)
	blt := encodeB(decoder.Funct3BLT, 1, 2, 8)
	require.NoError(t, m.LoadProgram(wordBytes(blt), vm.CodeSegmentStart))
	require.NoError(t, m.Step())
	assert.Equal(t, vm.CodeSegmentStart+8, m.CPU.PC)
}

func TestBLTUUnsigned(t *testing.T) {
	m := vm.NewVM()
	m.CPU.SetRegister(1, -5) // huge as unsigned
	m.CPU.SetRegister(2, 1)
	bltu := encodeB(decoder.Funct3BLTU, 1, 2, 8)
	require.NoError(t, m.LoadProgram(wordBytes(bltu), vm.CodeSegmentStart))
	require.NoError(t, m.Step())
	assert.Equal(t, vm.CodeSegmentStart+4, m.CPU.PC, "unsigned -5 is not less than 1")
}
