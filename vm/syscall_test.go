package vm_test

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rv32sim/decoder"
	"rv32sim/vm"
)

func ecallWord() uint32 {
	return decoder.ECALL
}

func TestExitSyscallHaltsWithExitCode(t *testing.T) {
	m := vm.NewVM()
	m.CPU.SetRegister(17, vm.SyscallExit93)
	m.CPU.SetRegister(10, 7)
	require.NoError(t, m.LoadProgram(wordBytes(ecallWord()), vm.CodeSegmentStart))
	require.NoError(t, m.Step())
	assert.Equal(t, vm.StateHalted, m.State)
	assert.Equal(t, int32(7), m.GetExitCode())
}

func TestPutcharWritesToOutputWriter(t *testing.T) {
	m := vm.NewVM()
	var buf bytes.Buffer
	m.OutputWriter = &buf
	m.CPU.SetRegister(17, vm.SyscallPutchar)
	m.CPU.SetRegister(10, int32('A'))
	require.NoError(t, m.LoadProgram(wordBytes(ecallWord()), vm.CodeSegmentStart))
	require.NoError(t, m.Step())
	assert.Equal(t, "A", buf.String())
}

func TestGetcharReadsFromInputReader(t *testing.T) {
	m := vm.NewVM()
	m.InputReader = bufio.NewReader(strings.NewReader("Z"))
	m.CPU.SetRegister(17, vm.SyscallGetchar)
	require.NoError(t, m.LoadProgram(wordBytes(ecallWord()), vm.CodeSegmentStart))
	require.NoError(t, m.Step())
	assert.Equal(t, int32('Z'), m.CPU.GetRegister(10))
}

func TestUnknownSyscallHasNoEffect(t *testing.T) {
	m := vm.NewVM()
	m.CPU.SetRegister(17, 999)
	require.NoError(t, m.LoadProgram(wordBytes(ecallWord()), vm.CodeSegmentStart))
	start := m.CPU.PC
	err := m.Step()
	require.NoError(t, err)
	assert.NotEqual(t, vm.StateError, m.State)
	assert.Equal(t, start+4, m.CPU.PC)
}
