package vm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"rv32sim/decoder"
	"rv32sim/disasm"
	"rv32sim/predictor"
)

// ExecutionState is the coarse status of a VM, mirroring the teacher's
// run/halt/error state machine.
type ExecutionState int

const (
	StateRunning ExecutionState = iota
	StateHalted
	StateError
)

func (s ExecutionState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateHalted:
		return "halted"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// ErrDecodeFault is returned by Step when the fetched word does not match
// any opcode this simulator understands (spec §4.2.1, §7 "Unknown
// opcode").
var ErrDecodeFault = errors.New("vm: decode fault")

// ErrUnknownFunct is returned when a load, store or branch carries a
// funct3 value outside the defined RV32IM set. An unknown funct7 is never
// an error: on opcode 0x33 it is a silent no-op, and on shifts any funct7
// other than 0x20 runs as the logical form.
var ErrUnknownFunct = errors.New("vm: unrecognized funct3/funct7")

// VM is the complete machine: architectural state, memory, the predictor
// bank the branch instructions report into, and the bookkeeping the
// outer run loop needs (spec §2 "Decoder -> Predictor bank -> Executor ->
// outer loop").
type VM struct {
	CPU        *CPU
	Memory     *Memory
	Predictors *predictor.Bank

	State ExecutionState

	// MaxInstructions bounds a Run() call (the -max-insns flag).
	MaxInstructions uint64

	InstructionLog []uint32
	LastError      error

	EntryPoint uint32
	StackTop   uint32
	ExitCode   int32

	// OutputWriter and InputReader back ECALL putchar/getchar (spec
	// §4.2.6). They default to stdout/stdin and are swapped out in tests.
	OutputWriter io.Writer
	InputReader  *bufio.Reader

	// Trace, if non-nil, receives one disassembled line per retired
	// instruction (spec §6.3 "-trace").
	Trace io.Writer
}

// NewVM builds a VM with a fresh CPU, memory image and predictor bank.
func NewVM() *VM {
	return &VM{
		CPU:             NewCPU(),
		Memory:          NewMemory(),
		Predictors:      predictor.NewBank(),
		State:           StateHalted,
		MaxInstructions: DefaultMaxInstructions,
		InstructionLog:  make([]uint32, 0, DefaultLogCapacity),
		EntryPoint:      CodeSegmentStart,
		OutputWriter:    os.Stdout,
		InputReader:     bufio.NewReader(os.Stdin),
	}
}

// Reset returns the VM to its just-constructed state, re-initializing the
// predictor bank the same way a fresh simulation invocation would (spec
// §5: no predictor state survives across a run).
func (vm *VM) Reset() {
	vm.CPU.Reset()
	vm.Memory.Reset()
	vm.Predictors = predictor.NewBank()
	vm.State = StateHalted
	vm.InstructionLog = vm.InstructionLog[:0]
	vm.LastError = nil
	vm.ExitCode = 0
}

// LoadProgram copies a flat instruction/data image into memory starting
// at startAddress and points the program counter at it.
func (vm *VM) LoadProgram(data []byte, startAddress uint32) error {
	if err := vm.Memory.LoadBytes(startAddress, data); err != nil {
		return fmt.Errorf("load program: %w", err)
	}
	vm.EntryPoint = startAddress
	vm.CPU.PC = startAddress
	vm.State = StateHalted
	return nil
}

// Bootstrap sets up the stack and program counter the way a freestanding
// RV32 program expects on entry (spec §3.2).
func (vm *VM) Bootstrap() {
	stackTop := uint32(StackSegmentStart + StackSegmentSize)
	vm.StackTop = stackTop
	vm.CPU.SetRegisterUnsigned(2, stackTop) // x2 is the sp by RISC-V convention
	vm.CPU.PC = vm.EntryPoint
	vm.State = StateHalted
	vm.ExitCode = 0
}

// Step fetches, decodes and executes exactly one instruction (spec
// §4.2.8). It returns a non-nil error only for faults that cannot be
// attributed to a specific SPEC_FULL operation (decode faults, memory
// faults propagated from a load/store); an ECALL exit transitions State
// to StateHalted and returns nil.
func (vm *VM) Step() error {
	if vm.State == StateError {
		return fmt.Errorf("vm in error state: %w", vm.LastError)
	}

	pc := vm.CPU.PC
	vm.InstructionLog = append(vm.InstructionLog, pc)

	word, err := vm.Memory.ReadWord(pc)
	if err != nil {
		wrapped := fmt.Errorf("fetch at 0x%08x: %w", pc, err)
		vm.fault(wrapped)
		return wrapped
	}

	inst := decoder.Decode(word)

	if vm.Trace != nil {
		fmt.Fprintf(vm.Trace, "%8d  %08x : %08x   %s\n", len(vm.InstructionLog), pc, word, disasm.Disassemble(pc, word))
	}

	if err := vm.dispatch(inst); err != nil {
		wrapped := fmt.Errorf("execute at 0x%08x: %w", pc, err)
		vm.fault(wrapped)
		return wrapped
	}

	vm.CPU.ForceZeroRegister()
	vm.CPU.IncrementCycles(1)
	return nil
}

func (vm *VM) fault(err error) {
	vm.State = StateError
	vm.LastError = err
}

// dispatch routes a decoded instruction to its family's executor. PC
// advancement for the fall-through case is each family's own
// responsibility, since branch/jump instructions need to set PC to a
// target instead.
func (vm *VM) dispatch(inst decoder.Instruction) error {
	switch inst.Opcode {
	case decoder.OpcodeOp:
		return vm.executeOp(inst)
	case decoder.OpcodeOpImm:
		return vm.executeOpImm(inst)
	case decoder.OpcodeLoad:
		return vm.executeLoad(inst)
	case decoder.OpcodeStore:
		return vm.executeStore(inst)
	case decoder.OpcodeBranch:
		return vm.executeBranch(inst)
	case decoder.OpcodeJAL:
		return vm.executeJAL(inst)
	case decoder.OpcodeJALR:
		return vm.executeJALR(inst)
	case decoder.OpcodeLUI:
		vm.CPU.SetRegister(inst.RD, inst.Imm)
		vm.CPU.IncrementPC()
		return nil
	case decoder.OpcodeAUIPC:
		vm.CPU.SetRegisterUnsigned(inst.RD, vm.CPU.PC+uint32(inst.Imm))
		vm.CPU.IncrementPC()
		return nil
	case decoder.OpcodeFence:
		// FENCE/PAUSE carry no observable effect in this simulator (spec
		// §4.2 "Non-goals": no memory ordering model).
		vm.CPU.IncrementPC()
		return nil
	case decoder.OpcodeSystem:
		return vm.executeSystem(inst)
	default:
		return fmt.Errorf("%w: opcode 0x%02x at 0x%08x", ErrDecodeFault, inst.Opcode, vm.CPU.PC)
	}
}

// Run steps the VM until it halts, faults, or exceeds MaxInstructions.
func (vm *VM) Run() error {
	vm.State = StateRunning
	for vm.State == StateRunning {
		if uint64(len(vm.InstructionLog)) >= vm.MaxInstructions {
			vm.State = StateHalted
			return fmt.Errorf("maximum instruction count exceeded (%d)", vm.MaxInstructions)
		}
		if err := vm.Step(); err != nil {
			return err
		}
	}
	return nil
}

// DumpState renders a one-line summary of the machine, in the same spirit
// as the teacher's VM.DumpState.
func (vm *VM) DumpState() string {
	return fmt.Sprintf("PC=0x%08x SP=0x%08x RA=0x%08x insns=%d state=%s",
		vm.CPU.PC,
		vm.CPU.GetRegisterUnsigned(2),
		vm.CPU.GetRegisterUnsigned(1),
		vm.CPU.Cycles,
		vm.State,
	)
}

// GetExitCode returns the value reported by the program's exit ECALL.
func (vm *VM) GetExitCode() int32 {
	return vm.ExitCode
}
