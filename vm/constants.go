package vm

// Memory segment layout, adapted from the teacher's four-segment model
// (code/data/heap/stack) to host a freestanding RV32IM program image.
const (
	CodeSegmentStart  uint32 = 0x00008000 // 32KB offset
	CodeSegmentSize   uint32 = 0x00100000 // 1MB
	DataSegmentStart  uint32 = 0x00108000
	DataSegmentSize   uint32 = 0x00100000 // 1MB
	HeapSegmentStart  uint32 = 0x00208000
	HeapSegmentSize   uint32 = 0x00100000 // 1MB
	StackSegmentStart uint32 = 0x00308000
	StackSegmentSize  uint32 = 0x00100000 // 1MB
)

// DefaultMaxInstructions bounds a Run() call so a runaway or wedged
// program cannot hang the host process forever.
const DefaultMaxInstructions = 100_000_000

// DefaultLogCapacity is the initial capacity of the instruction address
// log used for diagnostics.
const DefaultLogCapacity = 1024

// System-call numbers recognized in a7 (spec §4.2.6).
const (
	SyscallGetchar = 1
	SyscallPutchar = 2
	SyscallExit3   = 3
	SyscallExit93  = 93
)
