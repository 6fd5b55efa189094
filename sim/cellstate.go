// cellstate.go - persistent per-cell memory and register file.

package sim

import "math/rand/v2"

const (
	// MemorySize is the per-cell memory length: half of the 256-byte
	// virtual address space a CellPair exposes (main + neighbor).
	MemorySize = 256 / 2

	// CanvasWidth and CanvasHeight are the pixel dimensions of one cell's
	// rendered tile: 49 sub-pixels comfortably cover the 8 register bytes
	// plus ceil(128/3) = 43 memory triples.
	CanvasWidth  = 7
	CanvasHeight = 7
)

// CanvasSize is the per-cell rendered tile size.
var CanvasSize = AreaSize{Width: CanvasWidth, Height: CanvasHeight}

// Register names an entry in CellState.Registers.
type Register int

const (
	RegisterAccumulator Register = iota
	RegisterFlags
	RegisterProgramCounter
	RegisterStackPointer
	RegisterB
	RegisterC
	RegisterD
	RegisterE
)

// registerCount is the fixed size of the register file.
const registerCount = 8

// registerFromBits maps the low 3 bits of an opcode byte to a Register, the
// same numbering the original ISA's decode table assumes everywhere a
// `rrr` field appears.
func registerFromBits(value byte) Register {
	return Register(value & 0b111)
}

const (
	// FlagZMask is the zero flag bit.
	FlagZMask byte = 0b0000_0001
	// FlagNMask is the negative/subtract-direction flag bit.
	FlagNMask byte = 0b0000_0010
	// FlagCMask is the carry/borrow flag bit.
	FlagCMask byte = 0b0000_0100
)

// CellState is the persistent state owned by one grid site: a block of
// byte-addressable memory and a small register file. It is mutated only
// while a CellPair referencing it is active.
type CellState struct {
	Memory    [MemorySize]byte
	Registers [registerCount]byte
}

// NewRandomCellState returns a CellState with every byte of memory and
// every register independently uniformly random.
func NewRandomCellState() CellState {
	var state CellState
	for i := range state.Memory {
		state.Memory[i] = byte(rand.IntN(256))
	}
	for i := range state.Registers {
		state.Registers[i] = byte(rand.IntN(256))
	}
	return state
}
