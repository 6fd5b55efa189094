// cellpair.go - the per-tick interpreter context: two cells sharing one
// 256-byte virtual address space, plus the fetch-decode-execute loop.
// Grounded on original_source/.../cell/cell_pair.rs.

package sim

// cellCycleBudget is the initial cycles_to_run value. The loop in Run
// executes one instruction per pass and stops once this counter has been
// decremented to zero, for up to cellCycleBudget+1 = 38 instructions per
// pair per phase.
const cellCycleBudget = 37

// CellPair is the transient interpreter context for one pair of adjacent
// cells in one phase of one tick. It lives only for the duration of
// CellPair.Run and needs no allocator beyond its two CellState pointers.
type CellPair struct {
	main     *CellState
	neighbor *CellState

	cyclesToRun int

	config *Config
}

// NewCellPair builds a CellPair over two distinct CellStates. config may
// be nil, in which case REPLICATE behaves as the baseline no-op.
func NewCellPair(main, neighbor *CellState, config *Config) *CellPair {
	return &CellPair{
		main:        main,
		neighbor:    neighbor,
		cyclesToRun: cellCycleBudget,
		config:      config,
	}
}

// Run executes the fetch-decode-dispatch loop until the cycle budget is
// exhausted (or REPLICATE forces early termination).
func (cp *CellPair) Run() {
	for {
		cp.step()
		if cp.cyclesToRun == 0 {
			return
		}
		cp.cyclesToRun--
	}
}

// step fetches, decodes and dispatches exactly one instruction.
func (cp *CellPair) step() Instruction {
	opcode := cp.advancePC()
	instr := decode(opcode)
	processTable[instr.Kind](cp, instr)
	return instr
}

// getMemory reads the virtual address space: addresses below MemorySize
// index main's memory, the rest index neighbor's.
func (cp *CellPair) getMemory(address byte) byte {
	if address < MemorySize {
		return cp.main.Memory[address]
	}
	return cp.neighbor.Memory[int(address)-MemorySize]
}

func (cp *CellPair) setMemory(address byte, value byte) {
	if address < MemorySize {
		cp.main.Memory[address] = value
	} else {
		cp.neighbor.Memory[int(address)-MemorySize] = value
	}
}

func (cp *CellPair) getMemoryAtAcc() byte {
	return cp.getMemory(cp.getReg(RegisterAccumulator))
}

func (cp *CellPair) setMemoryAtAcc(value byte) {
	cp.setMemory(cp.getReg(RegisterAccumulator), value)
}

func (cp *CellPair) getMemoryAtReg(reg Register) byte {
	return cp.getMemory(cp.getReg(reg))
}

func (cp *CellPair) setMemoryAtReg(reg Register, value byte) {
	cp.setMemory(cp.getReg(reg), value)
}

// advancePC returns the byte at the current PC and post-increments PC,
// both wrapping across the 256-byte virtual address space.
func (cp *CellPair) advancePC() byte {
	result := cp.getMemory(cp.main.Registers[RegisterProgramCounter])
	cp.main.Registers[RegisterProgramCounter]++
	return result
}

// pushToStack decrements SP then writes value at the new address.
func (cp *CellPair) pushToStack(value byte) {
	cp.main.Registers[RegisterStackPointer]--
	cp.setMemory(cp.main.Registers[RegisterStackPointer], value)
}

// popFromStack reads the byte at SP then increments SP. There is no
// emptiness check: SP wraps around the full 256-byte virtual space, so an
// unbalanced POP simply reads whatever byte is there.
func (cp *CellPair) popFromStack() byte {
	result := cp.getMemory(cp.main.Registers[RegisterStackPointer])
	cp.main.Registers[RegisterStackPointer]++
	return result
}

func (cp *CellPair) getReg(reg Register) byte {
	return cp.main.Registers[reg]
}

func (cp *CellPair) setReg(reg Register, value byte) {
	cp.main.Registers[reg] = value
}

func (cp *CellPair) getFlag(mask byte) bool {
	return cp.main.Registers[RegisterFlags]&mask != 0
}

func (cp *CellPair) setFlag(mask byte, value bool) {
	if value {
		cp.main.Registers[RegisterFlags] |= mask
	} else {
		cp.main.Registers[RegisterFlags] &^= mask
	}
}

func (cp *CellPair) getFlagZ() bool { return cp.getFlag(FlagZMask) }
func (cp *CellPair) getFlagC() bool { return cp.getFlag(FlagCMask) }

func (cp *CellPair) setFlagZ(v bool) { cp.setFlag(FlagZMask, v) }
func (cp *CellPair) setFlagN(v bool) { cp.setFlag(FlagNMask, v) }
func (cp *CellPair) setFlagC(v bool) { cp.setFlag(FlagCMask, v) }
