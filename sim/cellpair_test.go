package sim

import "testing"

// newProgram returns a main/neighbor CellState pair with main's memory
// preloaded with program (followed by trailing zero bytes, i.e. NOPs)
// and a CellPair ready to step through it.
func newProgram(program ...byte) (*CellState, *CellState, *CellPair) {
	main := &CellState{}
	neighbor := &CellState{}
	copy(main.Memory[:], program)
	return main, neighbor, NewCellPair(main, neighbor, nil)
}

// TestLoadImmediateThenAdd exercises LOAD A,#0x2A; ADD A,A.
func TestLoadImmediateThenAdd(t *testing.T) {
	main, _, cp := newProgram(0x18, 0x2A, 0x20)

	cp.step()
	cp.step()

	if got := main.Registers[RegisterAccumulator]; got != 0x54 {
		t.Errorf("A = %#02x, want 0x54", got)
	}
	if pc := main.Registers[RegisterProgramCounter]; pc != 0x03 {
		t.Errorf("PC = %#02x, want 0x03", pc)
	}
	if cp.getFlagZ() {
		t.Error("Z flag set, want clear")
	}
	if cp.getFlag(FlagNMask) {
		t.Error("N flag set, want clear")
	}
	if cp.getFlagC() {
		t.Error("C flag set, want clear")
	}
}

// TestSubToZeroSetsZero exercises LOAD A,#5; SUB A,A.
func TestSubToZeroSetsZero(t *testing.T) {
	main, _, cp := newProgram(0x18, 0x05, 0x30)

	cp.step()
	cp.step()

	if got := main.Registers[RegisterAccumulator]; got != 0 {
		t.Errorf("A = %#02x, want 0", got)
	}
	if !cp.getFlagZ() {
		t.Error("Z flag clear, want set")
	}
	if !cp.getFlag(FlagNMask) {
		t.Error("N flag clear, want set")
	}
	if cp.getFlagC() {
		t.Error("C flag set, want clear")
	}
}

// TestConditionalJumpTakenPushesReturnAddress exercises
// LOAD A,#0; SUB A,A; JMP_IFZ #0x10 and checks that the taken jump both
// redirects PC and pushes the post-operand PC onto the stack, the
// unusual-but-intentional JMP-behaves-like-CALL rule.
func TestConditionalJumpTakenPushesReturnAddress(t *testing.T) {
	main, neighbor, cp := newProgram(0x18, 0x00, 0x30, 0xFB, 0x10)

	cp.step() // LOAD A,#0
	cp.step() // SUB A,A -> Z=1
	cp.step() // JMP_IFZ #0x10

	if pc := main.Registers[RegisterProgramCounter]; pc != 0x10 {
		t.Errorf("PC = %#02x, want 0x10", pc)
	}
	sp := main.Registers[RegisterStackPointer]
	if sp != 0xFF {
		t.Errorf("SP = %#02x, want 0xff", sp)
	}
	if got := neighbor.Memory[127]; got != 0x05 {
		t.Errorf("pushed return address = %#02x, want 0x05", got)
	}
}

// TestPushPopRoundTrip exercises LOAD A,#0xAB; PUSH A; LOAD A,#0; POP A and
// checks SP returns to its starting value while A is restored.
func TestPushPopRoundTrip(t *testing.T) {
	main, _, cp := newProgram(0x18, 0xAB, 0xA0, 0x18, 0x00, 0xB0)

	cp.step() // LOAD A,#0xAB
	cp.step() // PUSH A
	cp.step() // LOAD A,#0
	cp.step() // POP A

	if got := main.Registers[RegisterAccumulator]; got != 0xAB {
		t.Errorf("A = %#02x, want 0xab", got)
	}
	if sp := main.Registers[RegisterStackPointer]; sp != 0 {
		t.Errorf("SP = %#02x, want 0x00", sp)
	}
}

// TestCrossCellMemoryRead exercises LOAD A,#128; LOAD B,[A], confirming
// that an accumulator value of MemorySize or above addresses the
// neighbor's memory rather than main's.
func TestCrossCellMemoryRead(t *testing.T) {
	main, neighbor, cp := newProgram(0x18, 0x80, 0x14)
	neighbor.Memory[0] = 0x77

	cp.step() // LOAD A,#128
	cp.step() // LOAD B,[A]

	if got := main.Registers[RegisterB]; got != 0x77 {
		t.Errorf("B = %#02x, want 0x77", got)
	}
}

// TestAddFlagsWrapExhaustively checks ADD's wraparound and flag semantics
// for every pair of byte operands.
func TestAddFlagsWrapExhaustively(t *testing.T) {
	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			main := &CellState{Registers: [registerCount]byte{RegisterAccumulator: byte(a), RegisterB: byte(b)}}
			cp := NewCellPair(main, &CellState{}, nil)
			processAdd(operandReg)(cp, Instruction{Kind: kindAddAReg, Reg: RegisterB})

			wantResult := byte(a + b)
			wantCarry := a+b > 0xFF
			if got := main.Registers[RegisterAccumulator]; got != wantResult {
				t.Fatalf("ADD %d+%d = %#02x, want %#02x", a, b, got, wantResult)
			}
			if got := cp.getFlagZ(); got != (wantResult == 0) {
				t.Fatalf("ADD %d+%d: Z = %v, want %v", a, b, got, wantResult == 0)
			}
			if got := cp.getFlagC(); got != wantCarry {
				t.Fatalf("ADD %d+%d: C = %v, want %v", a, b, got, wantCarry)
			}
			if cp.getFlag(FlagNMask) {
				t.Fatalf("ADD %d+%d: N set, want clear", a, b)
			}
		}
	}
}

// TestSubFlagsWrapExhaustively checks SUB's wraparound and flag semantics
// for every pair of byte operands.
func TestSubFlagsWrapExhaustively(t *testing.T) {
	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			main := &CellState{Registers: [registerCount]byte{RegisterAccumulator: byte(a), RegisterB: byte(b)}}
			cp := NewCellPair(main, &CellState{}, nil)
			processSub(operandReg)(cp, Instruction{Kind: kindSubAReg, Reg: RegisterB})

			wantResult := byte(a - b)
			wantBorrow := b > a
			if got := main.Registers[RegisterAccumulator]; got != wantResult {
				t.Fatalf("SUB %d-%d = %#02x, want %#02x", a, b, got, wantResult)
			}
			if got := cp.getFlagZ(); got != (wantResult == 0) {
				t.Fatalf("SUB %d-%d: Z = %v, want %v", a, b, got, wantResult == 0)
			}
			if got := cp.getFlagC(); got != wantBorrow {
				t.Fatalf("SUB %d-%d: C = %v, want %v", a, b, got, wantBorrow)
			}
			if !cp.getFlag(FlagNMask) {
				t.Fatalf("SUB %d-%d: N clear, want set", a, b)
			}
		}
	}
}

func TestBitwiseAndShiftFlags(t *testing.T) {
	main := &CellState{Registers: [registerCount]byte{RegisterAccumulator: 0b1010_0110}}
	cp := NewCellPair(main, &CellState{}, nil)

	processShift(operandReg, true)(cp, Instruction{Kind: kindShlReg, Reg: RegisterAccumulator})
	if got := main.Registers[RegisterAccumulator]; got != 0b0100_1100 {
		t.Errorf("SHL result = %#08b, want 0b01001100", got)
	}
	if !cp.getFlagC() {
		t.Error("SHL: C clear, want set (high bit was 1)")
	}

	main.Registers[RegisterAccumulator] = 0
	processNot(operandReg)(cp, Instruction{Kind: kindNotReg, Reg: RegisterAccumulator})
	if got := main.Registers[RegisterAccumulator]; got != 0xFF {
		t.Errorf("NOT 0 = %#02x, want 0xff", got)
	}
	if cp.getFlagZ() {
		t.Error("NOT 0: Z set, want clear")
	}
}

func TestCompareSetsBorrowAndZero(t *testing.T) {
	main := &CellState{Registers: [registerCount]byte{RegisterAccumulator: 5, RegisterB: 9}}
	cp := NewCellPair(main, &CellState{}, nil)

	processCompare(cp, Instruction{Kind: kindCmpAReg, Reg: RegisterB})
	if cp.getFlagZ() {
		t.Error("CMP 5,9: Z set, want clear")
	}
	if !cp.getFlagC() {
		t.Error("CMP 5,9: C clear, want set (5 < 9)")
	}
	if !cp.getFlag(FlagNMask) {
		t.Error("CMP 5,9: N clear, want set")
	}

	main.Registers[RegisterAccumulator] = 9
	processCompare(cp, Instruction{Kind: kindCmpAReg, Reg: RegisterB})
	if !cp.getFlagZ() {
		t.Error("CMP 9,9: Z clear, want set")
	}
}

func TestReplicateDisabledIsNoop(t *testing.T) {
	main := &CellState{}
	neighbor := &CellState{}
	main.Memory[0] = 0x11
	neighbor.Memory[0] = 0x22

	cp := NewCellPair(main, neighbor, nil)
	cp.cyclesToRun = 5
	processReplicate(cp, Instruction{Kind: kindReplicate})

	if main.Memory[0] != 0x11 || neighbor.Memory[0] != 0x22 {
		t.Error("disabled REPLICATE mutated cell memory")
	}
	if cp.cyclesToRun != 5 {
		t.Error("disabled REPLICATE consumed the cycle budget")
	}
}

func TestReplicateEnabledSwapsAndMutates(t *testing.T) {
	main := &CellState{}
	neighbor := &CellState{}
	main.Memory[0] = 0x11
	neighbor.Memory[0] = 0x22

	cfg := NewConfig(WithReplicate(4))
	cp := NewCellPair(main, neighbor, &cfg)
	cp.cyclesToRun = 5
	processReplicate(cp, Instruction{Kind: kindReplicate})

	if cp.cyclesToRun != 0 {
		t.Error("enabled REPLICATE did not zero the remaining cycle budget")
	}
	if neighbor.Memory[0] != 0x11 {
		t.Errorf("neighbor.Memory[0] = %#02x, want 0x11 (swapped from main)", neighbor.Memory[0])
	}
	// main now holds what was the neighbor's data, then mutated in place,
	// so only the swap is checked structurally: main must differ from its
	// pre-swap content in at least the mutated addresses, which can't be
	// asserted byte-for-byte since the mutation is random. The swap alone
	// is verified via neighbor above.
}
