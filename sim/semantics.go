// semantics.go - one handler per instruction family, dispatched from
// CellPair.Run by kind through processTable - the Go equivalent of the
// original Rust ProcessInstruction trait impls, collapsed from per-type
// methods into a flat function table the same shape as the teacher's
// CPU_Z80.baseOps array of opcode handlers.

package sim

import "math/rand/v2"

type processFunc func(cp *CellPair, instr Instruction)

var processTable [kindCount]processFunc

func init() {
	processTable[kindNop] = processNop

	processTable[kindLoadAReg] = processLoadAReg
	processTable[kindLoadAtAReg] = processLoadAtAReg
	processTable[kindLoadRegAtA] = processLoadRegAtA
	processTable[kindLoadAByte] = processLoadAByte
	processTable[kindLoadRegA] = processLoadRegA

	processTable[kindAddAReg] = processAdd(operandReg)
	processTable[kindAddAAtReg] = processAdd(operandAtReg)

	processTable[kindSubAReg] = processSub(operandReg)
	processTable[kindSubAAtReg] = processSub(operandAtReg)

	processTable[kindAndAReg] = processBitwise(operandReg, func(a, b byte) byte { return a & b })
	processTable[kindAndAAtReg] = processBitwise(operandAtReg, func(a, b byte) byte { return a & b })
	processTable[kindOrAReg] = processBitwise(operandReg, func(a, b byte) byte { return a | b })
	processTable[kindOrAAtReg] = processBitwise(operandAtReg, func(a, b byte) byte { return a | b })
	processTable[kindXorAReg] = processBitwise(operandReg, func(a, b byte) byte { return a ^ b })
	processTable[kindXorAAtReg] = processBitwise(operandAtReg, func(a, b byte) byte { return a ^ b })

	processTable[kindNotReg] = processNot(operandReg)
	processTable[kindNotAtReg] = processNot(operandAtReg)

	processTable[kindJumpReg] = processJump(operandReg, false)
	processTable[kindJumpAtReg] = processJump(operandAtReg, false)
	processTable[kindJumpIfZReg] = processJump(operandReg, true)
	processTable[kindJumpIfZAtReg] = processJump(operandAtReg, true)
	processTable[kindJumpByte] = processJumpByte

	processTable[kindPushReg] = processPush(operandReg)
	processTable[kindPushAtReg] = processPush(operandAtReg)
	processTable[kindPopReg] = processPop(operandReg)
	processTable[kindPopAtReg] = processPop(operandAtReg)

	processTable[kindCallReg] = processCall(false)
	processTable[kindCallIfZReg] = processCall(true)
	processTable[kindCallByte] = processCallByte

	processTable[kindRet] = processRet

	processTable[kindShlReg] = processShift(operandReg, true)
	processTable[kindShlAtReg] = processShift(operandAtReg, true)
	processTable[kindShrReg] = processShift(operandReg, false)
	processTable[kindShrAtReg] = processShift(operandAtReg, false)

	processTable[kindCmpAReg] = processCompare
	processTable[kindCmpAByte] = processCompare
	processTable[kindCmpAtAByte] = processCompare

	processTable[kindReplicate] = processReplicate
}

// operandKind distinguishes a direct-register operand from a
// memory-indirect-through-register operand; most instruction families
// have both forms (e.g. "ADD A, reg" vs "ADD A, [reg]").
type operandKind int

const (
	operandReg operandKind = iota
	operandAtReg
)

func readOperand(cp *CellPair, k operandKind, reg Register) byte {
	if k == operandAtReg {
		return cp.getMemoryAtReg(reg)
	}
	return cp.getReg(reg)
}

func writeOperand(cp *CellPair, k operandKind, reg Register, value byte) {
	if k == operandAtReg {
		cp.setMemoryAtReg(reg, value)
	} else {
		cp.setReg(reg, value)
	}
}

func processNop(cp *CellPair, instr Instruction) {}

func processLoadAByte(cp *CellPair, instr Instruction) {
	value := cp.advancePC()
	cp.setReg(RegisterAccumulator, value)
}

func processLoadAReg(cp *CellPair, instr Instruction) {
	cp.setReg(RegisterAccumulator, cp.getReg(instr.Reg))
}

func processLoadAtAReg(cp *CellPair, instr Instruction) {
	cp.setMemoryAtAcc(cp.getReg(instr.Reg))
}

func processLoadRegA(cp *CellPair, instr Instruction) {
	cp.setReg(instr.Reg, cp.getReg(RegisterAccumulator))
}

func processLoadRegAtA(cp *CellPair, instr Instruction) {
	cp.setReg(instr.Reg, cp.getMemoryAtAcc())
}

func processAdd(k operandKind) processFunc {
	return func(cp *CellPair, instr Instruction) {
		value := readOperand(cp, k, instr.Reg)
		acc := cp.getReg(RegisterAccumulator)
		result := acc + value

		cp.setFlagZ(result == 0)
		cp.setFlagN(false)
		cp.setFlagC(uint16(acc)+uint16(value) > 0xFF)

		cp.setReg(RegisterAccumulator, result)
	}
}

func processSub(k operandKind) processFunc {
	return func(cp *CellPair, instr Instruction) {
		value := readOperand(cp, k, instr.Reg)
		acc := cp.getReg(RegisterAccumulator)
		result := acc - value

		cp.setFlagZ(result == 0)
		cp.setFlagN(true)
		cp.setFlagC(value > acc)

		cp.setReg(RegisterAccumulator, result)
	}
}

func processBitwise(k operandKind, op func(a, b byte) byte) processFunc {
	return func(cp *CellPair, instr Instruction) {
		value := readOperand(cp, k, instr.Reg)
		acc := cp.getReg(RegisterAccumulator)
		result := op(acc, value)

		cp.setFlagZ(result == 0)
		cp.setFlagN(false)
		cp.setFlagC(false)

		cp.setReg(RegisterAccumulator, result)
	}
}

func processNot(k operandKind) processFunc {
	return func(cp *CellPair, instr Instruction) {
		value := readOperand(cp, k, instr.Reg)
		result := ^value

		cp.setFlagZ(result == 0)
		cp.setFlagN(false)
		cp.setFlagC(false)

		writeOperand(cp, k, instr.Reg, result)
	}
}

func processShift(k operandKind, left bool) processFunc {
	return func(cp *CellPair, instr Instruction) {
		value := readOperand(cp, k, instr.Reg)

		var result byte
		var carry bool
		if left {
			result = value << 1
			carry = value&0b1000_0000 != 0
		} else {
			result = value >> 1
			carry = value&0b0000_0001 != 0
		}

		cp.setFlagZ(result == 0)
		cp.setFlagN(false)
		cp.setFlagC(carry)

		writeOperand(cp, k, instr.Reg, result)
	}
}

func processCompare(cp *CellPair, instr Instruction) {
	var a, b byte
	switch instr.Kind {
	case kindCmpAReg:
		a, b = cp.getReg(RegisterAccumulator), cp.getReg(instr.Reg)
	case kindCmpAByte:
		a, b = cp.getReg(RegisterAccumulator), cp.advancePC()
	case kindCmpAtAByte:
		a, b = cp.getMemoryAtAcc(), cp.advancePC()
	}

	cp.setFlagZ(a == b)
	cp.setFlagN(true)
	cp.setFlagC(a < b)
}

// processJump implements the reg/at-reg forms of JMP, including the
// unusual-but-verbatim-preserved behavior that JMP pushes the return
// address exactly like CALL does.
func processJump(k operandKind, ifZ bool) processFunc {
	return func(cp *CellPair, instr Instruction) {
		if ifZ && !cp.getFlagZ() {
			return
		}

		address := readOperand(cp, k, instr.Reg)
		cp.pushToStack(cp.getReg(RegisterProgramCounter))
		cp.setReg(RegisterProgramCounter, address)
	}
}

// processJumpByte implements the immediate-operand JMP forms. The operand
// byte is always consumed (PC advances past it) before the conditional
// check short-circuits, so the pushed return address - when the jump is
// taken - is the PC just after the operand, not before it.
func processJumpByte(cp *CellPair, instr Instruction) {
	address := cp.advancePC()

	if instr.IfZ && !cp.getFlagZ() {
		return
	}

	cp.pushToStack(cp.getReg(RegisterProgramCounter))
	cp.setReg(RegisterProgramCounter, address)
}

func processCall(ifZ bool) processFunc {
	return func(cp *CellPair, instr Instruction) {
		if ifZ && !cp.getFlagZ() {
			return
		}

		address := cp.getReg(instr.Reg)
		cp.pushToStack(cp.getReg(RegisterProgramCounter))
		cp.setReg(RegisterProgramCounter, address)
	}
}

func processCallByte(cp *CellPair, instr Instruction) {
	address := cp.advancePC()

	if instr.IfZ && !cp.getFlagZ() {
		return
	}

	cp.pushToStack(cp.getReg(RegisterProgramCounter))
	cp.setReg(RegisterProgramCounter, address)
}

func processRet(cp *CellPair, instr Instruction) {
	if instr.IfZ && !cp.getFlagZ() {
		return
	}

	address := cp.popFromStack()
	cp.setReg(RegisterProgramCounter, address)
}

func processPush(k operandKind) processFunc {
	return func(cp *CellPair, instr Instruction) {
		cp.pushToStack(readOperand(cp, k, instr.Reg))
	}
}

func processPop(k operandKind) processFunc {
	return func(cp *CellPair, instr Instruction) {
		writeOperand(cp, k, instr.Reg, cp.popFromStack())
	}
}

// processReplicate implements REPLICATE when Config.ReplicateEnabled is
// set, following the original commented-out Rust body verbatim: this is
// a swap of the two cells' full state, not a one-directional copy, so the
// program that was running in main now occupies the neighbor's slot
// unmutated, while the slot main now is a mutated copy of whatever the
// neighbor previously held. The pair's remaining cycle budget is
// discarded immediately. Disabled by default, a no-op matching spec.md's
// baseline "current revision" behavior.
func processReplicate(cp *CellPair, instr Instruction) {
	if cp.config == nil || !cp.config.ReplicateEnabled {
		return
	}

	cp.cyclesToRun = 0

	*cp.main, *cp.neighbor = *cp.neighbor, *cp.main

	mutations := cp.config.ReplicateMutations
	for i := 0; i < mutations; i++ {
		address := rand.IntN(MemorySize)
		cp.main.Memory[address] = byte(rand.IntN(256))
	}
}
