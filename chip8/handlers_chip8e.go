package chip8

// installChip8E wires the CHIP-8E override pass from spec §4.2: the
// clean-halt 00ED, the 0151/0188 sub-opcodes, signed relative jumps
// BBnn/BFnn, and the Fx1B/Fx4F skip/delay extensions. Grounded on the
// community CHIP-8E reference cross-checked against the quirk table
// (SPEC_FULL.md supplement 5), since original_source doesn't carry a
// CHIP-8E interpreter of its own.
func installChip8E(t *[0x10000]opcodeHandler, q Quirks) {
	on(t, 0xFFFF, 0x00ED, opHaltClean)
	on(t, 0xFFFF, 0x0151, opChip8ENop)
	on(t, 0xFFFF, 0x0188, opSkipNextInstruction)
	on(t, 0xF0FF, 0x5001, opSkipGreater)
	on(t, 0xF0FF, 0x5002, opSkipLess)
	on(t, 0xF0FF, 0x5003, opChip8ENop2)
	on(t, 0xFF00, 0xBB00, opJumpRelForward)
	on(t, 0xFF00, 0xBF00, opJumpRelBackward)
	on(t, 0xF0FF, 0xF01B, opSkipIfVxEqualsN)
	on(t, 0xF0FF, 0xF04F, opAddDTX)
}

func opHaltClean(m *Machine, opcode uint16) {
	m.haltClean()
}

// opChip8ENop/opChip8ENop2 are reserved CHIP-8E prefixes the community
// reference documents but never assigns behavior to beyond "consume the
// instruction and continue" — included so ROMs that emit them don't
// trip the invalid-opcode halt.
func opChip8ENop(m *Machine, opcode uint16) {}

func opChip8ENop2(m *Machine, opcode uint16) {}

// opSkipNextInstruction implements 0188: unconditionally skip the next
// instruction, used by CHIP-8E ROMs as a cheap forward branch.
func opSkipNextInstruction(m *Machine, opcode uint16) {
	m.skipNext()
}

// opSkipGreater/opSkipLess implement CHIP-8E's 5xy1/5xy2: skip if
// Vx>Vy or Vx<Vy respectively, rounding out the 5xyn comparison family
// 5xy0 already covers for equality.
func opSkipGreater(m *Machine, opcode uint16) {
	if m.V[opX(opcode)] > m.V[opY(opcode)] {
		m.skipNext()
	}
}

func opSkipLess(m *Machine, opcode uint16) {
	if m.V[opX(opcode)] < m.V[opY(opcode)] {
		m.skipNext()
	}
}

// opJumpRelForward/opJumpRelBackward implement BBnn/BFnn: PC-relative
// jumps, forward and backward, distinct from Bnnn's absolute (or
// Vx-offset) jump.
func opJumpRelForward(m *Machine, opcode uint16) {
	m.PC = (m.PC + uint32(opNN(opcode))) & m.AddressMask()
}

func opJumpRelBackward(m *Machine, opcode uint16) {
	m.PC = (m.PC - uint32(opNN(opcode))) & m.AddressMask()
}

// opSkipIfVxEqualsN implements Fx1B: skip the next instruction if Vx
// equals the literal value that follows as the next instruction's low
// byte, a CHIP-8E idiom for tight lookup-table dispatch.
func opSkipIfVxEqualsN(m *Machine, opcode uint16) {
	next := m.readByte((m.PC + 1) & m.AddressMask())
	if m.V[opX(opcode)] == next {
		m.skipNext()
	}
}

// opAddDTX implements Fx4F: DT += Vx, rather than the usual DT = Vx
// (Fx15).
func opAddDTX(m *Machine, opcode uint16) {
	m.DT += int32(m.V[opX(opcode)])
}
