package chip8

// installXOChip wires the XO-CHIP override pass from spec §4.2: the
// 5xy2/5xy3 register-range save/load, Fx3A pitch, F000nnnn long
// I-load, F002 audio pattern load, the Fx01 plane-select opcode, the
// masked scroll family that respects the current plane selection, and
// long-skip variants of the skip family so a skip over F000nnnn clears
// both words.
func installXOChip(t *[0x10000]opcodeHandler, q Quirks) {
	on(t, 0xF000, 0x3000, opSkipLong(opSkipEqImm))
	on(t, 0xF000, 0x4000, opSkipLong(opSkipNeImm))
	on(t, 0xF00F, 0x5000, opSkipLong(opSkipEqReg))
	on(t, 0xF00F, 0x9000, opSkipLong(opSkipNeReg))
	on(t, 0xF0FF, 0xE09E, opSkipLong(opSkipKeyPressed))
	on(t, 0xF0FF, 0xE0A1, opSkipLong(opSkipKeyNotPressed))

	on(t, 0xF00F, 0x5002, opSaveRange)
	on(t, 0xF00F, 0x5003, opLoadRange)
	on(t, 0xF00F, 0x5004, opLoadPalette16)
	on(t, 0xF0FF, 0xF03A, opSetXOPitch)
	on(t, 0xFFFF, 0xF000, opLoadILong)
	on(t, 0xFFFF, 0xF002, opLoadAudioPattern)
	on(t, 0xF0FF, 0xF001, opSelectPlanes)

	on(t, 0xFFF0, 0x00C0, opScrollDownMasked)
	on(t, 0xFFFF, 0x00FB, opScrollRightMasked)
	on(t, 0xFFFF, 0x00FC, opScrollLeftMasked)
	on(t, 0xFFF0, 0x00D0, opScrollUpMasked)
}

// opSaveRange implements 5xy2: write Vx..Vy (inclusive, works in either
// direction) to memory at I, without touching I afterward, per spec
// §4.2.1.
func opSaveRange(m *Machine, opcode uint16) {
	x, y := int(opX(opcode)), int(opY(opcode))
	lo, hi, step := x, y, 1
	if x > y {
		step = -1
	}
	addr := m.I
	for i := lo; ; i += step {
		m.writeByte(addr, m.V[i])
		addr++
		if i == hi {
			break
		}
	}
}

// opLoadRange implements 5xy3: the inverse load of opSaveRange.
func opLoadRange(m *Machine, opcode uint16) {
	x, y := int(opX(opcode)), int(opY(opcode))
	lo, hi, step := x, y, 1
	if x > y {
		step = -1
	}
	addr := m.I
	for i := lo; ; i += step {
		m.V[i] = m.readByte(addr & m.AddressMask())
		addr++
		if i == hi {
			break
		}
	}
}

// opLoadPalette16 implements 5xy4: replace all 16 palette entries from
// 48 bytes of RGB triples at I, per spec §4.6's
// "updatePalette(array-of-16)" call.
func opLoadPalette16(m *Machine, opcode uint16) {
	var colors [16]RGBA
	addr := m.I
	for i := 0; i < 16; i++ {
		r := m.readByte(addr)
		g := m.readByte(addr + 1)
		b := m.readByte(addr + 2)
		addr += 3
		colors[i] = RGBA{r, g, b, 0xFF}
	}
	m.Host.UpdatePalette16(colors)
}

func opSetXOPitch(m *Machine, opcode uint16) {
	m.setXOPitch(m.V[opX(opcode)])
}

// opLoadILong implements F000 nnnn: the two-word form of Annn that
// loads a full 16-bit address, consuming the second instruction word as
// data rather than decoding it. The long-skip handling in skipNextLong
// only matters for the skip family; here the handler just needs to
// advance PC past the immediate itself.
func opLoadILong(m *Machine, opcode uint16) {
	mask := m.AddressMask()
	hi := m.readByte(m.PC & mask)
	lo := m.readByte((m.PC + 1) & mask)
	m.I = (uint32(hi)<<8 | uint32(lo)) & mask
	m.PC = (m.PC + 2) & mask
}

// opLoadAudioPattern implements F002: load the 16-byte, 128-step sound
// pattern from memory at I into the audio engine's pattern buffer.
func opLoadAudioPattern(m *Machine, opcode uint16) {
	for i := 0; i < 16; i++ {
		m.xoAudioPattern[i] = m.readByte((m.I + uint32(i)) & m.AddressMask())
	}
}

// opSelectPlanes implements Fx01: select which of the bit-planes
// subsequent Dxyn/00E0/scroll opcodes act on, per spec §4.2.1's bitmask
// convention (0 = none, 1 = plane 0, 2 = plane 1, 3 = both, ...).
func opSelectPlanes(m *Machine, opcode uint16) {
	m.planes = byte(opX(opcode)) & 0xF
}
