package chip8

// installMegaChip wires the MEGACHIP override pass from spec §4.2:
// mode switch (0010/0011), the two-word 01nn long I-load, palette load
// (02nn), sprite sizing/blend opcodes (03nn..09nn), the swap-on-clear
// 00E0, and the double-skip
// variants for the two-word 01nn prefix.
func installMegaChip(t *[0x10000]opcodeHandler, q Quirks) {
	on(t, 0xFFFF, 0x0010, opMegaChipOff)
	on(t, 0xFFFF, 0x0011, opMegaChipOn)
	on(t, 0xFFFF, 0x00E0, opCLSMegaChip)
	on(t, 0xFFF0, 0x00B0, opScrollUp)

	on(t, 0xFF00, 0x0100, opMegaLoadILong)
	on(t, 0xFF00, 0x0200, opMegaPalette)
	on(t, 0xFF00, 0x0300, opMegaSpriteWidth)
	on(t, 0xFF00, 0x0400, opMegaSpriteHeight)
	on(t, 0xFF00, 0x0500, opMegaScreenAlpha)
	on(t, 0xFF00, 0x0600, opMegaSampleLoop)
	on(t, 0xFF00, 0x0700, opMegaSampleStart)
	on(t, 0xFF00, 0x0800, opMegaBlendMode)
	on(t, 0xFF00, 0x0900, opMegaCollisionColor)

	on(t, 0xF000, 0x3000, opSkipLong(opSkipEqImm))
	on(t, 0xF000, 0x4000, opSkipLong(opSkipNeImm))
	on(t, 0xF00F, 0x5000, opSkipLong(opSkipEqReg))
	on(t, 0xF00F, 0x9000, opSkipLong(opSkipNeReg))
	on(t, 0xF0FF, 0xE09E, opSkipLong(opSkipKeyPressed))
	on(t, 0xF0FF, 0xE0A1, opSkipLong(opSkipKeyNotPressed))
}

// opSkipLong wraps a skip-family handler so the skip distance honors
// the long-skip quirk (spec §4.2.1): if the instruction being skipped
// is a two-word 01nn prefix, skip 4 bytes instead of 2.
func opSkipLong(base opcodeHandler) opcodeHandler {
	return func(m *Machine, opcode uint16) {
		before := m.PC
		base(m, opcode)
		if m.PC != before {
			// base already advanced PC by 2 via skipNext; upgrade to a
			// long skip if warranted.
			m.PC = (before) & m.AddressMask()
			m.skipNextLong()
		}
	}
}

func opMegaChipOn(m *Machine, opcode uint16) {
	m.isMegaChipMode = true
	m.Host.PreClear()
	m.MegaWork.Clear()
	m.clearCounter++
}

func opMegaChipOff(m *Machine, opcode uint16) {
	m.isMegaChipMode = false
	m.Host.PreClear()
	m.Screen.Clear()
	m.clearCounter++
}

// opCLSMegaChip implements MEGACHIP's 00E0: swap work and present
// planes by reference, notify the host, clear the new work plane, and
// charge the draw cost by consuming the rest of the frame (mirroring
// the original's calcNextFrame credit for this opcode).
func opCLSMegaChip(m *Machine, opcode uint16) {
	if !m.isMegaChipMode {
		opCLS(m, opcode)
		return
	}
	m.Host.PreClear()
	m.megaSwapScreens()
	m.Host.UpdateScreen()
	m.MegaWork.Clear()
	m.clearCounter++
	m.frameConsumed = true
}

// megaSwapScreens swaps the work/present planes by reference (spec §9:
// "Use indexed buffers in an arena rather than pointer graphs" — here
// a pointer swap of the two VideoPlane values satisfies that with no
// arena needed since both planes are already owned by the Machine),
// then resolves the new present plane through mcPalette into
// PresentRGBA, compositing with blendMode against the previous RGBA
// frame.
func (m *Machine) megaSwapScreens() {
	m.MegaWork, m.MegaPresent = m.MegaPresent, m.MegaWork
	for i, idx := range m.MegaPresent.Pixels {
		src := m.mcPalette[idx]
		m.PresentRGBA[i] = compositeRGBA(m.blendMode, src, m.PresentRGBA[i])
	}
}

// opMegaLoadILong implements 01nn nnnn, the two-word MEGACHIP long
// I-load: I = nn<<16 | the second instruction word, masked to the
// address space, and PC advances past the second word.
func opMegaLoadILong(m *Machine, opcode uint16) {
	mask := m.AddressMask()
	hi := m.readByte(m.PC & mask)
	lo := m.readByte((m.PC + 1) & mask)
	m.I = (uint32(opNN(opcode))<<16 | uint32(hi)<<8 | uint32(lo)) & mask
	m.PC = (m.PC + 2) & mask
}

// opMegaPalette implements 02nn: load low-byte(opcode) palette entries
// of 4 bytes (a,r,g,b) from memory at I, per spec §6, and notify the
// host via UpdatePaletteRange.
func opMegaPalette(m *Machine, opcode uint16) {
	count := int(opNN(opcode))
	colors := make([]RGBA, 0, count)
	addr := m.I
	for i := 0; i < count; i++ {
		a := m.readByte(addr)
		r := m.readByte(addr + 1)
		g := m.readByte(addr + 2)
		b := m.readByte(addr + 3)
		addr += 4
		idx := byte(i)
		m.mcPalette[idx] = RGBA{r, g, b, a}
		colors = append(colors, m.mcPalette[idx])
	}
	m.Host.UpdatePaletteRange(colors, 0)
}

func opMegaSpriteWidth(m *Machine, opcode uint16) {
	m.spriteWidth = int(opNN(opcode))
}

func opMegaSpriteHeight(m *Machine, opcode uint16) {
	m.spriteHeight = int(opNN(opcode))
}

// opMegaScreenAlpha implements 05nn. Spec §9 open question: the
// original records this value but does not clearly use it in
// compositing. Cadmium stores it in screenAlpha and does not apply it:
// palette loads (02nn) and megaSwapScreens compositing both ignore it.
func opMegaScreenAlpha(m *Machine, opcode uint16) {
	m.screenAlpha = opNN(opcode)
}

func opMegaSampleLoop(m *Machine, opcode uint16) {
	m.sampleLoop = opNN(opcode) != 0
}

// opMegaSampleStart implements 07nn-style sample descriptor load: a
// 2-byte frequency, 3-byte length, PCM body at I+6, per spec §6.
func opMegaSampleStart(m *Machine, opcode uint16) {
	freq := uint32(m.readByte(m.I))<<8 | uint32(m.readByte(m.I+1))
	length := uint32(m.readByte(m.I+2))<<16 | uint32(m.readByte(m.I+3))<<8 | uint32(m.readByte(m.I+4))
	m.sampleStart = m.I + 6
	setSampleLength(m, int32(length))
	if freq > 0 {
		m.sampleStep = float64(freq) / 44100.0
	}
	setMCSamplePos(m, 0)
}

func opMegaBlendMode(m *Machine, opcode uint16) {
	mode := opNN(opcode)
	if int(mode) < 6 {
		m.blendMode = BlendMode(mode)
	}
}

func opMegaCollisionColor(m *Machine, opcode uint16) {
	m.collisionColor = opNN(opcode)
}
