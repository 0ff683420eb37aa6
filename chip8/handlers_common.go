package chip8

import "math/rand"

// Every handler below reads its operands out of the opcode itself, per
// spec §4.2. x/y/n/nn/nnn are extracted with the same shifts the
// teacher uses in massung-CHIP-8/chip8/chip8.go's Step switch, just
// spread one opcode per function instead of inline in a giant
// if-else chain, since the dispatch table now carries the branch.

func opX(op uint16) uint   { return uint(op>>8) & 0xF }
func opY(op uint16) uint   { return uint(op>>4) & 0xF }
func opN(op uint16) byte   { return byte(op & 0xF) }
func opNN(op uint16) byte  { return byte(op & 0xFF) }
func opNNN(op uint16) uint32 { return uint32(op & 0xFFF) }

func opInvalid(m *Machine, opcode uint16) {
	m.errorHalt(invalidOpcodeMessage(opcode))
}

func invalidOpcodeMessage(opcode uint16) string {
	const hex = "0123456789ABCDEF"
	b := [len("INVALID OPCODE: 0000")]byte{}
	copy(b[:], "INVALID OPCODE: 0000")
	for i := 0; i < 4; i++ {
		b[16+i] = hex[(opcode>>uint(12-4*i))&0xF]
	}
	return string(b[:])
}

func opCLS(m *Machine, opcode uint16) {
	m.Host.PreClear()
	if m.planes != 0 {
		m.Screen.ClearPlane(m.planes)
	}
	m.clearCounter++
}

func opRET(m *Machine, opcode uint16) {
	addr, ok := m.popReturn()
	if !ok {
		return
	}
	m.PC = addr
	m.justReturned = true
}

func opRETCyclic(m *Machine, opcode uint16) {
	addr, _ := m.popReturn()
	m.PC = addr
	m.justReturned = true
}

func opJump(m *Machine, opcode uint16) {
	addr := opNNN(opcode)
	// Jump-to-self detection, spec §4.2.1: 1nnn whose target equals
	// PC-2 (the address of this very instruction) is a clean-halt idiom
	// used by countless ROMs to mark "done".
	if addr == (m.PC-2)&m.AddressMask() {
		m.execMode = Paused
	}
	m.PC = addr
}

func opCall(m *Machine, opcode uint16) {
	if m.pushReturn(m.PC) {
		m.PC = opNNN(opcode)
	}
}

func opSkipEqImm(m *Machine, opcode uint16) {
	if m.V[opX(opcode)] == opNN(opcode) {
		m.skipNext()
	}
}

func opSkipNeImm(m *Machine, opcode uint16) {
	if m.V[opX(opcode)] != opNN(opcode) {
		m.skipNext()
	}
}

func opSkipEqReg(m *Machine, opcode uint16) {
	if m.V[opX(opcode)] == m.V[opY(opcode)] {
		m.skipNext()
	}
}

func opSkipNeReg(m *Machine, opcode uint16) {
	if m.V[opX(opcode)] != m.V[opY(opcode)] {
		m.skipNext()
	}
}

// skipNext advances PC by another instruction width. Long-skip
// variants (XO-CHIP/MEGACHIP two-word prefixes) override this via
// skipNextLong, installed by the variant pass.
func (m *Machine) skipNext() {
	m.PC = (m.PC + 2) & m.AddressMask()
}

// skipNextLong implements the "long skip" quirk from spec §4.2.1: if
// the instruction about to be skipped is a two-word prefix opcode
// (F000 for XO-CHIP, 01nn for MEGACHIP), the skip distance is 4
// instead of 2.
func (m *Machine) skipNextLong() {
	mask := m.AddressMask()
	hi := m.readByte(m.PC & mask)
	lo := m.readByte((m.PC + 1) & mask)
	next := uint16(hi)<<8 | uint16(lo)
	dist := uint32(2)
	if next == 0xF000 || next&0xFF00 == 0x0100 {
		dist = 4
	}
	m.PC = (m.PC + dist) & mask
}

func opLoadImm(m *Machine, opcode uint16) {
	m.V[opX(opcode)] = opNN(opcode)
}

func opAddImm(m *Machine, opcode uint16) {
	m.V[opX(opcode)] += opNN(opcode)
}

func opLoadReg(m *Machine, opcode uint16) {
	m.V[opX(opcode)] = m.V[opY(opcode)]
}

func opOrResetVF(m *Machine, opcode uint16) {
	x := opX(opcode)
	m.V[x] |= m.V[opY(opcode)]
	m.V[0xF] = 0
}

func opOrKeepVF(m *Machine, opcode uint16) {
	x := opX(opcode)
	m.V[x] |= m.V[opY(opcode)]
}

func opAndResetVF(m *Machine, opcode uint16) {
	x := opX(opcode)
	m.V[x] &= m.V[opY(opcode)]
	m.V[0xF] = 0
}

func opAndKeepVF(m *Machine, opcode uint16) {
	x := opX(opcode)
	m.V[x] &= m.V[opY(opcode)]
}

func opXorResetVF(m *Machine, opcode uint16) {
	x := opX(opcode)
	m.V[x] ^= m.V[opY(opcode)]
	m.V[0xF] = 0
}

func opXorKeepVF(m *Machine, opcode uint16) {
	x := opX(opcode)
	m.V[x] ^= m.V[opY(opcode)]
}

// opAddReg implements 8xy4: write the sum low byte to Vx first, then
// set VF to the carry bit, per spec §4.2.1 and invariant 3 — this
// ordering is what lets "8FF4" (x==0xF) observe the carry rather than
// clobbering it before it's computed.
func opAddReg(m *Machine, opcode uint16) {
	x, y := opX(opcode), opY(opcode)
	sum := uint16(m.V[x]) + uint16(m.V[y])
	m.V[x] = byte(sum)
	if sum > 0xFF {
		m.V[0xF] = 1
	} else {
		m.V[0xF] = 0
	}
}

// opSubXY implements 8xy5: Vx = Vx-Vy, VF = 1 if no borrow. Result is
// written first, VF last (spec invariant 3).
func opSubXY(m *Machine, opcode uint16) {
	x, y := opX(opcode), opY(opcode)
	borrow := m.V[x] < m.V[y]
	m.V[x] = m.V[x] - m.V[y]
	if borrow {
		m.V[0xF] = 0
	} else {
		m.V[0xF] = 1
	}
}

// opSubYX implements 8xy7: Vx = Vy-Vx, VF = 1 if no borrow.
func opSubYX(m *Machine, opcode uint16) {
	x, y := opX(opcode), opY(opcode)
	borrow := m.V[y] < m.V[x]
	m.V[x] = m.V[y] - m.V[x]
	if borrow {
		m.V[0xF] = 0
	} else {
		m.V[0xF] = 1
	}
}

// opShrVy/opShlVy read the shift source from Vy (original COSMAC VIP
// behavior); opShrVx/opShlVx ignore Vy and shift Vx in place (the
// JustShiftVx quirk). VF always receives the bit shifted out, written
// after the shifted value per spec invariant 3.
func opShrVy(m *Machine, opcode uint16) {
	x, y := opX(opcode), opY(opcode)
	bit := m.V[y] & 1
	m.V[x] = m.V[y] >> 1
	m.V[0xF] = bit
}

func opShlVy(m *Machine, opcode uint16) {
	x, y := opX(opcode), opY(opcode)
	bit := (m.V[y] >> 7) & 1
	m.V[x] = m.V[y] << 1
	m.V[0xF] = bit
}

func opShrVx(m *Machine, opcode uint16) {
	x := opX(opcode)
	bit := m.V[x] & 1
	m.V[x] = m.V[x] >> 1
	m.V[0xF] = bit
}

func opShlVx(m *Machine, opcode uint16) {
	x := opX(opcode)
	bit := (m.V[x] >> 7) & 1
	m.V[x] = m.V[x] << 1
	m.V[0xF] = bit
}

func opLoadI(m *Machine, opcode uint16) {
	m.I = opNNN(opcode)
}

func opJumpV0(m *Machine, opcode uint16) {
	m.PC = (opNNN(opcode) + uint32(m.V[0])) & m.AddressMask()
}

func opJumpVx(m *Machine, opcode uint16) {
	x := opX(opcode)
	m.PC = (opNNN(opcode) + uint32(m.V[x])) & m.AddressMask()
}

func opRandom(m *Machine, opcode uint16) {
	m.V[opX(opcode)] = byte(rand.Intn(256)) & opNN(opcode)
}

func opSkipKeyPressed(m *Machine, opcode uint16) {
	key := int(m.V[opX(opcode)])
	if m.Host.IsKeyDown(key) {
		m.skipNext()
	}
}

func opSkipKeyNotPressed(m *Machine, opcode uint16) {
	key := int(m.V[opX(opcode)])
	if m.Host.IsKeyUp(key) {
		m.skipNext()
	}
}

func opLoadXDT(m *Machine, opcode uint16) {
	m.V[opX(opcode)] = byte(m.DT)
}

// opLoadXKey implements Fx0A, per spec §4.2.1 and invariant 5: rewind
// PC by 2 until a key-down edge is observed (re-executing this
// instruction every dispatch rather than blocking), priming ST=4 on
// the key-down to drive the feedback click many ROMs expect, then
// resolving on the matching key-up with key-1 stored into Vx. waitKey
// remembers which 1-based key id primed the wait, since Vx itself
// isn't written until resolution and so can't be used to recognize the
// matching release.
func opLoadXKey(m *Machine, opcode uint16) {
	x := opX(opcode)
	key := m.Host.GetKeyPressed()
	switch {
	case m.waitKey > 0 && key == -m.waitKey:
		// the key that primed the wait was released: resolve.
		m.V[x] = byte(m.waitKey - 1)
		m.waitKey = 0
		m.cpuState = StateNormal
	case m.waitKey == 0 && key > 0 && key <= 16:
		m.waitKey = key
		m.ST = 4
		m.cpuState = StateWait
		m.PC = (m.PC - 2) & m.AddressMask()
	default:
		m.cpuState = StateWait
		m.PC = (m.PC - 2) & m.AddressMask()
	}
}

func opLoadDTX(m *Machine, opcode uint16) {
	m.DT = int32(m.V[opX(opcode)])
}

func opLoadSTX(m *Machine, opcode uint16) {
	m.ST = int32(m.V[opX(opcode)])
}

// opAddIX implements Fx1E: I += Vx, masked. Spec §4.2.1 is explicit
// that there is no VF side effect for this instruction.
func opAddIX(m *Machine, opcode uint16) {
	m.I = (m.I + uint32(m.V[opX(opcode)])) & m.AddressMask()
}

func opLoadFontX(m *Machine, opcode uint16) {
	m.I = uint32(m.V[opX(opcode)]&0xF) * 5
}

func opLoadBigFontX(m *Machine, opcode uint16) {
	m.I = bigFontOffset + uint32(m.V[opX(opcode)]&0xF)*10
}

// opBCD implements Fx33: write the hundreds, tens, ones digits of Vx
// to I, I+1, I+2.
func opBCD(m *Machine, opcode uint16) {
	v := m.V[opX(opcode)]
	m.writeByte(m.I+0, v/100)
	m.writeByte(m.I+1, (v/10)%10)
	m.writeByte(m.I+2, v%10)
}

// opSaveRegs/opLoadRegs implement Fx55/Fx65, honoring the three-way
// I-increment policy from spec §4.1/§8.
func opSaveRegs(m *Machine, opcode uint16) {
	x := opX(opcode)
	for i := uint(0); i <= x; i++ {
		m.writeByte(m.I+uint32(i), m.V[i])
	}
	applyLoadStoreInc(m, x)
}

func opLoadRegs(m *Machine, opcode uint16) {
	x := opX(opcode)
	for i := uint(0); i <= x; i++ {
		m.V[i] = m.readByte((m.I + uint32(i)) & m.AddressMask())
	}
	applyLoadStoreInc(m, x)
}

func applyLoadStoreInc(m *Machine, x uint) {
	switch m.props.Quirks.LoadStoreInc {
	case IncIByXPlus1:
		m.I = (m.I + uint32(x) + 1) & m.AddressMask()
	case IncIByX:
		m.I = (m.I + uint32(x)) & m.AddressMask()
	case IncINone:
		// I is left untouched.
	}
}

func opLoRes(m *Machine, opcode uint16) {
	m.setHires(false)
}

func opHiRes(m *Machine, opcode uint16) {
	m.setHires(true)
}

func (m *Machine) setHires(hires bool) {
	if m.props.Quirks.OnlyHires {
		hires = true
	}
	if hires == m.isHires {
		return
	}
	m.isHires = hires
	if m.props.Quirks.ModeChangeClear {
		m.Host.PreClear()
		m.Screen.Clear()
		m.clearCounter++
	}
}

func opExitClean(m *Machine, opcode uint16) {
	m.haltClean()
}

// currentScreenSize returns the logical drawing surface size: in
// MEGACHIP mode this is always 256x192; otherwise it depends on
// isHires.
func (m *Machine) currentScreenSize() (int, int) {
	if m.isMegaChipMode {
		return 256, 192
	}
	if m.isHires {
		return m.Screen.Width, m.Screen.Height
	}
	if m.props.Quirks.AllowHires {
		return m.Screen.Width / 2, m.Screen.Height / 2
	}
	return m.Screen.Width, m.Screen.Height
}
