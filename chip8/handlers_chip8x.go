package chip8

// installChip8X wires the CHIP-8X override pass from spec §4.2: the
// RCA VP-590/VP-595 color and tone extension. Grounded on the quirk
// table's CHIP-8X row (spec §4.1) and the CHIP-8X peripheral opcode
// list named in population order (spec §4.2 and SPEC_FULL.md
// supplement 6).
func installChip8X(t *[0x10000]opcodeHandler, q Quirks) {
	on(t, 0xFFFF, 0x02A0, opChip8XRotateBackground)
	on(t, 0xF00F, 0x5001, opAddSaturating)
	on(t, 0xF000, 0xB000, opChip8XColorOverlayRegion)
	on(t, 0xF0FF, 0xE0F2, opChip8XUnused)
	on(t, 0xF0FF, 0xE0F5, opChip8XUnused)
	on(t, 0xF0FF, 0xF0F8, opSetVP595Frequency)
	on(t, 0xF0FF, 0xF0FB, opPlayVP595Tone)
}

// opChip8XRotateBackground implements 02A0: rotate the VP-590
// background color register, cycling chip8xBackgroundColor through its
// palette.
func opChip8XRotateBackground(m *Machine, opcode uint16) {
	m.chip8xBackgroundColor = (m.chip8xBackgroundColor + 1) & 0x7
}

// opAddSaturating implements CHIP-8X's 5xy1: Vx = min(Vx+Vy, 0xF),
// saturating at a single nibble instead of wrapping, per spec §4.2's
// "saturating-nibble add".
func opAddSaturating(m *Machine, opcode uint16) {
	x, y := opX(opcode), opY(opcode)
	sum := int(m.V[x]) + int(m.V[y])
	if sum > 0xF {
		sum = 0xF
	}
	m.V[x] = byte(sum)
}

// opChip8XColorOverlayRegion implements Bxy0/Bxyn: paint an n-row tall
// (one row for Bxy0) 4-pixel-wide color overlay block at (Vx,Vy),
// replacing the generic Bnnn jump CHIP-8X's variant pass never installs.
func opChip8XColorOverlayRegion(m *Machine, opcode uint16) {
	n := opN(opcode)
	if n == 0 {
		n = 1
	}
	applyChip8XOverlay(m, opcode, int(n))
}

func applyChip8XOverlay(m *Machine, opcode uint16, rows int) {
	x := int(m.V[opX(opcode)])
	y := int(m.V[opY(opcode)])
	color := byte(opcode & 0x7)
	for row := 0; row < rows*4; row++ {
		for col := 0; col < 4; col++ {
			tx, ty := x*4+col, y*4+row
			if tx < 0 || ty < 0 || tx >= m.Screen.Width || ty >= m.Screen.Height {
				continue
			}
			m.Screen.Set(tx, ty, color)
		}
	}
	m.Host.UpdateScreen()
}

func opChip8XUnused(m *Machine, opcode uint16) {}

// opSetVP595Frequency implements FxF8: load the VP-595 tone generator's
// frequency register from Vx; the audio engine reads it back via
// 27535/(vp595Frequency+1) Hz, per spec §4.4.
func opSetVP595Frequency(m *Machine, opcode uint16) {
	m.vp595Frequency = m.V[opX(opcode)]
}

// opPlayVP595Tone implements FxFB: trigger the VP-595 tone for the
// duration in Vx (interpreted as a DT-like countdown via ST, since the
// core's only audible-duration register is ST).
func opPlayVP595Tone(m *Machine, opcode uint16) {
	m.ST = int32(m.V[opX(opcode)])
}
