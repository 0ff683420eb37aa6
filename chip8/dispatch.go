package chip8

// BlendMode selects MEGACHIP sprite compositing, per spec §4.3.
type BlendMode int

const (
	BlendNormal BlendMode = iota
	BlendAlpha25
	BlendAlpha50
	BlendAlpha75
	BlendAdd
	BlendMul
)

// on installs handler at every opcode table slot that matches opcode
// under mask, iterating the free bits of ~mask exactly the way the
// original's Chip8GenericEmulator::on(mask, opcode, handler) does
// (original_source/src/emulation/chip8generic.cpp:966) — the
// "mask/match pass" population primitive spec §4.2 and §9 describe.
// Later calls overwrite earlier ones at any slot they both cover,
// which is how a generic pass gets specialized by a later, narrower
// one.
func on(table *[0x10000]opcodeHandler, mask, opcode uint16, handler opcodeHandler) {
	free := ^mask
	sub := free
	for {
		table[opcode|sub] = handler
		if sub == 0 {
			break
		}
		sub = (sub - 1) & free
	}
}

// buildDispatchTable rewrites the Machine's 65,536-entry handler table
// from scratch based on the active Properties, per spec §4.2. It is
// called once by ApplyProperties (which Reset alone does not repeat,
// matching spec's "Properties... may not be mutated during execution
// except via updateProperties").
func buildDispatchTable(m *Machine) {
	t := &m.handlers
	for i := range t {
		t[i] = opInvalid
	}

	q := m.props.Quirks

	// --- Common CHIP-8 pass -------------------------------------------------
	on(t, 0xFFFF, 0x00E0, opCLS)
	on(t, 0xFFFF, 0x00EE, opRET)
	on(t, 0xF000, 0x1000, opJump)
	on(t, 0xF000, 0x2000, opCall)
	on(t, 0xF000, 0x3000, opSkipEqImm)
	on(t, 0xF000, 0x4000, opSkipNeImm)
	on(t, 0xF00F, 0x5000, opSkipEqReg)
	on(t, 0xF000, 0x6000, opLoadImm)
	on(t, 0xF000, 0x7000, opAddImm)
	on(t, 0xF00F, 0x8000, opLoadReg)

	if q.DontResetVF {
		on(t, 0xF00F, 0x8001, opOrKeepVF)
		on(t, 0xF00F, 0x8002, opAndKeepVF)
		on(t, 0xF00F, 0x8003, opXorKeepVF)
	} else {
		on(t, 0xF00F, 0x8001, opOrResetVF)
		on(t, 0xF00F, 0x8002, opAndResetVF)
		on(t, 0xF00F, 0x8003, opXorResetVF)
	}

	on(t, 0xF00F, 0x8004, opAddReg)
	on(t, 0xF00F, 0x8005, opSubXY)
	on(t, 0xF00F, 0x8007, opSubYX)

	if q.JustShiftVx {
		on(t, 0xF00F, 0x8006, opShrVx)
		on(t, 0xF00F, 0x800E, opShlVx)
	} else {
		on(t, 0xF00F, 0x8006, opShrVy)
		on(t, 0xF00F, 0x800E, opShlVy)
	}

	on(t, 0xF00F, 0x9000, opSkipNeReg)
	on(t, 0xF000, 0xA000, opLoadI)

	if q.Jump0UsesVx {
		on(t, 0xF000, 0xB000, opJumpVx)
	} else {
		on(t, 0xF000, 0xB000, opJumpV0)
	}

	on(t, 0xF000, 0xC000, opRandom)
	on(t, 0xF0FF, 0xE09E, opSkipKeyPressed)
	on(t, 0xF0FF, 0xE0A1, opSkipKeyNotPressed)
	on(t, 0xF0FF, 0xF007, opLoadXDT)
	on(t, 0xF0FF, 0xF00A, opLoadXKey)
	on(t, 0xF0FF, 0xF015, opLoadDTX)
	on(t, 0xF0FF, 0xF018, opLoadSTX)
	on(t, 0xF0FF, 0xF01E, opAddIX)
	on(t, 0xF0FF, 0xF029, opLoadFontX)
	on(t, 0xF0FF, 0xF033, opBCD)
	on(t, 0xF0FF, 0xF055, opSaveRegs)
	on(t, 0xF0FF, 0xF065, opLoadRegs)

	installDxyn(t, q)

	// --- Variant-specific override pass -------------------------------------
	// 00FE/00FF/00Cn/00FB/00FC/00FD/Fx30 belong to SCHIP-1.0 and every
	// variant built on top of it (spec §4.2's variant override pass),
	// not the common CHIP-8 pass: plain CHIP-8/CHIP-10/CHIP-48 never had
	// hires, scrolling, a clean-halt opcode, or a big font, so a ROM for
	// those variants that hits e.g. 00FB must still trap as invalid.
	switch m.props.BehaviorBase {
	case VariantCHIP8E:
		installChip8E(t, q)
	case VariantCHIP8X:
		installChip8X(t, q)
	case VariantSCHIP10, VariantSCHIP11, VariantSCHIPC, VariantSCHIPModern:
		installSChipBase(t)
	case VariantMegaChip:
		installSChipBase(t)
		installMegaChip(t, q)
	case VariantXOChip:
		installSChipBase(t)
		installXOChip(t, q)
	}

	if m.props.Quirks.CyclicStack {
		on(t, 0xFFFF, 0x00EE, opRETCyclic)
	}
}

// installDxyn wires Dxyn to opDrawSprite, or to its display-wait
// wrapper unless InstantDxyn is set. The other draw quirks (wrap, SCHIP
// lores scaling, SCHIP-1.1 collision, hires) are not specialized here:
// opDrawSprite reads them on every draw, and its per-pixel loop tests
// the wrap flag.
func installDxyn(t *[0x10000]opcodeHandler, q Quirks) {
	draw := opDrawSprite
	if !q.InstantDxyn {
		draw = opDrawSpriteDisplayWait
	}
	on(t, 0xF000, 0xD000, draw)
}

// installSChipBase wires the opcodes SCHIP-1.0 introduces on top of the
// common CHIP-8 pass (spec §4.2: "SCHIP-1.0: 00Cn, 00FB/C/D/E/F,
// Fx30/75/85"): the lores/hires mode switch, the scroll family, the
// clean-halt opcode, and the big-font loader. Every later variant
// (SCHIP-1.1/SCHIPC/modern, MEGACHIP, XO-CHIP) installs this first and
// then layers its own overrides on top, the same mask/match
// specialization the common pass uses.
func installSChipBase(t *[0x10000]opcodeHandler) {
	on(t, 0xFFFF, 0x00FE, opLoRes)
	on(t, 0xFFFF, 0x00FF, opHiRes)
	on(t, 0xFFF0, 0x00C0, opScrollDown)
	on(t, 0xFFFF, 0x00FB, opScrollRight)
	on(t, 0xFFFF, 0x00FC, opScrollLeft)
	on(t, 0xFFFF, 0x00FD, opExitClean)
	on(t, 0xF0FF, 0xF030, opLoadBigFontX)
}
