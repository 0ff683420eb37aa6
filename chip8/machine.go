/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

package chip8

import (
	"errors"
	"math/rand"
	"sync/atomic"
)

// Machine is the CHIP-8 virtual machine: every piece of state listed
// in spec §3, plus the handler table the dispatch engine populates on
// reset. It generalizes massung-CHIP-8/chip8/chip8.go's CHIP_8 struct
// (same register names, same stack/breakpoint shape) to the full
// variant-aware opcode space instead of one fixed dialect.
type Machine struct {
	Host Host

	props Properties

	// ROM holds the pristine program image memory resets back to.
	ROM []byte

	Memory []byte

	Screen *VideoPlane

	// MegaWork/MegaPresent are MEGACHIP's indexed-color work/present
	// planes; nil outside of MEGACHIP mode. Swapping is by reference,
	// per design note in spec §9 ("Screen plane ownership").
	// PresentRGBA holds MegaPresent resolved through mcPalette and
	// composited with blendMode; it is what a host actually reads.
	MegaWork    *VideoPlane
	MegaPresent *VideoPlane
	PresentRGBA []RGBA

	planes byte

	// frameConsumed signals the scheduler that the instruction just
	// dispatched (a display-wait Dxyn) should be charged the rest of
	// the current frame's cycle budget, per spec §4.3.
	frameConsumed bool

	V      [16]byte
	I      uint32
	PC     uint32
	SP     uint32
	Stack  [16]uint32
	DT, ST int32

	cycleCounter int64
	frameCounter int64
	clearCounter int64
	observedIPF  int

	// stepTargetSP is the stack depth StepOver was entered at; per spec
	// §4.5, StepOver pauses when SP returns to exactly this value.
	stepTargetSP uint32

	// justReturned is set by opRET/opRETCyclic and cleared before every
	// dispatch; StepOut pauses the instruction a 00EE sets it, per spec
	// §4.5 ("STEPOUT → PAUSED when a 00EE fires").
	justReturned bool

	execMode ExecMode
	cpuState CPUState
	errorMsg string

	isHires bool

	// waitKey, when > 0, is the 1-based key id an in-flight Fx0A is
	// waiting to see released; PC has already been rewound by 2.
	waitKey int

	randSeed      uint32
	simpleRand    uint32

	breakpoints map[int]Breakpoint

	handlers [0x10000]opcodeHandler

	// XO-CHIP sound engine state.
	xoAudioPattern [16]byte
	xoPitch        int32
	wavePhase      float64

	// MEGACHIP state.
	mcPalette       [256]RGBA
	spriteWidth     int
	spriteHeight    int
	screenAlpha     byte
	collisionColor  byte
	blendMode       BlendMode
	sampleStart     uint32
	sampleStep      float64
	sampleLength    int32
	sampleLoop      bool
	mcSamplePos     int64 // fixed-point atomic cursor, see audio.go
	isMegaChipMode  bool

	// CHIP-8X peripheral state.
	vp595Frequency        byte
	chip8xBackgroundColor byte

	audioSampleRate int

	clock *ClockedTime

	trace *Trace
}

// ElapsedNanoseconds reports emulated wall-clock time since the last
// Reset, converting the executed cycle count at the variant's nominal
// clock rate (IPF*frameRate). Purely a reporting convenience; it never
// gates execution speed.
func (m *Machine) ElapsedNanoseconds() int64 {
	return m.clock.Nanoseconds()
}

// SetAudioSampleRate configures the rate RenderAudio generates at;
// callers that never call it get a 44100Hz default.
func (m *Machine) SetAudioSampleRate(rate int) {
	m.audioSampleRate = rate
}

// opcodeHandler is the signature every dispatch-table entry has: it
// reads its operands out of the opcode itself and out of Machine
// state, per spec §4.2.
type opcodeHandler func(m *Machine, opcode uint16)

// NewMachine allocates a Machine for the given variant. Call Reset (or
// LoadROM, which calls it) before stepping.
func NewMachine(id VariantID, host Host) *Machine {
	m := &Machine{Host: host}
	m.ApplyProperties(Profile(id).Properties)
	return m
}

// Properties returns a copy of the Machine's active configuration.
func (m *Machine) Properties() Properties {
	return m.props
}

// ApplyProperties installs a new configuration. Per spec §3
// ("Ownership/lifecycle"), callers must only do this between frames;
// it forces a full Reset, rebuilding the dispatch table from scratch.
func (m *Machine) ApplyProperties(p Properties) {
	m.props = p
	m.Memory = make([]byte, int(p.Memory))
	w, h := m.nativeResolution()
	m.Screen = NewVideoPlane(w, h)
	if p.BehaviorBase == VariantMegaChip {
		m.MegaWork = NewVideoPlane(256, 192)
		m.MegaPresent = NewVideoPlane(256, 192)
		m.PresentRGBA = make([]RGBA, 256*192)
	} else {
		m.MegaWork = nil
		m.MegaPresent = nil
		m.PresentRGBA = nil
	}
	m.breakpoints = make(map[int]Breakpoint)
	nominalHz := int64(p.InstructionsPerFrame) * int64(p.FrameRate)
	m.clock = NewClockedTime(nominalHz)
	buildDispatchTable(m)
	m.Reset()
}

// nativeResolution returns the variant's native screen size, per spec
// §3: 64x32 / 64x64 / 128x64 / 256x192, with CHIP-10's 64x48 PAL mode
// as the lores-PAL special case.
func (m *Machine) nativeResolution() (int, int) {
	if m.props.BehaviorBase == VariantMegaChip {
		return 256, 192
	}
	if m.props.Quirks.OnlyHires || m.props.Quirks.AllowHires {
		return 128, 64
	}
	if m.props.Quirks.PalVideo {
		return 64, 48
	}
	return 64, 32
}

// LoadROM copies program bytes into memory at loadAddress (or the
// variant's configured StartAddress if loadAddress < 0), then resets.
// A TPD-prefixed ROM (first two bytes 0x02 0x00) always loads at
// 0x200 regardless of StartAddress, per spec §6.
func (m *Machine) LoadROM(program []byte, loadAddress int) error {
	addr := int(m.props.StartAddress)
	if loadAddress >= 0 {
		addr = loadAddress
	}
	if len(program) >= 2 && program[0] == 0x02 && program[1] == 0x00 {
		addr = 0x200
	}
	if addr+len(program) > len(m.Memory) {
		return errors.New("program too large to fit in memory")
	}
	m.ROM = make([]byte, len(m.Memory))
	m.seedRAM(m.ROM)
	copy(m.ROM[0:len(smallFont)], smallFont[:])
	if bigFontID(m.props.BehaviorBase) {
		copy(m.ROM[bigFontOffset:bigFontOffset+bigFontSize], bigFont[:])
	}
	copy(m.ROM[addr:], program)
	m.Reset()
	return nil
}

// bigFontID reports whether a variant ships the 10-byte big font at
// reset, per spec invariant 2.
func bigFontID(v VariantID) bool {
	switch v {
	case VariantSCHIP10, VariantSCHIP11, VariantSCHIPC, VariantSCHIPModern, VariantMegaChip, VariantXOChip:
		return true
	default:
		return false
	}
}

func (m *Machine) seedRAM(buf []byte) {
	if m.props.CleanRAM {
		for i := range buf {
			buf[i] = 0
		}
		return
	}
	// Deterministic pseudorandom fill, mirroring real static RAM power-on
	// noise. Seeded from a fixed constant so two resets of the same
	// Properties produce the same fill, keeping tests reproducible.
	r := rand.New(rand.NewSource(0xC8))
	for i := range buf {
		buf[i] = byte(r.Intn(256))
	}
}

// Reset returns the Machine to its post-load state: registers zeroed,
// PC at StartAddress, the font re-seeded, screen cleared, timers
// zeroed, cpuState/execMode normalized. Matches spec §8's universally
// quantified reset invariants.
func (m *Machine) Reset() {
	if m.ROM == nil {
		m.ROM = make([]byte, len(m.Memory))
		m.seedRAM(m.ROM)
		copy(m.ROM[0:len(smallFont)], smallFont[:])
		if bigFontID(m.props.BehaviorBase) {
			copy(m.ROM[bigFontOffset:bigFontOffset+bigFontSize], bigFont[:])
		}
	}
	copy(m.Memory, m.ROM)

	m.Screen.Clear()
	if m.MegaWork != nil {
		m.MegaWork.Clear()
		m.MegaPresent.Clear()
	}

	m.V = [16]byte{}
	m.I = 0
	m.PC = m.props.StartAddress
	m.SP = 0
	m.Stack = [16]uint32{}
	m.DT = 0
	m.ST = 0

	m.cycleCounter = 0
	m.frameCounter = 0
	m.clearCounter = 0

	m.execMode = Running
	m.cpuState = StateNormal
	m.errorMsg = ""
	m.clock.Reset()

	m.isHires = m.props.Quirks.OnlyHires

	m.waitKey = 0

	m.planes = 1

	m.xoAudioPattern = [16]byte{}
	m.xoPitch = 64
	m.wavePhase = 0

	m.mcPalette = [256]RGBA{}
	m.spriteWidth = 0
	m.spriteHeight = 0
	m.screenAlpha = 0xFF
	m.collisionColor = 0
	m.blendMode = BlendNormal
	m.sampleStart = 0
	m.sampleStep = 0
	atomic.StoreInt32(&m.sampleLength, 0)
	m.sampleLoop = false
	atomic.StoreInt64(&m.mcSamplePos, 0)
	m.isMegaChipMode = false

	m.vp595Frequency = 0
	m.chip8xBackgroundColor = 0
}

// ScreenSize returns the logical screen dimensions a host should
// render at, honoring MEGACHIP's fixed 256x192 surface.
func (m *Machine) ScreenSize() (int, int) {
	return m.currentScreenSize()
}

// ScreenPixel returns the raw cell value at (x,y) on whichever plane
// is currently visible: the MEGACHIP present surface in MEGACHIP mode,
// the monochrome/XO-CHIP plane bits otherwise.
func (m *Machine) ScreenPixel(x, y int) byte {
	if m.isMegaChipMode {
		return m.MegaPresent.At(x, y)
	}
	return m.Screen.At(x, y)
}

// AddressMask returns the current address mask (ramSize-1, or 0xFFFF
// when Has16BitAddr forces a wider I than a small RAM would otherwise
// imply).
func (m *Machine) AddressMask() uint32 {
	mask := m.props.AddressMask()
	if m.props.Quirks.Has16BitAddr && mask < 0xFFFF {
		mask = 0xFFFF
	}
	return mask
}

// ExecMode/CPUState/ErrorMessage expose the scheduler's state machine
// to an embedder, per spec §7.
func (m *Machine) ExecMode() ExecMode   { return m.execMode }
func (m *Machine) CPUState() CPUState   { return m.cpuState }
func (m *Machine) ErrorMessage() string { return m.errorMsg }

// SetExecMode lets an embedder pause, resume, or request a stepping
// mode; it takes effect at the next instruction boundary (spec §5).
// Entering StepOver records the current stack depth (spec §4.5:
// "STEPOVER → PAUSED when SP returns to the captured value at step
// start"), adapted from massung-CHIP-8/chip8/chip8.go's StepOut, which
// captures SP the same way before its own run-until-return loop.
func (m *Machine) SetExecMode(mode ExecMode) {
	m.execMode = mode
	if mode == StepOver {
		m.stepTargetSP = m.SP
	}
}

func (m *Machine) errorHalt(msg string) {
	m.cpuState = StateError
	m.errorMsg = msg
	m.execMode = Paused
}

// haltClean transitions to a clean halt (CHIP-8E 00ED, SCHIP 00FD):
// PAUSED, not ERROR, per spec §7 item 3.
func (m *Machine) haltClean() {
	m.execMode = Paused
}

// Cycles/Frames/Clears expose the measurement counters from spec §3.
func (m *Machine) Cycles() int64 { return m.cycleCounter }
func (m *Machine) Frames() int64 { return m.frameCounter }
func (m *Machine) Clears() int64 { return m.clearCounter }

// SetBreakpoint installs or replaces a breakpoint.
func (m *Machine) SetBreakpoint(b Breakpoint) {
	m.breakpoints[b.Address] = b
}

// RemoveBreakpoint deletes any breakpoint at address.
func (m *Machine) RemoveBreakpoint(address int) {
	delete(m.breakpoints, address)
}

// ClearBreakpoints removes every breakpoint.
func (m *Machine) ClearBreakpoints() {
	m.breakpoints = make(map[int]Breakpoint)
}

// Breakpoints returns the live breakpoint set; callers must not mutate
// the returned map.
func (m *Machine) Breakpoints() map[int]Breakpoint {
	return m.breakpoints
}

// fetch reads the 16-bit instruction at PC and advances PC by 2,
// masked to the address space, per spec §4.2.
func (m *Machine) fetch() uint16 {
	mask := m.AddressMask()
	pc := m.PC & mask
	hi := m.readByte(pc)
	lo := m.readByte((pc + 1) & mask)
	m.PC = (m.PC + 2) & mask
	return uint16(hi)<<8 | uint16(lo)
}

func (m *Machine) readByte(addr uint32) byte {
	if int(addr) >= len(m.Memory) {
		return 0
	}
	return m.Memory[addr]
}

func (m *Machine) writeByte(addr uint32, v byte) {
	addr &= m.AddressMask()
	if int(addr) < len(m.Memory) {
		m.Memory[addr] = v
	}
}

// pushReturn pushes the return address addr onto the call stack, honoring the
// cyclic-stack quirk, per spec §4.2.1.
func (m *Machine) pushReturn(addr uint32) bool {
	if m.props.Quirks.CyclicStack {
		m.Stack[m.SP&0xF] = addr
		m.SP = (m.SP + 1) & 0xF
		return true
	}
	if m.SP >= uint32(len(m.Stack)) {
		m.errorHalt("STACK OVERFLOW")
		return false
	}
	m.Stack[m.SP] = addr
	m.SP++
	return true
}

func (m *Machine) popReturn() (uint32, bool) {
	if m.props.Quirks.CyclicStack {
		m.SP = (m.SP - 1) & 0xF
		return m.Stack[m.SP], true
	}
	if m.SP == 0 {
		m.errorHalt("STACK UNDERFLOW")
		return 0, false
	}
	m.SP--
	return m.Stack[m.SP], true
}
