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

// MemSize is one of the legal RAM sizes a Properties may select.
type MemSize int

// Legal RAM sizes, selected by the "Memory" option.
const (
	Mem2K  MemSize = 2 * 1024
	Mem4K  MemSize = 4 * 1024
	Mem8K  MemSize = 8 * 1024
	Mem16K MemSize = 16 * 1024
	Mem32K MemSize = 32 * 1024
	Mem64K MemSize = 64 * 1024
	Mem16M MemSize = 16 * 1024 * 1024
)

// IncIPolicy selects how Fx55/Fx65 advance I after a register save/load.
type IncIPolicy int

const (
	// IncIByXPlus1 advances I by x+1, the original COSMAC VIP behavior.
	IncIByXPlus1 IncIPolicy = iota
	// IncIByX advances I by x, the CHIP-48/SCHIP behavior.
	IncIByX
	// IncINone leaves I untouched, the SCHIP-1.1/modern SCHIP behavior.
	IncINone
)

// LoresDxy0Width selects the width used by a Dxy0 (n=0) sprite in lores mode.
type LoresDxy0Width int

const (
	LoresDxy0Width8  LoresDxy0Width = 8
	LoresDxy0Width16 LoresDxy0Width = 16
)

// ScreenRotation is presentation-only; the core never reads it during
// dispatch, but it rides along with Properties for the host to consult.
type ScreenRotation int

const (
	Rotate0 ScreenRotation = iota
	Rotate90
	Rotate180
	Rotate270
)

// Quirks is the set of named, typed behavioral switches a Properties
// carries. Every field corresponds to a row of the quirk table in
// spec §4.1. Booleans default false (off); the three-state load/store
// policy and the two-state lores Dxy0 width each get their own enum so
// "unset" can't be confused with a real, meaningful third state.
type Quirks struct {
	// JustShiftVx: 8xy6/8xyE operate on Vx only, ignoring Vy.
	JustShiftVx bool

	// DontResetVF: 8xy1/8xy2/8xy3 leave VF untouched.
	DontResetVF bool

	// LoadStoreInc selects the Fx55/Fx65 I-increment policy.
	LoadStoreInc IncIPolicy

	// WrapSprites: Dxyn wraps at screen edges instead of clipping.
	WrapSprites bool

	// InstantDxyn: Dxyn executes inline instead of waiting for vblank.
	InstantDxyn bool

	// LoresDxy0Width: 8 or 16 pixel wide Dxy0 sprites in lores mode.
	LoresDxy0Width LoresDxy0Width

	// SChip11Collision: VF counts rows-with-erase plus clipped rows
	// instead of a simple any-pixel-erased flag.
	SChip11Collision bool

	// SCLoresDrawing: in lores mode, render each sprite pixel as a 2x2
	// block into the hires buffer.
	SCLoresDrawing bool

	// HalfPixelScroll: 00Cn/00Fx scroll by half-pixels in lores mode.
	HalfPixelScroll bool

	// ModeChangeClear: 00FE/00FF (lores/hires mode switch) clears the
	// screen.
	ModeChangeClear bool

	// Jump0UsesVx: Bxnn jumps to Vx+nnn instead of V0+nnn.
	Jump0UsesVx bool

	// AllowHires enables 128x64 support via 00FF.
	AllowHires bool

	// OnlyHires forces 128x64 mode at all times.
	OnlyHires bool

	// AllowColors enables XO-CHIP's four bit-planes.
	AllowColors bool

	// CyclicStack wraps SP modulo 16 instead of erroring on overflow.
	CyclicStack bool

	// Has16BitAddr widens I and the address mask to 16 bits.
	Has16BitAddr bool

	// XOChipSound enables F002/Fx3A, the 128-step pattern engine.
	XOChipSound bool

	// PalVideo uses 48 scanlines instead of 32 in lores mode.
	PalVideo bool
}

// Properties is a full, named configuration: the base variant, sizing,
// quirks, and a palette. Two Properties compare equal (via Equal) iff
// every field and the palette match.
type Properties struct {
	// BehaviorBase names the variant this Properties was derived from.
	BehaviorBase VariantID

	// InstructionsPerFrame is the fixed cycle budget per frame tick; 0
	// means "run until the frame's wall-clock budget elapses".
	InstructionsPerFrame int

	// FrameRate is the timer tick frequency in Hz.
	FrameRate int

	// Memory selects the RAM size.
	Memory MemSize

	// StartAddress is the initial PC and ROM load address.
	StartAddress uint32

	// CleanRAM, if true, zero-fills RAM on reset; otherwise RAM is
	// filled with a deterministic pseudorandom pattern, matching real
	// hardware that powers up into whatever was left in static RAM.
	CleanRAM bool

	Quirks Quirks

	// Rotation is presentation-only.
	Rotation ScreenRotation

	// Palette is the set of colors the screen indexes into.
	Palette [16]RGBA
}

// AddressMask returns ramSize-1, the mask every address-producing
// instruction must be ANDed against.
func (p *Properties) AddressMask() uint32 {
	return uint32(p.Memory) - 1
}

// Equal reports whether two Properties describe the same configuration,
// including the palette.
func (p *Properties) Equal(o *Properties) bool {
	if p == nil || o == nil {
		return p == o
	}
	return *p == *o
}

// DefaultPalette is the classic two-tone CHIP-8 display: background
// black, foreground white, with the remaining 14 slots following the
// XO-CHIP default 16-entry convention (used only when a variant's
// plane count actually indexes them).
var DefaultPalette = [16]RGBA{
	{0x00, 0x00, 0x00, 0xFF},
	{0xFF, 0xFF, 0xFF, 0xFF},
	{0xFF, 0x00, 0x00, 0xFF},
	{0xFF, 0xFF, 0x00, 0xFF},
	{0x00, 0xFF, 0x00, 0xFF},
	{0x00, 0xFF, 0xFF, 0xFF},
	{0x00, 0x00, 0xFF, 0xFF},
	{0xFF, 0x00, 0xFF, 0xFF},
	{0x55, 0x55, 0x55, 0xFF},
	{0xAA, 0xAA, 0xAA, 0xFF},
	{0x55, 0x00, 0x00, 0xFF},
	{0x00, 0x55, 0x00, 0xFF},
	{0x00, 0x00, 0x55, 0xFF},
	{0x55, 0x55, 0x00, 0xFF},
	{0x00, 0x55, 0x55, 0xFF},
	{0x55, 0x00, 0x55, 0xFF},
}
