package chip8

// Host is the narrow contract the core consumes, per spec §4.6 and §5.
// The core never renders, never opens windows, never touches an audio
// device directly — it calls back into a Host for exactly these
// effects and nothing else. A GUI, a TUI, or a headless test harness
// are equally valid Hosts.
type Host interface {
	// IsHeadless reports whether there is a visible surface at all;
	// some draw-cost accounting (display-wait) still applies even when
	// headless, so the core always asks rather than assuming.
	IsHeadless() bool

	// GetKeyPressed returns a signed, 1-based key id: positive means
	// that key was just pressed, negative means it was just released,
	// and 0 means nothing happened since the last call. Fx0A polls
	// this once per dispatch while waiting.
	GetKeyPressed() int

	// IsKeyDown/IsKeyUp report the current state of a single key
	// (0-15); both must agree (they are complements) for any key.
	IsKeyDown(key int) bool
	IsKeyUp(key int) bool

	// GetKeyStates returns a 16-bit vector, bit n set iff key n is
	// currently down.
	GetKeyStates() uint16

	// PreClear is called immediately before a full-screen clear so the
	// host can snapshot the outgoing frame if it wants to (e.g. for a
	// cross-fade).
	PreClear()

	// UpdateScreen indicates the visible plane changed and should be
	// redrawn.
	UpdateScreen()

	// Vblank marks a frame boundary; called every frame regardless of
	// whether the screen changed.
	Vblank()

	// UpdatePalette16 replaces the full 16-entry palette, used by
	// XO-CHIP's 5xy4.
	UpdatePalette16(colors [16]RGBA)

	// UpdatePaletteRange replaces palette entries starting at offset,
	// used by MEGACHIP's 02nn.
	UpdatePaletteRange(colors []RGBA, offset int)
}

// NullHost is a Host that does nothing and reports no key activity. It
// is useful for running a Machine in tests or in a pure cycle-counting
// mode where no presentation is wanted.
type NullHost struct{}

func (NullHost) IsHeadless() bool                             { return true }
func (NullHost) GetKeyPressed() int                           { return 0 }
func (NullHost) IsKeyDown(key int) bool                       { return false }
func (NullHost) IsKeyUp(key int) bool                         { return true }
func (NullHost) GetKeyStates() uint16                         { return 0 }
func (NullHost) PreClear()                                    {}
func (NullHost) UpdateScreen()                                {}
func (NullHost) Vblank()                                      {}
func (NullHost) UpdatePalette16(colors [16]RGBA)               {}
func (NullHost) UpdatePaletteRange(colors []RGBA, offset int) {}

// KeyHost is a small, mutable Host implementation backed by plain
// booleans, suitable for tests and for simple embedders that poll a
// keyboard state array. It mirrors the shape of the teacher's own
// Keys [16]bool field (massung-CHIP-8/chip8/chip8.go) rather than the
// SDL-scancode plumbing that surrounded it, since that plumbing is
// host-side and out of scope here.
type KeyHost struct {
	down       [16]bool
	lastPress  int
	lastReleaseNotified bool
	screenDirty bool
	vblanks     int
	palette     [16]RGBA
}

// NewKeyHost creates a KeyHost with no keys down.
func NewKeyHost() *KeyHost {
	return &KeyHost{palette: DefaultPalette}
}

// Press marks a key as pressed and arms the next GetKeyPressed to
// report it.
func (h *KeyHost) Press(key int) {
	if key < 0 || key > 15 {
		return
	}
	h.down[key] = true
	h.lastPress = key + 1
}

// Release marks a key as released and arms the next GetKeyPressed to
// report the release (as a negative id), matching spec §4.6.
func (h *KeyHost) Release(key int) {
	if key < 0 || key > 15 {
		return
	}
	if h.down[key] {
		h.down[key] = false
		h.lastPress = -(key + 1)
	}
}

func (h *KeyHost) IsHeadless() bool { return true }

func (h *KeyHost) GetKeyPressed() int {
	p := h.lastPress
	h.lastPress = 0
	return p
}

func (h *KeyHost) IsKeyDown(key int) bool {
	if key < 0 || key > 15 {
		return false
	}
	return h.down[key]
}

func (h *KeyHost) IsKeyUp(key int) bool {
	return !h.IsKeyDown(key)
}

func (h *KeyHost) GetKeyStates() uint16 {
	var v uint16
	for i, d := range h.down {
		if d {
			v |= 1 << uint(i)
		}
	}
	return v
}

func (h *KeyHost) PreClear() {}

func (h *KeyHost) UpdateScreen() { h.screenDirty = true }

func (h *KeyHost) Vblank() { h.vblanks++ }

func (h *KeyHost) Vblanks() int { return h.vblanks }

func (h *KeyHost) ScreenDirty() bool {
	d := h.screenDirty
	h.screenDirty = false
	return d
}

func (h *KeyHost) UpdatePalette16(colors [16]RGBA) {
	h.palette = colors
}

func (h *KeyHost) UpdatePaletteRange(colors []RGBA, offset int) {
	for i, c := range colors {
		if offset+i < len(h.palette) {
			h.palette[offset+i] = c
		}
	}
}

// Palette returns the host's current view of the palette.
func (h *KeyHost) Palette() [16]RGBA {
	return h.palette
}
