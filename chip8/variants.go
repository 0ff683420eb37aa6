package chip8

// VariantID names one of the closed set of behavior-base presets, per
// spec §4.1. It is the "Behavior Base" combo option's selected value.
type VariantID int

const (
	VariantCHIP8 VariantID = iota
	VariantCHIP10
	VariantCHIP8E
	VariantCHIP8X
	VariantCHIP48
	VariantSCHIP10
	VariantSCHIP11
	VariantSCHIPC
	VariantSCHIPModern
	VariantMegaChip
	VariantXOChip

	variantCount
)

func (v VariantID) String() string {
	if v < 0 || int(v) >= len(variantNames) {
		return "UNKNOWN"
	}
	return variantNames[v]
}

var variantNames = [variantCount]string{
	VariantCHIP8:       "CHIP-8",
	VariantCHIP10:      "CHIP-10",
	VariantCHIP8E:      "CHIP-8E",
	VariantCHIP8X:      "CHIP-8X",
	VariantCHIP48:      "CHIP-48",
	VariantSCHIP10:     "SCHIP-1.0",
	VariantSCHIP11:     "SCHIP-1.1",
	VariantSCHIPC:      "SCHIPC",
	VariantSCHIPModern: "SCHIP-MODERN",
	VariantMegaChip:    "MEGACHIP",
	VariantXOChip:      "XO-CHIP",
}

// VariantProfile is a preset: a human name, description, recognized
// file extensions, and a fully populated default Properties. Spec
// §4.1 calls this "a closed registry of named presets". The extensions
// and description fields exist purely for a librarian/front-end to
// consume; the core itself only ever reads Properties.
type VariantProfile struct {
	ID          VariantID
	Name        string
	Description string
	Extensions  []string
	Properties  Properties
}

// Variants is the closed list of 11 presets, their default Properties
// fixed from the original implementation's preset table
// (original_source/src/emulation/chip8generic.cpp, lines ~249-314).
var Variants = buildVariants()

func buildVariants() [variantCount]VariantProfile {
	var v [variantCount]VariantProfile

	base := Properties{
		BehaviorBase:         VariantCHIP8,
		InstructionsPerFrame: 11,
		FrameRate:            60,
		Memory:               Mem4K,
		StartAddress:         0x200,
		CleanRAM:             false,
		Palette:              DefaultPalette,
	}

	v[VariantCHIP8] = VariantProfile{
		ID:          VariantCHIP8,
		Name:        "CHIP-8",
		Description: "The original 1977 COSMAC VIP interpreter.",
		Extensions:  []string{".ch8", ".c8"},
		Properties:  base,
	}

	chip10 := base
	chip10.BehaviorBase = VariantCHIP10
	chip10.Quirks.PalVideo = true
	v[VariantCHIP10] = VariantProfile{
		ID:          VariantCHIP10,
		Name:        "CHIP-10",
		Description: "CHIP-8 with a 64x48 PAL video mode.",
		Extensions:  []string{".c10"},
		Properties:  chip10,
	}

	chip8e := base
	chip8e.BehaviorBase = VariantCHIP8E
	chip8e.Quirks.LoadStoreInc = IncIByXPlus1
	v[VariantCHIP8E] = VariantProfile{
		ID:          VariantCHIP8E,
		Name:        "CHIP-8E",
		Description: "The CDP1802 CHIP-8E extension with halt, signed jumps and extra skips.",
		Extensions:  []string{".c8e"},
		Properties:  chip8e,
	}

	chip8x := base
	chip8x.BehaviorBase = VariantCHIP8X
	chip8x.StartAddress = 0x300
	chip8x.Quirks.LoadStoreInc = IncIByXPlus1
	v[VariantCHIP8X] = VariantProfile{
		ID:          VariantCHIP8X,
		Name:        "CHIP-8X",
		Description: "The RCA VP-590/VP-595 color and tone extension.",
		Extensions:  []string{".c8x"},
		Properties:  chip8x,
	}

	chip48 := base
	chip48.BehaviorBase = VariantCHIP48
	chip48.InstructionsPerFrame = 15
	chip48.FrameRate = 64
	chip48.Quirks.JustShiftVx = true
	chip48.Quirks.DontResetVF = true
	chip48.Quirks.LoadStoreInc = IncIByX
	chip48.Quirks.Jump0UsesVx = true
	v[VariantCHIP48] = VariantProfile{
		ID:          VariantCHIP48,
		Name:        "CHIP-48",
		Description: "The HP-48 calculator port; source of most modern quirks.",
		Extensions:  []string{".c48"},
		Properties:  chip48,
	}

	schip10 := base
	schip10.BehaviorBase = VariantSCHIP10
	schip10.InstructionsPerFrame = 30
	schip10.FrameRate = 64
	schip10.Quirks.JustShiftVx = true
	schip10.Quirks.DontResetVF = true
	schip10.Quirks.LoadStoreInc = IncIByX
	schip10.Quirks.LoresDxy0Width = LoresDxy0Width8
	schip10.Quirks.SCLoresDrawing = true
	schip10.Quirks.Jump0UsesVx = true
	schip10.Quirks.AllowHires = true
	v[VariantSCHIP10] = VariantProfile{
		ID:          VariantSCHIP10,
		Name:        "SCHIP-1.0",
		Description: "SUPER-CHIP 1.0 for the HP-48, 128x64 hires support.",
		Extensions:  []string{".sc8"},
		Properties:  schip10,
	}

	schip11 := base
	schip11.BehaviorBase = VariantSCHIP11
	schip11.InstructionsPerFrame = 30
	schip11.FrameRate = 64
	schip11.Quirks.JustShiftVx = true
	schip11.Quirks.DontResetVF = true
	schip11.Quirks.LoadStoreInc = IncINone
	schip11.Quirks.LoresDxy0Width = LoresDxy0Width8
	schip11.Quirks.SChip11Collision = true
	schip11.Quirks.SCLoresDrawing = true
	schip11.Quirks.HalfPixelScroll = true
	schip11.Quirks.Jump0UsesVx = true
	schip11.Quirks.AllowHires = true
	v[VariantSCHIP11] = VariantProfile{
		ID:          VariantSCHIP11,
		Name:        "SCHIP-1.1",
		Description: "SUPER-CHIP 1.1, the most widely imitated SCHIP revision.",
		Extensions:  []string{".sc8"},
		Properties:  schip11,
	}

	schipc := base
	schipc.BehaviorBase = VariantSCHIPC
	schipc.InstructionsPerFrame = 30
	schipc.FrameRate = 64
	schipc.Quirks.DontResetVF = true
	schipc.Quirks.LoresDxy0Width = LoresDxy0Width8
	schipc.Quirks.ModeChangeClear = true
	schipc.Quirks.AllowHires = true
	v[VariantSCHIPC] = VariantProfile{
		ID:          VariantSCHIPC,
		Name:        "SCHIPC",
		Description: "The SCHIP-compatibility mode many later interpreters default to.",
		Extensions:  []string{".sc8"},
		Properties:  schipc,
	}

	schipModern := base
	schipModern.BehaviorBase = VariantSCHIPModern
	schipModern.InstructionsPerFrame = 30
	schipModern.FrameRate = 64
	schipModern.Quirks.JustShiftVx = true
	schipModern.Quirks.DontResetVF = true
	schipModern.Quirks.LoadStoreInc = IncINone
	schipModern.Quirks.InstantDxyn = true
	schipModern.Quirks.LoresDxy0Width = LoresDxy0Width16
	schipModern.Quirks.ModeChangeClear = true
	schipModern.Quirks.Jump0UsesVx = true
	schipModern.Quirks.AllowHires = true
	v[VariantSCHIPModern] = VariantProfile{
		ID:          VariantSCHIPModern,
		Name:        "SCHIP-MODERN",
		Description: "SCHIP as implemented by modern browser interpreters.",
		Extensions:  []string{".sc8"},
		Properties:  schipModern,
	}

	mega := base
	mega.BehaviorBase = VariantMegaChip
	mega.Memory = Mem16M
	mega.InstructionsPerFrame = 3000
	mega.FrameRate = 50
	mega.Quirks.JustShiftVx = true
	mega.Quirks.DontResetVF = true
	mega.Quirks.LoadStoreInc = IncINone
	mega.Quirks.LoresDxy0Width = LoresDxy0Width8
	mega.Quirks.SChip11Collision = true
	mega.Quirks.ModeChangeClear = true
	mega.Quirks.Jump0UsesVx = true
	mega.Quirks.AllowHires = true
	mega.Quirks.Has16BitAddr = true
	v[VariantMegaChip] = VariantProfile{
		ID:          VariantMegaChip,
		Name:        "MEGACHIP",
		Description: "256x192 paletted RGBA compositing with PCM sample playback.",
		Extensions:  []string{".mc8"},
		Properties:  mega,
	}

	xo := base
	xo.BehaviorBase = VariantXOChip
	xo.Memory = Mem64K
	xo.InstructionsPerFrame = 1000
	xo.Quirks.DontResetVF = true
	xo.Quirks.WrapSprites = true
	xo.Quirks.InstantDxyn = true
	xo.Quirks.LoresDxy0Width = LoresDxy0Width16
	xo.Quirks.ModeChangeClear = true
	xo.Quirks.AllowHires = true
	xo.Quirks.AllowColors = true
	xo.Quirks.Has16BitAddr = true
	xo.Quirks.XOChipSound = true
	v[VariantXOChip] = VariantProfile{
		ID:          VariantXOChip,
		Name:        "XO-CHIP",
		Description: "Octo's extension: 4 bit-planes, 16-bit I, a 128-step audio pattern.",
		Extensions:  []string{".xo8", ".8o"},
		Properties:  xo,
	}

	return v
}

// Profile looks up a VariantProfile by id.
func Profile(id VariantID) VariantProfile {
	if id < 0 || int(id) >= len(Variants) {
		return Variants[VariantCHIP8]
	}
	return Variants[id]
}
