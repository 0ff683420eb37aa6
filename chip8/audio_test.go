package chip8

import "testing"

func allZero(samples []int16) bool {
	for _, s := range samples {
		if s != 0 {
			return false
		}
	}
	return true
}

func TestRenderAudioSilentWhenSoundTimerZero(t *testing.T) {
	m := newTestMachine(VariantCHIP8)
	m.ST = 0
	samples := make([]int16, 64)
	m.RenderAudio(samples)
	if !allZero(samples) {
		t.Fatal("expected silence when ST == 0")
	}
}

func TestRenderAudioProducesToneWhenSoundTimerActive(t *testing.T) {
	m := newTestMachine(VariantCHIP8)
	m.ST = 10
	samples := make([]int16, 256)
	m.RenderAudio(samples)
	if allZero(samples) {
		t.Fatal("expected nonzero samples while ST > 0")
	}
}

func TestRenderAudioMegaChipSamplePreemptsSilence(t *testing.T) {
	// A running MEGACHIP PCM sample takes priority even with ST == 0,
	// per the spec's waveform-selection table.
	m := newTestMachine(VariantMegaChip)
	m.ST = 0
	m.I = 0x600
	m.Memory[0x600], m.Memory[0x601] = 0x00, 0x00 // freq hi/lo (unused when 0)
	m.Memory[0x602], m.Memory[0x603], m.Memory[0x604] = 0x00, 0x00, 0x04
	m.sampleStart = m.I + 6
	m.Memory[m.sampleStart] = 0xFF
	setSampleLength(m, 4)
	setMCSamplePos(m, 0)

	samples := make([]int16, 1)
	m.RenderAudio(samples)
	if samples[0] == 0 {
		t.Fatal("expected the MEGACHIP PCM sample to play despite ST == 0")
	}
}

func TestXOPitchRoundTrips(t *testing.T) {
	m := newTestMachine(VariantXOChip)
	writeOpcodes(m, 0xF03A) // Fx3A: set pitch from V0
	m.V[0] = 100
	m.ExecuteInstruction()
	if m.XOPitch() != 100 {
		t.Fatalf("XOPitch() = %d, want 100", m.XOPitch())
	}
}

func TestLoadAudioPatternCopiesSixteenBytes(t *testing.T) {
	m := newTestMachine(VariantXOChip)
	m.I = 0x600
	for i := 0; i < 16; i++ {
		m.Memory[0x600+i] = byte(i + 1)
	}
	writeOpcodes(m, 0xF002)
	m.ExecuteInstruction()
	pattern := m.XOAudioPattern()
	for i := 0; i < 16; i++ {
		if pattern[i] != byte(i+1) {
			t.Fatalf("pattern[%d] = %d, want %d", i, pattern[i], i+1)
		}
	}
}
