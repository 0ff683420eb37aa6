package chip8

import "testing"

func TestSelectPlanesMasksSubsequentClear(t *testing.T) {
	m := newTestMachine(VariantXOChip)
	// Paint both planes, then clear only plane 0 and confirm plane 1
	// survives.
	m.Screen.Set(0, 0, 0b11)

	writeOpcodes(m, 0xF101, 0x00E0) // select plane 0 only, then CLS
	m.ExecuteInstruction()
	if m.planes != 0b01 {
		t.Fatalf("planes = %b, want 0b01 after Fx01 with x=1", m.planes)
	}
	m.ExecuteInstruction()
	if m.Screen.At(0, 0) != 0b10 {
		t.Fatalf("pixel = %b, want 0b10 (only plane 0 cleared)", m.Screen.At(0, 0))
	}
}

func TestSaveLoadRangeRoundTrips(t *testing.T) {
	m := newTestMachine(VariantXOChip)
	m.V[2] = 0x11
	m.V[3] = 0x22
	m.V[4] = 0x33
	m.I = 0x500

	writeOpcodes(m, 0x5422) // save V4..V2 (x=4,y=2: reverse direction)
	m.ExecuteInstruction()
	if m.Memory[0x500] != 0x33 || m.Memory[0x501] != 0x22 || m.Memory[0x502] != 0x11 {
		t.Fatalf("range save wrote %#x %#x %#x, want 0x33 0x22 0x11",
			m.Memory[0x500], m.Memory[0x501], m.Memory[0x502])
	}
	if m.I != 0x500 {
		t.Fatalf("I = %#x, want unchanged 0x500 (5xy2/5xy3 never touch I)", m.I)
	}

	m.V[2], m.V[3], m.V[4] = 0, 0, 0
	writeOpcodes(m, 0x5423) // load V4..V2 back
	m.ExecuteInstruction()
	if m.V[2] != 0x11 || m.V[3] != 0x22 || m.V[4] != 0x33 {
		t.Fatalf("range load produced V2=%#x V3=%#x V4=%#x, want 0x11 0x22 0x33", m.V[2], m.V[3], m.V[4])
	}
}

func TestXOChipLongILoadConsumesSecondWord(t *testing.T) {
	m := newTestMachine(VariantXOChip)
	start := m.PC
	writeOpcodes(m, 0xF000, 0x1234)
	m.ExecuteInstruction()
	if m.I != 0x1234 {
		t.Fatalf("I = %#x, want 0x1234", m.I)
	}
	if m.PC != start+4 {
		t.Fatalf("PC = %#x, want %#x (both words consumed)", m.PC, start+4)
	}
}

func TestMegaChipLongSkipDoublesOverTwoWordPrefix(t *testing.T) {
	// MEGACHIP wires its skip family through opSkipLong, and its
	// two-word prefix is 01nn; a true skip landing on one of those must
	// jump 4 bytes, not 2.
	m := newTestMachine(VariantMegaChip)
	start := m.PC
	m.V[0] = 5
	writeOpcodes(m, 0x3005, 0x0199, 0x6001)
	m.ExecuteInstruction() // 3xnn, true -> long skip
	if m.PC != start+2+4 {
		t.Fatalf("PC = %#x, want %#x (skip of 4 over the two-word 01nn instruction)", m.PC, start+2+4)
	}
}
