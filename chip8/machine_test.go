package chip8

import "testing"

// writeOpcodes pokes a sequence of 16-bit instructions into memory
// starting at the machine's current PC, in program order.
func writeOpcodes(m *Machine, ops ...uint16) {
	addr := m.PC
	for _, op := range ops {
		m.Memory[addr] = byte(op >> 8)
		m.Memory[addr+1] = byte(op)
		addr += 2
	}
}

func newTestMachine(id VariantID) *Machine {
	m := NewMachine(id, NullHost{})
	m.LoadROM(nil, -1)
	return m
}

func TestResetInvariants(t *testing.T) {
	m := newTestMachine(VariantCHIP8)
	writeOpcodes(m, 0x6105, 0xA300)
	m.ExecuteInstruction()
	m.ExecuteInstruction()

	if m.V[1] == 0 && m.I == 0 {
		t.Fatal("setup did not mutate state")
	}

	m.Reset()

	if m.PC != m.props.StartAddress {
		t.Errorf("PC = %#x, want start address %#x", m.PC, m.props.StartAddress)
	}
	for i, v := range m.V {
		if v != 0 {
			t.Errorf("V[%d] = %d, want 0 after reset", i, v)
		}
	}
	if m.I != 0 {
		t.Errorf("I = %d, want 0 after reset", m.I)
	}
	if m.SP != 0 {
		t.Errorf("SP = %d, want 0 after reset", m.SP)
	}
	if m.DT != 0 || m.ST != 0 {
		t.Errorf("DT=%d ST=%d, want both 0 after reset", m.DT, m.ST)
	}
	if m.Cycles() != 0 || m.Frames() != 0 {
		t.Errorf("Cycles=%d Frames=%d, want both 0 after reset", m.Cycles(), m.Frames())
	}
	if m.CPUState() != StateNormal {
		t.Errorf("cpuState = %v, want NORMAL after reset", m.CPUState())
	}
	if m.ExecMode() != Running {
		t.Errorf("execMode = %v, want RUNNING after reset", m.ExecMode())
	}
	if minX, minY, maxX, maxY, ok := m.Screen.NonEmptyBounds(); ok {
		t.Errorf("screen not blank after reset: (%d,%d)-(%d,%d)", minX, minY, maxX, maxY)
	}
}

func TestLoadROMRejectsOversizedProgram(t *testing.T) {
	m := NewMachine(VariantCHIP8, NullHost{})
	program := make([]byte, int(m.props.Memory))
	if err := m.LoadROM(program, -1); err == nil {
		t.Fatal("expected an error loading a program that doesn't fit in memory")
	}
}

func TestLoadROMHonorsExplicitAddress(t *testing.T) {
	m := NewMachine(VariantCHIP8, NullHost{})
	program := []byte{0x12, 0x34}
	if err := m.LoadROM(program, 0x400); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	if m.Memory[0x400] != 0x12 || m.Memory[0x401] != 0x34 {
		t.Fatalf("program not written at requested address 0x400")
	}
}

func TestAddressMaskWidensForHas16BitAddr(t *testing.T) {
	m := NewMachine(VariantXOChip, NullHost{})
	if m.AddressMask() != 0xFFFF {
		t.Errorf("AddressMask() = %#x, want 0xFFFF for a Has16BitAddr variant", m.AddressMask())
	}
}

func TestNativeResolutionPerVariant(t *testing.T) {
	cases := []struct {
		id   VariantID
		w, h int
	}{
		{VariantCHIP8, 64, 32},
		{VariantCHIP10, 64, 48},
		{VariantSCHIP11, 128, 64},
		{VariantMegaChip, 256, 192},
	}
	for _, c := range cases {
		m := NewMachine(c.id, NullHost{})
		w, h := m.nativeResolution()
		if w != c.w || h != c.h {
			t.Errorf("%v: nativeResolution() = (%d,%d), want (%d,%d)", c.id, w, h, c.w, c.h)
		}
	}
}
