package chip8

import "testing"

func TestAddRegCarry(t *testing.T) {
	m := newTestMachine(VariantCHIP8)
	m.V[0] = 0xFF
	m.V[1] = 0x02
	writeOpcodes(m, 0x8014) // V0 += V1
	m.ExecuteInstruction()

	if m.V[0] != 0x01 {
		t.Errorf("V0 = %#x, want 0x01", m.V[0])
	}
	if m.V[0xF] != 1 {
		t.Errorf("VF = %d, want 1 (carry)", m.V[0xF])
	}
}

func TestAddRegCarryIntoVFObservesOwnCarry(t *testing.T) {
	// 8xy4 writes the sum to Vx before VF, so x==0xF must still see its
	// own carry bit rather than having it clobbered by the write.
	m := newTestMachine(VariantCHIP8)
	m.V[0xF] = 0xFF
	m.V[0] = 0x02
	writeOpcodes(m, 0x8F04) // VF += V0
	m.ExecuteInstruction()

	if m.V[0xF] != 1 {
		t.Errorf("VF = %d, want 1 (carry observed despite x==0xF)", m.V[0xF])
	}
}

func TestSubXYBorrow(t *testing.T) {
	m := newTestMachine(VariantCHIP8)
	m.V[0] = 0x01
	m.V[1] = 0x02
	writeOpcodes(m, 0x8015) // V0 -= V1
	m.ExecuteInstruction()

	if m.V[0] != 0xFF {
		t.Errorf("V0 = %#x, want 0xFF (wrapped)", m.V[0])
	}
	if m.V[0xF] != 0 {
		t.Errorf("VF = %d, want 0 (borrow occurred)", m.V[0xF])
	}
}

func TestShiftQuirkSelectsSource(t *testing.T) {
	// Base CHIP-8 shifts Vy into Vx.
	m := newTestMachine(VariantCHIP8)
	m.V[1] = 0x03
	writeOpcodes(m, 0x8016) // V0 = V1 >> 1
	m.ExecuteInstruction()
	if m.V[0] != 0x01 || m.V[0xF] != 1 {
		t.Errorf("shift-from-Vy: V0=%d VF=%d, want V0=1 VF=1", m.V[0], m.V[0xF])
	}

	// CHIP-48/SCHIP ignore Vy and shift Vx in place.
	m2 := newTestMachine(VariantCHIP48)
	m2.V[0] = 0x03
	m2.V[1] = 0xEE
	writeOpcodes(m2, 0x8016)
	m2.ExecuteInstruction()
	if m2.V[0] != 0x01 || m2.V[0xF] != 1 {
		t.Errorf("JustShiftVx: V0=%d VF=%d, want V0=1 VF=1", m2.V[0], m2.V[0xF])
	}
}

func TestCallReturnBalance(t *testing.T) {
	m := newTestMachine(VariantCHIP8)
	start := m.PC
	writeOpcodes(m, 0x2300) // CALL 0x300
	m.Memory[0x300] = 0x00
	m.Memory[0x301] = 0xEE // RET
	m.ExecuteInstruction()
	if m.PC != 0x300 {
		t.Fatalf("PC = %#x after CALL, want 0x300", m.PC)
	}
	if m.SP != 1 {
		t.Fatalf("SP = %d after CALL, want 1", m.SP)
	}
	m.ExecuteInstruction()
	if m.PC != start+2 {
		t.Fatalf("PC = %#x after RET, want %#x", m.PC, start+2)
	}
	if m.SP != 0 {
		t.Fatalf("SP = %d after RET, want 0", m.SP)
	}
}

func TestStackOverflowHalts(t *testing.T) {
	m := newTestMachine(VariantCHIP8)
	for i := 0; i < 17; i++ {
		m.Memory[int(m.PC)] = 0x23
		m.Memory[int(m.PC)+1] = 0x00
		m.ExecuteInstruction()
		m.PC = 0x300 // re-enter the same CALL repeatedly
	}
	if m.CPUState() != StateError {
		t.Errorf("cpuState = %v, want ERROR after 17 nested calls", m.CPUState())
	}
}

func TestCyclicStackWrapsInsteadOfErroring(t *testing.T) {
	m := newTestMachine(VariantMegaChip) // CyclicStack is not set by any preset; verify directly
	m.props.Quirks.CyclicStack = true
	for i := 0; i < 17; i++ {
		m.Memory[int(m.PC)] = 0x23
		m.Memory[int(m.PC)+1] = 0x00
		m.ExecuteInstruction()
		m.PC = 0x300
	}
	if m.CPUState() == StateError {
		t.Errorf("cpuState = ERROR, want cyclic stack to wrap without halting")
	}
}

func TestLoadStoreIncPolicies(t *testing.T) {
	cases := []struct {
		name   string
		policy IncIPolicy
		wantI  uint32
	}{
		{"ByXPlus1", IncIByXPlus1, 0x302},
		{"ByX", IncIByX, 0x301},
		{"None", IncINone, 0x300},
	}
	for _, c := range cases {
		m := newTestMachine(VariantCHIP8)
		m.props.Quirks.LoadStoreInc = c.policy
		m.I = 0x300
		m.V[0] = 1
		m.V[1] = 2
		writeOpcodes(m, 0xF155) // save V0..V1
		m.ExecuteInstruction()
		if m.I != c.wantI {
			t.Errorf("%s: I = %#x, want %#x", c.name, m.I, c.wantI)
		}
	}
}

func TestFx0AWaitsForKeyDownThenUp(t *testing.T) {
	m := NewMachine(VariantCHIP8, NewKeyHost())
	m.LoadROM(nil, -1)
	host := m.Host.(*KeyHost)

	writeOpcodes(m, 0xF00A) // V0 = wait for key
	pc := m.PC

	// No key activity: re-executes in place.
	m.ExecuteInstruction()
	if m.PC != pc {
		t.Fatalf("PC advanced with no key activity: %#x -> %#x", pc, m.PC)
	}
	if m.CPUState() != StateWait {
		t.Fatalf("cpuState = %v, want WAIT", m.CPUState())
	}

	host.Press(5)
	m.ExecuteInstruction()
	if m.PC != pc {
		t.Fatalf("PC advanced on key-down, want it to keep waiting for release")
	}

	// No further key activity yet: still waiting for the release.
	m.ExecuteInstruction()
	if m.CPUState() != StateWait {
		t.Fatalf("cpuState = %v, want still WAIT before release", m.CPUState())
	}

	host.Release(5)
	m.ExecuteInstruction()
	if m.PC != pc+2 {
		t.Fatalf("PC = %#x after release, want %#x (resolved)", m.PC, pc+2)
	}
	if m.V[0] != 5 {
		t.Fatalf("V0 = %d, want 5 (the released key)", m.V[0])
	}
	if m.CPUState() != StateNormal {
		t.Fatalf("cpuState = %v, want NORMAL after resolution", m.CPUState())
	}
}

func TestWaitSuspendsCyclesButNotTimers(t *testing.T) {
	m := newTestMachine(VariantCHIP8)
	writeOpcodes(m, 0xF00A)
	before := m.Cycles()
	m.ExecuteInstruction() // no key activity -> stays in WAIT
	if m.Cycles() != before {
		t.Errorf("Cycles = %d, want unchanged (%d) while WAIT", m.Cycles(), before)
	}
	m.ExecuteFrame()
	if m.Frames() == 0 {
		t.Errorf("Frames = 0, want timers to still tick while WAIT")
	}
}

func TestJumpToSelfHalts(t *testing.T) {
	m := newTestMachine(VariantCHIP8)
	addr := m.PC
	writeOpcodes(m, uint16(0x1000|addr))
	m.ExecuteInstruction()
	if m.ExecMode() != Paused {
		t.Errorf("execMode = %v, want PAUSED after a jump-to-self", m.ExecMode())
	}
}
