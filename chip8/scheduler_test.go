package chip8

import "testing"

func TestStepPausesAfterOneInstruction(t *testing.T) {
	m := newTestMachine(VariantCHIP8)
	writeOpcodes(m, 0x6001, 0x6002, 0x6003)
	m.SetExecMode(Step)
	m.ExecuteFrame()

	if m.ExecMode() != Paused {
		t.Fatalf("execMode = %v, want PAUSED after one STEP", m.ExecMode())
	}
	if m.V[0] != 1 {
		t.Fatalf("V0 = %d, want 1 (only the first instruction ran)", m.V[0])
	}
}

func TestStepOverPausesWhenStackDepthReturns(t *testing.T) {
	m := newTestMachine(VariantCHIP8)
	writeOpcodes(m, 0x2300) // CALL 0x300
	m.Memory[0x300] = 0x00
	m.Memory[0x301] = 0xEE // RET

	// Cap IPF at 1 so each ExecuteFrame call advances exactly one
	// instruction, letting the test observe the intermediate SP==1
	// state between CALL and RET instead of both running within a
	// single frame's budget.
	m.props.InstructionsPerFrame = 1

	m.SetExecMode(StepOver)
	if m.stepTargetSP != 0 {
		t.Fatalf("stepTargetSP = %d, want 0 at entry", m.stepTargetSP)
	}

	m.ExecuteFrame() // CALL executes, SP becomes 1, not yet back to 0
	if m.SP != 1 {
		t.Fatalf("SP = %d after CALL, want 1", m.SP)
	}
	if m.ExecMode() != StepOver {
		t.Fatalf("execMode = %v after CALL alone, want still STEPOVER", m.ExecMode())
	}

	m.ExecuteFrame() // RET executes, SP returns to 0 == stepTargetSP
	if m.ExecMode() != Paused {
		t.Fatalf("execMode = %v, want PAUSED once SP returns to the captured depth", m.ExecMode())
	}
}

func TestStepOutPausesOnReturn(t *testing.T) {
	m := newTestMachine(VariantCHIP8)
	writeOpcodes(m, 0x2300)
	m.Memory[0x300] = 0x00
	m.Memory[0x301] = 0xEE

	m.execMode = Running
	m.ExecuteInstruction() // enter the call
	if m.SP != 1 {
		t.Fatalf("SP = %d after CALL, want 1", m.SP)
	}

	m.execMode = StepOut
	m.ExecuteFrame()
	if m.ExecMode() != Paused {
		t.Fatalf("execMode = %v, want PAUSED once 00EE fires", m.ExecMode())
	}
	if m.SP != 0 {
		t.Fatalf("SP = %d, want 0 after the RET that triggered StepOut", m.SP)
	}
}

func TestBreakpointStopsBeforeDispatch(t *testing.T) {
	m := newTestMachine(VariantCHIP8)
	writeOpcodes(m, 0x6001, 0x6002)
	bpAddr := int(m.PC)
	m.SetBreakpoint(Breakpoint{Address: bpAddr, Reason: "stop here"})

	ok := m.ExecuteInstruction()
	if ok {
		t.Fatal("ExecuteInstruction returned true, want false on a breakpoint hit")
	}
	if m.V[0] != 0 {
		t.Fatalf("V0 = %d, want 0 (breakpoint fired before dispatch)", m.V[0])
	}
	if m.ExecMode() != Paused {
		t.Fatalf("execMode = %v, want PAUSED after hitting a breakpoint", m.ExecMode())
	}
}

func TestConditionalBreakpointOnlyFiresWhenVFSet(t *testing.T) {
	m := newTestMachine(VariantCHIP8)
	bpAddr := int(m.PC)
	m.SetBreakpoint(Breakpoint{Address: bpAddr, Conditional: true, Reason: "assert"})
	writeOpcodes(m, 0x6001)

	m.V[0xF] = 0
	ok := m.ExecuteInstruction()
	if !ok {
		t.Fatal("conditional breakpoint fired with VF==0, want it to pass through")
	}

	m.PC = uint32(bpAddr)
	m.V[0xF] = 1
	ok = m.ExecuteInstruction()
	if ok {
		t.Fatal("conditional breakpoint did not fire with VF!=0")
	}
}

func TestExecuteFrameTicksTimersExactlyOnce(t *testing.T) {
	m := newTestMachine(VariantCHIP8)
	m.DT = 5
	m.ExecuteFrame()
	if m.DT != 4 {
		t.Errorf("DT = %d after one frame, want 4", m.DT)
	}
	if m.Frames() != 1 {
		t.Errorf("Frames() = %d, want 1", m.Frames())
	}
}

func TestExecuteFrameRunsExactlyIPFCycles(t *testing.T) {
	m := newTestMachine(VariantCHIP8)
	ipf := m.props.InstructionsPerFrame
	ops := make([]uint16, ipf)
	for i := range ops {
		ops[i] = 0x00E0 // CLS, a no-op-ish instruction that never branches
	}
	writeOpcodes(m, ops...)
	m.ExecuteFrame()
	if m.Cycles() != int64(ipf) {
		t.Errorf("Cycles() = %d, want %d (one frame's IPF)", m.Cycles(), ipf)
	}
}
