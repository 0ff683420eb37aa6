package chip8

// This file is the Scheduler from spec §4.5, generalizing massung-
// CHIP-8/chip8/chip8.go's Process/Step loop (fixed-rate ticking plus a
// single-step primitive) to the fixed-IPF-vs-unlimited execution modes
// and the frame-boundary timer tick the expanded spec calls for.

// ExecuteInstruction is the step primitive: checks breakpoints, fetches
// and dispatches one opcode, advances the cycle counter, and appends a
// trace line if tracing is enabled. Returns false if a breakpoint
// stopped execution before dispatch.
func (m *Machine) ExecuteInstruction() bool {
	if m.cpuState == StateError {
		return false
	}
	if bp, hit := m.checkBreakpoint(); hit {
		m.execMode = Paused
		if bp.Once {
			m.RemoveBreakpoint(bp.Address)
		}
		return false
	}

	pc := m.PC
	opcode := m.fetch()

	if m.trace != nil {
		m.trace.Log(pc, opcode, m)
	}

	m.justReturned = false
	m.handlers[opcode](m, opcode)

	// Per spec §5, cpuState==WAIT (an in-flight Fx0A re-executing itself
	// via PC rewind) suspends cycle counting, though timers still tick.
	if m.cpuState != StateWait {
		m.cycleCounter++
		m.clock.Advance(1)
	}

	return true
}

// checkBreakpoint reports whether a breakpoint fires at the current
// PC. Spec §5 is explicit that "breakpoint checks occur after PC has
// been advanced to the next instruction" — but that describes where in
// the pipeline the *previous* instruction's post-advance PC is
// compared against a caller's step-over target, not this pre-dispatch
// check; a plain address breakpoint fires on the instruction about to
// execute, matching massung-CHIP-8's Step.
func (m *Machine) checkBreakpoint() (Breakpoint, bool) {
	bp, ok := m.breakpoints[int(m.PC)]
	if !ok {
		return Breakpoint{}, false
	}
	if bp.Conditional && m.V[0xF] == 0 {
		return bp, false
	}
	return bp, true
}

// handleTimer runs once per frame boundary: increments frameCounter,
// decrements DT/ST (floor at zero), and notifies the host, per spec
// §4.5.
func (m *Machine) handleTimer() {
	m.frameCounter++
	if m.DT > 0 {
		m.DT--
	}
	if m.ST > 0 {
		m.ST--
	}
	m.Host.Vblank()
}

// ExecuteFrame runs exactly one frame's worth of cycles (IPF cycles in
// fixed mode, or a single frame-boundary tick with no instructions in
// unlimited mode handled instead by ExecuteFor) and then ticks the
// timer, the convenience wrapper spec §4.5 names.
func (m *Machine) ExecuteFrame() {
	ipf := m.props.InstructionsPerFrame
	if ipf <= 0 {
		ipf = 0
	}
	for i := 0; i < ipf; i++ {
		if m.execMode != Running && m.execMode != Step && m.execMode != StepOver && m.execMode != StepOut {
			break
		}
		if !m.ExecuteInstruction() {
			break
		}
		if m.frameConsumed {
			m.frameConsumed = false
			break
		}
		switch m.execMode {
		case Step:
			m.execMode = Paused
		case StepOver:
			if m.SP == m.stepTargetSP {
				m.execMode = Paused
			}
		case StepOut:
			if m.justReturned {
				m.execMode = Paused
			}
		}
		if m.execMode == Paused {
			break
		}
	}
	m.handleTimer()
}

// ExecuteFor runs for approximately micros microseconds of emulated
// time, per spec §4.5: in fixed-IPF mode this executes whole frames
// bounded by frame boundaries and returns the leftover microseconds
// not spent; a partial frame is never started, so the result is never
// negative. In unlimited mode (IPF==0) it runs cycles for
// the wall-clock budget directly and updates a moving-average IPF
// estimate used only for reporting.
func (m *Machine) ExecuteFor(micros int64) int64 {
	if m.props.InstructionsPerFrame > 0 {
		return m.executeForFixed(micros)
	}
	return m.executeForUnlimited(micros)
}

func (m *Machine) executeForFixed(micros int64) int64 {
	frameRate := int64(m.props.FrameRate)
	if frameRate <= 0 {
		frameRate = 60
	}
	frameMicros := int64(1e6) / frameRate
	owed := micros
	for owed >= frameMicros {
		if m.execMode != Running {
			break
		}
		m.ExecuteFrame()
		owed -= frameMicros
	}
	return owed
}

// executeForUnlimited runs instructions back to back until micros of
// emulated time (estimated from the running observedIPF average) is
// spent, then ticks the timer and updates that average. With no fixed
// IPF to bound a burst, there is no frame-boundary concept to honor
// mid-run; the timer only ticks once, at the end of the requested
// span.
func (m *Machine) executeForUnlimited(micros int64) int64 {
	frameRate := int64(m.props.FrameRate)
	if frameRate <= 0 {
		frameRate = 60
	}
	microsPerCycle := int64(1e6) / (frameRate * int64(estimatedIPF(m)))
	if microsPerCycle <= 0 {
		microsPerCycle = 1
	}
	owed := micros
	cyclesRun := 0
	for owed >= microsPerCycle {
		if m.execMode != Running {
			break
		}
		if !m.ExecuteInstruction() {
			break
		}
		cyclesRun++
		owed -= microsPerCycle
	}
	if cyclesRun > 0 {
		m.observedIPF = (m.observedIPF + cyclesRun) / 2
	}
	m.handleTimer()
	return owed
}

func estimatedIPF(m *Machine) int {
	if m.observedIPF <= 0 {
		return 11
	}
	return m.observedIPF
}
