package chip8

// ClockedTime is a monotonic cycle counter convertible to wall time
// given a clock frequency. It is the same "clock in nanoseconds since
// Reset" idea the teacher uses for DT/ST (massung-CHIP-8/chip8/chip8.go
// Clock/Cycles), generalized so the scheduler, not the timer registers
// themselves, owns the conversion.
type ClockedTime struct {
	// cycles is the number of instructions executed since reset.
	cycles int64

	// frequencyHz is the nominal clock rate used to convert cycles to
	// wall time for reporting (it does not gate execution speed; the
	// scheduler's instructions-per-frame budget does that).
	frequencyHz int64
}

// NewClockedTime creates a counter ticking at frequencyHz.
func NewClockedTime(frequencyHz int64) *ClockedTime {
	return &ClockedTime{frequencyHz: frequencyHz}
}

// Reset zeroes the cycle counter.
func (c *ClockedTime) Reset() {
	c.cycles = 0
}

// Advance accounts for n more cycles having executed.
func (c *ClockedTime) Advance(n int64) {
	c.cycles += n
}

// Cycles returns the total number of cycles counted since reset.
func (c *ClockedTime) Cycles() int64 {
	return c.cycles
}

// Nanoseconds converts the current cycle count to wall time at the
// configured clock frequency.
func (c *ClockedTime) Nanoseconds() int64 {
	if c.frequencyHz == 0 {
		return 0
	}
	return c.cycles * 1_000_000_000 / c.frequencyHz
}

// SetFrequency changes the clock rate used for wall-time conversion.
func (c *ClockedTime) SetFrequency(hz int64) {
	c.frequencyHz = hz
}
