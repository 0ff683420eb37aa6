package chip8

import (
	"math"
	"sync/atomic"
)

// This file implements the Audio Unit from spec §4.4: per-variant
// waveform selection and the atomic accessors a separate audio-render
// thread needs to read Machine state the CPU goroutine is concurrently
// writing, without a mutex on the hot path. massung-CHIP-8 has no
// audio thread of its own (its beeper is just "ST > 0" driving SDL's
// queued square wave from the main loop), so the cross-thread contract
// here is grounded directly in spec §4.4 rather than in the teacher.

// vipSampleTable and hp48SampleTable are the hard-coded, ROM-dumped
// wave shapes spec §4.4 calls for on the original COSMAC VIP/CHIP-10
// and the CHIP-48/SCHIP family respectively. Real hardware plays these
// back from interpreter ROM; since that ROM dump isn't part of this
// retrieval pack, both tables are a canonical 50%-duty square
// approximation rather than the exact sampled waveform, documented
// here rather than silently invented.
var vipSampleTable = buildSquareTable(128)
var hp48SampleTable = buildSquareTable(64)

func buildSquareTable(n int) []byte {
	t := make([]byte, n)
	for i := range t {
		if i < n/2 {
			t[i] = 0xFF
		} else {
			t[i] = 0x00
		}
	}
	return t
}

func setSampleLength(m *Machine, n int32) {
	atomic.StoreInt32(&m.sampleLength, n)
}

func sampleLengthAtomic(m *Machine) int32 {
	return atomic.LoadInt32(&m.sampleLength)
}

func setMCSamplePos(m *Machine, v int64) {
	atomic.StoreInt64(&m.mcSamplePos, v)
}

func mcSamplePosAtomic(m *Machine) int64 {
	return atomic.LoadInt64(&m.mcSamplePos)
}

func addMCSamplePos(m *Machine, delta int64) int64 {
	return atomic.AddInt64(&m.mcSamplePos, delta)
}

// SoundTimer returns the current ST value. It is written by the CPU
// goroutine on every frame tick and read by an audio callback; reads
// race benignly (ST only ever moves in one direction between ticks,
// and a torn read is at worst one frame stale), so it is left as a
// plain int32 rather than promoted to atomic, matching spec §4.4's
// carve-out for DT/ST.
func (m *Machine) SoundTimer() int32 { return m.ST }

// DelayTimer returns the current DT value.
func (m *Machine) DelayTimer() int32 { return m.DT }

// XOPitch returns the current XO-CHIP Fx3A pitch register, used to
// compute playback rate as 4000*2^((pitch-64)/48), per spec §4.4.
func (m *Machine) XOPitch() int32 {
	return atomic.LoadInt32(&m.xoPitch)
}

func (m *Machine) setXOPitch(v byte) {
	atomic.StoreInt32(&m.xoPitch, int32(v))
}

// XOAudioPattern returns a copy of the 16-byte (128-step) XO-CHIP sound
// pattern set by F002.
func (m *Machine) XOAudioPattern() [16]byte {
	return m.xoAudioPattern
}

// RenderAudio fills samples with signed 16-bit mono output at
// sampleRate, selecting the waveform per spec §4.4's priority table: a
// running MEGACHIP sample takes precedence over everything (even a
// zero ST, matching "MEGACHIP sample active" being checked first),
// then silence on ST==0, then XO-CHIP's pattern engine, then the
// variant's hard-coded sample table, then a plain square wave.
func (m *Machine) RenderAudio(samples []int16) {
	out := make([]float32, len(samples))
	switch {
	case m.props.BehaviorBase == VariantMegaChip && sampleLengthAtomic(m) > 0:
		m.renderMegaChipSample(out)
	case m.SoundTimer() <= 0:
		m.wavePhase = 0
	case m.props.Quirks.XOChipSound:
		m.renderXOChipSample(out)
	case isSchipFamily(m.props.BehaviorBase):
		m.renderTableSample(out, hp48SampleTable, 4000)
	case m.props.BehaviorBase == VariantCHIP8X:
		m.renderChip8XSample(out)
	case m.props.BehaviorBase == VariantCHIP8 || m.props.BehaviorBase == VariantCHIP10:
		m.renderTableSample(out, vipSampleTable, 4000)
	default:
		m.renderSquareSample(out)
	}
	for i, v := range out {
		samples[i] = int16(v * 32767)
	}
}

func isSchipFamily(id VariantID) bool {
	switch id {
	case VariantCHIP48, VariantSCHIP10, VariantSCHIP11, VariantSCHIPC, VariantSCHIPModern:
		return true
	default:
		return false
	}
}

func (m *Machine) sampleRate() int {
	if m.audioSampleRate == 0 {
		return 44100
	}
	return m.audioSampleRate
}

// renderSquareSample produces a fixed 50%-duty square wave at the
// default buzzer tone, per spec §4.4.
func (m *Machine) renderSquareSample(out []float32) {
	const freq = 1531.555
	step := freq / float64(m.sampleRate())
	for i := range out {
		out[i] = squareStep(&m.wavePhase, step)
	}
}

// renderChip8XSample drives the VP-595 tone generator, frequency
// 27535/(vp595Frequency+1) Hz per spec §4.4.
func (m *Machine) renderChip8XSample(out []float32) {
	freq := 27535.0 / float64(uint16(m.vp595Frequency)+1)
	step := freq / float64(m.sampleRate())
	for i := range out {
		out[i] = squareStep(&m.wavePhase, step)
	}
}

func squareStep(phase *float64, step float64) float32 {
	*phase += step
	if *phase >= 1 {
		*phase -= float64(int(*phase))
	}
	if *phase < 0.5 {
		return 0.5
	}
	return -0.5
}

// renderTableSample replays a hard-coded sample table at baseFreq
// cycles/sec through the table, per spec §4.4's HP48/VIP rows.
func (m *Machine) renderTableSample(out []float32, table []byte, baseFreq float64) {
	n := float64(len(table))
	step := baseFreq * n / float64(m.sampleRate()) / n
	for i := range out {
		m.wavePhase += step
		if m.wavePhase >= 1 {
			m.wavePhase -= float64(int(m.wavePhase))
		}
		idx := int(m.wavePhase * n)
		out[i] = (float32(table[idx]) - 128) / 128
	}
}

// renderXOChipSample plays the 128-step, 1-bit-per-step pattern buffer
// set by XO-CHIP's F002 at a rate derived from the pitch register, per
// spec §4.4: playback rate = 4000 * 2^((pitch-64)/48) / 128 cycles/sec
// through the 128-step table.
func (m *Machine) renderXOChipSample(out []float32) {
	rate := 4000.0 * math.Pow(2, float64(m.XOPitch()-64)/48.0)
	step := rate / float64(m.sampleRate())
	for i := range out {
		m.wavePhase += step
		if m.wavePhase >= 128 {
			m.wavePhase -= 128
		}
		pos := int(m.wavePhase)
		byteIdx := pos / 8
		bitIdx := 7 - uint(pos%8)
		bit := (m.xoAudioPattern[byteIdx] >> bitIdx) & 1
		if bit != 0 {
			out[i] = 0.5
		} else {
			out[i] = -0.5
		}
	}
}

// renderMegaChipSample resamples the PCM buffer loaded by the 07nn
// sample descriptor at its native sampleStep rate, looping if
// sampleLoop is set and stopping once exhausted. mcSamplePos is a
// 16.16 fixed-point cursor; a zero sampleStep plays one source byte
// per output sample.
func (m *Machine) renderMegaChipSample(out []float32) {
	length := int64(sampleLengthAtomic(m))
	step := int64(m.sampleStep * 65536)
	if step <= 0 {
		step = 65536
	}
	for i := range out {
		pos := mcSamplePosAtomic(m)
		if pos>>16 >= length {
			if m.sampleLoop {
				pos = 0
				setMCSamplePos(m, 0)
			} else {
				out[i] = 0
				continue
			}
		}
		sample := m.readByte(m.sampleStart + uint32(pos>>16))
		out[i] = (float32(sample) - 128) / 128
		addMCSamplePos(m, step)
	}
}
