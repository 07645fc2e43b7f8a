// Package audio implements a deterministic procedural sound-effect
// synthesizer: a 24-parameter settings vector is rendered sample by sample
// into mono 16-bit PCM and packaged as a base64 WAV data URI.
package audio

import (
	"strconv"
	"strings"
)

// ParamCount is the length of a full settings vector.
const ParamCount = 24

// Params holds all configurable parameters for sound synthesis.
type Params struct {
	WaveType            int     // 0=square, 1=sawtooth, 2=sine, 3=noise
	AttackTime          float64 // Time for volume to ramp up (0-1)
	SustainTime         float64 // Time at full volume (0-1)
	SustainPunch        float64 // Extra volume boost at sustain start (0-1)
	DecayTime           float64 // Time for volume to fade out (0-1)
	StartFrequency      float64 // Base frequency of the sound (0-1)
	MinFrequency        float64 // Frequency cutoff; sound stops below it
	Slide               float64 // Frequency slide
	DeltaSlide          float64 // Acceleration of frequency slide
	VibratoDepth        float64 // Depth of vibrato effect
	VibratoSpeed        float64 // Speed of vibrato oscillation
	ChangeAmount        float64 // Amount to change pitch mid-sound
	ChangeSpeed         float64 // When to apply the pitch change
	SquareDuty          float64 // Duty cycle for square wave (0-1)
	DutySweep           float64 // Sweep of square wave duty cycle
	RepeatSpeed         float64 // Speed of sound retrigger
	PhaserOffset        float64 // Initial phaser offset
	PhaserSweep         float64 // Phaser offset sweep
	LpFilterCutoff      float64 // Low-pass filter cutoff frequency (0-1)
	LpFilterCutoffSweep float64 // Low-pass filter cutoff sweep
	LpFilterResonance   float64 // Low-pass filter resonance (0-1)
	HpFilterCutoff      float64 // High-pass filter cutoff frequency (0-1)
	HpFilterCutoffSweep float64 // High-pass filter cutoff sweep
	MasterVolume        float64 // Master volume (0-1)
}

// Normalize builds a Params from an ordered value vector. Indexes beyond the
// input's length default to 0; there are no validation failures, out-of-range
// values degrade rather than error.
func Normalize(values []float64) Params {
	at := func(idx int) float64 {
		if idx >= len(values) {
			return 0
		}
		return values[idx]
	}

	p := Params{
		WaveType:            int(at(0)),
		AttackTime:          at(1),
		SustainTime:         at(2),
		SustainPunch:        at(3),
		DecayTime:           at(4),
		StartFrequency:      at(5),
		MinFrequency:        at(6),
		Slide:               at(7),
		DeltaSlide:          at(8),
		VibratoDepth:        at(9),
		VibratoSpeed:        at(10),
		ChangeAmount:        at(11),
		ChangeSpeed:         at(12),
		SquareDuty:          at(13),
		DutySweep:           at(14),
		RepeatSpeed:         at(15),
		PhaserOffset:        at(16),
		PhaserSweep:         at(17),
		LpFilterCutoff:      at(18),
		LpFilterCutoffSweep: at(19),
		LpFilterResonance:   at(20),
		HpFilterCutoff:      at(21),
		HpFilterCutoffSweep: at(22),
		MasterVolume:        at(23),
	}
	p.normalize()
	return p
}

// ParseSettingsString parses a comma-separated settings string into the
// parameters. Empty or malformed fields read as 0.
func (p *Params) ParseSettingsString(s string) {
	fields := strings.Split(s, ",")
	if len(fields) > ParamCount {
		fields = fields[:ParamCount]
	}

	values := make([]float64, len(fields))
	for i, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		f, err := strconv.ParseFloat(field, 64)
		if err != nil {
			continue
		}
		values[i] = f
	}

	*p = Normalize(values)
}

// SettingsString serializes the parameters back to the comma-separated form.
// Zero fields serialize as empty, matching the compact notation the presets
// are written in.
func (p Params) SettingsString() string {
	fmtField := func(f float64) string {
		if f == 0 {
			return ""
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	parts := []string{
		strconv.Itoa(p.WaveType),
		fmtField(p.AttackTime),
		fmtField(p.SustainTime),
		fmtField(p.SustainPunch),
		fmtField(p.DecayTime),
		fmtField(p.StartFrequency),
		fmtField(p.MinFrequency),
		fmtField(p.Slide),
		fmtField(p.DeltaSlide),
		fmtField(p.VibratoDepth),
		fmtField(p.VibratoSpeed),
		fmtField(p.ChangeAmount),
		fmtField(p.ChangeSpeed),
		fmtField(p.SquareDuty),
		fmtField(p.DutySweep),
		fmtField(p.RepeatSpeed),
		fmtField(p.PhaserOffset),
		fmtField(p.PhaserSweep),
		fmtField(p.LpFilterCutoff),
		fmtField(p.LpFilterCutoffSweep),
		fmtField(p.LpFilterResonance),
		fmtField(p.HpFilterCutoff),
		fmtField(p.HpFilterCutoffSweep),
		fmtField(p.MasterVolume),
	}
	return strings.Join(parts, ",")
}

// normalize enforces the construction invariants: a known wave type,
// non-negative envelope times, a minimum sustain time, and a minimum total
// envelope length so every sound stays audible and no envelope denominator is
// near zero.
func (p *Params) normalize() {
	if p.WaveType < 0 || p.WaveType > 3 {
		p.WaveType = 0
	}

	// Negative envelope times would let the total reach zero and blow up the
	// rescale below.
	if p.AttackTime < 0 {
		p.AttackTime = 0
	}
	if p.DecayTime < 0 {
		p.DecayTime = 0
	}
	if p.SustainTime < 0.01 {
		p.SustainTime = 0.01
	}

	totalTime := p.AttackTime + p.SustainTime + p.DecayTime
	if totalTime < 0.18 {
		multiplier := 0.18 / totalTime
		p.AttackTime *= multiplier
		p.SustainTime *= multiplier
		p.DecayTime *= multiplier
	}
}
