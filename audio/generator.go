package audio

import "github.com/jannev/chipfx/common"

// Designer produces randomized effect parameters in the classic sfxr
// families. Given a seeded source it is fully deterministic, so a design can
// be reproduced from its seed alone.
type Designer struct {
	rand common.Rand
}

// NewDesigner creates a designer drawing from the given entropy source.
func NewDesigner(r common.Rand) *Designer {
	return &Designer{rand: r}
}

func (d *Designer) random() float64 { return d.rand.Random() }

// frnd returns a random float in [0, max).
func (d *Designer) frnd(max float64) float64 { return d.random() * max }

// PickupCoin designs a short two-tone chime.
func (d *Designer) PickupCoin() Params {
	p := Params{
		WaveType:       WaveSquare,
		StartFrequency: 0.4 + d.frnd(0.5),
		SustainTime:    d.frnd(0.1),
		DecayTime:      0.1 + d.frnd(0.4),
		SustainPunch:   0.3 + d.frnd(0.3),
		MasterVolume:   0.5,
	}
	if d.random() < 0.5 {
		p.ChangeAmount = 0.2 + d.frnd(0.4)
		p.ChangeSpeed = 0.5 + d.frnd(0.2)
	}
	p.normalize()
	return p
}

// LaserShoot designs a descending zap.
func (d *Designer) LaserShoot() Params {
	p := Params{
		WaveType:       int(d.frnd(3)),
		StartFrequency: 0.5 + d.frnd(0.5),
		MinFrequency:   d.frnd(0.2),
		Slide:          -0.15 - d.frnd(0.2),
		SustainTime:    0.1 + d.frnd(0.2),
		DecayTime:      d.frnd(0.4),
		MasterVolume:   0.5,
	}
	if p.MinFrequency > p.StartFrequency {
		p.MinFrequency = p.StartFrequency
	}
	if p.WaveType == WaveSquare {
		p.SquareDuty = d.frnd(0.5)
		p.DutySweep = d.frnd(0.2)
	}
	if d.random() < 0.33 {
		p.PhaserOffset = d.frnd(0.2)
		p.PhaserSweep = -d.frnd(0.2)
	}
	if d.random() < 0.5 {
		p.HpFilterCutoff = d.frnd(0.3)
	}
	p.normalize()
	return p
}

// Explosion designs a noise burst.
func (d *Designer) Explosion() Params {
	p := Params{
		WaveType:       WaveNoise,
		StartFrequency: 0.1 + d.frnd(0.4),
		SustainTime:    0.1 + d.frnd(0.3),
		DecayTime:      d.frnd(0.5),
		SustainPunch:   0.2 + d.frnd(0.6),
		MasterVolume:   0.6,
	}
	if d.random() < 0.5 {
		p.Slide = -0.1 + d.frnd(0.4)
	}
	if d.random() < 0.33 {
		p.RepeatSpeed = 0.3 + d.frnd(0.5)
	}
	if d.random() < 0.5 {
		p.PhaserOffset = -0.3 + d.frnd(0.9)
		p.PhaserSweep = -d.frnd(0.3)
	}
	if d.random() < 0.33 {
		p.ChangeSpeed = 0.6 + d.frnd(0.3)
		p.ChangeAmount = 0.8 - d.frnd(1.6)
	}
	p.normalize()
	return p
}

// PowerUp designs a rising tone, often with vibrato.
func (d *Designer) PowerUp() Params {
	p := Params{
		StartFrequency: 0.2 + d.frnd(0.3),
		SustainTime:    d.frnd(0.4),
		DecayTime:      0.1 + d.frnd(0.4),
		MasterVolume:   0.5,
	}
	if d.random() < 0.5 {
		p.WaveType = WaveSawtooth
	} else {
		p.SquareDuty = d.frnd(0.6)
	}
	if d.random() < 0.5 {
		p.RepeatSpeed = 0.4 + d.frnd(0.4)
		p.Slide = 0.05 + d.frnd(0.2)
	} else {
		p.Slide = 0.05 + d.frnd(0.3)
		if d.random() < 0.5 {
			p.VibratoDepth = d.frnd(0.7)
			p.VibratoSpeed = d.frnd(0.6)
		}
	}
	p.normalize()
	return p
}

// HitHurt designs a short harsh impact.
func (d *Designer) HitHurt() Params {
	p := Params{
		WaveType:       int(d.frnd(3)),
		StartFrequency: 0.2 + d.frnd(0.6),
		Slide:          -0.3 - d.frnd(0.4),
		SustainTime:    d.frnd(0.1),
		DecayTime:      0.1 + d.frnd(0.2),
		MasterVolume:   0.5,
	}
	if p.WaveType == WaveSawtooth {
		p.WaveType = WaveNoise
	}
	if p.WaveType == WaveSquare {
		p.SquareDuty = d.frnd(0.6)
	}
	if d.random() < 0.5 {
		p.HpFilterCutoff = d.frnd(0.3)
	}
	p.normalize()
	return p
}

// Jump designs a rising square blip.
func (d *Designer) Jump() Params {
	p := Params{
		WaveType:       WaveSquare,
		SquareDuty:     d.frnd(0.6),
		StartFrequency: 0.3 + d.frnd(0.3),
		Slide:          0.1 + d.frnd(0.2),
		SustainTime:    0.1 + d.frnd(0.3),
		DecayTime:      0.1 + d.frnd(0.2),
		MasterVolume:   0.5,
	}
	if d.random() < 0.5 {
		p.HpFilterCutoff = d.frnd(0.3)
	}
	if d.random() < 0.5 {
		p.LpFilterCutoff = 1 - d.frnd(0.6)
	}
	p.normalize()
	return p
}

// BlipSelect designs a UI tick.
func (d *Designer) BlipSelect() Params {
	p := Params{
		WaveType:       int(d.frnd(2)),
		StartFrequency: 0.2 + d.frnd(0.4),
		SustainTime:    0.1 + d.frnd(0.1),
		DecayTime:      d.frnd(0.2),
		HpFilterCutoff: 0.1,
		MasterVolume:   0.4,
	}
	if p.WaveType == WaveSquare {
		p.SquareDuty = d.frnd(0.6)
	}
	p.normalize()
	return p
}

// Randomize designs an unconstrained effect across the whole parameter space.
func (d *Designer) Randomize() Params {
	cube := func(f float64) float64 { return f * f * f }

	p := Params{
		WaveType:            int(d.frnd(4)),
		AttackTime:          cube(d.random()),
		SustainTime:         cube(d.random()),
		DecayTime:           cube(d.random()),
		SustainPunch:        cube(d.random()),
		StartFrequency:      cube(d.random()),
		Slide:               d.frnd(2) - 1,
		DeltaSlide:          cube(d.frnd(2) - 1),
		VibratoDepth:        cube(d.random()),
		VibratoSpeed:        d.random(),
		ChangeAmount:        d.frnd(2) - 1,
		ChangeSpeed:         d.random(),
		SquareDuty:          d.random(),
		DutySweep:           cube(d.frnd(2) - 1),
		RepeatSpeed:         d.frnd(2) - 1,
		PhaserOffset:        cube(d.frnd(2) - 1),
		PhaserSweep:         cube(d.frnd(2) - 1),
		LpFilterCutoff:      1 - cube(d.random()),
		LpFilterCutoffSweep: cube(d.frnd(2) - 1),
		LpFilterResonance:   d.frnd(2) - 1,
		HpFilterCutoff:      cube(d.random()),
		HpFilterCutoffSweep: cube(d.frnd(2) - 1),
		MasterVolume:        0.5,
	}
	if p.RepeatSpeed < 0 {
		p.RepeatSpeed = 0
	}
	p.normalize()
	return p
}

// Mutate nudges a subset of the parameters by up to amount, for exploring
// variations around an existing design.
func (d *Designer) Mutate(p Params, amount float64) Params {
	nudge := func(f *float64) {
		if d.random() < 0.5 {
			*f += d.frnd(amount*2) - amount
		}
	}

	nudge(&p.AttackTime)
	nudge(&p.SustainTime)
	nudge(&p.SustainPunch)
	nudge(&p.DecayTime)
	nudge(&p.StartFrequency)
	nudge(&p.Slide)
	nudge(&p.DeltaSlide)
	nudge(&p.VibratoDepth)
	nudge(&p.VibratoSpeed)
	nudge(&p.ChangeAmount)
	nudge(&p.ChangeSpeed)
	nudge(&p.SquareDuty)
	nudge(&p.DutySweep)
	nudge(&p.RepeatSpeed)
	nudge(&p.PhaserOffset)
	nudge(&p.PhaserSweep)
	nudge(&p.LpFilterCutoff)
	nudge(&p.LpFilterCutoffSweep)
	nudge(&p.LpFilterResonance)
	nudge(&p.HpFilterCutoff)
	nudge(&p.HpFilterCutoffSweep)

	p.normalize()
	return p
}

// Designers maps family names to designer methods, for the CLI and server.
func (d *Designer) Designers() map[string]func() Params {
	return map[string]func() Params{
		"pickup":    d.PickupCoin,
		"laser":     d.LaserShoot,
		"explosion": d.Explosion,
		"powerup":   d.PowerUp,
		"hit":       d.HitHurt,
		"jump":      d.Jump,
		"blip":      d.BlipSelect,
		"random":    d.Randomize,
	}
}
