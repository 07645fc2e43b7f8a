package audio

import (
	"math"

	"github.com/jannev/chipfx/common"
)

// SampleRate is the only sample rate the engine renders at.
const SampleRate = 44100

// Wave types, in settings-vector order.
const (
	WaveSquare = iota
	WaveSawtooth
	WaveSine
	WaveNoise
)

// envStage is the envelope state machine. Stages advance strictly forward;
// the only way back is a full reset.
type envStage int

const (
	stageAttack envStage = iota
	stageSustain
	stageDecay
	stageFinished
)

func (e envStage) next() envStage {
	if e >= stageFinished {
		return stageFinished
	}
	return e + 1
}

// Synth is the sound synthesizer engine. All running quantities live in
// explicit fields owned by the instance; a Synth must not be used from two
// call sites concurrently, but independent instances are fully isolated.
type Synth struct {
	Params Params

	rand common.Rand

	// Oscillator state, recomputed by Reset (also mid-render on retrigger).
	period       float64
	maxPeriod    float64
	slide        float64
	deltaSlide   float64
	changeAmount float64
	changeTime   float64
	changeLimit  float64
	squareDuty   float64
	dutySweep    float64

	// Envelope stage lengths, set by TotalReset.
	envelopeLength0 float64
	envelopeLength1 float64
	envelopeLength2 float64

	// Running render state, initialized by TotalReset and advanced one
	// sample at a time by Render.
	finished            bool
	envelopeStage       envStage
	envelopeTime        float64
	envelopeLength      float64
	envelopeOverLength0 float64
	envelopeOverLength1 float64
	envelopeOverLength2 float64

	phase        float64
	vibratoPhase float64
	repeatTime   int
	repeatLimit  int

	phaserEnabled     bool
	phaserOffset      float64
	phaserDeltaOffset float64
	phaserInt         int
	phaserPos         int

	filtersEnabled      bool
	lpFilterOn          bool
	lpFilterCutoff      float64
	lpFilterDeltaCutoff float64
	lpFilterDamping     float64
	lpFilterPos         float64
	lpFilterDeltaPos    float64
	lpFilterOldPos      float64
	hpFilterCutoff      float64
	hpFilterDeltaCutoff float64
	hpFilterPos         float64

	vibratoAmplitude float64
	vibratoSpeed     float64
	sustainPunch     float64
	masterVolume     float64
	minFrequency     float64

	phaserBuffer [1024]float64
	noiseBuffer  [32]float64
}

// NewSynth creates a synthesizer drawing noise from the process-wide random
// source. Noise renders through it are not reproducible.
func NewSynth() *Synth {
	return NewSynthWithRand(common.GlobalRand)
}

// NewSynthWithRand creates a synthesizer with an injected entropy source,
// which makes the noise wave type deterministic.
func NewSynthWithRand(r common.Rand) *Synth {
	return &Synth{rand: r}
}

// Reset recomputes the oscillator state from the parameters. It runs at setup
// through TotalReset and again mid-render as the retrigger effect driven by
// RepeatSpeed; envelope state is left untouched.
func (s *Synth) Reset() {
	p := &s.Params

	s.period = 100 / (p.StartFrequency*p.StartFrequency + 0.001)
	s.maxPeriod = 100 / (p.MinFrequency*p.MinFrequency + 0.001)

	s.slide = 1 - p.Slide*p.Slide*p.Slide*0.01
	s.deltaSlide = -p.DeltaSlide * p.DeltaSlide * p.DeltaSlide * 0.000001

	if p.WaveType == WaveSquare {
		s.squareDuty = 0.5 - p.SquareDuty/2
		s.dutySweep = -p.DutySweep * 0.00005
	}

	if p.ChangeAmount > 0 {
		s.changeAmount = 1 - p.ChangeAmount*p.ChangeAmount*0.9
	} else {
		s.changeAmount = 1 + p.ChangeAmount*p.ChangeAmount*10
	}
	s.changeTime = 0
	if p.ChangeSpeed == 1 {
		// A zero limit never arms the countdown, so the pitch change is
		// skipped entirely at full change speed.
		s.changeLimit = 0
	} else {
		s.changeLimit = (1-p.ChangeSpeed)*(1-p.ChangeSpeed)*20000 + 32
	}
}

// TotalReset performs a full reset including envelope sizing and render
// state, and returns the number of samples the render will need. The count is
// floored to a multiple of 3 so the 16-bit payload base64-encodes without
// padding.
func (s *Synth) TotalReset() int {
	s.Reset()
	p := &s.Params

	s.envelopeLength0 = p.AttackTime * p.AttackTime * 100000
	s.envelopeLength1 = p.SustainTime * p.SustainTime * 100000
	// The +12 keeps a non-zero decay tail even for DecayTime = 0.
	s.envelopeLength2 = p.DecayTime*p.DecayTime*100000 + 12

	s.startRender()

	length := int(s.envelopeLength0 + s.envelopeLength1 + s.envelopeLength2)
	length -= length % 3
	return length
}

// startRender initializes the per-render state: envelope position, effect
// drift values, filter coefficients, and fresh phaser/noise buffers.
func (s *Synth) startRender() {
	p := &s.Params

	s.finished = false
	s.envelopeStage = stageAttack
	s.envelopeTime = 0
	s.envelopeLength = s.envelopeLength0
	s.envelopeOverLength0 = 1 / s.envelopeLength0
	s.envelopeOverLength1 = 1 / s.envelopeLength1
	s.envelopeOverLength2 = 1 / s.envelopeLength2

	s.phase = 0
	s.vibratoPhase = 0
	s.repeatTime = 0
	s.repeatLimit = 0
	if p.RepeatSpeed != 0 {
		s.repeatLimit = int((1-p.RepeatSpeed)*(1-p.RepeatSpeed)*20000) + 32
	}

	s.phaserEnabled = p.PhaserOffset != 0 || p.PhaserSweep != 0
	s.phaserDeltaOffset = p.PhaserSweep * p.PhaserSweep * p.PhaserSweep * 0.2
	s.phaserOffset = p.PhaserOffset * p.PhaserOffset
	if p.PhaserOffset < 0 {
		s.phaserOffset *= -1020
	} else {
		s.phaserOffset *= 1020
	}
	s.phaserInt = 0
	s.phaserPos = 0

	s.filtersEnabled = p.LpFilterCutoff != 1 || p.HpFilterCutoff != 0
	s.lpFilterOn = p.LpFilterCutoff != 1
	s.lpFilterCutoff = p.LpFilterCutoff * p.LpFilterCutoff * p.LpFilterCutoff * 0.1
	s.lpFilterDeltaCutoff = 1 + p.LpFilterCutoffSweep*0.0001
	s.hpFilterCutoff = p.HpFilterCutoff * p.HpFilterCutoff * 0.1
	s.hpFilterDeltaCutoff = 1 + p.HpFilterCutoffSweep*0.0003

	s.lpFilterDamping = 5 / (1 + p.LpFilterResonance*p.LpFilterResonance*20) * (0.01 + s.lpFilterCutoff)
	if s.lpFilterDamping > 0.8 {
		s.lpFilterDamping = 0.8
	}
	s.lpFilterDamping = 1 - s.lpFilterDamping

	s.lpFilterPos = 0
	s.lpFilterDeltaPos = 0
	s.lpFilterOldPos = 0
	s.hpFilterPos = 0

	s.vibratoAmplitude = p.VibratoDepth / 2
	s.vibratoSpeed = p.VibratoSpeed * p.VibratoSpeed * 0.01
	s.sustainPunch = p.SustainPunch
	s.masterVolume = p.MasterVolume * p.MasterVolume
	s.minFrequency = p.MinFrequency

	for i := range s.phaserBuffer {
		s.phaserBuffer[i] = 0
	}
	for i := range s.noiseBuffer {
		s.noiseBuffer[i] = s.rand.Random()*2 - 1
	}
}

// Render synthesizes up to maxLength samples into buffer and returns the
// number written. It stops early the moment the engine finishes, either by
// crossing the decay stage or by sliding below the minimum frequency.
func (s *Synth) Render(buffer []int16, maxLength int) int {
	if maxLength > len(buffer) {
		maxLength = len(buffer)
	}

	waveType := s.Params.WaveType

	for i := 0; i < maxLength; i++ {
		if s.finished {
			return i
		}

		// Retrigger: periodically rerun Reset, restarting pitch, duty and
		// slide while the envelope keeps going.
		if s.repeatLimit != 0 {
			s.repeatTime++
			if s.repeatTime >= s.repeatLimit {
				s.repeatTime = 0
				s.Reset()
			}
		}

		// One-shot pitch change.
		if s.changeLimit != 0 {
			s.changeTime++
			if s.changeTime >= s.changeLimit {
				s.changeLimit = 0
				s.period *= s.changeAmount
			}
		}

		// Frequency slide; the factor compounds every sample.
		s.slide += s.deltaSlide
		s.period *= s.slide

		if s.period > s.maxPeriod {
			s.period = s.maxPeriod
			if s.minFrequency > 0 {
				s.finished = true
			}
		}

		periodTemp := s.period

		if s.vibratoAmplitude > 0 {
			s.vibratoPhase += s.vibratoSpeed
			periodTemp *= 1 + math.Sin(s.vibratoPhase)*s.vibratoAmplitude
		}

		// Integer period with a floor of 8 samples.
		periodTempInt := int(periodTemp)
		if periodTempInt < 8 {
			periodTempInt = 8
		}
		periodTemp = float64(periodTempInt)

		if waveType == WaveSquare {
			s.squareDuty += s.dutySweep
			if s.squareDuty < 0 {
				s.squareDuty = 0
			}
			if s.squareDuty > 0.5 {
				s.squareDuty = 0.5
			}
		}

		// Envelope stage machine: Attack -> Sustain -> Decay -> Finished.
		s.envelopeTime++
		if s.envelopeTime > s.envelopeLength {
			s.envelopeTime = 0
			s.envelopeStage = s.envelopeStage.next()

			switch s.envelopeStage {
			case stageSustain:
				s.envelopeLength = s.envelopeLength1
			case stageDecay:
				s.envelopeLength = s.envelopeLength2
			}
		}

		var envelopeVolume float64
		switch s.envelopeStage {
		case stageAttack:
			envelopeVolume = s.envelopeTime * s.envelopeOverLength0
		case stageSustain:
			envelopeVolume = 1 + (1-s.envelopeTime*s.envelopeOverLength1)*2*s.sustainPunch
		case stageDecay:
			envelopeVolume = 1 - s.envelopeTime*s.envelopeOverLength2
		case stageFinished:
			envelopeVolume = 0
			s.finished = true
		}

		if s.phaserEnabled {
			s.phaserOffset += s.phaserDeltaOffset
			s.phaserInt = int(math.Abs(s.phaserOffset))
			if s.phaserInt > 1023 {
				s.phaserInt = 1023
			}
		}

		if s.filtersEnabled && s.hpFilterDeltaCutoff != 1 {
			s.hpFilterCutoff *= s.hpFilterDeltaCutoff
			if s.hpFilterCutoff < 0.00001 {
				s.hpFilterCutoff = 0.00001
			}
			if s.hpFilterCutoff > 0.1 {
				s.hpFilterCutoff = 0.1
			}
		}

		// 8x oversampling.
		superSample := 0.0

		for j := 0; j < 8; j++ {
			s.phase++
			if s.phase >= periodTemp {
				s.phase = math.Mod(s.phase, periodTemp)

				if waveType == WaveNoise {
					for n := range s.noiseBuffer {
						s.noiseBuffer[n] = s.rand.Random()*2 - 1
					}
				}
			}

			var sample float64
			switch waveType {
			case WaveSquare:
				if s.phase/periodTemp < s.squareDuty {
					sample = 0.5
				} else {
					sample = -0.5
				}
			case WaveSawtooth:
				sample = 1 - (s.phase/periodTemp)*2
			case WaveSine:
				// Polynomial sine approximation. The exact two-step formula
				// defines the instrument's timbre; a library sin would
				// change the rendered bytes.
				pos := s.phase / periodTemp
				if pos > 0.5 {
					pos = (pos - 1) * 6.28318531
				} else {
					pos = pos * 6.28318531
				}
				if pos < 0 {
					sample = 1.27323954*pos + 0.405284735*pos*pos
				} else {
					sample = 1.27323954*pos - 0.405284735*pos*pos
				}
				if sample < 0 {
					sample = 0.225*(sample*-sample-sample) + sample
				} else {
					sample = 0.225*(sample*sample-sample) + sample
				}
			case WaveNoise:
				idx := int(math.Abs(s.phase*32/periodTemp)) % 32
				sample = s.noiseBuffer[idx]
			}

			if s.filtersEnabled {
				s.lpFilterOldPos = s.lpFilterPos
				s.lpFilterCutoff *= s.lpFilterDeltaCutoff
				if s.lpFilterCutoff < 0 {
					s.lpFilterCutoff = 0
				}
				if s.lpFilterCutoff > 0.1 {
					s.lpFilterCutoff = 0.1
				}

				if s.lpFilterOn {
					s.lpFilterDeltaPos += (sample - s.lpFilterPos) * s.lpFilterCutoff
					s.lpFilterDeltaPos *= s.lpFilterDamping
				} else {
					s.lpFilterPos = sample
					s.lpFilterDeltaPos = 0
				}

				s.lpFilterPos += s.lpFilterDeltaPos

				s.hpFilterPos += s.lpFilterPos - s.lpFilterOldPos
				s.hpFilterPos *= 1 - s.hpFilterCutoff
				sample = s.hpFilterPos
			}

			// Comb filtering against the delayed copy of the signal.
			if s.phaserEnabled {
				s.phaserBuffer[s.phaserPos&1023] = sample
				sample += s.phaserBuffer[(s.phaserPos-s.phaserInt+1024)&1023]
				s.phaserPos++
			}

			superSample += sample
		}

		superSample *= 0.125 * envelopeVolume * s.masterVolume

		// Quantize to signed 16-bit PCM with hard clipping.
		if superSample >= 1 {
			buffer[i] = 32767
		} else if superSample <= -1 {
			buffer[i] = -32768
		} else {
			buffer[i] = int16(superSample * 32767)
		}
	}

	return maxLength
}
