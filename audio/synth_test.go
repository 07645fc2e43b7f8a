package audio

import (
	"math"
	"testing"

	"github.com/jannev/chipfx/common"
)

func renderSettings(t *testing.T, settings string) ([]int16, int) {
	t.Helper()
	synth := NewSynthWithRand(common.NewSeededRNG(12345))
	synth.Params.ParseSettingsString(settings)

	length := synth.TotalReset()
	buffer := make([]int16, length)
	written := synth.Render(buffer, length)
	return buffer, written
}

func TestSynth_TotalReset_LengthMultipleOfThree(t *testing.T) {
	settings := []string{
		"0,0,.3,0,.4,.5,0,0,0,0,0,0,0,0,0,0,0,0,1,0,0,0,0,.5",
		"3,.0704,.0462,.3388,.4099,.1599,,.0109,-.3247,.0006,,-.1592,.4477,.1028,.1787,,-.0157,-.3372,.1896,.1628,,.0016,-.0003,.5",
		"1,,.0398,,.4198,.3891,,.4383,,,,,,,,.616,,,1,,,,,.5",
		"2,,,,,,,,,,,,,,,,,,,,,,,",
	}

	for _, s := range settings {
		synth := NewSynth()
		synth.Params.ParseSettingsString(s)

		length := synth.TotalReset()
		if length < 0 {
			t.Errorf("settings %q: negative length %d", s, length)
		}
		if length%3 != 0 {
			t.Errorf("settings %q: length %d not a multiple of 3", s, length)
		}
	}
}

func TestSynth_Render_NeverExceedsMax(t *testing.T) {
	synth := NewSynth()
	synth.Params.ParseSettingsString("0,0,.3,0,.4,.5,0,0,0,0,0,0,0,.5,0,0,0,0,1,0,0,0,0,.5")
	length := synth.TotalReset()

	buffer := make([]int16, length)
	written := synth.Render(buffer, 100)

	if written > 100 {
		t.Errorf("Render wrote %d samples, max was 100", written)
	}

	// Samples beyond the maximum must be untouched.
	for i := 100; i < length; i++ {
		if buffer[i] != 0 {
			t.Errorf("sample %d written beyond max", i)
			break
		}
	}
}

func TestSynth_Render_ProducesSamples(t *testing.T) {
	buffer, written := renderSettings(t, "0,0,.3,0,.4,.5,0,0,0,0,0,0,0,.5,0,0,0,0,1,0,0,0,0,.5")

	if written <= 0 {
		t.Fatalf("Render should write samples, wrote %d", written)
	}

	hasNonZero := false
	for i := 0; i < written; i++ {
		if buffer[i] != 0 {
			hasNonZero = true
			break
		}
	}
	if !hasNonZero {
		t.Error("Render should produce non-zero samples")
	}
}

func TestSynth_WaveTypes(t *testing.T) {
	tests := []struct {
		name     string
		waveType int
		settings string
	}{
		{"Square", WaveSquare, "0,0,.3,0,.4,.5,0,0,0,0,0,0,0,.5,0,0,0,0,1,0,0,0,0,.5"},
		{"Sawtooth", WaveSawtooth, "1,0,.3,0,.4,.5,0,0,0,0,0,0,0,0,0,0,0,0,1,0,0,0,0,.5"},
		{"Sine", WaveSine, "2,0,.3,0,.4,.5,0,0,0,0,0,0,0,0,0,0,0,0,1,0,0,0,0,.5"},
		{"Noise", WaveNoise, "3,0,.3,0,.4,.5,0,0,0,0,0,0,0,0,0,0,0,0,1,0,0,0,0,.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synth := NewSynthWithRand(common.NewSeededRNG(12345))
			synth.Params.ParseSettingsString(tt.settings)

			if synth.Params.WaveType != tt.waveType {
				t.Fatalf("WaveType: expected %d, got %d", tt.waveType, synth.Params.WaveType)
			}

			length := synth.TotalReset()
			buffer := make([]int16, length)
			written := synth.Render(buffer, length)

			if written <= 0 {
				t.Errorf("%s wave should produce samples", tt.name)
			}
		})
	}
}

func TestSynth_SpecExampleEnvelope(t *testing.T) {
	// Square wave, attack 0, sustain .3, decay .2, start frequency .5,
	// master volume 1, min frequency 0: fills the full pre-computed length
	// with no early termination.
	synth := NewSynth()
	synth.Params = Normalize([]float64{0, 0, 0.3, 0, 0.2, 0.5, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1})

	length := synth.TotalReset()
	if length <= 0 {
		t.Fatalf("expected positive length, got %d", length)
	}
	if length%3 != 0 {
		t.Fatalf("length %d not a multiple of 3", length)
	}

	buffer := make([]int16, length)
	written := synth.Render(buffer, length)

	if written != length {
		t.Errorf("expected render to fill all %d samples, wrote %d", length, written)
	}
}

func TestSynth_MinFrequencyCutoffStopsEarly(t *testing.T) {
	// Downward slide with a configured minimum frequency: the pitch hits the
	// period ceiling and the render terminates before the envelope does.
	synth := NewSynth()
	synth.Params.ParseSettingsString("0,0,.3,0,.4,.4,.5,-.3,0,0,0,0,0,0,0,0,0,0,1,0,0,0,0,.5")

	length := synth.TotalReset()
	buffer := make([]int16, length)
	written := synth.Render(buffer, length)

	if written >= length {
		t.Errorf("expected early termination, wrote all %d samples", written)
	}
	if written < 1 {
		t.Errorf("expected at least one sample before cutoff, wrote %d", written)
	}
}

func TestSynth_SquareWavePeriodicity(t *testing.T) {
	// Filters, phaser, vibrato and sweeps disabled: the square output must
	// be exactly periodic during sustain. Start frequency .5 gives an
	// integer period of 398 phase steps; with 8x oversampling the sample
	// sequence repeats every 199 output samples (4 full cycles).
	synth := NewSynth()
	synth.Params = Normalize([]float64{0, 0, 0.3, 0, 0.2, 0.5, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1})

	length := synth.TotalReset()
	buffer := make([]int16, length)
	synth.Render(buffer, length)

	const stride = 199
	for i := 200; i < 4000; i++ {
		if buffer[i] != buffer[i+stride] {
			t.Fatalf("sample %d (%d) differs from sample %d (%d); square wave not periodic",
				i, buffer[i], i+stride, buffer[i+stride])
		}
	}

	// The waveform actually alternates between positive and negative levels.
	hasHigh, hasLow := false, false
	for i := 200; i < 4000; i++ {
		if buffer[i] > 8000 {
			hasHigh = true
		}
		if buffer[i] < -8000 {
			hasLow = true
		}
	}
	if !hasHigh || !hasLow {
		t.Error("square wave should alternate between two amplitude levels")
	}
}

func TestSynth_DeterministicWithoutNoise(t *testing.T) {
	settings := []string{
		"0,0,.3,0,.4,.5,0,0,0,.3,.5,0,0,.5,.1,0,0,0,1,0,0,0,0,.5",
		"1,.071,.3474,.0506,.1485,.5799,.2,-.2184,-.1405,.1681,,-.1426,,.9603,-.0961,,.2791,-.8322,.2832,.0009,,.0088,-.0082,.3",
		"2,,.98,.4699,.07,.7799,.0399,-.28,-.4799,.2399,.1,,.36,.1314,.0517,,.0154,-.1633,1,,.37,.0399,.54,.1",
	}

	for _, s := range settings {
		synth1 := NewSynth()
		synth1.Params.ParseSettingsString(s)
		length1 := synth1.TotalReset()
		buffer1 := make([]int16, length1)
		written1 := synth1.Render(buffer1, length1)

		synth2 := NewSynth()
		synth2.Params.ParseSettingsString(s)
		length2 := synth2.TotalReset()
		buffer2 := make([]int16, length2)
		written2 := synth2.Render(buffer2, length2)

		if length1 != length2 || written1 != written2 {
			t.Fatalf("settings %q: lengths differ (%d/%d vs %d/%d)", s, length1, written1, length2, written2)
		}
		for i := 0; i < written1; i++ {
			if buffer1[i] != buffer2[i] {
				t.Fatalf("settings %q: sample %d differs: %d vs %d", s, i, buffer1[i], buffer2[i])
			}
		}
	}
}

func TestSynth_NoiseDeterministicWithSeededRand(t *testing.T) {
	settings := "3,0,.3,0,.3,.5,0,0,0,0,0,0,0,0,0,0,0,0,1,0,0,0,0,.5"

	buffer1, written1 := renderSettings(t, settings)
	buffer2, written2 := renderSettings(t, settings)

	if written1 != written2 {
		t.Fatalf("written counts differ: %d vs %d", written1, written2)
	}
	for i := 0; i < written1; i++ {
		if buffer1[i] != buffer2[i] {
			t.Fatalf("sample %d differs: %d vs %d", i, buffer1[i], buffer2[i])
		}
	}
}

func TestSynth_Envelope_AttackRampsUp(t *testing.T) {
	// Long attack: RMS over an early window is lower than mid-attack.
	buffer, written := renderSettings(t, "0,.5,.2,0,.2,.5,0,0,0,0,0,0,0,.5,0,0,0,0,1,0,0,0,0,.5")
	if written < 8000 {
		t.Fatalf("attack render too short: %d", written)
	}

	earlyRMS := calculateRMS(buffer[:1000])
	midRMS := calculateRMS(buffer[6000:8000])

	if midRMS <= earlyRMS {
		t.Errorf("attack should ramp volume up: early RMS %f, mid RMS %f", earlyRMS, midRMS)
	}
}

func TestSynth_SustainPunchBoostsOnset(t *testing.T) {
	plain, _ := renderSettings(t, "0,0,.4,0,.3,.5,0,0,0,0,0,0,0,0,0,0,0,0,1,0,0,0,0,.5")
	punched, _ := renderSettings(t, "0,0,.4,.8,.3,.5,0,0,0,0,0,0,0,0,0,0,0,0,1,0,0,0,0,.5")

	plainRMS := calculateRMS(plain[:2000])
	punchedRMS := calculateRMS(punched[:2000])

	if punchedRMS <= plainRMS {
		t.Errorf("sustain punch should boost the onset: plain %f, punched %f", plainRMS, punchedRMS)
	}
}

func TestSynth_LowPassSmoothsNoise(t *testing.T) {
	raw, writtenRaw := renderSettings(t, "3,0,.3,0,.3,.5,0,0,0,0,0,0,0,0,0,0,0,0,1,0,0,0,0,.5")
	filtered, writtenFiltered := renderSettings(t, "3,0,.3,0,.3,.5,0,0,0,0,0,0,0,0,0,0,0,0,.2,0,0,0,0,.5")

	varianceRaw := sampleToSampleVariance(raw[:writtenRaw])
	varianceFiltered := sampleToSampleVariance(filtered[:writtenFiltered])

	if varianceFiltered >= varianceRaw {
		t.Errorf("low-pass filter should smooth noise: raw %f, filtered %f", varianceRaw, varianceFiltered)
	}
}

func TestSynth_EffectsProduceSamples(t *testing.T) {
	tests := []struct {
		name     string
		settings string
	}{
		{"Phaser", "0,0,.3,0,.4,.5,0,0,0,0,0,0,0,.5,0,0,.5,.1,1,0,0,0,0,.5"},
		{"Vibrato", "0,0,.3,0,.4,.5,0,0,0,.3,.5,0,0,.5,0,0,0,0,1,0,0,0,0,.5"},
		{"Repeat", "0,0,.3,0,.4,.5,0,0,0,0,0,0,0,.5,0,.3,0,0,1,0,0,0,0,.5"},
		{"PitchChange", "0,0,.3,0,.4,.5,0,0,0,0,0,.6,.5,.5,0,0,0,0,1,0,0,0,0,.5"},
		{"DutySweep", "0,0,.3,0,.4,.5,0,0,0,0,0,0,0,.3,.2,0,0,0,1,0,0,0,0,.5"},
		{"HighPass", "1,0,.3,0,.4,.5,0,0,0,0,0,0,0,0,0,0,0,0,1,0,0,.3,.1,.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, written := renderSettings(t, tt.settings)
			if written <= 0 {
				t.Errorf("%s should produce samples", tt.name)
			}
		})
	}
}

func TestRenderPCM_LibraryEffects(t *testing.T) {
	for _, sfx := range Library {
		samples := RenderPCM(sfx.Params)
		if len(samples) == 0 {
			t.Errorf("library effect %q rendered no samples", sfx.Name)
		}

		durationMs := float64(len(samples)) / float64(SampleRate) * 1000
		if durationMs > 5000 {
			t.Errorf("library effect %q is suspiciously long: %.0f ms", sfx.Name, durationMs)
		}
	}
}

func calculateRMS(samples []int16) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(samples)))
}

func sampleToSampleVariance(samples []int16) float64 {
	if len(samples) < 2 {
		return 0
	}
	diffSum := 0.0
	for i := 1; i < len(samples); i++ {
		diff := float64(samples[i]) - float64(samples[i-1])
		diffSum += diff * diff
	}
	return diffSum / float64(len(samples)-1)
}
