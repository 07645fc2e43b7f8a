package audio

// WaveTypeName returns the display name for a wave type value.
func WaveTypeName(waveType int) string {
	switch waveType {
	case WaveSquare:
		return "Square"
	case WaveSawtooth:
		return "Sawtooth"
	case WaveSine:
		return "Sine"
	case WaveNoise:
		return "Noise"
	default:
		return "Unknown"
	}
}

// SoundEffect is a named, categorized sound definition.
type SoundEffect struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"` // Weapon, Impact, Pickup, UI, ...
	Description string `json:"description,omitempty"`

	Params Params `json:"params"`
}

// NewSoundEffect builds a SoundEffect from a settings string.
func NewSoundEffect(id int, name, category, desc, settings string) *SoundEffect {
	sfx := &SoundEffect{
		ID:          id,
		Name:        name,
		Category:    category,
		Description: desc,
	}
	sfx.Params.ParseSettingsString(settings)
	return sfx
}

// SettingsString serializes the effect's parameters in the compact
// comma-separated notation.
func (s *SoundEffect) SettingsString() string {
	return s.Params.SettingsString()
}

// WaveName returns the display name of the effect's oscillator.
func (s *SoundEffect) WaveName() string {
	return WaveTypeName(s.Params.WaveType)
}

// Render produces the effect's playable data URI.
func (s *SoundEffect) Render() string {
	return DataURI(RenderWav(s.Params))
}
