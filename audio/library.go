package audio

// Library is the built-in bank of classic effects. IDs are positions in the
// slice.
var Library = []*SoundEffect{
	NewSoundEffect(0, "Laser", "Weapon", "Short descending zap",
		"0,,.18,.12,.21,.69,.04,-.32,,,,,,.25,.09,,,,1,,,.08,,.5"),
	NewSoundEffect(1, "Explosion", "Impact", "Noise burst with long tail",
		"3,,.31,.35,.44,.08,,.01,,,,-.45,.62,,,,,,1,,,,,.6"),
	NewSoundEffect(2, "Pickup", "Pickup", "Two-tone coin chime",
		"0,,.08,.42,.27,.56,,,,,,.57,.02,,,,,,1,,,,,.5"),
	NewSoundEffect(3, "Jump", "Movement", "Rising square blip",
		"0,,.24,,.22,.44,,.23,,,,,,.38,,,,,1,,,.12,,.45"),
	NewSoundEffect(4, "Hurt", "Impact", "Harsh falling noise hit",
		"3,,.11,,.26,.42,,-.29,,,,,,,,,,,1,,,.05,,.5"),
	NewSoundEffect(5, "Blip", "UI", "Menu select tick",
		"0,,.04,,.1,.49,,,,,,,,.28,,,,,1,,,.1,,.4"),
	NewSoundEffect(6, "Powerup", "Pickup", "Sawtooth rise with vibrato",
		"1,,.29,,.41,.52,,.22,,.45,.41,,,,,,,,1,,,,,.5"),
	NewSoundEffect(7, "Alarm", "UI", "Repeating phased siren",
		"1,.08,.58,.15,.25,.34,,,.14,,,-.82,.31,,-.35,.17,.22,.11,.9,-.11,.55,,,.55"),
}

// Effect returns a library effect by ID, or nil when out of range.
func Effect(id int) *SoundEffect {
	if id < 0 || id >= len(Library) {
		return nil
	}
	return Library[id]
}

// EffectsByCategory returns the library effects in a category.
func EffectsByCategory(category string) []*SoundEffect {
	var result []*SoundEffect
	for _, sfx := range Library {
		if sfx.Category == category {
			result = append(result, sfx)
		}
	}
	return result
}
