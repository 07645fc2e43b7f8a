//go:build js
// +build js

package main

import (
	"github.com/gopherjs/gopherjs/js"

	"github.com/jannev/chipfx/audio"
)

// main exposes the synthesizer to the browser. Sounds are rendered fully in
// Go and handed to the page as data URIs, which any Audio element accepts.
func main() {
	js.Global.Set("ChipFX", map[string]interface{}{
		"render": func(settings string) string {
			return audio.RenderDataURI(settings)
		},
		"play": func(settings string) {
			uri := audio.RenderDataURI(settings)
			element := js.Global.Get("Audio").New(uri)
			element.Call("play")
		},
		"preset": func(id int) string {
			sfx := audio.Effect(id)
			if sfx == nil {
				return ""
			}
			return sfx.SettingsString()
		},
		"presetCount": func() int {
			return len(audio.Library)
		},
	})
}
