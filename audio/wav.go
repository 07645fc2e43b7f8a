package audio

import "encoding/base64"

// WavHeaderSize is the fixed size of the canonical mono PCM header.
const WavHeaderSize = 44

// DataURIPrefix marks the media type of every rendered resource.
const DataURIPrefix = "data:audio/wav;base64,"

// EncodeWav wraps mono 16-bit samples in a canonical 44-byte RIFF/WAVE header
// with a little-endian payload.
func EncodeWav(samples []int16) []byte {
	dataSize := len(samples) * 2
	data := make([]byte, WavHeaderSize+dataSize)
	writeWavHeader(data, dataSize)

	for i, s := range samples {
		data[WavHeaderSize+i*2] = byte(s)
		data[WavHeaderSize+i*2+1] = byte(s >> 8)
	}
	return data
}

// DataURI base64-encodes a WAV byte sequence into the final playable form.
func DataURI(wav []byte) string {
	return DataURIPrefix + base64.StdEncoding.EncodeToString(wav)
}

// RenderPCM runs the full parameter pipeline and returns the produced
// samples, sized by TotalReset and truncated to what Render actually wrote.
func RenderPCM(p Params) []int16 {
	return renderPCM(NewSynth(), p)
}

func renderPCM(synth *Synth, p Params) []int16 {
	synth.Params = p
	length := synth.TotalReset()
	buffer := make([]int16, length)
	written := synth.Render(buffer, length)
	return buffer[:written]
}

// RenderWav renders the parameters into a complete WAV byte sequence.
func RenderWav(p Params) []byte {
	return EncodeWav(RenderPCM(p))
}

// RenderDataURI generates a sound effect from a settings string and returns
// it as a data URI, the one-call pipeline for external consumers.
func RenderDataURI(settings string) string {
	var p Params
	p.ParseSettingsString(settings)
	return DataURI(RenderWav(p))
}

// writeWavHeader writes the fixed mono/16-bit/44100 Hz PCM header.
func writeWavHeader(data []byte, dataSize int) {
	data[0] = 'R'
	data[1] = 'I'
	data[2] = 'F'
	data[3] = 'F'
	writeUint32LE(data, 4, uint32(dataSize+36))
	data[8] = 'W'
	data[9] = 'A'
	data[10] = 'V'
	data[11] = 'E'

	data[12] = 'f'
	data[13] = 'm'
	data[14] = 't'
	data[15] = ' '
	writeUint32LE(data, 16, 16)             // Sub-chunk size
	writeUint16LE(data, 20, 1)              // Audio format (PCM)
	writeUint16LE(data, 22, 1)              // Channels (mono)
	writeUint32LE(data, 24, SampleRate)     // Sample rate
	writeUint32LE(data, 28, 2*SampleRate)   // Byte rate
	writeUint16LE(data, 32, 2)              // Block align
	writeUint16LE(data, 34, 16)             // Bits per sample

	data[36] = 'd'
	data[37] = 'a'
	data[38] = 't'
	data[39] = 'a'
	writeUint32LE(data, 40, uint32(dataSize))
}

func writeUint16LE(data []byte, offset int, value uint16) {
	data[offset] = byte(value)
	data[offset+1] = byte(value >> 8)
}

func writeUint32LE(data []byte, offset int, value uint32) {
	data[offset] = byte(value)
	data[offset+1] = byte(value >> 8)
	data[offset+2] = byte(value >> 16)
	data[offset+3] = byte(value >> 24)
}
