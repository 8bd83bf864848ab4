package colorizr

import "github.com/cwbudde/algo-approx"

// midiNoteToFreq converts a (possibly fractional) MIDI note number to Hz.
func midiNoteToFreq(note float32) float32 {
	const a4Freq = 440.0
	const a4Note = 69.0
	return a4Freq * pow2Approx((note-a4Note)/12.0)
}

// pow2Approx computes 2^x via the identity 2^x = e^(x*ln 2).
func pow2Approx(x float32) float32 {
	const ln2 = 0.69314718055994530942
	return approx.FastExp(x * ln2)
}
