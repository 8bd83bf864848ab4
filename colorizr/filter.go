package colorizr

import (
	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design"
)

// FilterMode selects the response applied uniformly to every band of a voice.
type FilterMode uint8

const (
	// FilterModePeak boosts a narrow band around each harmonic.
	FilterModePeak FilterMode = iota
	// FilterModeNotch cuts a narrow band around each harmonic.
	FilterModeNotch
)

var identityCoefficients = biquad.Coefficients{B0: 1}

// FilterUnit is one two-pole band of a voice's filter bank: a stereo pair of
// transposed direct-form II sections sharing a single prenormalized
// coefficient set. Configure swaps coefficients without touching the
// feedback state, so parameter sweeps stay click-free; Reset clears state
// when a slot is reused for an unrelated note.
type FilterUnit struct {
	left      biquad.Section
	right     biquad.Section
	frequency float32 // last configured center frequency, 0 when untuned
}

// Identity installs pass-through coefficients and marks the band untuned.
// Filter state is left alone.
func (u *FilterUnit) Identity() {
	u.left.Coefficients = identityCoefficients
	u.right.Coefficients = identityCoefficients
	u.frequency = 0
}

// Configure recomputes the band's coefficients for the given specification.
// The caller guarantees 0 < frequency < sampleRate/2 (the engine's Nyquist
// guard enforces this upstream). gainDB is ignored in notch mode.
func (u *FilterUnit) Configure(sampleRate, frequency, q, gainDB float64, mode FilterMode) {
	var c biquad.Coefficients
	switch mode {
	case FilterModeNotch:
		c = design.Notch(frequency, q, sampleRate)
	default:
		c = design.Peak(frequency, gainDB, q, sampleRate)
	}
	u.left.Coefficients = c
	u.right.Coefficients = c
	u.frequency = float32(frequency)
}

// ProcessStereo filters one stereo frame and advances the feedback state.
func (u *FilterUnit) ProcessStereo(l, r float64) (float64, float64) {
	return u.left.ProcessSample(l), u.right.ProcessSample(r)
}

// Reset zeroes the feedback state of both channels, keeping coefficients.
func (u *FilterUnit) Reset() {
	u.left.Reset()
	u.right.Reset()
}

// Frequency returns the last configured center frequency, or 0 if the band
// has not been tuned since Identity.
func (u *FilterUnit) Frequency() float32 { return u.frequency }

// Configured reports whether the band has been tuned since Identity.
func (u *FilterUnit) Configured() bool { return u.frequency > 0 }

// Coefficients returns the band's current coefficient set.
func (u *FilterUnit) Coefficients() biquad.Coefficients { return u.left.Coefficients }
