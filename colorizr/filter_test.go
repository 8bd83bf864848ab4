package colorizr

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-dsp/dsp/spectrum"
	algofft "github.com/cwbudde/algo-fft"
)

func TestFilterUnitIdentityPassThrough(t *testing.T) {
	var u FilterUnit
	u.Identity()

	for i := 0; i < 64; i++ {
		in := math.Sin(float64(i) * 0.37)
		l, r := u.ProcessStereo(in, -in)
		if l != in || r != -in {
			t.Fatalf("identity filter altered sample %d: got (%g, %g) want (%g, %g)", i, l, r, in, -in)
		}
	}
	if u.Configured() {
		t.Fatalf("identity unit must not report as configured")
	}
}

func TestFilterUnitConfigureDoesNotTouchState(t *testing.T) {
	var u FilterUnit
	u.Identity()
	u.Configure(48000, 1000, 2, 6, FilterModePeak)

	for i := 0; i < 32; i++ {
		u.ProcessStereo(math.Sin(float64(i)*0.1), math.Cos(float64(i)*0.1))
	}
	stateL := u.left.State()
	stateR := u.right.State()

	// Reconfiguring, with identical or different parameters, must leave the
	// feedback registers alone so sweeps stay click-free.
	u.Configure(48000, 1000, 2, 6, FilterModePeak)
	u.Configure(48000, 2000, 4, 12, FilterModePeak)
	u.Configure(48000, 500, 1, 0, FilterModeNotch)

	if u.left.State() != stateL || u.right.State() != stateR {
		t.Fatalf("Configure mutated filter state: left %v -> %v, right %v -> %v",
			stateL, u.left.State(), stateR, u.right.State())
	}
}

func TestFilterUnitResetClearsState(t *testing.T) {
	var u FilterUnit
	u.Identity()
	u.Configure(48000, 440, 10, 12, FilterModePeak)
	for i := 0; i < 16; i++ {
		u.ProcessStereo(1, 1)
	}
	u.Reset()
	if u.left.State() != [2]float64{} || u.right.State() != [2]float64{} {
		t.Fatalf("Reset left residual state: left %v right %v", u.left.State(), u.right.State())
	}
}

func TestFilterUnitPeakBoostsCenter(t *testing.T) {
	const sampleRate = 48000
	const center = 1000.0
	left, _ := sineStereo(center, sampleRate, 8192)
	in := toFloat64(left)

	var u FilterUnit
	u.Identity()
	u.Configure(sampleRate, center, 10, 24, FilterModePeak)
	out := make([]float64, len(in))
	for i, x := range in {
		out[i], _ = u.ProcessStereo(x, x)
	}

	// Skip the transient, then compare power at the center frequency.
	dryPow, err := spectrum.AnalyzeBlock(in[2048:], center, sampleRate)
	if err != nil {
		t.Fatalf("goertzel on dry signal: %v", err)
	}
	wetPow, err := spectrum.AnalyzeBlock(out[2048:], center, sampleRate)
	if err != nil {
		t.Fatalf("goertzel on wet signal: %v", err)
	}
	gainDB := 10 * math.Log10(wetPow/dryPow)
	if gainDB < 18 {
		t.Fatalf("expected ca. 24 dB boost at center, measured %.1f dB", gainDB)
	}
}

func TestFilterUnitNotchCutsCenter(t *testing.T) {
	const sampleRate = 48000
	const center = 1000.0
	left, _ := sineStereo(center, sampleRate, 8192)
	in := toFloat64(left)

	var u FilterUnit
	u.Identity()
	u.Configure(sampleRate, center, 4, 0, FilterModeNotch)
	out := make([]float64, len(in))
	for i, x := range in {
		out[i], _ = u.ProcessStereo(x, x)
	}

	dryPow, err := spectrum.AnalyzeBlock(in[4096:], center, sampleRate)
	if err != nil {
		t.Fatalf("goertzel on dry signal: %v", err)
	}
	wetPow, err := spectrum.AnalyzeBlock(out[4096:], center, sampleRate)
	if err != nil {
		t.Fatalf("goertzel on wet signal: %v", err)
	}
	if wetPow > dryPow*0.05 {
		t.Fatalf("expected notch to cut center frequency: dry=%g wet=%g", dryPow, wetPow)
	}
}

// The unit is linear and time-invariant between reconfigurations, so running
// a signal through it must match convolution with its impulse response.
func TestFilterUnitMatchesImpulseResponseConvolution(t *testing.T) {
	const sampleRate = 48000
	const irLen = 1024
	const sigLen = 64

	configure := func(u *FilterUnit) {
		u.Identity()
		u.Configure(sampleRate, 2000, 0.7, 6, FilterModePeak)
	}

	var irUnit FilterUnit
	configure(&irUnit)
	ir := make([]float32, irLen)
	for i := range ir {
		x := 0.0
		if i == 0 {
			x = 1.0
		}
		y, _ := irUnit.ProcessStereo(x, x)
		ir[i] = float32(y)
	}

	signal := make([]float32, sigLen)
	for i := range signal {
		signal[i] = float32(math.Sin(float64(i) * 0.21))
	}

	conv := make([]float32, len(signal)+len(ir)-1)
	if err := algofft.ConvolveReal(conv, signal, ir); err != nil {
		t.Fatalf("ConvolveReal error: %v", err)
	}

	var direct FilterUnit
	configure(&direct)
	for i, x := range signal {
		y, _ := direct.ProcessStereo(float64(x), float64(x))
		if math.Abs(float64(conv[i])-y) > 1e-3 {
			t.Fatalf("convolution mismatch at %d: conv=%g direct=%g", i, conv[i], y)
		}
	}
}
