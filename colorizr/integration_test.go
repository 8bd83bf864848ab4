package colorizr

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-dsp/dsp/spectrum"
)

// goertzelTail measures the signal power at freq over the last tail samples,
// skipping the filter and smoother transients at the front of the buffer.
func goertzelTail(t *testing.T, samples []float32, tail int, freq, sampleRate float64) float64 {
	t.Helper()
	mag, err := spectrum.AnalyzeBlock(toFloat64(samples[len(samples)-tail:]), freq, sampleRate)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	return mag
}

func TestPeakModeBoostsNoteHarmonics(t *testing.T) {
	const (
		sampleRate = 44100
		n          = 12288
		tail       = 4096
		harmonic   = 220.0 // second band of note 69 (fundamental 110 Hz)
	)

	e := NewEngine(sampleRate, nil)
	e.Params().SetAttackMs(0)

	left, right := sineStereo(harmonic, sampleRate, n)
	dry := goertzelTail(t, left, tail, harmonic, sampleRate)

	e.Process(left, right, []NoteEvent{noteOn(0, 69, 1)})
	wet := goertzelTail(t, left, tail, harmonic, sampleRate)

	if wet < dry*1.5 {
		t.Fatalf("harmonic not boosted: dry %g wet %g", dry, wet)
	}
}

func TestNotchModeCutsNoteHarmonics(t *testing.T) {
	const (
		sampleRate = 44100
		n          = 16384
		tail       = 4096
		harmonic   = 220.0
	)

	e := NewEngine(sampleRate, nil)
	e.Params().SetAttackMs(0)
	e.Params().SetMode(FilterModeNotch)

	left, right := sineStereo(harmonic, sampleRate, n)
	dry := goertzelTail(t, left, tail, harmonic, sampleRate)

	e.Process(left, right, []NoteEvent{noteOn(0, 69, 1)})
	wet := goertzelTail(t, left, tail, harmonic, sampleRate)

	if wet > dry*0.5 {
		t.Fatalf("harmonic not cut: dry %g wet %g", dry, wet)
	}
}

func TestOffHarmonicContentPassesThrough(t *testing.T) {
	const (
		sampleRate = 44100
		n          = 12288
		tail       = 4096
		probe      = 163.0 // between the first two bands of note 69
	)

	e := NewEngine(sampleRate, nil)
	e.Params().SetAttackMs(0)

	left, right := sineStereo(probe, sampleRate, n)
	dry := goertzelTail(t, left, tail, probe, sampleRate)

	e.Process(left, right, []NoteEvent{noteOn(0, 69, 1)})
	wet := goertzelTail(t, left, tail, probe, sampleRate)

	// The bands are narrow (Q 40), so content away from every harmonic
	// should be close to unity.
	if ratio := wet / dry; ratio < 0.8 || ratio > 1.3 {
		t.Fatalf("off-harmonic content altered: dry %g wet %g", dry, wet)
	}
}

func TestChordLifecycle(t *testing.T) {
	const (
		sampleRate = 48000
		chunk      = 512
	)

	e := NewEngine(sampleRate, nil)
	terms := collectTerminations(e)

	left, right := sineStereo(200, sampleRate, chunk)
	on := []NoteEvent{
		noteOn(0, 60, 0.9),
		noteOn(16, 64, 0.7),
		noteOn(32, 67, 0.5),
	}
	e.Process(left, right, on)
	if got := e.ActiveVoices(); got != 3 {
		t.Fatalf("active after chord = %d, want 3", got)
	}

	off := []NoteEvent{
		noteOff(0, 60),
		noteOff(0, 64),
		noteOff(0, 67),
	}
	left, right = sineStereo(200, sampleRate, chunk)
	e.Process(left, right, off)

	// Default release is 100 ms; drain well past it.
	for i := 0; i < 40 && e.ActiveVoices() > 0; i++ {
		left, right = sineStereo(200, sampleRate, chunk)
		e.Process(left, right, nil)
		for _, s := range left {
			if math.IsNaN(float64(s)) || math.IsInf(float64(s), 0) {
				t.Fatalf("non-finite output during release")
			}
		}
	}

	if got := e.ActiveVoices(); got != 0 {
		t.Fatalf("voices still active after release drain: %d", got)
	}
	if len(*terms) != 3 {
		t.Fatalf("terminations = %d, want 3", len(*terms))
	}
	seen := map[int32]bool{}
	for _, tm := range *terms {
		seen[tm.VoiceID] = true
	}
	for _, note := range []uint8{60, 64, 67} {
		if !seen[fallbackVoiceID(note, 0)] {
			t.Fatalf("missing termination for note %d", note)
		}
	}
}
