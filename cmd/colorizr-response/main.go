package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"

	"github.com/cozy-dsp/scale-colorizr/colorizr"
	"github.com/cozy-dsp/scale-colorizr/preset"
)

// colorizr-response prints the composite magnitude response of the filter
// bank a single held note produces, as CSV on stdout.
func main() {
	note := flag.Int("note", 69, "MIDI note number (69 = A4)")
	velocity := flag.Float64("velocity", 1.0, "Note velocity (0..1)")
	presetPath := flag.String("preset", "", "Preset JSON file path (optional)")
	sampleRate := flag.Int("sample-rate", 48000, "Sample rate in Hz")
	points := flag.Int("points", 256, "Number of log-spaced frequency points")
	minFreq := flag.Float64("min-freq", 20, "Lowest frequency in Hz")
	maxFreq := flag.Float64("max-freq", 20000, "Highest frequency in Hz")
	flag.Parse()

	if *note < 0 || *note > 127 {
		fmt.Fprintf(os.Stderr, "Error: -note must be in 0..127\n")
		os.Exit(1)
	}
	if *points < 2 || *minFreq <= 0 || *maxFreq <= *minFreq {
		fmt.Fprintf(os.Stderr, "Error: invalid frequency sweep\n")
		os.Exit(1)
	}

	params := colorizr.NewDefaultParams()
	if *presetPath != "" {
		p, err := preset.LoadJSON(*presetPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading preset %q: %v\n", *presetPath, err)
			os.Exit(1)
		}
		params = p
	}

	engine := colorizr.NewEngine(*sampleRate, params)
	display := engine.Display()
	display.Attach()
	defer display.Detach()

	// Run the engine on silence until the attack and gain ramps settle, so
	// the published coefficients reflect the steady-state band gains.
	events := []colorizr.NoteEvent{{
		Kind:     colorizr.EventNoteOn,
		Note:     uint8(*note),
		Velocity: float32(*velocity),
	}}
	blockSize := 128
	left := make([]float32, blockSize)
	right := make([]float32, blockSize)
	for rendered := 0; rendered < *sampleRate/2; rendered += blockSize {
		for i := range left {
			left[i] = 0
			right[i] = 0
		}
		engine.Process(left, right, events)
		events = nil
	}

	coeffs := bankCoefficients(display)
	if len(coeffs) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no active filter bands\n")
		os.Exit(1)
	}
	chain := biquad.NewChain(coeffs)

	fmt.Printf("frequency_hz,magnitude_db\n")
	ratio := math.Log(*maxFreq / *minFreq)
	for i := 0; i < *points; i++ {
		f := *minFreq * math.Exp(ratio*float64(i)/float64(*points-1))
		fmt.Printf("%.4f,%.6f\n", f, chain.MagnitudeDB(f, float64(*sampleRate)))
	}
}

// bankCoefficients collects the published band coefficients of the first
// active voice slot.
func bankCoefficients(d *colorizr.DisplayBridge) []biquad.Coefficients {
	for slot := 0; slot < colorizr.MaxVoices; slot++ {
		if !d.SlotActive(slot) {
			continue
		}
		var coeffs []biquad.Coefficients
		for band := 0; band < colorizr.NumFilters; band++ {
			if c, ok := d.Coefficients(slot, band); ok {
				coeffs = append(coeffs, c)
			}
		}
		return coeffs
	}
	return nil
}
