package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/cozy-dsp/scale-colorizr/colorizr"
	"github.com/cozy-dsp/scale-colorizr/internal/wavio"
	"github.com/cozy-dsp/scale-colorizr/preset"
)

// scheduledEvent is a note event with a buffer-global sample offset.
type scheduledEvent struct {
	frame int
	event colorizr.NoteEvent
}

func main() {
	input := flag.String("input", "", "Input WAV file path (required)")
	output := flag.String("output", "output.wav", "Output WAV file path")
	presetPath := flag.String("preset", "", "Preset JSON file path (optional)")
	notes := flag.String("notes", "69@0:2", "Note schedule: note@start:dur[:vel], comma separated, times in seconds")
	sampleRate := flag.Int("sample-rate", 0, "Processing sample rate in Hz (0 = input rate)")
	delta := flag.Bool("delta", false, "Output only the difference between wet and dry signal")
	flag.Parse()

	if *input == "" {
		fmt.Fprintf(os.Stderr, "Error: -input is required\n")
		flag.Usage()
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
	if *delta {
		params.SetDelta(true)
	}

	left, right, inRate, err := wavio.ReadStereoWAV(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %q: %v\n", *input, err)
		os.Exit(1)
	}
	rate := inRate
	if *sampleRate > 0 {
		rate = *sampleRate
	}
	left, right, err = wavio.ResampleStereo(left, right, inRate, rate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resampling %d -> %d Hz: %v\n", inRate, rate, err)
		os.Exit(1)
	}

	schedule, err := parseSchedule(*notes, rate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -notes: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Processing %d frames at %d Hz with %d scheduled events...\n", len(left), rate, len(schedule))

	engine := colorizr.NewEngine(rate, params)

	blockSize := 128
	evIdx := 0
	scratch := make([]colorizr.NoteEvent, 0, len(schedule))
	for start := 0; start < len(left); start += blockSize {
		end := start + blockSize
		if end > len(left) {
			end = len(left)
		}
		scratch = scratch[:0]
		for evIdx < len(schedule) && schedule[evIdx].frame < end {
			ev := schedule[evIdx].event
			ev.Offset = schedule[evIdx].frame - start
			scratch = append(scratch, ev)
			evIdx++
		}
		engine.Process(left[start:end], right[start:end], scratch)
	}

	if err := wavio.WriteStereoWAV(*output, left, right, rate); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", *output, err)
		os.Exit(1)
	}
	fmt.Printf("Peak level %.2f dBFS\n", peakDBFS(left, right))
	fmt.Printf("Successfully wrote %s (%d frames)\n", *output, len(left))
}

func peakDBFS(left, right []float32) float64 {
	peak := 0.0
	for i := range left {
		if v := math.Abs(float64(left[i])); v > peak {
			peak = v
		}
		if v := math.Abs(float64(right[i])); v > peak {
			peak = v
		}
	}
	if peak <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(peak)
}

// parseSchedule turns "note@start:dur[:vel],..." into frame-stamped on/off
// event pairs, sorted by frame.
func parseSchedule(s string, sampleRate int) ([]scheduledEvent, error) {
	var out []scheduledEvent
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		notePart, timing, ok := strings.Cut(entry, "@")
		if !ok {
			return nil, fmt.Errorf("entry %q: expected note@start:dur[:vel]", entry)
		}
		note, err := strconv.Atoi(notePart)
		if err != nil || note < 0 || note > 127 {
			return nil, fmt.Errorf("entry %q: invalid note (expected 0..127)", entry)
		}
		fields := strings.Split(timing, ":")
		if len(fields) < 2 || len(fields) > 3 {
			return nil, fmt.Errorf("entry %q: expected start:dur[:vel]", entry)
		}
		start, err := strconv.ParseFloat(fields[0], 64)
		if err != nil || start < 0 {
			return nil, fmt.Errorf("entry %q: invalid start time", entry)
		}
		dur, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || dur <= 0 {
			return nil, fmt.Errorf("entry %q: invalid duration", entry)
		}
		vel := 0.8
		if len(fields) == 3 {
			vel, err = strconv.ParseFloat(fields[2], 64)
			if err != nil || vel <= 0 || vel > 1 {
				return nil, fmt.Errorf("entry %q: invalid velocity (expected (0,1])", entry)
			}
		}

		onFrame := int(start * float64(sampleRate))
		offFrame := int((start + dur) * float64(sampleRate))
		out = append(out, scheduledEvent{
			frame: onFrame,
			event: colorizr.NoteEvent{
				Kind:     colorizr.EventNoteOn,
				Note:     uint8(note),
				Velocity: float32(vel),
			},
		})
		out = append(out, scheduledEvent{
			frame: offFrame,
			event: colorizr.NoteEvent{
				Kind: colorizr.EventNoteOff,
				Note: uint8(note),
			},
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].frame < out[j].frame })
	return out, nil
}
