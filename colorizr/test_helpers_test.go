package colorizr

import "math"

func sineStereo(freq float64, sampleRate, n int) ([]float32, []float32) {
	left := make([]float32, n)
	right := make([]float32, n)
	for i := 0; i < n; i++ {
		s := float32(0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)))
		left[i] = s
		right[i] = s
	}
	return left, right
}

func noteOn(offset int, note uint8, velocity float32) NoteEvent {
	return NoteEvent{Offset: offset, Kind: EventNoteOn, Note: note, Velocity: velocity}
}

func noteOnWithID(offset int, id int32, note uint8, velocity float32) NoteEvent {
	ev := noteOn(offset, note, velocity)
	ev.VoiceID = id
	ev.HasVoiceID = true
	return ev
}

func noteOff(offset int, note uint8) NoteEvent {
	return NoteEvent{Offset: offset, Kind: EventNoteOff, Note: note}
}

func chokeEvent(offset int, note uint8) NoteEvent {
	return NoteEvent{Offset: offset, Kind: EventChoke, Note: note}
}

func retuneEvent(offset int, note uint8, semitones float32) NoteEvent {
	return NoteEvent{Offset: offset, Kind: EventRetune, Note: note, Semitones: semitones}
}

// collectTerminations wires a recording handler into the engine and returns
// the backing slice pointer.
func collectTerminations(e *Engine) *[]VoiceTerminated {
	events := &[]VoiceTerminated{}
	e.SetTerminationHandler(func(ev VoiceTerminated) {
		*events = append(*events, ev)
	})
	return events
}

func rmsF32(x []float32) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, s := range x {
		v := float64(s)
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

func toFloat64(x []float32) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = float64(v)
	}
	return out
}
