// Package colorizr implements the real-time core of a polyphonic filter
// colorizer: for each incoming note it layers a bank of peaking or notch
// filters on the harmonics of the note's fundamental onto the audio stream.
// The processing path is allocation-free and lock-free, with sample-accurate
// event timing via block splitting.
package colorizr

import "math"

// gainSmoothMs is the ramp time for band-gain parameter changes.
const gainSmoothMs = 50.0

// Engine orchestrates the voice pool, the sample-accurate event scheduler
// and the per-voice filter banks over stereo buffers. It is owned by the
// audio thread for the duration of every Process call; the only cross-thread
// views are Params (inbound) and the DisplayBridge (outbound).
type Engine struct {
	sampleRate   float32
	params       *Params
	pool         voicePool
	display      DisplayBridge
	onTerminated TerminationHandler

	gainSmoother Smoother

	// Per-sub-block scratch, fixed size to keep Process allocation-free.
	dryL    [MaxBlockSize]float32
	dryR    [MaxBlockSize]float32
	gainBuf [MaxBlockSize]float32
	envBuf  [MaxBlockSize]float32
}

// NewEngine creates an engine at the given sample rate. A nil params uses
// defaults.
func NewEngine(sampleRate int, params *Params) *Engine {
	if params == nil {
		params = NewDefaultParams()
	}
	e := &Engine{
		sampleRate: float32(sampleRate),
		params:     params,
	}
	e.pool.setLimit(params.VoiceLimit())
	e.gainSmoother.Reset(params.GainDB())
	return e
}

// Params returns the engine's parameter store.
func (e *Engine) Params() *Params { return e.params }

// Display returns the lock-free observer bridge.
func (e *Engine) Display() *DisplayBridge { return &e.display }

// SampleRate returns the configured sample rate in Hz.
func (e *Engine) SampleRate() int { return int(e.sampleRate) }

// SetTerminationHandler installs the outbound voice-terminated callback. The
// handler runs on the audio thread and must not allocate or block.
func (e *Engine) SetTerminationHandler(fn TerminationHandler) { e.onTerminated = fn }

// ActiveVoices returns the number of live voice slots.
func (e *Engine) ActiveVoices() int { return e.pool.activeCount() }

// Reset drops all voices without termination notifications, for host resets.
func (e *Engine) Reset() {
	for i := range e.pool.used {
		e.pool.used[i] = false
	}
}

// Process runs the block-splitting loop over one stereo buffer, in place.
// Events must be ordered by offset; offsets outside the buffer are clamped.
// Given identical buffers, events and parameter values the output is
// deterministic.
func (e *Engine) Process(left, right []float32, events []NoteEvent) {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	if n == 0 {
		return
	}

	e.pool.setLimit(e.params.VoiceLimit())
	if target := e.params.GainDB(); target != e.gainSmoother.target {
		e.gainSmoother.SetTarget(e.sampleRate, target, gainSmoothMs)
	}
	q := float64(e.params.Q())
	mode := e.params.Mode()
	delta := e.params.Delta()
	safety := e.params.SafetyLimit()
	nyquist := e.sampleRate / 2

	eventIdx := 0
	blockStart := 0
	blockEnd := min(MaxBlockSize, n)
	for blockStart < n {
		// Apply every event due at the start of this sub-block; an event
		// landing strictly inside it instead shortens the sub-block so the
		// event applies at its exact sample.
		for eventIdx < len(events) {
			off := clampOffset(events[eventIdx].Offset, n)
			if off <= blockStart {
				e.applyEvent(events[eventIdx], blockStart)
				eventIdx++
				continue
			}
			if off < blockEnd {
				blockEnd = off
			}
			break
		}

		blockLen := blockEnd - blockStart
		e.gainSmoother.NextBlock(e.gainBuf[:blockLen])
		copy(e.dryL[:blockLen], left[blockStart:blockEnd])
		copy(e.dryR[:blockLen], right[blockStart:blockEnd])

		for slot := range e.pool.slots {
			if !e.pool.used[slot] {
				continue
			}
			v := &e.pool.slots[slot]
			v.ampEnvelope.NextBlock(e.envBuf[:blockLen])
			for i := 0; i < blockLen; i++ {
				idx := blockStart + i
				amp := e.gainBuf[i] * v.velocityScale * e.envBuf[i]
				l := float64(left[idx])
				r := float64(right[idx])
				for band := range v.filters {
					freq := v.frequency * float32(band+1)
					if safety && freq >= nyquist {
						continue
					}
					gain := amp * bandGainFalloff(v.frequency, freq)
					v.filters[band].Configure(float64(e.sampleRate), float64(freq), q, float64(gain), mode)
					l, r = v.filters[band].ProcessStereo(l, r)
				}
				left[idx] = float32(l)
				right[idx] = float32(r)
			}
		}

		if delta {
			for i := 0; i < blockLen; i++ {
				idx := blockStart + i
				left[idx] -= e.dryL[i]
				right[idx] -= e.dryR[i]
			}
		}

		e.pool.retire(blockEnd, e.onTerminated)

		blockStart = blockEnd
		blockEnd = min(blockStart+MaxBlockSize, n)
	}

	if e.display.attached() {
		e.display.publish(&e.pool)
	}
}

func (e *Engine) applyEvent(ev NoteEvent, offset int) {
	switch ev.Kind {
	case EventNoteOn:
		id := ev.VoiceID
		if !ev.HasVoiceID {
			id = fallbackVoiceID(ev.Note, ev.Channel)
		}
		v := e.pool.allocate(offset, id, ev.Channel, ev.Note, e.onTerminated)
		v.velocityScale = float32(math.Sqrt(float64(ev.Velocity)))
		v.ampEnvelope.Reset(0)
		v.ampEnvelope.SetTarget(e.sampleRate, 1, e.params.AttackMs())
	case EventNoteOff:
		e.pool.release(addressOf(ev), e.sampleRate, e.params.ReleaseMs())
	case EventChoke:
		e.pool.choke(addressOf(ev), offset, e.onTerminated)
	case EventRetune:
		e.pool.retune(addressOf(ev), ev.Semitones)
	}
}
