package colorizr

import "github.com/cwbudde/algo-approx"

// Engine geometry. The pool holds MaxVoices slots; each voice drives
// NumFilters harmonic bands; buffers are processed in sub-blocks of at most
// MaxBlockSize samples.
const (
	MaxVoices    = 16
	NumFilters   = 8
	MaxBlockSize = 64
)

// Voice is one active note: identity, tuning, velocity scaling, an ordered
// bank of harmonic filter bands and an amplitude envelope. Voices live by
// value inside the pool's slot arena, so note-on never allocates.
type Voice struct {
	voiceID       int32
	channel       uint8
	note          uint8
	frequency     float32
	velocityScale float32
	internalID    uint64
	filters       [NumFilters]FilterUnit
	releasing     bool
	ampEnvelope   Smoother
}

// start reinitializes a slot for a new note. Filter coefficients return to
// identity and feedback state is cleared, so unrelated notes never share
// history.
func (v *Voice) start(voiceID int32, channel, note uint8, internalID uint64) {
	v.voiceID = voiceID
	v.channel = channel
	v.note = note
	v.frequency = noteFundamental(float32(note))
	v.velocityScale = 1
	v.internalID = internalID
	v.releasing = false
	for i := range v.filters {
		v.filters[i].Identity()
		v.filters[i].Reset()
	}
}

// retune overwrites the fundamental from the voice's note offset by
// semitones. Filter state is untouched.
func (v *Voice) retune(semitones float32) {
	v.frequency = noteFundamental(float32(v.note) + semitones)
}

// noteFundamental derives the voice fundamental so the NumFilters harmonic
// bands straddle the played pitch.
func noteFundamental(note float32) float32 {
	return midiNoteToFreq(note) / float32(NumFilters/2)
}

// bandGainFalloff attenuates a band's gain exponentially with its harmonic
// distance from the fundamental.
func bandGainFalloff(fundamental, bandFreq float32) float32 {
	adjusted := (bandFreq - fundamental) / (fundamental * float32(NumFilters/2))
	return approx.FastExp(-adjusted)
}

func (v *Voice) VoiceID() int32     { return v.voiceID }
func (v *Voice) Channel() uint8     { return v.channel }
func (v *Voice) Note() uint8        { return v.note }
func (v *Voice) Frequency() float32 { return v.frequency }
func (v *Voice) Releasing() bool    { return v.releasing }
