package colorizr

// EventKind discriminates inbound note events.
type EventKind uint8

const (
	EventNoteOn EventKind = iota
	EventNoteOff
	EventChoke
	EventRetune
)

// NoteEvent is one host-delivered event, timed by a sample offset within the
// current buffer. VoiceID is honored only when HasVoiceID is set; otherwise
// the engine synthesizes a stable id from (note, channel), so repeated
// lookups for the same unlabeled note agree.
type NoteEvent struct {
	Offset     int
	Kind       EventKind
	VoiceID    int32
	HasVoiceID bool
	Channel    uint8
	Note       uint8
	Velocity   float32 // note-on amplitude in [0, 1]
	Semitones  float32 // retune offset in semitones
}

// VoiceTerminated notifies the host that a voice ended, whether by steal,
// choke or release completion. VoiceID is always the terminated voice's
// actual id so the host can reclaim modulation resources tied to it.
type VoiceTerminated struct {
	Offset  int
	VoiceID int32
	Channel uint8
	Note    uint8
}

// TerminationHandler receives VoiceTerminated notifications on the audio
// thread. Implementations must not allocate or block.
type TerminationHandler func(VoiceTerminated)

// fallbackVoiceID synthesizes a stable voice id for events without one.
func fallbackVoiceID(note, channel uint8) int32 {
	return int32(note) | int32(channel)<<16
}

// clampOffset bounds a host-delivered timestamp to the current buffer.
func clampOffset(offset, bufferLen int) int {
	if offset < 0 || bufferLen == 0 {
		return 0
	}
	if offset >= bufferLen {
		return bufferLen - 1
	}
	return offset
}

// voiceAddress is the matching rule shared by release, choke and retune: an
// explicit voice id matches by id alone; otherwise every voice on
// (channel, note) matches.
type voiceAddress struct {
	voiceID    int32
	hasVoiceID bool
	channel    uint8
	note       uint8
}

func addressOf(ev NoteEvent) voiceAddress {
	return voiceAddress{
		voiceID:    ev.VoiceID,
		hasVoiceID: ev.HasVoiceID,
		channel:    ev.Channel,
		note:       ev.Note,
	}
}

func (a voiceAddress) matches(v *Voice) bool {
	if a.hasVoiceID {
		return v.voiceID == a.voiceID
	}
	return v.channel == a.channel && v.note == a.note
}
