package colorizr

// voicePool is a fixed arena of voice slots with explicit liveness. All
// lifecycle transitions (allocate, steal, release, choke, retune, retire)
// run on the audio thread and never allocate.
type voicePool struct {
	slots          [MaxVoices]Voice
	used           [MaxVoices]bool
	limit          int
	nextInternalID uint64
}

func clampVoiceLimit(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxVoices {
		return MaxVoices
	}
	return n
}

// setLimit adjusts the allocation bound. Voices already sounding in slots
// beyond the new limit keep running until they end on their own.
func (p *voicePool) setLimit(n int) {
	p.limit = clampVoiceLimit(n)
}

// allocate occupies a free slot among the first limit slots, stealing the
// oldest voice (smallest internal sequence number) when none is free. A
// stolen voice's termination is reported before it is overwritten.
func (p *voicePool) allocate(offset int, voiceID int32, channel, note uint8, notify TerminationHandler) *Voice {
	slot := -1
	for i := 0; i < p.limit; i++ {
		if !p.used[i] {
			slot = i
			break
		}
	}
	if slot < 0 {
		slot = 0
		for i := 1; i < p.limit; i++ {
			if p.slots[i].internalID < p.slots[slot].internalID {
				slot = i
			}
		}
		stolen := &p.slots[slot]
		if notify != nil {
			notify(VoiceTerminated{
				Offset:  offset,
				VoiceID: stolen.voiceID,
				Channel: stolen.channel,
				Note:    stolen.note,
			})
		}
	}

	v := &p.slots[slot]
	v.start(voiceID, channel, note, p.nextInternalID)
	p.nextInternalID++
	p.used[slot] = true
	return v
}

// release flips matching voices into their release phase. An explicit voice
// id stops at the first match; otherwise every (channel, note) match fades,
// which supports host-side voice overlap.
func (p *voicePool) release(addr voiceAddress, sampleRate, releaseMs float32) {
	for i := range p.slots {
		if !p.used[i] || !addr.matches(&p.slots[i]) {
			continue
		}
		v := &p.slots[i]
		v.releasing = true
		v.ampEnvelope.SetTarget(sampleRate, 0, releaseMs)
		if addr.hasVoiceID {
			return
		}
	}
}

// choke destroys matching voices immediately. The notification echoes the
// matched voice's id, which may differ from the event's id under the
// fallback-id scheme.
func (p *voicePool) choke(addr voiceAddress, offset int, notify TerminationHandler) {
	for i := range p.slots {
		if !p.used[i] || !addr.matches(&p.slots[i]) {
			continue
		}
		v := &p.slots[i]
		if notify != nil {
			notify(VoiceTerminated{
				Offset:  offset,
				VoiceID: v.voiceID,
				Channel: v.channel,
				Note:    v.note,
			})
		}
		p.used[i] = false
		if addr.hasVoiceID {
			return
		}
	}
}

// retune redirects the first matching voice to a new fundamental.
func (p *voicePool) retune(addr voiceAddress, semitones float32) {
	for i := range p.slots {
		if p.used[i] && addr.matches(&p.slots[i]) {
			p.slots[i].retune(semitones)
			return
		}
	}
}

// retire frees every releasing voice whose envelope has decayed to exactly
// zero, reporting each termination at the given offset.
func (p *voicePool) retire(offset int, notify TerminationHandler) {
	for i := range p.slots {
		if !p.used[i] {
			continue
		}
		v := &p.slots[i]
		if v.releasing && v.ampEnvelope.Value() == 0 {
			if notify != nil {
				notify(VoiceTerminated{
					Offset:  offset,
					VoiceID: v.voiceID,
					Channel: v.channel,
					Note:    v.note,
				})
			}
			p.used[i] = false
		}
	}
}

func (p *voicePool) activeCount() int {
	n := 0
	for i := range p.used {
		if p.used[i] {
			n++
		}
	}
	return n
}
