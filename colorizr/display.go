package colorizr

import (
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
)

// DisplayBridge publishes per-voice, per-band state for a non-real-time
// observer. Each (slot, band) pair owns independent atomic word cells: the
// audio-thread writer never blocks, readers may observe a torn or stale
// frame but never stall the writer. Nothing is computed while no observer is
// attached.
type DisplayBridge struct {
	observers atomic.Int32
	cells     [MaxVoices][NumFilters]displayCell
}

type displayCell struct {
	active atomic.Bool // slot holds a live voice
	tuned  atomic.Bool // band has been configured since voice start
	freq   atomic.Uint32
	coeffs [5]atomic.Uint64 // B0 B1 B2 A1 A2
}

// Attach registers an observer; publication starts with the next processed
// buffer.
func (d *DisplayBridge) Attach() { d.observers.Add(1) }

// Detach unregisters an observer registered with Attach.
func (d *DisplayBridge) Detach() { d.observers.Add(-1) }

func (d *DisplayBridge) attached() bool { return d.observers.Load() > 0 }

// SlotActive reports whether the slot held a live voice at the last publish.
func (d *DisplayBridge) SlotActive(slot int) bool {
	return d.cells[slot][0].active.Load()
}

// Frequency returns the published center frequency of a band. ok is false
// when the slot is unused or the band was never tuned (for example when the
// Nyquist guard skipped it).
func (d *DisplayBridge) Frequency(slot, band int) (float32, bool) {
	c := &d.cells[slot][band]
	if !c.active.Load() || !c.tuned.Load() {
		return 0, false
	}
	return math.Float32frombits(c.freq.Load()), true
}

// Coefficients returns the published coefficient set of a band; ok mirrors
// Frequency. The five coefficient words are read independently, so a frame
// may tear across a concurrent publish.
func (d *DisplayBridge) Coefficients(slot, band int) (biquad.Coefficients, bool) {
	c := &d.cells[slot][band]
	if !c.active.Load() || !c.tuned.Load() {
		return biquad.Coefficients{}, false
	}
	return biquad.Coefficients{
		B0: math.Float64frombits(c.coeffs[0].Load()),
		B1: math.Float64frombits(c.coeffs[1].Load()),
		B2: math.Float64frombits(c.coeffs[2].Load()),
		A1: math.Float64frombits(c.coeffs[3].Load()),
		A2: math.Float64frombits(c.coeffs[4].Load()),
	}, true
}

// publish overwrites every cell from the current pool state. Called by the
// engine at the end of a processed buffer, only while an observer is
// attached.
func (d *DisplayBridge) publish(p *voicePool) {
	for slot := range p.slots {
		if !p.used[slot] {
			for band := range d.cells[slot] {
				d.cells[slot][band].active.Store(false)
			}
			continue
		}
		v := &p.slots[slot]
		for band := range v.filters {
			cell := &d.cells[slot][band]
			f := &v.filters[band]
			if !f.Configured() {
				cell.tuned.Store(false)
				cell.active.Store(true)
				continue
			}
			co := f.Coefficients()
			cell.freq.Store(math.Float32bits(f.Frequency()))
			cell.coeffs[0].Store(math.Float64bits(co.B0))
			cell.coeffs[1].Store(math.Float64bits(co.B1))
			cell.coeffs[2].Store(math.Float64bits(co.B2))
			cell.coeffs[3].Store(math.Float64bits(co.A1))
			cell.coeffs[4].Store(math.Float64bits(co.A2))
			cell.tuned.Store(true)
			cell.active.Store(true)
		}
	}
}
