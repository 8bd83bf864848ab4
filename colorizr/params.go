package colorizr

import (
	"math"
	"sync/atomic"
)

// atomicFloat32 is a lock-free float cell (single writer, any readers).
type atomicFloat32 struct{ bits atomic.Uint32 }

func (a *atomicFloat32) Store(v float32) { a.bits.Store(math.Float32bits(v)) }
func (a *atomicFloat32) Load() float32   { return math.Float32frombits(a.bits.Load()) }

// Default parameter values. Band gain is in dB, times in milliseconds.
const (
	DefaultGainDB     = 10.0
	DefaultAttackMs   = 20.0
	DefaultReleaseMs  = 100.0
	DefaultQ          = 40.0
	DefaultVoiceLimit = MaxVoices
)

// Params is the lock-free parameter store shared between the observer thread
// (setters) and the audio thread. The engine smooths the band gain per
// sample; everything else takes effect at the next block.
type Params struct {
	gainDB      atomicFloat32
	attackMs    atomicFloat32
	releaseMs   atomicFloat32
	q           atomicFloat32
	delta       atomic.Bool
	safetyLimit atomic.Bool
	voiceLimit  atomic.Int32
	mode        atomic.Int32
}

// NewDefaultParams creates a parameter store with default values.
func NewDefaultParams() *Params {
	p := &Params{}
	p.SetGainDB(DefaultGainDB)
	p.SetAttackMs(DefaultAttackMs)
	p.SetReleaseMs(DefaultReleaseMs)
	p.SetQ(DefaultQ)
	p.SetDelta(false)
	p.SetSafetyLimit(true)
	p.SetVoiceLimit(DefaultVoiceLimit)
	p.SetMode(FilterModePeak)
	return p
}

// SetGainDB sets the band gain in dB before velocity and envelope scaling.
func (p *Params) SetGainDB(v float32) { p.gainDB.Store(v) }
func (p *Params) GainDB() float32     { return p.gainDB.Load() }

// SetAttackMs sets the amplitude envelope attack time.
func (p *Params) SetAttackMs(v float32) { p.attackMs.Store(v) }
func (p *Params) AttackMs() float32     { return p.attackMs.Load() }

// SetReleaseMs sets the amplitude envelope release time.
func (p *Params) SetReleaseMs(v float32) { p.releaseMs.Store(v) }
func (p *Params) ReleaseMs() float32     { return p.releaseMs.Load() }

// SetQ sets the quality factor shared by all bands.
func (p *Params) SetQ(v float32) { p.q.Store(v) }
func (p *Params) Q() float32     { return p.q.Load() }

// SetDelta toggles wet-minus-dry output.
func (p *Params) SetDelta(on bool) { p.delta.Store(on) }
func (p *Params) Delta() bool      { return p.delta.Load() }

// SetSafetyLimit toggles the Nyquist band guard.
func (p *Params) SetSafetyLimit(on bool) { p.safetyLimit.Store(on) }
func (p *Params) SafetyLimit() bool      { return p.safetyLimit.Load() }

// SetVoiceLimit bounds the number of allocatable voices, clamped to
// [1, MaxVoices].
func (p *Params) SetVoiceLimit(n int) { p.voiceLimit.Store(int32(clampVoiceLimit(n))) }
func (p *Params) VoiceLimit() int     { return int(p.voiceLimit.Load()) }

// SetMode selects the filter response for all voices.
func (p *Params) SetMode(m FilterMode) { p.mode.Store(int32(m)) }
func (p *Params) Mode() FilterMode     { return FilterMode(p.mode.Load()) }
