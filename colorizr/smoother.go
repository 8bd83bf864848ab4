package colorizr

import "github.com/cwbudde/algo-approx"

// smootherDecay is ln(1000): the start/target gap has shrunk by 60 dB when a
// ramp runs out of steps, at which point the value snaps onto the target.
const smootherDecay = 6.907755

// Smoother ramps a value exponentially toward a target over a fixed time and
// lands exactly on the target at the end of the ramp. It backs the per-voice
// amplitude envelope (attack/release) and global parameter smoothing; the
// exact terminal value is what lets the pool detect finished releases.
type Smoother struct {
	value     float32
	target    float32
	coeff     float32
	stepsLeft int
}

// Reset forces the smoother to value with no ramp in progress.
func (s *Smoother) Reset(value float32) {
	s.value = value
	s.target = value
	s.stepsLeft = 0
}

// SetTarget starts an exponential ramp from the current value to target over
// timeMs milliseconds. A non-positive time jumps straight to the target.
func (s *Smoother) SetTarget(sampleRate, target, timeMs float32) {
	s.target = target
	steps := int(sampleRate * timeMs / 1000.0)
	if sampleRate <= 0 || timeMs <= 0 || steps < 1 {
		s.value = target
		s.stepsLeft = 0
		return
	}
	s.stepsLeft = steps
	s.coeff = approx.FastExp(-smootherDecay / float32(steps))
}

// Next advances one sample and returns the new value.
func (s *Smoother) Next() float32 {
	if s.stepsLeft <= 0 {
		s.value = s.target
		return s.value
	}
	s.stepsLeft--
	if s.stepsLeft == 0 {
		s.value = s.target
	} else {
		s.value = s.target + (s.value-s.target)*s.coeff
	}
	return s.value
}

// NextBlock fills dst with the next len(dst) smoothed values.
func (s *Smoother) NextBlock(dst []float32) {
	for i := range dst {
		dst[i] = s.Next()
	}
}

// Value returns the most recently produced value without advancing.
func (s *Smoother) Value() float32 { return s.value }

// Done reports whether the ramp has finished.
func (s *Smoother) Done() bool { return s.stepsLeft <= 0 }
