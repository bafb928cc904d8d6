package grip

// BlendTimer accumulates frame time over one blend phase.
type BlendTimer struct {
	duration float64
	elapsed  float64
}

func NewBlendTimer(duration float64) BlendTimer {
	return BlendTimer{duration: duration}
}

func (t *BlendTimer) Reset() {
	t.elapsed = 0
}

// Advance adds one frame's delta. Negative deltas are ignored.
func (t *BlendTimer) Advance(dt float64) {
	if dt > 0 {
		t.elapsed += dt
	}
}

func (t *BlendTimer) Elapsed() float64 {
	return t.elapsed
}

func (t *BlendTimer) Duration() float64 {
	return t.duration
}

// Progress is elapsed/duration. It is not clamped and may pass 1 on the
// final tick of a phase.
func (t *BlendTimer) Progress() float64 {
	if t.duration <= 0 {
		return 1
	}
	return t.elapsed / t.duration
}

// Done reports whether the phase has run for the full duration.
func (t *BlendTimer) Done() bool {
	return t.elapsed >= t.duration
}
