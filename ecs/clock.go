package ecs

// Clock is the fixed-step frame clock. The driver calls Tick once per frame.
type Clock struct {
	delta   float64
	frame   uint64
	elapsed float64
}

// NewClock returns a clock stepping 1/tps seconds per frame.
func NewClock(tps int) *Clock {
	if tps <= 0 {
		tps = 60
	}
	return &Clock{delta: 1 / float64(tps)}
}

func (c *Clock) Tick() {
	if c == nil {
		return
	}
	c.frame++
	c.elapsed += c.delta
}

// Delta is the seconds elapsed since the previous frame.
func (c *Clock) Delta() float64 {
	if c == nil {
		return 0
	}
	return c.delta
}

func (c *Clock) Frame() uint64 {
	if c == nil {
		return 0
	}
	return c.frame
}

func (c *Clock) Elapsed() float64 {
	if c == nil {
		return 0
	}
	return c.elapsed
}
