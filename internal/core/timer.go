package core

import "time"

// FixedStep gates simulation updates on accumulated time. ShouldStep reads
// the wall clock for frame loops; Elapse takes an explicit delta for hosts
// that already know how much time passed.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
}

// NewFixedStep constructs a FixedStep controller targeting the given TPS.
// The first ShouldStep call fires immediately.
func NewFixedStep(tps int) *FixedStep {
	if tps <= 0 {
		tps = 60
	}
	fs := &FixedStep{}
	fs.SetTPS(tps)
	fs.accumulator = fs.step
	return fs
}

// NewInterval constructs a controller that fires once every step of
// accumulated time, starting from zero.
func NewInterval(step time.Duration) *FixedStep {
	fs := &FixedStep{}
	fs.SetStep(step)
	return fs
}

// SetTPS changes the tick rate. It is safe to call from the main loop.
func (f *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	f.step = time.Second / time.Duration(tps)
}

// SetStep changes the interval directly. Non-positive values fire on every
// call.
func (f *FixedStep) SetStep(step time.Duration) {
	if step < 0 {
		step = 0
	}
	f.step = step
}

// Step returns the configured interval.
func (f *FixedStep) Step() time.Duration { return f.step }

// Accumulated returns the time gathered since the last fire.
func (f *FixedStep) Accumulated() time.Duration { return f.accumulator }

// ShouldStep reports whether the simulation should advance by one tick.
func (f *FixedStep) ShouldStep() bool {
	now := time.Now()
	if f.last.IsZero() {
		f.last = now
	}
	delta := now.Sub(f.last)
	f.last = now
	f.accumulator += delta
	if f.accumulator >= f.step {
		f.accumulator -= f.step
		return true
	}
	return false
}

// Elapse adds dt and reports whether a full interval has gathered. Unlike
// ShouldStep it drops any remainder when it fires, so a long frame yields a
// single tick.
func (f *FixedStep) Elapse(dt time.Duration) bool {
	if dt > 0 {
		f.accumulator += dt
	}
	if f.accumulator < f.step {
		return false
	}
	f.accumulator = 0
	return true
}

// Reset drops any accumulated time.
func (f *FixedStep) Reset() {
	f.accumulator = 0
	f.last = time.Time{}
}
