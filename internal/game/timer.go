package game

import (
	"fmt"
	"math"
	"time"
)

// TickInterval is the countdown cadence.
const TickInterval = time.Second

const maxLengthBonus = 20.0

// Tick identifies one scheduled countdown tick. A tick only applies to the timer
// generation that issued it.
type Tick struct {
	Gen uint64
}

// Timer is the cancellable countdown handle owned by a Session. It does not schedule
// anything itself: the driver delivers a Tick after TickInterval and the session
// checks it against the live generation, so ticks issued before a Stop are ignored.
type Timer struct {
	gen    uint64
	active bool
}

// Start arms a new generation and returns its first tick.
func (t *Timer) Start() Tick {
	t.gen++
	t.active = true
	return Tick{Gen: t.gen}
}

// Stop cancels the current generation. Stopping a stopped timer is a no-op.
func (t *Timer) Stop() {
	if !t.active {
		return
	}
	t.active = false
	t.gen++
}

// Active reports whether the timer is counting.
func (t *Timer) Active() bool {
	return t.active
}

// Live reports whether tick belongs to the running generation.
func (t *Timer) Live(tick Tick) bool {
	return t.active && tick.Gen == t.gen
}

// TimeBudget returns the seconds granted for a prompt of the given length:
// the profile's base time plus 0.6 s per character, with the extension capped at 20 s.
func TimeBudget(promptLen int, p Profile) int {
	ext := math.Min(maxLengthBonus, float64(promptLen)*0.6)
	return int(math.Round(float64(p.TimePerPrompt) + ext))
}

// FormatClock renders seconds as zero-padded mm:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
