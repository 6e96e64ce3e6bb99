package game

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeBudget(t *testing.T) {
	for _, d := range Difficulties() {
		p := d.Profile()
		for length := 0; length <= 120; length++ {
			got := TimeBudget(length, p)
			want := int(math.Round(float64(p.TimePerPrompt) + math.Min(20, float64(length)*0.6)))
			assert.Equal(t, want, got, "%s len=%d", d, length)
			assert.GreaterOrEqual(t, got, p.TimePerPrompt)
			assert.LessOrEqual(t, got, p.TimePerPrompt+20)
		}
	}
	assert.Equal(t, 20, TimeBudget(3, Normal.Profile()))
	assert.Equal(t, 44, TimeBudget(99, Easy.Profile()))
}

func TestTimerStopIsIdempotent(t *testing.T) {
	var timer Timer
	tick := timer.Start()
	require.True(t, timer.Live(tick))

	timer.Stop()
	timer.Stop()
	assert.False(t, timer.Active())
	assert.False(t, timer.Live(tick))

	next := timer.Start()
	assert.True(t, timer.Live(next))
	assert.False(t, timer.Live(tick))
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00", FormatClock(0))
	assert.Equal(t, "00:09", FormatClock(9))
	assert.Equal(t, "01:05", FormatClock(65))
	assert.Equal(t, "00:00", FormatClock(-3))
}

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty(" Hard ")
	require.NoError(t, err)
	assert.Equal(t, Hard, d)
	assert.Equal(t, Profile{TimePerPrompt: 14, ComboBonus: 12, MissPenalty: 12}, d.Profile())

	_, err = ParseDifficulty("nightmare")
	assert.Error(t, err)
}

func TestDifficultyNextWraps(t *testing.T) {
	assert.Equal(t, Normal, Easy.Next())
	assert.Equal(t, Hard, Normal.Next())
	assert.Equal(t, Easy, Hard.Next())
}
