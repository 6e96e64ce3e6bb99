package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typestage/internal/model"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func wordsStage() model.Stage {
	return model.Stage{
		ID:    "words",
		Title: "Stage 1: Words",
		Prompts: []string{
			"cat", "river", "light", "focus", "frame",
			"sound", "quick", "apple", "storm", "clear",
		},
	}
}

func newTestSession(t *testing.T, stage model.Stage, d Difficulty) (*Session, *fakeClock) {
	t.Helper()
	s, err := NewSession(stage, d)
	require.NoError(t, err)
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	s.now = clock.Now
	return s, clock
}

func startSession(t *testing.T, s *Session) Tick {
	t.Helper()
	tick, ok := s.Start()
	require.True(t, ok)
	return tick
}

// tickUntilAdvance delivers ticks until the prompt index moves or the session stops running.
func tickUntilAdvance(t *testing.T, s *Session, tick Tick) Tick {
	t.Helper()
	start := s.PromptIndex()
	for i := 0; i < 1000; i++ {
		next, ok := s.Tick(tick)
		if !ok || s.PromptIndex() != start {
			return next
		}
		tick = next
	}
	t.Fatalf("prompt never timed out")
	return Tick{}
}

func TestNewSessionRejectsEmptyStage(t *testing.T) {
	_, err := NewSession(model.Stage{ID: "empty"}, Normal)
	require.ErrorIs(t, err, ErrEmptyStage)
}

func TestStartFromIdle(t *testing.T) {
	s, _ := newTestSession(t, wordsStage(), Normal)
	assert.Equal(t, StateIdle, s.State())
	assert.Equal(t, 0, s.TimeLeft())

	startSession(t, s)
	assert.Equal(t, StateRunning, s.State())
	assert.True(t, s.TimerActive())
	assert.Equal(t, 20, s.TimeLeft(), "18 + round-up of 3*0.6")

	_, ok := s.Start()
	assert.False(t, ok, "second start is ignored")
}

func TestExactMatchCatScenario(t *testing.T) {
	s, _ := newTestSession(t, wordsStage(), Normal)
	startSession(t, s)
	s.timeLeft = 18

	ev := s.Submit("cat")
	assert.Equal(t, EventHit, ev.Kind)
	assert.Equal(t, 24, ev.Points, "max(5, 6) + 0 combo bonus + 18 time bonus")
	assert.Equal(t, 24, s.Score())
	assert.Equal(t, 1, s.PromptIndex())
	assert.Equal(t, 1, s.Combo())
	assert.Equal(t, 1, s.MaxCombo())
	assert.Equal(t, 21, s.TimeLeft(), "budget recomputed for river")
}

func TestMissXXXScenario(t *testing.T) {
	s, _ := newTestSession(t, wordsStage(), Normal)
	startSession(t, s)
	s.score = 30

	ev := s.Submit("xxx")
	assert.Equal(t, EventMiss, ev.Kind)
	assert.Equal(t, 0, ev.Grade.Correct)
	assert.False(t, ev.Grade.Exact)
	assert.Equal(t, -10, ev.Points)
	assert.Equal(t, 20, s.Score())
	assert.Equal(t, 1, s.Misses())
	assert.Equal(t, 0, s.Combo())
	assert.Equal(t, 18, s.TimeLeft())
	assert.Equal(t, 0, s.PromptIndex())
	assert.Equal(t, 3, s.TotalChars())
	assert.Equal(t, 0, s.CorrectChars())
}

func TestMissFloorsScoreAndTime(t *testing.T) {
	s, _ := newTestSession(t, wordsStage(), Normal)
	startSession(t, s)
	s.timeLeft = 1

	s.Submit("ca")
	assert.Equal(t, 0, s.Score())
	assert.Equal(t, 0, s.TimeLeft())
	assert.Equal(t, 2, s.CorrectChars())
	assert.Equal(t, StateRunning, s.State(), "time-up waits for the next tick")
}

func TestComboBonusAndMaxCombo(t *testing.T) {
	s, _ := newTestSession(t, wordsStage(), Normal)
	startSession(t, s)

	s.Submit("cat") // 6 + 0 + 20
	assert.Equal(t, 26, s.Score())
	s.Submit("river") // 10 + 8 + min(21, 20)
	assert.Equal(t, 64, s.Score())
	assert.Equal(t, 2, s.Combo())

	s.Submit("lihgt")
	assert.Equal(t, 54, s.Score())
	assert.Equal(t, 0, s.Combo())
	assert.Equal(t, 2, s.MaxCombo())

	s.Submit("light") // 10 + 0 + 19
	assert.Equal(t, 83, s.Score())
	assert.Equal(t, 1, s.Combo())
	assert.Equal(t, 2, s.MaxCombo())
	assert.Equal(t, 3, s.PromptIndex())
}

func TestTimeUpAdvancesAndBreaksCombo(t *testing.T) {
	s, _ := newTestSession(t, wordsStage(), Normal)
	tick := startSession(t, s)
	s.Submit("cat")
	s.score = 5

	tick = tickUntilAdvance(t, s, tick)
	assert.Equal(t, 2, s.PromptIndex())
	assert.Equal(t, 1, s.Misses())
	assert.Equal(t, 0, s.Combo())
	assert.Equal(t, 1, s.MaxCombo())
	assert.Equal(t, 0, s.Score(), "penalty floors at zero")
	assert.Equal(t, EventTimeUp, s.LastEvent().Kind)
	assert.Equal(t, 21, s.TimeLeft(), "budget recomputed for light")

	_, ok := s.Tick(tick)
	assert.True(t, ok, "countdown continues on the next prompt")
	assert.Equal(t, 20, s.TimeLeft())
}

func TestTickDecrementsOncePerTick(t *testing.T) {
	s, _ := newTestSession(t, wordsStage(), Hard)
	tick := startSession(t, s)
	require.Equal(t, 16, s.TimeLeft())

	_, ok := s.Tick(tick)
	require.True(t, ok)
	assert.Equal(t, 15, s.TimeLeft())
	assert.Equal(t, "00:15", s.HUD().Time)
}

func TestStaleTickIgnoredAfterRestart(t *testing.T) {
	s, _ := newTestSession(t, wordsStage(), Normal)
	old := startSession(t, s)
	s.Reset()
	_, ok := s.Tick(old)
	assert.False(t, ok)

	fresh := startSession(t, s)
	before := s.TimeLeft()
	_, ok = s.Tick(old)
	assert.False(t, ok)
	assert.Equal(t, before, s.TimeLeft())

	_, ok = s.Tick(fresh)
	assert.True(t, ok)
	assert.Equal(t, before-1, s.TimeLeft())
}

func TestSkipOnce(t *testing.T) {
	s, _ := newTestSession(t, wordsStage(), Normal)
	startSession(t, s)
	s.Submit("cat")
	require.Equal(t, 26, s.Score())

	ev := s.Skip()
	assert.Equal(t, EventSkip, ev.Kind)
	assert.Equal(t, -15, ev.Points)
	assert.Equal(t, 11, s.Score())
	assert.Equal(t, 2, s.PromptIndex())
	assert.True(t, s.SkipUsed())
	assert.Equal(t, 0, s.Combo())
	assert.Equal(t, 0, s.Misses(), "skip is not a miss")

	ev = s.Skip()
	assert.Equal(t, EventNone, ev.Kind)
	assert.Equal(t, 11, s.Score())
	assert.Equal(t, 2, s.PromptIndex())
}

func TestSkipFloorsAtZeroAndIgnoredWhenIdle(t *testing.T) {
	s, _ := newTestSession(t, wordsStage(), Normal)
	s.Skip()
	assert.False(t, s.SkipUsed())

	startSession(t, s)
	s.Skip()
	assert.Equal(t, 0, s.Score())
	assert.Equal(t, 1, s.PromptIndex())
}

func TestSubmitIgnoredUnlessRunning(t *testing.T) {
	s, _ := newTestSession(t, wordsStage(), Normal)
	ev := s.Submit("cat")
	assert.Equal(t, EventNone, ev.Kind)
	assert.Equal(t, 0, s.TotalChars())
	assert.Empty(t, s.WPMSamples())
}

func TestDifficultyChange(t *testing.T) {
	s, _ := newTestSession(t, wordsStage(), Normal)
	s.SetDifficulty(Hard)
	assert.Equal(t, Hard, s.Difficulty())
	assert.Equal(t, 0, s.TimeLeft(), "idle sessions keep their clock")

	startSession(t, s)
	s.Submit("cat")
	s.Submit("rivr")
	score := s.Score()
	s.SetDifficulty(Easy)
	assert.Equal(t, 27, s.TimeLeft(), "24 + 5*0.6")
	assert.Equal(t, score, s.Score())
	assert.Equal(t, 1, s.PromptIndex())

	s.Submit("x")
	assert.Equal(t, Penalize(score, 8), s.Score(), "penalty follows the new profile")
}

func TestWPMSamplesAndFinishSummary(t *testing.T) {
	stage := model.Stage{ID: "two", Title: "Two", Prompts: []string{"cat", "river"}}
	s, clock := newTestSession(t, stage, Normal)
	var exported []model.ResultSummary
	s.OnFinish = func(r model.ResultSummary) { exported = append(exported, r) }
	startSession(t, s)

	clock.Advance(6 * time.Second)
	s.Submit("cat") // 0.6 words / 0.1 min
	clock.Advance(12 * time.Second)
	s.Submit("river") // 1 word / 0.2 min

	assert.Equal(t, []int{6, 5}, s.WPMSamples())
	require.Equal(t, StateFinished, s.State())
	assert.False(t, s.TimerActive())
	require.Len(t, exported, 1)

	res, ok := s.Result()
	require.True(t, ok)
	assert.Equal(t, exported[0], res)
	assert.Equal(t, "Two", res.Stage)
	assert.Equal(t, "2 / 2", res.Progress)
	assert.Equal(t, 100, res.Accuracy)
	assert.Equal(t, 6, res.WPM, "mean 5.5 rounds up")
	assert.Equal(t, 0, res.Misses)
	assert.Equal(t, 2, res.MaxCombo)
	assert.Equal(t, "00:21", res.TimeLeft)

	rec, ok := s.Record()
	require.True(t, ok)
	assert.Equal(t, "two", rec.StageID)
	assert.Equal(t, "normal", rec.Difficulty)
	assert.Equal(t, 2, rec.PromptsDone)
	assert.Equal(t, 18*time.Second, rec.FinishedAt.Sub(rec.StartedAt))

	assert.Equal(t, EventNone, s.Submit("more").Kind, "finished sessions lock input")
}

func TestFinishWithoutSubmissionsExportsZeroes(t *testing.T) {
	stage := model.Stage{ID: "one", Title: "One", Prompts: []string{"cat"}}
	s, _ := newTestSession(t, stage, Normal)
	tick := startSession(t, s)

	_, ok := s.Tick(tick)
	for ok {
		_, ok = s.Tick(tick)
	}
	require.Equal(t, StateFinished, s.State())
	res, ok := s.Result()
	require.True(t, ok)
	assert.Equal(t, 0, res.WPM)
	assert.Equal(t, 0, res.Accuracy)
	assert.Equal(t, 1, res.Misses)
	assert.Equal(t, "1 / 1", res.Progress)
	assert.Equal(t, "00:00", res.TimeLeft)
	assert.Equal(t, 1, s.PromptIndex())
}

func TestResetRestoresInitialState(t *testing.T) {
	s, _ := newTestSession(t, wordsStage(), Normal)
	tick := startSession(t, s)
	s.Submit("cat")
	s.Submit("rive")
	s.Skip()
	s.Tick(tick)

	s.Reset()
	assert.Equal(t, StateIdle, s.State())
	assert.False(t, s.TimerActive())
	assert.Equal(t, 0, s.PromptIndex())
	assert.Equal(t, 0, s.Score())
	assert.Equal(t, 0, s.Misses())
	assert.Equal(t, 0, s.Combo())
	assert.Equal(t, 0, s.MaxCombo())
	assert.Equal(t, 0, s.TotalChars())
	assert.Equal(t, 0, s.CorrectChars())
	assert.False(t, s.SkipUsed())
	assert.Empty(t, s.WPMSamples())
	assert.Equal(t, "cat", s.Prompt())
	_, ok := s.Result()
	assert.False(t, ok)

	startSession(t, s)
	assert.Equal(t, StateRunning, s.State())
	assert.Equal(t, EventSkip, s.Skip().Kind, "skip is available again")
}

func TestResetAfterFinish(t *testing.T) {
	stage := model.Stage{ID: "one", Title: "One", Prompts: []string{"cat"}}
	s, _ := newTestSession(t, stage, Normal)
	startSession(t, s)
	s.Submit("cat")
	require.Equal(t, StateFinished, s.State())

	s.Reset()
	assert.Equal(t, StateIdle, s.State())
	assert.Equal(t, "cat", s.Prompt())
}

func TestCountersAreMonotonic(t *testing.T) {
	s, clock := newTestSession(t, wordsStage(), Hard)
	startSession(t, s)
	inputs := []string{"", "ca", "cat", "rover", "riverx", "river", "l", "light", "fcous"}
	prevTyped, prevCorrect, prevMisses, prevMax := 0, 0, 0, 0
	for _, in := range inputs {
		clock.Advance(2 * time.Second)
		s.Submit(in)
		assert.GreaterOrEqual(t, s.TotalChars(), prevTyped)
		assert.GreaterOrEqual(t, s.CorrectChars(), prevCorrect)
		assert.LessOrEqual(t, s.CorrectChars(), s.TotalChars())
		assert.GreaterOrEqual(t, s.Misses(), prevMisses)
		assert.GreaterOrEqual(t, s.MaxCombo(), prevMax)
		assert.GreaterOrEqual(t, s.MaxCombo(), s.Combo())
		assert.GreaterOrEqual(t, s.Score(), 0)
		prevTyped, prevCorrect, prevMisses, prevMax = s.TotalChars(), s.CorrectChars(), s.Misses(), s.MaxCombo()
	}
	assert.Len(t, s.WPMSamples(), len(inputs))
}

func TestHUD(t *testing.T) {
	s, _ := newTestSession(t, wordsStage(), Normal)
	h := s.HUD()
	assert.Equal(t, "0 / 10", h.Progress)
	assert.Equal(t, 0, h.Accuracy)
	assert.Equal(t, 0.0, h.Ratio)
	assert.False(t, h.SkipAvailable)

	startSession(t, s)
	s.Submit("cxt")
	h = s.HUD()
	assert.Equal(t, 67, h.Accuracy)
	assert.InDelta(t, 2.0/3.0, h.Ratio, 1e-9)
	assert.True(t, h.SkipAvailable)
	assert.Equal(t, "cat", h.Prompt)
	assert.Equal(t, "00:18", h.Time)
}
