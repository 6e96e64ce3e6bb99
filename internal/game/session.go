package game

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/verte-zerg/typestage/internal/model"
)

// ErrEmptyStage is returned when a session is created for a stage without prompts.
var ErrEmptyStage = errors.New("stage has no prompts")

// State is the lifecycle phase of a session.
type State int

const (
	StateIdle     State = iota // created or reset, waiting for start
	StateRunning               // timer active, input accepted
	StateFinished              // every prompt consumed; input locked
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// EventKind classifies the most recent transition.
type EventKind int

const (
	EventNone EventKind = iota
	EventHit
	EventMiss
	EventTimeUp
	EventSkip
)

// Event is the outcome of a transition, kept for feedback display.
type Event struct {
	Kind   EventKind
	Points int // score change; negative for penalties
	Grade  Grade
	WPM    int
}

// Session is the state machine for one play-through of a stage. It is not safe for
// concurrent use: every method must be called from the single event loop that owns it.
type Session struct {
	stage      model.Stage
	difficulty Difficulty
	now        func() time.Time
	timer      Timer

	state        State
	promptIndex  int
	timeLeft     int
	totalChars   int
	totalCorrect int
	misses       int
	score        int
	combo        int
	maxCombo     int
	skipUsed     bool
	wpmSamples   []int
	markedAt     time.Time
	startedAt    time.Time
	finishedAt   time.Time
	result       *model.ResultSummary
	last         Event

	// OnFinish, when set, receives the summary once the last prompt is consumed.
	OnFinish func(model.ResultSummary)
}

// NewSession creates an idle session over stage.
func NewSession(stage model.Stage, difficulty Difficulty) (*Session, error) {
	if len(stage.Prompts) == 0 {
		return nil, ErrEmptyStage
	}
	stage.Prompts = append([]string(nil), stage.Prompts...)
	return &Session{
		stage:      stage,
		difficulty: difficulty,
		now:        time.Now,
	}, nil
}

// Start moves an idle session to running and returns the first countdown tick.
// It reports false when the session is not idle.
func (s *Session) Start() (Tick, bool) {
	if s.state != StateIdle {
		return Tick{}, false
	}
	s.state = StateRunning
	s.recompute()
	tick := s.timer.Start()
	s.markedAt = s.now()
	s.startedAt = s.markedAt
	return tick, true
}

// Submit grades input against the current prompt. An exact match scores and advances;
// anything else costs a miss, the difficulty's penalty, and two seconds, and the
// prompt stays in place. Submissions outside the running state are ignored.
func (s *Session) Submit(input string) Event {
	if s.state != StateRunning {
		return Event{}
	}
	target := s.Prompt()
	grade := GradeInput(input, target)
	s.totalChars += grade.Typed
	s.totalCorrect += grade.Correct

	now := s.now()
	wpm := WPMSample(grade.Typed, now.Sub(s.markedAt))
	s.wpmSamples = append(s.wpmSamples, wpm)
	s.markedAt = now

	profile := s.difficulty.Profile()
	if grade.Exact {
		s.combo++
		s.maxCombo = max(s.maxCombo, s.combo)
		points := HitScore(utf8.RuneCountInString(target), s.combo, s.timeLeft, profile)
		s.score += points
		s.last = Event{Kind: EventHit, Points: points, Grade: grade, WPM: wpm}
		s.advance()
		return s.last
	}

	before := s.score
	s.misses++
	s.combo = 0
	s.score = Penalize(s.score, profile.MissPenalty)
	s.timeLeft = max(0, s.timeLeft-missTimeCost)
	s.last = Event{Kind: EventMiss, Points: s.score - before, Grade: grade, WPM: wpm}
	return s.last
}

// Tick applies one countdown second. It returns the tick to schedule next and false
// once the countdown generation has ended (stopped, reset or finished); stale ticks
// change nothing.
func (s *Session) Tick(t Tick) (Tick, bool) {
	if !s.timer.Live(t) {
		return Tick{}, false
	}
	if s.state == StateRunning {
		s.timeLeft = max(0, s.timeLeft-1)
		if s.timeLeft <= 0 {
			s.timeUp()
		}
	}
	if !s.timer.Live(t) {
		return Tick{}, false
	}
	return t, true
}

// Skip abandons the current prompt for a flat penalty. Only one skip is allowed per
// session; further requests are ignored.
func (s *Session) Skip() Event {
	if s.state != StateRunning || s.skipUsed {
		return Event{}
	}
	before := s.score
	s.skipUsed = true
	s.combo = 0
	s.score = Penalize(s.score, skipPenalty)
	s.last = Event{Kind: EventSkip, Points: s.score - before}
	s.advance()
	return s.last
}

// SetDifficulty selects a new profile. A running session gets a fresh time budget for
// the current prompt; progress and score are untouched.
func (s *Session) SetDifficulty(d Difficulty) {
	s.difficulty = d
	if s.state == StateRunning {
		s.recompute()
	}
}

// Reset stops the countdown and returns the session to idle with every counter cleared.
func (s *Session) Reset() {
	s.timer.Stop()
	s.state = StateIdle
	s.promptIndex = 0
	s.timeLeft = 0
	s.totalChars = 0
	s.totalCorrect = 0
	s.misses = 0
	s.score = 0
	s.combo = 0
	s.maxCombo = 0
	s.skipUsed = false
	s.wpmSamples = nil
	s.markedAt = time.Time{}
	s.startedAt = time.Time{}
	s.finishedAt = time.Time{}
	s.result = nil
	s.last = Event{}
}

func (s *Session) timeUp() {
	before := s.score
	s.misses++
	s.combo = 0
	s.score = Penalize(s.score, s.difficulty.Profile().MissPenalty)
	s.last = Event{Kind: EventTimeUp, Points: s.score - before}
	s.advance()
}

func (s *Session) advance() {
	s.promptIndex++
	if s.promptIndex >= len(s.stage.Prompts) {
		s.finish()
		return
	}
	s.recompute()
}

func (s *Session) recompute() {
	s.timeLeft = TimeBudget(utf8.RuneCountInString(s.Prompt()), s.difficulty.Profile())
}

func (s *Session) finish() {
	s.state = StateFinished
	s.timer.Stop()
	s.finishedAt = s.now()
	summary := s.summary()
	s.result = &summary
	if s.OnFinish != nil {
		s.OnFinish(summary)
	}
}

// Prompt returns the current prompt, or "" once finished.
func (s *Session) Prompt() string {
	if s.promptIndex >= len(s.stage.Prompts) {
		return ""
	}
	return s.stage.Prompts[s.promptIndex]
}

// State returns the lifecycle phase.
func (s *Session) State() State { return s.state }

// Running reports whether input is accepted.
func (s *Session) Running() bool { return s.state == StateRunning }

// Stage returns the stage being played.
func (s *Session) Stage() model.Stage { return s.stage }

// Difficulty returns the selected difficulty.
func (s *Session) Difficulty() Difficulty { return s.difficulty }

// PromptIndex returns the zero-based index of the current prompt.
func (s *Session) PromptIndex() int { return s.promptIndex }

// TimeLeft returns the seconds remaining for the current prompt.
func (s *Session) TimeLeft() int { return s.timeLeft }

// Score returns the running score.
func (s *Session) Score() int { return s.score }

// Combo returns the current exact-match streak.
func (s *Session) Combo() int { return s.combo }

// MaxCombo returns the longest streak seen since start or reset.
func (s *Session) MaxCombo() int { return s.maxCombo }

// Misses returns failed submissions plus time-ups.
func (s *Session) Misses() int { return s.misses }

// SkipUsed reports whether the skip has been spent.
func (s *Session) SkipUsed() bool { return s.skipUsed }

// TotalChars returns the characters submitted so far.
func (s *Session) TotalChars() int { return s.totalChars }

// CorrectChars returns the positionally correct characters submitted so far.
func (s *Session) CorrectChars() int { return s.totalCorrect }

// WPMSamples returns a copy of the per-submission WPM samples.
func (s *Session) WPMSamples() []int { return append([]int(nil), s.wpmSamples...) }

// LastEvent returns the outcome of the latest submit, skip or time-up.
func (s *Session) LastEvent() Event { return s.last }

// TimerActive reports whether the countdown generation is live.
func (s *Session) TimerActive() bool { return s.timer.Active() }
