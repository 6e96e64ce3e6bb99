package game

import (
	"fmt"

	"github.com/verte-zerg/typestage/internal/model"
)

// HUD is a read-only view of the session for rendering.
type HUD struct {
	StageTitle    string
	Difficulty    Difficulty
	State         State
	Progress      string
	Score         int
	Accuracy      int
	WPM           int
	Misses        int
	Combo         int
	Time          string
	Ratio         float64
	SkipAvailable bool
	Prompt        string
}

// HUD returns the current display values.
func (s *Session) HUD() HUD {
	return HUD{
		StageTitle:    s.stage.Title,
		Difficulty:    s.difficulty,
		State:         s.state,
		Progress:      s.progressText(),
		Score:         s.score,
		Accuracy:      AccuracyPercent(s.totalCorrect, s.totalChars),
		WPM:           AverageWPM(s.wpmSamples),
		Misses:        s.misses,
		Combo:         s.combo,
		Time:          FormatClock(s.timeLeft),
		Ratio:         Ratio(s.totalCorrect, s.totalChars),
		SkipAvailable: s.state == StateRunning && !s.skipUsed,
		Prompt:        s.Prompt(),
	}
}

// Result returns the summary produced when the session finished.
func (s *Session) Result() (model.ResultSummary, bool) {
	if s.result == nil {
		return model.ResultSummary{}, false
	}
	return *s.result, true
}

// Record returns the history record of a finished session. The caller assigns the ID.
func (s *Session) Record() (model.ResultRecord, bool) {
	summary, ok := s.Result()
	if !ok {
		return model.ResultRecord{}, false
	}
	return model.ResultRecord{
		StageID:         s.stage.ID,
		Difficulty:      s.difficulty.String(),
		StartedAt:       s.startedAt,
		FinishedAt:      s.finishedAt,
		PromptsDone:     s.promptIndex,
		PromptsTotal:    len(s.stage.Prompts),
		TimeLeftSeconds: s.timeLeft,
		Summary:         summary,
	}, true
}

func (s *Session) summary() model.ResultSummary {
	return model.ResultSummary{
		Stage:    s.stage.Title,
		Progress: s.progressText(),
		Score:    s.score,
		Accuracy: AccuracyPercent(s.totalCorrect, s.totalChars),
		WPM:      AverageWPM(s.wpmSamples),
		Misses:   s.misses,
		MaxCombo: s.maxCombo,
		TimeLeft: FormatClock(s.timeLeft),
	}
}

func (s *Session) progressText() string {
	return fmt.Sprintf("%d / %d", s.promptIndex, len(s.stage.Prompts))
}
