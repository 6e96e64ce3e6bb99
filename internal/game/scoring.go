package game

import (
	"math"
	"time"
)

const (
	minHitScore   = 5
	maxTimeBonus  = 20
	skipPenalty   = 15
	missTimeCost  = 2
	charsPerWord  = 5.0
	minWPMMinutes = 0.001
)

// Grade is the comparison of one submission against its prompt.
type Grade struct {
	Typed   int
	Correct int
	Exact   bool
}

// GradeInput compares input with target position by position. A character counts as
// correct only when it matches the target rune at the same index; there is no
// alignment, so an inserted character makes every later position wrong.
func GradeInput(input, target string) Grade {
	in := []rune(input)
	tg := []rune(target)
	n := len(in)
	if len(tg) < n {
		n = len(tg)
	}
	correct := 0
	for i := 0; i < n; i++ {
		if in[i] == tg[i] {
			correct++
		}
	}
	return Grade{Typed: len(in), Correct: correct, Exact: input == target}
}

// WPMSample returns the instantaneous words per minute for typed characters over elapsed.
func WPMSample(typed int, elapsed time.Duration) int {
	minutes := math.Max(elapsed.Minutes(), minWPMMinutes)
	return int(math.Round((float64(typed) / charsPerWord) / minutes))
}

// HitScore returns the points for an exact match. combo is the streak including this hit.
func HitScore(targetLen, combo, timeLeft int, p Profile) int {
	base := targetLen * 2
	if base < minHitScore {
		base = minHitScore
	}
	bonus := p.ComboBonus * max(0, combo-1)
	return base + bonus + clamp(timeLeft, 0, maxTimeBonus)
}

// Penalize subtracts penalty from score without going below zero.
func Penalize(score, penalty int) int {
	return max(0, score-penalty)
}

// AccuracyPercent returns correct/typed as a rounded percentage, or 0 when nothing was typed.
func AccuracyPercent(correct, typed int) int {
	if typed <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(typed) * 100))
}

// AverageWPM returns the rounded arithmetic mean of samples, or 0 with no samples.
func AverageWPM(samples []int) int {
	if len(samples) == 0 {
		return 0
	}
	sum := 0
	for _, s := range samples {
		sum += s
	}
	return int(math.Round(float64(sum) / float64(len(samples))))
}

// Ratio returns correct/typed clamped to [0, 1].
func Ratio(correct, typed int) float64 {
	if typed <= 0 {
		return 0
	}
	r := float64(correct) / float64(typed)
	return math.Max(0, math.Min(1, r))
}

// SplitPrompt divides target for live feedback: the prefix input matches exactly,
// the character at the cursor, and the rest. The prefix stops at the first mismatch.
func SplitPrompt(target, input string) (done, current, remaining string) {
	tg := []rune(target)
	in := []rune(input)
	i := 0
	for i < len(in) && i < len(tg) && in[i] == tg[i] {
		i++
	}
	if i >= len(tg) {
		return target, "", ""
	}
	return string(tg[:i]), string(tg[i]), string(tg[i+1:])
}

func clamp(n, lo, hi int) int {
	return max(lo, min(hi, n))
}
