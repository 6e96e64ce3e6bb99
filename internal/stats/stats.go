// Package stats contains history calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/typestage/internal/model"
)

const (
	sparkChars      = " .:-=+*#%@"
	curveLabelWidth = 10
	minCurveWidth   = 10
)

// Summary aggregates a set of finished sessions.
type Summary struct {
	Count       int
	AvgScore    float64
	BestScore   int
	AvgWPM      float64
	BestWPM     int
	AvgAccuracy float64
	Completed   int
}

// Summarize computes aggregate values over results.
func Summarize(results []model.ResultRecord) Summary {
	var sum Summary
	if len(results) == 0 {
		return sum
	}
	var totalScore, totalWPM, totalAcc int
	for i, r := range results {
		totalScore += r.Summary.Score
		totalWPM += r.Summary.WPM
		totalAcc += r.Summary.Accuracy
		if i == 0 || r.Summary.Score > sum.BestScore {
			sum.BestScore = r.Summary.Score
		}
		if r.Summary.WPM > sum.BestWPM {
			sum.BestWPM = r.Summary.WPM
		}
		if r.PromptsTotal > 0 && r.PromptsDone >= r.PromptsTotal {
			sum.Completed++
		}
	}
	count := float64(len(results))
	sum.Count = len(results)
	sum.AvgScore = float64(totalScore) / count
	sum.AvgWPM = float64(totalWPM) / count
	sum.AvgAccuracy = float64(totalAcc) / count
	return sum
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := minMax(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Downsample averages values into at most width buckets.
func Downsample(values []float64, width int) []float64 {
	if width <= 0 || len(values) == 0 {
		return nil
	}
	if len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		if end <= start {
			end = start + 1
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

// RenderSummary prints aggregate values for results.
func RenderSummary(w io.Writer, results []model.ResultRecord) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}
	sum := Summarize(results)
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d (%d completed)", sum.Count, sum.Completed),
		fmt.Sprintf("Avg Score: %.1f", sum.AvgScore),
		fmt.Sprintf("Best Score: %d", sum.BestScore),
		fmt.Sprintf("Avg WPM: %.1f", sum.AvgWPM),
		fmt.Sprintf("Best WPM: %d", sum.BestWPM),
		fmt.Sprintf("Avg Accuracy: %.1f%%", sum.AvgAccuracy),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints moving-average sparklines for score, WPM and accuracy,
// fitted to totalWidth columns (0 means unbounded).
func RenderCurves(w io.Writer, results []model.ResultRecord, window, totalWidth int) error {
	if len(results) == 0 {
		return nil
	}
	scores := make([]float64, len(results))
	wpms := make([]float64, len(results))
	accs := make([]float64, len(results))
	for i, r := range results {
		scores[i] = float64(r.Summary.Score)
		wpms[i] = float64(r.Summary.WPM)
		accs[i] = float64(r.Summary.Accuracy)
	}
	width := len(results)
	if totalWidth > 0 {
		width = max(minCurveWidth, totalWidth-curveLabelWidth)
	}
	if _, err := fmt.Fprintf(w, "Learning Curves (window %d)\n", max(window, 1)); err != nil {
		return err
	}
	curves := []struct {
		name   string
		values []float64
	}{
		{"Score", scores},
		{"WPM", wpms},
		{"Accuracy", accs},
	}
	for _, c := range curves {
		smoothed := MovingAverage(c.values, window)
		lo, hi := minMax(smoothed)
		line := fmt.Sprintf("%-*s%s", curveLabelWidth, c.name, Sparkline(Downsample(smoothed, width)))
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%*s%.1f .. %.1f\n", curveLabelWidth, "", lo, hi); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func minMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}
