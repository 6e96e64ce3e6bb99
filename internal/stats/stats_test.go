package stats

import (
	"testing"

	"github.com/verte-zerg/typestage/internal/model"
)

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("flat series should render mid glyph, got %q", got)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline")
	}
}

func TestDownsample(t *testing.T) {
	got := Downsample([]float64{1, 3, 5, 7}, 2)
	if len(got) != 2 || got[0] != 2 || got[1] != 6 {
		t.Fatalf("unexpected downsample: %v", got)
	}
	if got := Downsample([]float64{1, 2}, 5); len(got) != 2 {
		t.Fatalf("short series should be unchanged, got %v", got)
	}
}

func TestSummarize(t *testing.T) {
	sum := Summarize([]model.ResultRecord{
		{PromptsDone: 10, PromptsTotal: 10, Summary: model.ResultSummary{Score: 40, WPM: 30, Accuracy: 80}},
		{PromptsDone: 4, PromptsTotal: 10, Summary: model.ResultSummary{Score: 10, WPM: 50, Accuracy: 100}},
	})
	if sum.Count != 2 || sum.Completed != 1 {
		t.Fatalf("unexpected counts: %+v", sum)
	}
	if sum.BestScore != 40 || sum.BestWPM != 50 {
		t.Fatalf("unexpected bests: %+v", sum)
	}
	if sum.AvgScore != 25 || sum.AvgWPM != 40 || sum.AvgAccuracy != 90 {
		t.Fatalf("unexpected averages: %+v", sum)
	}
	if Summarize(nil).Count != 0 {
		t.Fatalf("expected empty summary")
	}
}
