package stats

import (
	"context"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/verte-zerg/typestage/internal/model"
	"github.com/verte-zerg/typestage/internal/store"
)

const terminalWidthBackup = 80

// Report contains precomputed data for history rendering.
type Report struct {
	Results []model.ResultRecord
	Window  []model.ResultRecord
}

// BuildReport loads and prepares data for history rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.HistoryConfig) (Report, error) {
	results, err := st.ListResults(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(results) > cfg.Last {
		results = results[len(results)-cfg.Last:]
	}
	return Report{
		Results: results,
		Window:  lastResults(results, cfg.CurveWindow),
	}, nil
}

// Render writes the summary, the results table and the learning curves.
func (r Report) Render(w io.Writer, window, totalWidth int) error {
	if err := RenderSummary(w, r.Results); err != nil {
		return err
	}
	if len(r.Results) == 0 {
		return nil
	}
	if err := RenderHistoryTable(w, r.Window); err != nil {
		return err
	}
	return RenderCurves(w, r.Results, window, totalWidth)
}

// TerminalWidth reports the width of stdout, or a fallback when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func lastResults(results []model.ResultRecord, window int) []model.ResultRecord {
	if window <= 0 || len(results) <= window {
		return results
	}
	return results[len(results)-window:]
}
