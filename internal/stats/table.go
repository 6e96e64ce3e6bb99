package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typestage/internal/model"
)

const finishedLayout = "2006-01-02 15:04"

// RenderHistoryTable prints one row per result, oldest first.
func RenderHistoryTable(w io.Writer, results []model.ResultRecord) error {
	if len(results) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Results"); err != nil {
		return err
	}
	headers := []string{"Finished", "Stage", "Difficulty", "Progress", "Score", "Accuracy", "WPM", "Misses", "Max Combo", "Time Left"}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.FinishedAt.Local().Format(finishedLayout),
			r.Summary.Stage,
			r.Difficulty,
			r.Summary.Progress,
			fmt.Sprintf("%d", r.Summary.Score),
			fmt.Sprintf("%d%%", r.Summary.Accuracy),
			fmt.Sprintf("%d", r.Summary.WPM),
			fmt.Sprintf("%d", r.Summary.Misses),
			fmt.Sprintf("%d", r.Summary.MaxCombo),
			r.Summary.TimeLeft,
		})
	}
	rightAlign := map[int]bool{3: true, 4: true, 5: true, 6: true, 7: true, 8: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = displayWidth(header)
	}
	for _, row := range rows {
		for i := 0; i < colCount; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if w := displayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlignCols))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(padCell(cell, widths[i], rightAlignCols[i]))
	}
	return b.String()
}

func padCell(value string, width int, rightAlign bool) string {
	valueWidth := displayWidth(value)
	if valueWidth >= width {
		return value
	}
	padding := width - valueWidth
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}

func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
