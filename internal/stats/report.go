package stats

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/termtypr/termtypr/internal/model"
)

const fallbackWidth = 80

// Report holds derived history output for presentation.
type Report struct {
	Overall model.TypingStats
	Best    *model.GameResult
	Modes   []ModeAggregate
	Recent  []model.GameResult
	Skipped int
}

// BuildReport derives all aggregate views from loaded history. skipped is
// the count of corrupt records dropped during load; recentN bounds the
// recent-session window.
func BuildReport(results []model.GameResult, skipped, trendWindow, recentN int) Report {
	rep := Report{
		Overall: Aggregate(results, trendWindow),
		Modes:   CompareModes(results, trendWindow),
		Skipped: skipped,
	}
	for i := range results {
		// First achiever wins a tied best.
		if IsNewBest(results[i].WPM, rep.Best) {
			rep.Best = &results[i]
		}
	}
	if recentN > len(results) {
		recentN = len(results)
	}
	if recentN > 0 {
		rep.Recent = results[len(results)-recentN:]
	}
	return rep
}

// ReportWidth picks a rendering width from the terminal, falling back to 80
// columns when stdout is not a terminal.
func ReportWidth() int {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fallbackWidth
	}
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackWidth
	}
	return width
}

// RenderReport prints the plain-text stats report.
func RenderReport(w io.Writer, rep Report, width int) error {
	if rep.Overall.SessionCount == 0 {
		_, err := fmt.Fprintln(w, "No completed sessions yet.")
		return err
	}
	if width <= 0 {
		width = fallbackWidth
	}

	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Sessions: %d\n", rep.Overall.SessionCount); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg WPM: %.2f\n", rep.Overall.AverageWPM); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Accuracy: %.2f%%\n", rep.Overall.AverageAccuracy); err != nil {
		return err
	}
	if rep.Best != nil {
		if _, err := fmt.Fprintf(w, "Best: %.2f WPM (%.1f%% accuracy, %s, %s)\n",
			rep.Best.WPM, rep.Best.Accuracy, rep.Best.Mode, rep.Best.EndedAt.Format("2006-01-02")); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Trend: %s\n", FormatTrend(rep.Overall.Trend)); err != nil {
		return err
	}
	if rep.Skipped > 0 {
		if _, err := fmt.Fprintf(w, "Skipped %d corrupt history record(s).\n", rep.Skipped); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}

	if len(rep.Recent) >= 2 {
		wpms := make([]float64, len(rep.Recent))
		for i, r := range rep.Recent {
			wpms[i] = r.WPM
		}
		line := Sparkline(MovingAverage(wpms, 3))
		if utf8.RuneCountInString(line) > width {
			line = line[len(line)-width:]
		}
		if _, err := fmt.Fprintf(w, "Recent WPM (%d sessions)\n%s\n\n", len(rep.Recent), line); err != nil {
			return err
		}
	}

	if len(rep.Modes) > 0 {
		if _, err := fmt.Fprintln(w, "By Mode"); err != nil {
			return err
		}
		headers := []string{"Mode", "Sessions", "Avg WPM", "Best WPM", "Accuracy", "Trend"}
		rows := make([][]string, 0, len(rep.Modes))
		for _, m := range rep.Modes {
			rows = append(rows, []string{
				string(m.Mode),
				fmt.Sprintf("%d", m.Sessions),
				fmt.Sprintf("%.1f", m.AverageWPM),
				fmt.Sprintf("%.1f", m.BestWPM),
				fmt.Sprintf("%.1f%%", m.AverageAccuracy),
				FormatTrend(m.Trend),
			})
		}
		for _, line := range formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true, 4: true}) {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

// FormatTrend renders a trend summary as an arrow with magnitude.
func FormatTrend(t model.TrendSummary) string {
	switch t.Direction {
	case model.TrendUp:
		return fmt.Sprintf("↗ +%.1f WPM (last %d)", t.Magnitude, t.Window)
	case model.TrendDown:
		return fmt.Sprintf("↘ %.1f WPM (last %d)", t.Magnitude, t.Window)
	}
	return "→ stable"
}

func formatTable(headers []string, rows [][]string, rightAlign map[int]bool) []string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && utf8.RuneCountInString(cell) > widths[i] {
				widths[i] = utf8.RuneCountInString(cell)
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, formatRow(headers, widths, rightAlign))
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlign))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlign map[int]bool) string {
	var b strings.Builder
	for i, width := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteString("  ")
		}
		pad := width - utf8.RuneCountInString(cell)
		if pad < 0 {
			pad = 0
		}
		if rightAlign[i] {
			b.WriteString(strings.Repeat(" ", pad) + cell)
		} else {
			b.WriteString(cell + strings.Repeat(" ", pad))
		}
	}
	return strings.TrimRight(b.String(), " ")
}
