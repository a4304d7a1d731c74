package diagfmt

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// SummaryRow is one checked schema in a directory-wide run.
type SummaryRow struct {
	Path     string
	Errors   int
	Warnings int
}

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	headStyle = lipgloss.NewStyle().Bold(true)
)

// Summary renders one status line per schema plus a totals footer:
//
//	   ok  schemas/api.zap
//	 FAIL  schemas/user.zap  (3 errors)
//
// Long paths are truncated from the left so the file name stays
// visible.
func Summary(w io.Writer, rows []SummaryRow, width int) {
	if width <= 0 {
		width = 80
	}
	pathWidth := width - 24
	if pathWidth < 20 {
		pathWidth = 20
	}

	failed := 0
	for _, row := range rows {
		status := okStyle.Render("   ok")
		suffix := ""
		switch {
		case row.Errors > 0:
			failed++
			status = failStyle.Render(" FAIL")
			suffix = fmt.Sprintf("  (%s)", plural(row.Errors, "error"))
		case row.Warnings > 0:
			status = warnStyle.Render(" warn")
			suffix = fmt.Sprintf("  (%s)", plural(row.Warnings, "warning"))
		}
		fmt.Fprintf(w, "%s  %s%s\n", status, truncateLeft(row.Path, pathWidth), suffix)
	}

	footer := fmt.Sprintf("%d checked, %d failed", len(rows), failed)
	if failed == 0 {
		footer = fmt.Sprintf("%d checked, all ok", len(rows))
	}
	fmt.Fprintf(w, "\n%s\n", headStyle.Render(footer))
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// truncateLeft keeps the tail of overly long paths.
func truncateLeft(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	for s != "" && runewidth.StringWidth(s) > width-3 {
		_, size := utf8.DecodeRuneInString(s)
		s = s[size:]
	}
	return "..." + s
}
