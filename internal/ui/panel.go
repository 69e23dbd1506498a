package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/chorequest/internal/level"
)

// Panel frames lines in the current theme's border.
func Panel(lines []string) string {
	t := Current()
	return lipgloss.NewStyle().
		Border(t.Frame).
		BorderForeground(t.Border.GetForeground()).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// ProgressBar renders a bar with percentage.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	return bar(float64(done)/float64(total)*100, width)
}

// LevelBar shows progress towards the next level, e.g.
// "Lv 5 Ordnungs-Geselle ██████░░░░  50% 250/500 XP".
func LevelBar(info level.Info, width int) string {
	t := Current()
	return fmt.Sprintf("%s %s %s %s",
		t.Accent.Render(fmt.Sprintf("Lv %d", info.Level)),
		t.Title.Render(info.Title),
		bar(info.Progress, width),
		t.Muted.Render(fmt.Sprintf("%s/%s XP", Number(info.CurrentXP), Number(info.RequiredXP))),
	)
}

func bar(pct float64, width int) string {
	t := Current()
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(pct / 100 * float64(width))
	return strings.Repeat(t.Bar, filled) + strings.Repeat(t.BarEmpty, width-filled) +
		fmt.Sprintf(" %3d%%", int(pct))
}

// OK and Fail print one-line status messages.
func OK(w io.Writer, msg string) {
	fmt.Fprintln(w, Current().Success.Render(Current().SymDone+" "+msg))
}

func Fail(w io.Writer, msg string) {
	fmt.Fprintln(w, Current().Error.Render("✖ "+msg))
}
