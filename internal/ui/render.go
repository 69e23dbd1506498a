package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/idilsaglam/chorequest/internal/avatar"
	"github.com/idilsaglam/chorequest/internal/model"
	"github.com/idilsaglam/chorequest/internal/toast"
)

var printer = message.NewPrinter(language.German)

// Number formats n with German digit grouping: 12.500.
func Number(n int) string {
	return printer.Sprintf("%d", n)
}

// Avatar draws the pixel grid with two terminal cells per pixel. The mono
// style draws # and spaces instead of colors.
func Avatar(a avatar.Avatar) string {
	mono := Current().Mono
	on := lipgloss.NewStyle().Background(lipgloss.Color(a.Color))
	off := lipgloss.NewStyle().Background(lipgloss.Color(avatar.Background))

	rows := make([]string, 0, avatar.GridSize)
	for _, row := range a.Grid {
		var b strings.Builder
		for _, cell := range row {
			switch {
			case mono && cell:
				b.WriteString("##")
			case mono:
				b.WriteString("  ")
			case cell:
				b.WriteString(on.Render("  "))
			default:
				b.WriteString(off.Render("  "))
			}
		}
		rows = append(rows, b.String())
	}
	return strings.Join(rows, "\n")
}

var toastIcons = map[toast.Kind]string{
	toast.Success:     "✔",
	toast.Error:       "✖",
	toast.Info:        "ℹ",
	toast.Points:      "★",
	toast.Achievement: "🏆",
}

// Toast renders one notification line.
func Toast(tt toast.Toast) string {
	t := Current()
	icon := tt.Icon
	if icon == "" {
		icon = toastIcons[tt.Kind]
	}
	style := t.Accent
	switch tt.Kind {
	case toast.Success:
		style = t.Success
	case toast.Error:
		style = t.Error
	case toast.Points:
		style = t.Points
	case toast.Achievement:
		style = t.Achievement
	}
	return style.Render(icon + " " + tt.Message)
}

// Toasts renders the queue oldest first, one per line.
func Toasts(ts []toast.Toast) string {
	lines := make([]string, 0, len(ts))
	for _, tt := range ts {
		lines = append(lines, Toast(tt))
	}
	return strings.Join(lines, "\n")
}

// UserLine is the one-line leaderboard entry: rank, name, points, streak.
func UserLine(rank int, u model.User, points int) string {
	t := Current()
	streak := ""
	if u.CurrentStreak > 0 {
		streak = t.Pending.Render(fmt.Sprintf(" %s%d", t.SymStreak, u.CurrentStreak))
	}
	return fmt.Sprintf("%s %-20s %s%s",
		t.Muted.Render(fmt.Sprintf("%2d.", rank)),
		u.Name(),
		t.Points.Render(fmt.Sprintf("%8s", Number(points))),
		streak,
	)
}

// InstanceLine renders a task instance with its status box.
func InstanceLine(in model.TaskInstanceWithDetails) string {
	t := Current()
	box, text := t.Muted.Render(t.BoxUnchecked), in.Task.Title
	switch in.Status {
	case model.StatusCompleted:
		box, text = t.Success.Render(t.BoxChecked), t.Done.Render(in.Task.Title)
	case model.StatusSkipped:
		box, text = t.Muted.Render(t.SymSkipped), t.Done.Render(in.Task.Title)
	}
	who := ""
	if in.AssignedUser != nil {
		who = t.Accent.Render(" @" + in.AssignedUser.Name())
	}
	return fmt.Sprintf("%s %s %s%s", box, text,
		t.Muted.Render(fmt.Sprintf("(%d P)", in.Task.BasePoints)), who)
}

// RenderSummary renders the markdown of a weekly summary for the terminal.
func RenderSummary(md string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	styleOpt := glamour.WithStandardStyle("light")
	if Current().Dark {
		styleOpt = glamour.WithStandardStyle("dark")
	}
	if Current().Mono {
		styleOpt = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return strings.TrimRight(out, "\n"), nil
}
