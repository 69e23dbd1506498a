package ui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from the current theme.
type Theme struct {
	Dark bool
	Mono bool // no colors, ASCII glyphs

	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Selected, Done, Help, Border                  lipgloss.Style
	Points, Achievement                           lipgloss.Style

	BoxUnchecked, BoxChecked string
	SymDone, SymPending      string
	SymSkipped, SymStreak    string
	Frame                    lipgloss.Border
	Bar, BarEmpty            string
}

var (
	mu        sync.RWMutex
	styleName = "classic"
	dark      bool
	current   = build("classic", false)
)

// SetStyle picks the glyph set: classic, neon or mono. Unknown names fall
// back to classic.
func SetStyle(name string) {
	mu.Lock()
	defer mu.Unlock()
	styleName = strings.ToLower(name)
	current = build(styleName, dark)
}

// SetDark switches the palette. It is the side effect of the persisted
// dark-mode flag.
func SetDark(on bool) {
	mu.Lock()
	defer mu.Unlock()
	dark = on
	current = build(styleName, dark)
}

// Current exposes what renderers need.
func Current() Theme {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

type palette struct {
	title, muted, accent, success, err, pending, points, achievement, border string
}

var (
	lightPalette = palette{
		title: "0", muted: "8", accent: "12", success: "28", err: "160",
		pending: "166", points: "172", achievement: "92", border: "8",
	}
	darkPalette = palette{
		title: "15", muted: "245", accent: "81", success: "42", err: "9",
		pending: "214", points: "220", achievement: "177", border: "240",
	}
	neonPalette = palette{
		title: "201", muted: "245", accent: "51", success: "46", err: "196",
		pending: "226", points: "226", achievement: "201", border: "201",
	}
)

func build(name string, isDark bool) Theme {
	p := lightPalette
	if isDark {
		p = darkPalette
	}

	t := Theme{
		Dark:         isDark,
		BoxUnchecked: "☐", BoxChecked: "☑",
		SymDone: "✔", SymPending: "•", SymSkipped: "↷", SymStreak: "🔥",
		Frame: lipgloss.RoundedBorder(),
		Bar:   "█", BarEmpty: "░",
	}

	switch name {
	case "neon":
		p = neonPalette
		t.BoxUnchecked, t.BoxChecked = "◻", "◼"
	case "mono":
		t.Mono = true
		t.BoxUnchecked, t.BoxChecked = "[ ]", "[x]"
		t.SymDone, t.SymPending, t.SymSkipped, t.SymStreak = "x", "-", ">", "*"
		t.Frame = lipgloss.NormalBorder()
		t.Bar, t.BarEmpty = "#", "."
	}

	color := func(c string) lipgloss.Style {
		if name == "mono" {
			return lipgloss.NewStyle()
		}
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}

	t.Title = color(p.title).Bold(true)
	t.Muted = color(p.muted).Faint(name != "mono")
	t.Accent = color(p.accent)
	t.Success = color(p.success)
	t.Error = color(p.err).Bold(true)
	t.Pending = color(p.pending)
	t.Points = color(p.points).Bold(true)
	t.Achievement = color(p.achievement).Bold(true)
	t.Selected = lipgloss.NewStyle().Bold(true).Reverse(true)
	t.Done = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	t.Help = lipgloss.NewStyle().Faint(true)
	t.Border = color(p.border)
	return t
}
