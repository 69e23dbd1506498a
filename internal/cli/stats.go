package cli

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/chorequest/internal/model"
	"github.com/idilsaglam/chorequest/internal/toast"
	"github.com/idilsaglam/chorequest/internal/ui"
)

func (a *app) healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend answers",
		Args:  exactArgs(0, "health"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := a.s.Client().Health.Check(cmd.Context())
			if err != nil {
				return err
			}
			a.ok(fmt.Sprintf("%s %s at %s: %s", h.App, h.Version, a.s.BaseURL(), h.Status))
			return nil
		},
	}
}

func (a *app) dashboardCmd() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Household overview",
		Args:  exactArgs(0, "dashboard [--watch]"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !watch {
				d, err := a.s.Client().Dashboard.Get(cmd.Context())
				if err != nil {
					return err
				}
				a.println(a.dashboardPanel(d))
				return nil
			}

			p := a.s.NewPoller(0)
			stop := p.Dashboard.Subscribe(func(d *model.Dashboard) {
				if d != nil {
					a.println(a.dashboardPanel(*d))
				}
			})
			defer stop()
			var (
				mu   sync.Mutex
				seen int
			)
			unToast := a.s.Toasts.Subscribe(func(ts []toast.Toast) {
				mu.Lock()
				defer mu.Unlock()
				for _, x := range ts {
					if x.ID > seen {
						seen = x.ID
						fmt.Fprintln(a.err, ui.Toast(x))
					}
				}
			})
			defer unToast()
			p.Run(cmd.Context())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "refresh on the poll interval until interrupted")
	return cmd
}

func (a *app) dashboardPanel(d model.Dashboard) string {
	t := ui.Current()
	lines := []string{
		t.Title.Render("ChoreQuest"),
		fmt.Sprintf("Heute fällig: %d   Überfällig: %s", d.TasksToday, overdue(d.TasksOverdue)),
		"",
	}
	for i, u := range d.Users {
		lines = append(lines, ui.UserLine(i+1, u, u.TotalPoints))
	}
	if len(d.Rooms) > 0 {
		names := make([]string, 0, len(d.Rooms))
		for _, r := range d.Rooms {
			names = append(names, r.Name)
		}
		lines = append(lines, "", a.muted("Räume: "+strings.Join(names, ", ")))
	}
	return ui.Panel(lines)
}

func overdue(n int) string {
	if n == 0 {
		return "0"
	}
	return ui.Current().Error.Render(fmt.Sprint(n))
}

func (a *app) leaderboardCmd() *cobra.Command {
	var weekly bool
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Ranking by total (or weekly) points",
		Args:  exactArgs(0, "leaderboard [--weekly]"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			g := a.s.Client().Gamification
			title := "Rangliste"
			fetch := g.Leaderboard
			if weekly {
				title, fetch = "Rangliste (Woche)", g.LeaderboardWeekly
			}
			users, err := fetch(cmd.Context())
			if err != nil {
				return err
			}
			lines := []string{ui.Current().Title.Render(title), ""}
			for i, u := range users {
				pts := u.TotalPoints
				if weekly {
					pts = u.WeeklyPoints
				}
				lines = append(lines, ui.UserLine(i+1, u, pts))
			}
			if len(users) == 0 {
				lines = append(lines, a.muted("no users"))
			}
			a.println(ui.Panel(lines))
			return nil
		},
	}
	cmd.Flags().BoolVar(&weekly, "weekly", false, "rank by this week's points")
	return cmd
}

func (a *app) achievementsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "achievements [user]",
		Short: "Unlocked achievements (all achievements when no user is known)",
		Args:  maxArgs(1, "achievements [user]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			g := a.s.Client().Gamification
			t := ui.Current()
			if len(args) == 0 && a.s.SelectedID.Get() == nil {
				all, err := g.Achievements(cmd.Context())
				if err != nil {
					return err
				}
				lines := []string{t.Title.Render("Achievements"), ""}
				for _, x := range all {
					lines = append(lines, achievementLine(x, ""))
				}
				a.println(ui.Panel(lines))
				return nil
			}

			uid, err := a.userOrSelected(args)
			if err != nil {
				return err
			}
			got, err := g.UserAchievements(cmd.Context(), uid)
			if err != nil {
				return err
			}
			lines := []string{t.Title.Render(fmt.Sprintf("Achievements von Benutzer %d", uid)), ""}
			if len(got) == 0 {
				lines = append(lines, a.muted("noch keine"))
			}
			for _, x := range got {
				lines = append(lines, achievementLine(x.Achievement, x.UnlockedAt))
			}
			a.println(ui.Panel(lines))
			return nil
		},
	}
}

func achievementLine(x model.Achievement, unlocked string) string {
	t := ui.Current()
	desc := ""
	if x.Description != nil {
		desc = t.Muted.Render(" " + *x.Description)
	}
	when := ""
	if unlocked != "" {
		when = t.Muted.Render(" (" + dateOf(unlocked) + ")")
	}
	return fmt.Sprintf("%s %s %s%s%s", t.Achievement.Render("🏆"), x.Name,
		t.Points.Render(fmt.Sprintf("+%d", x.PointsReward)), desc, when)
}

// dateOf cuts an ISO timestamp down to its date.
func dateOf(ts string) string {
	if i := strings.IndexByte(ts, 'T'); i > 0 {
		return ts[:i]
	}
	return ts
}

func (a *app) progressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress [user]",
		Short: "Progress towards every achievement",
		Args:  maxArgs(1, "progress [user]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := a.userOrSelected(args)
			if err != nil {
				return err
			}
			prog, err := a.s.Client().Gamification.UserProgress(cmd.Context(), uid)
			if err != nil {
				return err
			}
			t := ui.Current()
			lines := []string{t.Title.Render("Fortschritt"), ""}
			for _, p := range prog {
				mark := t.Muted.Render(t.BoxUnchecked)
				if p.Unlocked {
					mark = t.Success.Render(t.BoxChecked)
				}
				lines = append(lines, fmt.Sprintf("%s %-24s %s %d/%d",
					mark, p.Achievement.Name,
					ui.ProgressBar(p.CurrentValue, p.TargetValue, 16),
					p.CurrentValue, p.TargetValue))
			}
			a.println(ui.Panel(lines))
			return nil
		},
	}
}

func (a *app) summaryCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "summary", Short: "Weekly AI summaries"}

	latest := &cobra.Command{
		Use:   "latest",
		Short: "Show the newest summary",
		Args:  exactArgs(0, "summary latest"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.s.Client().Summaries.Latest(cmd.Context())
			if err != nil {
				return err
			}
			return a.printSummary(s)
		},
	}

	var limit int
	ls := &cobra.Command{
		Use:   "ls",
		Short: "List summaries, newest first",
		Args:  exactArgs(0, "summary ls [--limit N]"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := a.s.Client().Summaries.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			lines := []string{ui.Current().Title.Render("Wochenberichte"), ""}
			for _, s := range list {
				lines = append(lines, fmt.Sprintf("%3d  %s bis %s  %s", s.ID, s.WeekStart, s.WeekEnd,
					a.muted(fmt.Sprintf("%d Vorschläge", len(s.SuggestedTasks)))))
			}
			if len(list) == 0 {
				lines = append(lines, a.muted("no summaries"))
			}
			a.println(ui.Panel(lines))
			return nil
		},
	}
	ls.Flags().IntVar(&limit, "limit", 0, "at most N summaries (server default when 0)")

	var week string
	gen := &cobra.Command{
		Use:   "generate",
		Short: "Ask the backend to write a summary",
		Args:  exactArgs(0, "summary generate [--week YYYY-MM-DD]"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.s.Client().Summaries.Generate(cmd.Context(), week)
			if err != nil {
				return err
			}
			if err := a.printSummary(res.Summary); err != nil {
				return err
			}
			a.println(a.muted(fmt.Sprintf("%d tokens", res.TokensUsed)))
			return nil
		},
	}
	gen.Flags().StringVar(&week, "week", "", "Monday of the week (default: last completed week)")

	cmd.AddCommand(latest, ls, gen)
	return cmd
}

func (a *app) printSummary(s model.WeeklySummary) error {
	var md strings.Builder
	fmt.Fprintf(&md, "# Woche %s bis %s\n\n", s.WeekStart, s.WeekEnd)
	if s.SummaryText != nil {
		md.WriteString(*s.SummaryText)
		md.WriteString("\n\n")
	}
	if len(s.SuggestedTasks) > 0 {
		md.WriteString("## Vorschläge\n\n")
		for _, t := range s.SuggestedTasks {
			fmt.Fprintf(&md, "- **%s** (%s, %d min): %s\n", t.Title, t.RoomName, t.EstimatedMinutes, t.Reason)
		}
	}
	out, err := ui.RenderSummary(md.String(), 80)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, out)
	return nil
}
