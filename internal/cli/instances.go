package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/chorequest/internal/api"
	"github.com/idilsaglam/chorequest/internal/model"
	"github.com/idilsaglam/chorequest/internal/tui"
	"github.com/idilsaglam/chorequest/internal/ui"
)

func (a *app) todayCmd() *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "today",
		Short: "Today's chores (interactive)",
		Args:  exactArgs(0, "today [--plain]"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !plain {
				return tui.Run(cmd.Context(), a.s)
			}
			today, err := a.s.Client().Instances.Today(cmd.Context())
			if err != nil {
				return err
			}
			a.println(a.instancePanel("Heute", today))
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print the list instead of starting the interactive view")
	return cmd
}

func (a *app) instancePanel(title string, in []model.TaskInstanceWithDetails) string {
	t := ui.Current()
	done := 0
	for _, x := range in {
		if x.Status != model.StatusPending {
			done++
		}
	}
	lines := []string{
		fmt.Sprintf("%s  %s %d  %s %d", t.Title.Render(title),
			t.Success.Render(t.SymDone), done, t.Pending.Render(t.SymPending), len(in)-done),
		a.muted(ui.ProgressBar(done, len(in), 28)),
		"",
	}
	if len(in) == 0 {
		lines = append(lines, a.muted("nothing to do"))
	}
	for _, x := range in {
		lines = append(lines, fmt.Sprintf("%s %s", a.muted(fmt.Sprintf("%4d.", x.ID)), ui.InstanceLine(x)))
	}
	return ui.Panel(lines)
}

func (a *app) instancesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "instances", Short: "Scheduled task occurrences"}

	var (
		room, user int
		status     string
		due        string
	)
	ls := &cobra.Command{
		Use:   "ls",
		Short: "List instances",
		Args:  exactArgs(0, "instances ls [--room ID] [--user ID] [--status pending|completed|skipped] [--due YYYY-MM-DD]"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			var f api.InstanceFilter
			if cmd.Flags().Changed("room") {
				f.RoomID = &room
			}
			if cmd.Flags().Changed("user") {
				f.UserID = &user
			}
			switch s := model.TaskStatus(status); s {
			case "", model.StatusPending, model.StatusCompleted, model.StatusSkipped:
				f.Status = s
			default:
				return usagef("instances ls: unknown status %q", status)
			}
			if due != "" {
				if _, err := time.Parse(time.DateOnly, due); err != nil {
					return usagef("instances ls: --due wants YYYY-MM-DD, got %q", due)
				}
				f.DueDate = due
			}
			in, err := a.s.Client().Instances.List(cmd.Context(), f)
			if err != nil {
				return err
			}
			a.println(a.instancePanel("Instanzen", in))
			return nil
		},
	}
	ls.Flags().IntVar(&room, "room", 0, "room id")
	ls.Flags().IntVar(&user, "user", 0, "assigned user id")
	ls.Flags().StringVar(&status, "status", "", "pending, completed or skipped")
	ls.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")

	cmd.AddCommand(ls)
	return cmd
}

func (a *app) completeCmd() *cobra.Command {
	var notes string
	cmd := &cobra.Command{
		Use:   "complete <instance>",
		Short: "Mark an instance done as the selected user",
		Args:  exactArgs(1, "complete <instance> [--notes TEXT]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			iid, err := parseID("instance", args[0])
			if err != nil {
				return err
			}
			res, err := a.s.Complete(cmd.Context(), iid, notes)
			if err != nil {
				return err
			}
			a.flushToasts()
			if res.Streak.CurrentStreak > 0 {
				a.println(a.muted(fmt.Sprintf("%s Streak %d", ui.Current().SymStreak, res.Streak.CurrentStreak)))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&notes, "notes", "", "note stored with the completion")
	return cmd
}

func (a *app) skipCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "skip <instance>",
		Short: "Skip an instance",
		Args:  exactArgs(1, "skip <instance>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			iid, err := parseID("instance", args[0])
			if err != nil {
				return err
			}
			if err := a.s.Skip(cmd.Context(), iid, ""); err != nil {
				return err
			}
			a.flushToasts()
			return nil
		},
	}
}

func (a *app) assignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign <instance> <user>",
		Short: "Assign an instance to a user",
		Args:  exactArgs(2, "assign <instance> <user>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			iid, err := parseID("instance", args[0])
			if err != nil {
				return err
			}
			uid, err := parseID("user", args[1])
			if err != nil {
				return err
			}
			in, err := a.s.Client().Instances.Assign(cmd.Context(), iid, uid)
			if err != nil {
				return err
			}
			a.ok(fmt.Sprintf("assigned %s to user %d", in.Task.Title, uid))
			return nil
		},
	}
}
