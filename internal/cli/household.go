package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/chorequest/internal/api"
	"github.com/idilsaglam/chorequest/internal/avatar"
	"github.com/idilsaglam/chorequest/internal/level"
	"github.com/idilsaglam/chorequest/internal/model"
	"github.com/idilsaglam/chorequest/internal/ui"
)

func (a *app) usersCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "Household members"}

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List users; * marks the selected one",
		Args:  exactArgs(0, "users ls"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			users, err := a.s.RefreshUsers(cmd.Context())
			if err != nil {
				return err
			}
			sel := a.s.SelectedUser.Get()
			lines := []string{ui.Current().Title.Render("Benutzer"), ""}
			if len(users) == 0 {
				lines = append(lines, a.muted("no users"))
			}
			for _, u := range users {
				mark := " "
				if sel != nil && sel.ID == u.ID {
					mark = ui.Current().Accent.Render("*")
				}
				info := level.Compute(u.TotalPoints)
				lines = append(lines, fmt.Sprintf("%s %3d  %-20s Lv %-3d %s P",
					mark, u.ID, u.Name(), info.Level, ui.Number(u.TotalPoints)))
			}
			a.println(ui.Panel(lines))
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show [id]",
		Short: "Profile and statistics (default: selected user)",
		Args:  maxArgs(1, "users show [id]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := a.userOrSelected(args)
			if err != nil {
				return err
			}
			st, err := a.s.Client().Users.Stats(cmd.Context(), uid)
			if err != nil {
				return err
			}
			a.println(a.profile(st))
			return nil
		},
	}

	var display string
	add := &cobra.Command{
		Use:   "add <username>",
		Short: "Create a user",
		Args:  exactArgs(1, "users add <username> [--display-name NAME]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := model.UserCreate{Username: strings.TrimSpace(args[0])}
			if in.Username == "" {
				return usagef("users add: empty username")
			}
			if display != "" {
				in.DisplayName = &display
			}
			u, err := a.s.Client().Users.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			a.ok(fmt.Sprintf("created user %d (%s)", u.ID, u.Name()))
			return nil
		},
	}
	add.Flags().StringVar(&display, "display-name", "", "name shown instead of the username")

	sel := &cobra.Command{
		Use:   "select <id>",
		Short: "Act as this user from now on",
		Args:  exactArgs(1, "users select <id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := parseID("user", args[0])
			if err != nil {
				return err
			}
			u, err := a.s.SelectUser(cmd.Context(), uid)
			if err != nil {
				return err
			}
			a.ok("selected " + u.Name())
			return nil
		},
	}

	rename := &cobra.Command{
		Use:   "rename <id> <display name...>",
		Short: "Change a user's display name",
		Args:  minArgs(2, "users rename <id> <display name...>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := parseID("user", args[0])
			if err != nil {
				return err
			}
			name := strings.TrimSpace(strings.Join(args[1:], " "))
			u, err := a.s.Client().Users.Update(cmd.Context(), uid, model.UserUpdate{DisplayName: &name})
			if err != nil {
				return err
			}
			a.ok("renamed to " + u.Name())
			return nil
		},
	}

	cmd.AddCommand(ls, show, add, sel, rename)
	return cmd
}

func (a *app) profile(st model.UserStats) string {
	t := ui.Current()
	u := st.User
	fav := "-"
	if st.FavoriteRoom != nil {
		fav = *st.FavoriteRoom
	}
	facts := []string{
		t.Title.Render(u.Name()) + a.muted(" @"+u.Username),
		ui.LevelBar(level.Compute(u.TotalPoints), 20),
		"",
		fmt.Sprintf("Punkte:        %s (Woche %s)", ui.Number(u.TotalPoints), ui.Number(u.WeeklyPoints)),
		fmt.Sprintf("Streak:        %d (Rekord %d)", u.CurrentStreak, u.LongestStreak),
		fmt.Sprintf("Erledigt:      %s (Woche %s)", ui.Number(st.TasksCompletedTotal), ui.Number(st.TasksCompletedThisWeek)),
		fmt.Sprintf("Lieblingsraum: %s", fav),
		fmt.Sprintf("Achievements:  %d", st.AchievementsCount),
	}
	return ui.Panel([]string{lipgloss.JoinHorizontal(lipgloss.Top,
		ui.Avatar(avatar.New(u.ID)), "  ", strings.Join(facts, "\n"))})
}

func (a *app) roomsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "rooms", Short: "Rooms and their point multipliers"}

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List rooms",
		Args:  exactArgs(0, "rooms ls"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			rooms, err := a.s.Client().Rooms.List(cmd.Context())
			if err != nil {
				return err
			}
			lines := []string{ui.Current().Title.Render("Räume"), ""}
			if len(rooms) == 0 {
				lines = append(lines, a.muted("no rooms"))
			}
			for _, r := range rooms {
				lines = append(lines, fmt.Sprintf("%3d  %-20s x%.1f %s",
					r.ID, r.Name, r.PointMultiplier, a.muted(r.Icon)))
			}
			a.println(ui.Panel(lines))
			return nil
		},
	}

	var (
		icon       string
		multiplier float64
	)
	add := &cobra.Command{
		Use:   "add <name...>",
		Short: "Create a room",
		Args:  minArgs(1, "rooms add <name...> [--icon ICON] [--multiplier X]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := model.RoomCreate{Name: strings.TrimSpace(strings.Join(args, " ")), Icon: icon}
			if cmd.Flags().Changed("multiplier") {
				in.PointMultiplier = &multiplier
			}
			r, err := a.s.Client().Rooms.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			a.ok(fmt.Sprintf("created room %d (%s)", r.ID, r.Name))
			return nil
		},
	}
	add.Flags().StringVar(&icon, "icon", "", "Material Design icon name, e.g. mdi:sofa")
	add.Flags().Float64Var(&multiplier, "multiplier", 1, "point multiplier for tasks in this room")

	rename := &cobra.Command{
		Use:   "rename <id> <name...>",
		Short: "Rename a room",
		Args:  minArgs(2, "rooms rename <id> <name...>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			rid, err := parseID("room", args[0])
			if err != nil {
				return err
			}
			name := strings.TrimSpace(strings.Join(args[1:], " "))
			r, err := a.s.Client().Rooms.Update(cmd.Context(), rid, model.RoomUpdate{Name: &name})
			if err != nil {
				return err
			}
			a.ok("renamed to " + r.Name)
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a room",
		Args:  exactArgs(1, "rooms rm <id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			rid, err := parseID("room", args[0])
			if err != nil {
				return err
			}
			if err := a.s.Client().Rooms.Delete(cmd.Context(), rid); err != nil {
				return err
			}
			a.ok("removed")
			return nil
		},
	}

	cmd.AddCommand(ls, add, rename, rm)
	return cmd
}

func (a *app) tasksCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "tasks", Short: "Task templates"}

	var (
		room   int
		active bool
	)
	ls := &cobra.Command{
		Use:   "ls",
		Short: "List tasks",
		Args:  exactArgs(0, "tasks ls [--room ID] [--active=true|false]"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			var f api.TaskFilter
			if cmd.Flags().Changed("room") {
				f.RoomID = &room
			}
			if cmd.Flags().Changed("active") {
				f.IsActive = &active
			}
			tasks, err := a.s.Client().Tasks.List(cmd.Context(), f)
			if err != nil {
				return err
			}
			lines := []string{ui.Current().Title.Render("Aufgaben"), ""}
			if len(tasks) == 0 {
				lines = append(lines, a.muted("no tasks"))
			}
			for _, t := range tasks {
				lines = append(lines, taskLine(t))
			}
			a.println(ui.Panel(lines))
			return nil
		},
	}
	ls.Flags().IntVar(&room, "room", 0, "only tasks of this room")
	ls.Flags().BoolVar(&active, "active", true, "only active (true) or inactive (false) tasks")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task",
		Args:  exactArgs(1, "tasks show <id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			tid, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			t, err := a.s.Client().Tasks.Get(cmd.Context(), tid)
			if err != nil {
				return err
			}
			lines := []string{taskLine(t)}
			if t.Description != nil && *t.Description != "" {
				lines = append(lines, "", *t.Description)
			}
			lines = append(lines, "", a.muted(fmt.Sprintf("room %d, %d min, created %s", t.RoomID, t.EstimatedMinutes, t.CreatedAt)))
			a.println(ui.Panel(lines))
			return nil
		},
	}

	var (
		addRoom, points, minutes, day int
		recurrence, desc              string
	)
	add := &cobra.Command{
		Use:   "add <title...>",
		Short: "Create a task",
		Args:  minArgs(1, "tasks add <title...> --room ID [--points N] [--minutes N] [--recurrence once|daily|weekly|monthly] [--day N]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if addRoom < 1 {
				return usagef("tasks add: --room is required")
			}
			in := model.TaskCreate{
				Title:  strings.TrimSpace(strings.Join(args, " ")),
				RoomID: addRoom,
			}
			if in.Title == "" {
				return usagef("tasks add: empty title")
			}
			switch r := model.Recurrence(recurrence); r {
			case "", model.RecurrenceOnce, model.RecurrenceDaily, model.RecurrenceWeekly, model.RecurrenceMonthly:
				in.Recurrence = r
			default:
				return usagef("tasks add: unknown recurrence %q", recurrence)
			}
			if cmd.Flags().Changed("points") {
				in.BasePoints = &points
			}
			if cmd.Flags().Changed("minutes") {
				in.EstimatedMinutes = &minutes
			}
			if cmd.Flags().Changed("day") {
				in.RecurrenceDay = &day
			}
			if desc != "" {
				in.Description = &desc
			}
			t, err := a.s.Client().Tasks.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			a.ok(fmt.Sprintf("created task %d (%s)", t.ID, t.Title))
			return nil
		},
	}
	add.Flags().IntVar(&addRoom, "room", 0, "room id")
	add.Flags().IntVar(&points, "points", 10, "base points")
	add.Flags().IntVar(&minutes, "minutes", 15, "estimated minutes")
	add.Flags().StringVar(&recurrence, "recurrence", "", "once, daily, weekly or monthly")
	add.Flags().IntVar(&day, "day", 0, "weekday (0-6) or day of month for recurring tasks")
	add.Flags().StringVar(&desc, "description", "", "longer description")

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  exactArgs(1, "tasks rm <id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			tid, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			if err := a.s.Client().Tasks.Delete(cmd.Context(), tid); err != nil {
				return err
			}
			a.ok("removed")
			return nil
		},
	}

	deactivate := &cobra.Command{
		Use:   "deactivate <id>",
		Short: "Stop scheduling a task without deleting it",
		Args:  exactArgs(1, "tasks deactivate <id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			tid, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			off := false
			t, err := a.s.Client().Tasks.Update(cmd.Context(), tid, model.TaskUpdate{IsActive: &off})
			if err != nil {
				return err
			}
			a.ok("deactivated " + t.Title)
			return nil
		},
	}

	cmd.AddCommand(ls, show, add, rm, deactivate)
	return cmd
}

func taskLine(t model.Task) string {
	th := ui.Current()
	state := ""
	if !t.IsActive {
		state = th.Muted.Render(" (inaktiv)")
	}
	return fmt.Sprintf("%3d  %-28s %s %s%s", t.ID, t.Title,
		th.Points.Render(fmt.Sprintf("%3d P", t.BasePoints)),
		th.Muted.Render(string(t.Recurrence)), state)
}

// syncFile is the YAML accepted by `sync`: Home Assistant areas and persons.
type syncFile struct {
	Areas []struct {
		ID   string `yaml:"area_id"`
		Name string `yaml:"name"`
	} `yaml:"areas"`
	Persons []struct {
		ID   string `yaml:"person_id"`
		Name string `yaml:"name"`
	} `yaml:"persons"`
}

func (a *app) syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync <file.yaml>",
		Short: "Push Home Assistant areas and persons as rooms and users",
		Args:  exactArgs(1, "sync <file.yaml>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			var f syncFile
			if err := yaml.Unmarshal(b, &f); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			if len(f.Areas) == 0 && len(f.Persons) == 0 {
				return usagef("sync: %s lists no areas and no persons", args[0])
			}

			if len(f.Areas) > 0 {
				areas := make([]model.Area, 0, len(f.Areas))
				for _, x := range f.Areas {
					areas = append(areas, model.Area{AreaID: x.ID, Name: x.Name})
				}
				res, err := a.s.Client().Rooms.Sync(cmd.Context(), areas)
				if err != nil {
					return fmt.Errorf("rooms: %w", err)
				}
				a.ok(fmt.Sprintf("rooms: %d created, %d updated", len(res.Created), len(res.Updated)))
				a.warnings(res.Warnings)
			}
			if len(f.Persons) > 0 {
				persons := make([]model.Person, 0, len(f.Persons))
				for _, x := range f.Persons {
					persons = append(persons, model.Person{PersonID: x.ID, Name: x.Name})
				}
				res, err := a.s.Client().Users.Sync(cmd.Context(), persons)
				if err != nil {
					return fmt.Errorf("users: %w", err)
				}
				a.ok(fmt.Sprintf("users: %d created, %d updated", len(res.Created), len(res.Updated)))
				a.warnings(res.Warnings)
			}
			return nil
		},
	}
}

func (a *app) warnings(ws []string) {
	for _, w := range ws {
		a.println(ui.Current().Pending.Render("! " + w))
	}
}
