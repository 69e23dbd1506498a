package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/chorequest/internal/avatar"
	"github.com/idilsaglam/chorequest/internal/level"
	"github.com/idilsaglam/chorequest/internal/ui"
)

func (a *app) avatarCmd() *cobra.Command {
	var (
		svg, dataURI bool
		size         int
	)
	cmd := &cobra.Command{
		Use:   "avatar <seed>",
		Short: "Draw the pixel avatar for a user id or name",
		Args:  exactArgs(1, "avatar <seed> [--svg | --data-uri] [--size PX]"),
		RunE: func(_ *cobra.Command, args []string) error {
			if svg && dataURI {
				return usagef("avatar: --svg and --data-uri are exclusive")
			}
			if size <= 0 {
				return usagef("avatar: --size must be positive")
			}
			seed := args[0]
			switch {
			case svg:
				a.println(avatar.SVG(seed, size))
			case dataURI:
				a.println(avatar.DataURI(seed, size))
			default:
				a.println(ui.Avatar(avatar.New(seed)))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&svg, "svg", false, "print SVG markup")
	cmd.Flags().BoolVar(&dataURI, "data-uri", false, "print a data:image/svg+xml URI")
	cmd.Flags().IntVar(&size, "size", avatar.DefaultSize, "edge length in pixels for --svg and --data-uri")
	return cmd
}

func (a *app) levelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "level <points>",
		Short: "Level, title and progress for a point total",
		Args:  exactArgs(1, "level <points>"),
		RunE: func(_ *cobra.Command, args []string) error {
			pts, err := strconv.Atoi(args[0])
			if err != nil {
				return usagef("level: not a number: %s", args[0])
			}
			info := level.Compute(pts)
			a.println(ui.LevelBar(info, 20))
			a.println(a.muted(fmt.Sprintf("%s Punkte, nächstes Level bei %s",
				ui.Number(max(pts, 0)), ui.Number(info.TotalForLevel+info.RequiredXP))))
			return nil
		},
	}
}

func (a *app) themeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [dark|light|toggle]",
		Short:     "Show or change the color scheme",
		Args:      maxArgs(1, "theme [dark|light|toggle]"),
		ValidArgs: []string{"dark", "light", "toggle"},
		RunE: func(_ *cobra.Command, args []string) error {
			th := a.s.Theme
			var err error
			if len(args) == 1 {
				switch args[0] {
				case "dark":
					err = th.Set(true)
				case "light":
					err = th.Set(false)
				case "toggle":
					err = th.Toggle()
				default:
					return usagef("usage: chorequest theme [dark|light|toggle]")
				}
			}
			if err != nil {
				return fmt.Errorf("theme: %w", err)
			}
			name := "light"
			if th.Dark() {
				name = "dark"
			}
			a.ok("theme: " + name)
			return nil
		},
	}
}
