// Package cli is the chorequest command tree. Run returns an exit code:
// 0 ok, 1 error, 2 usage.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/idilsaglam/chorequest/internal/config"
	"github.com/idilsaglam/chorequest/internal/session"
	"github.com/idilsaglam/chorequest/internal/ui"
)

// usageError marks a mistake on the command line; it exits with 2.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, a ...any) error { return usageError{fmt.Sprintf(format, a...)} }

// app is what every command shares for one invocation.
type app struct {
	in       io.Reader
	out, err io.Writer

	cfgPath string
	verbose bool
	style   string

	log     *zap.Logger
	sessOpt []session.Option
	s       *session.Session
}

type Option func(*app)

// WithIO replaces stdin, stdout and stderr.
func WithIO(in io.Reader, out, errOut io.Writer) Option {
	return func(a *app) { a.in, a.out, a.err = in, out, errOut }
}

// WithLogger skips building a logger from the flags.
func WithLogger(l *zap.Logger) Option { return func(a *app) { a.log = l } }

// WithSessionOptions is passed through to session.Open.
func WithSessionOptions(opts ...session.Option) Option {
	return func(a *app) { a.sessOpt = append(a.sessOpt, opts...) }
}

// Run executes args (without the program name) and returns the exit code.
func Run(ctx context.Context, args []string, opts ...Option) int {
	a := &app{in: os.Stdin, out: os.Stdout, err: os.Stderr}
	for _, o := range opts {
		o(a)
	}
	if len(args) == 0 {
		root := a.rootCmd()
		root.SetOut(a.out)
		_ = root.Help()
		return 2
	}

	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.err)
	err := root.ExecuteContext(ctx)
	if a.log != nil {
		_ = a.log.Sync()
	}
	return a.exitCode(err)
}

func (a *app) exitCode(err error) int {
	if err == nil {
		return 0
	}
	ui.Fail(a.err, err.Error())

	var ue usageError
	switch {
	case errors.As(err, &ue):
		fmt.Fprintln(a.err, ui.Current().Muted.Render("Run `chorequest --help` for usage."))
		return 2
	case errors.Is(err, session.ErrNoUserSelected):
		fmt.Fprintln(a.err, ui.Current().Muted.Render("Hint: run `chorequest users select <id>`"))
		return 2
	case strings.HasPrefix(err.Error(), "unknown command"),
		strings.HasPrefix(err.Error(), "unknown flag"):
		return 2
	}
	return 1
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "chorequest",
		Short:         "ChoreQuest household chores from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open()
		},
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "config file (default: user config dir)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging to stderr")
	root.PersistentFlags().StringVar(&a.style, "style", "", "glyph style: classic, neon or mono")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err.Error()}
	})

	root.AddCommand(
		a.configCmd(),
		a.authCmd(),
		a.healthCmd(),
		a.dashboardCmd(),
		a.usersCmd(),
		a.roomsCmd(),
		a.tasksCmd(),
		a.todayCmd(),
		a.instancesCmd(),
		a.completeCmd(),
		a.skipCmd(),
		a.assignCmd(),
		a.leaderboardCmd(),
		a.achievementsCmd(),
		a.progressCmd(),
		a.summaryCmd(),
		a.syncCmd(),
		a.avatarCmd(),
		a.levelCmd(),
		a.themeCmd(),
	)
	return root
}

// open loads the config, builds the logger and opens the session.
func (a *app) open() error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if a.style != "" {
		cfg.Style = a.style
		if err := cfg.Validate(); err != nil {
			return usageError{err.Error()}
		}
	}
	ui.SetStyle(cfg.Style)

	if a.log == nil {
		if a.log, err = newLogger(cfg.LogLevel, a.verbose); err != nil {
			return err
		}
	}
	a.s, err = session.Open(cfg, a.log, a.sessOpt...)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	a.log.Debug("session open",
		zap.String("api_url", a.s.BaseURL()),
		zap.String("key_source", a.s.KeySource()))
	return nil
}

func newLogger(level string, verbose bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, usagef("log level %q: %v", level, err)
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.DisableStacktrace = !verbose
	l, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// exactArgs is cobra.ExactArgs with a usage line instead of cobra's text.
func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("usage: chorequest %s", usage)
		}
		return nil
	}
}

func minArgs(n int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) < n {
			return usagef("usage: chorequest %s", usage)
		}
		return nil
	}
}

func maxArgs(n int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) > n {
			return usagef("usage: chorequest %s", usage)
		}
		return nil
	}
}

// parseID parses a numeric argument.
func parseID(what, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, usagef("%s: not an id: %s", what, s)
	}
	return n, nil
}

// userOrSelected resolves an optional user argument, falling back to the
// selected user.
func (a *app) userOrSelected(args []string) (int, error) {
	if len(args) > 0 {
		return parseID("user", args[0])
	}
	return a.s.RequireSelected()
}

func (a *app) ok(msg string) { ui.OK(a.out, msg) }

func (a *app) println(s string) { fmt.Fprintln(a.out, s) }

func (a *app) muted(s string) string { return ui.Current().Muted.Render(s) }

// flushToasts prints whatever the session announced during the command.
func (a *app) flushToasts() {
	if items := a.s.Toasts.Items(); len(items) > 0 {
		a.println(ui.Toasts(items))
	}
}
