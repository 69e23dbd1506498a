package cli

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/chorequest/internal/api"
	"github.com/idilsaglam/chorequest/internal/config"
	"github.com/idilsaglam/chorequest/internal/store/jsonstore"
)

const keyEnv = "CHOREQUEST_API_KEY"

func stripBearer(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}

// mask keeps the last four characters of a key.
func mask(key string) string {
	if key == "" {
		return "(none)"
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

func (a *app) authCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "auth", Short: "Manage the API key"}

	var noVerify bool
	login := &cobra.Command{
		Use:   "login",
		Short: "Store an API key (read from stdin)",
		Args:  exactArgs(0, "auth login"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprint(a.out, "Paste your API key: ")
			sc := bufio.NewScanner(a.in)
			if !sc.Scan() {
				if err := sc.Err(); err != nil {
					return fmt.Errorf("read key: %w", err)
				}
				return usagef("auth login: no key given")
			}
			fmt.Fprintln(a.out)
			return a.login(cmd, sc.Text(), !noVerify)
		},
	}
	login.Flags().BoolVar(&noVerify, "no-verify", false, "store without asking the backend")

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored API key",
		Args:  exactArgs(0, "auth logout"),
		RunE: func(*cobra.Command, []string) error {
			if a.s.KeySource() == "env" {
				a.ok("API key comes from " + keyEnv + " (nothing to delete)")
				return nil
			}
			if err := a.s.APIKey.Set(""); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			a.ok("logged out")
			return nil
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show where the API key comes from",
		Args:  exactArgs(0, "auth status"),
		RunE: func(*cobra.Command, []string) error {
			if a.s.KeySource() == "" {
				a.println(a.muted("not logged in"))
				a.println("Run: chorequest auth login")
				return nil
			}
			fmt.Fprintf(a.out, "source: %s\n", a.s.KeySource())
			fmt.Fprintf(a.out, "key: %s\n", mask(a.s.Key()))
			fmt.Fprintf(a.out, "api: %s\n", a.s.BaseURL())
			fmt.Fprintf(a.out, "env override: %s\n", keyEnv)
			return nil
		},
	}

	cmd.AddCommand(login, logout, status)
	return cmd
}

// login persists key and, when verify is set, keeps it only if the backend
// accepts it.
func (a *app) login(cmd *cobra.Command, raw string, verify bool) error {
	key := stripBearer(raw)
	if key == "" {
		return usagef("empty API key")
	}
	prev := a.s.APIKey.Get()
	if err := a.s.APIKey.Set(key); err != nil {
		return fmt.Errorf("save key: %w", err)
	}
	if a.s.KeySource() == "env" {
		a.println(a.muted(keyEnv + " is set and still wins for this shell"))
	}
	if verify {
		if _, err := a.s.Client().Users.List(cmd.Context()); err != nil {
			if api.IsUnauthorized(err) {
				if rerr := a.s.APIKey.Set(prev); rerr != nil {
					a.log.Warn("restore previous key", zap.Error(rerr))
				}
				return errors.New("API key rejected by " + a.s.BaseURL())
			}
			a.log.Warn("could not verify key", zap.Error(err))
			a.println(a.muted("key stored, backend not reachable for verification"))
			return nil
		}
	}
	a.ok("logged in")
	return nil
}

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Connection and display settings"}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  exactArgs(0, "config show"),
		RunE: func(*cobra.Command, []string) error {
			cfg := a.s.Config()
			view := struct {
				APIURL       string `yaml:"api_url"`
				APIKey       string `yaml:"api_key"`
				KeySource    string `yaml:"key_source,omitempty"`
				Storage      string `yaml:"storage"`
				DarkMode     bool   `yaml:"dark_mode"`
				SelectedUser *int   `yaml:"selected_user"`
				Style        string `yaml:"style"`
				Timeout      string `yaml:"timeout"`
				PollInterval string `yaml:"poll_interval"`
			}{
				APIURL:       a.s.BaseURL(),
				APIKey:       mask(a.s.Key()),
				KeySource:    a.s.KeySource(),
				Storage:      a.storagePath(),
				DarkMode:     a.s.Theme.Dark(),
				SelectedUser: a.s.SelectedID.Get(),
				Style:        cfg.Style,
				Timeout:      cfg.Timeout.String(),
				PollInterval: cfg.PollInterval.String(),
			}
			b, err := yaml.Marshal(view)
			if err != nil {
				return fmt.Errorf("yaml: %w", err)
			}
			fmt.Fprint(a.out, string(b))
			return nil
		},
	}

	setURL := &cobra.Command{
		Use:   "set-url <url>",
		Short: "Store the backend URL",
		Args:  exactArgs(1, "config set-url <url>"),
		RunE: func(_ *cobra.Command, args []string) error {
			u, err := url.Parse(strings.TrimSpace(args[0]))
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return usagef("set-url: not an http(s) URL: %s", args[0])
			}
			if err := a.s.APIURL.Set(strings.TrimRight(u.String(), "/")); err != nil {
				return fmt.Errorf("save url: %w", err)
			}
			a.ok("api url set to " + a.s.APIURL.Get())
			return nil
		},
	}

	setKey := &cobra.Command{
		Use:   "set-key <key>",
		Short: "Store the API key without verifying it",
		Args:  exactArgs(1, "config set-key <key>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.login(cmd, args[0], false)
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a config file with the current settings",
		Args:  maxArgs(1, "config init [path]"),
		RunE: func(_ *cobra.Command, args []string) error {
			path := config.DefaultPath()
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return errors.New("no config directory on this platform; pass a path")
			}
			if _, err := os.Stat(path); err == nil && !force {
				return usagef("%s exists (use --force)", path)
			}
			cfg := a.s.Config()
			cfg.APIKey = ""
			if err := cfg.Save(path); err != nil {
				return err
			}
			a.ok("wrote " + path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(show, setURL, setKey, initCmd)
	return cmd
}

func (a *app) storagePath() string {
	switch b := a.s.Backend.(type) {
	case *jsonstore.Store:
		return b.Path()
	case nil:
		return "(memory)"
	default:
		return fmt.Sprintf("(%T)", b)
	}
}
