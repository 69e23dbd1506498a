// Package session wires the persisted stores, the toast queue and the API
// client together for one run of the client.
//
// Construction order is fixed: storage backend, connection stores (URL,
// key), theme, selected user, users list, derived selected user, toasts,
// client. None of the stores depend on each other, so the order only
// matters for readability of logs.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/idilsaglam/chorequest/internal/api"
	"github.com/idilsaglam/chorequest/internal/config"
	"github.com/idilsaglam/chorequest/internal/model"
	"github.com/idilsaglam/chorequest/internal/store"
	"github.com/idilsaglam/chorequest/internal/store/jsonstore"
	"github.com/idilsaglam/chorequest/internal/toast"
	"github.com/idilsaglam/chorequest/internal/ui"
)

// ErrNoUserSelected is returned by operations acting as the selected user.
var ErrNoUserSelected = errors.New("no user selected")

type Session struct {
	cfg config.Config
	log *zap.Logger

	Backend      store.Backend
	APIURL       *store.Persistent[string]
	APIKey       *store.Persistent[string]
	Theme        *store.Theme
	SelectedID   *store.Persistent[*int]
	Users        *store.Value[[]model.User]
	SelectedUser *store.Value[*model.User]
	Toasts       *toast.Queue

	mu     sync.Mutex
	client *api.Client
	doer   api.Doer
}

type Option func(*Session)

// WithBackend replaces the storage backend chosen from the config.
func WithBackend(b store.Backend) Option { return func(s *Session) { s.Backend = b } }

// WithDoer replaces the HTTP transport of every client the session builds.
func WithDoer(d api.Doer) Option { return func(s *Session) { s.doer = d } }

// WithScheduler replaces the toast timer facility.
func WithScheduler(fn toast.Scheduler) Option {
	return func(s *Session) { s.Toasts = toast.New(fn) }
}

// Open builds a session from cfg. Persisted values are read once here.
func Open(cfg config.Config, log *zap.Logger, opts ...Option) (*Session, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Session{cfg: cfg, log: log}
	for _, o := range opts {
		o(s)
	}

	if s.Backend == nil && !cfg.Ephemeral {
		b, err := openBackend(cfg)
		if err != nil {
			return nil, err
		}
		s.Backend = b
	}
	if s.Backend == nil {
		log.Debug("running without durable storage")
	}

	var err error
	if s.APIURL, err = store.NewPersistent(s.Backend, store.KeyAPIURL, store.DefaultAPIURL,
		store.WithLogger[string](log)); err != nil {
		return nil, err
	}
	if s.APIKey, err = store.NewPersistent(s.Backend, store.KeyAPIKey, "",
		store.WithLogger[string](log)); err != nil {
		return nil, err
	}
	if s.Theme, err = store.NewTheme(s.Backend, ui.SetDark, log); err != nil {
		return nil, err
	}
	if s.SelectedID, err = store.NewPersistent[*int](s.Backend, store.KeySelectedUser, nil,
		store.WithLogger[*int](log)); err != nil {
		return nil, err
	}

	s.Users = store.NewValue[[]model.User](nil)
	s.SelectedUser = store.Derive2[[]model.User, *int](s.Users, s.SelectedID, findUser)

	if s.Toasts == nil {
		s.Toasts = toast.New(nil)
	}

	// Rebuild the client whenever the connection settings change.
	s.APIURL.Subscribe(func(string) { s.resetClient() })
	s.APIKey.Subscribe(func(string) { s.resetClient() })
	return s, nil
}

func openBackend(cfg config.Config) (store.Backend, error) {
	path := cfg.StoragePath
	if path == "" {
		p, err := jsonstore.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	b, err := jsonstore.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open storage %s: %w", path, err)
	}
	return b, nil
}

func findUser(users []model.User, id *int) *model.User {
	if id == nil {
		return nil
	}
	for i := range users {
		if users[i].ID == *id {
			u := users[i]
			return &u
		}
	}
	return nil
}

func (s *Session) Config() config.Config { return s.cfg }

func (s *Session) Logger() *zap.Logger { return s.log }

// BaseURL is the effective API URL: config override first, then storage.
func (s *Session) BaseURL() string {
	if s.cfg.APIURL != "" {
		return s.cfg.APIURL
	}
	return s.APIURL.Get()
}

// Key is the effective API key: config override first, then storage.
func (s *Session) Key() string {
	if s.cfg.APIKey != "" {
		return s.cfg.APIKey
	}
	return s.APIKey.Get()
}

// KeySource tells where Key comes from: "env", "storage" or "".
func (s *Session) KeySource() string {
	switch {
	case s.cfg.APIKey != "":
		return "env"
	case s.APIKey.Get() != "":
		return "storage"
	}
	return ""
}

// Client returns the API client for the current connection settings.
func (s *Session) Client() *api.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		doer := s.doer
		if doer == nil && s.cfg.Timeout > 0 {
			doer = &http.Client{Timeout: s.cfg.Timeout}
		}
		opts := []api.Option{api.WithLogger(s.log.Named("api"))}
		if doer != nil {
			opts = append(opts, api.WithDoer(doer))
		}
		s.client = api.New(s.BaseURL(), s.Key(), opts...)
	}
	return s.client
}

func (s *Session) resetClient() {
	s.mu.Lock()
	s.client = nil
	s.mu.Unlock()
}

// RefreshUsers reloads the users list from the backend.
func (s *Session) RefreshUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.Client().Users.List(ctx)
	if err != nil {
		return nil, err
	}
	s.Users.Set(users)
	return users, nil
}

// SelectUser persists id as the active user. The user must exist.
func (s *Session) SelectUser(ctx context.Context, id int) (model.User, error) {
	u, err := s.Client().Users.Get(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	s.Users.Update(func(cur []model.User) []model.User {
		for i := range cur {
			if cur[i].ID == u.ID {
				next := append([]model.User(nil), cur...)
				next[i] = u
				return next
			}
		}
		return append(append([]model.User(nil), cur...), u)
	})
	if err := s.SelectedID.Set(&id); err != nil {
		return u, err
	}
	return u, nil
}

// RequireSelected returns the selected user id or ErrNoUserSelected.
func (s *Session) RequireSelected() (int, error) {
	id := s.SelectedID.Get()
	if id == nil {
		return 0, ErrNoUserSelected
	}
	return *id, nil
}
