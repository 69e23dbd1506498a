package session

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/idilsaglam/chorequest/internal/api"
	"github.com/idilsaglam/chorequest/internal/config"
	"github.com/idilsaglam/chorequest/internal/model"
	"github.com/idilsaglam/chorequest/internal/store"
	"github.com/idilsaglam/chorequest/internal/toast"
)

// fakeAPI answers by path and remembers which hosts and keys it saw.
type fakeAPI struct {
	mu     sync.Mutex
	routes map[string]reply
	hosts  []string
	keys   []string
	bodies []string
}

type reply struct {
	status int
	body   any
}

func newFakeAPI() *fakeAPI { return &fakeAPI{routes: map[string]reply{}} }

func (f *fakeAPI) on(method, path string, status int, body any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = reply{status, body}
}

func (f *fakeAPI) Do(r *http.Request) (*http.Response, error) {
	var sent []byte
	if r.Body != nil {
		sent, _ = io.ReadAll(r.Body)
	}
	f.mu.Lock()
	f.hosts = append(f.hosts, r.URL.Host)
	f.keys = append(f.keys, r.Header.Get("Authorization"))
	f.bodies = append(f.bodies, string(sent))
	rep, ok := f.routes[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	if !ok {
		rep = reply{404, map[string]string{"detail": "Not Found"}}
	}
	b, _ := json.Marshal(rep.body)
	return &http.Response{
		StatusCode: rep.status,
		Body:       io.NopCloser(strings.NewReader(string(b))),
		Header:     http.Header{},
	}, nil
}

type noTimers struct{ scheduled int }

func (n *noTimers) schedule(time.Duration, func()) { n.scheduled++ }

func open(t *testing.T, cfg config.Config, f *fakeAPI, b store.Backend) *Session {
	t.Helper()
	timers := &noTimers{}
	s, err := Open(cfg, zap.NewNop(), WithBackend(b), WithDoer(f), WithScheduler(timers.schedule))
	require.NoError(t, err)
	return s
}

func TestOpenDefaults(t *testing.T) {
	s := open(t, config.Default(), newFakeAPI(), store.NewMemoryBackend())
	assert.Equal(t, store.DefaultAPIURL, s.BaseURL())
	assert.Equal(t, "", s.Key())
	assert.Equal(t, "", s.KeySource())
	assert.Nil(t, s.SelectedUser.Get())
	_, err := s.RequireSelected()
	assert.ErrorIs(t, err, ErrNoUserSelected)
}

func TestOpenEphemeralHasNoBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Ephemeral = true
	s, err := Open(cfg, nil)
	require.NoError(t, err)
	assert.Nil(t, s.Backend)
	require.NoError(t, s.APIKey.Set("k"))
	assert.Equal(t, "k", s.Key())
}

func TestEnvOverrideIsNotPersisted(t *testing.T) {
	b := store.NewMemoryBackend()
	cfg := config.Default()
	cfg.APIKey = "from-env"
	cfg.APIURL = "http://override:1"
	s := open(t, cfg, newFakeAPI(), b)

	assert.Equal(t, "from-env", s.Key())
	assert.Equal(t, "env", s.KeySource())
	assert.Equal(t, "http://override:1", s.BaseURL())
	_, has := b.Snapshot()[store.KeyAPIKey]
	assert.False(t, has)
}

func TestClientFollowsConnectionSettings(t *testing.T) {
	f := newFakeAPI()
	f.on("GET", "/api/health", 200, model.Health{Status: "ok"})
	s := open(t, config.Default(), f, store.NewMemoryBackend())

	_, err := s.Client().Health.Check(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.APIURL.Set("http://elsewhere:8000"))
	require.NoError(t, s.APIKey.Set("new-key"))
	_, err = s.Client().Health.Check(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"localhost:8000", "elsewhere:8000"}, f.hosts)
	assert.Equal(t, []string{"Bearer ", "Bearer new-key"}, f.keys)
}

func TestSelectUserPersistsAndDerives(t *testing.T) {
	f := newFakeAPI()
	f.on("GET", "/api/users/2", 200, model.User{ID: 2, Username: "bob"})
	f.on("GET", "/api/users", 200, []model.User{{ID: 1, Username: "ada"}, {ID: 2, Username: "bob", TotalPoints: 40}})
	b := store.NewMemoryBackend()
	s := open(t, config.Default(), f, b)

	u, err := s.SelectUser(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "bob", u.Username)
	assert.Equal(t, "2", b.Snapshot()[store.KeySelectedUser])
	require.NotNil(t, s.SelectedUser.Get())
	assert.Equal(t, 2, s.SelectedUser.Get().ID)

	_, err = s.RefreshUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 40, s.SelectedUser.Get().TotalPoints)

	// a new session on the same storage remembers the selection
	again := open(t, config.Default(), f, b)
	id, err := again.RequireSelected()
	require.NoError(t, err)
	assert.Equal(t, 2, id)
	assert.Nil(t, again.SelectedUser.Get(), "users not loaded yet")
}

func TestSelectUnknownUser(t *testing.T) {
	s := open(t, config.Default(), newFakeAPI(), store.NewMemoryBackend())
	_, err := s.SelectUser(context.Background(), 99)
	assert.True(t, api.IsNotFound(err))
	assert.Nil(t, s.SelectedID.Get())
}

func TestCompletePushesToasts(t *testing.T) {
	f := newFakeAPI()
	f.on("POST", "/api/instances/7/complete", 200, model.CompletionResult{
		Completion: model.Completion{PointsEarned: 30, BonusPoints: 5},
		UnlockedAchievements: []model.UnlockedAchievement{
			{Name: "Erste Schritte"}, {Name: "Frühaufsteher"},
		},
	})
	s := open(t, config.Default(), f, store.NewMemoryBackend())
	id := 3
	require.NoError(t, s.SelectedID.Set(&id))

	res, err := s.Complete(context.Background(), 7, "")
	require.NoError(t, err)
	assert.Equal(t, 30, res.Completion.PointsEarned)
	assert.JSONEq(t, `{"user_id":3}`, f.bodies[0])

	var msgs []string
	for _, tt := range s.Toasts.Items() {
		msgs = append(msgs, tt.Message)
	}
	assert.Equal(t, []string{
		"+30 Punkte (5 Bonus!)",
		"Achievement freigeschaltet: Erste Schritte",
		"Achievement freigeschaltet: Frühaufsteher",
	}, msgs)
}

func TestCompleteRequiresSelection(t *testing.T) {
	s := open(t, config.Default(), newFakeAPI(), store.NewMemoryBackend())
	_, err := s.Complete(context.Background(), 7, "")
	assert.ErrorIs(t, err, ErrNoUserSelected)
}

func TestCompleteFailureToast(t *testing.T) {
	f := newFakeAPI()
	f.on("POST", "/api/instances/7/complete", 400, map[string]string{"detail": "Bereits erledigt"})
	s := open(t, config.Default(), f, store.NewMemoryBackend())
	id := 1
	require.NoError(t, s.SelectedID.Set(&id))

	_, err := s.Complete(context.Background(), 7, "")
	require.Error(t, err)
	items := s.Toasts.Items()
	require.Len(t, items, 1)
	assert.Equal(t, toast.Error, items[0].Kind)
	assert.Equal(t, "Bereits erledigt", items[0].Message)
}

func TestSkipUsesBackendConfirmation(t *testing.T) {
	f := newFakeAPI()
	f.on("POST", "/api/instances/7/skip", 200, map[string]string{"detail": "Task übersprungen"})
	s := open(t, config.Default(), f, store.NewMemoryBackend())

	require.NoError(t, s.Skip(context.Background(), 7, "Fenster putzen"))
	require.NoError(t, s.Skip(context.Background(), 7, ""))

	items := s.Toasts.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Übersprungen: Fenster putzen", items[0].Message)
	assert.Equal(t, "Task übersprungen", items[1].Message)
	assert.Equal(t, toast.Info, items[1].Kind)
}

func TestSkipFailureToast(t *testing.T) {
	f := newFakeAPI()
	f.on("POST", "/api/instances/7/skip", 400, map[string]string{"detail": "Task ist nicht mehr offen"})
	s := open(t, config.Default(), f, store.NewMemoryBackend())

	require.Error(t, s.Skip(context.Background(), 7, "Fenster putzen"))
	require.Len(t, s.Toasts.Items(), 1)
	assert.Equal(t, "Task ist nicht mehr offen", s.Toasts.Items()[0].Message)
}

func TestLoadOverview(t *testing.T) {
	f := newFakeAPI()
	f.on("GET", "/api/dashboard", 200, model.Dashboard{TasksToday: 4, Users: []model.User{{ID: 1, Username: "ada"}}})
	f.on("GET", "/api/instances/today", 200, []model.TaskInstanceWithDetails{{TaskInstance: model.TaskInstance{ID: 9}}})
	f.on("GET", "/api/leaderboard", 200, []model.User{{ID: 1, Username: "ada"}})
	s := open(t, config.Default(), f, store.NewMemoryBackend())

	ov, err := s.LoadOverview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, ov.Dashboard.TasksToday)
	require.Len(t, ov.Today, 1)
	assert.Equal(t, 9, ov.Today[0].ID)
	assert.Len(t, ov.Leaderboard, 1)
	assert.Len(t, s.Users.Get(), 1)

	f.on("GET", "/api/instances/today", 500, map[string]string{"detail": "boom"})
	_, err = s.LoadOverview(context.Background())
	require.Error(t, err)
	assert.Equal(t, 500, api.StatusOf(err))
	assert.Contains(t, err.Error(), "today")
}

func TestPollerStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newFakeAPI()
	f.on("GET", "/api/dashboard", 200, model.Dashboard{TasksToday: 2})
	s := open(t, config.Default(), f, store.NewMemoryBackend())
	p := s.NewPoller(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(ctx)
	}()

	require.Eventually(t, func() bool { return p.Dashboard.Get() != nil }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, p.Dashboard.Get().TasksToday)
	cancel()
	<-done
}

func TestPollerIntervalFallsBack(t *testing.T) {
	s := open(t, config.Config{}, newFakeAPI(), store.NewMemoryBackend())
	p := s.NewPoller(0)
	assert.Equal(t, DefaultPollInterval, p.interval)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NotPanics(t, func() { p.Run(ctx) })

	cfg := config.Default()
	cfg.PollInterval = 5 * time.Second
	assert.Equal(t, 5*time.Second, open(t, cfg, newFakeAPI(), store.NewMemoryBackend()).NewPoller(0).interval)
	assert.Equal(t, time.Second, open(t, cfg, newFakeAPI(), store.NewMemoryBackend()).NewPoller(time.Second).interval)
}

func TestPollerToastsOncePerFailureStreak(t *testing.T) {
	f := newFakeAPI()
	f.on("GET", "/api/dashboard", 503, nil)
	s := open(t, config.Default(), f, store.NewMemoryBackend())
	p := s.NewPoller(0)

	ctx := context.Background()
	failing := p.poll(ctx, false)
	failing = p.poll(ctx, failing)
	assert.True(t, failing)
	require.Len(t, s.Toasts.Items(), 1)
	assert.Equal(t, "HTTP 503", s.Toasts.Items()[0].Message)

	f.on("GET", "/api/dashboard", 200, model.Dashboard{})
	assert.False(t, p.poll(ctx, failing))
	assert.NotNil(t, p.Dashboard.Get())
}
