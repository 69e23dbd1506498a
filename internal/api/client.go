// Package api is a typed client for the ChoreQuest REST API.
//
// Every call goes through one request primitive that adds the bearer key,
// encodes JSON bodies and turns non-2xx answers into *Error. There are no
// retries: a failure reaches the caller on the first attempt.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Doer is the transport. *http.Client satisfies it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client is safe for concurrent use once built.
type Client struct {
	baseURL   string
	apiKey    string
	doer      Doer
	userAgent string
	log       *zap.Logger

	Health       HealthService
	Dashboard    DashboardService
	Users        UsersService
	Rooms        RoomsService
	Tasks        TasksService
	Instances    InstancesService
	Summaries    SummariesService
	Gamification GamificationService
}

type Option func(*Client)

func WithDoer(d Doer) Option { return func(c *Client) { c.doer = d } }

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func WithUserAgent(ua string) Option { return func(c *Client) { c.userAgent = ua } }

// New builds a client for baseURL (without the /api suffix).
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		doer:      &http.Client{Timeout: 30 * time.Second},
		userAgent: "chorequest-cli",
		log:       zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	c.Health = HealthService{c}
	c.Dashboard = DashboardService{c}
	c.Users = UsersService{c}
	c.Rooms = RoomsService{c}
	c.Tasks = TasksService{c}
	c.Instances = InstancesService{c}
	c.Summaries = SummariesService{c}
	c.Gamification = GamificationService{c}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// request sends method path with an optional JSON body and decodes the
// answer into out. A nil body sends no body and no Content-Type; a nil out
// or a 204 skips decoding.
func (c *Client) request(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	res, err := c.doer.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			zap.String("method", method), zap.String("path", path),
			zap.String("request_id", reqID), zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	c.log.Debug("request",
		zap.String("method", method), zap.String("path", path),
		zap.Int("status", res.StatusCode), zap.Duration("took", time.Since(start)),
		zap.String("request_id", reqID))

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return newError(res)
	}
	if res.StatusCode == http.StatusNoContent || out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// get and friends keep the service files declarative.
func get[T any](ctx context.Context, c *Client, path string) (T, error) {
	var out T
	err := c.request(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func send[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var out T
	err := c.request(ctx, method, path, body, &out)
	return out, err
}
