package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/idilsaglam/chorequest/internal/model"
	"github.com/idilsaglam/chorequest/internal/store"
)

// DefaultPollInterval applies when neither the caller nor the config names
// a positive interval.
const DefaultPollInterval = time.Minute

// Poller keeps Dashboard fresh by fetching it on a fixed interval.
type Poller struct {
	s        *Session
	interval time.Duration

	// Dashboard holds the last successful fetch; nil until the first one.
	Dashboard *store.Value[*model.Dashboard]
}

// NewPoller polls at interval, or at the configured poll interval when
// interval is zero, or at DefaultPollInterval when both are unset.
func (s *Session) NewPoller(interval time.Duration) *Poller {
	if interval <= 0 {
		interval = s.cfg.PollInterval
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{s: s, interval: interval, Dashboard: store.NewValue[*model.Dashboard](nil)}
}

// Run fetches immediately and then on every tick until ctx is done.
// Failures are logged and surfaced as one error toast per failure streak.
func (p *Poller) Run(ctx context.Context) {
	t := time.NewTicker(p.interval)
	defer t.Stop()

	failing := false
	for {
		failing = p.poll(ctx, failing)
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

func (p *Poller) poll(ctx context.Context, failing bool) bool {
	d, err := p.s.Client().Dashboard.Get(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return failing
		}
		p.s.log.Warn("dashboard poll failed", zap.Error(err))
		if !failing {
			p.s.Toasts.Error(errorMessage(err))
		}
		return true
	}
	p.Dashboard.Set(&d)
	p.s.Users.Set(d.Users)
	return false
}
