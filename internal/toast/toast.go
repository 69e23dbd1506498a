// Package toast is a queue of short-lived notifications. Each toast removes
// itself after its duration; a zero duration keeps it until Dismiss.
package toast

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/idilsaglam/chorequest/internal/store"
)

type Kind string

const (
	Success     Kind = "success"
	Error       Kind = "error"
	Info        Kind = "info"
	Points      Kind = "points"
	Achievement Kind = "achievement"
)

const (
	DefaultDuration     = 3 * time.Second
	PointsDuration      = 4 * time.Second
	AchievementDuration = 5 * time.Second
)

type Toast struct {
	ID       int
	Message  string
	Kind     Kind
	Icon     string
	Duration time.Duration
}

// Scheduler runs fn once after d. time.AfterFunc in production.
type Scheduler func(d time.Duration, fn func())

func afterFunc(d time.Duration, fn func()) { time.AfterFunc(d, fn) }

type Option func(*Toast)

func WithIcon(icon string) Option { return func(t *Toast) { t.Icon = icon } }

// WithDuration overrides the default lifetime. Zero means never expire.
func WithDuration(d time.Duration) Option { return func(t *Toast) { t.Duration = d } }

// Queue is safe for concurrent use.
type Queue struct {
	mu       sync.Mutex
	lastID   int
	items    *store.Value[[]Toast]
	schedule Scheduler
}

// New returns an empty queue. A nil scheduler uses time.AfterFunc.
func New(schedule Scheduler) *Queue {
	if schedule == nil {
		schedule = afterFunc
	}
	return &Queue{items: store.NewValue[[]Toast](nil), schedule: schedule}
}

// Push appends a toast and returns its id.
func (q *Queue) Push(message string, kind Kind, opts ...Option) int {
	t := Toast{Message: message, Kind: kind, Duration: DefaultDuration}
	for _, o := range opts {
		o(&t)
	}

	q.mu.Lock()
	q.lastID++
	t.ID = q.lastID
	q.mu.Unlock()

	q.items.Update(func(cur []Toast) []Toast {
		return append(slices.Clone(cur), t)
	})
	if t.Duration > 0 {
		id := t.ID
		q.schedule(t.Duration, func() { q.Dismiss(id) })
	}
	return t.ID
}

// Dismiss removes the toast with id. Unknown ids are ignored.
func (q *Queue) Dismiss(id int) {
	q.items.Update(func(cur []Toast) []Toast {
		if !slices.ContainsFunc(cur, func(t Toast) bool { return t.ID == id }) {
			return cur
		}
		return slices.DeleteFunc(slices.Clone(cur), func(t Toast) bool { return t.ID == id })
	})
}

// Items is a snapshot of the queue, oldest first.
func (q *Queue) Items() []Toast {
	return slices.Clone(q.items.Get())
}

// Subscribe follows the queue; fn gets the current contents immediately.
func (q *Queue) Subscribe(fn func([]Toast)) func() {
	return q.items.Subscribe(fn)
}

func (q *Queue) Info(msg string) int    { return q.Push(msg, Info) }
func (q *Queue) Success(msg string) int { return q.Push(msg, Success) }
func (q *Queue) Error(msg string) int   { return q.Push(msg, Error) }

// Points announces earned points, mentioning the bonus share when there is one.
func (q *Queue) Points(points, bonus int) int {
	msg := fmt.Sprintf("+%d Punkte", points)
	if bonus > 0 {
		msg = fmt.Sprintf("+%d Punkte (%d Bonus!)", points, bonus)
	}
	return q.Push(msg, Points, WithDuration(PointsDuration))
}

func (q *Queue) Achievement(name string) int {
	return q.Push("Achievement freigeschaltet: "+name, Achievement, WithDuration(AchievementDuration))
}
