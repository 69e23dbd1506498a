package toast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualClock collects scheduled callbacks so tests decide when they fire.
type manualClock struct {
	pending []scheduled
}

type scheduled struct {
	after time.Duration
	fn    func()
}

func (c *manualClock) schedule(d time.Duration, fn func()) {
	c.pending = append(c.pending, scheduled{d, fn})
}

func (c *manualClock) fireAll() {
	p := c.pending
	c.pending = nil
	for _, s := range p {
		s.fn()
	}
}

func TestPushDefaultExpires(t *testing.T) {
	clk := &manualClock{}
	q := New(clk.schedule)

	id := q.Push("x", Info)
	items := q.Items()
	require.Len(t, items, 1)
	assert.Positive(t, items[0].ID)
	assert.Equal(t, id, items[0].ID)
	assert.Equal(t, DefaultDuration, items[0].Duration)
	require.Len(t, clk.pending, 1)
	assert.Equal(t, DefaultDuration, clk.pending[0].after)

	clk.fireAll()
	assert.Empty(t, q.Items())
}

func TestZeroDurationNeverExpires(t *testing.T) {
	clk := &manualClock{}
	q := New(clk.schedule)

	id := q.Push("sticky", Error, WithDuration(0), WithIcon("!"))
	assert.Empty(t, clk.pending)
	require.Len(t, q.Items(), 1)
	assert.Equal(t, "!", q.Items()[0].Icon)

	q.Dismiss(id)
	assert.Empty(t, q.Items())
	q.Dismiss(id)
}

func TestIDsMonotonicAndRemovalTargeted(t *testing.T) {
	clk := &manualClock{}
	q := New(clk.schedule)

	a := q.Info("a")
	b := q.Success("b")
	c := q.Error("c")
	assert.Less(t, a, b)
	assert.Less(t, b, c)

	// fire only b's timer
	clk.pending[1].fn()
	var msgs []string
	for _, it := range q.Items() {
		msgs = append(msgs, it.Message)
	}
	assert.Equal(t, []string{"a", "c"}, msgs)
}

func TestPointsAndAchievement(t *testing.T) {
	clk := &manualClock{}
	q := New(clk.schedule)

	q.Points(25, 0)
	q.Points(30, 5)
	q.Achievement("Putzteufel")

	items := q.Items()
	require.Len(t, items, 3)
	assert.Equal(t, Toast{ID: 1, Message: "+25 Punkte", Kind: Points, Duration: PointsDuration}, items[0])
	assert.Equal(t, "+30 Punkte (5 Bonus!)", items[1].Message)
	assert.Equal(t, Toast{ID: 3, Message: "Achievement freigeschaltet: Putzteufel", Kind: Achievement, Duration: AchievementDuration}, items[2])
}

func TestSubscribeSeesChanges(t *testing.T) {
	clk := &manualClock{}
	q := New(clk.schedule)

	var lens []int
	unsub := q.Subscribe(func(ts []Toast) { lens = append(lens, len(ts)) })
	q.Info("one")
	q.Info("two")
	clk.fireAll()
	unsub()
	assert.Equal(t, []int{0, 1, 2, 1, 0}, lens)
}

func TestRealTimerExpires(t *testing.T) {
	q := New(nil)
	q.Push("quick", Info, WithDuration(10*time.Millisecond))
	require.Len(t, q.Items(), 1)
	assert.Eventually(t, func() bool { return len(q.Items()) == 0 }, time.Second, 5*time.Millisecond)
}
