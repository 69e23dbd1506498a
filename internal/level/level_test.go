package level

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	cases := []struct {
		name   string
		points int
		want   Info
	}{
		{"zero", 0, Info{Level: 1, Title: "Putz-Lehrling", CurrentXP: 0, RequiredXP: 100, TotalForLevel: 0, Progress: 0}},
		{"halfway to 2", 50, Info{Level: 1, Title: "Putz-Lehrling", CurrentXP: 50, RequiredXP: 100, TotalForLevel: 0, Progress: 50}},
		{"just below 2", 99, Info{Level: 1, Title: "Putz-Lehrling", CurrentXP: 99, RequiredXP: 100, TotalForLevel: 0, Progress: 99}},
		{"exactly 2", 100, Info{Level: 2, Title: "Wisch-Novize", CurrentXP: 0, RequiredXP: 200, TotalForLevel: 100, Progress: 0}},
		{"level 5", 1250, Info{Level: 5, Title: "Ordnungs-Geselle", CurrentXP: 250, RequiredXP: 500, TotalForLevel: 1000, Progress: 50}},
		{"top of table", 36000, Info{Level: 20, Title: "Putz-Legende", CurrentXP: 0, RequiredXP: 5000, TotalForLevel: 36000, Progress: 0}},
		{"past table", 38500, Info{Level: 20, Title: "Putz-Legende", CurrentXP: 2500, RequiredXP: 5000, TotalForLevel: 36000, Progress: 50}},
		{"far past table", 100000, Info{Level: 20, Title: "Putz-Legende", CurrentXP: 64000, RequiredXP: 5000, TotalForLevel: 36000, Progress: 100}},
		{"negative clamps", -40, Info{Level: 1, Title: "Putz-Lehrling", CurrentXP: 0, RequiredXP: 100, TotalForLevel: 0, Progress: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Compute(tc.points))
		})
	}
}

func TestThresholdBoundariesUnlockTheirLevel(t *testing.T) {
	for lvl := 1; lvl <= MaxTabulated(); lvl++ {
		got := Compute(Threshold(lvl))
		assert.Equal(t, lvl, got.Level, "threshold %d", Threshold(lvl))
		if lvl > 1 {
			assert.Equal(t, lvl-1, Compute(Threshold(lvl)-1).Level)
		}
	}
}

func TestComputeMonotonicAndBounded(t *testing.T) {
	prev := 0
	for p := 0; p <= 50000; p += 7 {
		info := Compute(p)
		require.GreaterOrEqual(t, info.Level, prev, "points %d", p)
		require.GreaterOrEqual(t, info.Progress, 0.0)
		require.LessOrEqual(t, info.Progress, 100.0)
		require.NotEmpty(t, info.Title)
		prev = info.Level
	}
}

func TestThreshold(t *testing.T) {
	assert.Equal(t, 0, Threshold(0))
	assert.Equal(t, 0, Threshold(1))
	assert.Equal(t, 5200, Threshold(10))
	assert.Equal(t, 36000, Threshold(20))
	assert.Equal(t, -1, Threshold(21))
}
