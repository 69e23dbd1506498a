// Package level maps lifetime points to a level, a title and the progress
// towards the next level.
package level

// Info describes where a point total sits on the level curve.
type Info struct {
	Level         int
	Title         string
	CurrentXP     int     // points earned since the current level started
	RequiredXP    int     // points between the current and the next level
	TotalForLevel int     // threshold of the current level
	Progress      float64 // 0..100
}

// overflowStep spaces the synthetic thresholds past the end of the table.
const overflowStep = 5000

// thresholds[i] is the point total that unlocks level i+1.
var thresholds = []int{
	0, 100, 300, 600, 1000,
	1500, 2200, 3000, 4000, 5200,
	6600, 8200, 10000, 12000, 14500,
	17500, 21000, 25000, 30000, 36000,
}

var titles = []string{
	"Putz-Lehrling",
	"Wisch-Novize",
	"Staub-Knecht",
	"Haushalts-Knappe",
	"Ordnungs-Geselle",
	"Besen-Krieger",
	"Ordnungs-Ritter",
	"Hygiene-Paladin",
	"Hygiene-Meister",
	"Staub-Magier",
	"Glanz-Beschwörer",
	"Reinigungs-Guru",
	"Putz-Erzmagier",
	"Ordnungs-Champion",
	"Reinigungs-Legende",
	"Hygiene-Halbgott",
	"Staub-Vernichter",
	"Haushalt-Titan",
	"Haushalt-Gott",
	"Putz-Legende",
}

// MaxTabulated is the highest level with its own threshold.
func MaxTabulated() int { return len(thresholds) }

// Threshold returns the point total that unlocks level. Levels below 1
// report 0; levels past the table are not tabulated and report -1.
func Threshold(level int) int {
	if level < 1 {
		return 0
	}
	if level > len(thresholds) {
		return -1
	}
	return thresholds[level-1]
}

// Compute returns the level info for a lifetime point total.
// Negative totals are treated as 0.
func Compute(totalPoints int) Info {
	if totalPoints < 0 {
		totalPoints = 0
	}

	lvl := 1
	for i := len(thresholds) - 1; i >= 0; i-- {
		if totalPoints >= thresholds[i] {
			lvl = i + 1
			break
		}
	}

	current := thresholds[lvl-1]
	next := current + overflowStep
	if lvl < len(thresholds) {
		next = thresholds[lvl]
	}

	currentXP := totalPoints - current
	requiredXP := next - current
	progress := float64(currentXP) / float64(requiredXP) * 100
	if progress > 100 {
		progress = 100
	}

	return Info{
		Level:         lvl,
		Title:         titles[min(lvl-1, len(titles)-1)],
		CurrentXP:     currentXP,
		RequiredXP:    requiredXP,
		TotalForLevel: current,
		Progress:      progress,
	}
}
