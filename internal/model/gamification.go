package model

type CompleteRequest struct {
	UserID int     `json:"user_id"`
	Notes  *string `json:"notes,omitempty"`
}

type Completion struct {
	ID             int     `json:"id"`
	TaskInstanceID int     `json:"task_instance_id"`
	UserID         int     `json:"user_id"`
	CompletedAt    string  `json:"completed_at"`
	PointsEarned   int     `json:"points_earned"`
	BonusPoints    int     `json:"bonus_points"`
	Notes          *string `json:"notes"`
}

type BonusBreakdown struct {
	BasePoints          int     `json:"base_points"`
	RoomMultiplier      float64 `json:"room_multiplier"`
	EarlyBonus          int     `json:"early_bonus"`
	StreakBonus         int     `json:"streak_bonus"`
	RoomCompletionBonus int     `json:"room_completion_bonus"`
	TotalPoints         int     `json:"total_points"`
	BonusPoints         int     `json:"bonus_points"`
}

type StreakUpdate struct {
	CurrentStreak     int  `json:"current_streak"`
	LongestStreak     int  `json:"longest_streak"`
	StreakBonusActive bool `json:"streak_bonus_active"`
}

type UnlockedAchievement struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	Icon         *string `json:"icon"`
	PointsReward int     `json:"points_reward"`
}

// CompletionResult is what completing an instance returns: the points
// booked, how they were computed and anything unlocked along the way.
type CompletionResult struct {
	Completion           Completion            `json:"completion"`
	BonusBreakdown       BonusBreakdown        `json:"bonus_breakdown"`
	Streak               StreakUpdate          `json:"streak"`
	UnlockedAchievements []UnlockedAchievement `json:"unlocked_achievements"`
}

type Achievement struct {
	ID           int            `json:"id"`
	Name         string         `json:"name"`
	Description  *string        `json:"description"`
	Icon         *string        `json:"icon"`
	Criteria     map[string]any `json:"criteria"`
	PointsReward int            `json:"points_reward"`
}

type UserAchievement struct {
	ID            int         `json:"id"`
	UserID        int         `json:"user_id"`
	AchievementID int         `json:"achievement_id"`
	UnlockedAt    string      `json:"unlocked_at"`
	Achievement   Achievement `json:"achievement"`
}

type AchievementProgress struct {
	Achievement     Achievement `json:"achievement"`
	Unlocked        bool        `json:"unlocked"`
	UnlockedAt      *string     `json:"unlocked_at"`
	CurrentValue    int         `json:"current_value"`
	TargetValue     int         `json:"target_value"`
	ProgressPercent float64     `json:"progress_percent"`
}
