// Package model holds the ChoreQuest REST wire types.
// Nullable fields are pointers; create/update payloads omit unset fields.
package model

// User is a household member as the backend reports it.
type User struct {
	ID            int     `json:"id"`
	Username      string  `json:"username"`
	DisplayName   *string `json:"display_name"`
	AvatarURL     *string `json:"avatar_url"`
	TotalPoints   int     `json:"total_points"`
	WeeklyPoints  int     `json:"weekly_points"`
	CurrentStreak int     `json:"current_streak"`
	LongestStreak int     `json:"longest_streak"`
	HAUserID      *string `json:"ha_user_id"`
	CreatedAt     string  `json:"created_at"`
}

// Name prefers the display name and falls back to the username.
func (u User) Name() string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}
	return u.Username
}

type UserCreate struct {
	Username    string  `json:"username"`
	DisplayName *string `json:"display_name,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	HAUserID    *string `json:"ha_user_id,omitempty"`
}

type UserUpdate struct {
	DisplayName *string `json:"display_name,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

type UserStats struct {
	User                   User    `json:"user"`
	TasksCompletedTotal    int     `json:"tasks_completed_total"`
	TasksCompletedThisWeek int     `json:"tasks_completed_this_week"`
	FavoriteRoom           *string `json:"favorite_room"`
	AchievementsCount      int     `json:"achievements_count"`
}

// Person is a Home Assistant person pushed to the backend by a user sync.
type Person struct {
	PersonID string `json:"person_id"`
	Name     string `json:"name"`
}

type UserSyncResult struct {
	Created  []User   `json:"created"`
	Updated  []User   `json:"updated"`
	Warnings []string `json:"warnings"`
}
