package model

type SuggestedTask struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	RoomName         string `json:"room_name"`
	EstimatedMinutes int    `json:"estimated_minutes"`
	Reason           string `json:"reason"`
}

type WeeklySummary struct {
	ID             int             `json:"id"`
	WeekStart      string          `json:"week_start"`
	WeekEnd        string          `json:"week_end"`
	SummaryText    *string         `json:"summary_text"`
	SuggestedTasks []SuggestedTask `json:"suggested_tasks"`
	GeneratedAt    string          `json:"generated_at"`
}

type GenerateSummaryResponse struct {
	Summary    WeeklySummary `json:"summary"`
	TokensUsed int           `json:"tokens_used"`
}

type Dashboard struct {
	TasksToday   int    `json:"tasks_today"`
	TasksOverdue int    `json:"tasks_overdue"`
	Users        []User `json:"users"`
	Rooms        []Room `json:"rooms"`
}

type Health struct {
	Status  string `json:"status"`
	App     string `json:"app"`
	Version string `json:"version"`
}
