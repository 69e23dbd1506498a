package model

type Recurrence string

const (
	RecurrenceOnce    Recurrence = "once"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusCompleted TaskStatus = "completed"
	StatusSkipped   TaskStatus = "skipped"
)

type Task struct {
	ID               int        `json:"id"`
	Title            string     `json:"title"`
	Description      *string    `json:"description"`
	RoomID           int        `json:"room_id"`
	BasePoints       int        `json:"base_points"`
	EstimatedMinutes int        `json:"estimated_minutes"`
	Recurrence       Recurrence `json:"recurrence"`
	RecurrenceDay    *int       `json:"recurrence_day"`
	IsActive         bool       `json:"is_active"`
	CreatedAt        string     `json:"created_at"`
}

type TaskCreate struct {
	Title            string     `json:"title"`
	Description      *string    `json:"description,omitempty"`
	RoomID           int        `json:"room_id"`
	BasePoints       *int       `json:"base_points,omitempty"`
	EstimatedMinutes *int       `json:"estimated_minutes,omitempty"`
	Recurrence       Recurrence `json:"recurrence,omitempty"`
	RecurrenceDay    *int       `json:"recurrence_day,omitempty"`
}

type TaskUpdate struct {
	Title            *string `json:"title,omitempty"`
	Description      *string `json:"description,omitempty"`
	RoomID           *int    `json:"room_id,omitempty"`
	BasePoints       *int    `json:"base_points,omitempty"`
	EstimatedMinutes *int    `json:"estimated_minutes,omitempty"`
	Recurrence       *string `json:"recurrence,omitempty"`
	RecurrenceDay    *int    `json:"recurrence_day,omitempty"`
	IsActive         *bool   `json:"is_active,omitempty"`
}

// TaskInstance is one scheduled occurrence of a task.
type TaskInstance struct {
	ID             int        `json:"id"`
	TaskID         int        `json:"task_id"`
	DueDate        *string    `json:"due_date"`
	Status         TaskStatus `json:"status"`
	AssignedUserID *int       `json:"assigned_user_id"`
	CreatedAt      string     `json:"created_at"`
	Task           Task       `json:"task"`
}

type TaskInstanceWithDetails struct {
	TaskInstance
	AssignedUser *User `json:"assigned_user"`
}
