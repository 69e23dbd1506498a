package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/idilsaglam/chorequest/internal/model"
)

type HealthService struct{ c *Client }

func (s HealthService) Check(ctx context.Context) (model.Health, error) {
	return get[model.Health](ctx, s.c, "/api/health")
}

type DashboardService struct{ c *Client }

func (s DashboardService) Get(ctx context.Context) (model.Dashboard, error) {
	return get[model.Dashboard](ctx, s.c, "/api/dashboard")
}

// ---- users ----

type UsersService struct{ c *Client }

func (s UsersService) List(ctx context.Context) ([]model.User, error) {
	return get[[]model.User](ctx, s.c, "/api/users")
}

func (s UsersService) Get(ctx context.Context, id int) (model.User, error) {
	return get[model.User](ctx, s.c, fmt.Sprintf("/api/users/%d", id))
}

func (s UsersService) Create(ctx context.Context, in model.UserCreate) (model.User, error) {
	return send[model.User](ctx, s.c, http.MethodPost, "/api/users", in)
}

func (s UsersService) Update(ctx context.Context, id int, in model.UserUpdate) (model.User, error) {
	return send[model.User](ctx, s.c, http.MethodPatch, fmt.Sprintf("/api/users/%d", id), in)
}

func (s UsersService) Stats(ctx context.Context, id int) (model.UserStats, error) {
	return get[model.UserStats](ctx, s.c, fmt.Sprintf("/api/users/%d/stats", id))
}

// Sync pushes Home Assistant persons; the backend creates or renames users.
func (s UsersService) Sync(ctx context.Context, persons []model.Person) (model.UserSyncResult, error) {
	body := struct {
		Persons []model.Person `json:"persons"`
	}{persons}
	return send[model.UserSyncResult](ctx, s.c, http.MethodPost, "/api/users/sync", body)
}

// ---- rooms ----

type RoomsService struct{ c *Client }

func (s RoomsService) List(ctx context.Context) ([]model.Room, error) {
	return get[[]model.Room](ctx, s.c, "/api/rooms")
}

func (s RoomsService) Create(ctx context.Context, in model.RoomCreate) (model.Room, error) {
	return send[model.Room](ctx, s.c, http.MethodPost, "/api/rooms", in)
}

func (s RoomsService) Update(ctx context.Context, id int, in model.RoomUpdate) (model.Room, error) {
	return send[model.Room](ctx, s.c, http.MethodPatch, fmt.Sprintf("/api/rooms/%d", id), in)
}

func (s RoomsService) Delete(ctx context.Context, id int) error {
	return s.c.request(ctx, http.MethodDelete, fmt.Sprintf("/api/rooms/%d", id), nil, nil)
}

// Sync pushes Home Assistant areas; the backend creates or renames rooms.
func (s RoomsService) Sync(ctx context.Context, areas []model.Area) (model.RoomSyncResult, error) {
	body := struct {
		Areas []model.Area `json:"areas"`
	}{areas}
	return send[model.RoomSyncResult](ctx, s.c, http.MethodPost, "/api/rooms/sync", body)
}

// ---- tasks ----

// TaskFilter narrows Tasks.List. Nil fields are not sent.
type TaskFilter struct {
	RoomID   *int
	IsActive *bool
}

func (f TaskFilter) query() url.Values {
	q := url.Values{}
	if f.RoomID != nil {
		q.Set("room_id", strconv.Itoa(*f.RoomID))
	}
	if f.IsActive != nil {
		q.Set("is_active", strconv.FormatBool(*f.IsActive))
	}
	return q
}

type TasksService struct{ c *Client }

func (s TasksService) List(ctx context.Context, f TaskFilter) ([]model.Task, error) {
	return get[[]model.Task](ctx, s.c, withQuery("/api/tasks", f.query()))
}

func (s TasksService) Create(ctx context.Context, in model.TaskCreate) (model.Task, error) {
	return send[model.Task](ctx, s.c, http.MethodPost, "/api/tasks", in)
}

func (s TasksService) Get(ctx context.Context, id int) (model.Task, error) {
	return get[model.Task](ctx, s.c, fmt.Sprintf("/api/tasks/%d", id))
}

func (s TasksService) Update(ctx context.Context, id int, in model.TaskUpdate) (model.Task, error) {
	return send[model.Task](ctx, s.c, http.MethodPatch, fmt.Sprintf("/api/tasks/%d", id), in)
}

func (s TasksService) Delete(ctx context.Context, id int) error {
	return s.c.request(ctx, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", id), nil, nil)
}

// ---- instances ----

// InstanceFilter narrows Instances.List. Nil and empty fields are not sent.
type InstanceFilter struct {
	RoomID  *int
	UserID  *int
	Status  model.TaskStatus
	DueDate string // YYYY-MM-DD
}

func (f InstanceFilter) query() url.Values {
	q := url.Values{}
	if f.RoomID != nil {
		q.Set("room_id", strconv.Itoa(*f.RoomID))
	}
	if f.UserID != nil {
		q.Set("user_id", strconv.Itoa(*f.UserID))
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.DueDate != "" {
		q.Set("due_date", f.DueDate)
	}
	return q
}

type InstancesService struct{ c *Client }

func (s InstancesService) List(ctx context.Context, f InstanceFilter) ([]model.TaskInstanceWithDetails, error) {
	return get[[]model.TaskInstanceWithDetails](ctx, s.c, withQuery("/api/instances", f.query()))
}

func (s InstancesService) Today(ctx context.Context) ([]model.TaskInstanceWithDetails, error) {
	return get[[]model.TaskInstanceWithDetails](ctx, s.c, "/api/instances/today")
}

func (s InstancesService) Complete(ctx context.Context, id int, in model.CompleteRequest) (model.CompletionResult, error) {
	return send[model.CompletionResult](ctx, s.c, http.MethodPost, fmt.Sprintf("/api/instances/%d/complete", id), in)
}

// Skip marks an instance skipped. The backend answers with a confirmation
// message only, which is returned as is.
func (s InstancesService) Skip(ctx context.Context, id int) (string, error) {
	res, err := send[struct {
		Detail string `json:"detail"`
	}](ctx, s.c, http.MethodPost, fmt.Sprintf("/api/instances/%d/skip", id), nil)
	return res.Detail, err
}

func (s InstancesService) Assign(ctx context.Context, id, userID int) (model.TaskInstance, error) {
	body := struct {
		UserID int `json:"user_id"`
	}{userID}
	return send[model.TaskInstance](ctx, s.c, http.MethodPost, fmt.Sprintf("/api/instances/%d/assign", id), body)
}

// ---- summaries ----

type SummariesService struct{ c *Client }

// List returns the newest summaries first. limit <= 0 leaves the server default.
func (s SummariesService) List(ctx context.Context, limit int) ([]model.WeeklySummary, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return get[[]model.WeeklySummary](ctx, s.c, withQuery("/api/summaries", q))
}

func (s SummariesService) Latest(ctx context.Context) (model.WeeklySummary, error) {
	return get[model.WeeklySummary](ctx, s.c, "/api/summaries/latest")
}

// Generate asks the backend for a new summary. An empty weekStart lets the
// server pick the last completed week.
func (s SummariesService) Generate(ctx context.Context, weekStart string) (model.GenerateSummaryResponse, error) {
	var body any
	if weekStart != "" {
		body = struct {
			WeekStart string `json:"week_start"`
		}{weekStart}
	}
	return send[model.GenerateSummaryResponse](ctx, s.c, http.MethodPost, "/api/summaries/generate", body)
}

// ---- gamification ----

type GamificationService struct{ c *Client }

func (s GamificationService) Leaderboard(ctx context.Context) ([]model.User, error) {
	return get[[]model.User](ctx, s.c, "/api/leaderboard")
}

func (s GamificationService) LeaderboardWeekly(ctx context.Context) ([]model.User, error) {
	return get[[]model.User](ctx, s.c, "/api/leaderboard/weekly")
}

func (s GamificationService) Achievements(ctx context.Context) ([]model.Achievement, error) {
	return get[[]model.Achievement](ctx, s.c, "/api/achievements")
}

func (s GamificationService) UserAchievements(ctx context.Context, userID int) ([]model.UserAchievement, error) {
	return get[[]model.UserAchievement](ctx, s.c, fmt.Sprintf("/api/achievements/%d", userID))
}

func (s GamificationService) UserProgress(ctx context.Context, userID int) ([]model.AchievementProgress, error) {
	return get[[]model.AchievementProgress](ctx, s.c, fmt.Sprintf("/api/achievements/%d/progress", userID))
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
