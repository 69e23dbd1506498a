package session

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/idilsaglam/chorequest/internal/api"
	"github.com/idilsaglam/chorequest/internal/model"
)

// Overview is everything the home screen shows at once.
type Overview struct {
	Dashboard   model.Dashboard
	Today       []model.TaskInstanceWithDetails
	Leaderboard []model.User
}

// LoadOverview fetches the dashboard, today's instances and the leaderboard
// in parallel. The first failure cancels the rest and is returned.
func (s *Session) LoadOverview(ctx context.Context) (Overview, error) {
	c := s.Client()
	var ov Overview

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := c.Dashboard.Get(gctx)
		if err != nil {
			return fmt.Errorf("dashboard: %w", err)
		}
		ov.Dashboard = d
		return nil
	})
	g.Go(func() error {
		today, err := c.Instances.Today(gctx)
		if err != nil {
			return fmt.Errorf("today: %w", err)
		}
		ov.Today = today
		return nil
	})
	g.Go(func() error {
		lb, err := c.Gamification.Leaderboard(gctx)
		if err != nil {
			return fmt.Errorf("leaderboard: %w", err)
		}
		ov.Leaderboard = lb
		return nil
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	s.Users.Set(ov.Dashboard.Users)
	return ov, nil
}

// Complete marks an instance done as the selected user and announces the
// points and every unlocked achievement as toasts.
func (s *Session) Complete(ctx context.Context, instanceID int, notes string) (model.CompletionResult, error) {
	uid, err := s.RequireSelected()
	if err != nil {
		return model.CompletionResult{}, err
	}
	req := model.CompleteRequest{UserID: uid}
	if notes != "" {
		req.Notes = &notes
	}
	res, err := s.Client().Instances.Complete(ctx, instanceID, req)
	if err != nil {
		s.Toasts.Error(errorMessage(err))
		return model.CompletionResult{}, err
	}

	s.log.Info("instance completed",
		zap.Int("instance", instanceID), zap.Int("user", uid),
		zap.Int("points", res.Completion.PointsEarned),
		zap.Int("bonus", res.Completion.BonusPoints))

	s.Toasts.Points(res.Completion.PointsEarned, res.Completion.BonusPoints)
	for _, a := range res.UnlockedAchievements {
		s.Toasts.Achievement(a.Name)
	}
	return res, nil
}

// Skip marks an instance skipped. title names the task in the toast; when
// the caller does not know it the backend's confirmation is shown instead.
func (s *Session) Skip(ctx context.Context, instanceID int, title string) error {
	detail, err := s.Client().Instances.Skip(ctx, instanceID)
	if err != nil {
		s.Toasts.Error(errorMessage(err))
		return err
	}
	switch {
	case title != "":
		s.Toasts.Info("Übersprungen: " + title)
	case detail != "":
		s.Toasts.Info(detail)
	default:
		s.Toasts.Info("Übersprungen")
	}
	return nil
}

// errorMessage is the text shown to the user for a failed call.
func errorMessage(err error) string {
	if api.IsUnauthorized(err) {
		return "API-Key ungültig"
	}
	var e *api.Error
	if errors.As(err, &e) {
		return e.Detail
	}
	return "Verbindungsfehler"
}
