package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/common/metrics"
	"restaurant-ordering/internal/domain"
	"restaurant-ordering/internal/repository"
)

const (
	minRating = 1
	maxRating = 5
)

type FeedbackServiceInterface interface {
	Submit(ctx context.Context, sessionID, text string, rating int) (domain.Feedback, error)
	ListFeedback(ctx context.Context, sessionID string, limit, offset int) ([]domain.Feedback, error)
	ListUsers(ctx context.Context, sessionID string) ([]domain.User, error)
}

type FeedbackService struct {
	feedback repository.FeedbackRepositoryInterface
	users    repository.UserRepositoryInterface
	sessions repository.Sessions
	metrics  *metrics.Metrics
	lg       *logger.Logger
	now      func() time.Time
}

func NewFeedbackService(feedback repository.FeedbackRepositoryInterface, users repository.UserRepositoryInterface,
	sessions repository.Sessions, m *metrics.Metrics, lg *logger.Logger) *FeedbackService {
	return &FeedbackService{feedback: feedback, users: users, sessions: sessions, metrics: m, lg: lg, now: time.Now}
}

// Submit stores feedback from a logged-in session.
func (s *FeedbackService) Submit(ctx context.Context, sessionID, text string, rating int) (domain.Feedback, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return domain.Feedback{}, err
	}
	if !sess.LoggedIn() {
		return domain.Feedback{}, domain.ErrNotLoggedIn
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Feedback{}, fmt.Errorf("%w: feedback text is empty", domain.ErrInvalidInput)
	}
	if rating < minRating || rating > maxRating {
		return domain.Feedback{}, fmt.Errorf("%w: rating must be between %d and %d", domain.ErrInvalidInput, minRating, maxRating)
	}

	f := domain.Feedback{Username: sess.Username, Text: text, Rating: rating, CreatedAt: s.now().UTC()}
	if f.ID, err = s.feedback.AddFeedback(ctx, f); err != nil {
		s.lg.Error("feedback_failed", err, map[string]any{"username": f.Username})
		return domain.Feedback{}, err
	}
	s.metrics.Feedback.Inc()
	s.lg.Info("feedback_submitted", map[string]any{"username": f.Username, "rating": rating, "feedback_id": f.ID})
	return f, nil
}

func (s *FeedbackService) ListFeedback(ctx context.Context, sessionID string, limit, offset int) ([]domain.Feedback, error) {
	if err := s.requireAdmin(sessionID); err != nil {
		return nil, err
	}
	return s.feedback.ListFeedback(ctx, limit, offset)
}

func (s *FeedbackService) ListUsers(ctx context.Context, sessionID string) ([]domain.User, error) {
	if err := s.requireAdmin(sessionID); err != nil {
		return nil, err
	}
	return s.users.ListUsers(ctx)
}

func (s *FeedbackService) requireAdmin(sessionID string) error {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	if !sess.LoggedIn() {
		return domain.ErrNotLoggedIn
	}
	if !sess.IsAdmin() {
		s.lg.Warn("admin_denied", map[string]any{"session_id": sessionID, "username": sess.Username})
		return domain.ErrForbidden
	}
	return nil
}
