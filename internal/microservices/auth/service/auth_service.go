package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/common/metrics"
	"restaurant-ordering/internal/domain"
	"restaurant-ordering/internal/repository"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, username, password string) (domain.User, error)
	Login(ctx context.Context, sessionID, username, password string) (*domain.Session, error)
	Logout(ctx context.Context, sessionID string) (*domain.Session, error)
	EnsureAdmin(ctx context.Context, username, password string) (created bool, err error)
}

type AuthService struct {
	users    repository.UserRepositoryInterface
	sessions repository.Sessions
	metrics  *metrics.Metrics
	lg       *logger.Logger
	cost     int
}

func NewAuthService(users repository.UserRepositoryInterface, sessions repository.Sessions,
	m *metrics.Metrics, lg *logger.Logger, bcryptCost int) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{users: users, sessions: sessions, metrics: m, lg: lg, cost: bcryptCost}
}

func (s *AuthService) Register(ctx context.Context, username, password string) (domain.User, error) {
	return s.create(ctx, username, password, domain.RoleUser)
}

// Login checks the credentials and binds the account to the session. A
// failed attempt leaves the session untouched.
func (s *AuthService) Login(ctx context.Context, sessionID, username, password string) (*domain.Session, error) {
	username = strings.TrimSpace(username)
	u, err := s.users.GetUser(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, s.loginFailed(username, domain.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, s.loginFailed(username, domain.ErrInvalidCredentials)
	}

	var out *domain.Session
	err = s.sessions.Update(sessionID, func(sess *domain.Session) error {
		sess.Login(u.Username, u.Role)
		out = sess.Clone()
		return nil
	})
	if err != nil {
		return nil, s.loginFailed(username, err)
	}
	s.metrics.Logins.WithLabelValues("success").Inc()
	s.lg.Info("user_logged_in", map[string]any{"session_id": sessionID, "username": u.Username, "role": u.Role})
	return out, nil
}

func (s *AuthService) loginFailed(username string, err error) error {
	s.metrics.Logins.WithLabelValues("failure").Inc()
	s.lg.Warn("login_failed", map[string]any{"username": username, "error": err.Error()})
	return err
}

// Logout resets the session: the account, cart, order and favorites are
// all dropped.
func (s *AuthService) Logout(_ context.Context, sessionID string) (*domain.Session, error) {
	var out *domain.Session
	err := s.sessions.Update(sessionID, func(sess *domain.Session) error {
		sess.Reset()
		out = sess.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.lg.Info("user_logged_out", map[string]any{"session_id": sessionID})
	return out, nil
}

// EnsureAdmin creates the admin account unless it already exists. An
// existing account is left as it is, password included.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := s.users.GetUser(ctx, strings.TrimSpace(username))
	if err == nil {
		s.lg.Info("admin_exists", map[string]any{"username": username})
		return false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return false, err
	}
	if _, err := s.create(ctx, username, password, domain.RoleAdmin); err != nil {
		return false, err
	}
	return true, nil
}

func (s *AuthService) create(ctx context.Context, username, password, role string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.User{}, fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}
	if _, err := s.users.GetUser(ctx, username); err == nil {
		return domain.User{}, fmt.Errorf("%w: %s", domain.ErrUsernameTaken, username)
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to hash password: %w", err)
	}
	u := domain.User{Username: username, PasswordHash: string(hash), Role: role}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return domain.User{}, err
	}
	s.lg.Info("user_registered", map[string]any{"username": username, "role": role})
	return u, nil
}
