package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/meetmart/meetmart/internal/backend"
	"github.com/meetmart/meetmart/internal/models"
	"github.com/meetmart/meetmart/internal/repository"
)

// timeNow is swapped in tests.
var timeNow = time.Now

// Session holds the authenticated user and token, persisted through the
// session repository. There is exactly one session per running client.
type Session struct {
	mu      sync.Mutex
	repo    repository.SessionRepository
	client  *backend.Client
	current *models.Session
	logger  *logrus.Logger
}

// credentialsResponse is what the auth endpoints return on success.
type credentialsResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// NewSession creates the session store, rehydrating any persisted session.
// A stored token that has already expired is discarded so the client starts
// logged out instead of failing every call.
func NewSession(ctx context.Context, repo repository.SessionRepository, client *backend.Client, logger *logrus.Logger) (*Session, error) {
	stored, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if stored != nil && tokenExpired(stored.Token) {
		logger.Info("Stored session token expired, logging out")
		if err := repo.Clear(ctx); err != nil {
			logger.WithFields(logrus.Fields{"error": err}).Warn("Failed to clear expired session")
		}
		stored = nil
	}

	return &Session{
		repo:    repo,
		client:  client,
		current: stored,
		logger:  logger,
	}, nil
}

// Token returns the current bearer token, or "" when logged out. This is
// the TokenFunc the backend client is wired with.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// Current returns the logged-in user, or nil.
func (s *Session) Current() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	user := s.current.User
	return &user
}

// LoggedIn reports whether a user is authenticated.
func (s *Session) LoggedIn() bool {
	return s.Token() != ""
}

// IsAdmin reports whether the logged-in user has admin rights.
func (s *Session) IsAdmin() bool {
	user := s.Current()
	return user != nil && user.IsAdmin
}

// Login authenticates with email and password and persists the session.
func (s *Session) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, backend.NewValidation("email and password are required")
	}

	var resp credentialsResponse
	err := s.client.Post(ctx, "/users/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}

	return s.establish(ctx, resp)
}

// Signup registers a new account. The backend sends an OTP to the email;
// the account stays unverified until VerifyOTP succeeds.
func (s *Session) Signup(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, backend.NewValidation("name, email and password are required")
	}

	var resp credentialsResponse
	err := s.client.Post(ctx, "/users/signup", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}

	return s.establish(ctx, resp)
}

// VerifyOTP confirms the one-time code sent at signup.
func (s *Session) VerifyOTP(ctx context.Context, code string) (*models.User, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, backend.NewValidation("verification code is required")
	}

	var user models.User
	if err := s.client.Post(ctx, "/users/verify-otp", map[string]string{"otp": code}, &user); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.User = user
		if err := s.repo.Save(ctx, s.current); err != nil {
			return nil, fmt.Errorf("failed to persist session: %w", err)
		}
	}
	return &user, nil
}

// RequestPasswordReset asks the backend to mail a reset code.
func (s *Session) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return backend.NewValidation("email is required")
	}
	return s.client.Post(ctx, "/users/request-password-reset", map[string]string{"email": email}, nil)
}

// ResetPassword completes a password reset with the mailed code.
func (s *Session) ResetPassword(ctx context.Context, code, newPassword string) error {
	if strings.TrimSpace(code) == "" || newPassword == "" {
		return backend.NewValidation("reset code and new password are required")
	}
	return s.client.Post(ctx, "/users/reset-password", map[string]string{
		"code":     code,
		"password": newPassword,
	}, nil)
}

// Logout clears the session in memory and in the repository.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	if err := s.repo.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// ForceLogout is invoked when the backend rejects the token on an
// auth-gated call. The failed call's error is already on its way to the
// user; this just tears the session down.
func (s *Session) ForceLogout(ctx context.Context) {
	s.logger.Warn("Session rejected by backend, forcing logout")
	if err := s.Logout(ctx); err != nil {
		s.logger.WithFields(logrus.Fields{"error": err}).Error("Failed to force logout")
	}
}

// establish stores a fresh token+user pair.
func (s *Session) establish(ctx context.Context, resp credentialsResponse) (*models.User, error) {
	if resp.Token == "" {
		return nil, &backend.Error{Kind: backend.KindServer, Status: http.StatusOK, Message: "backend returned no token"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = &models.Session{Token: resp.Token, User: resp.User}
	if err := s.repo.Save(ctx, s.current); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	user := resp.User
	return &user, nil
}

// tokenExpired inspects the token's exp claim without verifying the
// signature; the client has no signing key, it only needs to know whether
// the backend will still accept the token.
func tokenExpired(token string) bool {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		// Opaque (non-JWT) tokens cannot be inspected; let the backend decide.
		return false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Time.Before(timeNow())
}
