package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/libreton/libreton-api/internal/types"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService is the state machine over sessions: absent -> active ->
// expired or revoked. Login failures are a single generic outcome; callers
// never learn whether the username or the password was wrong.
type AuthService interface {
	Register(ctx context.Context, req types.RegisterRequest) error
	Login(ctx context.Context, username, password string) (*types.LoginResponse, error)
	Logout(ctx context.Context, token string) error
	ValidateSession(ctx context.Context, token string) (*types.UserInfo, error)
}

type AuthServiceImpl struct {
	logger     *slog.Logger
	repo       AuthRepo
	sessions   SessionStore
	hasher     PasswordHasher
	sessionTTL time.Duration
}

func NewAuthService(repo AuthRepo, sessions SessionStore, hasher PasswordHasher, sessionTTL time.Duration, logger *slog.Logger) *AuthServiceImpl {
	if sessionTTL <= 0 {
		sessionTTL = types.DefaultSessionTTL
	}
	return &AuthServiceImpl{
		logger:     logger,
		repo:       repo,
		sessions:   sessions,
		hasher:     hasher,
		sessionTTL: sessionTTL,
	}
}

// Register hashes the password and inserts the user. Shape rules and the
// pre-insert uniqueness check belong to the validator; the database unique
// constraints remain the final word and surface as types.ErrConflict.
func (s *AuthServiceImpl) Register(ctx context.Context, req types.RegisterRequest) error {
	l := s.logger.With(slog.String("method", "Register"), slog.String("username", req.Username))

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		l.ErrorContext(ctx, "Password hashing failed", slog.Any("error", err))
		return fmt.Errorf("register: %w", err)
	}

	user := types.NewUser(req.Username, req.Email, digest, req.FullName)
	if err := s.repo.CreateUser(ctx, user); err != nil {
		l.ErrorContext(ctx, "User insert failed", slog.Any("error", err))
		return fmt.Errorf("register: %w", err)
	}

	l.InfoContext(ctx, "User registered", slog.String("user_id", user.ID.String()))
	return nil
}

// Login verifies credentials against the active user row, then issues an
// opaque token with an absolute expiry. The snapshot stored with the
// session is frozen at this moment.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (*types.LoginResponse, error) {
	l := s.logger.With(slog.String("method", "Login"), slog.String("username", username))

	user, err := s.repo.GetActiveUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			l.WarnContext(ctx, "Login attempt for unknown or inactive user")
			return nil, types.ErrUnauthenticated
		}
		l.ErrorContext(ctx, "User lookup failed", slog.Any("error", err))
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		l.WarnContext(ctx, "Login attempt with wrong password")
		return nil, types.ErrUnauthenticated
	}

	token := uuid.NewString()
	expiresAt := time.Now().Add(s.sessionTTL)
	info := types.UserInfo{
		ID:       user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
	}
	s.sessions.Set(token, info, expiresAt)

	l.InfoContext(ctx, "Session issued", slog.Time("expires_at", expiresAt))
	return &types.LoginResponse{
		SessionToken: token,
		ExpiresAt:    expiresAt,
		User:         info,
	}, nil
}

// Logout removes the session unconditionally. Removing an absent or
// already-expired token succeeds too.
func (s *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	s.sessions.Remove(token)
	s.logger.DebugContext(ctx, "Session removed", slog.String("method", "Logout"))
	return nil
}

// ValidateSession resolves a token to its user snapshot, or reports the
// session invalid. Lookups never extend the expiry.
func (s *AuthServiceImpl) ValidateSession(ctx context.Context, token string) (*types.UserInfo, error) {
	info, ok := s.sessions.Get(token)
	if !ok {
		return nil, types.ErrSessionExpired
	}
	return &info, nil
}
