package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/libreton/libreton-api/internal/types"
)

// MockAuthRepo is a mock implementation of AuthRepo
type MockAuthRepo struct {
	mock.Mock
}

func (m *MockAuthRepo) CreateUser(ctx context.Context, user *types.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockAuthRepo) GetActiveUserByUsername(ctx context.Context, username string) (*types.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockAuthRepo) UsernameTaken(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuthRepo) EmailTaken(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// Helper to set up the service with a mock repository and a real in-memory
// session store.
func setupAuthServiceTest(t *testing.T) (*AuthServiceImpl, *MockAuthRepo, *CacheSessionStore) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockRepo := new(MockAuthRepo)
	sessions := NewCacheSessionStore(types.DefaultSessionTTL)
	hasher := NewBcryptHasher(bcrypt.MinCost)
	service := NewAuthService(mockRepo, sessions, hasher, types.DefaultSessionTTL, logger)
	return service, mockRepo, sessions
}

func activeUser(t *testing.T, username, password string) *types.User {
	t.Helper()
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return types.NewUser(username, username+"@x.com", string(digest), nil)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success issues a session with a 30 minute absolute expiry", func(t *testing.T) {
		service, mockRepo, _ := setupAuthServiceTest(t)
		user := activeUser(t, "alice", "secret1")
		mockRepo.On("GetActiveUserByUsername", ctx, "alice").Return(user, nil).Once()

		before := time.Now()
		result, err := service.Login(ctx, "alice", "secret1")
		require.NoError(t, err)

		assert.NotEmpty(t, result.SessionToken)
		assert.WithinDuration(t, before.Add(types.DefaultSessionTTL), result.ExpiresAt, 2*time.Second)
		assert.Equal(t, user.ID.String(), result.User.ID)
		assert.Equal(t, "alice", result.User.Username)
		assert.Equal(t, "alice@x.com", result.User.Email)

		// The issued token validates immediately.
		info, err := service.ValidateSession(ctx, result.SessionToken)
		require.NoError(t, err)
		assert.Equal(t, result.User, *info)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown user yields the generic failure", func(t *testing.T) {
		service, mockRepo, _ := setupAuthServiceTest(t)
		mockRepo.On("GetActiveUserByUsername", ctx, "ghost").Return(nil, types.ErrNotFound).Once()

		_, err := service.Login(ctx, "ghost", "whatever")
		require.ErrorIs(t, err, types.ErrUnauthenticated)
		mockRepo.AssertExpectations(t)
	})

	t.Run("wrong password yields the same generic failure", func(t *testing.T) {
		service, mockRepo, _ := setupAuthServiceTest(t)
		user := activeUser(t, "alice", "secret1")
		mockRepo.On("GetActiveUserByUsername", ctx, "alice").Return(user, nil).Once()

		_, err := service.Login(ctx, "alice", "wrong")
		require.ErrorIs(t, err, types.ErrUnauthenticated)
		mockRepo.AssertExpectations(t)
	})

	t.Run("inactive users are indistinguishable from absent ones", func(t *testing.T) {
		// The repository lookup already filters on is_active, so the
		// service sees ErrNotFound either way.
		service, mockRepo, _ := setupAuthServiceTest(t)
		mockRepo.On("GetActiveUserByUsername", ctx, "dormant").Return(nil, types.ErrNotFound).Once()

		_, err := service.Login(ctx, "dormant", "secret1")
		require.ErrorIs(t, err, types.ErrUnauthenticated)
		mockRepo.AssertExpectations(t)
	})

	t.Run("repository failure is not an authentication failure", func(t *testing.T) {
		service, mockRepo, _ := setupAuthServiceTest(t)
		repoErr := errors.New("connection refused")
		mockRepo.On("GetActiveUserByUsername", ctx, "alice").Return(nil, repoErr).Once()

		_, err := service.Login(ctx, "alice", "secret1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, types.ErrUnauthenticated)
		mockRepo.AssertExpectations(t)
	})
}

func TestAuthService_LoginSnapshotIsFrozen(t *testing.T) {
	ctx := context.Background()
	service, mockRepo, _ := setupAuthServiceTest(t)
	user := activeUser(t, "alice", "secret1")
	mockRepo.On("GetActiveUserByUsername", ctx, "alice").Return(user, nil).Once()

	result, err := service.Login(ctx, "alice", "secret1")
	require.NoError(t, err)

	// Mutating the user row after login must not leak into the session.
	user.Email = "changed@x.com"

	info, err := service.ValidateSession(ctx, result.SessionToken)
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", info.Email)
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	service, mockRepo, _ := setupAuthServiceTest(t)
	user := activeUser(t, "alice", "secret1")
	mockRepo.On("GetActiveUserByUsername", ctx, "alice").Return(user, nil).Once()

	result, err := service.Login(ctx, "alice", "secret1")
	require.NoError(t, err)

	// Logging out twice never errors; the session stays gone.
	require.NoError(t, service.Logout(ctx, result.SessionToken))
	require.NoError(t, service.Logout(ctx, result.SessionToken))

	_, err = service.ValidateSession(ctx, result.SessionToken)
	require.ErrorIs(t, err, types.ErrSessionExpired)

	// Unknown tokens are fine too.
	require.NoError(t, service.Logout(ctx, "never-issued"))
}

func TestAuthService_ValidateSession_Expiry(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockRepo := new(MockAuthRepo)
	sessions := NewCacheSessionStore(types.DefaultSessionTTL)
	// A very short TTL stands in for the 30 minute window.
	service := NewAuthService(mockRepo, sessions, NewBcryptHasher(bcrypt.MinCost), 25*time.Millisecond, logger)

	user := activeUser(t, "alice", "secret1")
	mockRepo.On("GetActiveUserByUsername", ctx, "alice").Return(user, nil).Once()

	result, err := service.Login(ctx, "alice", "secret1")
	require.NoError(t, err)

	_, err = service.ValidateSession(ctx, result.SessionToken)
	require.NoError(t, err, "lookup before expiry must succeed")

	time.Sleep(35 * time.Millisecond)

	_, err = service.ValidateSession(ctx, result.SessionToken)
	require.ErrorIs(t, err, types.ErrSessionExpired, "lookup after the absolute expiry must be absent")
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes the password and inserts the user", func(t *testing.T) {
		service, mockRepo, _ := setupAuthServiceTest(t)
		mockRepo.On("CreateUser", ctx, mock.MatchedBy(func(u *types.User) bool {
			return u.Username == "alice" &&
				u.Email == "alice@x.com" &&
				u.IsActive &&
				u.PasswordHash != "" &&
				u.PasswordHash != "secret1" &&
				bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")) == nil
		})).Return(nil).Once()

		err := service.Register(ctx, types.RegisterRequest{
			Username: "alice",
			Email:    "alice@x.com",
			Password: "secret1",
		})
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("storage conflict propagates", func(t *testing.T) {
		service, mockRepo, _ := setupAuthServiceTest(t)
		mockRepo.On("CreateUser", ctx, mock.Anything).Return(types.ErrConflict).Once()

		err := service.Register(ctx, types.RegisterRequest{
			Username: "alice",
			Email:    "alice@x.com",
			Password: "secret1",
		})
		require.ErrorIs(t, err, types.ErrConflict)
		mockRepo.AssertExpectations(t)
	})
}
