package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"vidtube/internal/auth"
	apperrors "vidtube/internal/errors"
	"vidtube/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error) {
	args := m.Called(ctx, username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, id uuid.UUID, token string) error {
	args := m.Called(ctx, id, token)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, fullName, email string) error {
	args := m.Called(ctx, id, fullName, email)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateAvatar(ctx context.Context, id uuid.UUID, url string) error {
	args := m.Called(ctx, id, url)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateCoverImage(ctx context.Context, id uuid.UUID, url string) error {
	args := m.Called(ctx, id, url)
	return args.Error(0)
}

// memoryUserRepo is a map-backed repository for rotation scenarios where the
// persisted refresh token must be observable across calls.
type memoryUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newMemoryUserRepo(users ...*model.User) *memoryUserRepo {
	r := &memoryUserRepo{users: make(map[uuid.UUID]*model.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memoryUserRepo) Create(ctx context.Context, user *model.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *memoryUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *memoryUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.FindByUsernameOrEmail(ctx, username, "")
}

func (r *memoryUserRepo) FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error) {
	for _, u := range r.users {
		if (username != "" && u.Username == strings.ToLower(username)) || (email != "" && u.Email == email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryUserRepo) UpdateRefreshToken(ctx context.Context, id uuid.UUID, token string) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.RefreshToken = token
	return nil
}

func (r *memoryUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *memoryUserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, fullName, email string) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.FullName = fullName
	u.Email = email
	return nil
}

func (r *memoryUserRepo) UpdateAvatar(ctx context.Context, id uuid.UUID, url string) error {
	r.users[id].Avatar = url
	return nil
}

func (r *memoryUserRepo) UpdateCoverImage(ctx context.Context, id uuid.UUID, url string) error {
	r.users[id].CoverImage = url
	return nil
}

func testJWTService() *auth.JWTService {
	return auth.NewJWTService("test-access", "test-refresh", 15*time.Minute, 7*24*time.Hour)
}

func testUser(t *testing.T, username, email, password string) *model.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	assert.NoError(t, err)
	return &model.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		FullName:     "Test User",
		PasswordHash: hash,
		Avatar:       "https://cdn.test/avatar.png",
	}
}

func TestSessionService_Login(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		email         string
		password      string
		setupMock     func(*testing.T, *MockUserRepository)
		expectedError error
	}{
		{
			name:          "missing both identifiers",
			password:      "p1",
			setupMock:     func(t *testing.T, m *MockUserRepository) {},
			expectedError: apperrors.ErrMissingCredential,
		},
		{
			name:     "user not found",
			username: "ghost",
			password: "p1",
			setupMock: func(t *testing.T, m *MockUserRepository) {
				m.On("FindByUsernameOrEmail", mock.Anything, "ghost", "").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrUserNotFound,
		},
		{
			name:     "wrong password leaves store unmodified",
			username: "alice",
			password: "wrong",
			setupMock: func(t *testing.T, m *MockUserRepository) {
				m.On("FindByUsernameOrEmail", mock.Anything, "alice", "").Return(testUser(t, "alice", "alice@x.com", "p1"), nil)
			},
			expectedError: apperrors.ErrInvalidCredential,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(t, mockRepo)

			svc := NewSessionService(mockRepo, testJWTService())
			pair, user, err := svc.Login(context.Background(), tt.username, tt.email, tt.password)

			assert.ErrorIs(t, err, tt.expectedError)
			assert.Nil(t, pair)
			assert.Nil(t, user)

			mockRepo.AssertExpectations(t)
			mockRepo.AssertNotCalled(t, "UpdateRefreshToken", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestSessionService_LoginPersistsRefreshToken(t *testing.T) {
	alice := testUser(t, "alice", "alice@x.com", "p1")
	repo := newMemoryUserRepo(alice)
	svc := NewSessionService(repo, testJWTService())

	pair, user, err := svc.Login(context.Background(), "alice", "", "p1")
	assert.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, alice.ID, user.ID)

	// The returned refresh token equals the value now persisted on the store.
	stored, err := repo.FindByID(context.Background(), alice.ID)
	assert.NoError(t, err)
	assert.Equal(t, pair.RefreshToken, stored.RefreshToken)
}

func TestSessionService_LoginByEmail(t *testing.T) {
	alice := testUser(t, "alice", "alice@x.com", "p1")
	repo := newMemoryUserRepo(alice)
	svc := NewSessionService(repo, testJWTService())

	pair, _, err := svc.Login(context.Background(), "", "alice@x.com", "p1")
	assert.NoError(t, err)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestSessionService_RefreshRotation(t *testing.T) {
	alice := testUser(t, "alice", "alice@x.com", "p1")
	repo := newMemoryUserRepo(alice)
	svc := NewSessionService(repo, testJWTService())

	first, _, err := svc.Login(context.Background(), "alice", "", "p1")
	assert.NoError(t, err)

	second, err := svc.Refresh(context.Background(), first.RefreshToken)
	assert.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// Replaying the rotated-out token is reuse.
	_, err = svc.Refresh(context.Background(), first.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenReused)

	// The latest token still works.
	_, err = svc.Refresh(context.Background(), second.RefreshToken)
	assert.NoError(t, err)
}

func TestSessionService_RefreshFailures(t *testing.T) {
	jwtService := testJWTService()

	tests := []struct {
		name          string
		token         func(repo *memoryUserRepo) string
		expectedError error
	}{
		{
			name:          "no token presented",
			token:         func(repo *memoryUserRepo) string { return "" },
			expectedError: apperrors.ErrUnauthorized,
		},
		{
			name:          "garbage token",
			token:         func(repo *memoryUserRepo) string { return "garbage" },
			expectedError: apperrors.ErrInvalidToken,
		},
		{
			name: "valid signature but unknown user",
			token: func(repo *memoryUserRepo) string {
				token, err := jwtService.GenerateRefreshToken(uuid.New())
				if err != nil {
					panic(err)
				}
				return token
			},
			expectedError: apperrors.ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemoryUserRepo(testUser(t, "alice", "alice@x.com", "p1"))
			svc := NewSessionService(repo, jwtService)

			_, err := svc.Refresh(context.Background(), tt.token(repo))
			assert.ErrorIs(t, err, tt.expectedError)
		})
	}
}

func TestSessionService_LogoutClearsRefreshToken(t *testing.T) {
	alice := testUser(t, "alice", "alice@x.com", "p1")
	repo := newMemoryUserRepo(alice)
	svc := NewSessionService(repo, testJWTService())

	pair, _, err := svc.Login(context.Background(), "alice", "", "p1")
	assert.NoError(t, err)

	assert.NoError(t, svc.Logout(context.Background(), alice.ID))

	stored, err := repo.FindByID(context.Background(), alice.ID)
	assert.NoError(t, err)
	assert.Empty(t, stored.RefreshToken)

	// The pre-logout token no longer refreshes: the store value is cleared.
	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestSessionService_ChangePassword(t *testing.T) {
	alice := testUser(t, "alice", "alice@x.com", "p1")
	repo := newMemoryUserRepo(alice)
	svc := NewSessionService(repo, testJWTService())

	pair, _, err := svc.Login(context.Background(), "alice", "", "p1")
	assert.NoError(t, err)

	err = svc.ChangePassword(context.Background(), alice.ID, "wrong", "p2")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredential)

	err = svc.ChangePassword(context.Background(), alice.ID, "p1", "p2")
	assert.NoError(t, err)

	// Changing the password does not rotate the refresh token issued at login.
	stored, err := repo.FindByID(context.Background(), alice.ID)
	assert.NoError(t, err)
	assert.Equal(t, pair.RefreshToken, stored.RefreshToken)

	// Old password stops working, new one logs in.
	_, _, err = svc.Login(context.Background(), "alice", "", "p1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredential)
	_, _, err = svc.Login(context.Background(), "alice", "", "p2")
	assert.NoError(t, err)
}

func TestSessionService_FullLifecycle(t *testing.T) {
	alice := testUser(t, "alice", "alice@x.com", "p1")
	repo := newMemoryUserRepo(alice)
	svc := NewSessionService(repo, testJWTService())

	// login -> tokens A1/R1
	first, user, err := svc.Login(context.Background(), "alice", "", "p1")
	assert.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	// refresh(R1) -> tokens A2/R2
	second, err := svc.Refresh(context.Background(), first.RefreshToken)
	assert.NoError(t, err)

	// refresh(R1) again -> reuse detected
	_, err = svc.Refresh(context.Background(), first.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenReused)

	// logout -> store's refresh field is empty
	assert.NoError(t, svc.Logout(context.Background(), alice.ID))
	stored, err := repo.FindByID(context.Background(), alice.ID)
	assert.NoError(t, err)
	assert.Empty(t, stored.RefreshToken)

	// refresh(R2) -> invalid token
	_, err = svc.Refresh(context.Background(), second.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
