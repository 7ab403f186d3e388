package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"vidtube/internal/auth"
	"vidtube/internal/handler"
	"vidtube/internal/media"
	"vidtube/internal/model"
	"vidtube/internal/service"
)

type stubSessionService struct {
	loggedOut uuid.UUID
}

func (s *stubSessionService) Login(ctx context.Context, username, email, password string) (*service.TokenPair, *model.User, error) {
	return &service.TokenPair{AccessToken: "a", RefreshToken: "r"}, &model.User{Username: username}, nil
}

func (s *stubSessionService) Refresh(ctx context.Context, refreshToken string) (*service.TokenPair, error) {
	return &service.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil
}

func (s *stubSessionService) Logout(ctx context.Context, userID uuid.UUID) error {
	s.loggedOut = userID
	return nil
}

func (s *stubSessionService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	return nil
}

type stubUserService struct {
	lastID uuid.UUID
}

func (s *stubUserService) Register(ctx context.Context, in service.RegisterInput) (*model.User, error) {
	return &model.User{Username: in.Username}, nil
}

func (s *stubUserService) CurrentUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	s.lastID = id
	return &model.User{ID: id, Username: "alice"}, nil
}

func (s *stubUserService) UpdateAccount(ctx context.Context, id uuid.UUID, fullName, email string) (*model.User, error) {
	return &model.User{ID: id}, nil
}

func (s *stubUserService) UpdateAvatar(ctx context.Context, id uuid.UUID, file *media.File) (*model.User, error) {
	return &model.User{ID: id}, nil
}

func (s *stubUserService) UpdateCoverImage(ctx context.Context, id uuid.UUID, file *media.File) (*model.User, error) {
	return &model.User{ID: id}, nil
}

func (s *stubUserService) GetChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (*service.ChannelProfile, error) {
	return &service.ChannelProfile{Username: username}, nil
}

func (s *stubUserService) WatchHistory(ctx context.Context, userID uuid.UUID) ([]model.WatchHistory, error) {
	return nil, nil
}

type stubSubscriptionService struct{}

func (stubSubscriptionService) Toggle(ctx context.Context, subscriberID uuid.UUID, channelUsername string) (bool, error) {
	return true, nil
}

type stubVideoService struct{}

func (stubVideoService) Publish(ctx context.Context, in service.PublishInput) (*model.Video, error) {
	return &model.Video{}, nil
}

func (stubVideoService) Get(ctx context.Context, videoID, viewerID uuid.UUID) (*model.Video, error) {
	return &model.Video{ID: videoID}, nil
}

func (stubVideoService) ListByChannel(ctx context.Context, channelUsername string) ([]model.Video, error) {
	return nil, nil
}

func newTestRouter() (*echo.Echo, *auth.JWTService, *stubSessionService, *stubUserService) {
	e := echo.New()
	jwtService := auth.NewJWTService("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)

	session := &stubSessionService{}
	users := &stubUserService{}

	Register(
		e,
		jwtService,
		handler.NewAuthHandler(session, users),
		handler.NewUserHandler(users, jwtService),
		handler.NewSubscriptionHandler(stubSubscriptionService{}),
		handler.NewVideoHandler(stubVideoService{}, jwtService),
	)
	return e, jwtService, session, users
}

func TestRouter_SecuredRouteWithBearerToken(t *testing.T) {
	e, jwtService, _, users := newTestRouter()
	userID := uuid.New()

	token, err := jwtService.GenerateAccessToken(userID)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	// The identity the handler acted on is the one carried by the token.
	assert.Equal(t, userID, users.lastID)
}

func TestRouter_SecuredRouteWithCookieToken(t *testing.T) {
	e, jwtService, session, _ := newTestRouter()
	userID := uuid.New()

	token, err := jwtService.GenerateAccessToken(userID)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, session.loggedOut)
}

func TestRouter_SecuredRouteRejectsBadTokens(t *testing.T) {
	e, jwtService, _, _ := newTestRouter()

	// No token at all.
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Garbage token.
	req = httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-token")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// A refresh token must not open secured routes.
	refreshToken, err := jwtService.GenerateRefreshToken(uuid.New())
	assert.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+refreshToken)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_PublicRoutesNeedNoToken(t *testing.T) {
	e, _, _, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/videos/"+uuid.NewString(), nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
