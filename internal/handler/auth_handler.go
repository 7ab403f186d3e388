package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"vidtube/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	sessionService service.SessionService
	userService    service.UserService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(sessionService service.SessionService, userService service.UserService) *AuthHandler {
	return &AuthHandler{
		sessionService: sessionService,
		userService:    userService,
	}
}

// RegisterRequest represents the text fields of a registration form.
type RegisterRequest struct {
	Username string `form:"username" validate:"required,min=3,max=64"`
	Email    string `form:"email" validate:"required,email"`
	FullName string `form:"fullName" validate:"required"`
	Password string `form:"password" validate:"required,min=6"`
}

// LoginRequest represents a login request; username or email must be set.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents a token refresh request body. The token may also
// arrive via the refresh cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ChangePasswordRequest represents a password change request.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// AuthResponse represents an authentication response.
type AuthResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         interface{} `json:"user,omitempty"`
}

// Register godoc
// @Summary Register a new user with avatar and optional cover image
// @Tags auth
// @Accept multipart/form-data
// @Produce json
// @Param username formData string true "Username"
// @Param email formData string true "Email"
// @Param fullName formData string true "Full name"
// @Param password formData string true "Password"
// @Param avatar formData file true "Avatar image"
// @Param coverImage formData file false "Cover image"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in := service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	}

	avatar, avatarCloser, err := formFile(c, "avatar")
	if err == nil {
		defer avatarCloser.Close()
		in.Avatar = avatar
	}

	cover, coverCloser, err := formFile(c, "coverImage")
	if err == nil {
		defer coverCloser.Close()
		in.Cover = cover
	}

	user, err := h.userService.Register(c.Request().Context(), in)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "user registered successfully",
		"user":    user,
	})
}

// Login godoc
// @Summary Login with username or email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	pair, user, err := h.sessionService.Login(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	setTokenCookies(c, pair)
	return c.JSON(http.StatusOK, AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user,
	})
}

// Refresh godoc
// @Summary Rotate the refresh token into a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest false "Refresh token (cookie also accepted)"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	_ = c.Bind(&req)

	presented := req.RefreshToken
	if presented == "" {
		if cookie, err := c.Cookie(refreshTokenCookie); err == nil {
			presented = cookie.Value
		}
	}

	pair, err := h.sessionService.Refresh(c.Request().Context(), presented)
	if err != nil {
		return httpError(err)
	}

	setTokenCookies(c, pair)
	return c.JSON(http.StatusOK, AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Logout godoc
// @Summary Logout the current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	if err := h.sessionService.Logout(c.Request().Context(), userID); err != nil {
		return httpError(err)
	}

	clearTokenCookies(c)
	return c.JSON(http.StatusOK, map[string]string{
		"message": "logged out successfully",
	})
}

// ChangePassword godoc
// @Summary Change the current user's password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "Old and new passwords"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.sessionService.ChangePassword(c.Request().Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "password changed successfully",
	})
}
