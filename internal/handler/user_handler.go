package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"vidtube/internal/auth"
	"vidtube/internal/service"
)

// UserHandler handles profile and channel endpoints.
type UserHandler struct {
	userService service.UserService
	jwtService  *auth.JWTService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService, jwtService *auth.JWTService) *UserHandler {
	return &UserHandler{
		userService: userService,
		jwtService:  jwtService,
	}
}

// UpdateAccountRequest represents a profile update request.
type UpdateAccountRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
}

// Me godoc
// @Summary Get the current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	user, err := h.userService.CurrentUser(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateAccount godoc
// @Summary Update full name and email
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateAccountRequest true "Profile fields"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/me [patch]
func (h *UserHandler) UpdateAccount(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req UpdateAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.UpdateAccount(c.Request().Context(), userID, req.FullName, req.Email)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateAvatar godoc
// @Summary Upload a new avatar
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/me/avatar [patch]
func (h *UserHandler) UpdateAvatar(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	file, closer, err := formFile(c, "avatar")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "avatar file is missing")
	}
	defer closer.Close()

	user, err := h.userService.UpdateAvatar(c.Request().Context(), userID, file)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateCoverImage godoc
// @Summary Upload a new cover image
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param coverImage formData file true "Cover image"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/me/cover-image [patch]
func (h *UserHandler) UpdateCoverImage(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	file, closer, err := formFile(c, "coverImage")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cover image file is missing")
	}
	defer closer.Close()

	user, err := h.userService.UpdateCoverImage(c.Request().Context(), userID, file)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// ChannelProfile godoc
// @Summary Get a channel profile with subscriber statistics
// @Tags channels
// @Produce json
// @Param username path string true "Channel username"
// @Success 200 {object} service.ChannelProfile
// @Failure 404 {object} errors.ErrorResponse
// @Router /channels/{username} [get]
func (h *UserHandler) ChannelProfile(c echo.Context) error {
	viewerID := optionalViewerID(c, h.jwtService)

	profile, err := h.userService.GetChannelProfile(c.Request().Context(), c.Param("username"), viewerID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// WatchHistory godoc
// @Summary List the current user's watch history
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.WatchHistory
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/history [get]
func (h *UserHandler) WatchHistory(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	entries, err := h.userService.WatchHistory(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, entries)
}
