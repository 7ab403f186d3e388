package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"vidtube/internal/auth"
	"vidtube/internal/service"
)

// VideoHandler handles video endpoints.
type VideoHandler struct {
	videoService service.VideoService
	jwtService   *auth.JWTService
}

// NewVideoHandler creates a new video handler.
func NewVideoHandler(videoService service.VideoService, jwtService *auth.JWTService) *VideoHandler {
	return &VideoHandler{
		videoService: videoService,
		jwtService:   jwtService,
	}
}

// PublishRequest represents the text fields of a video publish form.
type PublishRequest struct {
	Title       string `form:"title" validate:"required"`
	Description string `form:"description"`
	Duration    string `form:"duration"`
}

// Publish godoc
// @Summary Publish a video with its thumbnail
// @Tags videos
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param duration formData integer false "Duration in seconds"
// @Param videoFile formData file true "Video file"
// @Param thumbnail formData file true "Thumbnail image"
// @Success 201 {object} model.Video
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /videos [post]
func (h *VideoHandler) Publish(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req PublishRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	duration, _ := strconv.ParseInt(req.Duration, 10, 64)

	in := service.PublishInput{
		OwnerID:     userID,
		Title:       req.Title,
		Description: req.Description,
		Duration:    duration,
	}

	videoFile, videoCloser, err := formFile(c, "videoFile")
	if err == nil {
		defer videoCloser.Close()
		in.VideoFile = videoFile
	}

	thumbnail, thumbCloser, err := formFile(c, "thumbnail")
	if err == nil {
		defer thumbCloser.Close()
		in.Thumbnail = thumbnail
	}

	video, err := h.videoService.Publish(c.Request().Context(), in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, video)
}

// Get godoc
// @Summary Get a video and record the view
// @Tags videos
// @Produce json
// @Param id path string true "Video ID"
// @Success 200 {object} model.Video
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /videos/{id} [get]
func (h *VideoHandler) Get(c echo.Context) error {
	videoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid video id")
	}

	viewerID := optionalViewerID(c, h.jwtService)

	video, err := h.videoService.Get(c.Request().Context(), videoID, viewerID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, video)
}

// ListByChannel godoc
// @Summary List a channel's published videos
// @Tags channels
// @Produce json
// @Param username path string true "Channel username"
// @Success 200 {array} model.Video
// @Failure 404 {object} errors.ErrorResponse
// @Router /channels/{username}/videos [get]
func (h *VideoHandler) ListByChannel(c echo.Context) error {
	videos, err := h.videoService.ListByChannel(c.Request().Context(), c.Param("username"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, videos)
}
