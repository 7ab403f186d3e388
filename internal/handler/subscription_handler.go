package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"vidtube/internal/service"
)

// SubscriptionHandler handles subscription endpoints.
type SubscriptionHandler struct {
	subscriptionService service.SubscriptionService
}

// NewSubscriptionHandler creates a new subscription handler.
func NewSubscriptionHandler(subscriptionService service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// Toggle godoc
// @Summary Subscribe to or unsubscribe from a channel
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param username path string true "Channel username"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /subscriptions/{username} [post]
func (h *SubscriptionHandler) Toggle(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	subscribed, err := h.subscriptionService.Toggle(c.Request().Context(), userID, c.Param("username"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"subscribed": subscribed,
	})
}
