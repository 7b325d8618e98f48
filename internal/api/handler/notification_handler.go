package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/handyhub/marketplace-system/internal/core/domain"
	"github.com/handyhub/marketplace-system/internal/core/ports"
)

// NotificationHandler serves the authenticated user's notification feed.
type NotificationHandler struct {
	notifications ports.NotificationService
}

func NewNotificationHandler(notifications ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

type listNotificationsResponse struct {
	Data  []*domain.Notification `json:"data"`
	Count int                    `json:"count"`
}

// List handles GET /v1/notifications — the caller's feed, newest first.
//
// @Summary      List my notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listNotificationsResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	items, err := h.notifications.ListMine(c.Request().Context(), caller)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listNotificationsResponse{Data: items, Count: len(items)})
}
