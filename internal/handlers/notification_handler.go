package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ripple-social/backend/internal/models"
	"github.com/ripple-social/backend/internal/repositories"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
	userRepository         repositories.UserRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(
	notifRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
) *NotificationHandler {
	return &NotificationHandler{
		notificationRepository: notifRepo,
		userRepository:         userRepo,
	}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
}

// EnrichedNotification includes sender info
type EnrichedNotification struct {
	models.Notification
	SenderName   string `json:"sender_name"`
	SenderAvatar string `json:"sender_avatar"`
}

// GetNotifications returns the caller's notifications, newest first, each
// annotated with the sender's name and avatar.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	notifications, err := h.notificationRepository.GetByRecipientID(c.Request().Context(), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	senderCache := make(map[uint]*models.User)
	enriched := make([]EnrichedNotification, len(notifications))
	for i, n := range notifications {
		enriched[i] = EnrichedNotification{Notification: n, SenderName: "Unknown User"}
		sender, ok := senderCache[n.SenderID]
		if !ok {
			sender, _ = h.userRepository.GetUserByID(n.SenderID)
			senderCache[n.SenderID] = sender
		}
		if sender != nil {
			enriched[i].SenderName = sender.Name
			enriched[i].SenderAvatar = sender.AvatarURL
		}
	}

	return c.JSON(http.StatusOK, enriched)
}

// GetUnreadCount returns the unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	count, err := h.notificationRepository.GetUnreadCount(c.Request().Context(), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

// MarkAsRead flips a notification's isRead flag. Only the recipient may do
// so; repeating the call succeeds.
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	notifID := c.Param("id")

	if err := h.notificationRepository.MarkAsRead(c.Request().Context(), notifID, currentUserID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
		case errors.Is(err, repositories.ErrNotOwner):
			return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to modify this notification")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// MarkAllAsRead marks all of the caller's notifications as read and returns
// the number updated.
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	updated, err := h.notificationRepository.MarkAllAsRead(c.Request().Context(), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "updated_count": updated})
}
