package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/ripple-social/backend/internal/models"
	"github.com/ripple-social/backend/internal/repositories"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	followRepository       repositories.FollowRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(
	followRepo repositories.FollowRepository,
	userRepo repositories.UserRepository,
	notifRepo repositories.NotificationRepository,
) *FollowHandler {
	return &FollowHandler{
		followRepository:       followRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.FollowUser)
	g.POST("/users/:id/unfollow", h.UnfollowUser)
}

// FollowUser follows a user
func (h *FollowHandler) FollowUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if currentUserID == uint(targetID) {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot follow yourself")
	}

	if _, err := h.userRepository.GetUserByID(uint(targetID)); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	follow := &models.Follow{
		FollowerID:  currentUserID,
		FollowingID: uint(targetID),
	}

	// Insert decides duplicates via the unique edge index.
	if err := h.followRepository.CreateFollow(follow); err != nil {
		if errors.Is(err, repositories.ErrDuplicateFollow) {
			return echo.NewHTTPError(http.StatusConflict, "Already following this user")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Notify the followed user. Best effort: a failed notification does not
	// fail the follow.
	if actor, err := h.userRepository.GetUserByID(currentUserID); err == nil {
		h.notificationRepository.CreateNotification(c.Request().Context(), &models.Notification{
			UserID:   uint(targetID),
			SenderID: currentUserID,
			Type:     models.NotificationTypeFollow,
			Message:  actor.Name + " started following you",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "following": true})
}

// UnfollowUser unfollows a user. Unfollowing someone not followed succeeds
// silently.
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if err := h.followRepository.DeleteFollow(currentUserID, uint(targetID)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "following": false})
}
