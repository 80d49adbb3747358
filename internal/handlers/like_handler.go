package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/ripple-social/backend/internal/models"
	"github.com/ripple-social/backend/internal/repositories"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	likeRepository         repositories.LikeRepository
	postRepository         repositories.PostRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(
	likeRepo repositories.LikeRepository,
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	notifRepo repositories.NotificationRepository,
) *LikeHandler {
	return &LikeHandler{
		likeRepository:         likeRepo,
		postRepository:         postRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/like", h.LikePost)
	g.POST("/posts/:id/unlike", h.UnlikePost)
}

// RegisterPublicLikeRoutes registers like reads available without a token
func (h *LikeHandler) RegisterPublicLikeRoutes(g *echo.Group) {
	g.GET("/posts/:id/likes", h.GetLikers)
}

// LikePost handles liking a post
func (h *LikeHandler) LikePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	post, err := h.postRepository.GetPostByID(uint(postID))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	like := &models.Like{
		UserID: currentUserID,
		PostID: uint(postID),
	}

	// The (user, post) unique index decides duplicates at insert time.
	if err := h.likeRepository.CreateLike(like); err != nil {
		if errors.Is(err, repositories.ErrAlreadyLiked) {
			return echo.NewHTTPError(http.StatusConflict, "Post already liked")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Notify the post author. Best effort; the notification store drops
	// self-notifications.
	if actor, err := h.userRepository.GetUserByID(currentUserID); err == nil {
		h.notificationRepository.CreateNotification(c.Request().Context(), &models.Notification{
			UserID:      post.UserID,
			SenderID:    currentUserID,
			Type:        models.NotificationTypeLike,
			Message:     actor.Name + " liked your post",
			ReferenceID: strconv.FormatUint(uint64(post.ID), 10),
		})
	}

	return c.JSON(http.StatusCreated, like)
}

// UnlikePost handles unliking a post. Unliking a post that was never liked
// succeeds silently.
func (h *LikeHandler) UnlikePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	if _, err := h.postRepository.GetPostByID(uint(postID)); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.likeRepository.DeleteLike(currentUserID, uint(postID)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// GetLikers returns the users who liked a post.
func (h *LikeHandler) GetLikers(c echo.Context) error {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	if _, err := h.postRepository.GetPostByID(uint(postID)); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	users, err := h.likeRepository.GetLikersByPostID(uint(postID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	compact := make([]models.UserCompact, len(users))
	for i, u := range users {
		compact[i] = u.ToCompact()
	}
	return c.JSON(http.StatusOK, compact)
}
