package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/ripple-social/backend/internal/models"
	"github.com/ripple-social/backend/internal/repositories"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository      repositories.CommentRepository
	postRepository         repositories.PostRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(
	commentRepo repositories.CommentRepository,
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	notifRepo repositories.NotificationRepository,
) *CommentHandler {
	return &CommentHandler{
		commentRepository:      commentRepo,
		postRepository:         postRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterCommentRoutes registers routes that require authentication
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.CreateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// RegisterPublicCommentRoutes registers comment reads available without a token
func (h *CommentHandler) RegisterPublicCommentRoutes(g *echo.Group) {
	g.GET("/posts/:id/comments", h.GetComments)
}

// CreateComment creates a new comment on a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(uint(postID))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	comment := &models.Comment{
		PostID: uint(postID),
		UserID: currentUserID,
		Text:   req.Text,
	}

	if err := h.commentRepository.CreateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Notify the post author. Best effort; the notification store itself
	// drops self-notifications.
	if actor, err := h.userRepository.GetUserByID(currentUserID); err == nil {
		h.notificationRepository.CreateNotification(c.Request().Context(), &models.Notification{
			UserID:      post.UserID,
			SenderID:    currentUserID,
			Type:        models.NotificationTypeComment,
			Message:     actor.Name + " commented on your post",
			ReferenceID: strconv.FormatUint(uint64(post.ID), 10),
		})
	}

	return c.JSON(http.StatusCreated, comment)
}

// GetComments returns comments for a post, newest first, cursor-paginated.
func (h *CommentHandler) GetComments(c echo.Context) error {
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

	cursor, _ := strconv.ParseUint(c.QueryParam("cursor"), 10, 32)
	limit := clampLimit(c.QueryParam("limit"), 10, 50)

	comments, next, err := h.commentRepository.GetCommentsByPostID(uint(postID), uint(cursor), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	userCache := make(map[uint]models.UserCompact)
	enriched := make([]models.CommentWithUser, len(comments))
	for i, comment := range comments {
		enriched[i] = models.CommentWithUser{Comment: comment}
		if author, ok := userCache[comment.UserID]; ok {
			enriched[i].User = author
		} else if user, err := h.userRepository.GetUserByID(comment.UserID); err == nil {
			compact := user.ToCompact()
			userCache[comment.UserID] = compact
			enriched[i].User = compact
		}
	}

	resp := echo.Map{"comments": enriched}
	if next > 0 {
		resp["next_cursor"] = next
	} else {
		resp["next_cursor"] = nil
	}
	return c.JSON(http.StatusOK, resp)
}

// DeleteComment deletes a comment. Owner only.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	comment, err := h.commentRepository.GetCommentByID(uint(commentID))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if comment.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this comment")
	}

	if err := h.commentRepository.DeleteComment(uint(commentID)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
