package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/ripple-social/backend/internal/models"
	"github.com/ripple-social/backend/internal/repositories"
	"github.com/ripple-social/backend/pkg/firebase"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository    repositories.PostRepository
	userRepository    repositories.UserRepository
	likeRepository    repositories.LikeRepository
	commentRepository repositories.CommentRepository
	storage           *firebase.Storage
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	likeRepo repositories.LikeRepository,
	commentRepo repositories.CommentRepository,
	storage *firebase.Storage,
) *PostHandler {
	return &PostHandler{
		postRepository:    postRepo,
		userRepository:    userRepo,
		likeRepository:    likeRepo,
		commentRepository: commentRepo,
		storage:           storage,
	}
}

// RegisterPostRoutes registers routes that require authentication
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.DELETE("/posts/:id", h.DeletePost)
}

// RegisterPublicPostRoutes registers post reads available without a token
func (h *PostHandler) RegisterPublicPostRoutes(g *echo.Group) {
	g.GET("/posts", h.GetPosts)
	g.GET("/posts/:id", h.GetPost)
}

// buildPostDetail annotates a post with its author summary, like and comment
// counts, and whether viewerID has liked it. A zero viewerID skips the liked
// lookup.
func (h *PostHandler) buildPostDetail(post *models.Post, viewerID uint) (*models.PostDetail, error) {
	return buildPostDetail(post, viewerID, h.userRepository, h.likeRepository, h.commentRepository)
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	imageURL := req.ImageURL
	if req.StorageID != "" {
		if h.storage == nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "Image storage not configured")
		}
		imageURL = h.storage.ObjectURL(req.StorageID)
	}

	post := &models.Post{
		UserID:   currentUserID,
		Text:     req.Text,
		ImageURL: imageURL,
	}

	if err := h.postRepository.CreatePost(post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, post)
}

// GetPost retrieves a post by ID with counts and viewer flags
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	post, err := h.postRepository.GetPostByID(uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	detail, err := h.buildPostDetail(post, getUserIDFromContext(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, detail)
}

// GetPosts retrieves the global post list, newest first, paginated by the
// last-seen post ID. Viewer annotations are filled in when a token is present.
func (h *PostHandler) GetPosts(c echo.Context) error {
	cursor, _ := strconv.ParseUint(c.QueryParam("cursor"), 10, 32)
	limit := clampLimit(c.QueryParam("limit"), 10, 50)

	posts, next, err := h.postRepository.GetAllPosts(uint(cursor), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	viewerID := getUserIDFromContext(c)
	details := make([]models.PostDetail, len(posts))
	for i := range posts {
		d, err := h.buildPostDetail(&posts[i], viewerID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		details[i] = *d
	}

	resp := echo.Map{"posts": details}
	if next > 0 {
		resp["next_cursor"] = next
	} else {
		resp["next_cursor"] = nil
	}
	return c.JSON(http.StatusOK, resp)
}

// DeletePost deletes a post together with its likes and comments. Owner only.
func (h *PostHandler) DeletePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	post, err := h.postRepository.GetPostByID(uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if post.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this post")
	}

	if err := h.postRepository.DeletePostCascade(uint(id)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
