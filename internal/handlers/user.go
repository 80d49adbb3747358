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

const recentPostsLimit = 10

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	userRepository   repositories.UserRepository
	followRepository repositories.FollowRepository
	postRepository   repositories.PostRepository
	storage          *firebase.Storage
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(
	userRepo repositories.UserRepository,
	followRepo repositories.FollowRepository,
	postRepo repositories.PostRepository,
	storage *firebase.Storage,
) *UserHandler {
	return &UserHandler{
		userRepository:   userRepo,
		followRepository: followRepo,
		postRepository:   postRepo,
		storage:          storage,
	}
}

// RegisterProfileRoutes registers the authenticated user's profile routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/auth/profile", h.GetProfile)
	g.PUT("/auth/profile", h.UpdateProfile)
	g.DELETE("/auth/profile", h.DeleteProfile)
}

// RegisterUserRoutes registers public user routes (optional auth)
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users/search", h.SearchUsers)
	g.GET("/users/:id", h.GetUser)
	g.GET("/users/:id/following", h.GetFollowing)
	g.GET("/users/:id/followers", h.GetFollowers)
}

// buildProfile merges a user with their counts and most recent posts,
// all computed at read time.
func (h *UserHandler) buildProfile(user *models.User) (*models.UserProfile, error) {
	followersCount, err := h.followRepository.GetFollowersCount(user.ID)
	if err != nil {
		return nil, err
	}
	followingCount, err := h.followRepository.GetFollowingCount(user.ID)
	if err != nil {
		return nil, err
	}
	postsCount, err := h.postRepository.GetPostsCountByUserID(user.ID)
	if err != nil {
		return nil, err
	}
	recentPosts, err := h.postRepository.GetPostsByUserID(user.ID, recentPostsLimit)
	if err != nil {
		return nil, err
	}

	return &models.UserProfile{
		User:           *user,
		FollowersCount: followersCount,
		FollowingCount: followingCount,
		PostsCount:     postsCount,
		RecentPosts:    recentPosts,
	}, nil
}

// GetProfile retrieves the authenticated user's profile with counts
func (h *UserHandler) GetProfile(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	user, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// Token subject no longer exists.
			return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	profile, err := h.buildProfile(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateProfile patches the authenticated user's name, avatar and bio.
// Only provided fields are changed.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.AvatarURL != "" {
		user.AvatarURL = req.AvatarURL
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.StorageID != "" {
		if h.storage == nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "Image storage not configured")
		}
		user.AvatarURL = h.storage.ObjectURL(req.StorageID)
	}

	if err := h.userRepository.UpdateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	profile, err := h.buildProfile(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, profile)
}

// DeleteProfile deletes the authenticated user's account
func (h *UserHandler) DeleteProfile(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	if _, err := h.userRepository.GetUserByID(currentUserID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.userRepository.DeleteUser(currentUserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// GetUser returns another user's public profile; is_following reflects the
// requesting user when a token is present.
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	user, err := h.userRepository.GetUserByID(uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	followersCount, err := h.followRepository.GetFollowersCount(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	followingCount, err := h.followRepository.GetFollowingCount(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	isFollowing := false
	if currentUserID := getUserIDFromContext(c); currentUserID != 0 {
		isFollowing, err = h.followRepository.IsFollowing(currentUserID, user.ID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, models.PublicProfile{
		ID:             user.ID,
		Name:           user.Name,
		Username:       user.Username(),
		Avatar:         user.AvatarURL,
		Bio:            user.Bio,
		FollowersCount: followersCount,
		FollowingCount: followingCount,
		IsFollowing:    isFollowing,
	})
}

// GetFollowing lists users that :id follows, cursor-paginated.
func (h *UserHandler) GetFollowing(c echo.Context) error {
	return h.listFollowEdges(c, h.followRepository.GetFollowing)
}

// GetFollowers lists users following :id, cursor-paginated.
func (h *UserHandler) GetFollowers(c echo.Context) error {
	return h.listFollowEdges(c, h.followRepository.GetFollowers)
}

func (h *UserHandler) listFollowEdges(c echo.Context, fetch func(uint, uint, int) ([]models.User, uint, error)) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	cursor, _ := strconv.ParseUint(c.QueryParam("cursor"), 10, 32)
	limit := clampLimit(c.QueryParam("limit"), 20, 100)

	users, next, err := fetch(uint(id), uint(cursor), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	compact := make([]models.UserCompact, len(users))
	for i, u := range users {
		compact[i] = u.ToCompact()
	}

	resp := echo.Map{"users": compact}
	if next > 0 {
		resp["next_cursor"] = next
	} else {
		resp["next_cursor"] = nil
	}
	return c.JSON(http.StatusOK, resp)
}

// SearchUsers searches for users by name, case-insensitive substring match.
// Without a query it returns the first limit users.
func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := c.QueryParam("query")
	limit := clampLimit(c.QueryParam("limit"), 10, 100)

	users, err := h.userRepository.SearchUsers(query, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	currentUserID := getUserIDFromContext(c)
	results := make([]models.UserSearchResult, len(users))
	for i, u := range users {
		isFollowing := false
		if currentUserID != 0 {
			isFollowing, err = h.followRepository.IsFollowing(currentUserID, u.ID)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
		}
		results[i] = models.UserSearchResult{
			ID:          u.ID,
			Name:        u.Name,
			Username:    u.Username(),
			Avatar:      u.AvatarURL,
			IsFollowing: isFollowing,
		}
	}

	return c.JSON(http.StatusOK, results)
}
