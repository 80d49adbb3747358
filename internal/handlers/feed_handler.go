package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ripple-social/backend/internal/models"
	"github.com/ripple-social/backend/internal/repositories"
)

// FeedHandler assembles the per-viewer feed out of the social graph, post,
// like, comment and user stores. It is the only handler that composes
// multiple stores per request.
type FeedHandler struct {
	postRepository    repositories.PostRepository
	userRepository    repositories.UserRepository
	followRepository  repositories.FollowRepository
	likeRepository    repositories.LikeRepository
	commentRepository repositories.CommentRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	followRepo repositories.FollowRepository,
	likeRepo repositories.LikeRepository,
	commentRepo repositories.CommentRepository,
) *FeedHandler {
	return &FeedHandler{
		postRepository:    postRepo,
		userRepository:    userRepo,
		followRepository:  followRepo,
		likeRepository:    likeRepo,
		commentRepository: commentRepo,
	}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/posts/feed", h.GetFeed)
}

// GetFeed returns posts authored by the viewer or anyone the viewer follows,
// ordered by createdAt descending with post ID as the tiebreak. Each post
// carries its author summary, like/comment counts and the viewer's liked
// flag. Any per-post lookup failure fails the whole request.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	viewerID := getUserIDFromContext(c)

	followingIDs, err := h.followRepository.GetFollowingIDs(viewerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	authorIDs := append(followingIDs, viewerID)

	posts, err := h.postRepository.GetPostsByUserIDs(authorIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	authorCache := make(map[uint]models.UserCompact)
	feed := make([]models.PostDetail, len(posts))
	for i := range posts {
		post := &posts[i]

		likesCount, err := h.likeRepository.GetLikesCountByPostID(post.ID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		commentsCount, err := h.commentRepository.GetCommentsCountByPostID(post.ID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		liked, err := h.likeRepository.HasUserLikedPost(viewerID, post.ID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		author, ok := authorCache[post.UserID]
		if !ok {
			user, err := h.userRepository.GetUserByID(post.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
			author = user.ToCompact()
			authorCache[post.UserID] = author
		}

		feed[i] = models.PostDetail{
			Post:          *post,
			LikesCount:    likesCount,
			CommentsCount: commentsCount,
			LikedByUser:   liked,
			User:          author,
		}
	}

	return c.JSON(http.StatusOK, feed)
}
