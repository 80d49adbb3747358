package handlers

import (
	"github.com/ripple-social/backend/internal/models"
	"github.com/ripple-social/backend/internal/repositories"
)

// buildPostDetail assembles the denormalized view of one post: author
// summary, like count, comment count and the viewer's liked flag. Any lookup
// failure propagates; there is no partial result.
func buildPostDetail(
	post *models.Post,
	viewerID uint,
	userRepo repositories.UserRepository,
	likeRepo repositories.LikeRepository,
	commentRepo repositories.CommentRepository,
) (*models.PostDetail, error) {
	likesCount, err := likeRepo.GetLikesCountByPostID(post.ID)
	if err != nil {
		return nil, err
	}
	commentsCount, err := commentRepo.GetCommentsCountByPostID(post.ID)
	if err != nil {
		return nil, err
	}

	likedByUser := false
	if viewerID != 0 {
		likedByUser, err = likeRepo.HasUserLikedPost(viewerID, post.ID)
		if err != nil {
			return nil, err
		}
	}

	author, err := userRepo.GetUserByID(post.UserID)
	if err != nil {
		return nil, err
	}

	return &models.PostDetail{
		Post:          *post,
		LikesCount:    likesCount,
		CommentsCount: commentsCount,
		LikedByUser:   likedByUser,
		User:          author.ToCompact(),
	}, nil
}
