package models

import "time"

// Post is a user's post. Posts are immutable once created; the counts and
// viewer flags live in PostDetail and are computed at read time.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index"`
	Text      string    `json:"text"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Text      string `json:"text" validate:"required,min=1,max=280"`
	ImageURL  string `json:"image_url,omitempty" validate:"omitempty,url"`
	StorageID string `json:"storage_id,omitempty"`
}

// PostDetail is a post annotated with author summary, like/comment counts
// and whether the requesting user has liked it.
type PostDetail struct {
	Post
	LikesCount    int64       `json:"likes_count"`
	CommentsCount int64       `json:"comments_count"`
	LikedByUser   bool        `json:"liked_by_user"`
	User          UserCompact `json:"user"`
}
