package models

import "time"

// Like is a like edge between a user and a post. At most one like per
// (user, post) pair, enforced by the composite unique index.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_post"`
	PostID    uint      `json:"post_id" gorm:"index;uniqueIndex:idx_user_post"`
	CreatedAt time.Time `json:"created_at"`
}
