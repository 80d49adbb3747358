package repositories

import (
	"errors"

	"github.com/ripple-social/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentByID(id uint) (*models.Comment, error)
	GetCommentsByPostID(postID uint, cursor uint, limit int) ([]models.Comment, uint, error)
	GetCommentsCountByPostID(postID uint) (int64, error)
	DeleteComment(id uint) error
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment in PostgreSQL
func (r *PostgresCommentRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// GetCommentByID retrieves a comment by ID from PostgreSQL
func (r *PostgresCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByPostID returns comments for a post, newest first, paginated by
// comment ID. The next cursor is zero once a page comes back shorter than
// limit; a page of exactly limit rows advances the cursor even when no rows
// remain, costing the caller one extra empty round trip.
func (r *PostgresCommentRepository) GetCommentsByPostID(postID uint, cursor uint, limit int) ([]models.Comment, uint, error) {
	var comments []models.Comment
	tx := r.db.Where("post_id = ?", postID)
	if cursor > 0 {
		tx = tx.Where("id < ?", cursor)
	}
	if err := tx.Order("id DESC").Limit(limit).Find(&comments).Error; err != nil {
		return nil, 0, err
	}

	var next uint
	if len(comments) == limit {
		next = comments[len(comments)-1].ID
	}
	return comments, next, nil
}

// GetCommentsCountByPostID retrieves the count of comments for a specific post
func (r *PostgresCommentRepository) GetCommentsCountByPostID(postID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteComment deletes a comment by ID from PostgreSQL
func (r *PostgresCommentRepository) DeleteComment(id uint) error {
	return r.db.Delete(&models.Comment{}, id).Error
}
