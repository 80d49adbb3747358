package repositories

import (
	"errors"

	"github.com/ripple-social/backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(post *models.Post) error
	GetPostByID(id uint) (*models.Post, error)
	GetPostsByUserID(userID uint, limit int) ([]models.Post, error)
	GetPostsByUserIDs(userIDs []uint) ([]models.Post, error)
	GetAllPosts(cursor uint, limit int) ([]models.Post, uint, error)
	GetPostsCountByUserID(userID uint) (int64, error)
	DeletePostCascade(id uint) error
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// CreatePost creates a new post in PostgreSQL
func (r *PostgresPostRepository) CreatePost(post *models.Post) error {
	return r.db.Create(post).Error
}

// GetPostByID retrieves a post by ID from PostgreSQL
func (r *PostgresPostRepository) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetPostsByUserID retrieves a user's most recent posts, newest first.
func (r *PostgresPostRepository) GetPostsByUserID(userID uint, limit int) ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPostsByUserIDs retrieves all posts authored by any of the given users,
// ordered by createdAt descending with ID as the deterministic tiebreak.
// This is the fan-out read the feed is assembled from.
func (r *PostgresPostRepository) GetPostsByUserIDs(userIDs []uint) ([]models.Post, error) {
	if len(userIDs) == 0 {
		return []models.Post{}, nil
	}
	var posts []models.Post
	if err := r.db.Where("user_id IN ?", userIDs).
		Order("created_at DESC, id DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// GetAllPosts returns the global post list, newest first, paginated by the
// last-seen post ID. A zero next cursor means the last page was reached.
func (r *PostgresPostRepository) GetAllPosts(cursor uint, limit int) ([]models.Post, uint, error) {
	var posts []models.Post
	tx := r.db.Order("id DESC").Limit(limit)
	if cursor > 0 {
		tx = tx.Where("id < ?", cursor)
	}
	if err := tx.Find(&posts).Error; err != nil {
		return nil, 0, err
	}

	var next uint
	if len(posts) == limit {
		next = posts[len(posts)-1].ID
	}
	return posts, next, nil
}

// GetPostsCountByUserID retrieves the total number of posts for a user.
func (r *PostgresPostRepository) GetPostsCountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// DeletePostCascade deletes a post together with its likes and comments in a
// single transaction, so a failure partway through leaves nothing orphaned.
func (r *PostgresPostRepository) DeletePostCascade(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
