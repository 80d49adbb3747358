package repositories

import (
	"errors"

	"github.com/ripple-social/backend/internal/models"
	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow data operations
type FollowRepository interface {
	CreateFollow(follow *models.Follow) error
	DeleteFollow(followerID, followingID uint) error
	IsFollowing(followerID, followingID uint) (bool, error)
	GetFollowers(userID uint, cursor uint, limit int) ([]models.User, uint, error)
	GetFollowing(userID uint, cursor uint, limit int) ([]models.User, uint, error)
	GetFollowersCount(userID uint) (int64, error)
	GetFollowingCount(userID uint) (int64, error)
	GetFollowingIDs(userID uint) ([]uint, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

// CreateFollow inserts a follow edge. The composite unique index rejects a
// duplicate edge at insert time, which also closes the race between two
// simultaneous follow requests.
func (r *PostgresFollowRepository) CreateFollow(follow *models.Follow) error {
	if err := r.db.Create(follow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateFollow
		}
		return err
	}
	return nil
}

// DeleteFollow removes a follow edge. Deleting a non-existent edge is a
// silent no-op.
func (r *PostgresFollowRepository) DeleteFollow(followerID, followingID uint) error {
	return r.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{}).Error
}

func (r *PostgresFollowRepository) IsFollowing(followerID, followingID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetFollowers returns users following userID, newest edge first, paginated
// by edge ID. A zero next cursor means the caller has reached the last page.
func (r *PostgresFollowRepository) GetFollowers(userID uint, cursor uint, limit int) ([]models.User, uint, error) {
	return r.pageUsers("following_id = ?", userID, "follower_id", cursor, limit)
}

// GetFollowing returns users that userID follows, newest edge first,
// paginated by edge ID.
func (r *PostgresFollowRepository) GetFollowing(userID uint, cursor uint, limit int) ([]models.User, uint, error) {
	return r.pageUsers("follower_id = ?", userID, "following_id", cursor, limit)
}

func (r *PostgresFollowRepository) pageUsers(cond string, userID uint, otherCol string, cursor uint, limit int) ([]models.User, uint, error) {
	var follows []models.Follow
	tx := r.db.Where(cond, userID)
	if cursor > 0 {
		tx = tx.Where("id < ?", cursor)
	}
	if err := tx.Order("id DESC").Limit(limit).Find(&follows).Error; err != nil {
		return nil, 0, err
	}

	ids := make([]uint, len(follows))
	for i, f := range follows {
		if otherCol == "follower_id" {
			ids[i] = f.FollowerID
		} else {
			ids[i] = f.FollowingID
		}
	}

	var fetched []models.User
	if len(ids) > 0 {
		if err := r.db.Where("id IN ?", ids).Find(&fetched).Error; err != nil {
			return nil, 0, err
		}
	}

	// Preserve edge order.
	byID := make(map[uint]models.User, len(fetched))
	for _, u := range fetched {
		byID[u.ID] = u
	}
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			users = append(users, u)
		}
	}

	var next uint
	if len(follows) == limit {
		next = follows[len(follows)-1].ID
	}
	return users, next, nil
}

func (r *PostgresFollowRepository) GetFollowersCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("following_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *PostgresFollowRepository) GetFollowingCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *PostgresFollowRepository) GetFollowingIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Pluck("following_id", &ids).Error
	return ids, err
}
