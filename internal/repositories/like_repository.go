package repositories

import (
	"github.com/chirper-app/backend/internal/models"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	CreateLike(like *models.Like) error
	DeleteLike(userID, tweetID string) (bool, error)
	HasUserLikedTweet(userID, tweetID string) (bool, error)
	CountForTweet(tweetID string) (int64, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// CreateLike inserts the edge; liking the same tweet twice loses to the
// (user, tweet) unique index and surfaces as gorm.ErrDuplicatedKey.
func (r *PostgresLikeRepository) CreateLike(like *models.Like) error {
	return r.db.Create(like).Error
}

// DeleteLike removes the edge and reports whether one existed. Unliking a
// tweet never liked is a no-op, not an error.
func (r *PostgresLikeRepository) DeleteLike(userID, tweetID string) (bool, error) {
	res := r.db.
		Where("user_id = ? AND tweet_id = ?", userID, tweetID).
		Delete(&models.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresLikeRepository) HasUserLikedTweet(userID, tweetID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Like{}).
		Where("user_id = ? AND tweet_id = ?", userID, tweetID).
		Count(&count).Error
	return count > 0, err
}

// CountForTweet recounts likes from the source of truth; used to rebuild a
// lost counter-cache entry.
func (r *PostgresLikeRepository) CountForTweet(tweetID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Like{}).Where("tweet_id = ?", tweetID).Count(&count).Error
	return count, err
}
