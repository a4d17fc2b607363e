package repositories

import (
	"github.com/chirper-app/backend/internal/models"
	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow data operations
type FollowRepository interface {
	CreateFollow(follow *models.Follow) error
	DeleteFollow(followerID, followeeID string) (bool, error)
	IsFollowing(followerID, followeeID string) (bool, error)
	GetFollowerCount(userID string) (int64, error)
	GetFollowingCount(userID string) (int64, error)
	GetRecommendations(viewerID string, limit int) ([]models.User, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

// CreateFollow inserts the edge; a duplicate pair surfaces as
// gorm.ErrDuplicatedKey. Self-edges are the caller's job to reject.
func (r *PostgresFollowRepository) CreateFollow(follow *models.Follow) error {
	return r.db.Create(follow).Error
}

// DeleteFollow removes the edge and reports whether one existed. Unfollowing
// a user never followed is a no-op, not an error.
func (r *PostgresFollowRepository) DeleteFollow(followerID, followeeID string) (bool, error) {
	res := r.db.
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresFollowRepository) IsFollowing(followerID, followeeID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	return count > 0, err
}

func (r *PostgresFollowRepository) GetFollowerCount(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("followee_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *PostgresFollowRepository) GetFollowingCount(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}

// GetRecommendations walks the follow graph two hops out: users followed by
// the viewer's followees, excluding the viewer, anyone already followed, and
// self-loop edges in the second hop. Ordered by the recency of the second-hop
// edge.
func (r *PostgresFollowRepository) GetRecommendations(viewerID string, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Raw(`
		SELECT u.*
		FROM follows f1
		JOIN follows f2 ON f2.follower_id = f1.followee_id
		JOIN users u ON u.id = f2.followee_id
		WHERE f1.follower_id = @viewer
		  AND f2.followee_id <> @viewer
		  AND f2.followee_id <> f2.follower_id
		  AND f2.followee_id NOT IN (
			SELECT followee_id FROM follows WHERE follower_id = @viewer
		  )
		GROUP BY u.id
		ORDER BY MAX(f2.created_at) DESC
		LIMIT @limit
	`, map[string]interface{}{"viewer": viewerID, "limit": limit}).Scan(&users).Error
	return users, err
}
