package repositories

import (
	"github.com/chirper-app/backend/internal/models"
	"gorm.io/gorm"
)

// TweetRepository defines the interface for tweet data operations
type TweetRepository interface {
	CreateTweet(tweet *models.Tweet) error
	GetTweetByID(id string) (*models.Tweet, error)
	GetComments(tweetID string) ([]models.Tweet, error)
	GetTweetsByAuthor(authorID string) ([]models.Tweet, error)
	CountCommentsForTweet(tweetID string) (int64, error)
	DeleteTweet(id, authorID string) (bool, error)
}

// PostgresTweetRepository implements TweetRepository for PostgreSQL
type PostgresTweetRepository struct {
	db *gorm.DB
}

// NewPostgresTweetRepository creates a new PostgresTweetRepository
func NewPostgresTweetRepository(db *gorm.DB) *PostgresTweetRepository {
	return &PostgresTweetRepository{db: db}
}

// CreateTweet inserts a tweet. A missing author or parent tweet violates the
// foreign keys and surfaces as gorm.ErrForeignKeyViolated.
func (r *PostgresTweetRepository) CreateTweet(tweet *models.Tweet) error {
	return r.db.Create(tweet).Error
}

// GetTweetByID retrieves a tweet with its author
func (r *PostgresTweetRepository) GetTweetByID(id string) (*models.Tweet, error) {
	var tweet models.Tweet
	if err := r.db.Preload("Author").Where("id = ?", id).First(&tweet).Error; err != nil {
		return nil, err
	}
	return &tweet, nil
}

// GetComments retrieves the replies to a tweet, newest first, with authors
func (r *PostgresTweetRepository) GetComments(tweetID string) ([]models.Tweet, error) {
	var tweets []models.Tweet
	err := r.db.Preload("Author").
		Where("parent_tweet_id = ?", tweetID).
		Order("created_at DESC").
		Find(&tweets).Error
	return tweets, err
}

// GetTweetsByAuthor retrieves all tweets of one author, newest first
func (r *PostgresTweetRepository) GetTweetsByAuthor(authorID string) ([]models.Tweet, error) {
	var tweets []models.Tweet
	err := r.db.
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&tweets).Error
	return tweets, err
}

// CountCommentsForTweet recounts replies from the source of truth; used to
// rebuild a lost counter-cache entry.
func (r *PostgresTweetRepository) CountCommentsForTweet(tweetID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Tweet{}).Where("parent_tweet_id = ?", tweetID).Count(&count).Error
	return count, err
}

// DeleteTweet deletes a tweet owned by authorID; replies, likes and
// notifications cascade. Returns false when no row matched.
func (r *PostgresTweetRepository) DeleteTweet(id, authorID string) (bool, error) {
	res := r.db.Where("id = ? AND author_id = ?", id, authorID).Delete(&models.Tweet{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
