package repositories

import (
	"github.com/chirper-app/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	DeleteMatching(kind, actorID, recipientID string, tweetID *string) error
	GetByRecipientID(recipientID string, page, limit int) ([]models.Notification, int64, error)
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// DeleteMatching retracts the notification written for an edge that no longer
// exists (unlike, unfollow). Matching zero rows is fine.
func (r *postgresNotificationRepository) DeleteMatching(kind, actorID, recipientID string, tweetID *string) error {
	q := r.db.Where("kind = ? AND actor_id = ? AND recipient_id = ?", kind, actorID, recipientID)
	if tweetID != nil {
		q = q.Where("tweet_id = ?", *tweetID)
	} else {
		q = q.Where("tweet_id IS NULL")
	}
	return q.Delete(&models.Notification{}).Error
}

func (r *postgresNotificationRepository) GetByRecipientID(recipientID string, page, limit int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	r.db.Model(&models.Notification{}).Where("recipient_id = ?", recipientID).Count(&total)

	offset := (page - 1) * limit
	err := r.db.Preload("Actor").
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error

	return notifications, total, err
}
