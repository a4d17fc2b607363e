package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification kinds. Like and follow notifications are retracted when the
// edge that produced them is removed; there is no "uncomment", so comment
// notifications stay.
const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationFollow  = "follow"
)

// Notification is persisted as a side effect of like/comment/follow and
// listed newest first on the recipient's notification page.
type Notification struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey"`
	Kind        string    `json:"kind" gorm:"size:12;index;not null"`
	RecipientID string    `json:"recipient_id" gorm:"type:uuid;index;not null"`
	Recipient   *User     `json:"-" gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE"`
	ActorID     string    `json:"actor_id" gorm:"type:uuid;index;not null"`
	Actor       *User     `json:"actor,omitempty" gorm:"foreignKey:ActorID;constraint:OnDelete:CASCADE"`
	TweetID     *string   `json:"tweet_id,omitempty" gorm:"type:uuid"`
	Tweet       *Tweet    `json:"-" gorm:"foreignKey:TweetID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
