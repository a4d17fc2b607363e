package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like is a directed edge from a user to a tweet. Row existence is the sole
// "is liked" signal; the (user, tweet) pair is unique.
type Like struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:uuid;index;uniqueIndex:idx_user_tweet_like;not null"`
	User      *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	TweetID   string    `json:"tweet_id" gorm:"type:uuid;index;uniqueIndex:idx_user_tweet_like;not null"`
	Tweet     *Tweet    `json:"-" gorm:"foreignKey:TweetID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
