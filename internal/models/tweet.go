package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Media kinds accepted on a tweet.
const (
	MediaImage = "image"
	MediaVideo = "video"
)

// Tweet is a post row. A tweet with ParentTweetID set is a reply/comment on
// the parent; deleting the author or the parent cascades here (and
// transitively to this tweet's own replies, likes and notifications).
type Tweet struct {
	ID            string    `json:"id" gorm:"type:uuid;primaryKey"`
	Content       string    `json:"content" gorm:"type:text;not null"`
	MediaURL      *string   `json:"media_url,omitempty" gorm:"size:256"`
	MediaType     *string   `json:"media_type,omitempty" gorm:"size:12"` // image or video
	AuthorID      string    `json:"author_id" gorm:"type:uuid;index;not null"`
	Author        *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	ParentTweetID *string   `json:"parent_tweet_id,omitempty" gorm:"type:uuid;index"`
	ParentTweet   *Tweet    `json:"parent_tweet,omitempty" gorm:"foreignKey:ParentTweetID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time `json:"created_at" gorm:"index"`
}

func (t *Tweet) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// IsReply reports whether the tweet is a comment on another tweet.
func (t *Tweet) IsReply() bool {
	return t.ParentTweetID != nil
}

// CreateTweetRequest defines the request body for creating a tweet.
// ParentTweetID set means the new tweet is a reply.
type CreateTweetRequest struct {
	Content       string  `json:"content" validate:"required,min=1,max=280"`
	MediaURL      *string `json:"media_url,omitempty" validate:"omitempty,url"`
	MediaType     *string `json:"media_type,omitempty" validate:"required_with=MediaURL,omitempty,oneof=image video"`
	ParentTweetID *string `json:"parent_tweet_id,omitempty" validate:"omitempty,uuid4"`
}
