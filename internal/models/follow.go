package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Follow is a directed edge in the social graph. Self-edges are rejected by
// the handlers before any row is written; uniqueness on the pair is enforced
// by the store.
type Follow struct {
	ID         string    `json:"id" gorm:"type:uuid;primaryKey"`
	FollowerID string    `json:"follower_id" gorm:"type:uuid;index;uniqueIndex:idx_follower_followee;not null"`
	Follower   *User     `json:"-" gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	FolloweeID string    `json:"followee_id" gorm:"type:uuid;index;uniqueIndex:idx_follower_followee;not null"`
	Followee   *User     `json:"-" gorm:"foreignKey:FolloweeID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time `json:"created_at"`
}

func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
