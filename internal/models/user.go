package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account row in PostgreSQL. Username is generated from the name
// at signup and stays unique afterward; the profile update path is the only
// other writer.
type User struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	Email     string    `json:"email" gorm:"size:256;uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"size:256;not null"`
	Username  string    `json:"username" gorm:"size:256;uniqueIndex;not null"`
	Avatar    *string   `json:"avatar,omitempty" gorm:"size:256"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// UserCompact is the author payload embedded in feed/tweet responses.
type UserCompact struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Username string  `json:"username"`
	Avatar   *string `json:"avatar,omitempty"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Name: u.Name, Username: u.Username, Avatar: u.Avatar}
}

type UpdateProfileRequest struct {
	Name     string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Username string `json:"username,omitempty" validate:"omitempty,min=2,max=50"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims.
// SessionID keys the websocket connections force-closed at logout.
type JwtCustomClaims struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}
