package auth

import "time"

type Session struct {
	SessionID string    `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"not null;unique" json:"-"`
	ExpiresAt time.Time `gorm:"not null"`
}

type User struct {
	UserID         string `gorm:"primaryKey" json:"user_id"`
	Username       string `gorm:"not null;unique" json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password" gorm:"-"`
	HashedPassword string `json:"-"`
	Role           string `gorm:"default:'user'" json:"role"`
}

func (Session) TableName() string { return "accounts.sessions" }
func (User) TableName() string    { return "accounts.users" }
