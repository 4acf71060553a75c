package models

import "time"

// User roles. Admins authenticate with login+password; respondents are
// anonymous and correlated across submissions by ExternalID.
const (
	RoleAdmin     = 0
	RoleAnonymous = 1
	RoleAuthUser  = 2
)

// User statuses.
const (
	StatusNew     = 0
	StatusActive  = 1
	StatusBlocked = 2
	StatusDeleted = 3
)

type User struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ExternalID *int64    `gorm:"index" json:"external_id,omitempty"`
	Login      *string   `gorm:"size:100;uniqueIndex" json:"login,omitempty"`
	Phone      *string   `gorm:"size:15" json:"phone,omitempty"`
	Email      *string   `gorm:"size:40" json:"email,omitempty"`
	Salt       string    `gorm:"size:200" json:"-"`
	Status     int       `gorm:"not null;default:1" json:"status"`
	Role       int       `gorm:"not null;default:1" json:"role"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Credential *Credential `gorm:"foreignKey:UserID" json:"-"`
	Answers    []Answer    `gorm:"foreignKey:UserID" json:"-"`
}

// Credential holds the salted password digest of an admin account.
// Created in the same transaction as its User, never on its own.
type Credential struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (Credential) TableName() string {
	return "credentials"
}
