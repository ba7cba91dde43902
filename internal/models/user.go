// Package models contains the persisted entities and the application error taxonomy.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role gates admin-only operations.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents an account holder
type User struct {
	ID                   string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Username             string     `gorm:"uniqueIndex;size:20;not null" json:"username"`
	Email                string     `gorm:"uniqueIndex;not null" json:"email"`
	Password             string     `gorm:"not null" json:"-"`
	Role                 Role       `gorm:"type:varchar(16);default:user;not null" json:"role"`
	RefreshToken         string     `gorm:"index" json:"-"`
	PasswordChangedAt    *time.Time `json:"-"`
	PasswordResetToken   string     `gorm:"index" json:"-"`
	PasswordResetExpires *time.Time `json:"-"`
	Posts                IDList     `json:"posts"`
	Following            IDList     `json:"following"`
	Followers            IDList     `json:"followers"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	assignID(&u.ID)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func assignID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}
