package models

import (
	"time"

	"gorm.io/gorm"
)

// Following records that FollowerID follows FollowingID.
type Following struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	FollowerID  string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_follower_following,priority:1" json:"followerId"`
	FollowingID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_follower_following,priority:2;index" json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (f *Following) BeforeCreate(_ *gorm.DB) error {
	assignID(&f.ID)
	return nil
}

// AllModels lists every persisted model in migration order.
func AllModels() []any {
	return []any{&User{}, &Post{}, &Comment{}, &Like{}, &Following{}}
}
