package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a blog post. Likes holds user ids, Comments holds the ids
// of top-level comments.
type Post struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	AuthorID  string    `gorm:"type:varchar(36);index;not null" json:"authorId"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Image     string    `json:"image,omitempty"`
	Likes     IDList    `json:"likes"`
	Comments  IDList    `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Post) BeforeCreate(_ *gorm.DB) error {
	assignID(&p.ID)
	return nil
}
