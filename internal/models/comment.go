package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is either a top-level comment on a post (ParentKind post) or a
// reply to another comment (ParentKind comment). ParentID keeps the "postId"
// wire name for both.
type Comment struct {
	ID         string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ParentID   string     `gorm:"type:varchar(36);index;not null" json:"postId"`
	ParentKind TargetKind `gorm:"type:varchar(16);not null" json:"parentKind"`
	Text       string     `gorm:"type:text;not null" json:"text"`
	AuthorID   string     `gorm:"type:varchar(36);index;not null" json:"authorId"`
	Likes      IDList     `json:"likes"`
	Replies    IDList     `json:"replies"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	assignID(&c.ID)
	return nil
}

// IsReply reports whether the comment hangs off another comment.
func (c *Comment) IsReply() bool {
	return c.ParentKind == TargetComment
}

// Kind is the like target kind for this comment.
func (c *Comment) Kind() TargetKind {
	if c.IsReply() {
		return TargetReply
	}
	return TargetComment
}
