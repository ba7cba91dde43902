package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// TargetKind names what a like (or a comment's parent) points at.
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
	TargetReply   TargetKind = "reply"
)

// Valid reports whether k is one of the known kinds.
func (k TargetKind) Valid() bool {
	switch k {
	case TargetPost, TargetComment, TargetReply:
		return true
	}
	return false
}

// ParseTargetKind accepts the kind names case-insensitively.
func ParseTargetKind(s string) (TargetKind, error) {
	k := TargetKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("unknown target kind %q", s)
	}
	return k, nil
}

// Like is one user's like on a post, comment or reply. The unique index
// keeps at most one like per (author, target, kind).
type Like struct {
	ID        string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	TargetID  string     `gorm:"type:varchar(36);not null;uniqueIndex:idx_like_author_target,priority:2;index" json:"postId"`
	Kind      TargetKind `gorm:"type:varchar(16);not null;uniqueIndex:idx_like_author_target,priority:3" json:"kind"`
	AuthorID  string     `gorm:"type:varchar(36);not null;uniqueIndex:idx_like_author_target,priority:1" json:"authorId"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (l *Like) BeforeCreate(_ *gorm.DB) error {
	assignID(&l.ID)
	return nil
}
