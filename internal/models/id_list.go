package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"slices"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// IDList is an ordered set of related entity ids persisted as a JSON column.
type IDList []string

// Contains reports whether id is present.
func (l IDList) Contains(id string) bool {
	return slices.Contains(l, id)
}

// Add appends id unless it is already present.
func (l IDList) Add(id string) IDList {
	if l.Contains(id) {
		return l
	}
	return append(l, id)
}

// Remove drops every occurrence of id, keeping the remaining order.
func (l IDList) Remove(id string) IDList {
	out := make(IDList, 0, len(l))
	for _, v := range l {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func (l IDList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

func (l IDList) Value() (driver.Value, error) {
	b, err := l.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *IDList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = IDList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("IDList: unsupported scan type %T", src)
	}
	if len(raw) == 0 {
		*l = IDList{}
		return nil
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return fmt.Errorf("IDList: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	*l = ids
	return nil
}

func (IDList) GormDataType() string {
	return "text"
}

func (IDList) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "jsonb"
	}
	return "text"
}

// ListOwner exposes a model's IDList columns by column name.
type ListOwner interface {
	IDListColumn(column string) (*IDList, bool)
}

func (p *Post) IDListColumn(column string) (*IDList, bool) {
	switch column {
	case "likes":
		return &p.Likes, true
	case "comments":
		return &p.Comments, true
	}
	return nil, false
}

func (c *Comment) IDListColumn(column string) (*IDList, bool) {
	switch column {
	case "likes":
		return &c.Likes, true
	case "replies":
		return &c.Replies, true
	}
	return nil, false
}

func (u *User) IDListColumn(column string) (*IDList, bool) {
	switch column {
	case "posts":
		return &u.Posts, true
	case "following":
		return &u.Following, true
	case "followers":
		return &u.Followers, true
	}
	return nil, false
}
