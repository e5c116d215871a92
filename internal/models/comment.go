package models

import "time"

// Comment belongs to exactly one post.
type Comment struct {
	ID        uint      `gorm:"column:comment_id;primaryKey" json:"comment_id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	CreatorID uint      `gorm:"not null;index" json:"creator_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Creator   *User     `gorm:"foreignKey:CreatorID;references:ID" json:"-"`
}

// TableName overrides the table name used by GORM.
func (Comment) TableName() string { return "comments" }
