package models

import "time"

// Post is a piece of content by a user, optionally placed in a study room.
type Post struct {
	ID        uint      `gorm:"column:post_id;primaryKey" json:"post_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatorID uint      `gorm:"not null;index" json:"creator_id"`
	RoomID    *uint     `gorm:"index" json:"room_id"`
	CreatedAt time.Time `json:"created_at"`
	Creator   *User     `gorm:"foreignKey:CreatorID;references:ID" json:"-"`
	Comments  []Comment `gorm:"foreignKey:PostID;references:ID" json:"-"`
	Media     []Media   `gorm:"foreignKey:PostID;references:ID" json:"-"`
}

// TableName overrides the table name used by GORM.
func (Post) TableName() string { return "posts" }
