package models

import "time"

// StudyRoom is a named room with a positive capacity, owned by its creator.
type StudyRoom struct {
	ID          uint      `gorm:"column:room_id;primaryKey" json:"room_id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	Capacity    int       `gorm:"not null;check:chk_study_rooms_capacity,capacity > 0" json:"capacity"`
	CreatorID   uint      `gorm:"not null;index" json:"creator_id"`
	CreatedAt   time.Time `json:"created_at"`
	Creator     *User     `gorm:"foreignKey:CreatorID;references:ID" json:"-"`
	Posts       []Post    `gorm:"foreignKey:RoomID;references:ID" json:"-"`
}

// TableName overrides the table name used by GORM.
func (StudyRoom) TableName() string { return "study_rooms" }

// StudyRoomSummary is the list projection of a room.
type StudyRoomSummary struct {
	ID       uint   `json:"room_id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}
