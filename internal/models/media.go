package models

import "time"

// MediaType enumerates the kinds of media a post may carry.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
	MediaTypeAudio MediaType = "audio"
)

// AllowedMediaTypes lists every accepted MediaType in display order.
var AllowedMediaTypes = []MediaType{MediaTypeImage, MediaTypeVideo, MediaTypeAudio}

// Valid reports whether t is one of AllowedMediaTypes.
func (t MediaType) Valid() bool {
	for _, allowed := range AllowedMediaTypes {
		if t == allowed {
			return true
		}
	}
	return false
}

// Media records a file path attached (optionally) to a post. Only the path is
// stored; the file itself lives elsewhere.
type Media struct {
	ID        uint      `gorm:"column:media_id;primaryKey" json:"media_id"`
	Type      MediaType `gorm:"size:10;not null" json:"type"`
	FilePath  string    `gorm:"size:255;not null" json:"file_path"`
	PostID    *uint     `gorm:"index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the table name used by GORM.
func (Media) TableName() string { return "media" }
