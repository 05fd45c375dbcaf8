package model

import "gorm.io/gorm"

// Video backs the watch-history and channel aggregation views. Video CRUD
// itself is served elsewhere; this service only reads these rows.
type Video struct {
	gorm.Model
	Title       string  `gorm:"column:title;not null"`
	Description string  `gorm:"column:description"`
	VideoFile   string  `gorm:"column:video_file;not null"`
	Thumbnail   string  `gorm:"column:thumbnail;not null"`
	Duration    float64 `gorm:"column:duration;not null"`
	Views       int64   `gorm:"column:views;default:0;not null"`
	IsPublished bool    `gorm:"column:is_published;default:true;not null"`
	OwnerID     uint    `gorm:"column:owner_id;not null;index"`
	Owner       User    `gorm:"foreignKey:OwnerID"`
}
