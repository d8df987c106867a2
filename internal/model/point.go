package model

import "time"

// Point is a geotagged annotation placed on the map.
type Point struct {
	ID          uint        `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string      `json:"name" gorm:"size:255"` // category
	Description string      `json:"description" gorm:"type:text"`
	Timestamp   string      `json:"timestamp" gorm:"size:64"` // as supplied by the client
	Image       string      `json:"image" gorm:"type:longtext"`
	Coordinates Coordinates `json:"coordinates" gorm:"type:text;not null"`
	Owner       string      `json:"user" gorm:"size:255;not null;index"`
	CreatedAt   time.Time   `json:"-"`
}
