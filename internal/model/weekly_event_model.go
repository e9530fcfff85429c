package model

import "time"

type WeeklyEvent struct {
	Id             string    `gorm:"type:varchar(64);primaryKey"`
	Description    string    `gorm:"type:text"`
	Multiplier     float64   `gorm:"not null;default:1"`
	TargetCategory string    `gorm:"type:varchar(32)"`
	StartDate      time.Time `gorm:"not null"`
	EndDate        time.Time `gorm:"not null;index"`
}

func (WeeklyEvent) TableName() string {
	return "weekly_events"
}
