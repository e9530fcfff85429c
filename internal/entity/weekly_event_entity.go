package entity

import "time"

type WeeklyEvent struct {
	Id             string
	Description    string
	Multiplier     float64
	TargetCategory string
	StartDate      time.Time
	EndDate        time.Time
}
