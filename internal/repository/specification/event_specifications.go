package specification

import (
	"time"

	"gorm.io/gorm"
)

// EndsAfter keeps events whose end date is strictly after At.
type EndsAfter struct {
	At time.Time
}

func (s EndsAfter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("end_date > ?", s.At)
}

type ByChallengeID struct {
	ChallengeID string
}

func (s ByChallengeID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("challenge_id = ?", s.ChallengeID)
}
