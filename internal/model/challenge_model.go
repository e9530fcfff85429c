package model

import (
	"time"

	"gorm.io/datatypes"
)

type Challenge struct {
	Id                string                      `gorm:"type:varchar(64);primaryKey"`
	Title             string                      `gorm:"type:varchar(255);not null;index"`
	Description       string                      `gorm:"type:text"`
	Type              string                      `gorm:"type:varchar(32);index"`
	Difficulty        string                      `gorm:"type:varchar(16);index"`
	Score             *int                        `gorm:"type:integer"`
	ExpectedDuration  string                      `gorm:"type:varchar(16)"`
	LocationLatitude  *float64                    `gorm:"type:double precision"`
	LocationLongitude *float64                    `gorm:"type:double precision"`
	Latitude          *float64                    `gorm:"type:double precision"`
	Longitude         *float64                    `gorm:"type:double precision"`
	JoinedPeople      datatypes.JSONSlice[string] `gorm:"not null"`
	SponsorName       *string                     `gorm:"type:varchar(255)"`
	SponsorType       *string                     `gorm:"type:varchar(64)"`
	ChlgPicURL        string                      `gorm:"column:chlg_pic_url;type:text"`
	Source            string                      `gorm:"type:varchar(32)"`
	CreatedAt         time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt         time.Time                   `gorm:"autoUpdateTime"`
}

func (Challenge) TableName() string {
	return "challenges"
}
