package model

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	Uid           string                      `gorm:"type:varchar(128);primaryKey"`
	NameSurname   string                      `gorm:"type:varchar(255)"`
	Email         string                      `gorm:"type:varchar(255);index"`
	CumPoints     int                         `gorm:"not null;default:0"`
	JoinedChlgs   datatypes.JSONSlice[string] `gorm:"column:joined_chlgs;not null"`
	CompletedChlg datatypes.JSONSlice[string] `gorm:"column:completed_chlg;not null"`
	UserPicURL    string                      `gorm:"column:user_pic_url;type:text"`
	CreatedAt     time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt     time.Time                   `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
