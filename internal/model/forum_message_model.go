package model

import "time"

type ForumMessage struct {
	Id          string    `gorm:"type:varchar(64);primaryKey"`
	ChallengeId string    `gorm:"type:varchar(64);not null;index"`
	UserId      string    `gorm:"type:varchar(128);not null"`
	UserName    string    `gorm:"type:varchar(255)"`
	Text        string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
}

func (ForumMessage) TableName() string {
	return "forum_messages"
}
