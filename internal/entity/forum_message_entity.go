package entity

import "time"

type ForumMessage struct {
	Id          string
	ChallengeId string
	UserId      string
	UserName    string
	Text        string
	CreatedAt   time.Time
}
