package entity

import (
	"slices"
	"time"
)

type User struct {
	Uid                 string
	NameSurname         string
	Email               string
	CumPoints           int
	JoinedChallenges    []string
	CompletedChallenges []string
	PicURL              string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (u *User) HasJoined(challengeId string) bool {
	return slices.Contains(u.JoinedChallenges, challengeId)
}

func (u *User) HasCompleted(challengeId string) bool {
	return slices.Contains(u.CompletedChallenges, challengeId)
}

// Complete moves a challenge from joined to completed and credits points.
// It reports false, without changes, when the challenge was already completed.
func (u *User) Complete(challengeId string, points int) bool {
	if u.HasCompleted(challengeId) {
		return false
	}
	u.JoinedChallenges = RemoveFromSet(u.JoinedChallenges, challengeId)
	u.CompletedChallenges = AddToSet(u.CompletedChallenges, challengeId)
	u.CumPoints += points
	return true
}
