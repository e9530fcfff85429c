package tools

import (
	"time"

	"hk-explorer-be/internal/entity"
	"hk-explorer-be/pkg/events"
)

type Sponsor struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Challenge is the model-facing view of a challenge. Coordinates are resolved.
type Challenge struct {
	Id               string   `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Score            *int     `json:"score,omitempty"`
	ExpectedDuration string   `json:"expected_duration,omitempty"`
	Latitude         float64  `json:"latitude"`
	Longitude        float64  `json:"longitude"`
	JoinedPeople     []string `json:"joined_people"`
	PicURL           string   `json:"chlg_pic_url,omitempty"`
	Sponsor          *Sponsor `json:"sponsor"`

	// HasLocation is false when the record carries no coordinates at all.
	HasLocation bool `json:"-"`
}

type NearbyChallenge struct {
	Challenge
	DistanceMeters int `json:"distanceMeters"`
}

type UserProfile struct {
	Uid           string   `json:"uid"`
	NameSurname   string   `json:"name_surname"`
	Email         string   `json:"email,omitempty"`
	CumPoints     int      `json:"cum_points"`
	JoinedChlgs   []string `json:"joined_chlgs"`
	CompletedChlg []string `json:"completed_chlg"`
	UserPicURL    string   `json:"user_pic_url,omitempty"`
}

type WeeklyEvent struct {
	Id             string  `json:"id"`
	Description    string  `json:"description"`
	Multiplier     float64 `json:"multiplier"`
	TargetCategory string  `json:"target_category"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
}

type Participants struct {
	ChallengeId    string   `json:"challengeId"`
	ParticipantIds []string `json:"participantIds"`
	Count          int      `json:"count"`
}

type JoinResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ForumMessage struct {
	Id          string `json:"id"`
	ChallengeId string `json:"challengeId"`
	UserId      string `json:"userId"`
	UserName    string `json:"userName"`
	Text        string `json:"text"`
	CreatedAt   string `json:"createdAt"`
}

type PostResult struct {
	Success   bool   `json:"success"`
	MessageId string `json:"messageId,omitempty"`
	Message   string `json:"message"`
}

// ErrorResult is what the model sees when a tool cannot run.
type ErrorResult struct {
	Error string `json:"error"`
}

func toChallenge(c *entity.Challenge) Challenge {
	coords, located := c.Coordinates()
	out := Challenge{
		Id:               c.Id,
		Title:            c.Title,
		Description:      c.Description,
		Type:             c.Type,
		Difficulty:       c.Difficulty,
		Score:            c.Score,
		ExpectedDuration: c.ExpectedDuration,
		Latitude:         coords.Latitude,
		Longitude:        coords.Longitude,
		JoinedPeople:     c.JoinedPeople,
		PicURL:           c.PicURL,
		HasLocation:      located,
	}
	if out.JoinedPeople == nil {
		out.JoinedPeople = []string{}
	}
	if c.SponsorName != nil {
		s := &Sponsor{Name: *c.SponsorName}
		if c.SponsorType != nil {
			s.Type = *c.SponsorType
		}
		out.Sponsor = s
	}
	return out
}

func toUserProfile(u *entity.User) *UserProfile {
	return &UserProfile{
		Uid:           u.Uid,
		NameSurname:   u.NameSurname,
		Email:         u.Email,
		CumPoints:     u.CumPoints,
		JoinedChlgs:   u.JoinedChallenges,
		CompletedChlg: u.CompletedChallenges,
		UserPicURL:    u.PicURL,
	}
}

func toWeeklyEvent(e *entity.WeeklyEvent) WeeklyEvent {
	return WeeklyEvent{
		Id:             e.Id,
		Description:    e.Description,
		Multiplier:     e.Multiplier,
		TargetCategory: e.TargetCategory,
		StartDate:      formatTime(e.StartDate),
		EndDate:        formatTime(e.EndDate),
	}
}

func toForumMessage(m *entity.ForumMessage) ForumMessage {
	return ForumMessage{
		Id:          m.Id,
		ChallengeId: m.ChallengeId,
		UserId:      m.UserId,
		UserName:    m.UserName,
		Text:        m.Text,
		CreatedAt:   formatTime(m.CreatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// ForumPostedEvent announces a stored forum message to live listeners.
func ForumPostedEvent(m *entity.ForumMessage) events.Event {
	f := toForumMessage(m)
	return events.New(events.ForumMessagePosted, map[string]interface{}{
		"id":          f.Id,
		"challengeId": f.ChallengeId,
		"userId":      f.UserId,
		"userName":    f.UserName,
		"text":        f.Text,
		"createdAt":   f.CreatedAt,
	})
}
