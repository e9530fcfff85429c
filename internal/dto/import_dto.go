package dto

// DiscoveredChallenge is a challenge as produced by the discovery agent.
// Location is [longitude, latitude]; Duration is in hours.
type DiscoveredChallenge struct {
	Title       string    `json:"title" validate:"required,max=255"`
	Description string    `json:"description"`
	Difficulty  string    `json:"difficulty" validate:"max=16"`
	Location    []float64 `json:"location" validate:"len=2"`
	Type        string    `json:"type" validate:"required"`
	Duration    float64   `json:"duration" validate:"gte=0"`
	PhotoURL    *string   `json:"photo_url"`
}

type ImportChallengesRequest struct {
	Challenges []DiscoveredChallenge `json:"challenges" validate:"required,min=1,max=500,dive"`
}

type ImportChallengesResponse struct {
	Imported     int      `json:"imported"`
	Skipped      int      `json:"skipped"`
	ChallengeIds []string `json:"challengeIds"`
}

type ImportAcceptedResponse struct {
	JobId string `json:"jobId"`
	Count int    `json:"count"`
}

// PublishImportMessage is the queued import job payload.
type PublishImportMessage struct {
	JobId      string                `json:"jobId"`
	Challenges []DiscoveredChallenge `json:"challenges"`
}
