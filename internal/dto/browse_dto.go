package dto

type BrowseLocationsRequest struct {
	Query         string   `json:"query" validate:"max=500"`
	Category      string   `json:"category" validate:"max=32"`
	UserLatitude  *float64 `json:"userLatitude" validate:"omitempty,gte=-90,lte=90"`
	UserLongitude *float64 `json:"userLongitude" validate:"omitempty,gte=-180,lte=180"`
	RadiusMeters  *float64 `json:"radiusMeters" validate:"omitempty,gt=0,lte=50000"`
}

type BrowseResult struct {
	ChallengeId      string `json:"challengeId"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Type             string `json:"type"`
	Difficulty       string `json:"difficulty"`
	AiTip            string `json:"aiTip"`
	ParticipantCount int    `json:"participantCount"`
	DistanceMeters   *int   `json:"distanceMeters,omitempty"`
}

type BrowseLocationsResponse struct {
	Results []BrowseResult `json:"results"`
	Summary string         `json:"summary"`
}
