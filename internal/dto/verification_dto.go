package dto

type VerifyPhotoRequest struct {
	ChallengeId   string   `json:"challengeId" validate:"required"`
	ImageBase64   string   `json:"imageBase64" validate:"required"`
	UserLatitude  *float64 `json:"userLatitude" validate:"required,gte=-90,lte=90"`
	UserLongitude *float64 `json:"userLongitude" validate:"required,gte=-180,lte=180"`
	UserId        string   `json:"userId" validate:"required"`
}

type VerifyPhotoResponse struct {
	Verified          bool    `json:"verified"`
	Confidence        float64 `json:"confidence"`
	Reason            string  `json:"reason"`
	FunFact           string  `json:"funFact"`
	GpsVerified       bool    `json:"gpsVerified"`
	GpsDistanceMeters int     `json:"gpsDistanceMeters"`
	PointsAwarded     int     `json:"pointsAwarded"`
}
