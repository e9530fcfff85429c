package constant

const (
	ChatModeGuide   = "guide"
	ChatModeBedrock = "bedrock"
)

const (
	// MinVerificationConfidence is the lowest model confidence that completes a challenge.
	MinVerificationConfidence = 0.6

	DefaultFitnessLevel = "medium"
)

const (
	ReasonChallengeNotFound     = "Challenge not found in database."
	ReasonOutsideGeofence       = "You are %dm away from the challenge location. You need to be within %dm to complete this challenge."
	ReasonUnparseableJudgment   = "AI response could not be parsed."
	ReasonVerificationInFlight  = "A verification for this challenge is already in progress."
	ReasonChallengeHasNoAddress = "This challenge has no location on record."

	RouteFallbackSummary  = "Could not generate a route."
	BrowseFallbackSummary = "Could not process location search."
)

const (
	ImportSourceBrowserAgent = "browser_agent"
)

// ImportTypeMap maps discovery categories onto the app's challenge types.
var ImportTypeMap = map[string]string{
	"hiking":      "hiking",
	"dining":      "food",
	"sightseeing": "photo",
	"cultural":    "culture",
	"adventure":   "activity",
	"nightlife":   "nightlife",
	"shopping":    "activity",
}

// ImportScoreByDifficulty is the reward assigned to imported challenges.
var ImportScoreByDifficulty = map[string]int{
	"easy":   100,
	"medium": 200,
	"hard":   300,
}
