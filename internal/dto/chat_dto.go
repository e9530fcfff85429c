package dto

// ChatTurn is one prior message of the conversation, as sent by the client.
type ChatTurn struct {
	Role    string `json:"role" validate:"required,oneof=user model assistant"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Message string     `json:"message" validate:"required,max=4000"`
	UserId  string     `json:"userId"`
	History []ChatTurn `json:"history" validate:"omitempty,max=50,dive"`
	Mode    string     `json:"mode" validate:"omitempty,oneof=guide bedrock"`
}

// RouteItem is one ordered stop of a recommended route. Order starts at 1.
type RouteItem struct {
	ChallengeId      string `json:"challengeId"`
	Title            string `json:"title"`
	Reason           string `json:"reason"`
	EstimatedMinutes int    `json:"estimatedMinutes"`
	Order            int    `json:"order"`
}

type ChatResponse struct {
	Response string      `json:"response"`
	Route    []RouteItem `json:"route,omitempty"`
}
