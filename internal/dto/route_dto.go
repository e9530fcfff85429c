package dto

type GenerateRouteRequest struct {
	UserId         string   `json:"userId" validate:"required"`
	Interests      []string `json:"interests" validate:"required,min=1,max=10,dive,required"`
	AvailableHours float64  `json:"availableHours" validate:"required,gt=0,lte=24"`
	FitnessLevel   string   `json:"fitnessLevel" validate:"omitempty,oneof=low medium high"`
	GroupSize      int      `json:"groupSize" validate:"omitempty,gte=1,lte=50"`
}

type GenerateRouteResponse struct {
	Route                 []RouteItem `json:"route"`
	Summary               string      `json:"summary"`
	TotalEstimatedMinutes int         `json:"totalEstimatedMinutes"`
}
