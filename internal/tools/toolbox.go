package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"hk-explorer-be/pkg/geo"
	"hk-explorer-be/pkg/llm"

	"github.com/go-playground/validator/v10"
)

// Tool names as the model sees them.
const (
	GetChallenges            = "getChallenges"
	GetChallengeByID         = "getChallengeById"
	GetUserProfile           = "getUserProfile"
	GetActiveEvents          = "getActiveEvents"
	GetChallengeParticipants = "getChallengeParticipants"
	SearchChallengesByArea   = "searchChallengesByArea"
	JoinChallenge            = "joinChallenge"
	GetForumMessages         = "getForumMessages"
	PostForumMessage         = "postForumMessage"
)

// AllTools is the full registry, in declaration order.
var AllTools = []string{
	GetChallenges,
	GetChallengeByID,
	GetUserProfile,
	GetActiveEvents,
	GetChallengeParticipants,
	SearchChallengesByArea,
	JoinChallenge,
	GetForumMessages,
	PostForumMessage,
}

type GetChallengesInput struct {
	Type       string `json:"type" validate:"omitempty,max=32"`
	Difficulty string `json:"difficulty" validate:"omitempty,max=16"`
}

type ChallengeIDInput struct {
	ChallengeId string `json:"challengeId" validate:"required"`
}

type UserIDInput struct {
	UserId string `json:"userId" validate:"required"`
}

type SearchChallengesByAreaInput struct {
	Latitude     *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude    *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	RadiusMeters *float64 `json:"radiusMeters" validate:"omitempty,gt=0"`
}

type JoinChallengeInput struct {
	UserId      string `json:"userId" validate:"required"`
	ChallengeId string `json:"challengeId" validate:"required"`
}

type GetForumMessagesInput struct {
	ChallengeId string `json:"challengeId" validate:"required"`
	Limit       int    `json:"limit" validate:"omitempty,gte=1,lte=100"`
}

type PostForumMessageInput struct {
	ChallengeId string `json:"challengeId" validate:"required"`
	UserId      string `json:"userId" validate:"required"`
	UserName    string `json:"userName" validate:"max=255"`
	Text        string `json:"text" validate:"required,max=2000"`
}

type handler func(ctx context.Context, g *Gateway, args json.RawMessage) (any, error)

type tool struct {
	spec llm.ToolSpec
	run  handler
}

func str(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func num(desc string) map[string]any {
	return map[string]any{"type": "number", "description": desc}
}

func object(props map[string]any, required ...string) map[string]any {
	schema := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// decode unmarshals and validates tool arguments. Empty arguments decode as {}.
func decode[T any](g *Gateway, args json.RawMessage) (T, error) {
	var in T
	if len(args) > 0 && string(args) != "null" {
		if err := json.Unmarshal(args, &in); err != nil {
			return in, fmt.Errorf("invalid arguments: %w", err)
		}
	}
	if err := g.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
			return in, fmt.Errorf("invalid arguments: %s", strings.Join(fields, ", "))
		}
		return in, err
	}
	return in, nil
}

var registry = map[string]tool{
	GetChallenges: {
		spec: llm.ToolSpec{
			Name:        GetChallenges,
			Description: "Get available challenges from the database, optionally filtered by type or difficulty",
			Parameters: object(map[string]any{
				"type":       str("Challenge type filter: photo, food, activity, hiking, culture, nightlife"),
				"difficulty": str("Difficulty filter: easy, medium, hard"),
			}),
		},
		run: func(ctx context.Context, g *Gateway, args json.RawMessage) (any, error) {
			in, err := decode[GetChallengesInput](g, args)
			if err != nil {
				return nil, err
			}
			return g.GetChallenges(ctx, in.Type, in.Difficulty)
		},
	},
	GetChallengeByID: {
		spec: llm.ToolSpec{
			Name:        GetChallengeByID,
			Description: "Get a single challenge by its ID",
			Parameters:  object(map[string]any{"challengeId": str("The ID of the challenge")}, "challengeId"),
		},
		run: func(ctx context.Context, g *Gateway, args json.RawMessage) (any, error) {
			in, err := decode[ChallengeIDInput](g, args)
			if err != nil {
				return nil, err
			}
			return g.GetChallengeByID(ctx, in.ChallengeId)
		},
	},
	GetUserProfile: {
		spec: llm.ToolSpec{
			Name:        GetUserProfile,
			Description: "Get a user profile including points, joined challenges, and completed challenges",
			Parameters:  object(map[string]any{"userId": str("The uid of the user")}, "userId"),
		},
		run: func(ctx context.Context, g *Gateway, args json.RawMessage) (any, error) {
			in, err := decode[UserIDInput](g, args)
			if err != nil {
				return nil, err
			}
			return g.GetUserProfile(ctx, in.UserId)
		},
	},
	GetActiveEvents: {
		spec: llm.ToolSpec{
			Name:        GetActiveEvents,
			Description: "Get currently active weekly events that offer bonus multipliers",
			Parameters:  object(map[string]any{}),
		},
		run: func(ctx context.Context, g *Gateway, _ json.RawMessage) (any, error) {
			return g.GetActiveEvents(ctx)
		},
	},
	GetChallengeParticipants: {
		spec: llm.ToolSpec{
			Name:        GetChallengeParticipants,
			Description: "Get the list of user IDs who have joined a specific challenge",
			Parameters:  object(map[string]any{"challengeId": str("The challenge ID")}, "challengeId"),
		},
		run: func(ctx context.Context, g *Gateway, args json.RawMessage) (any, error) {
			in, err := decode[ChallengeIDInput](g, args)
			if err != nil {
				return nil, err
			}
			return g.GetChallengeParticipants(ctx, in.ChallengeId), nil
		},
	},
	SearchChallengesByArea: {
		spec: llm.ToolSpec{
			Name:        SearchChallengesByArea,
			Description: "Search for challenges near a given GPS coordinate within a radius (in meters)",
			Parameters: object(map[string]any{
				"latitude":     num("Center latitude"),
				"longitude":    num("Center longitude"),
				"radiusMeters": num("Search radius in meters, defaults to 3000"),
			}, "latitude", "longitude"),
		},
		run: func(ctx context.Context, g *Gateway, args json.RawMessage) (any, error) {
			in, err := decode[SearchChallengesByAreaInput](g, args)
			if err != nil {
				return nil, err
			}
			radius := float64(DefaultSearchRadiusMeters)
			if in.RadiusMeters != nil {
				radius = *in.RadiusMeters
			}
			return g.SearchChallengesByArea(ctx, geo.Coordinate{Latitude: *in.Latitude, Longitude: *in.Longitude}, radius)
		},
	},
	JoinChallenge: {
		spec: llm.ToolSpec{
			Name:        JoinChallenge,
			Description: "Join a challenge on behalf of the user",
			Parameters: object(map[string]any{
				"userId":      str("The uid of the user"),
				"challengeId": str("The challenge ID to join"),
			}, "userId", "challengeId"),
		},
		run: func(ctx context.Context, g *Gateway, args json.RawMessage) (any, error) {
			in, err := decode[JoinChallengeInput](g, args)
			if err != nil {
				return nil, err
			}
			return g.JoinChallenge(ctx, in.UserId, in.ChallengeId), nil
		},
	},
	GetForumMessages: {
		spec: llm.ToolSpec{
			Name:        GetForumMessages,
			Description: "Get the latest forum discussion messages for a challenge, newest first",
			Parameters: object(map[string]any{
				"challengeId": str("The challenge ID"),
				"limit":       num("Maximum number of messages, defaults to 20"),
			}, "challengeId"),
		},
		run: func(ctx context.Context, g *Gateway, args json.RawMessage) (any, error) {
			in, err := decode[GetForumMessagesInput](g, args)
			if err != nil {
				return nil, err
			}
			return g.GetForumMessages(ctx, in.ChallengeId, in.Limit)
		},
	},
	PostForumMessage: {
		spec: llm.ToolSpec{
			Name:        PostForumMessage,
			Description: "Post a message to a challenge's forum",
			Parameters: object(map[string]any{
				"challengeId": str("The challenge ID"),
				"userId":      str("The uid of the author"),
				"userName":    str("Display name of the author"),
				"text":        str("Message text"),
			}, "challengeId", "userId", "text"),
		},
		run: func(ctx context.Context, g *Gateway, args json.RawMessage) (any, error) {
			in, err := decode[PostForumMessageInput](g, args)
			if err != nil {
				return nil, err
			}
			return g.PostForumMessage(ctx, in), nil
		},
	},
}

// Toolbox is a subset of the registry bound to a gateway.
type Toolbox struct {
	gateway *Gateway
	names   []string
}

var _ llm.Toolbox = (*Toolbox)(nil)

// Toolbox returns a toolbox exposing the named tools. Unknown names panic:
// the set is fixed at build time.
func (g *Gateway) Toolbox(names ...string) *Toolbox {
	for _, n := range names {
		if _, ok := registry[n]; !ok {
			panic("tools: unknown tool " + n)
		}
	}
	return &Toolbox{gateway: g, names: append([]string(nil), names...)}
}

func (t *Toolbox) Specs() []llm.ToolSpec {
	specs := make([]llm.ToolSpec, 0, len(t.names))
	for _, n := range t.names {
		specs = append(specs, registry[n].spec)
	}
	return specs
}

func (t *Toolbox) Names() []string {
	return append([]string(nil), t.names...)
}

// Call runs a tool. Unknown tools, bad arguments and store failures come back
// as ErrorResult so the model can recover.
func (t *Toolbox) Call(ctx context.Context, name string, args json.RawMessage) any {
	entry, ok := registry[name]
	if !ok || !t.allows(name) {
		t.gateway.logger.Warn(module, "model requested unavailable tool", map[string]interface{}{"tool": name})
		return ErrorResult{Error: fmt.Sprintf("unknown tool %q", name)}
	}

	result, err := entry.run(ctx, t.gateway, args)
	if err != nil {
		t.gateway.logger.Warn(module, "tool call failed", map[string]interface{}{"tool": name, "error": err})
		return ErrorResult{Error: err.Error()}
	}
	t.gateway.logger.Debug(module, "tool call", map[string]interface{}{"tool": name})
	return result
}

func (t *Toolbox) allows(name string) bool {
	for _, n := range t.names {
		if n == name {
			return true
		}
	}
	return false
}
