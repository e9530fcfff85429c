package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// DefaultMaxToolRounds bounds how many tool round-trips a single call may take.
const DefaultMaxToolRounds = 6

// ErrToolLoopExhausted is returned when the model keeps requesting tools
// after the final, tool-less round.
var ErrToolLoopExhausted = errors.New("tool loop exhausted")

// Toolbox is a fixed set of tools the model may invoke.
type Toolbox interface {
	Specs() []ToolSpec
	// Call executes a tool. It never fails: problems are reported inside the result.
	Call(ctx context.Context, name string, args json.RawMessage) any
}

// Runner drives a provider through tool round-trips until it answers with text.
type Runner struct {
	provider  LLMProvider
	maxRounds int
}

func NewRunner(provider LLMProvider, maxRounds int) *Runner {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxToolRounds
	}
	return &Runner{provider: provider, maxRounds: maxRounds}
}

func (r *Runner) Provider() LLMProvider {
	return r.provider
}

// Run executes req. When box is nil the request is sent once, as is.
// The caller's message slice is never modified.
func (r *Runner) Run(ctx context.Context, req *Request, box Toolbox, options ...Option) (*Response, error) {
	if box == nil {
		return r.provider.Complete(ctx, req, options...)
	}

	messages := make([]Message, len(req.Messages), len(req.Messages)+2*r.maxRounds)
	copy(messages, req.Messages)

	round := &Request{
		System:   req.System,
		Messages: messages,
		Tools:    box.Specs(),
		Schema:   req.Schema,
	}

	for i := 0; i < r.maxRounds; i++ {
		resp, err := r.provider.Complete(ctx, round, options...)
		if err != nil {
			return nil, err
		}
		if len(resp.ToolCalls) == 0 {
			return resp, nil
		}

		round.Messages = append(round.Messages, Message{
			Role:      RoleAssistant,
			Content:   resp.Text,
			ToolCalls: resp.ToolCalls,
		})
		for _, call := range resp.ToolCalls {
			round.Messages = append(round.Messages, Message{
				Role:       RoleTool,
				Content:    encodeToolResult(box.Call(ctx, call.Name, call.Arguments)),
				ToolCallID: call.ID,
				ToolName:   call.Name,
			})
		}
	}

	// Out of rounds: ask once more without tools so the model has to answer.
	round.Tools = nil
	resp, err := r.provider.Complete(ctx, round, options...)
	if err != nil {
		return nil, err
	}
	if len(resp.ToolCalls) > 0 {
		return nil, fmt.Errorf("%w after %d rounds", ErrToolLoopExhausted, r.maxRounds)
	}
	return resp, nil
}

func encodeToolResult(result any) string {
	data, err := json.Marshal(result)
	if err != nil {
		data, _ = json.Marshal(map[string]string{"error": "tool result could not be encoded"})
	}
	return string(data)
}
