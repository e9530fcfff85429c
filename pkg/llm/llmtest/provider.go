// Package llmtest provides a scripted LLM provider for tests.
package llmtest

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"hk-explorer-be/pkg/llm"
)

// ErrScriptExhausted is returned when the provider receives more calls than scripted.
var ErrScriptExhausted = errors.New("llmtest: no scripted response left")

// Step is one scripted reply. Either Response or Err is used.
type Step struct {
	Response *llm.Response
	Err      error
}

// Text scripts a plain text answer.
func Text(s string) Step {
	return Step{Response: &llm.Response{Text: s}}
}

// JSON scripts an answer whose text is v marshalled to JSON.
func JSON(v any) Step {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return Text(string(data))
}

// Tool scripts a single tool call.
func Tool(id, name string, args any) Step {
	data, err := json.Marshal(args)
	if err != nil {
		panic(err)
	}
	return Step{Response: &llm.Response{ToolCalls: []llm.ToolCall{{ID: id, Name: name, Arguments: data}}}}
}

// Fail scripts an upstream error.
func Fail(err error) Step {
	return Step{Err: err}
}

// Provider replays scripted steps in order and records every request.
type Provider struct {
	mu       sync.Mutex
	steps    []Step
	requests []llm.Request
	fallback *Step
}

func New(steps ...Step) *Provider {
	return &Provider{steps: steps}
}

// Always makes the provider answer with s once the script runs out.
func (p *Provider) Always(s Step) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fallback = &s
	return p
}

func (p *Provider) Complete(ctx context.Context, req *llm.Request, options ...llm.Option) (*llm.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	snapshot := *req
	snapshot.Messages = append([]llm.Message(nil), req.Messages...)
	snapshot.Tools = append([]llm.ToolSpec(nil), req.Tools...)
	p.requests = append(p.requests, snapshot)

	var step Step
	switch {
	case len(p.steps) > 0:
		step = p.steps[0]
		p.steps = p.steps[1:]
	case p.fallback != nil:
		step = *p.fallback
	default:
		return nil, ErrScriptExhausted
	}

	if step.Err != nil {
		return nil, step.Err
	}
	resp := *step.Response
	return &resp, nil
}

// Requests returns a copy of every request received so far.
func (p *Provider) Requests() []llm.Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]llm.Request(nil), p.requests...)
}

// Calls reports how many times Complete was invoked.
func (p *Provider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}
