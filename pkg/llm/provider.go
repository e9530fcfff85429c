package llm

import (
	"context"
	"encoding/json"
)

// Roles understood by every provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "tool"
	Content string
	Images  []Image

	// Set on assistant messages that requested tools.
	ToolCalls []ToolCall

	// Set on tool messages: the call being answered.
	ToolCallID string
	ToolName   string
}

// Image is an inline image attached to a user message.
type Image struct {
	MimeType string
	Data     []byte
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// ToolSpec declares a tool the model may call. Parameters is a JSON schema object.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Schema requests structured output matching a JSON schema.
type Schema struct {
	Name       string
	Definition map[string]any
}

// Request is a single-shot generation call.
type Request struct {
	System   string
	Messages []Message
	Tools    []ToolSpec
	Schema   *Schema
}

// Response is the model's reply to a Request.
type Response struct {
	Text      string
	ToolCalls []ToolCall
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// ApplyOptions resolves opts over the package defaults.
func ApplyOptions(opts ...Option) *Options {
	options := &Options{
		Temperature: 0.7,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Complete performs one generation round. Tool calls are returned, not executed.
	Complete(ctx context.Context, req *Request, options ...Option) (*Response, error)
}

// Chat sends a chat history to the model and returns the text response
func Chat(ctx context.Context, p LLMProvider, system string, history []Message, options ...Option) (string, error) {
	resp, err := p.Complete(ctx, &Request{System: system, Messages: history}, options...)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// Generate sends a single prompt to the model (convenience method)
func Generate(ctx context.Context, p LLMProvider, system, prompt string, options ...Option) (string, error) {
	return Chat(ctx, p, system, []Message{{Role: RoleUser, Content: prompt}}, options...)
}
