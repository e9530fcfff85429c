package llm

import (
	"context"
	"time"
)

// Logger is the subset of the application logger the traffic log needs.
type Logger interface {
	Info(module, message string, details map[string]interface{})
	Error(module, message string, details map[string]interface{})
}

// loggingProvider records every generation round on a dedicated log.
type loggingProvider struct {
	next LLMProvider
	name string
	log  Logger
}

// WithLogging wraps p so each Complete call is logged under name.
func WithLogging(p LLMProvider, name string, log Logger) LLMProvider {
	if log == nil {
		return p
	}
	return &loggingProvider{next: p, name: name, log: log}
}

func (l *loggingProvider) Complete(ctx context.Context, req *Request, options ...Option) (*Response, error) {
	start := time.Now()
	resp, err := l.next.Complete(ctx, req, options...)

	details := map[string]interface{}{
		"provider":    l.name,
		"messages":    len(req.Messages),
		"tools":       len(req.Tools),
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if req.Schema != nil {
		details["schema"] = req.Schema.Name
	}
	if err != nil {
		details["error"] = err
		l.log.Error("LLM", "completion failed", details)
		return nil, err
	}

	details["response_chars"] = len(resp.Text)
	if len(resp.ToolCalls) > 0 {
		names := make([]string, len(resp.ToolCalls))
		for i, c := range resp.ToolCalls {
			names[i] = c.Name
		}
		details["tool_calls"] = names
	}
	l.log.Info("LLM", "completion", details)
	return resp, nil
}
