package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hk-explorer-be/pkg/llm/ollama"
	"hk-explorer-be/pkg/llm/openai"
)

func TestNewLLMProvider(t *testing.T) {
	ctx := context.Background()

	p, err := NewLLMProvider(ctx, Config{Provider: "openai", APIKey: "k", Model: "gpt-4o-mini"})
	require.NoError(t, err)
	assert.IsType(t, &openai.Provider{}, p)

	p, err = NewLLMProvider(ctx, Config{Provider: "ollama", Model: "llama3"})
	require.NoError(t, err)
	o, ok := p.(*ollama.OllamaProvider)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:11434", o.BaseURL)

	_, err = NewLLMProvider(ctx, Config{Provider: "openai"})
	assert.Error(t, err)

	_, err = NewLLMProvider(ctx, Config{Provider: "gemini"})
	assert.Error(t, err)

	_, err = NewLLMProvider(ctx, Config{Provider: "bard"})
	assert.ErrorContains(t, err, "unsupported LLM provider")
}
