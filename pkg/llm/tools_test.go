package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hk-explorer-be/pkg/llm"
	"hk-explorer-be/pkg/llm/llmtest"
)

type echoBox struct {
	calls []string
}

func (b *echoBox) Specs() []llm.ToolSpec {
	return []llm.ToolSpec{{Name: "echo", Description: "echoes", Parameters: map[string]any{"type": "object"}}}
}

func (b *echoBox) Call(_ context.Context, name string, args json.RawMessage) any {
	b.calls = append(b.calls, name)
	if name != "echo" {
		return map[string]string{"error": "unknown tool " + name}
	}
	return map[string]json.RawMessage{"echo": args}
}

func TestRunnerExecutesToolsThenAnswers(t *testing.T) {
	provider := llmtest.New(
		llmtest.Tool("c1", "echo", map[string]string{"q": "peak"}),
		llmtest.Text("done"),
	)
	box := &echoBox{}
	runner := llm.NewRunner(provider, 3)

	history := []llm.Message{{Role: llm.RoleUser, Content: "hi"}}
	resp, err := runner.Run(context.Background(), &llm.Request{System: "sys", Messages: history}, box)
	require.NoError(t, err)
	assert.Equal(t, "done", resp.Text)
	assert.Equal(t, []string{"echo"}, box.calls)
	assert.Len(t, history, 1)

	reqs := provider.Requests()
	require.Len(t, reqs, 2)
	second := reqs[1].Messages
	require.Len(t, second, 3)
	assert.Equal(t, llm.RoleAssistant, second[1].Role)
	assert.Equal(t, llm.RoleTool, second[2].Role)
	assert.Equal(t, "c1", second[2].ToolCallID)
	assert.JSONEq(t, `{"echo":{"q":"peak"}}`, second[2].Content)
}

func TestRunnerWithoutToolboxIsSingleShot(t *testing.T) {
	provider := llmtest.New(llmtest.Text("plain"))
	resp, err := llm.NewRunner(provider, 0).Run(context.Background(), &llm.Request{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "plain", resp.Text)
	assert.Equal(t, 1, provider.Calls())
}

func TestRunnerExhaustsRounds(t *testing.T) {
	provider := llmtest.New().Always(llmtest.Tool("c", "echo", map[string]string{}))
	_, err := llm.NewRunner(provider, 2).Run(context.Background(), &llm.Request{}, &echoBox{})
	assert.ErrorIs(t, err, llm.ErrToolLoopExhausted)

	reqs := provider.Requests()
	require.Len(t, reqs, 3)
	assert.Empty(t, reqs[2].Tools)
}

func TestRunnerPropagatesProviderError(t *testing.T) {
	boom := errors.New("upstream down")
	provider := llmtest.New(llmtest.Fail(boom))
	_, err := llm.NewRunner(provider, 2).Run(context.Background(), &llm.Request{}, &echoBox{})
	assert.ErrorIs(t, err, boom)
}

type memLog struct {
	infos, errors []map[string]interface{}
}

func (m *memLog) Info(_, _ string, d map[string]interface{})  { m.infos = append(m.infos, d) }
func (m *memLog) Error(_, _ string, d map[string]interface{}) { m.errors = append(m.errors, d) }

func TestWithLogging(t *testing.T) {
	log := &memLog{}
	p := llm.WithLogging(llmtest.New(
		llmtest.Tool("call_0", "echo", `{"v":1}`),
		llmtest.Fail(errors.New("boom")),
	), "test", log)

	_, err := p.Complete(context.Background(), &llm.Request{Schema: &llm.Schema{Name: "s"}})
	require.NoError(t, err)
	_, err = p.Complete(context.Background(), &llm.Request{})
	require.Error(t, err)

	require.Len(t, log.infos, 1)
	assert.Equal(t, "s", log.infos[0]["schema"])
	assert.Equal(t, []string{"echo"}, log.infos[0]["tool_calls"])
	require.Len(t, log.errors, 1)
}
