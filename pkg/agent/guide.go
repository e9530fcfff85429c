package agent

import (
	"context"
	"fmt"
	"strings"

	"hk-explorer-be/internal/pkg/logger"
	"hk-explorer-be/pkg/llm"
)

// NarrationHistoryTurns is how many prior turns the narrator sees.
const NarrationHistoryTurns = 6

var greetings = map[string]bool{
	"hi": true, "hey": true, "hello": true, "yo": true,
	"sup": true, "hola": true, "hii": true, "heya": true,
}

// IsGreeting reports whether message is a bare greeting.
func IsGreeting(message string) bool {
	return greetings[strings.ToLower(strings.TrimSpace(message))]
}

type Guide struct {
	runner *llm.Runner
	box    llm.Toolbox
	logger logger.ILogger
}

// NewGuide builds the narrator. box is the toolbox used by Converse.
func NewGuide(runner *llm.Runner, box llm.Toolbox, log logger.ILogger) *Guide {
	return &Guide{runner: runner, box: box, logger: log}
}

// Converse answers in a single stage with the full toolbox available.
func (g *Guide) Converse(ctx context.Context, history []ConversationTurn, message, userId string) (string, error) {
	system := GuidePersona
	if userId != "" {
		system += fmt.Sprintf("\n\nThe current user's ID is %q. Use it for getUserProfile and joinChallenge.", userId)
	}

	messages := toMessages(history)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: message})

	resp, err := g.runner.Run(ctx, &llm.Request{System: system, Messages: messages}, g.box)
	if err != nil {
		return "", fmt.Errorf("guide generation: %w", err)
	}
	g.logger.Debug("Guide", "single-stage answer", map[string]interface{}{"history_turns": len(history)})
	return strings.TrimSpace(resp.Text), nil
}

// Narrate presents a researched shortlist. No tools are offered.
func (g *Guide) Narrate(ctx context.Context, history []ConversationTurn, message string, shortlist Shortlist) (string, error) {
	lines := make([]string, 0, len(shortlist.Picks))
	for _, p := range shortlist.Picks {
		lines = append(lines, fmt.Sprintf("- %s: recommended because %s", p.Title, p.Reason))
	}
	picks := strings.Join(lines, "\n")
	if picks == "" {
		picks = emptyShortlistNote
	}

	prompt := fmt.Sprintf(narratePrompt, renderHistory(history, NarrationHistoryTurns), message, picks, shortlist.Summary)
	text, err := llm.Generate(ctx, g.runner.Provider(), GuidePersona, prompt)
	if err != nil {
		return "", fmt.Errorf("guide narration: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// Greet answers a bare greeting without any research.
func (g *Guide) Greet(ctx context.Context, message string) (string, error) {
	text, err := llm.Generate(ctx, g.runner.Provider(), GuidePersona, fmt.Sprintf(greetingPrompt, strings.TrimSpace(message)))
	if err != nil {
		return "", fmt.Errorf("guide greeting: %w", err)
	}
	return strings.TrimSpace(text), nil
}
