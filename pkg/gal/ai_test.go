package gal

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockProvider for testing the AI engine without a live LLM.
type MockProvider struct {
	Calls         int
	LastPrompt    string
	LastSystem    string
	LastContexts  []Turn
	LastSessionID string
	TextChatFunc  func(ctx context.Context, prompt, sessionID string, contexts []Turn, systemPrompt string) (string, error)
}

func (m *MockProvider) TextChat(ctx context.Context, prompt, sessionID string, contexts []Turn, systemPrompt string) (string, error) {
	m.Calls++
	m.LastPrompt = prompt
	m.LastSystem = systemPrompt
	m.LastContexts = contexts
	m.LastSessionID = sessionID
	if m.TextChatFunc != nil {
		return m.TextChatFunc(ctx, prompt, sessionID, contexts, systemPrompt)
	}
	return "", nil
}

func aiTestConfig() Config {
	return Config{HeroineName: "Lianlian", Intensity: IntensitySoft, AIEnabled: true}
}

func TestAIEngine_NoProvider(t *testing.T) {
	engine := NewAIEngine(aiTestConfig(), nil, nil)

	assert.False(t, engine.Ready())
	_, err := engine.ActionOutcome(context.Background(), ActionRequest{State: *NewPlayerState()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can't reach an AI provider")
}

func TestAIEngine_ParsesStructuredReply(t *testing.T) {
	provider := &MockProvider{
		TextChatFunc: func(context.Context, string, string, []Turn, string) (string, error) {
			return `She smiled. {"narration": "Lianlian beams at you.", "favorability_delta": 7,
				"mood": "positive", "player_feedback": "bring snacks next time", "intimacy_signal": true}`, nil
		},
	}
	engine := NewAIEngine(aiTestConfig(), provider, nil)
	require.True(t, engine.Ready())

	outcome, err := engine.ActionOutcome(context.Background(), ActionRequest{
		State:      *NewPlayerState(),
		ActionText: "bring her flowers",
		SessionID:  "chan-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Lianlian beams at you.", outcome.Narration)
	assert.Equal(t, 7, outcome.Delta)
	assert.Equal(t, MoodPositive, outcome.Mood)
	assert.Equal(t, "bring snacks next time", outcome.Feedback)
	assert.True(t, outcome.IntimacySignal)
	assert.Equal(t, "chan-1", provider.LastSessionID)
}

func TestAIEngine_UnstructuredReplyDegradesToNarration(t *testing.T) {
	provider := &MockProvider{
		TextChatFunc: func(context.Context, string, string, []Turn, string) (string, error) {
			return "She just laughs and pulls you along, no numbers attached.", nil
		},
	}
	engine := NewAIEngine(aiTestConfig(), provider, nil)

	outcome, err := engine.ActionOutcome(context.Background(), ActionRequest{State: *NewPlayerState()})
	require.NoError(t, err)
	assert.Equal(t, "She just laughs and pulls you along, no numbers attached.", outcome.Narration)
	assert.Equal(t, 0, outcome.Delta)
	assert.Equal(t, MoodNeutral, outcome.Mood)
	assert.False(t, outcome.IntimacySignal)
}

func TestAIEngine_ProviderErrorIsInCharacter(t *testing.T) {
	provider := &MockProvider{
		TextChatFunc: func(context.Context, string, string, []Turn, string) (string, error) {
			return "", errors.New("rate limited")
		},
	}
	engine := NewAIEngine(aiTestConfig(), provider, nil)

	_, err := engine.ActionOutcome(context.Background(), ActionRequest{State: *NewPlayerState()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Lianlian didn't get an answer from the AI")
}

func TestAIEngine_EmptyReplyIsError(t *testing.T) {
	provider := &MockProvider{
		TextChatFunc: func(context.Context, string, string, []Turn, string) (string, error) {
			return "   \n", nil
		},
	}
	engine := NewAIEngine(aiTestConfig(), provider, nil)

	_, err := engine.ActionOutcome(context.Background(), ActionRequest{State: *NewPlayerState()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stayed silent")
}

func TestAIEngine_PureModeForcesSignalAndDelta(t *testing.T) {
	provider := &MockProvider{
		TextChatFunc: func(context.Context, string, string, []Turn, string) (string, error) {
			return `{"narration": "closer now", "favorability_delta": 0, "mood": "positive",
				"player_feedback": "", "intimacy_signal": false}`, nil
		},
	}
	cfg := aiTestConfig()
	engine := NewAIEngine(cfg, provider, nil)

	outcome, err := engine.ActionOutcome(context.Background(), ActionRequest{
		State:    *NewPlayerState(),
		PureMode: true,
	})
	require.NoError(t, err)
	assert.True(t, outcome.IntimacySignal)
	assert.Equal(t, cfg.PureDelta(), outcome.Delta)
	assert.Contains(t, provider.LastSystem, "Explicit mode is active")
}

func TestAIEngine_PromptCarriesStateAndHistory(t *testing.T) {
	provider := &MockProvider{
		TextChatFunc: func(context.Context, string, string, []Turn, string) (string, error) {
			return `{"narration": "ok", "favorability_delta": 1, "mood": "neutral"}`, nil
		},
	}
	engine := NewAIEngine(aiTestConfig(), provider, briefStub("local time 2026-08-29 19:00"))

	state := NewPlayerState()
	state.Favorability = 150
	for _, action := range []string{"first", "second", "third", "fourth", "fifth"} {
		state.AppendHistory(HistoryEntry{Action: action, Narration: "she replied to " + action, Delta: 3})
	}

	_, err := engine.ActionOutcome(context.Background(), ActionRequest{
		State:      *state,
		ActionText: "plan a weekend trip",
		ActionID:   ActionPark,
		PlayerName: "Aki",
	})
	require.NoError(t, err)

	assert.Contains(t, provider.LastPrompt, "Relationship stage: Devoted")
	assert.Contains(t, provider.LastPrompt, "Current favorability: 150/200")
	assert.Contains(t, provider.LastPrompt, "a walk in the park")
	assert.Contains(t, provider.LastPrompt, "local time 2026-08-29 19:00")
	assert.Contains(t, provider.LastPrompt, `"plan a weekend trip"`)
	// Only the last three history entries become context turns.
	require.Len(t, provider.LastContexts, 6)
	assert.Contains(t, provider.LastContexts[0].Content, "third")
	assert.Equal(t, "user", provider.LastContexts[0].Role)
	assert.Equal(t, "assistant", provider.LastContexts[1].Role)
	assert.NotContains(t, provider.LastPrompt, "Player action: second")
}

func TestAIEngine_IntimacySceneIsProse(t *testing.T) {
	provider := &MockProvider{
		TextChatFunc: func(context.Context, string, string, []Turn, string) (string, error) {
			return "A warm, quiet scene.\n\nAnd a warmer second paragraph.", nil
		},
	}
	engine := NewAIEngine(aiTestConfig(), provider, nil)

	state := NewPlayerState()
	state.Favorability = 200
	scene, err := engine.IntimacyScene(context.Background(), IntimacyRequest{
		State:         *state,
		TriggerReason: "you both said it out loud",
	})
	require.NoError(t, err)
	assert.Equal(t, "A warm, quiet scene.\n\nAnd a warmer second paragraph.", scene)
	assert.Contains(t, provider.LastPrompt, "Trigger: you both said it out loud")
	assert.True(t, strings.Contains(provider.LastPrompt, "Do NOT output JSON"))
}

// briefStub satisfies EnvironmentBriefer with a fixed line.
type briefStub string

func (b briefStub) Brief(context.Context) string { return string(b) }
