package gal

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classicTestConfig() Config {
	return Config{HeroineName: "Lianlian", Intensity: IntensitySoft}
}

func TestClassicEngine_KnownActionUsesTemplateLibrary(t *testing.T) {
	engine := NewClassicEngine(classicTestConfig())
	state := *NewPlayerState()

	deltas := map[int]bool{}
	for _, tmpl := range classicActionLibrary[ActionPark] {
		deltas[tmpl.delta] = true
	}

	for i := 0; i < 20; i++ {
		outcome, err := engine.ActionOutcome(context.Background(), ActionRequest{
			State:      state,
			ActionText: "a walk in the park",
			ActionID:   ActionPark,
			PlayerName: "Aki",
		})
		require.NoError(t, err)
		assert.True(t, deltas[outcome.Delta], "delta %d not in the park library", outcome.Delta)
		assert.Contains(t, outcome.Narration, "Lianlian")
		assert.NotContains(t, outcome.Narration, "{hero}")
		assert.NotContains(t, outcome.Narration, "{stage_desc}")
	}
}

func TestClassicEngine_CustomActionTiers(t *testing.T) {
	engine := NewClassicEngine(classicTestConfig())
	state := *NewPlayerState()

	tests := []struct {
		action string
		delta  int
		mood   string
	}{
		{"cancel our plans again", -8, MoodNegative},
		{"we watched clouds together", 2, MoodNeutral},
		{"a quiet walk together", 6, MoodPositive},
		{"cook her dinner and a goodnight kiss", 10, MoodPositive},
	}

	for _, tt := range tests {
		outcome, err := engine.ActionOutcome(context.Background(), ActionRequest{
			State:      state,
			ActionText: tt.action,
			PlayerName: "Aki",
		})
		require.NoError(t, err)
		assert.Equal(t, tt.delta, outcome.Delta, "action %q", tt.action)
		assert.Equal(t, tt.mood, outcome.Mood, "action %q", tt.action)
		assert.Contains(t, outcome.Narration, tt.action)
	}
}

func TestClassicEngine_IntimacySignalNeedsRomanceAndTrust(t *testing.T) {
	engine := NewClassicEngine(classicTestConfig())

	// Tentative stage: bias 0.1 + one romantic keyword = 0.2, below 0.3.
	low := *NewPlayerState()
	outcome, err := engine.ActionOutcome(context.Background(), ActionRequest{
		State:      low,
		ActionText: "a gentle kiss",
	})
	require.NoError(t, err)
	assert.False(t, outcome.IntimacySignal)

	// Attached stage: bias 0.2 + one romantic keyword = 0.3.
	mid := *NewPlayerState()
	mid.Favorability = 100
	outcome, err = engine.ActionOutcome(context.Background(), ActionRequest{
		State:      mid,
		ActionText: "a gentle kiss",
	})
	require.NoError(t, err)
	assert.True(t, outcome.IntimacySignal)
}

func TestClassicEngine_PureOutcome(t *testing.T) {
	cfg := classicTestConfig()
	engine := NewClassicEngine(cfg)
	state := *NewPlayerState()

	outcome, err := engine.ActionOutcome(context.Background(), ActionRequest{
		State:      state,
		ActionText: "stay in tonight",
		PureMode:   true,
		PlayerName: "Aki",
	})
	require.NoError(t, err)
	assert.True(t, outcome.IntimacySignal)
	assert.Equal(t, cfg.PureDelta(), outcome.Delta)
	assert.Equal(t, MoodPositive, outcome.Mood)
	assert.NotEmpty(t, outcome.Narration)
}

func TestClassicEngine_PureOutcomeStrongDelta(t *testing.T) {
	cfg := classicTestConfig()
	cfg.Intensity = IntensityStrong
	engine := NewClassicEngine(cfg)

	outcome, err := engine.ActionOutcome(context.Background(), ActionRequest{
		State:    *NewPlayerState(),
		ActionID: ActionCinema,
		PureMode: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, outcome.Delta)
}

func TestClassicEngine_IntimacySceneRefusesTentativeStage(t *testing.T) {
	engine := NewClassicEngine(classicTestConfig())

	_, err := engine.IntimacyScene(context.Background(), IntimacyRequest{
		State:         *NewPlayerState(),
		TriggerReason: "curiosity",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "surer of your hearts")
}

func TestClassicEngine_IntimacySceneAtDevotedStage(t *testing.T) {
	engine := NewClassicEngine(classicTestConfig())
	state := *NewPlayerState()
	state.Favorability = 200

	scene, err := engine.IntimacyScene(context.Background(), IntimacyRequest{
		State:         state,
		TriggerReason: "your anniversary",
		PlayerName:    "Aki",
	})
	require.NoError(t, err)
	assert.Len(t, strings.Split(scene, "\n\n"), 3)
	assert.Contains(t, scene, "your anniversary")
}

func TestClassicEngine_PureIntimacyIgnoresStage(t *testing.T) {
	engine := NewClassicEngine(classicTestConfig())

	scene, err := engine.IntimacyScene(context.Background(), IntimacyRequest{
		State:         *NewPlayerState(), // Tentative would normally refuse
		TriggerReason: "a rainy evening",
		PureMode:      true,
	})
	require.NoError(t, err)
	assert.Len(t, strings.Split(scene, "\n\n"), 3)
}
