package gal

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
)

// AIEngine builds natural-language prompts around the current relationship
// state and asks an LLM provider to narrate the outcome. Structured results
// are recovered from the model's free-form reply with graceful degradation:
// only a provider failure is a hard error, never a parse failure.
type AIEngine struct {
	cfg      Config
	provider Provider
	env      EnvironmentBriefer
}

// NewAIEngine wires an engine to an optional provider and environment
// briefer; either may be nil.
func NewAIEngine(cfg Config, provider Provider, env EnvironmentBriefer) *AIEngine {
	return &AIEngine{cfg: cfg, provider: provider, env: env}
}

// Ready reports whether a provider is available.
func (e *AIEngine) Ready() bool {
	return e.provider != nil
}

func (e *AIEngine) ActionOutcome(ctx context.Context, req ActionRequest) (*Outcome, error) {
	if e.provider == nil {
		return nil, fmt.Errorf("%s can't reach an AI provider right now", e.cfg.Heroine())
	}

	stage := StageFor(req.State.Favorability)
	contexts := e.buildContexts(req.State, req.PlayerName)
	prompt := e.buildActionPrompt(ctx, req, stage)
	systemPrompt := e.systemPrompt(stage, req.PlayerName, req.PureMode)

	raw, err := e.callProvider(ctx, prompt, req.SessionID, contexts, systemPrompt)
	if err != nil {
		return nil, err
	}

	outcome := e.parseOutcome(raw)
	if req.PureMode {
		outcome.IntimacySignal = true
		if outcome.Delta == 0 {
			outcome.Delta = e.cfg.PureDelta()
		}
	}
	return outcome, nil
}

func (e *AIEngine) IntimacyScene(ctx context.Context, req IntimacyRequest) (string, error) {
	if e.provider == nil {
		return "", fmt.Errorf("%s can't reach an AI provider right now", e.cfg.Heroine())
	}

	stage := StageFor(req.State.Favorability)
	prompt := e.buildIntimacyPrompt(stage, req)
	systemPrompt := e.intimacySystemPrompt(req.PlayerName, req.PureMode)

	return e.callProvider(ctx, prompt, req.SessionID, nil, systemPrompt)
}

func (e *AIEngine) callProvider(ctx context.Context, prompt, sessionID string, contexts []Turn, systemPrompt string) (string, error) {
	hero := e.cfg.Heroine()
	raw, err := e.provider.TextChat(ctx, prompt, sessionID, contexts, systemPrompt)
	if err != nil {
		log.Printf("gal: LLM call failed: %v", err)
		return "", fmt.Errorf("%s didn't get an answer from the AI: %v", hero, err)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("the AI stayed silent, so %s has nothing to relay for now", hero)
	}
	return raw, nil
}

// buildContexts turns up to the last three history entries into alternating
// user/assistant turns for the provider.
func (e *AIEngine) buildContexts(state PlayerState, playerName string) []Turn {
	player := e.cfg.Player(playerName)
	recent := state.History
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}
	turns := make([]Turn, 0, len(recent)*2)
	for _, item := range recent {
		turns = append(turns,
			Turn{Role: "user", Content: fmt.Sprintf("%s's action: %s", player, item.Action)},
			Turn{Role: "assistant", Content: item.Narration},
		)
	}
	return turns
}

func (e *AIEngine) historyExcerpt(history []HistoryEntry) string {
	if len(history) == 0 {
		return "(no interactions yet)"
	}
	recent := history
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}
	segments := make([]string, 0, len(recent))
	for _, item := range recent {
		segments = append(segments, fmt.Sprintf(
			"Player action: %s\n%s's response: %s\nFavorability change: %+d",
			item.Action, e.cfg.Heroine(), strings.TrimSpace(item.Narration), item.Delta))
	}
	return strings.Join(segments, "\n\n")
}

func (e *AIEngine) environmentBrief(ctx context.Context) string {
	if e.env == nil {
		return ""
	}
	return e.env.Brief(ctx)
}

func (e *AIEngine) buildActionPrompt(ctx context.Context, req ActionRequest, stage StageProfile) string {
	hero := e.cfg.Heroine()
	player := e.cfg.Player(req.PlayerName)

	var actionHint string
	switch req.ActionID {
	case ActionPark:
		actionHint = "Action type: outdoor date / a walk in the park."
	case ActionCinema:
		actionHint = "Action type: movie date / sharing the mood of a film."
	}

	var b strings.Builder
	fmt.Fprintf(&b,
		"You are %q, a real adult girlfriend in a loving relationship with %q.\n", hero, player)
	fmt.Fprintf(&b,
		"Relationship stage: %s. %s %s's trust in the player: %s\n",
		stage.Name, stage.Description, hero, stage.TrustSignal)
	if actionHint != "" {
		b.WriteString(actionHint + "\n")
	}
	fmt.Fprintf(&b, "Current favorability: %d/%d.\n", req.State.Favorability, MaxFavorability)
	fmt.Fprintf(&b, "Recent interactions:\n%s\n", e.historyExcerpt(req.State.History))
	if brief := e.environmentBrief(ctx); brief != "" {
		fmt.Fprintf(&b, "Right now in the real world: %s\n", brief)
	}
	b.WriteString("\nNarrate one new relationship interaction for the player's action. " +
		"Show believable emotional reactions, small physical details and surroundings, " +
		"and a touch of hope or worry about the future.\n" +
		"The output MUST be a JSON object with exactly these fields:\n" +
		"- \"narration\": string, first-person, conversational description of her actions and mood.\n" +
		"- \"favorability_delta\": int, range -20..20, your judgement of the change.\n" +
		"- \"mood\": string, one of \"positive\", \"neutral\" or \"negative\".\n" +
		"- \"player_feedback\": string, an intimate suggestion or playful reminder for the player.\n" +
		"- \"intimacy_signal\": bool, true when she wants to move to a more intimate moment.\n")
	fmt.Fprintf(&b, "The player's requested action is: %q. Answer the way a real partner believably would.", req.ActionText)

	if req.PureMode {
		b.WriteString("\nExplicit mode note: " + e.intensityInstruction())
	}
	return b.String()
}

func (e *AIEngine) buildIntimacyPrompt(stage StageProfile, req IntimacyRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Relationship stage: %s. %s\n", stage.Name, stage.Description)
	fmt.Fprintf(&b, "Trigger: %s\n", req.TriggerReason)
	fmt.Fprintf(&b, "Recent interactions for reference:\n%s\n", e.historyExcerpt(req.State.History))
	if req.PureMode {
		b.WriteString("Write 3-4 paragraphs of an intimate scene between the two of you, " +
			"first person for her and second person for the player. " +
			e.intensityInstruction() +
			" Both partners are adults and enthusiastic. Do NOT output JSON, only prose.")
	} else {
		b.WriteString("Write 3-4 paragraphs of an intimate moment between the two of you, " +
			"first person for her and second person for the player. " +
			"Lead with emotion and small physical detail, keep it warm and tasteful, " +
			"both partners adult and willing, and include closeness, conversation and gentle aftercare. " +
			"Do NOT output JSON, only prose.")
	}
	return b.String()
}

func (e *AIEngine) intensityInstruction() string {
	if e.cfg.Intensity == IntensityStrong {
		return "Write with heat and urgency -- bold, sensual, passionate -- while keeping the " +
			"language suggestive rather than graphic."
	}
	return "Keep the register suggestive and romantic; imply rather than describe, and let " +
		"tenderness carry the scene."
}

func (e *AIEngine) systemPrompt(stage StageProfile, playerName string, pureMode bool) string {
	hero := e.cfg.Heroine()
	player := e.cfg.Player(playerName)

	prompt := strings.TrimSpace(e.cfg.PersonaPrompt)
	if prompt == "" {
		prompt = fmt.Sprintf(
			"You are %q, a real girlfriend in a relationship with %q. Stay mature, attentive and "+
				"warm; remember the small everyday things they have shared, read the mood, and respond "+
				"naturally -- teasing, humor and honest feelings included. "+
				"Current relationship stage: %s. Stage character: %s",
			hero, player, stage.Name, stage.Description)
	}
	if pureMode {
		prompt += "\nExplicit mode is active: respond with open sensuality and desire. " + e.intensityInstruction()
	}
	return prompt
}

func (e *AIEngine) intimacySystemPrompt(playerName string, pureMode bool) string {
	hero := e.cfg.Heroine()
	player := e.cfg.Player(playerName)

	prompt := strings.TrimSpace(e.cfg.PersonaPrompt)
	if pureMode {
		addon := fmt.Sprintf(
			"You are %q, a real lover swept up in the moment with %q. Both of you are adults and "+
				"willing. %s",
			hero, player, e.intensityInstruction())
		if prompt != "" {
			return prompt + "\n" + addon
		}
		return addon
	}
	if prompt == "" {
		prompt = fmt.Sprintf(
			"You are %q, a real-world lover who knows %q deeply. Stay mature, tender and vivid; "+
				"express desire while respecting your partner.",
			hero, player)
	}
	return prompt
}

// parseOutcome recovers a structured outcome from the model's reply. When no
// JSON object can be found the whole reply becomes the narration with
// neutral defaults -- degraded, logged, but never an error.
func (e *AIEngine) parseOutcome(raw string) *Outcome {
	data, ok := ExtractJSONObject(raw)
	if !ok {
		log.Printf("gal: no structured result in model output, using raw text: %.120s", raw)
		return &Outcome{
			Narration: raw,
			Delta:     0,
			Mood:      MoodNeutral,
			Feedback:  fmt.Sprintf("%s tried to share her feelings, but the change of heart couldn't be measured this time.", e.cfg.Heroine()),
		}
	}

	var fields map[string]json.RawMessage
	_ = json.Unmarshal(data, &fields) // already validated by ExtractJSONObject

	outcome := &Outcome{
		Narration: coerceString(fields["narration"]),
		Delta:     coerceInt(fields["favorability_delta"]),
		Mood:      strings.TrimSpace(coerceString(fields["mood"])),
		Feedback:  strings.TrimSpace(coerceString(fields["player_feedback"])),
	}
	if outcome.Mood == "" {
		outcome.Mood = MoodNeutral
	}
	if v, ok := coerceBool(fields["intimacy_signal"]); ok {
		outcome.IntimacySignal = v
	}
	return outcome
}

func coerceString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

func coerceInt(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return int(f)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n
		}
	}
	return 0
}

func coerceBool(raw json.RawMessage) (bool, bool) {
	if len(raw) == 0 {
		return false, false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.EqualFold(strings.TrimSpace(s), "true"), true
	}
	return false, false
}
