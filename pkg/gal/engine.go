package gal

import "context"

// Moods an engine may attach to an outcome.
const (
	MoodPositive = "positive"
	MoodNeutral  = "neutral"
	MoodNegative = "negative"
)

// Explicit-content intensity levels.
const (
	IntensitySoft   = "soft"
	IntensityStrong = "strong"
)

// Outcome is the transient result of one player action, produced by an
// engine and consumed once by the policy layer.
type Outcome struct {
	Narration      string
	Delta          int // raw, before stage bonus and clamping
	Mood           string
	Feedback       string
	IntimacySignal bool
}

// ActionRequest carries everything an engine needs to narrate one action.
type ActionRequest struct {
	State      PlayerState
	ActionText string
	ActionID   string // empty for free-text actions
	PureMode   bool
	PlayerName string
	SessionID  string
}

// IntimacyRequest asks an engine for an escalated scene.
type IntimacyRequest struct {
	State         PlayerState
	TriggerReason string
	PureMode      bool
	PlayerName    string
	SessionID     string
}

// Engine is a content-generation strategy. Classic works from canned
// templates and never fails; AI talks to an LLM provider and can.
type Engine interface {
	ActionOutcome(ctx context.Context, req ActionRequest) (*Outcome, error)
	IntimacyScene(ctx context.Context, req IntimacyRequest) (string, error)
}

// Turn is one prior exchange handed to the LLM provider as context.
type Turn struct {
	Role    string
	Content string
}

// Provider is the LLM collaborator contract. Implementations own their own
// timeouts and retries.
type Provider interface {
	TextChat(ctx context.Context, prompt, sessionID string, contexts []Turn, systemPrompt string) (string, error)
}

// EnvironmentBriefer supplies a short real-world time/weather blurb for
// prompts. Implementations must degrade internally and never fail.
type EnvironmentBriefer interface {
	Brief(ctx context.Context) string
}

// Config is the immutable per-instance configuration handed to engines and
// the policy layer at construction time.
type Config struct {
	HeroineName     string
	PlayerName      string // override; empty means use the sender's name
	PersonaPrompt   string
	ExplicitEnabled bool
	PureModeAllowed bool
	Intensity       string // IntensitySoft or IntensityStrong
	AIEnabled       bool
	StatusCardImage bool
}

// Heroine returns the configured display name with a fallback.
func (c Config) Heroine() string {
	if c.HeroineName == "" {
		return "Lianlian"
	}
	return c.HeroineName
}

// Player resolves the player display name, preferring the configured
// override.
func (c Config) Player(sender string) string {
	if c.PlayerName != "" {
		return c.PlayerName
	}
	if sender != "" {
		return sender
	}
	return "you"
}

// PureDelta is the fixed favorability gain for explicit interactions at the
// configured intensity. Also used as the substitute when the AI engine
// reports a zero delta in pure mode.
func (c Config) PureDelta() int {
	if c.Intensity == IntensityStrong {
		return 10
	}
	return 6
}
