package gal

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// Reply is one outgoing message segment for the chat surface. AsCard marks
// the status panel, which the surface may render as an image with a plain
// text fallback.
type Reply struct {
	Text   string
	AsCard bool
}

func textReply(text string) Reply {
	return Reply{Text: text}
}

// Game is the policy layer tying the store and both engines together: it
// picks an engine per call, demotes to the classic script when the AI path
// fails, applies outcomes atomically, and decides when an intimacy scene
// triggers.
type Game struct {
	cfg     Config
	store   *Store
	classic *ClassicEngine
	ai      *AIEngine
}

func NewGame(cfg Config, store *Store, classic *ClassicEngine, ai *AIEngine) *Game {
	return &Game{cfg: cfg, store: store, classic: classic, ai: ai}
}

// chooseEngine selects the AI engine when it is enabled and a provider is
// resolvable; otherwise the classic engine, with an informational notice
// when that is a demotion rather than a choice.
func (g *Game) chooseEngine() (engine Engine, notice string, usedAI bool) {
	if g.cfg.AIEnabled {
		if g.ai != nil && g.ai.Ready() {
			return g.ai, "", true
		}
		return g.classic, fmt.Sprintf(
			"(The model is out of reach right now, so %s keeps you company with the classic script.)",
			g.cfg.Heroine()), false
	}
	return g.classic, "", false
}

// Menu returns the command overview.
func (g *Game) Menu() []Reply {
	hero := g.cfg.Heroine()
	menu := strings.Join([]string{
		"MoreMoreLove · " + hero,
		"[Basics]",
		"galstart — enter gal mode",
		"galexit — leave gal mode",
		"galstatus — show the current status panel",
		"galreset — reset this profile from scratch",
		"galpure on/off/status — toggle pure mode (adults only)",
		"[Actions]",
		"galpark — take " + hero + " for a walk in the park",
		"galcinema — invite " + hero + " to the movies",
		"galact <action> — free-form action, e.g. \"galact cook a candlelit dinner\"",
		"galintimacy — ask for a more intimate moment once conditions are met",
		"(Without an AI provider the classic script takes over; favorability still changes.)",
	}, "\n")
	return []Reply{textReply(menu)}
}

// Start switches the user into gal mode.
func (g *Game) Start(userID string) ([]Reply, error) {
	hero := g.cfg.Heroine()
	changed := false
	state, err := g.store.Mutate(userID, func(s *PlayerState) {
		if s.InGalMode {
			return
		}
		s.InGalMode = true
		s.LastAction = "entered gal mode with " + hero
		changed = true
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		return []Reply{textReply(fmt.Sprintf("%s has been watching you this whole time -- you're already in gal mode.", hero))}, nil
	}
	return []Reply{textReply(fmt.Sprintf(
		"%s takes your hand, gently: from this moment our story truly begins. Current favorability: %d/%d.",
		hero, state.Favorability, MaxFavorability))}, nil
}

// Exit leaves gal mode. Pure mode and progress are untouched.
func (g *Game) Exit(userID string) ([]Reply, error) {
	hero := g.cfg.Heroine()
	changed := false
	_, err := g.store.Mutate(userID, func(s *PlayerState) {
		if !s.InGalMode {
			return
		}
		s.InGalMode = false
		changed = true
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		return []Reply{textReply(fmt.Sprintf("%s was in everyday mode all along. Use galstart when you want to fall in love.", hero))}, nil
	}
	return []Reply{textReply(fmt.Sprintf("%s nods: back to everyday life for a while, then. Call her back any time.", hero))}, nil
}

// Reset wipes the user's progress back to a fresh default record.
func (g *Game) Reset(userID string) ([]Reply, error) {
	if _, err := g.store.Reset(userID); err != nil {
		return nil, err
	}
	return []Reply{textReply(fmt.Sprintf("%s has tidied away her memories. Everything starts over from zero.", g.cfg.Heroine()))}, nil
}

// Status renders the status panel.
func (g *Game) Status(userID, sender string) ([]Reply, error) {
	state, err := g.store.Snapshot(userID)
	if err != nil {
		return nil, err
	}
	return []Reply{{Text: g.statusText(state, sender), AsCard: g.cfg.StatusCardImage}}, nil
}

func (g *Game) statusText(state *PlayerState, sender string) string {
	hero := g.cfg.Heroine()
	stage := StageFor(state.Favorability)
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	lines := []string{
		"MoreMoreLove status panel",
		"Partner: " + hero,
		"Player: " + g.cfg.Player(sender),
		fmt.Sprintf("Stage: %s (%s)", stage.Name, stage.Description),
		"Gal mode: " + onOff(state.InGalMode),
		fmt.Sprintf("Favorability: %d/%d", state.Favorability, MaxFavorability),
	}
	if state.IntimacyUnlocked {
		lines = append(lines, fmt.Sprintf("Intimacy system: unlocked (%d sessions)", state.IntimacySessions))
	} else {
		lines = append(lines, "Intimacy system: locked")
	}
	if state.LastAction != "" {
		lines = append(lines, "Last action: "+state.LastAction)
	}
	if len(state.History) > 0 {
		lines = append(lines, fmt.Sprintf("Her mood: thinking of you, %s", stage.Keyword))
	}
	lines = append(lines,
		"Explicit interactions: "+onOff(g.cfg.ExplicitEnabled),
		"Pure mode: "+onOff(state.PureMode),
		"AI behavior: "+onOff(g.cfg.AIEnabled),
	)
	return strings.Join(lines, "\n")
}

// Pure handles the galpure subcommands. A configuration that does not allow
// pure mode is a permission error: reported directly, nothing mutated.
func (g *Game) Pure(userID, sub string) ([]Reply, error) {
	hero := g.cfg.Heroine()
	if !g.cfg.PureModeAllowed {
		return []Reply{textReply(
			"This instance does not allow pure mode. Set allow_pure_mode to true in the plugin configuration to enable it.")}, nil
	}

	switch strings.ToLower(strings.TrimSpace(sub)) {
	case "on", "enable", "start":
		_, err := g.store.Mutate(userID, func(s *PlayerState) {
			s.PureMode = true
			s.InGalMode = true
		})
		if err != nil {
			return nil, err
		}
		return []Reply{textReply(fmt.Sprintf(
			"%s leans in close, voice low and warm: pure mode is on, adults only. From now on she holds nothing back.",
			hero))}, nil
	case "off", "disable", "stop":
		_, err := g.store.Mutate(userID, func(s *PlayerState) {
			s.PureMode = false
		})
		if err != nil {
			return nil, err
		}
		return []Reply{textReply(fmt.Sprintf(
			"%s lets out a slow breath: pure mode is off. Back to taking it slow, just enjoying being in love.",
			hero))}, nil
	case "status", "":
		state, err := g.store.Snapshot(userID)
		if err != nil {
			return nil, err
		}
		status := "off"
		if state.PureMode {
			status = "on"
		}
		return []Reply{textReply(fmt.Sprintf(
			"Pure mode is currently %s. While it is on, every interaction takes the explicit path -- make sure your surroundings are appropriate.",
			status))}, nil
	default:
		return []Reply{textReply("Usage: galpure on/off/status.")}, nil
	}
}

// Action runs the full per-action state machine: mode gate, engine choice,
// outcome with classic fallback, atomic state application, and the intimacy
// trigger decision.
func (g *Game) Action(ctx context.Context, userID, sender, sessionID, actionText, actionID string) ([]Reply, error) {
	hero := g.cfg.Heroine()
	state, err := g.store.Snapshot(userID)
	if err != nil {
		return nil, err
	}
	if !state.InGalMode && !state.PureMode {
		return []Reply{textReply(fmt.Sprintf(
			"%s is still in everyday mode. Use galstart to enter gal mode first.", hero))}, nil
	}

	engine, notice, usedAI := g.chooseEngine()
	var replies []Reply
	if notice != "" {
		replies = append(replies, textReply(notice))
	}

	req := ActionRequest{
		State:      *state,
		ActionText: actionText,
		ActionID:   actionID,
		PureMode:   state.PureMode,
		PlayerName: sender,
		SessionID:  sessionID,
	}
	outcome, err := engine.ActionOutcome(ctx, req)
	fallbackUsed := false
	if err != nil {
		if usedAI {
			fallbackUsed = true
			outcome, err = g.classic.ActionOutcome(ctx, req)
		}
		if err != nil {
			replies = append(replies, textReply(err.Error()))
			return replies, nil
		}
	}

	newState, applied, err := g.applyOutcome(userID, actionText, outcome)
	if err != nil {
		return nil, err
	}

	lines := []string{
		strings.TrimSpace(outcome.Narration),
		fmt.Sprintf("Favorability %+d → %d/%d", applied, newState.Favorability, MaxFavorability),
	}
	if feedback := strings.TrimSpace(outcome.Feedback); feedback != "" {
		lines = append(lines, fmt.Sprintf("%s's hint: %s", hero, feedback))
	}
	if fallbackUsed {
		lines = append(lines, fmt.Sprintf("(%s switched to the classic script, but she's still right here with you.)", hero))
	}

	autoUnlock := !newState.PureMode &&
		newState.IntimacyUnlocked &&
		newState.IntimacySessions == 0 &&
		g.cfg.ExplicitEnabled
	if autoUnlock {
		lines = append(lines, fmt.Sprintf(
			"Favorability is full. %s's heart is burning -- the intimacy system is ready.", hero))
	}

	var nonEmpty []string
	for _, line := range lines {
		if line != "" {
			nonEmpty = append(nonEmpty, line)
		}
	}
	replies = append(replies, textReply(strings.Join(nonEmpty, "\n")))

	signalTrigger := outcome.IntimacySignal &&
		(newState.PureMode || (newState.IntimacyUnlocked && g.cfg.ExplicitEnabled))
	if !signalTrigger && !autoUnlock {
		return replies, nil
	}

	// When both conditions fire on the same action, the per-action signal's
	// wording wins.
	triggerReason := fmt.Sprintf("favorability reached %d and %s longs to go further", MaxFavorability, hero)
	if signalTrigger {
		triggerReason = fmt.Sprintf("%s draws closer after you both admit what you feel", hero)
	}

	sceneReplies, err := g.runIntimacyScene(ctx, userID, sender, sessionID, newState, triggerReason, !fallbackUsed && usedAI)
	if err != nil {
		return nil, err
	}
	return append(replies, sceneReplies...), nil
}

// Intimacy handles the explicit user request for a scene (galintimacy).
func (g *Game) Intimacy(ctx context.Context, userID, sender, sessionID string) ([]Reply, error) {
	hero := g.cfg.Heroine()
	state, err := g.store.Snapshot(userID)
	if err != nil {
		return nil, err
	}
	if !state.InGalMode && !state.PureMode {
		return []Reply{textReply(fmt.Sprintf("%s isn't in gal mode yet. Start with galstart.", hero))}, nil
	}
	if !state.PureMode && state.Favorability < MaxFavorability {
		return []Reply{textReply(fmt.Sprintf(
			"%s needs a few more heart-racing moments first. Reach %d favorability and ask again.",
			hero, MaxFavorability))}, nil
	}
	if !state.PureMode && !g.cfg.ExplicitEnabled {
		return []Reply{textReply(
			"The intimacy system is disabled. Enable explicit interactions in the plugin configuration first.")}, nil
	}

	_, notice, usedAI := g.chooseEngine()
	var replies []Reply
	if notice != "" {
		replies = append(replies, textReply(notice))
	}

	sceneReplies, err := g.runIntimacyScene(ctx, userID, sender, sessionID, state,
		"the player asked for a more intimate moment", usedAI)
	if err != nil {
		return nil, err
	}
	return append(replies, sceneReplies...), nil
}

// runIntimacyScene generates a scene with the requested engine family,
// falling back to the classic script when the AI path fails, and records
// every produced scene as a zero-delta history entry.
func (g *Game) runIntimacyScene(ctx context.Context, userID, sender, sessionID string, state *PlayerState, triggerReason string, preferAI bool) ([]Reply, error) {
	req := IntimacyRequest{
		State:         *state,
		TriggerReason: triggerReason,
		PureMode:      state.PureMode,
		PlayerName:    sender,
		SessionID:     sessionID,
	}

	var (
		scene        string
		err          error
		fallbackUsed bool
	)
	if preferAI && g.ai != nil && g.ai.Ready() {
		scene, err = g.ai.IntimacyScene(ctx, req)
		if err != nil {
			log.Printf("gal: AI intimacy scene failed, falling back to classic: %v", err)
			fallbackUsed = true
			scene, err = g.classic.IntimacyScene(ctx, req)
		}
	} else {
		scene, err = g.classic.IntimacyScene(ctx, req)
	}
	if err != nil {
		return []Reply{textReply(err.Error())}, nil
	}

	var replies []Reply
	if fallbackUsed {
		replies = append(replies, textReply(fmt.Sprintf(
			"(%s follows the classic script through this intimate moment with you.)", g.cfg.Heroine())))
	}
	replies = append(replies, textReply(scene))

	if err := g.recordIntimacySession(userID, scene); err != nil {
		return nil, err
	}
	return replies, nil
}

func (g *Game) applyOutcome(userID, actionText string, outcome *Outcome) (*PlayerState, int, error) {
	applied := 0
	newState, err := g.store.Mutate(userID, func(s *PlayerState) {
		_, applied = ApplyDelta(s, outcome.Delta)
		s.LastAction = actionText
		s.AppendHistory(HistoryEntry{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Action:    actionText,
			Narration: outcome.Narration,
			Delta:     applied,
			Mood:      outcome.Mood,
			Feedback:  outcome.Feedback,
		})
	})
	if err != nil {
		return nil, 0, err
	}
	return newState, applied, nil
}

func (g *Game) recordIntimacySession(userID, narration string) error {
	hero := g.cfg.Heroine()
	_, err := g.store.Mutate(userID, func(s *PlayerState) {
		s.IntimacyUnlocked = true
		s.IntimacySessions++
		s.LastAction = "an intimate interlude"
		s.AppendHistory(HistoryEntry{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Action:    "[intimate interlude]",
			Narration: narration,
			Delta:     0,
			Mood:      "intimacy",
			Feedback:  fmt.Sprintf("%s lingers in the closeness with you.", hero),
		})
	})
	return err
}
