package gal

// Per-action delta bounds, applied after the stage bonus.
const (
	MinDelta = -20
	MaxDelta = 20
)

// ClampDelta bounds a raw engine delta to the allowed per-action range.
func ClampDelta(raw int) int {
	return clamp(raw, MinDelta, MaxDelta)
}

// ApplyDelta folds a raw engine delta into the state: the current stage
// bonus is added, the sum clamped to the per-action range, and favorability
// moved within [MinFavorability, MaxFavorability]. The returned applied
// delta is recomputed from the actual favorability change, so boundary
// cases (for example 195 + 20 capping at 200) report the true increment
// rather than the engine's raw number.
//
// Reaching max favorability, or having pure mode active, latches
// IntimacyUnlocked. The latch is never cleared except by a full reset.
func ApplyDelta(state *PlayerState, raw int) (newFavorability, appliedDelta int) {
	stage := StageFor(state.Favorability)
	old := state.Favorability
	delta := ClampDelta(raw + stage.AffinityBonus)
	state.Favorability = clamp(old+delta, MinFavorability, MaxFavorability)
	if state.Favorability >= MaxFavorability || state.PureMode {
		state.IntimacyUnlocked = true
	}
	return state.Favorability, state.Favorability - old
}
