package gal

const (
	// MinFavorability and MaxFavorability bound the relationship score.
	MinFavorability = 0
	MaxFavorability = 200

	// DefaultFavorability is where a brand-new player starts.
	DefaultFavorability = 50

	// HistoryLimit caps the per-player interaction log. Oldest entries
	// are evicted first.
	HistoryLimit = 12

	// StateVersion is the on-disk schema version.
	StateVersion = 1
)

// HistoryEntry is one recorded interaction between the player and the heroine.
type HistoryEntry struct {
	Timestamp string `json:"timestamp"`
	Action    string `json:"action"`
	Narration string `json:"narration"`
	Delta     int    `json:"delta"`
	Mood      string `json:"mood"`
	Feedback  string `json:"feedback"`
}

// PlayerState holds all per-user progress. One record per user id.
type PlayerState struct {
	Favorability     int            `json:"favorability"`
	InGalMode        bool           `json:"in_gal_mode"`
	IntimacyUnlocked bool           `json:"intimacy_unlocked"`
	IntimacySessions int            `json:"intimacy_sessions"`
	LastAction       string         `json:"last_action,omitempty"`
	History          []HistoryEntry `json:"history"`
	PureMode         bool           `json:"pure_mode"`
}

// NewPlayerState returns the default record for a first-time user.
func NewPlayerState() *PlayerState {
	return &PlayerState{
		Favorability: DefaultFavorability,
		History:      []HistoryEntry{},
	}
}

// Clone returns a deep, independent copy. Callers holding a clone never
// observe later mutations of the live record.
func (s *PlayerState) Clone() *PlayerState {
	dup := *s
	dup.History = make([]HistoryEntry, len(s.History))
	copy(dup.History, s.History)
	return &dup
}

// AppendHistory records an interaction, evicting the oldest entry once the
// log is full.
func (s *PlayerState) AppendHistory(entry HistoryEntry) {
	s.History = append(s.History, entry)
	if len(s.History) > HistoryLimit {
		s.History = s.History[len(s.History)-HistoryLimit:]
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
