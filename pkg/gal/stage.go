package gal

// StageProfile bundles the presentation and policy knobs for one
// relationship band. It is derived from favorability on every decision and
// never persisted.
type StageProfile struct {
	Name          string
	Description   string
	Keyword       string
	AffinityBonus int
	IntimacyBias  float64
	CareHint      string
	TrustSignal   string
	Imagery       string
}

// StageFor maps a favorability value to its relationship stage.
// Bands: <80 tentative, 80..139 attached, >=140 devoted.
func StageFor(favorability int) StageProfile {
	if favorability < 80 {
		return StageProfile{
			Name:          "Tentative",
			Description:   "You are still finding each other's rhythm; she likes the slow approach.",
			Keyword:       "hopeful",
			AffinityBonus: 0,
			IntimacyBias:  0.1,
			CareHint:      "Tell her more about how you really feel, it puts her at ease.",
			TrustSignal:   "She needs you to open up and respond first.",
			Imagery:       "a soft, almost-there closeness in the air between you",
		}
	}
	if favorability < 140 {
		return StageProfile{
			Name:          "Attached",
			Description:   "You have grown used to each other; she leans on you without thinking.",
			Keyword:       "tender",
			AffinityBonus: 1,
			IntimacyBias:  0.2,
			CareHint:      "She notices the time you choose to spend on this relationship.",
			TrustSignal:   "Trust is deepening; she shows you her vulnerable side.",
			Imagery:       "your breathing falling into the same quiet rhythm",
		}
	}
	return StageProfile{
		Name:          "Devoted",
		Description:   "Her heart is wide open; she loves staying close and planning a future with you.",
		Keyword:       "burning",
		AffinityBonus: 2,
		IntimacyBias:  0.35,
		CareHint:      "She is waiting for a certain promise and a certain answer.",
		TrustSignal:   "You are each other's home now.",
		Imagery:       "a warm current running back and forth between you",
	}
}
