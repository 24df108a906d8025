package gal

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
)

// ClassicEngine narrates from the canned template library. It does no I/O
// and never fails.
type ClassicEngine struct {
	cfg Config
}

func NewClassicEngine(cfg Config) *ClassicEngine {
	return &ClassicEngine{cfg: cfg}
}

// ActionOutcome picks or synthesizes a scripted outcome for the action.
// The returned delta is raw; the stage bonus is folded in by ApplyDelta.
func (e *ClassicEngine) ActionOutcome(_ context.Context, req ActionRequest) (*Outcome, error) {
	stage := StageFor(req.State.Favorability)
	hero := e.cfg.Heroine()
	player := e.cfg.Player(req.PlayerName)

	if req.PureMode {
		return e.pureOutcome(req.ActionText, req.ActionID, hero, player), nil
	}

	if templates, ok := classicActionLibrary[req.ActionID]; ok {
		t := templates[rand.Intn(len(templates))]
		return &Outcome{
			Narration:      fillTemplate(t.narration, hero, player, stage.Description),
			Delta:          t.delta,
			Mood:           t.mood,
			Feedback:       fillTemplate(t.feedback, hero, player, stage.Description) + " " + stage.CareHint,
			IntimacySignal: t.intimacy && stage.IntimacyBias > 0.2,
		}, nil
	}

	return e.customOutcome(req.ActionText, hero, player, stage), nil
}

// customOutcome scores free-text actions against the keyword vocabularies
// and maps the score to one of four outcome tiers.
func (e *ClassicEngine) customOutcome(actionText, hero, player string, stage StageProfile) *Outcome {
	positive := countKeywords(actionText, customPositiveKeywords)
	romantic := countKeywords(actionText, customRomanticKeywords)
	negative := countKeywords(actionText, customNegativeKeywords)
	score := positive + romantic - negative

	var (
		delta     int
		mood      string
		feedback  string
		narration string
	)
	switch {
	case score <= -1:
		delta = -8
		mood = MoodNegative
		feedback = fmt.Sprintf("%s wants you to pay more attention to her feelings and say the things you keep inside.", hero)
		narration = fmt.Sprintf(
			"%s hesitates while bringing up \"%s\", and %s catches that flicker of avoidance. "+
				"She isn't angry, exactly; she just reminds you not to leave her standing there.",
			player, actionText, hero)
	case score == 0:
		delta = 2
		mood = MoodNeutral
		feedback = fmt.Sprintf("%s can feel the effort; a little more detail would move her even more.", hero)
		narration = fmt.Sprintf(
			"%s listens carefully as you talk about \"%s\", thought flickering behind her eyes. "+
				"She nods and tells you not to be so tense, just take it one small step at a time.",
			hero, actionText)
	case score == 1:
		delta = 6
		mood = MoodPositive
		feedback = fmt.Sprintf("%s is touched by how much thought you put in, and hopes you keep this rhythm.", hero)
		narration = fmt.Sprintf(
			"As you describe \"%s\", %s takes your hand and rests her chin on your shoulder, "+
				"promising she'll be there for all of it, easy or hard.",
			actionText, hero)
	default:
		delta = 10
		mood = MoodPositive
		feedback = fmt.Sprintf("%s is already picturing it. Don't forget to keep that promise.", hero)
		narration = fmt.Sprintf(
			"%s barely lets you finish \"%s\" before she throws her arms around you, "+
				"eyes bright, saying that as long as it's with you she's up for any adventure.",
			hero, actionText)
	}

	return &Outcome{
		Narration:      narration + " " + stage.Description,
		Delta:          delta,
		Mood:           mood,
		Feedback:       feedback + " " + stage.CareHint,
		IntimacySignal: score >= 1 && stage.IntimacyBias+float64(romantic)*0.1 >= 0.3,
	}
}

func (e *ClassicEngine) pureOutcome(actionText, actionID, hero, player string) *Outcome {
	intensity := e.cfg.Intensity
	if intensity != IntensityStrong {
		intensity = IntensitySoft
	}

	var narration string
	if variants, ok := classicPureActionLibrary[actionID]; ok {
		pool := variants[intensity]
		narration = fillTemplate(pool[rand.Intn(len(pool))], hero, player, "")
	} else {
		narration = fmt.Sprintf(
			"%s catches %s by the collar, using \"%s\" as the flimsiest of excuses to pull you in. "+
				"She kisses you slow and deep, pressed close enough to feel every heartbeat, "+
				"and makes it clear she has no intention of letting the night end politely.",
			hero, player, actionText)
	}

	return &Outcome{
		Narration:      narration,
		Delta:          e.cfg.PureDelta(),
		Mood:           MoodPositive,
		Feedback:       fmt.Sprintf("%s murmurs against your ear not to stop, exactly like that.", hero),
		IntimacySignal: true,
	}
}

// IntimacyScene returns a three-paragraph scripted scene. In normal mode it
// refuses, in character, when the current stage is not intimate enough.
func (e *ClassicEngine) IntimacyScene(_ context.Context, req IntimacyRequest) (string, error) {
	hero := e.cfg.Heroine()
	player := e.cfg.Player(req.PlayerName)

	if req.PureMode {
		return e.pureIntimacy(hero, player, req.TriggerReason), nil
	}

	stage := StageFor(req.State.Favorability)
	if stage.IntimacyBias < 0.2 {
		return "", fmt.Errorf("%s wants to be a little surer of your hearts first. Spend more time with her.", hero)
	}

	paragraphs := []string{
		fmt.Sprintf(
			"%s pulls you down beside her on the sofa, %s. She teases you about \"%s\" with a smile, "+
				"then gently interrupts your explanation: tonight she wants to follow the feeling, not the words.",
			hero, stage.Imagery, req.TriggerReason),
		fmt.Sprintf(
			"She settles against %s, fingertips tracing an idle line along your collar, your breathing "+
				"folding into hers. When you wrap your arms around her back she melts closer, warmth "+
				"climbing degree by degree.",
			player),
		"The night covers just enough. Held in each other, you trade the quietest honest wishes, " +
			"and she whispers that there's no rhythm to keep, only this closeness that belongs to the two of you.",
	}
	return strings.Join(paragraphs, "\n\n"), nil
}

func (e *ClassicEngine) pureIntimacy(hero, player, triggerReason string) string {
	var paragraphs []string
	if e.cfg.Intensity == IntensityStrong {
		paragraphs = []string{
			fmt.Sprintf(
				"%s pulls %s into the bedroom and locks the door behind you, already kissing you as she "+
					"walks you backwards to the bed. Between breaths she says she wants to write tonight's "+
					"sequel to \"%s\" right here.",
				hero, player, triggerReason),
			"She presses you down and takes the lead without apology, hands and mouth mapping you like " +
				"she's been waiting all evening, her whispered demands getting bolder as the heat builds " +
				"between you.",
			fmt.Sprintf(
				"Long after, %s stays tangled around you, flushed and unrepentant, and warns you against "+
					"planning on sleep: the night, she says, is nowhere near finished with either of you.",
				hero),
		}
	} else {
		paragraphs = []string{
			fmt.Sprintf(
				"%s draws %s into the dim bedroom by the hand, giggling about \"%s\" as she pushes the door "+
					"shut with her shoulder. The teasing in her eyes softens into something warmer.",
				hero, player, triggerReason),
			"You fall into the sheets in a tangle of slow kisses and slower hands, the rest of the world " +
				"dimming until there is only the sound of her breath close to yours.",
			fmt.Sprintf(
				"Afterwards %s tucks herself under your chin, fingertips lazy on your chest, and tells you "+
					"this is her favorite place in the world to be.",
				hero),
		}
	}
	return strings.Join(paragraphs, "\n\n")
}
