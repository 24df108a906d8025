package gal

import "strings"

// actionTemplate is one canned outcome for a canonical action. Narration and
// feedback carry {hero}, {player} and {stage_desc} placeholders.
type actionTemplate struct {
	delta     int
	mood      string
	feedback  string
	intimacy  bool
	narration string
}

// Canonical action ids understood by the classic engine.
const (
	ActionPark   = "park"
	ActionCinema = "cinema"
)

var classicActionLibrary = map[string][]actionTemplate{
	ActionPark: {
		{
			delta:    8,
			mood:     MoodPositive,
			feedback: "{hero} loved how attentive you were; she said the evening breeze made her want to hold hands.",
			intimacy: false,
			narration: "{hero} hooks her arm through {player}'s and strolls under the plane trees, " +
				"quietly listing the little wishes she wants to chase with you. {stage_desc}",
		},
		{
			delta:    6,
			mood:     MoodPositive,
			feedback: "{hero} messaged you afterwards asking if she could bring the snacks next time.",
			intimacy: false,
			narration: "The dusk paints the park in warm light while {hero} leans on your shoulder, " +
				"trading small stories and nudging you whenever you overthink. {stage_desc}",
		},
		{
			delta:    -4,
			mood:     MoodNegative,
			feedback: "{hero} is still a little hurt. Maybe find a different way to show you care?",
			intimacy: false,
			narration: "{player} spends too long on a phone call and {hero} sulks, kicking at fallen leaves. " +
				"You make up in the end, but she reminds you to keep some time for her. {stage_desc}",
		},
	},
	ActionCinema: {
		{
			delta:    9,
			mood:     MoodPositive,
			feedback: "{hero} laughed and said next time she gets to pick something you like.",
			intimacy: true,
			narration: "{hero} holds popcorn up to your lips and whispers jokes about the plot. " +
				"When the credits roll she takes your hand without a word and asks for a slow walk home. {stage_desc}",
		},
		{
			delta:    4,
			mood:     MoodNeutral,
			feedback: "{hero} says any film is fine as long as it's with you, but don't forget to talk it over after.",
			intimacy: false,
			narration: "You grab the couple seats and {hero} sneaks her head onto your shoulder. " +
				"The movie is so-so; her whispered commentary is better than the screen. {stage_desc}",
		},
		{
			delta:    -6,
			mood:     MoodNegative,
			feedback: "{hero} wants your honest thoughts, not a shrug and a half answer.",
			intimacy: false,
			narration: "After the film you mumble \"it was fine\" and {hero} goes quiet gathering her coat. " +
				"She only asks, a little deflated, whether next time you could ask what she likes first. {stage_desc}",
		},
	},
}

// Explicit-scene narration variants, keyed by action id and intensity.
var classicPureActionLibrary = map[string]map[string][]string{
	ActionPark: {
		IntensitySoft: {
			"{hero} pulls {player} into the shadow of the old trees, arms looped around your neck, " +
				"and trades slow kisses with you until the streetlamps blur. She murmurs that tonight " +
				"she doesn't want to let go.",
			"{hero} tugs you down onto the park bench and curls into your lap, lips brushing your jaw. " +
				"The night air is cool but everywhere she touches feels warm, and she whispers for you to stay close.",
		},
		IntensityStrong: {
			"{hero} presses {player} back against a tree trunk, breath hot at your ear, hands sliding " +
				"under your jacket as she kisses you hard enough to make the world tilt. She tells you, " +
				"voice low, exactly how much she wants you tonight.",
			"{hero} straddles your lap on the dark bench, fingers laced behind your neck, rocking into " +
				"each kiss while the wind scatters leaves around you. She bites your lip lightly and " +
				"dares you not to stop.",
		},
	},
	ActionCinema: {
		IntensitySoft: {
			"In the dark of the back row {hero} laces her fingers with {player}'s and rests them on her knee. " +
				"Between scenes she turns, finds your mouth, and the film becomes a distant sound.",
			"{hero} leans into your side through the whole last act, her thumb drawing circles on your palm. " +
				"When the lights come up her cheeks are flushed and she asks if you can take the long way home.",
		},
		IntensityStrong: {
			"{hero} guides {player}'s hand to her waist in the flickering dark, kissing you deep whenever " +
				"the soundtrack swells. By the final reel she is half in your seat, breath unsteady, " +
				"whispering that the movie was never the point.",
			"During the climax {hero} pulls you in by the collar and kisses you until you both forget the film. " +
				"She stays pressed against you to the last credit, heartbeat loud under your hand.",
		},
	},
}

// Free-text keyword vocabularies used by the classic engine's scoring path.
// A word can appear in more than one set (hugging is both kind and romantic).
var (
	customPositiveKeywords = []string{
		"dinner", "surprise", "gift", "date", "trip",
		"support", "company", "walk", "gentle", "listen",
		"hug", "stunning", "care", "comfort", "birthday",
	}
	customRomanticKeywords = []string{
		"kiss", "hug", "close", "intimate", "bed",
		"sofa", "night", "bath", "cuddle", "caress",
	}
	customNegativeKeywords = []string{
		"late", "quarrel", "argue", "cancel", "ignore",
		"overtime", "perfunctory", "busy", "refuse", "push away", "forgot",
	}
)

// fillTemplate performs the library's only templating: named placeholder
// substitution.
func fillTemplate(s, hero, player, stageDesc string) string {
	return strings.NewReplacer(
		"{hero}", hero,
		"{player}", player,
		"{stage_desc}", stageDesc,
	).Replace(s)
}

func countKeywords(text string, keywords []string) int {
	lower := strings.ToLower(text)
	count := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			count++
		}
	}
	return count
}
