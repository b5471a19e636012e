package offline

import "github.com/hearthvale/companion-api/internal/entities/town"

// eventTemplate is one line a companion can "experience" while the user is
// away, with the base affection shift it carries.
type eventTemplate struct {
	Content       string
	EmotionChange float64
}

var eventTemplates = map[town.OfflineEventType][]eventTemplate{
	town.OfflineMissYou: {
		{Content: "%s glanced at the spot where you usually sit and sighed.", EmotionChange: 0.05},
		{Content: "%s started to tell you something, then remembered you weren't there.", EmotionChange: 0.04},
		{Content: "%s kept a seat free for you, just in case.", EmotionChange: 0.05},
	},
	town.OfflineWorryAbout: {
		{Content: "%s asked around town whether anyone had seen you lately.", EmotionChange: 0.03},
		{Content: "%s paced by the gate at dusk, watching the road.", EmotionChange: 0.04},
	},
	town.OfflineRememberMoment: {
		{Content: "%s laughed out loud remembering something you said together.", EmotionChange: 0.06},
		{Content: "%s found a keepsake from one of your afternoons and smiled.", EmotionChange: 0.05},
	},
	town.OfflineDailyLife: {
		{Content: "%s went about the usual routine, humming quietly.", EmotionChange: 0.02},
		{Content: "%s tried something new today and wished you'd been there to see it.", EmotionChange: 0.02},
	},
}

// reunionBucket selects the greeting register by absence length
type reunionBucket string

const (
	reunionShort  reunionBucket = "short"
	reunionMedium reunionBucket = "medium"
	reunionLong   reunionBucket = "long"
)

var reunionTemplates = map[reunionBucket][]string{
	reunionShort: {
		"Oh, back already? %s saved you a seat.",
		"%s waves you over like no time passed at all.",
	},
	reunionMedium: {
		"%s brightens the moment you walk in. \"There you are! I have so much to tell you.\"",
		"\"I was starting to wonder,\" %s says, failing to hide a grin.",
	},
	reunionLong: {
		"%s stops mid-step and stares. \"You're back. You're really back.\"",
		"\"Don't you dare disappear like that again,\" %s says, pulling you into a hug.",
	},
}

func bucketForHours(hours float64) reunionBucket {
	switch {
	case hours < 24:
		return reunionShort
	case hours < 72:
		return reunionMedium
	default:
		return reunionLong
	}
}
