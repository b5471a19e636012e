package quest

import "github.com/hearthvale/companion-api/internal/entities/town"

// Template is one archetype in the fixed daily quest catalog
type Template struct {
	Type        string
	Title       string
	Description string
	Difficulty  town.QuestDifficulty
	BaseReward  town.Reward
	NeedsNPC    bool
}

// difficultyMultipliers scale a template's base reward
var difficultyMultipliers = map[town.QuestDifficulty]float64{
	town.DifficultyEasy:   1.0,
	town.DifficultyNormal: 1.5,
	town.DifficultyHard:   2.0,
}

var templates = []Template{
	{
		Type:        "visit_companion",
		Title:       "A Familiar Face",
		Description: "Stop by and say hello to a companion you haven't seen in a while.",
		Difficulty:  town.DifficultyEasy,
		BaseReward:  town.Reward{BondExp: 20, InfluencePoints: 5},
		NeedsNPC:    true,
	},
	{
		Type:        "deep_conversation",
		Title:       "Heart to Heart",
		Description: "Have a real conversation with a companion about something that matters.",
		Difficulty:  town.DifficultyNormal,
		BaseReward:  town.Reward{BondExp: 40, InfluencePoints: 10},
		NeedsNPC:    true,
	},
	{
		Type:        "gift_giving",
		Title:       "A Small Token",
		Description: "Bring a companion something they'd like.",
		Difficulty:  town.DifficultyNormal,
		BaseReward:  town.Reward{BondExp: 35, InfluencePoints: 8},
		NeedsNPC:    true,
	},
	{
		Type:        "help_townsfolk",
		Title:       "Lending a Hand",
		Description: "Help out around town wherever you're needed.",
		Difficulty:  town.DifficultyEasy,
		BaseReward:  town.Reward{BondExp: 15, InfluencePoints: 15},
	},
	{
		Type:        "spread_kindness",
		Title:       "Ripples of Kindness",
		Description: "Do three kind things for three different people today.",
		Difficulty:  town.DifficultyHard,
		BaseReward:  town.Reward{BondExp: 30, InfluencePoints: 25},
	},
}

// Templates returns the fixed quest catalog
func Templates() []Template {
	return templates
}

// ScaledReward applies the template's difficulty multiplier
func (t Template) ScaledReward() town.Reward {
	return t.BaseReward.Scale(difficultyMultipliers[t.Difficulty])
}
