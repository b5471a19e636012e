package seasonal

import "github.com/hearthvale/companion-api/internal/entities/town"

// Activity is one objective inside a seasonal event, with the same predicate
// shape the achievement engine evaluates.
type Activity struct {
	ID          string
	Name        string
	Requirement town.Requirement
	Reward      town.Reward
}

// EventDefinition is one entry of the fixed seasonal catalog
type EventDefinition struct {
	EventType    string
	Name         string
	DurationDays int
	Activities   []Activity
}

var catalog = []EventDefinition{
	{
		EventType:    "spring_blossom",
		Name:         "Spring Blossom Festival",
		DurationDays: 7,
		Activities: []Activity{
			{
				ID:          "blossom_stroll",
				Name:        "Blossom Stroll",
				Requirement: town.BondLevelRequirement{Level: 2},
				Reward:      town.Reward{BondExp: 30},
			},
			{
				ID:          "flower_pressing",
				Name:        "Flower Pressing",
				Requirement: town.MemoryFlowersRequirement{Count: 3},
				Reward:      town.Reward{BondExp: 50, InfluencePoints: 10},
			},
			{
				ID:          "petal_parade",
				Name:        "Petal Parade",
				Requirement: town.MultipleBondsRequirement{Count: 2, MinLevel: 2},
				Reward:      town.Reward{InfluencePoints: 25},
			},
		},
	},
	{
		EventType:    "summer_fireworks",
		Name:         "Summer Fireworks Night",
		DurationDays: 5,
		Activities: []Activity{
			{
				ID:          "shared_sparklers",
				Name:        "Shared Sparklers",
				Requirement: town.BondLevelRequirement{Level: 3},
				Reward:      town.Reward{BondExp: 40},
			},
			{
				ID:          "festival_heartbeat",
				Name:        "Festival Heartbeat",
				Requirement: town.EmotionalSyncRequirement{Sync: 0.7},
				Reward:      town.Reward{BondExp: 60, SpecialTitle: "Firework Gazer"},
			},
		},
	},
	{
		EventType:    "autumn_harvest",
		Name:         "Autumn Harvest Fair",
		DurationDays: 7,
		Activities: []Activity{
			{
				ID:          "harvest_hands",
				Name:        "Harvest Hands",
				Requirement: town.ReputationLevelRequirement{Level: 3},
				Reward:      town.Reward{InfluencePoints: 40},
			},
			{
				ID:          "letters_of_thanks",
				Name:        "Letters of Thanks",
				Requirement: town.LettersRequirement{Count: 5},
				Reward:      town.Reward{BondExp: 45, InfluencePoints: 15},
			},
			{
				ID:          "town_table",
				Name:        "The Town Table",
				Requirement: town.MultipleBondsRequirement{Count: 3, MinLevel: 2},
				Reward:      town.Reward{BondExp: 30, InfluencePoints: 30},
			},
		},
	},
	{
		EventType:    "winter_starlight",
		Name:         "Winter Starlight Vigil",
		DurationDays: 10,
		Activities: []Activity{
			{
				ID:          "longest_night",
				Name:        "The Longest Night",
				Requirement: town.BondLevelRequirement{Level: 5},
				Reward:      town.Reward{BondExp: 80},
			},
			{
				ID:          "whispered_secrets",
				Name:        "Whispered Secrets",
				Requirement: town.AllSecretsRequirement{},
				Reward:      town.Reward{BondExp: 100, SpecialTitle: "Starlight Confidant"},
			},
			{
				ID:          "warmth_given",
				Name:        "Warmth Given",
				Requirement: town.EmotionalImpactRequirement{Total: 50},
				Reward:      town.Reward{InfluencePoints: 50},
			},
		},
	},
}

// Definitions returns the fixed seasonal catalog
func Definitions() []EventDefinition {
	return catalog
}

// DefinitionFor looks up a catalog entry by event type
func DefinitionFor(eventType string) (EventDefinition, bool) {
	for _, def := range catalog {
		if def.EventType == eventType {
			return def, true
		}
	}
	return EventDefinition{}, false
}

// ActivityFor looks up an activity within a catalog entry
func (d EventDefinition) ActivityFor(activityID string) (Activity, bool) {
	for _, a := range d.Activities {
		if a.ID == activityID {
			return a, true
		}
	}
	return Activity{}, false
}
