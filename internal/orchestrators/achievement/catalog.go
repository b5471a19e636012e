package achievement

import "github.com/hearthvale/companion-api/internal/entities/town"

// Definition is one entry of the fixed achievement catalog
type Definition struct {
	Type        town.AchievementType
	Name        string
	Description string
	Requirement town.Requirement
	Rewards     town.Reward
}

// Achievement types
const (
	TypeFirstFriend           town.AchievementType = "first_friend"
	TypeCloseCompanion        town.AchievementType = "close_companion"
	TypeSoulBond              town.AchievementType = "soul_bond"
	TypeSocialButterfly       town.AchievementType = "social_butterfly"
	TypeHeartOfTown           town.AchievementType = "heart_of_town"
	TypeKindredSpirit         town.AchievementType = "kindred_spirit"
	TypeInPerfectSync         town.AchievementType = "in_perfect_sync"
	TypeTownNotable           town.AchievementType = "town_notable"
	TypeTownLegend            town.AchievementType = "town_legend"
	TypeTalkOfTheTown         town.AchievementType = "talk_of_the_town"
	TypeCenterOfAttention     town.AchievementType = "center_of_attention"
	TypeMemoryGardener        town.AchievementType = "memory_gardener"
	TypeFaithfulCorrespondent town.AchievementType = "faithful_correspondent"
	TypeEmotionalAnchor       town.AchievementType = "emotional_anchor"
	TypeKeeperOfSecrets       town.AchievementType = "keeper_of_secrets"
)

var catalog = []Definition{
	{
		Type:        TypeFirstFriend,
		Name:        "First Friend",
		Description: "Reach bond level 2 with any companion.",
		Requirement: town.BondLevelRequirement{Level: 2},
		Rewards:     town.Reward{BondExp: 50},
	},
	{
		Type:        TypeCloseCompanion,
		Name:        "Close Companion",
		Description: "Reach bond level 5 with any companion.",
		Requirement: town.BondLevelRequirement{Level: 5},
		Rewards:     town.Reward{BondExp: 100, InfluencePoints: 20},
	},
	{
		Type:        TypeSoulBond,
		Name:        "Soul Bond",
		Description: "Reach the maximum bond level with any companion.",
		Requirement: town.BondLevelRequirement{Level: 10},
		Rewards:     town.Reward{BondExp: 200, InfluencePoints: 50, SpecialTitle: "Soulbound"},
	},
	{
		Type:        TypeSocialButterfly,
		Name:        "Social Butterfly",
		Description: "Hold three bonds at level 3 or higher.",
		Requirement: town.MultipleBondsRequirement{Count: 3, MinLevel: 3},
		Rewards:     town.Reward{InfluencePoints: 30},
	},
	{
		Type:        TypeHeartOfTown,
		Name:        "Heart of the Town",
		Description: "Hold five bonds at level 5 or higher.",
		Requirement: town.MultipleBondsRequirement{Count: 5, MinLevel: 5},
		Rewards:     town.Reward{InfluencePoints: 100, SpecialTitle: "Heart of the Town"},
	},
	{
		Type:        TypeKindredSpirit,
		Name:        "Kindred Spirit",
		Description: "Reach an emotional sync of 0.8 with any companion.",
		Requirement: town.EmotionalSyncRequirement{Sync: 0.8},
		Rewards:     town.Reward{BondExp: 80},
	},
	{
		Type:        TypeInPerfectSync,
		Name:        "In Perfect Sync",
		Description: "Reach an emotional sync of 0.9 with any companion.",
		Requirement: town.EmotionalSyncRequirement{Sync: 0.9},
		Rewards:     town.Reward{BondExp: 150, SpecialTitle: "Perfectly Attuned"},
	},
	{
		Type:        TypeTownNotable,
		Name:        "Town Notable",
		Description: "Reach reputation level 4.",
		Requirement: town.ReputationLevelRequirement{Level: 4},
		Rewards:     town.Reward{InfluencePoints: 40},
	},
	{
		Type:        TypeTownLegend,
		Name:        "Town Legend",
		Description: "Reach reputation level 7.",
		Requirement: town.ReputationLevelRequirement{Level: 7},
		Rewards:     town.Reward{InfluencePoints: 150, SpecialTitle: "Living Legend"},
	},
	{
		Type:        TypeTalkOfTheTown,
		Name:        "Talk of the Town",
		Description: "Have five pieces of gossip circulate about you.",
		Requirement: town.GossipCountRequirement{Count: 5},
		Rewards:     town.Reward{InfluencePoints: 25},
	},
	{
		Type:        TypeCenterOfAttention,
		Name:        "Center of Attention",
		Description: "Have fifteen pieces of gossip circulate about you.",
		Requirement: town.GossipCountRequirement{Count: 15},
		Rewards:     town.Reward{InfluencePoints: 75, SpecialTitle: "Center of Attention"},
	},
	{
		Type:        TypeMemoryGardener,
		Name:        "Memory Gardener",
		Description: "Grow ten memory flowers.",
		Requirement: town.MemoryFlowersRequirement{Count: 10},
		Rewards:     town.Reward{BondExp: 60},
	},
	{
		Type:        TypeFaithfulCorrespondent,
		Name:        "Faithful Correspondent",
		Description: "Exchange twenty letters with companions.",
		Requirement: town.LettersRequirement{Count: 20},
		Rewards:     town.Reward{BondExp: 60, InfluencePoints: 20},
	},
	{
		Type:        TypeEmotionalAnchor,
		Name:        "Emotional Anchor",
		Description: "Accumulate a total emotional impact of 100.",
		Requirement: town.EmotionalImpactRequirement{Total: 100},
		Rewards:     town.Reward{BondExp: 120, SpecialTitle: "Emotional Anchor"},
	},
	{
		Type:        TypeKeeperOfSecrets,
		Name:        "Keeper of Secrets",
		Description: "Unlock every secret of a single companion.",
		Requirement: town.AllSecretsRequirement{},
		Rewards:     town.Reward{BondExp: 150, SpecialTitle: "Keeper of Secrets"},
	},
}

// Catalog returns the fixed achievement catalog
func Catalog() []Definition {
	return catalog
}

// DefinitionFor looks up a catalog entry by type
func DefinitionFor(achievementType town.AchievementType) (Definition, bool) {
	for _, def := range catalog {
		if def.Type == achievementType {
			return def, true
		}
	}
	return Definition{}, false
}

// typesForKinds returns the catalog entries whose requirement matches one of
// the given kinds, for targeted re-checks on events
func typesForKinds(kinds ...town.RequirementKind) []town.AchievementType {
	want := make(map[town.RequirementKind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}

	var types []town.AchievementType
	for _, def := range catalog {
		if want[def.Requirement.Kind()] {
			types = append(types, def.Type)
		}
	}
	return types
}
