package bond

import "github.com/hearthvale/companion-api/internal/entities/town"

// MaxBondLevel is the level cap
const MaxBondLevel = 10

// levelThresholds is the cumulative experience needed to reach each level.
// Index is the level itself; level 0 needs nothing.
var levelThresholds = [MaxBondLevel + 1]int{
	0,    // 0
	100,  // 1
	300,  // 2
	600,  // 3
	1000, // 4
	1500, // 5
	2100, // 6
	2900, // 7
	3900, // 8
	5100, // 9
	6500, // 10
}

// baseInteractionExp is the raw experience per interaction type, before the
// intensity and sync multipliers.
var baseInteractionExp = map[town.InteractionType]int{
	town.InteractionChat:        10,
	town.InteractionJoke:        15,
	town.InteractionGift:        20,
	town.InteractionComfort:     25,
	town.InteractionDeepTalk:    30,
	town.InteractionConfession:  40,
	town.InteractionSecretShare: 60,
}

// levelBand returns the experience width of the given level's band
func levelBand(level int) int {
	if level >= MaxBondLevel {
		return 0
	}
	return levelThresholds[level+1] - levelThresholds[level]
}

// scanLevel returns the highest level whose cumulative threshold is at or
// below total.
func scanLevel(total int) int {
	level := 0
	for l := 1; l <= MaxBondLevel; l++ {
		if levelThresholds[l] <= total {
			level = l
		}
	}
	return level
}
