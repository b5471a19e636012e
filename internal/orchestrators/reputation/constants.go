package reputation

import (
	"time"

	"github.com/hearthvale/companion-api/internal/entities/town"
)

// levelThresholds is the ascending influence table. reputationLevel is the
// highest index whose threshold the influence total meets.
var levelThresholds = []int{0, 50, 150, 300, 500, 800, 1200, 2000}

// MaxReputationLevel is the top index of the threshold table
const MaxReputationLevel = 7

// typeMultipliers scale incoming reputation points by the user's current type
var typeMultipliers = map[town.ReputationType]float64{
	town.ReputationHealer:       1.5,
	town.ReputationListener:     1.3,
	town.ReputationHelper:       1.2,
	town.ReputationMysterious:   1.0,
	town.ReputationLeader:       1.4,
	town.ReputationTroublemaker: 0.7,
}

// gossip spread parameters
const (
	gossipLifetime       = 7 * 24 * time.Hour
	gossipMaxSpreadCount = 5

	spreadDecayBase     = 0.9
	sentimentDecayStep  = 0.9
	gossipAgeDecayDaily = 0.9

	positiveSpreadRate = 0.8
	negativeSpreadRate = 0.6
	neutralSpreadRate  = 0.5
)

// attitude parameters
const (
	attitudeBase          = 50
	attitudePerLevel      = 5
	attitudeGossipWeight  = 10
	attitudeFloor         = 0
	attitudeCeiling       = 100
	gossipReputationScale = 10
	spreadImpactScale     = 5
)

// scanLevel returns the highest table index whose threshold influence meets.
// Negative influence floors at level 0.
func scanLevel(influence int) int {
	level := 0
	for i, threshold := range levelThresholds {
		if influence >= threshold {
			level = i
		}
	}
	return level
}

// typeForRatio derives the behavioral type from the positive-action ratio.
// Users with no recorded actions start mysterious.
func typeForRatio(positive, negative int) town.ReputationType {
	total := positive + negative
	if total == 0 {
		return town.ReputationMysterious
	}

	ratio := float64(positive) / float64(total)
	switch {
	case ratio >= 0.9:
		return town.ReputationHealer
	case ratio >= 0.75:
		return town.ReputationListener
	case ratio >= 0.6:
		return town.ReputationHelper
	case ratio >= 0.4:
		return town.ReputationMysterious
	case ratio >= 0.25:
		return town.ReputationLeader
	default:
		return town.ReputationTroublemaker
	}
}

// spreadRateFor mirrors the sign-based target-inclusion rates
func spreadRateFor(sentiment float64) float64 {
	switch {
	case sentiment > 0:
		return positiveSpreadRate
	case sentiment < 0:
		return negativeSpreadRate
	default:
		return neutralSpreadRate
	}
}
