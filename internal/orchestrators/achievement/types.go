package achievement

import "github.com/hearthvale/companion-api/internal/entities/town"

// CheckContext carries the counters owned by subsystems outside this engine.
// Callers pass what they know; absent counters evaluate as zero.
type CheckContext struct {
	MemoryFlowers   int
	Letters         int
	EmotionalImpact float64
}

// CheckAchievementInput asks whether one achievement should unlock
type CheckAchievementInput struct {
	UserID  string
	Type    town.AchievementType
	Context CheckContext
}

// CheckAchievementOutput reports the row after the check
type CheckAchievementOutput struct {
	Achievement *town.Achievement
	Unlocked    bool
}

// CheckAllInput re-checks the full catalog for a user
type CheckAllInput struct {
	UserID  string
	Context CheckContext
}

// CheckAllOutput reports which types unlocked during the pass
type CheckAllOutput struct {
	Unlocked []town.AchievementType
}

// ListAchievementsInput identifies the user
type ListAchievementsInput struct {
	UserID string
}

// ListAchievementsOutput carries the user's rows
type ListAchievementsOutput struct {
	Achievements []*town.Achievement
}

// EvaluateRequirementInput evaluates one predicate against live aggregates
type EvaluateRequirementInput struct {
	UserID      string
	Requirement town.Requirement
	Context     CheckContext
}

// EvaluateRequirementOutput reports the predicate result and a display ratio
type EvaluateRequirementOutput struct {
	Met      bool
	Progress float64
}
