package town

import "github.com/hearthvale/companion-api/internal/errors"

// RequirementKind tags the concrete requirement type
type RequirementKind string

// Requirement kinds
const (
	RequirementBondLevel       RequirementKind = "bond_level"
	RequirementMultipleBonds   RequirementKind = "multiple_bonds"
	RequirementEmotionalSync   RequirementKind = "emotional_sync"
	RequirementReputationLevel RequirementKind = "reputation_level"
	RequirementGossipCount     RequirementKind = "gossip_count"
	RequirementMemoryFlowers   RequirementKind = "memory_flowers"
	RequirementLetters         RequirementKind = "letters"
	RequirementEmotionalImpact RequirementKind = "emotional_impact"
	RequirementAllSecrets      RequirementKind = "all_secrets"
)

// Requirement is the predicate a user must satisfy to unlock an achievement
// or seasonal activity. Each concrete type validates its own parameters at
// construction time, so catalogs fail fast instead of at evaluation.
type Requirement interface {
	Kind() RequirementKind
	Validate() error
}

// BondLevelRequirement needs any single bond at or above Level
type BondLevelRequirement struct {
	Level int
}

// Kind implements Requirement
func (BondLevelRequirement) Kind() RequirementKind { return RequirementBondLevel }

// Validate implements Requirement
func (r BondLevelRequirement) Validate() error {
	if r.Level < 1 || r.Level > 10 {
		return errors.InvalidArgumentf("bond level requirement out of range: %d", r.Level)
	}
	return nil
}

// MultipleBondsRequirement needs at least Count bonds at or above MinLevel
type MultipleBondsRequirement struct {
	Count    int
	MinLevel int
}

// Kind implements Requirement
func (MultipleBondsRequirement) Kind() RequirementKind { return RequirementMultipleBonds }

// Validate implements Requirement
func (r MultipleBondsRequirement) Validate() error {
	vb := errors.NewValidationBuilder()
	if r.Count < 1 {
		vb.InvalidField("Count", "must be positive")
	}
	errors.ValidateRange("MinLevel", r.MinLevel, 1, 10, vb)
	return vb.Build()
}

// EmotionalSyncRequirement needs any bond's rolling sync at or above Sync
type EmotionalSyncRequirement struct {
	Sync float64
}

// Kind implements Requirement
func (EmotionalSyncRequirement) Kind() RequirementKind { return RequirementEmotionalSync }

// Validate implements Requirement
func (r EmotionalSyncRequirement) Validate() error {
	if r.Sync <= 0 || r.Sync > 1 {
		return errors.InvalidArgumentf("emotional sync requirement out of range: %v", r.Sync)
	}
	return nil
}

// ReputationLevelRequirement needs the town reputation at or above Level
type ReputationLevelRequirement struct {
	Level int
}

// Kind implements Requirement
func (ReputationLevelRequirement) Kind() RequirementKind { return RequirementReputationLevel }

// Validate implements Requirement
func (r ReputationLevelRequirement) Validate() error {
	if r.Level < 1 || r.Level > 7 {
		return errors.InvalidArgumentf("reputation level requirement out of range: %d", r.Level)
	}
	return nil
}

// GossipCountRequirement needs at least Count gossip entries about the user
type GossipCountRequirement struct {
	Count int
}

// Kind implements Requirement
func (GossipCountRequirement) Kind() RequirementKind { return RequirementGossipCount }

// Validate implements Requirement
func (r GossipCountRequirement) Validate() error {
	if r.Count < 1 {
		return errors.InvalidArgument("gossip count requirement must be positive")
	}
	return nil
}

// MemoryFlowersRequirement needs at least Count memory flowers grown.
// The counter is owned by an external subsystem and arrives via CheckContext.
type MemoryFlowersRequirement struct {
	Count int
}

// Kind implements Requirement
func (MemoryFlowersRequirement) Kind() RequirementKind { return RequirementMemoryFlowers }

// Validate implements Requirement
func (r MemoryFlowersRequirement) Validate() error {
	if r.Count < 1 {
		return errors.InvalidArgument("memory flower requirement must be positive")
	}
	return nil
}

// LettersRequirement needs at least Count letters exchanged.
// The counter is owned by an external subsystem and arrives via CheckContext.
type LettersRequirement struct {
	Count int
}

// Kind implements Requirement
func (LettersRequirement) Kind() RequirementKind { return RequirementLetters }

// Validate implements Requirement
func (r LettersRequirement) Validate() error {
	if r.Count < 1 {
		return errors.InvalidArgument("letter requirement must be positive")
	}
	return nil
}

// EmotionalImpactRequirement needs a cumulative emotional impact of at least
// Total. The counter is owned by an external subsystem and arrives via
// CheckContext.
type EmotionalImpactRequirement struct {
	Total float64
}

// Kind implements Requirement
func (EmotionalImpactRequirement) Kind() RequirementKind { return RequirementEmotionalImpact }

// Validate implements Requirement
func (r EmotionalImpactRequirement) Validate() error {
	if r.Total <= 0 {
		return errors.InvalidArgument("emotional impact requirement must be positive")
	}
	return nil
}

// AllSecretsRequirement needs every secret of at least one companion unlocked
type AllSecretsRequirement struct{}

// Kind implements Requirement
func (AllSecretsRequirement) Kind() RequirementKind { return RequirementAllSecrets }

// Validate implements Requirement
func (AllSecretsRequirement) Validate() error { return nil }
