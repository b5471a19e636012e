package events

// Event type names
const (
	TypeBondLevelUp          = "bond.level_up"
	TypeHighEmotionalSync    = "resonance.high_sync"
	TypeAchievementUnlocked  = "achievement.unlocked"
	TypeQuestCompleted       = "quest.completed"
	TypeReputationLevelUp    = "reputation.level_up"
	TypeReputationTypeChange = "reputation.type_changed"
	TypeGossipCreated        = "gossip.created"
	TypeGossipExpired        = "gossip.expired"
	TypeSeasonalCreated      = "seasonal.created"
	TypeSeasonalActivated    = "seasonal.activated"
	TypeSeasonalDeactivated  = "seasonal.deactivated"
)

// BondLevelUp is published when a relationship crosses a level threshold
type BondLevelUp struct {
	UserID          string
	NPCID           string
	PreviousLevel   int
	NewLevel        int
	SpecialTitle    string
	UnlockedSecrets []string
}

// EventType implements Event
func (BondLevelUp) EventType() string { return TypeBondLevelUp }

// HighEmotionalSync is published when a relationship's rolling sync crosses
// the high-sync threshold after a conversation.
type HighEmotionalSync struct {
	UserID    string
	NPCID     string
	SyncLevel float64
}

// EventType implements Event
func (HighEmotionalSync) EventType() string { return TypeHighEmotionalSync }

// AchievementUnlocked is published exactly once per (user, achievement)
type AchievementUnlocked struct {
	UserID          string
	AchievementType string
}

// EventType implements Event
func (AchievementUnlocked) EventType() string { return TypeAchievementUnlocked }

// QuestCompleted is published when a quest reaches the completed state
type QuestCompleted struct {
	UserID    string
	QuestID   string
	QuestType string
	NPCID     string
}

// EventType implements Event
func (QuestCompleted) EventType() string { return TypeQuestCompleted }

// ReputationLevelUp is published when influence crosses a level threshold
type ReputationLevelUp struct {
	UserID        string
	PreviousLevel int
	NewLevel      int
}

// EventType implements Event
func (ReputationLevelUp) EventType() string { return TypeReputationLevelUp }

// ReputationTypeChanged is published when the behavioral type flips
type ReputationTypeChanged struct {
	UserID       string
	PreviousType string
	NewType      string
}

// EventType implements Event
func (ReputationTypeChanged) EventType() string { return TypeReputationTypeChange }

// GossipCreated is published when a gossip entry enters circulation
type GossipCreated struct {
	UserID      string
	GossipID    string
	SourceNPCID string
	Sentiment   float64
	TargetCount int
}

// EventType implements Event
func (GossipCreated) EventType() string { return TypeGossipCreated }

// GossipExpired is published when the sweep deactivates an entry
type GossipExpired struct {
	UserID   string
	GossipID string
}

// EventType implements Event
func (GossipExpired) EventType() string { return TypeGossipExpired }

// SeasonalEventCreated is published when a seasonal event is scheduled
type SeasonalEventCreated struct {
	EventID   string
	EventKind string
}

// EventType implements Event
func (SeasonalEventCreated) EventType() string { return TypeSeasonalCreated }

// SeasonalEventActivated is published when an event window opens
type SeasonalEventActivated struct {
	EventID   string
	EventKind string
}

// EventType implements Event
func (SeasonalEventActivated) EventType() string { return TypeSeasonalActivated }

// SeasonalEventDeactivated is published when an event window closes
type SeasonalEventDeactivated struct {
	EventID   string
	EventKind string
}

// EventType implements Event
func (SeasonalEventDeactivated) EventType() string { return TypeSeasonalDeactivated }
