package quest

import "github.com/hearthvale/companion-api/internal/entities/town"

// GenerateDailyQuestsInput identifies the user
type GenerateDailyQuestsInput struct {
	UserID string
}

// GenerateDailyQuestsOutput carries the user's active quests after topping up
type GenerateDailyQuestsOutput struct {
	Quests    []*town.DailyQuest
	Generated int
}

// StartQuestInput identifies a pending quest to begin
type StartQuestInput struct {
	UserID  string
	QuestID string
}

// StartQuestOutput carries the started quest
type StartQuestOutput struct {
	Quest *town.DailyQuest
}

// CompleteQuestInput identifies an in-progress quest to finish
type CompleteQuestInput struct {
	UserID  string
	QuestID string
}

// CompleteQuestOutput carries the completed quest and the granted reward
type CompleteQuestOutput struct {
	Quest  *town.DailyQuest
	Reward town.Reward
}

// ExpireOverdueInput has no parameters yet
type ExpireOverdueInput struct{}

// ExpireOverdueOutput reports how many quests the sweep failed
type ExpireOverdueOutput struct {
	Failed int
}
