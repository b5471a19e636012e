package town

import "time"

// QuestStatus is the quest state machine:
// pending → in_progress → completed | failed.
// Failed is only reachable via the deadline sweep.
type QuestStatus string

// Quest statuses
const (
	QuestPending    QuestStatus = "pending"
	QuestInProgress QuestStatus = "in_progress"
	QuestCompleted  QuestStatus = "completed"
	QuestFailed     QuestStatus = "failed"
)

// QuestDifficulty scales a template's base reward
type QuestDifficulty string

// Quest difficulties
const (
	DifficultyEasy   QuestDifficulty = "easy"
	DifficultyNormal QuestDifficulty = "normal"
	DifficultyHard   QuestDifficulty = "hard"
)

// DailyQuest is a short-lived per-user objective. At most three quests are
// concurrently active (pending or in progress) per user, with distinct types.
type DailyQuest struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	NPCID       string          `json:"npc_id,omitempty"`
	QuestType   string          `json:"quest_type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Difficulty  QuestDifficulty `json:"difficulty"`
	Reward      Reward          `json:"reward"`
	Status      QuestStatus     `json:"status"`
	Deadline    time.Time       `json:"deadline"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// IsActive reports whether the quest still counts against the concurrent cap
func (q *DailyQuest) IsActive() bool {
	return q.Status == QuestPending || q.Status == QuestInProgress
}
