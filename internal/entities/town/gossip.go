package town

import "time"

// GossipEntry is a sentiment-bearing rumor circulating among companions.
// TargetNPCIDs only ever grows; the entry deactivates once it has spread five
// times or its expiry passes.
type GossipEntry struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	SourceNPCID  string    `json:"source_npc_id"`
	TargetNPCIDs []string  `json:"target_npc_ids"`
	Content      string    `json:"content"`
	Sentiment    float64   `json:"sentiment"`
	SpreadCount  int       `json:"spread_count"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Targets reports whether the given companion has heard this gossip
func (g *GossipEntry) Targets(npcID string) bool {
	for _, id := range g.TargetNPCIDs {
		if id == npcID {
			return true
		}
	}
	return false
}
