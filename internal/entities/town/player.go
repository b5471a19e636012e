package town

import "time"

// Player is the minimal per-user record the offline simulation needs
type Player struct {
	ID        string    `json:"id"`
	LastLogin time.Time `json:"last_login"`
	CreatedAt time.Time `json:"created_at"`
}
