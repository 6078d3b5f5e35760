package models

import "time"

// Guild is the top-level container that owns roles, members and channels.
// The guild's everyone role shares the guild's ID.
type Guild struct {
	ID        int64     `json:"id,string"`
	Name      string    `json:"name"`
	OwnerID   int64     `json:"owner_id,string"`
	CreatedAt time.Time `json:"created_at"`
}
