package models

import "time"

type Member struct {
	GuildID  int64     `json:"guild_id,string"`
	UserID   int64     `json:"user_id,string"`
	Nickname *string   `json:"nickname,omitempty"`
	JoinedAt time.Time `json:"joined_at"`
	// RoleIDs are the explicitly assigned roles; the everyone role is
	// implicit and never listed here.
	RoleIDs []int64 `json:"role_ids"`
}
