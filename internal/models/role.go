package models

// Role grants a permission bitmask at the guild root level.
// The everyone role is the role whose ID equals the guild ID; every member
// holds it implicitly.
type Role struct {
	ID          int64  `json:"id,string"`
	GuildID     int64  `json:"guild_id,string"`
	Name        string `json:"name"`
	Color       int    `json:"color"`
	Permissions int64  `json:"permissions,string"`
	Position    int    `json:"position"`
}

// IsEveryone reports whether this is the guild's default role.
func (r Role) IsEveryone() bool { return r.ID == r.GuildID }
