package models

// OverwriteTarget tags what an overwrite applies to.
type OverwriteTarget int

const (
	OverwriteRole   OverwriteTarget = 0
	OverwriteMember OverwriteTarget = 1
)

// Overwrite is a per-channel permission delta scoped to a single role or
// member. Deny bits are cleared before allow bits are set, so allow wins
// within one overwrite.
type Overwrite struct {
	ChannelID  int64           `json:"channel_id,string"`
	TargetID   int64           `json:"target_id,string"`
	TargetType OverwriteTarget `json:"target_type"`
	Allow      int64           `json:"allow,string"`
	Deny       int64           `json:"deny,string"`
}
