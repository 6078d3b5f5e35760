package models

// ChannelType determines which permission bits are meaningful inside the
// channel. The numbering matches the wire protocol of the platform this
// service models.
type ChannelType int

const (
	ChannelTypeText               ChannelType = 0
	ChannelTypeVoice              ChannelType = 2
	ChannelTypeCategory           ChannelType = 4
	ChannelTypeAnnouncement       ChannelType = 5
	ChannelTypeAnnouncementThread ChannelType = 10
	ChannelTypePublicThread       ChannelType = 11
	ChannelTypePrivateThread      ChannelType = 12
	ChannelTypeStage              ChannelType = 13
	ChannelTypeForum              ChannelType = 15
)

// Valid reports whether t is a known channel type.
func (t ChannelType) Valid() bool {
	switch t {
	case ChannelTypeText, ChannelTypeVoice, ChannelTypeCategory,
		ChannelTypeAnnouncement, ChannelTypeAnnouncementThread,
		ChannelTypePublicThread, ChannelTypePrivateThread,
		ChannelTypeStage, ChannelTypeForum:
		return true
	}
	return false
}

type Channel struct {
	ID       int64       `json:"id,string"`
	GuildID  int64       `json:"guild_id,string"`
	Name     string      `json:"name"`
	Type     ChannelType `json:"type"`
	Position int         `json:"position"`
	Topic    *string     `json:"topic,omitempty"`
	ParentID *int64      `json:"parent_id,string,omitempty"`
}
