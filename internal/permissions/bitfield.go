package permissions

import "strings"

// Permission is a bitfield representing a set of permissions. Only the bits
// named below are ever set; reserved bits stay zero.
type Permission uint64

const (
	PermViewChannel        Permission = 1 << 0
	PermSendMessages       Permission = 1 << 1
	PermManageMessages     Permission = 1 << 2
	PermManageChannels     Permission = 1 << 3
	PermManageRoles        Permission = 1 << 4
	PermKickMembers        Permission = 1 << 5
	PermBanMembers         Permission = 1 << 6
	PermManageGuild        Permission = 1 << 7
	PermConnect            Permission = 1 << 8  // voice
	PermSpeak              Permission = 1 << 9  // voice
	PermMuteMembers        Permission = 1 << 10 // voice
	PermDeafenMembers      Permission = 1 << 11 // voice
	PermMoveMembers        Permission = 1 << 12 // voice
	PermMentionEveryone    Permission = 1 << 13
	PermAttachFiles        Permission = 1 << 14
	PermReadMessageHistory Permission = 1 << 15
	PermCreateInvite       Permission = 1 << 16
	PermChangeNickname     Permission = 1 << 17
	PermManageNicknames    Permission = 1 << 18
	PermAddReactions       Permission = 1 << 19
	PermEmbedLinks         Permission = 1 << 20
	PermSendTTSMessages    Permission = 1 << 21
	PermUseExternalEmojis  Permission = 1 << 22
	PermPrioritySpeaker    Permission = 1 << 23 // voice
	PermStream             Permission = 1 << 24 // voice
	PermUseVAD             Permission = 1 << 25 // voice
	PermRequestToSpeak     Permission = 1 << 26 // stage voice
	PermViewAuditLog       Permission = 1 << 27
	PermViewGuildInsights  Permission = 1 << 28
	PermManageEmojis       Permission = 1 << 29
	PermManageThreads      Permission = 1 << 30
	PermAdministrator      Permission = 1 << 31 // bypasses all checks
)

const (
	// PermAllText are the permissions only meaningful in text-like channels.
	PermAllText = PermSendMessages | PermManageMessages | PermMentionEveryone |
		PermAttachFiles | PermReadMessageHistory | PermAddReactions |
		PermEmbedLinks | PermSendTTSMessages | PermUseExternalEmojis |
		PermManageThreads

	// PermAllVoice are the permissions only meaningful in voice-like channels.
	PermAllVoice = PermConnect | PermSpeak | PermMuteMembers | PermDeafenMembers |
		PermMoveMembers | PermPrioritySpeaker | PermStream | PermUseVAD |
		PermRequestToSpeak

	// PermGuildOnly are the permissions that only make sense at the guild
	// root level and are never part of a channel-scoped result.
	PermGuildOnly = PermAdministrator | PermKickMembers | PermBanMembers |
		PermManageGuild | PermChangeNickname | PermManageNicknames |
		PermViewAuditLog | PermViewGuildInsights | PermManageEmojis

	// PermAll is the union of every defined permission bit.
	PermAll = PermViewChannel | PermManageChannels | PermManageRoles |
		PermCreateInvite | PermAllText | PermAllVoice | PermGuildOnly
)

// Has returns true if p contains all bits in perm.
func (p Permission) Has(perm Permission) bool { return p&perm == perm }

// Add returns the union of p and perm.
func (p Permission) Add(perm Permission) Permission { return p | perm }

// Remove returns p with the bits from perm cleared.
func (p Permission) Remove(perm Permission) Permission { return p &^ perm }

// Intersect returns the bits present in both p and perm.
func (p Permission) Intersect(perm Permission) Permission { return p & perm }

// DefaultEveryonePerms is the grant a freshly created everyone role carries.
var DefaultEveryonePerms = PermViewChannel | PermSendMessages | PermReadMessageHistory |
	PermAddReactions | PermEmbedLinks | PermAttachFiles | PermConnect | PermSpeak |
	PermUseVAD | PermCreateInvite | PermChangeNickname

// permOrder fixes the listing order of bits for String and Names.
var permOrder = []Permission{
	PermViewChannel, PermSendMessages, PermManageMessages, PermManageChannels,
	PermManageRoles, PermKickMembers, PermBanMembers, PermManageGuild,
	PermConnect, PermSpeak, PermMuteMembers, PermDeafenMembers, PermMoveMembers,
	PermMentionEveryone, PermAttachFiles, PermReadMessageHistory,
	PermCreateInvite, PermChangeNickname, PermManageNicknames, PermAddReactions,
	PermEmbedLinks, PermSendTTSMessages, PermUseExternalEmojis,
	PermPrioritySpeaker, PermStream, PermUseVAD, PermRequestToSpeak,
	PermViewAuditLog, PermViewGuildInsights, PermManageEmojis, PermManageThreads,
	PermAdministrator,
}

var permNames = map[Permission]string{
	PermViewChannel:        "VIEW_CHANNEL",
	PermSendMessages:       "SEND_MESSAGES",
	PermManageMessages:     "MANAGE_MESSAGES",
	PermManageChannels:     "MANAGE_CHANNELS",
	PermManageRoles:        "MANAGE_ROLES",
	PermKickMembers:        "KICK_MEMBERS",
	PermBanMembers:         "BAN_MEMBERS",
	PermManageGuild:        "MANAGE_GUILD",
	PermConnect:            "CONNECT",
	PermSpeak:              "SPEAK",
	PermMuteMembers:        "MUTE_MEMBERS",
	PermDeafenMembers:      "DEAFEN_MEMBERS",
	PermMoveMembers:        "MOVE_MEMBERS",
	PermMentionEveryone:    "MENTION_EVERYONE",
	PermAttachFiles:        "ATTACH_FILES",
	PermReadMessageHistory: "READ_MESSAGE_HISTORY",
	PermCreateInvite:       "CREATE_INVITE",
	PermChangeNickname:     "CHANGE_NICKNAME",
	PermManageNicknames:    "MANAGE_NICKNAMES",
	PermAddReactions:       "ADD_REACTIONS",
	PermEmbedLinks:         "EMBED_LINKS",
	PermSendTTSMessages:    "SEND_TTS_MESSAGES",
	PermUseExternalEmojis:  "USE_EXTERNAL_EMOJIS",
	PermPrioritySpeaker:    "PRIORITY_SPEAKER",
	PermStream:             "STREAM",
	PermUseVAD:             "USE_VAD",
	PermRequestToSpeak:     "REQUEST_TO_SPEAK",
	PermViewAuditLog:       "VIEW_AUDIT_LOG",
	PermViewGuildInsights:  "VIEW_GUILD_INSIGHTS",
	PermManageEmojis:       "MANAGE_EMOJIS",
	PermManageThreads:      "MANAGE_THREADS",
	PermAdministrator:      "ADMINISTRATOR",
}

// Names returns the names of all set bits in a fixed order.
func (p Permission) Names() []string {
	var names []string
	for _, bit := range permOrder {
		if p.Has(bit) {
			names = append(names, permNames[bit])
		}
	}
	return names
}

// String returns a human-readable representation of the permission set,
// listing all set permission names separated by " | ".
func (p Permission) String() string {
	if p == 0 {
		return "NONE"
	}
	names := p.Names()
	if len(names) == 0 {
		return "UNKNOWN"
	}
	return strings.Join(names, " | ")
}
