package permissions

import "github.com/mzhadan/rolegate/internal/models"

// ContextMask returns the permission bits meaningful inside a channel of the
// given type. Guild-only bits are never included; text bits only apply to
// text-like channels and voice bits to voice-like ones, so categories keep
// neither. Masking with the result is idempotent.
func ContextMask(t models.ChannelType) Permission {
	mask := PermAll.Remove(PermGuildOnly)
	switch t {
	case models.ChannelTypeVoice, models.ChannelTypeStage:
		mask = mask.Remove(PermAllText)
	case models.ChannelTypeCategory:
		mask = mask.Remove(PermAllText | PermAllVoice)
	default:
		// Text, announcement, forum and thread channels carry text
		// permissions only.
		mask = mask.Remove(PermAllVoice)
	}
	return mask
}

// dependencyRules enumerates bits that are meaningless without a
// prerequisite bit. This is policy data, applied in order after the context
// mask: a member who cannot view a channel can do nothing in it, and one
// who cannot send messages has no use for message decorations.
var dependencyRules = []struct {
	requires   Permission
	dependents Permission
}{
	{PermViewChannel, PermAll.Remove(PermViewChannel)},
	{PermSendMessages, PermEmbedLinks | PermAttachFiles | PermMentionEveryone | PermSendTTSMessages},
}

// applyDependencies clears every bit whose prerequisite is absent from p.
func applyDependencies(p Permission) Permission {
	for _, rule := range dependencyRules {
		if !p.Has(rule.requires) {
			p = p.Remove(rule.dependents)
		}
	}
	return p
}
