package permissions

import (
	"errors"
	"testing"

	"github.com/mzhadan/rolegate/internal/models"
)

const (
	testGuildID = int64(100)
	testOwnerID = int64(1)
	testUserID  = int64(2)
)

func newTestResolver(t *testing.T, roles map[int64]Permission) *Resolver {
	t.Helper()
	r, err := NewResolver(testGuildID, testOwnerID, roles)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	return r
}

func TestNewResolver_MissingEveryoneRole(t *testing.T) {
	_, err := NewResolver(testGuildID, testOwnerID, map[int64]Permission{
		200: PermSendMessages,
	})
	if err == nil {
		t.Fatal("expected error when everyone role is missing")
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}

func TestMemberPermissions_OwnerBypass(t *testing.T) {
	r := newTestResolver(t, map[int64]Permission{testGuildID: 0})

	perms, err := r.MemberPermissions(testOwnerID, nil)
	if err != nil {
		t.Fatalf("MemberPermissions: %v", err)
	}
	if perms != PermAll {
		t.Errorf("owner perms = %v, want PermAll", perms)
	}
}

func TestMemberPermissions_EveryoneBaseline(t *testing.T) {
	r := newTestResolver(t, map[int64]Permission{
		testGuildID: PermViewChannel | PermSendMessages,
	})

	perms, err := r.MemberPermissions(testUserID, nil)
	if err != nil {
		t.Fatalf("MemberPermissions: %v", err)
	}
	if perms != PermViewChannel|PermSendMessages {
		t.Errorf("perms = %v, want everyone grant", perms)
	}
}

func TestMemberPermissions_RoleUnion(t *testing.T) {
	roles := map[int64]Permission{
		testGuildID: PermViewChannel,
		200:         PermSendMessages,
		201:         PermManageMessages,
	}
	r := newTestResolver(t, roles)

	perms, err := r.MemberPermissions(testUserID, []int64{200, 201})
	if err != nil {
		t.Fatalf("MemberPermissions: %v", err)
	}
	want := PermViewChannel | PermSendMessages | PermManageMessages
	if perms != want {
		t.Errorf("perms = %v, want %v", perms, want)
	}

	// Union is commutative; role order must not matter.
	reversed, err := r.MemberPermissions(testUserID, []int64{201, 200})
	if err != nil {
		t.Fatalf("MemberPermissions reversed: %v", err)
	}
	if reversed != perms {
		t.Error("role order changed the result")
	}
}

func TestMemberPermissions_DuplicateRoleIDs(t *testing.T) {
	r := newTestResolver(t, map[int64]Permission{
		testGuildID: PermViewChannel,
		200:         PermSendMessages,
	})

	perms, err := r.MemberPermissions(testUserID, []int64{200, 200, 200})
	if err != nil {
		t.Fatalf("MemberPermissions: %v", err)
	}
	if perms != PermViewChannel|PermSendMessages {
		t.Errorf("perms = %v, duplicates should not change the union", perms)
	}
}

func TestMemberPermissions_AdministratorBypass(t *testing.T) {
	r := newTestResolver(t, map[int64]Permission{
		testGuildID: PermViewChannel,
		200:         PermAdministrator,
	})

	perms, err := r.MemberPermissions(testUserID, []int64{200})
	if err != nil {
		t.Fatalf("MemberPermissions: %v", err)
	}
	if perms != PermAll {
		t.Errorf("perms = %v, want PermAll for administrator", perms)
	}
}

func TestMemberPermissions_DanglingRole(t *testing.T) {
	r := newTestResolver(t, map[int64]Permission{testGuildID: PermViewChannel})

	_, err := r.MemberPermissions(testUserID, []int64{999})
	if err == nil {
		t.Fatal("expected error for dangling role reference")
	}
	if !errors.Is(err, ErrRoleNotFound) {
		t.Errorf("error = %v, want ErrRoleNotFound", err)
	}
	var rnf *RoleNotFoundError
	if !errors.As(err, &rnf) {
		t.Fatalf("error %v is not a *RoleNotFoundError", err)
	}
	if rnf.RoleID != 999 || rnf.UserID != testUserID {
		t.Errorf("RoleNotFoundError = %+v, want RoleID 999 UserID %d", rnf, testUserID)
	}
}

func TestChannelPermissions_NoOverwrites(t *testing.T) {
	r := newTestResolver(t, map[int64]Permission{
		testGuildID: PermViewChannel | PermSendMessages | PermConnect,
	})

	perms, err := r.ChannelPermissions(testUserID, nil, models.ChannelTypeText, nil)
	if err != nil {
		t.Fatalf("ChannelPermissions: %v", err)
	}
	// Connect is a voice permission and gets masked out of a text channel.
	if perms != PermViewChannel|PermSendMessages {
		t.Errorf("perms = %v, want VIEW_CHANNEL | SEND_MESSAGES", perms)
	}
}

func TestChannelPermissions_OwnerIgnoresOverwrites(t *testing.T) {
	r := newTestResolver(t, map[int64]Permission{testGuildID: 0})

	overwrites := []models.Overwrite{
		{TargetID: testGuildID, TargetType: models.OverwriteRole, Deny: int64(PermViewChannel)},
		{TargetID: testOwnerID, TargetType: models.OverwriteMember, Deny: int64(PermSendMessages)},
	}

	perms, err := r.ChannelPermissions(testOwnerID, nil, models.ChannelTypeText, overwrites)
	if err != nil {
		t.Fatalf("ChannelPermissions: %v", err)
	}
	if perms != PermAll {
		t.Errorf("owner perms = %v, want PermAll regardless of overwrites", perms)
	}
}

func TestChannelPermissions_AdministratorIgnoresOverwritesAndMask(t *testing.T) {
	r := newTestResolver(t, map[int64]Permission{
		testGuildID: PermAdministrator,
	})

	overwrites := []models.Overwrite{
		{TargetID: testGuildID, TargetType: models.OverwriteRole, Deny: int64(PermAll)},
	}

	// Even in a category, where the mask would strip everything, the
	// administrator keeps the full set.
	perms, err := r.ChannelPermissions(testUserID, nil, models.ChannelTypeCategory, overwrites)
	if err != nil {
		t.Fatalf("ChannelPermissions: %v", err)
	}
	if perms != PermAll {
		t.Errorf("admin perms = %v, want PermAll", perms)
	}
}

func TestChannelPermissions_EveryoneOverwriteDenyThenAllow(t *testing.T) {
	r := newTestResolver(t, map[int64]Permission{
		testGuildID: PermViewChannel | PermSendMessages,
	})

	overwrites := []models.Overwrite{
		{
			TargetID:   testGuildID,
			TargetType: models.OverwriteRole,
			Allow:      int64(PermSendMessages),
			Deny:       int64(PermSendMessages),
		},
	}

	perms, err := r.ChannelPermissions(testUserID, nil, models.ChannelTypeText, overwrites)
	if err != nil {
		t.Fatalf("ChannelPermissions: %v", err)
	}
	if !perms.Has(PermSendMessages) {
		t.Error("allow should win over deny within the everyone overwrite")
	}
}

func TestChannelPermissions_RoleOverwritesUnion(t *testing.T) {
	roles := map[int64]Permission{
		testGuildID: PermViewChannel | PermSendMessages,
		200:         0,
		201:         0,
	}
	r := newTestResolver(t, roles)

	// One held role denies SEND_MESSAGES, the other allows it. The
	// accumulators are applied deny first, so the allow survives.
	overwrites := []models.Overwrite{
		{TargetID: 200, TargetType: models.OverwriteRole, Deny: int64(PermSendMessages)},
		{TargetID: 201, TargetType: models.OverwriteRole, Allow: int64(PermSendMessages)},
	}

	perms, err := r.ChannelPermissions(testUserID, []int64{200, 201}, models.ChannelTypeText, overwrites)
	if err != nil {
		t.Fatalf("ChannelPermissions: %v", err)
	}
	if !perms.Has(PermSendMessages) {
		t.Error("role allow from one held role should restore a deny from another")
	}
}

func TestChannelPermissions_UnheldRoleOverwriteSkipped(t *testing.T) {
	roles := map[int64]Permission{
		testGuildID: PermViewChannel | PermSendMessages,
		200:         0,
	}
	r := newTestResolver(t, roles)

	overwrites := []models.Overwrite{
		{TargetID: 200, TargetType: models.OverwriteRole, Deny: int64(PermSendMessages)},
	}

	// The member does not hold role 200, so its overwrite is ignored.
	perms, err := r.ChannelPermissions(testUserID, nil, models.ChannelTypeText, overwrites)
	if err != nil {
		t.Fatalf("ChannelPermissions: %v", err)
	}
	if !perms.Has(PermSendMessages) {
		t.Error("overwrite on an unheld role should not apply")
	}
}

func TestChannelPermissions_UnknownRoleOverwrite(t *testing.T) {
	r := newTestResolver(t, map[int64]Permission{testGuildID: PermViewChannel})

	overwrites := []models.Overwrite{
		{TargetID: 999, TargetType: models.OverwriteRole, Deny: int64(PermViewChannel)},
	}

	_, err := r.ChannelPermissions(testUserID, nil, models.ChannelTypeText, overwrites)
	if !errors.Is(err, ErrRoleNotFound) {
		t.Errorf("error = %v, want ErrRoleNotFound for unknown overwrite target", err)
	}
}

func TestChannelPermissions_MemberOverwriteHighestPrecedence(t *testing.T) {
	roles := map[int64]Permission{
		testGuildID: PermViewChannel,
		200:         0,
	}
	r := newTestResolver(t, roles)

	overwrites := []models.Overwrite{
		{TargetID: 200, TargetType: models.OverwriteRole, Allow: int64(PermManageMessages)},
		{TargetID: testUserID, TargetType: models.OverwriteMember, Deny: int64(PermManageMessages)},
	}

	perms, err := r.ChannelPermissions(testUserID, []int64{200}, models.ChannelTypeText, overwrites)
	if err != nil {
		t.Fatalf("ChannelPermissions: %v", err)
	}
	if perms.Has(PermManageMessages) {
		t.Error("member deny must beat role allow")
	}
}

func TestChannelPermissions_MemberOverwriteIgnoresOtherMembers(t *testing.T) {
	r := newTestResolver(t, map[int64]Permission{
		testGuildID: PermViewChannel | PermSendMessages,
	})

	overwrites := []models.Overwrite{
		{TargetID: 42, TargetType: models.OverwriteMember, Deny: int64(PermSendMessages)},
	}

	perms, err := r.ChannelPermissions(testUserID, nil, models.ChannelTypeText, overwrites)
	if err != nil {
		t.Fatalf("ChannelPermissions: %v", err)
	}
	if !perms.Has(PermSendMessages) {
		t.Error("overwrite for a different member should not apply")
	}
}

func TestChannelPermissions_ViewDenyClearsEverything(t *testing.T) {
	roles := map[int64]Permission{
		testGuildID: PermViewChannel | PermSendMessages | PermMentionEveryone,
		200:         0,
	}
	r := newTestResolver(t, roles)

	overwrites := []models.Overwrite{
		{
			TargetID:   200,
			TargetType: models.OverwriteRole,
			Allow:      int64(PermSendTTSMessages),
			Deny:       int64(PermViewChannel),
		},
	}

	perms, err := r.ChannelPermissions(testUserID, []int64{200}, models.ChannelTypeText, overwrites)
	if err != nil {
		t.Fatalf("ChannelPermissions: %v", err)
	}
	if perms != 0 {
		t.Errorf("perms = %v, want empty set when view access is denied", perms)
	}
}

func TestChannelPermissions_SendDenyClearsDependents(t *testing.T) {
	r := newTestResolver(t, map[int64]Permission{
		testGuildID: PermViewChannel | PermSendMessages | PermEmbedLinks |
			PermAttachFiles | PermAddReactions,
	})

	overwrites := []models.Overwrite{
		{TargetID: testUserID, TargetType: models.OverwriteMember, Deny: int64(PermSendMessages)},
	}

	perms, err := r.ChannelPermissions(testUserID, nil, models.ChannelTypeText, overwrites)
	if err != nil {
		t.Fatalf("ChannelPermissions: %v", err)
	}
	if perms.Has(PermEmbedLinks) || perms.Has(PermAttachFiles) {
		t.Error("send-dependent bits should be cleared when SEND_MESSAGES is absent")
	}
	if !perms.Has(PermAddReactions) {
		t.Error("ADD_REACTIONS does not depend on SEND_MESSAGES and should remain")
	}
	if !perms.Has(PermViewChannel) {
		t.Error("VIEW_CHANNEL should remain")
	}
}

func TestChannelPermissions_GuildOnlyBitsMasked(t *testing.T) {
	r := newTestResolver(t, map[int64]Permission{
		testGuildID: PermViewChannel | PermBanMembers | PermManageGuild,
	})

	perms, err := r.ChannelPermissions(testUserID, nil, models.ChannelTypeText, nil)
	if err != nil {
		t.Fatalf("ChannelPermissions: %v", err)
	}
	if perms.Has(PermBanMembers) || perms.Has(PermManageGuild) {
		t.Error("guild-only bits must not appear in a channel result")
	}
}

func TestChannelPermissions_VoiceChannelMasksText(t *testing.T) {
	r := newTestResolver(t, map[int64]Permission{
		testGuildID: PermViewChannel | PermSendMessages | PermSpeak | PermConnect,
	})

	perms, err := r.ChannelPermissions(testUserID, nil, models.ChannelTypeVoice, nil)
	if err != nil {
		t.Fatalf("ChannelPermissions: %v", err)
	}
	if perms.Has(PermSendMessages) {
		t.Error("text bits should be masked out of a voice channel")
	}
	if !perms.Has(PermSpeak) || !perms.Has(PermConnect) {
		t.Error("voice bits should survive in a voice channel")
	}
}

// Scenario: everyone grants VIEW; role A (held) grants SEND; role B (not
// held) grants MANAGE_ROLES; an overwrite on role A allows MANAGE_MESSAGES
// and denies SEND.
func TestChannelPermissions_RoleOverwriteScenario(t *testing.T) {
	roles := map[int64]Permission{
		testGuildID: PermViewChannel,
		200:         PermSendMessages,
		201:         PermManageRoles,
	}
	r := newTestResolver(t, roles)

	root, err := r.MemberPermissions(testUserID, []int64{200})
	if err != nil {
		t.Fatalf("MemberPermissions: %v", err)
	}
	if root != PermViewChannel|PermSendMessages {
		t.Errorf("root = %v, want VIEW_CHANNEL | SEND_MESSAGES", root)
	}

	overwrites := []models.Overwrite{
		{
			TargetID:   200,
			TargetType: models.OverwriteRole,
			Allow:      int64(PermManageMessages),
			Deny:       int64(PermSendMessages),
		},
	}

	perms, err := r.ChannelPermissions(testUserID, []int64{200}, models.ChannelTypeText, overwrites)
	if err != nil {
		t.Fatalf("ChannelPermissions: %v", err)
	}
	if perms != PermViewChannel|PermManageMessages {
		t.Errorf("perms = %v, want VIEW_CHANNEL | MANAGE_MESSAGES", perms)
	}
}

// Scenario: the everyone overwrite allows ADD_REACTIONS and EMBED_LINKS and
// a member overwrite denies SEND. EMBED_LINKS falls to the send dependency
// rule; ADD_REACTIONS survives.
func TestChannelPermissions_EveryoneAllowMemberDenyScenario(t *testing.T) {
	r := newTestResolver(t, map[int64]Permission{
		testGuildID: PermViewChannel | PermSendMessages,
	})

	overwrites := []models.Overwrite{
		{
			TargetID:   testGuildID,
			TargetType: models.OverwriteRole,
			Allow:      int64(PermAddReactions | PermEmbedLinks),
		},
		{
			TargetID:   testUserID,
			TargetType: models.OverwriteMember,
			Deny:       int64(PermSendMessages),
		},
	}

	perms, err := r.ChannelPermissions(testUserID, nil, models.ChannelTypeText, overwrites)
	if err != nil {
		t.Fatalf("ChannelPermissions: %v", err)
	}
	if perms != PermViewChannel|PermAddReactions {
		t.Errorf("perms = %v, want VIEW_CHANNEL | ADD_REACTIONS", perms)
	}
}
