package permissions

import (
	"fmt"

	"github.com/mzhadan/rolegate/internal/models"
)

// Resolver computes the effective permissions of guild members. It borrows
// the caller's role grants for the duration of the computation and never
// mutates them, so one resolver may serve concurrent evaluations.
type Resolver struct {
	guildID int64
	ownerID int64
	roles   map[int64]Permission
}

// NewResolver creates a resolver over a guild's role grants. The mapping
// must contain the everyone role, keyed by the guild's own ID.
func NewResolver(guildID, ownerID int64, roles map[int64]Permission) (*Resolver, error) {
	if _, ok := roles[guildID]; !ok {
		return nil, &InvalidInputError{
			Reason: fmt.Sprintf("everyone role missing for guild %d", guildID),
		}
	}
	return &Resolver{guildID: guildID, ownerID: ownerID, roles: roles}, nil
}

// MemberPermissions computes the guild-level permissions of a member.
//  1. The guild owner has all permissions.
//  2. Start with the everyone role grant.
//  3. Union in every held role's grant; a held role missing from the
//     grants is a caller data violation and fails with RoleNotFound.
//  4. ADMINISTRATOR grants all permissions.
func (r *Resolver) MemberPermissions(userID int64, roleIDs []int64) (Permission, error) {
	if userID == r.ownerID {
		return PermAll, nil
	}

	perms, ok := r.roles[r.guildID]
	if !ok {
		return 0, &RoleNotFoundError{RoleID: r.guildID}
	}

	seen := make(map[int64]bool, len(roleIDs))
	for _, roleID := range roleIDs {
		if seen[roleID] {
			continue
		}
		seen[roleID] = true

		grant, ok := r.roles[roleID]
		if !ok {
			return 0, &RoleNotFoundError{RoleID: roleID, UserID: userID}
		}
		perms = perms.Add(grant)
	}

	if perms.Has(PermAdministrator) {
		return PermAll, nil
	}
	return perms, nil
}

// ChannelPermissions computes the permissions of a member inside a channel,
// layering channel overwrites over the guild-level result.
//
// Overwrites apply lowest tier first, deny before allow at every tier:
// the everyone overwrite, then the union of overwrites on held roles, then
// the member's own overwrite. The result is masked to the bits meaningful
// for the channel type and run through the dependency rules. Owner and
// administrator bypass all of it and keep the full set.
func (r *Resolver) ChannelPermissions(userID int64, roleIDs []int64, channelType models.ChannelType, overwrites []models.Overwrite) (Permission, error) {
	perms, err := r.MemberPermissions(userID, roleIDs)
	if err != nil {
		return 0, err
	}

	// Both bypasses surface as the administrator bit being present.
	if perms.Has(PermAdministrator) {
		return PermAll, nil
	}

	held := make(map[int64]bool, len(roleIDs))
	for _, roleID := range roleIDs {
		held[roleID] = true
	}

	var rolesAllow, rolesDeny Permission
	var memberAllow, memberDeny Permission

	for _, ow := range overwrites {
		switch ow.TargetType {
		case models.OverwriteRole:
			// The everyone overwrite is the lowest tier and applies
			// directly; role overwrites accumulate and apply after it.
			if ow.TargetID == r.guildID {
				perms = perms.Remove(Permission(ow.Deny))
				perms = perms.Add(Permission(ow.Allow))
				continue
			}
			if _, ok := r.roles[ow.TargetID]; !ok {
				return 0, &RoleNotFoundError{RoleID: ow.TargetID}
			}
			if !held[ow.TargetID] {
				continue
			}
			rolesAllow = rolesAllow.Add(Permission(ow.Allow))
			rolesDeny = rolesDeny.Add(Permission(ow.Deny))
		case models.OverwriteMember:
			if ow.TargetID != userID {
				continue
			}
			memberAllow = memberAllow.Add(Permission(ow.Allow))
			memberDeny = memberDeny.Add(Permission(ow.Deny))
		}
	}

	perms = perms.Remove(rolesDeny)
	perms = perms.Add(rolesAllow)
	perms = perms.Remove(memberDeny)
	perms = perms.Add(memberAllow)

	perms = perms.Intersect(ContextMask(channelType))
	perms = applyDependencies(perms)

	return perms, nil
}
