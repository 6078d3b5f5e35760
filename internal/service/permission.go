package service

import (
	"context"
	"errors"

	"github.com/mzhadan/rolegate/internal/database"
	"github.com/mzhadan/rolegate/internal/models"
	"github.com/mzhadan/rolegate/internal/permissions"
)

// PermissionService computes effective permissions by assembling resolver
// inputs from storage and running the resolver over them.
type PermissionService struct {
	guilds     database.GuildRepository
	members    database.MemberRepository
	roles      database.RoleRepository
	channels   database.ChannelRepository
	overwrites database.OverwriteRepository
}

// NewPermissionService creates a PermissionService.
func NewPermissionService(
	guilds database.GuildRepository,
	members database.MemberRepository,
	roles database.RoleRepository,
	channels database.ChannelRepository,
	overwrites database.OverwriteRepository,
) *PermissionService {
	return &PermissionService{
		guilds:     guilds,
		members:    members,
		roles:      roles,
		channels:   channels,
		overwrites: overwrites,
	}
}

// resolverFor loads a guild's role grants and builds a resolver over them.
func (s *PermissionService) resolverFor(ctx context.Context, guildID int64) (*permissions.Resolver, error) {
	guild, err := s.guilds.GetByID(ctx, guildID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if guild == nil {
		return nil, NotFound("NOT_FOUND", "guild not found")
	}

	roles, err := s.roles.GetByGuildID(ctx, guildID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	grants := make(map[int64]permissions.Permission, len(roles))
	for _, role := range roles {
		grants[role.ID] = permissions.Permission(role.Permissions)
	}

	resolver, err := permissions.NewResolver(guild.ID, guild.OwnerID, grants)
	if err != nil {
		return nil, mapResolverError(err)
	}
	return resolver, nil
}

// memberRoleIDs returns the assigned role IDs of a member, failing with
// NOT_FOUND when the user is not a member of the guild.
func (s *PermissionService) memberRoleIDs(ctx context.Context, guildID, userID int64) ([]int64, error) {
	member, err := s.members.GetByGuildAndUser(ctx, guildID, userID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if member == nil {
		return nil, NotFound("NOT_FOUND", "member not found")
	}
	return member.RoleIDs, nil
}

// GuildPermissions computes a member's guild-level permissions.
func (s *PermissionService) GuildPermissions(ctx context.Context, guildID, userID int64) (permissions.Permission, error) {
	resolver, err := s.resolverFor(ctx, guildID)
	if err != nil {
		return 0, err
	}

	roleIDs, err := s.memberRoleIDs(ctx, guildID, userID)
	if err != nil {
		return 0, err
	}

	perms, err := resolver.MemberPermissions(userID, roleIDs)
	if err != nil {
		return 0, mapResolverError(err)
	}
	return perms, nil
}

// ChannelPermissions computes a member's permissions inside a channel,
// returning the channel alongside the bitmask.
func (s *PermissionService) ChannelPermissions(ctx context.Context, channelID, userID int64) (permissions.Permission, *models.Channel, error) {
	channel, err := s.channels.GetByID(ctx, channelID)
	if err != nil {
		return 0, nil, Internal("INTERNAL", "internal server error")
	}
	if channel == nil {
		return 0, nil, NotFound("NOT_FOUND", "channel not found")
	}

	resolver, err := s.resolverFor(ctx, channel.GuildID)
	if err != nil {
		return 0, nil, err
	}

	roleIDs, err := s.memberRoleIDs(ctx, channel.GuildID, userID)
	if err != nil {
		return 0, nil, err
	}

	overwrites, err := s.overwrites.GetByChannel(ctx, channelID)
	if err != nil {
		return 0, nil, Internal("INTERNAL", "internal server error")
	}

	perms, err := resolver.ChannelPermissions(userID, roleIDs, channel.Type, overwrites)
	if err != nil {
		return 0, nil, mapResolverError(err)
	}
	return perms, channel, nil
}

// RequireGuildPermission fails with a forbidden error unless the user holds
// the given permission at the guild level.
func (s *PermissionService) RequireGuildPermission(ctx context.Context, guildID, userID int64, perm permissions.Permission) error {
	perms, err := s.GuildPermissions(ctx, guildID, userID)
	if err != nil {
		var svcErr *ServiceError
		if errors.As(err, &svcErr) && errors.Is(svcErr, ErrNotFound) {
			return Forbidden("FORBIDDEN", "you are not a member of this guild")
		}
		return err
	}
	if !perms.Has(perm) {
		return Forbidden("MISSING_PERMISSIONS", "you do not have permission to perform this action")
	}
	return nil
}

// RequireChannelPermission fails with a forbidden error unless the user
// holds the given permission inside the channel.
func (s *PermissionService) RequireChannelPermission(ctx context.Context, channelID, userID int64, perm permissions.Permission) error {
	perms, _, err := s.ChannelPermissions(ctx, channelID, userID)
	if err != nil {
		var svcErr *ServiceError
		if errors.As(err, &svcErr) && errors.Is(svcErr, ErrNotFound) && svcErr.Message == "member not found" {
			return Forbidden("FORBIDDEN", "you are not a member of this guild")
		}
		return err
	}
	if !perms.Has(perm) {
		return Forbidden("MISSING_PERMISSIONS", "you do not have permission to perform this action")
	}
	return nil
}

// IsGuildOwner returns true if the user owns the guild.
func (s *PermissionService) IsGuildOwner(ctx context.Context, guildID, userID int64) (bool, error) {
	guild, err := s.guilds.GetByID(ctx, guildID)
	if err != nil {
		return false, Internal("INTERNAL", "internal server error")
	}
	if guild == nil {
		return false, NotFound("NOT_FOUND", "guild not found")
	}
	return guild.OwnerID == userID, nil
}

// HighestRolePosition returns the highest position among the user's
// assigned roles. Members with no assigned roles sit at position 0, the
// everyone role's position.
func (s *PermissionService) HighestRolePosition(ctx context.Context, guildID, userID int64) (int, error) {
	roleIDs, err := s.roles.GetIDsByMember(ctx, guildID, userID)
	if err != nil {
		return 0, Internal("INTERNAL", "internal server error")
	}
	if len(roleIDs) == 0 {
		return 0, nil
	}

	held := make(map[int64]bool, len(roleIDs))
	for _, id := range roleIDs {
		held[id] = true
	}

	roles, err := s.roles.GetByGuildID(ctx, guildID)
	if err != nil {
		return 0, Internal("INTERNAL", "internal server error")
	}

	highest := 0
	for _, role := range roles {
		if held[role.ID] && role.Position > highest {
			highest = role.Position
		}
	}
	return highest, nil
}

// mapResolverError translates resolver failures into service errors. Both
// kinds signal inconsistent stored state rather than a bad request: the
// inputs were assembled from our own storage.
func mapResolverError(err error) *ServiceError {
	switch {
	case errors.Is(err, permissions.ErrRoleNotFound):
		return Internal("STATE_INCONSISTENT", "guild role data is inconsistent")
	case errors.Is(err, permissions.ErrInvalidInput):
		return Internal("STATE_INCONSISTENT", "guild is missing its everyone role")
	default:
		return Internal("INTERNAL", "internal server error")
	}
}
