package service

import (
	"context"

	"github.com/mzhadan/rolegate/internal/database"
	"github.com/mzhadan/rolegate/internal/models"
	"github.com/mzhadan/rolegate/internal/permissions"
	"github.com/mzhadan/rolegate/internal/snowflake"
)

// RoleService handles role and channel overwrite business logic.
type RoleService struct {
	guilds     database.GuildRepository
	roles      database.RoleRepository
	members    database.MemberRepository
	channels   database.ChannelRepository
	overwrites database.OverwriteRepository
	snowflake  *snowflake.Generator
	perms      *PermissionService
}

// NewRoleService creates a RoleService.
func NewRoleService(
	guilds database.GuildRepository,
	roles database.RoleRepository,
	members database.MemberRepository,
	channels database.ChannelRepository,
	overwrites database.OverwriteRepository,
	sf *snowflake.Generator,
	perms *PermissionService,
) *RoleService {
	return &RoleService{
		guilds:     guilds,
		roles:      roles,
		members:    members,
		channels:   channels,
		overwrites: overwrites,
		snowflake:  sf,
		perms:      perms,
	}
}

// CreateRole creates a new role in a guild. Requires MANAGE_ROLES, with
// role hierarchy enforcement for non-owners.
func (s *RoleService) CreateRole(ctx context.Context, guildID, actorID int64, name string, color int, permBits int64, position int) (*models.Role, error) {
	if name == "" || len(name) > 100 {
		return nil, BadRequest("INVALID_NAME", "name must be 1-100 characters")
	}
	if position < 1 {
		return nil, BadRequest("INVALID_POSITION", "position must be at least 1")
	}

	if err := s.perms.RequireGuildPermission(ctx, guildID, actorID, permissions.PermManageRoles); err != nil {
		return nil, err
	}

	isOwner, err := s.perms.IsGuildOwner(ctx, guildID, actorID)
	if err != nil {
		return nil, err
	}
	if !isOwner {
		highest, err := s.perms.HighestRolePosition(ctx, guildID, actorID)
		if err != nil {
			return nil, err
		}
		if position >= highest {
			return nil, RoleHierarchyError("cannot create a role at or above your highest role position")
		}
	}

	role := &models.Role{
		ID:          s.snowflake.Generate().Int64(),
		GuildID:     guildID,
		Name:        name,
		Color:       color,
		Permissions: int64(permissions.Permission(permBits).Intersect(permissions.PermAll)),
		Position:    position,
	}

	if err := s.roles.Create(ctx, role); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	return role, nil
}

// ListRoles returns all roles for a guild. Caller must be a member.
func (s *RoleService) ListRoles(ctx context.Context, guildID, userID int64) ([]models.Role, error) {
	member, err := s.members.GetByGuildAndUser(ctx, guildID, userID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if member == nil {
		return nil, NotFound("NOT_FOUND", "guild not found")
	}

	roles, err := s.roles.GetByGuildID(ctx, guildID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if roles == nil {
		roles = []models.Role{}
	}
	return roles, nil
}

// UpdateRole updates a role. Requires MANAGE_ROLES, with hierarchy
// enforcement. The everyone role cannot be renamed or repositioned, but its
// permission grant can change.
func (s *RoleService) UpdateRole(ctx context.Context, guildID, actorID, roleID int64, name *string, color *int, permBits *int64, position *int) (*models.Role, error) {
	if err := s.perms.RequireGuildPermission(ctx, guildID, actorID, permissions.PermManageRoles); err != nil {
		return nil, err
	}

	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if role == nil || role.GuildID != guildID {
		return nil, NotFound("NOT_FOUND", "role not found")
	}

	if role.IsEveryone() && (name != nil || position != nil) {
		return nil, Forbidden("CANNOT_MODIFY", "the everyone role cannot be renamed or repositioned")
	}

	isOwner, err := s.perms.IsGuildOwner(ctx, guildID, actorID)
	if err != nil {
		return nil, err
	}
	if !isOwner {
		highest, err := s.perms.HighestRolePosition(ctx, guildID, actorID)
		if err != nil {
			return nil, err
		}
		if !role.IsEveryone() && role.Position >= highest {
			return nil, RoleHierarchyError("cannot modify a role at or above your highest role position")
		}
	}

	if name != nil {
		if *name == "" || len(*name) > 100 {
			return nil, BadRequest("INVALID_NAME", "name must be 1-100 characters")
		}
		role.Name = *name
	}
	if color != nil {
		role.Color = *color
	}
	if permBits != nil {
		role.Permissions = int64(permissions.Permission(*permBits).Intersect(permissions.PermAll))
	}
	if position != nil {
		if *position < 1 {
			return nil, BadRequest("INVALID_POSITION", "position must be at least 1")
		}
		role.Position = *position
	}

	if err := s.roles.Update(ctx, role); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	return role, nil
}

// DeleteRole deletes a role. The everyone role cannot be deleted.
func (s *RoleService) DeleteRole(ctx context.Context, guildID, actorID, roleID int64) error {
	if err := s.perms.RequireGuildPermission(ctx, guildID, actorID, permissions.PermManageRoles); err != nil {
		return err
	}

	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if role == nil || role.GuildID != guildID {
		return NotFound("NOT_FOUND", "role not found")
	}
	if role.IsEveryone() {
		return Forbidden("CANNOT_DELETE", "cannot delete the everyone role")
	}

	isOwner, err := s.perms.IsGuildOwner(ctx, guildID, actorID)
	if err != nil {
		return err
	}
	if !isOwner {
		highest, err := s.perms.HighestRolePosition(ctx, guildID, actorID)
		if err != nil {
			return err
		}
		if role.Position >= highest {
			return RoleHierarchyError("cannot delete a role at or above your highest role position")
		}
	}

	if err := s.roles.Delete(ctx, roleID); err != nil {
		return Internal("INTERNAL", "internal server error")
	}

	return nil
}

// AssignRole assigns a role to a member. The everyone role is implicit and
// cannot be assigned.
func (s *RoleService) AssignRole(ctx context.Context, guildID, actorID, userID, roleID int64) error {
	if err := s.perms.RequireGuildPermission(ctx, guildID, actorID, permissions.PermManageRoles); err != nil {
		return err
	}

	member, err := s.members.GetByGuildAndUser(ctx, guildID, userID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if member == nil {
		return NotFound("NOT_FOUND", "member not found")
	}

	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if role == nil || role.GuildID != guildID {
		return NotFound("NOT_FOUND", "role not found")
	}
	if role.IsEveryone() {
		return BadRequest("INVALID_ROLE", "the everyone role is held implicitly")
	}

	isOwner, err := s.perms.IsGuildOwner(ctx, guildID, actorID)
	if err != nil {
		return err
	}
	if !isOwner {
		highest, err := s.perms.HighestRolePosition(ctx, guildID, actorID)
		if err != nil {
			return err
		}
		if role.Position >= highest {
			return RoleHierarchyError("cannot assign a role at or above your highest role position")
		}
	}

	if err := s.members.AddRole(ctx, guildID, userID, roleID); err != nil {
		return Internal("INTERNAL", "internal server error")
	}

	return nil
}

// RemoveRole removes a role from a member.
func (s *RoleService) RemoveRole(ctx context.Context, guildID, actorID, userID, roleID int64) error {
	if err := s.perms.RequireGuildPermission(ctx, guildID, actorID, permissions.PermManageRoles); err != nil {
		return err
	}

	isOwner, err := s.perms.IsGuildOwner(ctx, guildID, actorID)
	if err != nil {
		return err
	}
	if !isOwner {
		role, err := s.roles.GetByID(ctx, roleID)
		if err != nil {
			return Internal("INTERNAL", "internal server error")
		}
		if role != nil {
			highest, err := s.perms.HighestRolePosition(ctx, guildID, actorID)
			if err != nil {
				return err
			}
			if role.Position >= highest {
				return RoleHierarchyError("cannot remove a role at or above your highest role position")
			}
		}
	}

	if err := s.members.RemoveRole(ctx, guildID, userID, roleID); err != nil {
		return Internal("INTERNAL", "internal server error")
	}

	return nil
}

// SetOverwrite creates or replaces a channel permission overwrite. Requires
// MANAGE_ROLES inside the channel. The target must be a role of the
// channel's guild or a member of it, matching the target type.
func (s *RoleService) SetOverwrite(ctx context.Context, channelID, actorID, targetID int64, targetType models.OverwriteTarget, allow, deny int64) (*models.Overwrite, error) {
	ch, err := s.channels.GetByID(ctx, channelID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if ch == nil {
		return nil, NotFound("NOT_FOUND", "channel not found")
	}

	if err := s.perms.RequireChannelPermission(ctx, channelID, actorID, permissions.PermManageRoles); err != nil {
		return nil, err
	}

	switch targetType {
	case models.OverwriteRole:
		role, err := s.roles.GetByID(ctx, targetID)
		if err != nil {
			return nil, Internal("INTERNAL", "internal server error")
		}
		if role == nil || role.GuildID != ch.GuildID {
			return nil, NotFound("NOT_FOUND", "role not found")
		}
	case models.OverwriteMember:
		member, err := s.members.GetByGuildAndUser(ctx, ch.GuildID, targetID)
		if err != nil {
			return nil, Internal("INTERNAL", "internal server error")
		}
		if member == nil {
			return nil, NotFound("NOT_FOUND", "member not found")
		}
	default:
		return nil, BadRequest("INVALID_TARGET_TYPE", "target_type must be 0 (role) or 1 (member)")
	}

	overwrite := &models.Overwrite{
		ChannelID:  channelID,
		TargetID:   targetID,
		TargetType: targetType,
		Allow:      int64(permissions.Permission(allow).Intersect(permissions.PermAll)),
		Deny:       int64(permissions.Permission(deny).Intersect(permissions.PermAll)),
	}

	if err := s.overwrites.Set(ctx, overwrite); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	return overwrite, nil
}

// DeleteOverwrite removes a channel permission overwrite.
func (s *RoleService) DeleteOverwrite(ctx context.Context, channelID, actorID, targetID int64, targetType models.OverwriteTarget) error {
	ch, err := s.channels.GetByID(ctx, channelID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if ch == nil {
		return NotFound("NOT_FOUND", "channel not found")
	}

	if err := s.perms.RequireChannelPermission(ctx, channelID, actorID, permissions.PermManageRoles); err != nil {
		return err
	}

	if err := s.overwrites.Delete(ctx, channelID, targetID, targetType); err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	return nil
}
