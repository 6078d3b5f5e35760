package service

import (
	"context"
	"time"

	"github.com/mzhadan/rolegate/internal/database"
	"github.com/mzhadan/rolegate/internal/models"
	"github.com/mzhadan/rolegate/internal/permissions"
)

// MemberService handles member management business logic.
type MemberService struct {
	members database.MemberRepository
	guilds  database.GuildRepository
	perms   *PermissionService
}

// NewMemberService creates a MemberService.
func NewMemberService(
	members database.MemberRepository,
	guilds database.GuildRepository,
	perms *PermissionService,
) *MemberService {
	return &MemberService{
		members: members,
		guilds:  guilds,
		perms:   perms,
	}
}

// JoinGuild adds the user to a guild. Joining is open: any authenticated
// user can join any guild by ID.
func (s *MemberService) JoinGuild(ctx context.Context, guildID, userID int64) (*models.Member, error) {
	guild, err := s.guilds.GetByID(ctx, guildID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if guild == nil {
		return nil, NotFound("NOT_FOUND", "guild not found")
	}

	existing, err := s.members.GetByGuildAndUser(ctx, guildID, userID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if existing != nil {
		return nil, Conflict("ALREADY_MEMBER", "you are already a member of this guild")
	}

	member := &models.Member{
		GuildID:  guildID,
		UserID:   userID,
		JoinedAt: time.Now(),
	}
	if err := s.members.Create(ctx, member); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	return member, nil
}

// ListMembers returns members of a guild. Caller must be a member.
func (s *MemberService) ListMembers(ctx context.Context, guildID, userID int64, limit, offset int) ([]models.Member, error) {
	member, err := s.members.GetByGuildAndUser(ctx, guildID, userID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if member == nil {
		return nil, NotFound("NOT_FOUND", "guild not found")
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	members, err := s.members.GetByGuildID(ctx, guildID, limit, offset)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if members == nil {
		members = []models.Member{}
	}
	return members, nil
}

// GetMember returns a specific member. Caller must be a member.
func (s *MemberService) GetMember(ctx context.Context, guildID, callerID, targetUserID int64) (*models.Member, error) {
	callerMember, err := s.members.GetByGuildAndUser(ctx, guildID, callerID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if callerMember == nil {
		return nil, NotFound("NOT_FOUND", "guild not found")
	}

	member, err := s.members.GetByGuildAndUser(ctx, guildID, targetUserID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if member == nil {
		return nil, NotFound("NOT_FOUND", "member not found")
	}

	return member, nil
}

// UpdateSelf updates the caller's own member profile (nickname).
func (s *MemberService) UpdateSelf(ctx context.Context, guildID, userID int64, nickname *string) (*models.Member, error) {
	member, err := s.members.GetByGuildAndUser(ctx, guildID, userID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if member == nil {
		return nil, NotFound("NOT_FOUND", "guild not found")
	}

	if nickname != nil {
		if len(*nickname) > 32 {
			return nil, BadRequest("INVALID_NICKNAME", "nickname must be 32 characters or fewer")
		}
		if *nickname == "" {
			member.Nickname = nil
		} else {
			member.Nickname = nickname
		}
	}

	if err := s.members.Update(ctx, member); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	return member, nil
}

// KickMember removes a member from the guild. Requires KICK_MEMBERS; the
// owner cannot be kicked, and non-owners cannot kick members whose highest
// role is at or above their own.
func (s *MemberService) KickMember(ctx context.Context, guildID, callerID, targetUserID int64) error {
	if err := s.perms.RequireGuildPermission(ctx, guildID, callerID, permissions.PermKickMembers); err != nil {
		return err
	}

	guild, err := s.guilds.GetByID(ctx, guildID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if guild != nil && guild.OwnerID == targetUserID {
		return Forbidden("FORBIDDEN", "cannot kick the guild owner")
	}

	member, err := s.members.GetByGuildAndUser(ctx, guildID, targetUserID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if member == nil {
		return NotFound("NOT_FOUND", "member not found")
	}

	isOwner, err := s.perms.IsGuildOwner(ctx, guildID, callerID)
	if err != nil {
		return err
	}
	if !isOwner {
		callerHighest, err := s.perms.HighestRolePosition(ctx, guildID, callerID)
		if err != nil {
			return err
		}
		targetHighest, err := s.perms.HighestRolePosition(ctx, guildID, targetUserID)
		if err != nil {
			return err
		}
		if targetHighest >= callerHighest {
			return RoleHierarchyError("cannot kick a member with an equal or higher role")
		}
	}

	if err := s.members.Delete(ctx, guildID, targetUserID); err != nil {
		return Internal("INTERNAL", "internal server error")
	}

	return nil
}

// LeaveGuild allows a member to leave a guild. The owner cannot leave.
func (s *MemberService) LeaveGuild(ctx context.Context, guildID, userID int64) error {
	guild, err := s.guilds.GetByID(ctx, guildID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if guild != nil && guild.OwnerID == userID {
		return Forbidden("FORBIDDEN", "guild owner cannot leave; transfer ownership or delete the guild")
	}

	member, err := s.members.GetByGuildAndUser(ctx, guildID, userID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if member == nil {
		return NotFound("NOT_FOUND", "you are not a member of this guild")
	}

	if err := s.members.Delete(ctx, guildID, userID); err != nil {
		return Internal("INTERNAL", "internal server error")
	}

	return nil
}
