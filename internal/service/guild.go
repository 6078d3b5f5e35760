package service

import (
	"context"
	"time"

	"github.com/mzhadan/rolegate/internal/database"
	"github.com/mzhadan/rolegate/internal/models"
	"github.com/mzhadan/rolegate/internal/permissions"
	"github.com/mzhadan/rolegate/internal/snowflake"
)

// GuildService handles guild business logic.
type GuildService struct {
	guilds    database.GuildRepository
	channels  database.ChannelRepository
	members   database.MemberRepository
	snowflake *snowflake.Generator
	perms     *PermissionService
}

// NewGuildService creates a GuildService.
func NewGuildService(
	guilds database.GuildRepository,
	channels database.ChannelRepository,
	members database.MemberRepository,
	sf *snowflake.Generator,
	perms *PermissionService,
) *GuildService {
	return &GuildService{
		guilds:    guilds,
		channels:  channels,
		members:   members,
		snowflake: sf,
		perms:     perms,
	}
}

// CreateGuild creates a guild. The everyone role (sharing the guild's ID)
// and the owner's membership are created in the same transaction; a default
// text channel follows.
func (s *GuildService) CreateGuild(ctx context.Context, userID int64, name string) (*models.Guild, error) {
	if len(name) < 2 || len(name) > 100 {
		return nil, BadRequest("INVALID_NAME", "guild name must be 2-100 characters")
	}

	guild := &models.Guild{
		ID:        s.snowflake.Generate().Int64(),
		Name:      name,
		OwnerID:   userID,
		CreatedAt: time.Now(),
	}
	if err := s.guilds.Create(ctx, guild, int64(permissions.DefaultEveryonePerms)); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	general := &models.Channel{
		ID:       s.snowflake.Generate().Int64(),
		GuildID:  guild.ID,
		Name:     "general",
		Type:     models.ChannelTypeText,
		Position: 0,
	}
	if err := s.channels.Create(ctx, general); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	return guild, nil
}

// GetGuild returns a guild if the user is a member.
func (s *GuildService) GetGuild(ctx context.Context, guildID, userID int64) (*models.Guild, error) {
	member, err := s.members.GetByGuildAndUser(ctx, guildID, userID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if member == nil {
		return nil, NotFound("NOT_FOUND", "guild not found")
	}

	guild, err := s.guilds.GetByID(ctx, guildID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if guild == nil {
		return nil, NotFound("NOT_FOUND", "guild not found")
	}

	return guild, nil
}

// UpdateGuild renames a guild. Requires MANAGE_GUILD.
func (s *GuildService) UpdateGuild(ctx context.Context, guildID, userID int64, name *string) (*models.Guild, error) {
	if err := s.perms.RequireGuildPermission(ctx, guildID, userID, permissions.PermManageGuild); err != nil {
		return nil, err
	}

	guild, err := s.guilds.GetByID(ctx, guildID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if guild == nil {
		return nil, NotFound("NOT_FOUND", "guild not found")
	}

	if name != nil {
		if len(*name) < 2 || len(*name) > 100 {
			return nil, BadRequest("INVALID_NAME", "guild name must be 2-100 characters")
		}
		guild.Name = *name
	}

	if err := s.guilds.Update(ctx, guild); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	return guild, nil
}

// DeleteGuild deletes a guild. Only the owner can delete.
func (s *GuildService) DeleteGuild(ctx context.Context, guildID, userID int64) error {
	guild, err := s.guilds.GetByID(ctx, guildID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if guild == nil {
		return NotFound("NOT_FOUND", "guild not found")
	}
	if guild.OwnerID != userID {
		return Forbidden("FORBIDDEN", "only the guild owner can delete the guild")
	}

	if err := s.guilds.Delete(ctx, guildID); err != nil {
		return Internal("INTERNAL", "internal server error")
	}

	return nil
}

// ListMyGuilds returns all guilds the user is a member of.
func (s *GuildService) ListMyGuilds(ctx context.Context, userID int64) ([]models.Guild, error) {
	guilds, err := s.guilds.GetByUserID(ctx, userID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if guilds == nil {
		guilds = []models.Guild{}
	}
	return guilds, nil
}
