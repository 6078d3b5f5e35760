package service

import (
	"context"

	"github.com/mzhadan/rolegate/internal/database"
	"github.com/mzhadan/rolegate/internal/models"
	"github.com/mzhadan/rolegate/internal/permissions"
	"github.com/mzhadan/rolegate/internal/snowflake"
)

// ChannelService handles channel business logic.
type ChannelService struct {
	channels  database.ChannelRepository
	members   database.MemberRepository
	snowflake *snowflake.Generator
	perms     *PermissionService
}

// NewChannelService creates a ChannelService.
func NewChannelService(
	channels database.ChannelRepository,
	members database.MemberRepository,
	sf *snowflake.Generator,
	perms *PermissionService,
) *ChannelService {
	return &ChannelService{
		channels:  channels,
		members:   members,
		snowflake: sf,
		perms:     perms,
	}
}

// CreateChannel creates a channel in a guild. Requires MANAGE_CHANNELS.
func (s *ChannelService) CreateChannel(ctx context.Context, guildID, userID int64, name string, channelType models.ChannelType, position int) (*models.Channel, error) {
	if name == "" || len(name) > 100 {
		return nil, BadRequest("INVALID_NAME", "name must be 1-100 characters")
	}
	if !channelType.Valid() {
		return nil, BadRequest("INVALID_TYPE", "unknown channel type")
	}

	if err := s.perms.RequireGuildPermission(ctx, guildID, userID, permissions.PermManageChannels); err != nil {
		return nil, err
	}

	channel := &models.Channel{
		ID:       s.snowflake.Generate().Int64(),
		GuildID:  guildID,
		Name:     name,
		Type:     channelType,
		Position: position,
	}
	if err := s.channels.Create(ctx, channel); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	return channel, nil
}

// GetChannel returns a channel the user can view. VIEW_CHANNEL is evaluated
// against the channel's overwrites, so a channel hidden from the user's
// roles behaves as if it did not exist.
func (s *ChannelService) GetChannel(ctx context.Context, channelID, userID int64) (*models.Channel, error) {
	perms, channel, err := s.perms.ChannelPermissions(ctx, channelID, userID)
	if err != nil {
		return nil, err
	}
	if !perms.Has(permissions.PermViewChannel) {
		return nil, NotFound("NOT_FOUND", "channel not found")
	}
	return channel, nil
}

// ListChannels returns the guild's channels the user can view.
func (s *ChannelService) ListChannels(ctx context.Context, guildID, userID int64) ([]models.Channel, error) {
	member, err := s.members.GetByGuildAndUser(ctx, guildID, userID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if member == nil {
		return nil, NotFound("NOT_FOUND", "guild not found")
	}

	channels, err := s.channels.GetByGuildID(ctx, guildID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	visible := make([]models.Channel, 0, len(channels))
	for _, ch := range channels {
		perms, _, err := s.perms.ChannelPermissions(ctx, ch.ID, userID)
		if err != nil {
			return nil, err
		}
		if perms.Has(permissions.PermViewChannel) {
			visible = append(visible, ch)
		}
	}
	return visible, nil
}

// UpdateChannel updates a channel's name and/or position. Requires
// MANAGE_CHANNELS inside the channel.
func (s *ChannelService) UpdateChannel(ctx context.Context, channelID, userID int64, name *string, position *int) (*models.Channel, error) {
	if err := s.perms.RequireChannelPermission(ctx, channelID, userID, permissions.PermManageChannels); err != nil {
		return nil, err
	}

	channel, err := s.channels.GetByID(ctx, channelID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if channel == nil {
		return nil, NotFound("NOT_FOUND", "channel not found")
	}

	if name != nil {
		if *name == "" || len(*name) > 100 {
			return nil, BadRequest("INVALID_NAME", "name must be 1-100 characters")
		}
		channel.Name = *name
	}
	if position != nil {
		channel.Position = *position
	}

	if err := s.channels.Update(ctx, channel); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	return channel, nil
}

// DeleteChannel deletes a channel. Requires MANAGE_CHANNELS inside it.
func (s *ChannelService) DeleteChannel(ctx context.Context, channelID, userID int64) error {
	if err := s.perms.RequireChannelPermission(ctx, channelID, userID, permissions.PermManageChannels); err != nil {
		return err
	}

	if err := s.channels.Delete(ctx, channelID); err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	return nil
}
