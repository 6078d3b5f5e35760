package database

import (
	"context"

	"github.com/mzhadan/rolegate/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
}

type GuildRepository interface {
	// Create inserts the guild together with its everyone role (sharing the
	// guild's ID) and the owner's membership, in one transaction.
	Create(ctx context.Context, guild *models.Guild, everyonePerms int64) error
	GetByID(ctx context.Context, id int64) (*models.Guild, error)
	Update(ctx context.Context, guild *models.Guild) error
	Delete(ctx context.Context, id int64) error
	GetByUserID(ctx context.Context, userID int64) ([]models.Guild, error)
}

type RoleRepository interface {
	Create(ctx context.Context, role *models.Role) error
	GetByID(ctx context.Context, id int64) (*models.Role, error)
	GetByGuildID(ctx context.Context, guildID int64) ([]models.Role, error)
	Update(ctx context.Context, role *models.Role) error
	Delete(ctx context.Context, id int64) error
	// GetIDsByMember returns the IDs of the roles explicitly assigned to a
	// member; the everyone role is implicit and not included.
	GetIDsByMember(ctx context.Context, guildID, userID int64) ([]int64, error)
}

type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByGuildAndUser(ctx context.Context, guildID, userID int64) (*models.Member, error)
	GetByGuildID(ctx context.Context, guildID int64, limit, offset int) ([]models.Member, error)
	Update(ctx context.Context, member *models.Member) error
	Delete(ctx context.Context, guildID, userID int64) error
	AddRole(ctx context.Context, guildID, userID, roleID int64) error
	RemoveRole(ctx context.Context, guildID, userID, roleID int64) error
}

type ChannelRepository interface {
	Create(ctx context.Context, channel *models.Channel) error
	GetByID(ctx context.Context, id int64) (*models.Channel, error)
	GetByGuildID(ctx context.Context, guildID int64) ([]models.Channel, error)
	Update(ctx context.Context, channel *models.Channel) error
	Delete(ctx context.Context, id int64) error
}

type OverwriteRepository interface {
	Set(ctx context.Context, overwrite *models.Overwrite) error
	GetByChannel(ctx context.Context, channelID int64) ([]models.Overwrite, error)
	Delete(ctx context.Context, channelID, targetID int64, targetType models.OverwriteTarget) error
}
