package api

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"

	"github.com/mzhadan/rolegate/internal/models"
	redisclient "github.com/mzhadan/rolegate/internal/redis"
	"github.com/mzhadan/rolegate/internal/service"
	"github.com/mzhadan/rolegate/internal/snowflake"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

func newTestContext(method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

func setAuthUser(c echo.Context, userID int64) {
	c.Set("user_id", userID)
}

func testSnowflake() *snowflake.Generator {
	sf, _ := snowflake.NewGenerator(1)
	return sf
}

func newTestRedis(t *testing.T) *redisclient.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	return redisclient.NewClientFromRedis(rdb)
}

func newPermissionService(
	guilds *mockGuildRepo,
	roles *mockRoleRepo,
	members *mockMemberRepo,
	channels *mockChannelRepo,
	overwrites *mockOverwriteRepo,
) *service.PermissionService {
	return service.NewPermissionService(guilds, members, roles, channels, overwrites)
}

// ---------------------------------------------------------------------------
// Mock repositories
// ---------------------------------------------------------------------------

// mockUserRepo implements database.UserRepository.
type mockUserRepo struct {
	CreateFn        func(ctx context.Context, user *models.User) error
	GetByIDFn       func(ctx context.Context, id int64) (*models.User, error)
	GetByUsernameFn func(ctx context.Context, username string) (*models.User, error)
	UpdateFn        func(ctx context.Context, user *models.User) error
	DeleteFn        func(ctx context.Context, id int64) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}
	return nil, nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

// mockGuildRepo implements database.GuildRepository.
type mockGuildRepo struct {
	CreateFn      func(ctx context.Context, guild *models.Guild, everyonePerms int64) error
	GetByIDFn     func(ctx context.Context, id int64) (*models.Guild, error)
	UpdateFn      func(ctx context.Context, guild *models.Guild) error
	DeleteFn      func(ctx context.Context, id int64) error
	GetByUserIDFn func(ctx context.Context, userID int64) ([]models.Guild, error)
}

func (m *mockGuildRepo) Create(ctx context.Context, guild *models.Guild, everyonePerms int64) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, guild, everyonePerms)
	}
	return nil
}

func (m *mockGuildRepo) GetByID(ctx context.Context, id int64) (*models.Guild, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockGuildRepo) Update(ctx context.Context, guild *models.Guild) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, guild)
	}
	return nil
}

func (m *mockGuildRepo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *mockGuildRepo) GetByUserID(ctx context.Context, userID int64) ([]models.Guild, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, nil
}

// mockRoleRepo implements database.RoleRepository.
type mockRoleRepo struct {
	CreateFn         func(ctx context.Context, role *models.Role) error
	GetByIDFn        func(ctx context.Context, id int64) (*models.Role, error)
	GetByGuildIDFn   func(ctx context.Context, guildID int64) ([]models.Role, error)
	UpdateFn         func(ctx context.Context, role *models.Role) error
	DeleteFn         func(ctx context.Context, id int64) error
	GetIDsByMemberFn func(ctx context.Context, guildID, userID int64) ([]int64, error)
}

func (m *mockRoleRepo) Create(ctx context.Context, role *models.Role) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, role)
	}
	return nil
}

func (m *mockRoleRepo) GetByID(ctx context.Context, id int64) (*models.Role, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockRoleRepo) GetByGuildID(ctx context.Context, guildID int64) ([]models.Role, error) {
	if m.GetByGuildIDFn != nil {
		return m.GetByGuildIDFn(ctx, guildID)
	}
	return nil, nil
}

func (m *mockRoleRepo) Update(ctx context.Context, role *models.Role) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, role)
	}
	return nil
}

func (m *mockRoleRepo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *mockRoleRepo) GetIDsByMember(ctx context.Context, guildID, userID int64) ([]int64, error) {
	if m.GetIDsByMemberFn != nil {
		return m.GetIDsByMemberFn(ctx, guildID, userID)
	}
	return nil, nil
}

// mockMemberRepo implements database.MemberRepository.
type mockMemberRepo struct {
	CreateFn            func(ctx context.Context, member *models.Member) error
	GetByGuildAndUserFn func(ctx context.Context, guildID, userID int64) (*models.Member, error)
	GetByGuildIDFn      func(ctx context.Context, guildID int64, limit, offset int) ([]models.Member, error)
	UpdateFn            func(ctx context.Context, member *models.Member) error
	DeleteFn            func(ctx context.Context, guildID, userID int64) error
	AddRoleFn           func(ctx context.Context, guildID, userID, roleID int64) error
	RemoveRoleFn        func(ctx context.Context, guildID, userID, roleID int64) error
}

func (m *mockMemberRepo) Create(ctx context.Context, member *models.Member) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, member)
	}
	return nil
}

func (m *mockMemberRepo) GetByGuildAndUser(ctx context.Context, guildID, userID int64) (*models.Member, error) {
	if m.GetByGuildAndUserFn != nil {
		return m.GetByGuildAndUserFn(ctx, guildID, userID)
	}
	return nil, nil
}

func (m *mockMemberRepo) GetByGuildID(ctx context.Context, guildID int64, limit, offset int) ([]models.Member, error) {
	if m.GetByGuildIDFn != nil {
		return m.GetByGuildIDFn(ctx, guildID, limit, offset)
	}
	return nil, nil
}

func (m *mockMemberRepo) Update(ctx context.Context, member *models.Member) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, member)
	}
	return nil
}

func (m *mockMemberRepo) Delete(ctx context.Context, guildID, userID int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, guildID, userID)
	}
	return nil
}

func (m *mockMemberRepo) AddRole(ctx context.Context, guildID, userID, roleID int64) error {
	if m.AddRoleFn != nil {
		return m.AddRoleFn(ctx, guildID, userID, roleID)
	}
	return nil
}

func (m *mockMemberRepo) RemoveRole(ctx context.Context, guildID, userID, roleID int64) error {
	if m.RemoveRoleFn != nil {
		return m.RemoveRoleFn(ctx, guildID, userID, roleID)
	}
	return nil
}

// mockChannelRepo implements database.ChannelRepository.
type mockChannelRepo struct {
	CreateFn       func(ctx context.Context, channel *models.Channel) error
	GetByIDFn      func(ctx context.Context, id int64) (*models.Channel, error)
	GetByGuildIDFn func(ctx context.Context, guildID int64) ([]models.Channel, error)
	UpdateFn       func(ctx context.Context, channel *models.Channel) error
	DeleteFn       func(ctx context.Context, id int64) error
}

func (m *mockChannelRepo) Create(ctx context.Context, channel *models.Channel) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, channel)
	}
	return nil
}

func (m *mockChannelRepo) GetByID(ctx context.Context, id int64) (*models.Channel, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockChannelRepo) GetByGuildID(ctx context.Context, guildID int64) ([]models.Channel, error) {
	if m.GetByGuildIDFn != nil {
		return m.GetByGuildIDFn(ctx, guildID)
	}
	return nil, nil
}

func (m *mockChannelRepo) Update(ctx context.Context, channel *models.Channel) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, channel)
	}
	return nil
}

func (m *mockChannelRepo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

// mockOverwriteRepo implements database.OverwriteRepository.
type mockOverwriteRepo struct {
	SetFn          func(ctx context.Context, overwrite *models.Overwrite) error
	GetByChannelFn func(ctx context.Context, channelID int64) ([]models.Overwrite, error)
	DeleteFn       func(ctx context.Context, channelID, targetID int64, targetType models.OverwriteTarget) error
}

func (m *mockOverwriteRepo) Set(ctx context.Context, overwrite *models.Overwrite) error {
	if m.SetFn != nil {
		return m.SetFn(ctx, overwrite)
	}
	return nil
}

func (m *mockOverwriteRepo) GetByChannel(ctx context.Context, channelID int64) ([]models.Overwrite, error) {
	if m.GetByChannelFn != nil {
		return m.GetByChannelFn(ctx, channelID)
	}
	return nil, nil
}

func (m *mockOverwriteRepo) Delete(ctx context.Context, channelID, targetID int64, targetType models.OverwriteTarget) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, channelID, targetID, targetType)
	}
	return nil
}
