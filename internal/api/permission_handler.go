package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mzhadan/rolegate/internal/auth"
	"github.com/mzhadan/rolegate/internal/service"
)

// PermissionHandler exposes effective-permission queries.
type PermissionHandler struct {
	service *service.PermissionService
}

// NewPermissionHandler creates a PermissionHandler.
func NewPermissionHandler(svc *service.PermissionService) *PermissionHandler {
	return &PermissionHandler{service: svc}
}

type permissionResponse struct {
	GuildID     int64    `json:"guild_id,string"`
	ChannelID   *int64   `json:"channel_id,string,omitempty"`
	UserID      int64    `json:"user_id,string"`
	Permissions int64    `json:"permissions,string"`
	Names       []string `json:"names"`
}

// GetGuildPermissions handles
// GET /api/v1/guilds/:id/members/:user_id/permissions.
func (h *PermissionHandler) GetGuildPermissions(c echo.Context) error {
	guildID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid guild id")
	}

	targetID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid user id")
	}

	callerID := auth.GetUserID(c)
	ctx := c.Request().Context()

	// The caller must be a member themselves before inspecting others.
	if callerID != targetID {
		if _, err := h.service.GuildPermissions(ctx, guildID, callerID); err != nil {
			return mapServiceError(c, err)
		}
	}

	perms, err := h.service.GuildPermissions(ctx, guildID, targetID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, permissionResponse{
		GuildID:     guildID,
		UserID:      targetID,
		Permissions: int64(perms),
		Names:       perms.Names(),
	})
}

// GetChannelPermissions handles
// GET /api/v1/channels/:id/members/:user_id/permissions.
func (h *PermissionHandler) GetChannelPermissions(c echo.Context) error {
	channelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid channel id")
	}

	targetID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid user id")
	}

	callerID := auth.GetUserID(c)
	ctx := c.Request().Context()

	if callerID != targetID {
		if _, _, err := h.service.ChannelPermissions(ctx, channelID, callerID); err != nil {
			return mapServiceError(c, err)
		}
	}

	perms, ch, err := h.service.ChannelPermissions(ctx, channelID, targetID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, permissionResponse{
		GuildID:     ch.GuildID,
		ChannelID:   &channelID,
		UserID:      targetID,
		Permissions: int64(perms),
		Names:       perms.Names(),
	})
}
