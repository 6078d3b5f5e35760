package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mzhadan/rolegate/internal/api"
	"github.com/mzhadan/rolegate/internal/auth"
	"github.com/mzhadan/rolegate/internal/config"
	"github.com/mzhadan/rolegate/internal/database"
	redisclient "github.com/mzhadan/rolegate/internal/redis"
	"github.com/mzhadan/rolegate/internal/service"
	"github.com/mzhadan/rolegate/internal/snowflake"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	// --- Infrastructure ---

	pool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	rdb, err := redisclient.NewClient(cfg.RedisURL)
	if err != nil {
		slog.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()

	sf, err := snowflake.NewGenerator(cfg.NodeID)
	if err != nil {
		slog.Error("snowflake init failed", "error", err)
		os.Exit(1)
	}
	tokenSvc := auth.NewTokenService(cfg.JWTSecret)

	// --- Repositories ---

	users := database.NewUserRepository(pool)
	guilds := database.NewGuildRepository(pool)
	channels := database.NewChannelRepository(pool)
	roles := database.NewRoleRepository(pool)
	members := database.NewMemberRepository(pool)
	overwrites := database.NewOverwriteRepository(pool)

	// --- Services ---

	permSvc := service.NewPermissionService(guilds, members, roles, channels, overwrites)
	authSvc := service.NewAuthService(users, tokenSvc, rdb, sf)
	guildSvc := service.NewGuildService(guilds, channels, members, sf, permSvc)
	roleSvc := service.NewRoleService(guilds, roles, members, channels, overwrites, sf, permSvc)
	memberSvc := service.NewMemberService(members, guilds, permSvc)
	channelSvc := service.NewChannelService(channels, members, sf, permSvc)
	userSvc := service.NewUserService(users)

	// --- Handlers ---

	deps := &api.Dependencies{
		Auth:         api.NewAuthHandler(authSvc),
		Guilds:       api.NewGuildHandler(guildSvc),
		Channels:     api.NewChannelHandler(channelSvc),
		Members:      api.NewMemberHandler(memberSvc),
		Users:        api.NewUserHandler(userSvc),
		Roles:        api.NewRoleHandler(roleSvc),
		Permissions:  api.NewPermissionHandler(permSvc),
		TokenService: tokenSvc,
		Redis:        rdb,
	}

	// --- Echo ---

	e := echo.New()
	e.HidePort = true
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	api.SetupRouter(e, deps)

	// --- Start ---

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("rolegate starting", "addr", cfg.ServerAddr)
		if err := e.Start(cfg.ServerAddr); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-sigCtx.Done()
	slog.Info("shutting down")
	if err := e.Shutdown(context.Background()); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
